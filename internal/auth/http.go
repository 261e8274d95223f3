package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches auth routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/google", h.login)
}

type loginReq struct {
	IDToken string `json:"id_token"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token required"})
		return
	}

	user, err := h.svc.ResolveIdentity(c.Request.Context(), req.IDToken)
	switch {
	case errors.Is(err, ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
	case errors.Is(err, ErrForbiddenDomain):
		c.JSON(http.StatusForbidden, gin.H{"error": "BITS email required"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "email": user.Email})
	}
}
