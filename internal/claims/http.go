package claims

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches claim routes to the given router group.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/claim", h.claim)

	g := api.Group("/claims")
	g.GET("", h.all)
	g.GET("/active", h.active)
	g.GET("/my", h.mine)
	g.DELETE("/:id", h.remove)
}

type claimReq struct {
	ItemID   int64  `json:"item_id"`
	UserID   int64  `json:"user_id"`
	Phone    string `json:"phone"`
	Room     string `json:"room"`
	IDType   string `json:"id_type"`
	IDNumber string `json:"id_number"`
}

func (h *Handler) claim(c *gin.Context) {
	var req claimReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ItemID == 0 || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id and user_id are required"})
		return
	}

	id, err := h.svc.Claim(c.Request.Context(), req.ItemID, req.UserID,
		Contact{Phone: req.Phone, Room: req.Room},
		IDDetails{Type: req.IDType, Number: req.IDNumber})
	switch {
	case errors.Is(err, ErrItemNotAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "Item not available"})
	case errors.Is(err, ErrInvalidUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim item"})
	default:
		c.JSON(http.StatusCreated, gin.H{"claim_id": id, "status": "Item claimed"})
	}
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "claim id must be an integer"})
		return
	}

	err = h.svc.Remove(c.Request.Context(), id)
	switch {
	case errors.Is(err, ErrClaimNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "claim not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove claim"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "Claim removed"})
	}
}

func (h *Handler) active(c *gin.Context) {
	views, err := h.svc.Active(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list claims"})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) all(c *gin.Context) {
	views, err := h.svc.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list claims"})
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) mine(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}

	views, err := h.svc.ByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list claims"})
		return
	}
	c.JSON(http.StatusOK, views)
}
