package items

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bits-lost-found/go-backend/internal/users"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register attaches item routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.report)
	rg.GET("", h.list)
}

func (h *Handler) report(c *gin.Context) {
	in := ReportInput{
		Name:        strings.TrimSpace(c.PostForm("item_name")),
		Description: c.PostForm("description"),
		Location:    strings.TrimSpace(c.PostForm("location")),
		Phone:       strings.TrimSpace(c.PostForm("phone")),
		Room:        strings.TrimSpace(c.PostForm("room")),
	}

	if in.Name == "" || in.Location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_name and location are required"})
		return
	}

	dateFound, err := time.Parse("2006-01-02", c.PostForm("date_found"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_found must be YYYY-MM-DD"})
		return
	}
	in.DateFound = dateFound

	if in.CategoryID, err = strconv.ParseInt(c.PostForm("category_id"), 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category_id must be an integer"})
		return
	}
	if in.ReporterID, err = strconv.ParseInt(c.PostForm("user_id"), 10, 64); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()
		in.Image = &ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        file,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image upload"})
		return
	}

	id, err := h.svc.Report(c.Request.Context(), in)
	switch {
	case errors.Is(err, ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
	case errors.Is(err, ErrUnsupportedImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "only JPEG and PNG images are accepted"})
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add item"})
	default:
		c.JSON(http.StatusCreated, gin.H{"item_id": id, "status": "Item added"})
	}
}

func (h *Handler) list(c *gin.Context) {
	f := ListFilters{
		Category: c.Query("category"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
	}
	if days := c.Query("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a non-negative integer"})
			return
		}
		f.Days = n
	}

	views, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}
	c.JSON(http.StatusOK, views)
}
