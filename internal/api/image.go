package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/familyrecipes/backend/internal/apperror"
	"github.com/familyrecipes/backend/internal/middleware"
	"github.com/familyrecipes/backend/internal/service"
)

// ImageHandler accepts recipe image uploads
type ImageHandler struct {
	images service.ImageStore
}

func NewImageHandler(images service.ImageStore) *ImageHandler {
	return &ImageHandler{images: images}
}

func (h *ImageHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/recipes/images", middleware.RequireUser(), h.Upload)
}

// UploadImageResponse carries the public URL to put in a recipe's image field.
type UploadImageResponse struct {
	URL string `json:"url"`
}

// Upload stores the multipart "image" file.
func (h *ImageHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)

	header, err := c.FormFile("image")
	if err != nil {
		c.Error(apperror.Validation("image", "An image file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		c.Error(err)
		return
	}
	defer file.Close()

	url, err := h.images.Upload(c.Request.Context(), middleware.UserID(c), header.Filename,
		header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, UploadImageResponse{URL: url})
}
