package controllers

import (
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ctx"
)

type UploadController struct {
	service *services.UploadService
}

func NewUploadController(service *services.UploadService) *UploadController {
	return &UploadController{service: service}
}

// Image handles POST /upload/image with the image in the "file" part.
func (h *UploadController) Image(c *ctx.Context) {
	var none struct{}
	file, ok := c.BindMultipart(&none, "file")
	if !ok {
		return
	}
	if file == nil {
		c.ValidationError(map[string]string{"file": "file is required"})
		return
	}
	defer closeFile(file)

	res, err := h.service.Upload(c.Context(), *imageFrom(file))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Image uploaded successfully", res)
}
