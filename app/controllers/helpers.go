// Package controllers adapts HTTP requests to the services. Handlers bind
// and validate input, call one service method and write the envelope.
package controllers

import (
	"github.com/shashiranjanraj/kashvi-shop/app/services"
	"github.com/shashiranjanraj/kashvi-shop/pkg/bind"
)

// imageFrom converts an optional multipart upload.
func imageFrom(f *bind.File) *services.ImageFile {
	if f == nil {
		return nil
	}
	return &services.ImageFile{
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
		Body:        f.Body,
	}
}

func closeFile(f *bind.File) {
	if f != nil {
		_ = f.Close()
	}
}
