package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/slug"
	"github.com/shashiranjanraj/kashvi-shop/pkg/storage"
)

const (
	UploadFolder   = "project-nestjs"
	MaxUploadBytes = 5 << 20
)

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ImageFile is an uploaded image on its way to storage.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Size     int64  `json:"size"`
}

type UploadService struct {
	disk  storage.Disk
	clock clock
}

func NewUploadService(disk storage.Disk) *UploadService {
	return &UploadService{disk: disk}
}

// Upload stores a jpg or png image of at most 5 MB. The public id is the
// slugged base name, the upload time in Unix milliseconds and a short random
// suffix, so same-named uploads never share a key.
func (s *UploadService) Upload(ctx context.Context, f ImageFile) (UploadResult, error) {
	name := path.Base(strings.ReplaceAll(f.Name, "\\", "/"))
	ext := strings.ToLower(path.Ext(name))
	contentType, ok := allowedImageExt[ext]
	if !ok {
		return UploadResult{}, apperr.Validation(map[string]string{"file": "file must be a jpg, jpeg or png image"})
	}
	if f.Size > MaxUploadBytes {
		return UploadResult{}, apperr.Validation(map[string]string{"file": "file must be at most 5 MB"})
	}

	base := slug.Make(strings.SplitN(name, ".", 2)[0])
	if base == "" {
		base = "image"
	}
	publicID := fmt.Sprintf("%s/%s_%d_%s", UploadFolder, base, s.clock.now().UnixMilli(), uuid.NewString()[:8])
	key := publicID + ext

	body := io.LimitReader(f.Body, MaxUploadBytes+1)
	counter := &countingReader{r: body}
	if err := s.disk.Put(ctx, key, counter, contentType); err != nil {
		return UploadResult{}, fmt.Errorf("upload: store %s: %w", key, err)
	}
	if counter.n > MaxUploadBytes {
		_ = s.disk.Delete(ctx, key)
		return UploadResult{}, apperr.Validation(map[string]string{"file": "file must be at most 5 MB"})
	}

	return UploadResult{URL: s.disk.URL(key), PublicID: publicID, Size: counter.n}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
