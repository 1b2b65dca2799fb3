// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 8 MB).
func maxBodyBytes() int64 {
	n := int64(config.GetInt("MAX_BODY_BYTES", 8<<20))
	if n <= 0 {
		return 8 << 20
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())
	return decode(r.Body, dest)
}

// File is an uploaded multipart file.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        multipart.File
}

// Close releases the underlying upload.
func (f *File) Close() error { return f.Body.Close() }

// Multipart reads a multipart/form-data request. Fields are decoded into dest
// from the "data" part when present (a JSON document), otherwise from the
// individual form values. The part named fileField is returned when sent.
func Multipart(r *http.Request, dest interface{}, fileField string) (errs map[string]string, file *File, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())
	if err := r.ParseMultipartForm(maxBodyBytes()); err != nil {
		return nil, nil, fmt.Errorf("invalid multipart body: %w", err)
	}

	if data := r.FormValue("data"); data != "" {
		errs, err = decode(strings.NewReader(data), dest)
	} else {
		errs, err = decode(bytes.NewReader(formJSON(r.MultipartForm)), dest)
	}
	if err != nil || len(errs) > 0 {
		return errs, nil, err
	}

	f, hdr, ferr := r.FormFile(fileField)
	if errors.Is(ferr, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if ferr != nil {
		return nil, nil, fmt.Errorf("invalid file: %w", ferr)
	}
	return nil, &File{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        f,
	}, nil
}

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func decode(body io.Reader, dest interface{}) (map[string]string, error) {
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request body is empty")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// formJSON turns flat form values into a JSON object. Values that parse as
// JSON (numbers, booleans, arrays) keep their type.
func formJSON(form *multipart.Form) []byte {
	obj := make(map[string]json.RawMessage, len(form.Value))
	for k, vals := range form.Value {
		if len(vals) == 0 {
			continue
		}
		v := strings.TrimSpace(vals[0])
		if json.Valid([]byte(v)) && !strings.HasPrefix(v, `"`) {
			obj[k] = json.RawMessage(v)
			continue
		}
		quoted, _ := json.Marshal(v)
		obj[k] = quoted
	}
	out, _ := json.Marshal(obj)
	return out
}
