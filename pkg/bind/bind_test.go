package bind_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/pkg/bind"
)

type categoryInput struct {
	Name  string  `json:"name"  validate:"required,min=2"`
	Price float64 `json:"price" validate:"gte=0"`
}

func TestJSON(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Shoes"}`))
		var in categoryInput
		errs, err := bind.JSON(r, &in)
		require.NoError(t, err)
		assert.Empty(t, errs)
		assert.Equal(t, "Shoes", in.Name)
	})

	t.Run("validation errors", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"S"}`))
		var in categoryInput
		errs, err := bind.JSON(r, &in)
		require.NoError(t, err)
		assert.Contains(t, errs, "name")
	})

	t.Run("malformed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var in categoryInput
		_, err := bind.JSON(r, &in)
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		var in categoryInput
		_, err := bind.JSON(r, &in)
		assert.EqualError(t, err, "request body is empty")
	})
}

func multipartRequest(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", "shirt.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestMultipart_DataField(t *testing.T) {
	r := multipartRequest(t, map[string]string{"data": `{"name":"Shirts","price":12.5}`}, []byte("png-bytes"))
	require.True(t, bind.IsMultipart(r))

	var in categoryInput
	errs, file, err := bind.Multipart(r, &in, "file")
	require.NoError(t, err)
	require.Empty(t, errs)
	require.NotNil(t, file)
	defer file.Close()

	assert.Equal(t, "Shirts", in.Name)
	assert.Equal(t, 12.5, in.Price)
	assert.Equal(t, "shirt.png", file.Name)
	assert.EqualValues(t, 9, file.Size)
	body, _ := io.ReadAll(file.Body)
	assert.Equal(t, "png-bytes", string(body))
}

func TestMultipart_FlatFieldsWithoutFile(t *testing.T) {
	r := multipartRequest(t, map[string]string{"name": "Hats", "price": "3"}, nil)

	var in categoryInput
	errs, file, err := bind.Multipart(r, &in, "file")
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Nil(t, file)
	assert.Equal(t, "Hats", in.Name)
	assert.Equal(t, 3.0, in.Price)
}
