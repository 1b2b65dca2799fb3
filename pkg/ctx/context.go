// Package ctx provides a request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helper methods:
//
//	func (h *ProductController) Show(c *ctx.Context) {
//	    id, err := c.ObjectID("id")
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    ...
//	    c.Success(product)
//	}
//
//	// Register with ctx.Wrap:
//	g.Get("/{id}", "products.show", ctx.Wrap(h.Show))
package ctx

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/bind"
	"github.com/shashiranjanraj/kashvi-shop/pkg/middleware"
	"github.com/shashiranjanraj/kashvi-shop/pkg/response"
	"github.com/shashiranjanraj/kashvi-shop/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = &statusWriter{ResponseWriter: w, c: c}
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// statusWriter records the status written through any helper.
type statusWriter struct {
	http.ResponseWriter
	c *Context
}

func (w *statusWriter) WriteHeader(code int) {
	w.c.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/users/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ObjectID parses a path parameter as an ObjectID. A malformed id cannot
// name an existing record, so it is reported as NotFound.
func (c *Context) ObjectID(key string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(key))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFoundf("%s %q not found", key, c.Param(key))
	}
	return id, nil
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// ClientIP returns the client address, respecting proxy headers.
func (c *Context) ClientIP() string { return middleware.ClientIP(c.R) }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Principal returns the authenticated caller.
func (c *Context) Principal() (auth.Principal, bool) {
	return auth.PrincipalFrom(c.R.Context())
}

// UserID returns the authenticated caller's id. Routes using it sit behind
// the authentication middleware; a missing principal is Unauthorized.
func (c *Context) UserID() (primitive.ObjectID, error) {
	p, ok := c.Principal()
	if !ok {
		return primitive.NilObjectID, apperr.Unauthorizedf("Unauthorized")
	}
	id, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return primitive.NilObjectID, apperr.Unauthorizedf("Unauthorized")
	}
	return id, nil
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request key-value store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// It answers 400 on a decode error or a validation failure and returns false.
//
//	var input CreateCategoryInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	return c.bound(errs, err)
}

// BindMultipart is BindJSON for multipart/form-data bodies carrying an
// optional file under fileField. The caller closes the returned file.
func (c *Context) BindMultipart(dest any, fileField string) (*bind.File, bool) {
	errs, file, err := bind.Multipart(c.R, dest, fileField)
	if !c.bound(errs, err) {
		return nil, false
	}
	return file, true
}

// BindBody picks BindMultipart or BindJSON from the request content type.
func (c *Context) BindBody(dest any, fileField string) (*bind.File, bool) {
	if bind.IsMultipart(c.R) {
		return c.BindMultipart(dest, fileField)
	}
	return nil, c.BindJSON(dest)
}

func (c *Context) bound(errs map[string]string, err error) bool {
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// Success sends a 200 JSON envelope: {"status":200,"data":...}
func (c *Context) Success(data any) { response.Success(c.W, data) }

// Message sends a 200 envelope carrying a message and optional data.
func (c *Context) Message(message string, data any) { response.Message(c.W, message, data) }

// Created sends a 201 JSON envelope.
func (c *Context) Created(data any) { response.Created(c.W, data) }

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) { response.Error(c.W, code, message) }

// ValidationError sends a 400 with field-level errors.
func (c *Context) ValidationError(errs map[string]string) { response.ValidationError(c.W, errs) }

// Fail maps err to its status via apperr.
func (c *Context) Fail(err error) { response.Fail(c.W, c.R, err) }

// FailWithError is Fail with the message in "error", prefixed by prefix.
func (c *Context) FailWithError(err error, prefix string) {
	response.FailWithError(c.W, c.R, err, prefix)
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized() { response.Unauthorized(c.W) }

// Forbidden sends a 403.
func (c *Context) Forbidden() { response.Forbidden(c.W) }

// NotFound sends a 404 with message.
func (c *Context) NotFound(message string) { c.Error(http.StatusNotFound, message) }

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }
