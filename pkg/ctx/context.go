// Package ctx gives handlers a single request context instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	func (tc *TuitionController) Show(c *ctx.Context) {
//	    id := c.Param("id")
//	    ...
//	    c.OK(tuition)
//	}
//
//	router.Get("/tuitions/{id}", "tuitions.show", ctx.Wrap(tc.Show))
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/bind"
	"github.com/etuition/etuition-api/pkg/response"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, or "" if absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt parses a query-string integer. Missing or malformed values
// return def.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Email returns the verified caller email set by the auth middleware.
func (c *Context) Email() string {
	email, _ := auth.EmailFromCtx(c.R.Context())
	return email
}

// BindJSON decodes and validates the body into dest. On failure it writes
// the error response and returns false.
//
//	var in models.TuitionInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.R, dest); err != nil {
		c.Fail(err)
		return false
	}
	return true
}

// BindMap decodes a partial-update body. On failure it writes the error
// response and returns false.
func (c *Context) BindMap() (map[string]any, bool) {
	m, err := bind.Map(c.R)
	if err != nil {
		c.Fail(err)
		return nil, false
	}
	return m, true
}

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

func (c *Context) OK(v any) {
	c.status = http.StatusOK
	response.OK(c.W, v)
}

func (c *Context) Created(v any) {
	c.status = http.StatusCreated
	response.Created(c.W, v)
}

// Error sends {"message": message}.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// Fail classifies err and writes the matching response.
func (c *Context) Fail(err error) {
	rec := &statusRecorder{ResponseWriter: c.W}
	response.Fail(rec, c.R, err)
	c.status = rec.status
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
