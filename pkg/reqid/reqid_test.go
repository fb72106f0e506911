package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VDECKSHOP/backend/pkg/reqid"
)

func TestNewIDsAreUnique(t *testing.T) {
	a, b := reqid.New(), reqid.New()

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var ctxID string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = reqid.FromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, ctxID)
	assert.Equal(t, ctxID, rec.Header().Get(reqid.Header))
}

func TestMiddlewareHonorsUpstreamID(t *testing.T) {
	var ctxID string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(reqid.Header, "upstream-123")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-123", ctxID)
	assert.Equal(t, "upstream-123", rec.Header().Get(reqid.Header))
}

func TestFromCtxAbsent(t *testing.T) {
	assert.Empty(t, reqid.FromCtx(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
