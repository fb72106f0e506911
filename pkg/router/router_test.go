package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VDECKSHOP/backend/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNamedRoutes(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.get", ok)

	path, found := r.Path("products.get")
	require.True(t, found)
	assert.Equal(t, "/products/{id}", path)

	url, err := r.URL("products.get", map[string]string{"id": "p1"})
	require.NoError(t, err)
	assert.Equal(t, "/products/p1", url)
}

func TestURLMissingParams(t *testing.T) {
	r := router.New()
	r.Get("/products/{id}", "products.get", ok)

	_, err := r.URL("products.get", nil)
	assert.Error(t, err)

	_, err = r.URL("no.such.route", nil)
	assert.Error(t, err)
}

func TestGroupPrefixing(t *testing.T) {
	r := router.New()

	api := r.Group("/api")
	api.Get("/orders", "orders.list", ok)

	v2 := api.Group("/v2")
	v2.Get("/orders", "orders.list.v2", ok)

	path, _ := r.Path("orders.list")
	assert.Equal(t, "/api/orders", path)
	path, _ = r.Path("orders.list.v2")
	assert.Equal(t, "/api/v2/orders", path)
}

func TestRoutesListing(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok)
	r.Post("/b", "b", ok)
	r.Get("/unnamed", "", ok)

	infos := r.Routes()
	require.Len(t, infos, 2)

	byName := map[string]router.RouteInfo{}
	for _, ri := range infos {
		byName[ri.Name] = ri
	}
	assert.Equal(t, http.MethodGet, byName["a"].Method)
	assert.Equal(t, http.MethodPost, byName["b"].Method)
}

func TestDispatchAndURLParams(t *testing.T) {
	r := router.New()

	var gotID string
	r.Get("/products/{id}", "products.get", func(w http.ResponseWriter, req *http.Request) {
		gotID = chi.URLParam(req, "id")
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/p42", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p42", gotID)
}

func TestGroupMiddlewareApplies(t *testing.T) {
	r := router.New()

	stamp := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Stamped", "yes")
			next.ServeHTTP(w, req)
		})
	}

	api := r.Group("/api", stamp)
	api.Get("/ping", "ping", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, "yes", rec.Header().Get("X-Stamped"))
}

func TestNotFoundHandler(t *testing.T) {
	r := router.New()
	r.Get("/known", "known", ok)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
