package routes

import (
	"net/http"
	"path/filepath"

	"github.com/VDECKSHOP/backend/app/controllers"
	"github.com/VDECKSHOP/backend/config"
	"github.com/VDECKSHOP/backend/pkg/metrics"
	"github.com/VDECKSHOP/backend/pkg/response"
	"github.com/VDECKSHOP/backend/pkg/router"
	"github.com/VDECKSHOP/backend/pkg/storage"
)

// RegisterAPI mounts every route of the shop backend.
func RegisterAPI(
	r *router.Router,
	orders *controllers.OrderController,
	products *controllers.ProductController,
	uploads *controllers.UploadController,
) {
	r.Get("/", "root", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("VDECK API is running...")) //nolint:errcheck
	})
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.HandleFunc("/metrics", metrics.Handler())

	api := r.Group("/api")

	api.Get("/products", "products.list", products.List)
	api.Get("/products/{id}", "products.get", products.Get)
	api.Post("/products", "products.create", products.Create)
	api.Put("/products/{id}", "products.update", products.Update)
	api.Delete("/products/{id}", "products.delete", products.Delete)

	api.Post("/orders", "orders.place", orders.PlaceOrder)
	api.Get("/orders", "orders.list", orders.List)
	api.Get("/orders/{id}", "orders.get", orders.Get)

	api.Post("/upload", "upload", uploads.Upload)

	// Serve stored uploads when the local disk is in use. Upload keys are
	// "<uploads-dir>/<file>", so the file server is rooted one level in.
	if root := storage.LocalRoot(); root != "" {
		r.Static("/"+config.UploadsDir(), filepath.Join(root, config.UploadsDir()))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})
}
