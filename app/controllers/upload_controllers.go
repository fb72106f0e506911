package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/VDECKSHOP/backend/config"
	"github.com/VDECKSHOP/backend/pkg/logger"
	"github.com/VDECKSHOP/backend/pkg/response"
	"github.com/VDECKSHOP/backend/pkg/storage"
)

const maxUploadBytes = 50 << 20 // 50 MB

type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

// Upload handles POST /api/upload. It accepts a single multipart file in
// the "image" field and stores it under a key built from the upload
// timestamp and the original filename, so repeated uploads of the same
// file never collide.
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.ErrorField(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.ErrorField(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%d-%s",
		config.UploadsDir(),
		time.Now().UnixMilli(),
		filepath.Base(header.Filename),
	)

	if err := storage.PutStream(key, file); err != nil {
		logger.WithCtx(r.Context()).Error("store upload", "key", key, "error", err)
		response.ErrorField(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"imageUrl": storage.URL(key)})
}
