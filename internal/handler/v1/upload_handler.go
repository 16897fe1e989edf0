package v1

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/colposcopia/colpo-api/internal/storage"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadHandler struct {
	store     storage.ObjectStore
	cfg       config.UploadConfig
	collector *metrics.Collector
	log       *zap.Logger
}

func NewUploadHandler(store storage.ObjectStore, cfg config.UploadConfig, collector *metrics.Collector, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, cfg: cfg, collector: collector, log: log}
}

// Upload stores one study image under a fresh random name and returns the
// path the client writes into an image slot.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing file field")
		return
	}

	if fileHeader.Size > h.cfg.MaxSizeBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file exceeds maximum upload size")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		respondError(c, http.StatusBadRequest, "unsupported image type")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "cannot read upload")
		return
	}
	defer f.Close()

	name := uuid.NewString() + ext
	url, err := h.store.Save(c.Request.Context(), name, fileHeader.Header.Get("Content-Type"), fileHeader.Size, f)
	if err != nil {
		h.log.Error("failed to store upload", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to store image")
		return
	}

	h.collector.ImagesUploadedTotal.Inc()
	respondCreated(c, gin.H{"url": url})
}
