package media

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/apierror"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/logging"
	"github.com/luvwhisky/luvwhisky/pkg/luvwhisky/metrics"
)

// DefaultMaxUploadBytes is the upload size limit when none is configured.
const DefaultMaxUploadBytes = 10 << 20

// allowedTypes lists the image formats accepted for covers. SVG is left
// out since it can carry script.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
}

// Handler handles cover image uploads
type Handler struct {
	store    Store
	maxBytes int64
}

// NewHandler creates a new media handler
func NewHandler(store Store, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Handler{store: store, maxBytes: maxBytes}
}

// reject answers a refused upload with a validation error.
func reject(c *gin.Context, err *apierror.Error) {
	metrics.RecordUpload("rejected", 0)
	apierror.Respond(c, err)
}

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	URL      string `json:"url"`
	BlurHash string `json:"blurhash,omitempty"`
}

// Upload stores an image and optionally removes the image it replaces
// @Summary Upload cover image
// @Description Store an image and return its public URL. When old_url is given the old image is deleted afterwards; failures there are only logged.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Param old_url formData string false "URL of the image being replaced"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} map[string]string "No file or not an image"
// @Failure 502 {object} map[string]string "Storage unavailable"
// @Router /media [post]
func (h *Handler) Upload(c *gin.Context) {
	// Leave room for the multipart framing around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			reject(c, apierror.Validation("file is too large"))
			return
		}
		reject(c, apierror.Validation("no file provided"))
		return
	}
	if fh.Size > h.maxBytes {
		reject(c, apierror.Validation("file is too large"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		reject(c, apierror.Validation("could not read file").WithCause(err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		reject(c, apierror.Validation("could not read file").WithCause(err))
		return
	}
	if int64(len(data)) > h.maxBytes {
		reject(c, apierror.Validation("file is too large"))
		return
	}
	if len(data) == 0 {
		reject(c, apierror.Validation("file is empty"))
		return
	}

	mt := mimetype.Detect(data)
	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	if !allowedTypes[contentType] {
		reject(c, apierror.Validation("file is not a supported image").
			WithDetails(map[string]string{"file": "detected " + contentType}))
		return
	}

	name := strings.TrimSuffix(fh.Filename, path.Ext(fh.Filename)) + mt.Extension()
	ctx := c.Request.Context()

	url, err := h.store.Put(ctx, name, contentType, data)
	if err != nil {
		metrics.RecordUpload("store_error", 0)
		apierror.Respond(c, apierror.Upstream("failed to store image").WithCause(err))
		return
	}

	oldURL := c.PostForm("old_url")
	if oldURL == "" {
		oldURL = c.PostForm("oldUrl")
	}
	if oldURL != "" && oldURL != url {
		if err := h.store.Delete(ctx, oldURL); err != nil {
			metrics.MediaOldDeleteFailures.Inc()
			logging.Warn().Err(err).Str("old_url", oldURL).Msg("failed to delete replaced image")
		} else {
			logging.Info().Str("old_url", oldURL).Msg("deleted replaced image")
		}
	}

	metrics.RecordUpload("stored", len(data))
	resp := UploadResponse{URL: url}
	if hash, err := ComputeBlurHash(data); err != nil {
		logging.Debug().Err(err).Str("url", url).Msg("blurhash skipped")
	} else {
		resp.BlurHash = hash
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterRoutes registers media routes. /upload is kept for older
// admin clients.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/media", h.Upload)
	rg.POST("/upload", h.Upload)
}
