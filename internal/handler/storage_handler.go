package handler

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/member-portal-api/internal/dto"
	appErrors "github.com/noah-isme/member-portal-api/pkg/errors"
	"github.com/noah-isme/member-portal-api/pkg/response"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

type localObjects interface {
	Accept(ctx context.Context, token string, body io.Reader) (string, int64, error)
	Open(ctx context.Context, id, token string) (*os.File, error)
}

// StorageHandler serves signed upload and download URLs of the local storage driver.
type StorageHandler struct {
	store    localObjects
	maxBytes int64
}

// NewStorageHandler creates a new handler. Uploads larger than maxBytes are rejected.
func NewStorageHandler(store localObjects, maxBytes int64) *StorageHandler {
	return &StorageHandler{store: store, maxBytes: maxBytes}
}

// Upload godoc
// @Summary Upload file
// @Description Stores the raw request body under the storage id named by the upload token
// @Tags Storage
// @Accept octet-stream
// @Produce json
// @Param token query string true "Upload token"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /storage/upload [put]
func (h *StorageHandler) Upload(c *gin.Context) {
	body := c.Request.Body
	if h.maxBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBytes)
	}
	id, size, err := h.store.Accept(c.Request.Context(), c.Query("token"), body)
	if err != nil {
		response.Error(c, storageError(err))
		return
	}
	response.Created(c, dto.StoredObjectResponse{StorageID: id, Size: size})
}

// Download godoc
// @Summary Download file
// @Tags Storage
// @Param id path string true "Storage ID"
// @Param token query string true "Download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /storage/files/{id} [get]
func (h *StorageHandler) Download(c *gin.Context) {
	file, err := h.store.Open(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, storageError(err))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to stat object"))
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}

func storageError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return appErrors.ErrPayloadTooLarge
	case errors.Is(err, storage.ErrInvalidToken):
		return appErrors.Clone(appErrors.ErrForbidden, "invalid or expired storage token")
	case errors.Is(err, storage.ErrObjectExists):
		return appErrors.Clone(appErrors.ErrConflict, "upload token already used")
	case errors.Is(err, fs.ErrNotExist):
		return appErrors.Clone(appErrors.ErrNotFound, "object not found")
	}
	return appErrors.Internal(err, "storage failure")
}
