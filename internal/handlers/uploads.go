package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hadrian75/campusfound/internal/storage"
	appErrors "github.com/hadrian75/campusfound/pkg/errors"
	"github.com/hadrian75/campusfound/pkg/response"
)

const maxUploadBytes = 10 << 20

// UploadHandler serves image uploads backed by the hosting provider.
type UploadHandler struct {
	uploader storage.Uploader
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(uploader storage.Uploader) (*UploadHandler, error) {
	if uploader == nil {
		return nil, errors.New("upload handler requires an uploader")
	}
	return &UploadHandler{uploader: uploader}, nil
}

// Upload stores a multipart image and returns its hosted URL.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.NewBadRequest("A file field is required"))
		return
	}
	if header.Size > maxUploadBytes {
		response.Error(c, appErrors.NewBadRequest("File exceeds the 10MB limit"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}
	defer file.Close()

	result, err := h.uploader.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, storage.ErrUploadsDisabled) {
			response.Error(c, appErrors.New("UPLOADS_DISABLED", "Image uploads are disabled", http.StatusServiceUnavailable))
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Created(c, result)
}
