package handlers

import (
	stderrors "errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"audio2pdf/internal/api/errors"
	"audio2pdf/internal/api/middleware"
	"audio2pdf/internal/api/v1/dto"
	"audio2pdf/internal/api/v1/services"
	"audio2pdf/internal/app/audio"
	apperrors "audio2pdf/internal/app/errors"
	"audio2pdf/internal/app/download"
)

// DocumentHandler handles transcript document endpoints
type DocumentHandler struct {
	service services.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(service services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		service: service,
	}
}

// Create handles POST /api/v1/documents
// Transcribes an uploaded wav or mp3 file and renders the transcript as a PDF
// @Summary Convert an audio file to a transcript PDF
// @Description Transcribes a wav or mp3 upload and renders the transcript as a PDF, returned inline as a base64 data URI
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file (.wav or .mp3)"
// @Param language formData string false "ISO 639-1 language hint"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} errors.APIError
// @Failure 413 {object} errors.APIError
// @Failure 422 {object} errors.APIError
// @Failure 500 {object} errors.APIError
// @Failure 503 {object} errors.APIError
// @Router /api/v1/documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	upload, req, closeFile, err := bindUpload(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	defer closeFile()

	response, err := h.service.CreateDocument(c.Request.Context(), upload, req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Header("Location", response.DownloadURL)
	c.JSON(http.StatusCreated, response)
}

// Download handles GET /api/v1/documents/:run_id/download
// Streams the stored PDF as an attachment named transcription.pdf
// @Summary Download a generated PDF
// @Tags Documents
// @Produce application/pdf
// @Param run_id path string true "Run ID returned by document creation"
// @Success 200 {file} file
// @Failure 404 {object} errors.APIError
// @Router /api/v1/documents/{run_id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	path, err := h.service.DocumentPath(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.FileAttachment(path, download.FileName)
}

// bindUpload extracts the audio file and form fields of a document request.
// The returned close func must be called once the upload has been consumed.
func bindUpload(c *gin.Context) (audio.Upload, *dto.CreateDocumentRequest, func(), error) {
	noop := func() {}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return audio.Upload{}, nil, noop, err
		}
		return audio.Upload{}, nil, noop, errors.NewBadRequestError("No file uploaded")
	}

	var req dto.CreateDocumentRequest
	if err := middleware.ValidateForm(c, &req); err != nil {
		return audio.Upload{}, nil, noop, err
	}

	if _, err := audio.ParseFormat(header.Filename); err != nil {
		return audio.Upload{}, nil, noop, err
	}
	if header.Size == 0 {
		return audio.Upload{}, nil, noop, apperrors.Wrapf(apperrors.ErrEmptyUpload, "%q is empty", header.Filename)
	}

	file, err := header.Open()
	if err != nil {
		return audio.Upload{}, nil, noop, errors.NewBadRequestError("Failed to read uploaded file")
	}

	upload, err := audio.NewUpload(header.Filename, file)
	if err != nil {
		file.Close()
		return audio.Upload{}, nil, noop, err
	}
	return upload, &req, closer(file), nil
}

func closer(f multipart.File) func() {
	return func() { f.Close() }
}
