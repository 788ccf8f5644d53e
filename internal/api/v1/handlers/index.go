package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"audio2pdf/internal/api/errors"
	"audio2pdf/internal/api/v1/dto"
	"audio2pdf/internal/api/v1/services"
	"audio2pdf/internal/app/audio"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the HTML templates served by IndexHandler
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type indexPage struct {
	Accept       string
	MaxUploadMB  int
	Language     string
	Error        string
	Result       *dto.DocumentResponse
	DownloadLink template.HTML
}

// IndexHandler serves the upload page and handles its form submission
type IndexHandler struct {
	service     services.DocumentService
	maxUploadMB int
}

// NewIndexHandler creates a new index handler
func NewIndexHandler(service services.DocumentService, maxUploadMB int) *IndexHandler {
	return &IndexHandler{service: service, maxUploadMB: maxUploadMB}
}

func (h *IndexHandler) page() indexPage {
	return indexPage{
		Accept:      strings.Join(audio.SupportedExtensions, ","),
		MaxUploadMB: h.maxUploadMB,
	}
}

// Show handles GET /
func (h *IndexHandler) Show(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.page())
}

// Generate handles POST / and renders the page with the result or the error
func (h *IndexHandler) Generate(c *gin.Context) {
	page := h.page()
	page.Language = c.PostForm("language")

	upload, req, closeFile, err := bindUpload(c)
	if err != nil {
		h.renderError(c, page, err)
		return
	}
	defer closeFile()

	response, err := h.service.CreateDocument(c.Request.Context(), upload, req)
	if err != nil {
		h.renderError(c, page, err)
		return
	}

	page.Result = response
	// the anchor is generated by us from base64 data and safe to embed
	page.DownloadLink = template.HTML(response.DownloadLink)
	c.HTML(http.StatusOK, "index.html", page)
}

func (h *IndexHandler) renderError(c *gin.Context, page indexPage, err error) {
	apiErr := errors.FromError(err)
	if apiErr == nil {
		c.Error(err)
		apiErr = errors.NewInternalError("Failed to generate the document")
	}
	page.Error = apiErr.Message
	c.HTML(apiErr.HTTPStatus(), "index.html", page)
}
