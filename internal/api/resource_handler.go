package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/studyshare/platform/pkg/studyshare"
)

// maxUploadMemory bounds how much of a multipart body is buffered in
// memory before spilling to disk.
const maxUploadMemory = 32 << 20 // 32 MB

// ResourceHandler handles resource upload, listing and preview endpoints
type ResourceHandler struct {
	service studyshare.Service
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(service studyshare.Service) *ResourceHandler {
	return &ResourceHandler{service: service}
}

// Routes returns the router for resource endpoints
func (h *ResourceHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Get("/{resource_id}", h.Get)
	r.Get("/{resource_id}/preview", h.Preview)
	return r
}

// PreviewResponse carries a freshly issued time-boxed URL
type PreviewResponse struct {
	URL string `json:"url"`
}

// Upload ingests a multipart file upload with its descriptive fields
func (h *ResourceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		slog.Error("Fail to parse multipart form", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "file field is required"})
		return
	}
	defer file.Close()

	resource, err := h.service.IngestResource(r.Context(), studyshare.IngestResourceRequest{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Tags:        r.FormValue("tags"),
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("Resource ingested", "resource_id", resource.ID, "title", resource.Title)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resource)
}

// List returns all resources, newest first
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.ListResources(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, resources)
}

// Get returns a single resource's metadata
func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "resource_id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid resource ID"})
		return
	}

	resource, err := h.service.GetResource(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, resource)
}

// Preview resolves a resource to a temporary read URL
func (h *ResourceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "resource_id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid resource ID"})
		return
	}

	url, err := h.service.GetPreviewURL(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, PreviewResponse{URL: url})
}
