package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leca/showroom-gallery/internal/api"
	"github.com/leca/showroom-gallery/internal/catalog"
)

// maxFormMemory bounds how much of a multipart body is held in memory
// while parsing; larger parts spill to temp files.
const maxFormMemory = 10 << 20

// UploadImage handles POST /api/upload -- multipart file upload.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		api.BadRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		api.BadRequest(w, "No file uploaded")
		return
	}
	defer file.Close()

	img, err := h.Catalog.Create(r.Context(), catalog.CreateParams{
		Section:  r.FormValue("section"),
		Category: r.FormValue("category"),
		Caption:  r.FormValue("caption"),
		Filename: header.Filename,
		Data:     file,
		Size:     header.Size,
	})
	if err != nil {
		writeCatalogError(w, err, "Upload Failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"image":   img,
	})
}

// ListImages handles GET /api/images/{section}. The section is a
// concrete tag or the literal "all".
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	images, err := h.Catalog.List(r.Context(), section)
	if err != nil {
		slog.Error("failed to list images", "section", section, "error", err)
		api.Internal(w, "Failed to Fetch Images")
		return
	}

	api.WriteJSON(w, http.StatusOK, images)
}

// DeleteImage handles DELETE /api/images/{id}.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, chi.URLParam(r, "id"))
}

// DeleteImageByQuery handles DELETE /api/images?id=... — the query-param
// variant used when the id is an object key containing slashes.
func (h *Handler) DeleteImageByQuery(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, r.URL.Query().Get("id"))
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		api.BadRequest(w, "id is required")
		return
	}

	if err := h.Catalog.Delete(r.Context(), id); err != nil {
		writeCatalogError(w, err, "Delete Failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Image deleted",
	})
}

// writeCatalogError maps the catalog error taxonomy onto HTTP statuses.
// Storage failures are logged and surfaced with a generic message.
func writeCatalogError(w http.ResponseWriter, err error, fallback string) {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		api.BadRequest(w, ve.Error())
	case errors.Is(err, catalog.ErrPayloadTooLarge):
		api.TooLarge(w, "File too large")
	case errors.Is(err, catalog.ErrNotFound):
		api.NotFound(w, "Image not found")
	default:
		slog.Error("catalog operation failed", "error", err)
		api.Internal(w, fallback)
	}
}
