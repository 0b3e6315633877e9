package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/erazemk/gearbox/internal/imaging"
	"github.com/erazemk/gearbox/internal/model"
	"github.com/erazemk/gearbox/internal/store"
)

// Upload limits.
const (
	MaxUploadFiles = 5
	MaxUploadBytes = 25 << 20
	// uploadMemory is how much of a multipart body is buffered in memory
	// before spilling to temporary files.
	uploadMemory = 8 << 20
)

// UploadImages handles POST /api/gear/{id}/images.
func (h *GearHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	userID, gearID := callerID(r), r.PathValue("id")

	// Ownership is checked before the body is read.
	if err := store.GearItemExists(r.Context(), h.DB, userID, gearID); err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, err)
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			jsonError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["images"]
	}
	if len(headers) == 0 {
		jsonError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(headers) > MaxUploadFiles {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("At most %d images can be uploaded at once", MaxUploadFiles))
		return
	}

	imageType := r.FormValue("imageType")
	if imageType != "" && !model.ValidImageType(imageType) {
		jsonError(w, http.StatusBadRequest, "Invalid imageType")
		return
	}
	caption := r.FormValue("caption")

	var images []model.Image
	cleanup := func() {
		for _, img := range images {
			if err := h.Files.Delete(r.Context(), img.URL); err != nil {
				slog.Warn("failed to delete stored image", "url", img.URL, "error", err)
			}
		}
	}

	for _, fh := range headers {
		url, err := h.storeUpload(r, fh)
		if err != nil {
			cleanup()
			if errors.Is(err, imaging.ErrUnsupportedFormat) {
				jsonError(w, http.StatusBadRequest, fmt.Sprintf("%s is not a supported image (JPEG, PNG or WebP)", fh.Filename))
				return
			}
			writeError(w, r, err)
			return
		}

		imgCaption := caption
		if imgCaption == "" {
			imgCaption = fh.Filename
		}
		images = append(images, model.Image{URL: url, Type: imageType, Caption: imgCaption})
	}

	created, err := store.AddImages(r.Context(), h.DB, userID, gearID, images)
	if err != nil {
		cleanup()
		writeError(w, r, err)
		return
	}

	slog.Info("images uploaded", "gear_item", gearID, "count", len(created))
	jsonResponse(w, http.StatusCreated, created)
}

// storeUpload normalizes one uploaded file and writes it to the file store.
func (h *GearHandler) storeUpload(r *http.Request, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}

	result, err := imaging.Process(data)
	if err != nil {
		return "", err
	}

	return h.Files.Save(r.Context(), result.Ext, result.Data)
}

// DeleteImage handles DELETE /api/gear/images/{imageId}.
func (h *GearHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	img, err := store.DeleteImage(r.Context(), h.DB, callerID(r), r.PathValue("imageId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.Files.Delete(r.Context(), img.URL); err != nil {
		slog.Warn("failed to delete stored image", "url", img.URL, "error", err)
	}

	jsonMessage(w, "Image deleted successfully")
}
