package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/services"
)

// multipartOverhead is the room left for form fields and part headers on
// top of the file itself.
const multipartOverhead = 1 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploader  *services.Uploader
}

func newUploadHandler(uploader *services.Uploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploader:  uploader,
	}
}

// uploadFile stores one multipart file and returns its public URL
// @Summary Upload file
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image or video, at most 10 MiB"
// @Param slot formData string false "thumbnail, main, slideshow or detail"
// @Success 200 {object} uploadResponse
// @Failure 413 {object} ErrorResponse "file too large"
// @Failure 502 {object} ErrorResponse "upload failed"
// @Router /admin/upload [post]
func (h uploadHandler) uploadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := services.MaxFileSize + multipartOverhead
		if r.ContentLength > limit {
			h.responder.WriteError(w, errs.NewFileTooLargeError(r.ContentLength, services.MaxFileSize))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)

		if err := r.ParseMultipartForm(limit); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
				h.responder.WriteError(w, errs.NewFileTooLargeError(limit, services.MaxFileSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart form", err))
			return
		}
		defer r.MultipartForm.RemoveAll()

		slot, err := services.ParseSlot(r.FormValue("slot"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		result, err := h.uploader.Upload(r.Context(), services.File{
			Name:        header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}, slot)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().
			Str("admin", ctxGetSubject(r.Context())).
			Str("fileName", result.FileName).
			Str("slot", string(slot)).
			Int64("size", result.Size).
			Msg("file uploaded")
		h.responder.WriteJSON(w, uploadResponse{
			Success:  true,
			FileName: result.FileName,
			URL:      result.URL,
		})
	}
}

// presignUpload returns a signed URL the browser can PUT a file to directly.
func (h uploadHandler) presignUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req presignRequest
		if err := h.responder.decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.uploader.Presign(r.Context(), req.FileName, req.FileType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, result)
	}
}
