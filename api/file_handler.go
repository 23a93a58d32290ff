package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipart framing allowance on top of the file limit
const multipartOverhead = 1 << 20

type fileHandler struct {
	responder Responder
	logger    zerolog.Logger
	uploads   *services.UploadService
}

func newFileHandler(uploads *services.UploadService) fileHandler {
	logger := log.With().Str("handlerName", "fileHandler").Logger()

	return fileHandler{
		responder: NewResponder(logger),
		logger:    logger,
		uploads:   uploads,
	}
}

// uploadFile stores an image or video for use in posts
// @Summary Upload file
// @Description Accepts jpeg, png, gif, webp, mp4, webm and ogg files up to 10MB
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 200 {object} services.UploadResult
// @Failure 400 {object} ErrorResponse "Bad Request - Missing, oversized or unsupported file"
// @Router /api/files/upload [post]
func (h fileHandler) uploadFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxSize := h.uploads.MaxSize()
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxSize))
				return
			}
			h.responder.WriteError(w, errs.NewBadRequestError("Please select a file to upload"))
			return
		}
		defer file.Close()

		if header.Size > maxSize {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxSize))
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("Failed to read uploaded file"))
			return
		}

		result, err := h.uploads.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("filename", result.Filename).Str("type", result.Type).Int64("size", result.Size).Msg("File uploaded")
		h.responder.WriteJSON(w, result)
	}
}
