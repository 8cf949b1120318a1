package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

const HeaderPhotoMetadata = "X-Photo-Metadata"

// @Summary 	Get original
// @Description Streams the original image with its stored content type and metadata header
// @Tags 		media
// @Produce 	image/jpeg,image/png
// @Param 		id  path string true "Photo ID (uuid)"
// @Param 		ext path string true "Extension, not used for lookup"
// @Success 	200 {file} 	binary
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Not found"
// @Router 		/media/photos/{id}.{ext} [get]
func (r *V1) getOriginal(ctx *fiber.Ctx) error {
	blob, err := r.photo.OpenOriginal(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return r.mediaError(ctx, err, "restapi - v1 - getOriginal")
	}

	meta, err := json.Marshal(blob.Metadata)
	if err == nil {
		ctx.Set(HeaderPhotoMetadata, string(meta))
	}

	return sendBlob(ctx, blob)
}

// @Summary 	Get thumbnail
// @Description Streams the 100x100 JPEG thumbnail
// @Tags 		media
// @Produce 	image/jpeg
// @Param 		id  path string true "Photo ID (uuid)"
// @Param 		ext path string true "Extension, not used for lookup"
// @Success 	200 {file} 	binary
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Not found"
// @Router 		/media/thumbs/{id}.{ext} [get]
func (r *V1) getThumbnail(ctx *fiber.Ctx) error {
	blob, err := r.photo.OpenThumbnail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return r.mediaError(ctx, err, "restapi - v1 - getThumbnail")
	}

	return sendBlob(ctx, blob)
}

func (r *V1) mediaError(ctx *fiber.Ctx, err error, op string) error {
	switch {
	case errors.Is(err, errs.ErrInvalidID):
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	case errors.Is(err, errs.ErrBlobNotFound):
		// отдаём следующему обработчику, по умолчанию 404
		return ctx.Next()
	default:
		r.logger.Error(err, op)

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}
}

func sendBlob(ctx *fiber.Ctx, blob *entity.Blob) error {
	contentType := blob.ContentType
	if contentType == "" {
		contentType = blob.Metadata[entity.MetaContentType]
	}
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}

	ctx.Set(fiber.HeaderContentType, contentType)

	if blob.Size > 0 {
		return ctx.SendStream(blob.Body, int(blob.Size))
	}

	return ctx.SendStream(blob.Body)
}
