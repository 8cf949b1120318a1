package v1

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/andreyxaxa/Photo-Storage/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/Photo-Storage/internal/controller/restapi/v1/validate"
	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const invalidPhotoMsg = "Request body is not a valid photo object"

// @Summary  	Upload photo
// @Description Stores the original in the blob store, creates the photo record and enqueues thumbnail generation
// @Tags 		photos
// @Accept 		mpfd
// @Produce 	json
// @Param 		file 	   formData file   true  "Image file (jpeg, png)"
// @Param 		businessId formData string true  "Owning business"
// @Param 		caption    formData string false "Caption"
// @Success 	201 {object} response.UploadPhoto
// @Failure 	400 {object} response.Error "Missing or invalid file, invalid metadata"
// @Failure 	413 {object} response.Error "File too large"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/photos [post]
func (r *V1) uploadPhoto(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "file is required")
	}

	// 1. валидация размера
	if file.Size == 0 {
		return errorResponse(ctx, http.StatusBadRequest, "file is empty")
	}

	if file.Size > r.maxFileSize {
		return errorResponse(ctx, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file size cant be more than %d bytes", r.maxFileSize))
	}

	// 2. валидация content type
	contentType, _, err := mime.ParseMediaType(file.Header.Get(fiber.HeaderContentType))
	if err != nil || !validate.AllowedContentTypes[contentType] {
		return errorResponse(ctx, http.StatusBadRequest, "unsupported file type. Allowed: jpeg, png")
	}

	// 3. валидация метаданных
	form, err := ctx.MultipartForm()
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, invalidPhotoMsg)
	}

	businessID := firstValue(form.Value["businessId"])
	var caption *string
	if values := form.Value["caption"]; len(values) > 0 {
		caption = &values[0]
	}

	if !validate.PhotoMetadata(businessID, caption) {
		return errorResponse(ctx, http.StatusBadRequest, invalidPhotoMsg)
	}

	// 4. сохраняем во временный файл
	tmpPath := filepath.Join(r.tempDir, uuid.NewString())
	err = ctx.SaveFile(file, tmpPath)
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logger.Error(err, "restapi - v1 - uploadPhoto - os.Remove")
		}
	}()
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadPhoto - ctx.SaveFile")

		return errorResponse(ctx, http.StatusInternalServerError, "problems with saving the file")
	}

	// 5. сверяем содержимое с заявленным типом
	detected, err := mimetype.DetectFile(tmpPath)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadPhoto - mimetype.DetectFile")

		return errorResponse(ctx, http.StatusInternalServerError, "problems with reading the file")
	}
	if !detected.Is(contentType) {
		return errorResponse(ctx, http.StatusBadRequest,
			fmt.Sprintf("file content is %s, declared %s", detected.String(), contentType))
	}

	// 6. открытие файла
	fileReader, err := os.Open(tmpPath)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadPhoto - os.Open")

		return errorResponse(ctx, http.StatusInternalServerError, "problems with opening the file")
	}
	defer fileReader.Close()

	// 7. загружаем
	photo, err := r.photo.UploadPhoto(ctx.UserContext(), dto.NewPhoto{
		BusinessID:  businessID,
		Caption:     caption,
		ContentType: contentType,
		Size:        file.Size,
		Data:        fileReader,
	})
	if err != nil {
		r.logger.Error(err, "restapi - v1 - uploadPhoto")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	// 8. ответ
	return ctx.Status(http.StatusCreated).JSON(response.NewUploadPhoto(photo))
}

// @Summary 	Get photo
// @Description Returns the photo record with media links; thumbUrl is null until the thumbnail exists
// @Tags 		photos
// @Produce 	json
// @Param 		id path string true "Photo ID (uuid)"
// @Success 	200 {object} response.Photo
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Photo not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/photos/{id} [get]
func (r *V1) getPhoto(ctx *fiber.Ctx) error {
	photo, err := r.photo.GetPhoto(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return r.recordError(ctx, err, "restapi - v1 - getPhoto")
	}

	return ctx.JSON(response.NewPhoto(photo))
}

// @Summary 	Request thumbnail
// @Description Enqueues thumbnail generation for an existing photo again
// @Tags 		photos
// @Produce 	json
// @Param 		id path string true "Photo ID (uuid)"
// @Success 	202 {object} response.ThumbnailRequested
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Photo not found"
// @Failure 	503 {object} response.Error "Queue unavailable"
// @Router 		/photos/{id}/thumbnail [post]
func (r *V1) requestThumbnail(ctx *fiber.Ctx) error {
	photo, err := r.photo.RequestThumbnail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		if errors.Is(err, errs.ErrQueueUnavailable) {
			r.logger.Error(err, "restapi - v1 - requestThumbnail")

			return errorResponse(ctx, http.StatusServiceUnavailable, "work queue unavailable")
		}

		return r.recordError(ctx, err, "restapi - v1 - requestThumbnail")
	}

	return ctx.Status(http.StatusAccepted).JSON(response.ThumbnailRequested{
		ID:     photo.ID.String(),
		Status: "queued",
	})
}

func (r *V1) recordError(ctx *fiber.Ctx, err error, op string) error {
	switch {
	case errors.Is(err, errs.ErrInvalidID):
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	case errors.Is(err, errs.ErrRecordNotFound):
		return errorResponse(ctx, http.StatusNotFound, "photo not found")
	default:
		r.logger.Error(err, op)

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
