package v1

import (
	"github.com/andreyxaxa/Photo-Storage/internal/usecase"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func NewPhotoRoutes(
	router fiber.Router,
	photo usecase.PhotoUseCase,
	l logger.Interface,
	tempDir string,
	maxFileSize int64,
) {
	r := &V1{
		photo:       photo,
		logger:      l,
		tempDir:     tempDir,
		maxFileSize: maxFileSize,
	}

	{
		// API
		router.Post("/photos", r.uploadPhoto)
		router.Get("/photos/:id", r.getPhoto)
		router.Post("/photos/:id/thumbnail", r.requestThumbnail)

		// media
		router.Get("/media/photos/:id.:ext", r.getOriginal)
		router.Get("/media/thumbs/:id.:ext", r.getThumbnail)
	}
}
