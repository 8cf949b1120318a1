package v1

import (
	"github.com/andreyxaxa/Photo-Storage/internal/usecase"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
)

type V1 struct {
	photo  usecase.PhotoUseCase
	logger logger.Interface

	tempDir     string
	maxFileSize int64
}
