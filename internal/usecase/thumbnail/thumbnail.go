package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/andreyxaxa/Photo-Storage/internal/repo"
	"github.com/andreyxaxa/Photo-Storage/internal/usecase"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/google/uuid"
)

type ThumbnailUseCase struct {
	photoRepo repo.PhotoRepo
	originals repo.BlobRepo
	thumbs    repo.BlobRepo
	prc       usecase.ImageProcessorUseCase

	logger logger.Interface
}

func New(
	photoRepo repo.PhotoRepo,
	originals repo.BlobRepo,
	thumbs repo.BlobRepo,
	prc usecase.ImageProcessorUseCase,
	l logger.Interface,
) *ThumbnailUseCase {
	return &ThumbnailUseCase{
		photoRepo: photoRepo,
		originals: originals,
		thumbs:    thumbs,
		prc:       prc,
		logger:    l,
	}
}

// Generate produces the thumbnail of one photo and links it on the record. Every
// failure is an *errs.PipelineError; errs.IsPermanent tells whether redelivering
// the request can help. Running it twice for the same photo leaves the same state.
func (uc *ThumbnailUseCase) Generate(ctx context.Context, req dto.GenerationRequest) error {
	uc.trace(req.PhotoID, entity.StageReceived)

	photoID, err := uuid.Parse(req.PhotoID)
	if err != nil {
		return uc.fail(req.PhotoID, entity.StageReceived, true,
			fmt.Errorf("uuid.Parse(%q): %w", req.PhotoID, errs.ErrInvalidID))
	}
	key := photoID.String()

	// 1. скачиваем оригинал целиком
	uc.trace(key, entity.StageFetchingOriginal)
	data, err := uc.originals.GetBytes(ctx, key)
	if err != nil {
		return uc.failStep(ctx, photoID, entity.StageFetchingOriginal,
			fmt.Errorf("uc.originals.GetBytes: %w", err))
	}

	// 2. декодируем
	uc.trace(key, entity.StageDecoding)
	img, err := uc.prc.Decode(ctx, data)
	if err != nil {
		return uc.failStep(ctx, photoID, entity.StageDecoding,
			fmt.Errorf("uc.prc.Decode: %w", err))
	}

	// 3. уменьшаем до превью
	uc.trace(key, entity.StageResizing)
	thumb, err := uc.prc.Thumbnail(ctx, img)
	if err != nil {
		return uc.failStep(ctx, photoID, entity.StageResizing,
			fmt.Errorf("uc.prc.Thumbnail: %w", err))
	}

	// 4. сохраняем превью под тем же ключом
	uc.trace(key, entity.StageStoringThumbnail)
	err = uc.thumbs.Put(ctx, key, bytes.NewReader(thumb), int64(len(thumb)), entity.ThumbnailContentType, map[string]string{
		entity.MetaContentType:     entity.ThumbnailContentType,
		entity.MetaOriginalPhotoID: key,
	})
	if err != nil {
		return uc.fail(key, entity.StageStoringThumbnail, false,
			fmt.Errorf("uc.thumbs.Put: %w", err))
	}

	// 5. связываем превью с записью
	uc.trace(key, entity.StageLinking)
	err = uc.photoRepo.SetThumbID(ctx, photoID, photoID)
	if err != nil {
		if !errors.Is(err, errs.ErrRecordNotFound) {
			return uc.fail(key, entity.StageLinking, false,
				fmt.Errorf("uc.photoRepo.SetThumbID: %w", err))
		}

		// записи нет, превью без записи не оставляем
		deleteErr := uc.thumbs.Delete(context.WithoutCancel(ctx), key)
		if deleteErr != nil {
			uc.logger.Error(deleteErr, "ThumbnailUseCase - Generate - uc.thumbs.Delete: photo %s", key)
		}

		return uc.fail(key, entity.StageLinking, true,
			fmt.Errorf("uc.photoRepo.SetThumbID: %w", err))
	}

	uc.trace(key, entity.StageAcknowledged)

	return nil
}

func (uc *ThumbnailUseCase) trace(photoID string, stage entity.Stage) {
	uc.logger.Debug("ThumbnailUseCase - Generate - photo=%s stage=%s", photoID, stage)
}

// failStep fails a step that reads or transforms the original. Unless the step was
// interrupted the photo can never get a thumbnail, so it is marked failed on the
// record and the reconciler leaves it alone.
func (uc *ThumbnailUseCase) failStep(ctx context.Context, photoID uuid.UUID, stage entity.Stage, err error) error {
	key := photoID.String()

	if isInterrupted(ctx, err) {
		return uc.fail(key, stage, false, err)
	}

	markErr := uc.photoRepo.MarkThumbnailFailed(context.WithoutCancel(ctx), photoID)
	if markErr != nil && !errors.Is(markErr, errs.ErrRecordNotFound) {
		uc.logger.Error(markErr, "ThumbnailUseCase - Generate - uc.photoRepo.MarkThumbnailFailed: photo %s", key)
	}

	return uc.fail(key, stage, true, err)
}

func (uc *ThumbnailUseCase) fail(photoID string, stage entity.Stage, permanent bool, err error) error {
	pe := &errs.PipelineError{
		Stage:     string(stage),
		Permanent: permanent,
		Err:       err,
	}

	uc.trace(photoID, entity.StageFailed)

	return fmt.Errorf("ThumbnailUseCase - Generate: %w", pe)
}

// isInterrupted reports whether err came from the step deadline or shutdown rather than the data itself.
func isInterrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}
