package photo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/andreyxaxa/Photo-Storage/internal/infrastructure"
	"github.com/andreyxaxa/Photo-Storage/internal/repo"
	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/google/uuid"
)

type PhotoUseCase struct {
	photoRepo repo.PhotoRepo
	originals repo.BlobRepo
	thumbs    repo.BlobRepo
	sender    infrastructure.RequestSender

	enqueueTimeout time.Duration

	logger logger.Interface
}

func New(
	photoRepo repo.PhotoRepo,
	originals repo.BlobRepo,
	thumbs repo.BlobRepo,
	sender infrastructure.RequestSender,
	enqueueTimeout time.Duration,
	l logger.Interface,
) *PhotoUseCase {
	return &PhotoUseCase{
		photoRepo:      photoRepo,
		originals:      originals,
		thumbs:         thumbs,
		sender:         sender,
		enqueueTimeout: enqueueTimeout,
		logger:         l,
	}
}

// UploadPhoto stores the original, creates the photo record and asks for a
// thumbnail. The request is best effort: the photo is accepted even when the
// queue is unreachable.
func (uc *PhotoUseCase) UploadPhoto(ctx context.Context, p dto.NewPhoto) (*entity.Photo, error) {
	photo := &entity.Photo{
		ID:          uuid.New(),
		BusinessID:  p.BusinessID,
		Caption:     p.Caption,
		ContentType: p.ContentType,
		CreatedAt:   time.Now().UTC(),
	}
	key := photo.ID.String()

	// 1. загружаем оригинал
	err := uc.originals.Put(ctx, key, p.Data, p.Size, p.ContentType, originalMetadata(photo))
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - UploadPhoto - uc.originals.Put: %w", err)
	}

	// 2. записываем метаданные
	err = uc.photoRepo.Create(ctx, photo)
	if err != nil {
		// удаляем загруженный оригинал
		deleteErr := uc.originals.Delete(context.WithoutCancel(ctx), key)
		if deleteErr != nil {
			uc.logger.Error(deleteErr, "PhotoUseCase - UploadPhoto - uc.originals.Delete")
		}
		return nil, fmt.Errorf("PhotoUseCase - UploadPhoto - uc.photoRepo.Create: %w", err)
	}

	// 3. ставим задачу на превью, ошибка загрузку не отменяет
	err = uc.enqueue(context.WithoutCancel(ctx), photo)
	if err != nil {
		uc.logger.Error(err, "PhotoUseCase - UploadPhoto - uc.enqueue: photo %s", photo.ID)
	}

	return photo, nil
}

func (uc *PhotoUseCase) GetPhoto(ctx context.Context, id string) (*entity.Photo, error) {
	photoID, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - GetPhoto: %w", err)
	}

	photo, err := uc.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - GetPhoto - uc.photoRepo.GetByID: %w", err)
	}

	return photo, nil
}

func (uc *PhotoUseCase) OpenOriginal(ctx context.Context, id string) (*entity.Blob, error) {
	photoID, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - OpenOriginal: %w", err)
	}

	blob, err := uc.originals.Get(ctx, photoID.String())
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - OpenOriginal - uc.originals.Get: %w", err)
	}

	return blob, nil
}

func (uc *PhotoUseCase) OpenThumbnail(ctx context.Context, id string) (*entity.Blob, error) {
	photoID, err := parseID(id)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - OpenThumbnail: %w", err)
	}

	blob, err := uc.thumbs.Get(ctx, photoID.String())
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - OpenThumbnail - uc.thumbs.Get: %w", err)
	}

	return blob, nil
}

// RequestThumbnail re-enqueues the generation request of an existing photo.
func (uc *PhotoUseCase) RequestThumbnail(ctx context.Context, id string) (*entity.Photo, error) {
	photo, err := uc.GetPhoto(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - RequestThumbnail: %w", err)
	}

	err = uc.enqueue(ctx, photo)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - RequestThumbnail - uc.enqueue: %w: %w", errs.ErrQueueUnavailable, err)
	}

	return photo, nil
}

// EnqueueMissingThumbnails re-enqueues up to limit photos older than minAge that
// still have no thumbnail and reports how many requests were published.
func (uc *PhotoUseCase) EnqueueMissingThumbnails(ctx context.Context, minAge time.Duration, limit int) (int, error) {
	photos, err := uc.photoRepo.ListMissingThumbnails(ctx, time.Now().Add(-minAge), limit)
	if err != nil {
		return 0, fmt.Errorf("PhotoUseCase - EnqueueMissingThumbnails - uc.photoRepo.ListMissingThumbnails: %w", err)
	}

	var (
		sent    int
		sendErr error
	)
	for _, photo := range photos {
		err = uc.enqueue(ctx, photo)
		if err != nil {
			sendErr = errors.Join(sendErr, err)
			continue
		}
		sent++
	}

	if sendErr != nil {
		return sent, fmt.Errorf("PhotoUseCase - EnqueueMissingThumbnails - uc.enqueue: %w", sendErr)
	}

	return sent, nil
}

func (uc *PhotoUseCase) enqueue(ctx context.Context, photo *entity.Photo) error {
	if uc.enqueueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.enqueueTimeout)
		defer cancel()
	}

	return uc.sender.SendRequest(ctx, generationRequest(photo))
}
