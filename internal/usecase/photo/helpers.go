package photo

import (
	"fmt"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/internal/entity"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
	"github.com/google/uuid"
)

func parseID(id string) (uuid.UUID, error) {
	photoID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parseID(%q): %w", id, errs.ErrInvalidID)
	}

	return photoID, nil
}

func originalMetadata(photo *entity.Photo) map[string]string {
	meta := map[string]string{
		entity.MetaBusinessID:  photo.BusinessID,
		entity.MetaContentType: photo.ContentType,
	}
	if photo.Caption != nil {
		meta[entity.MetaCaption] = *photo.Caption
	}

	return meta
}

func generationRequest(photo *entity.Photo) dto.GenerationRequest {
	return dto.GenerationRequest{
		PhotoID:    photo.ID.String(),
		BusinessID: photo.BusinessID,
	}
}
