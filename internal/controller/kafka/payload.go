package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Photo-Storage/internal/dto"
	"github.com/andreyxaxa/Photo-Storage/pkg/types/errs"
)

// GenerationRequestPayload is the wire form of a generation request.
type GenerationRequestPayload struct {
	PhotoID    string `json:"photoId"`
	BusinessID string `json:"businessId"`
}

func decodePayload(value []byte) (dto.GenerationRequest, error) {
	var payload GenerationRequestPayload

	err := json.Unmarshal(value, &payload)
	if err != nil {
		return dto.GenerationRequest{}, fmt.Errorf("decodePayload - json.Unmarshal: %w: %w", errs.ErrMalformedRequest, err)
	}

	return dto.GenerationRequest{
		PhotoID:    payload.PhotoID,
		BusinessID: payload.BusinessID,
	}, nil
}
