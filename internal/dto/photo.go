package dto

import "io"

type NewPhoto struct {
	BusinessID  string
	Caption     *string
	ContentType string
	Size        int64
	Data        io.Reader
}

// GenerationRequest asks the thumbnail worker to produce the thumbnail of one photo.
type GenerationRequest struct {
	PhotoID    string `json:"photoId"`
	BusinessID string `json:"businessId"`
}
