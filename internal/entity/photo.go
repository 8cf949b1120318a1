package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ThumbnailContentType = "image/jpeg"
	thumbnailExtension   = "jpg"
)

type Photo struct {
	ID uuid.UUID `json:"id"`

	BusinessID  string  `json:"business_id"`
	Caption     *string `json:"caption,omitempty"`
	ContentType string  `json:"content_type"`

	// ThumbID is set once the thumbnail worker has stored the thumbnail. It always equals ID.
	ThumbID *uuid.UUID `json:"thumb_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Photo) HasThumbnail() bool {
	return p.ThumbID != nil
}

// URL names the original by its media subtype, e.g. <id>.jpeg for image/jpeg.
func (p *Photo) URL() string {
	_, ext, ok := strings.Cut(p.ContentType, "/")
	if !ok || ext == "" {
		ext = "bin"
	}

	return fmt.Sprintf("/media/photos/%s.%s", p.ID, ext)
}

// ThumbURL returns nil until the thumbnail exists.
func (p *Photo) ThumbURL() *string {
	if p.ThumbID == nil {
		return nil
	}

	u := fmt.Sprintf("/media/thumbs/%s.%s", p.ThumbID, thumbnailExtension)

	return &u
}
