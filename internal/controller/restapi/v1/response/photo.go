package response

import (
	"net/url"

	"github.com/andreyxaxa/Photo-Storage/internal/entity"
)

type Links struct {
	Photo    string `json:"photo" example:"/photos/0b5b3f0e-4b7e-4a41-9a7d-2c1c6f2f0a11"`
	Business string `json:"business" example:"/businesses/b1"`
}

type UploadPhoto struct {
	ID    string `json:"id" example:"0b5b3f0e-4b7e-4a41-9a7d-2c1c6f2f0a11"`
	Links Links  `json:"links"`
}

type Photo struct {
	ID          string  `json:"_id"`
	BusinessID  string  `json:"businessId"`
	Caption     *string `json:"caption"`
	ContentType string  `json:"contentType"`
	ThumbID     *string `json:"thumbID"`
	URL         string  `json:"url"`
	ThumbURL    *string `json:"thumbUrl"`
}

type ThumbnailRequested struct {
	ID     string `json:"id"`
	Status string `json:"status" example:"queued"`
}

func NewUploadPhoto(p *entity.Photo) UploadPhoto {
	return UploadPhoto{
		ID: p.ID.String(),
		Links: Links{
			Photo:    "/photos/" + p.ID.String(),
			Business: "/businesses/" + url.PathEscape(p.BusinessID),
		},
	}
}

func NewPhoto(p *entity.Photo) Photo {
	var thumbID *string
	if p.ThumbID != nil {
		id := p.ThumbID.String()
		thumbID = &id
	}

	return Photo{
		ID:          p.ID.String(),
		BusinessID:  p.BusinessID,
		Caption:     p.Caption,
		ContentType: p.ContentType,
		ThumbID:     thumbID,
		URL:         p.URL(),
		ThumbURL:    p.ThumbURL(),
	}
}
