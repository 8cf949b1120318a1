package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestPhotoURLs(t *testing.T) {
	id := uuid.MustParse("0b5b3f0e-4b7e-4a41-9a7d-2c1c6f2f0a11")

	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", "/media/photos/" + id.String() + ".jpeg"},
		{"image/png", "/media/photos/" + id.String() + ".png"},
		{"", "/media/photos/" + id.String() + ".bin"},
	}

	for _, tt := range tests {
		p := Photo{ID: id, ContentType: tt.contentType}
		if got := p.URL(); got != tt.want {
			t.Errorf("URL() for %q = %s, want %s", tt.contentType, got, tt.want)
		}
	}

	p := Photo{ID: id, ContentType: "image/png"}
	if p.ThumbURL() != nil {
		t.Fatal("thumbUrl must be nil before the thumbnail exists")
	}

	p.ThumbID = &id
	if got := *p.ThumbURL(); got != "/media/thumbs/"+id.String()+".jpg" {
		t.Fatalf("unexpected thumbUrl %s", got)
	}
}
