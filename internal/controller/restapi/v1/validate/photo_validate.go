package validate

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxBusinessIDLen = 128
	MaxCaptionLen    = 2048
)

var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// PhotoMetadata checks the form fields that travel with an upload.
func PhotoMetadata(businessID string, caption *string) bool {
	if strings.TrimSpace(businessID) == "" || utf8.RuneCountInString(businessID) > MaxBusinessIDLen {
		return false
	}

	if caption != nil && utf8.RuneCountInString(*caption) > MaxCaptionLen {
		return false
	}

	return true
}
