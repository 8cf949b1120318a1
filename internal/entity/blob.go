package entity

import "io"

// Blob metadata keys. Both backends return them lower-cased. Standard header
// names such as content-type are rejected by MinIO as user metadata.
const (
	MetaBusinessID      = "business-id"
	MetaCaption         = "caption"
	MetaContentType     = "photo-content-type"
	MetaOriginalPhotoID = "original-photo-id"
)

// Blob is an object read from a bucket. Body must be closed by the caller.
type Blob struct {
	Key         string
	ContentType string
	Size        int64
	Metadata    map[string]string
	Body        io.ReadCloser
}
