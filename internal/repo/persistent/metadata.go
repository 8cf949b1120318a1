package persistent

import (
	"net/url"
	"strings"
)

// Object metadata travels as HTTP headers, so values are query-escaped on the
// way in and keys are lower-cased on the way out.

func encodeMetadata(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}

	encoded := make(map[string]string, len(metadata))
	for k, v := range metadata {
		encoded[strings.ToLower(k)] = url.QueryEscape(v)
	}

	return encoded
}

func decodeMetadata(metadata map[string]string) map[string]string {
	decoded := make(map[string]string, len(metadata))
	for k, v := range metadata {
		unescaped, err := url.QueryUnescape(v)
		if err != nil {
			unescaped = v
		}
		decoded[strings.ToLower(k)] = unescaped
	}

	return decoded
}
