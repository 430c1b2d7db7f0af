// Package datauri encodes and parses base64 image data URIs
// (data:image/jpeg;base64,...), the self-describing payload format
// pins are passed around in.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalid is returned when a string is not a base64 image data URI.
var ErrInvalid = errors.New("invalid image data uri")

var imageURIPattern = regexp.MustCompile(`(?i)^data:(image/[a-z]+);base64,(.+)$`)

// Encode builds a data URI from raw image bytes.
func Encode(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Parse splits an image data URI into its MIME type and decoded bytes.
func Parse(uri string) (mimeType string, data []byte, err error) {
	m := imageURIPattern.FindStringSubmatch(uri)
	if m == nil {
		return "", nil, ErrInvalid
	}
	data, err = base64.StdEncoding.DecodeString(m[2])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return strings.ToLower(m[1]), data, nil
}

// StripHeader returns the base64 payload of s, dropping a leading
// "data:image/...;base64," header when one is present.
func StripHeader(s string) string {
	if m := imageURIPattern.FindStringSubmatch(s); m != nil {
		return m[2]
	}
	return s
}

// Decode returns the raw bytes of either a data URI or a headerless
// base64 payload.
func Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(StripHeader(s))
}
