package domain

import (
	"encoding/base64"
	"strings"
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEMP4  = "video/mp4"
)

// ImageData is the unit exchanged between the studio and the gateway: an
// encoded payload plus its media type. Video results use the same shape.
type ImageData struct {
	Base64   string `json:"base64"`
	MIMEType string `json:"mimeType"`
}

// NewImageData encodes raw bytes.
func NewImageData(data []byte, mimeType string) ImageData {
	return ImageData{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MIMEType: strings.TrimSpace(mimeType),
	}
}

// IsZero reports whether no payload is held.
func (d ImageData) IsZero() bool {
	return d.Base64 == "" && d.MIMEType == ""
}

// Bytes decodes the payload.
func (d ImageData) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(d.Base64)
}

// Validate checks that both fields are present and the payload decodes.
func (d ImageData) Validate() error {
	if strings.TrimSpace(d.Base64) == "" || strings.TrimSpace(d.MIMEType) == "" {
		return NewError(ErrInvalidInput, "Image data is required with base64 and mimeType")
	}
	if _, err := d.Bytes(); err != nil {
		return WrapError(ErrInvalidInput, "Image data must be valid base64", err)
	}
	return nil
}

// ValidatePrompt rejects empty or whitespace-only prompts.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return NewError(ErrInvalidInput, "Prompt is required and must be a string")
	}
	return nil
}
