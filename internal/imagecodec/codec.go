// Package imagecodec turns uploaded files into domain.ImageData.
package imagecodec

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"holosuite/internal/domain"
)

// Read consumes r up to maxBytes and encodes it. The declared content type
// wins when it names an image type; otherwise the type is sniffed from the
// payload. Anything that is not an image is rejected.
func Read(r io.Reader, declared string, maxBytes int64) (domain.ImageData, error) {
	if r == nil {
		return domain.ImageData{}, domain.NewError(domain.ErrInvalidInput, "No file was uploaded")
	}
	var src io.Reader = r
	if maxBytes > 0 {
		src = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return domain.ImageData{}, domain.WrapError(domain.ErrInvalidInput, "Could not read the uploaded file", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return domain.ImageData{}, domain.NewError(domain.ErrInvalidInput,
			fmt.Sprintf("Uploaded file exceeds %d bytes", maxBytes))
	}
	return Decode(data, declared)
}

// Decode encodes data using the declared or sniffed image media type.
func Decode(data []byte, declared string) (domain.ImageData, error) {
	if len(data) == 0 {
		return domain.ImageData{}, domain.NewError(domain.ErrInvalidInput, "Uploaded file is empty")
	}
	mimeType, err := MediaType(data, declared)
	if err != nil {
		return domain.ImageData{}, err
	}
	return domain.NewImageData(data, mimeType), nil
}

// MediaType resolves the image media type of data.
func MediaType(data []byte, declared string) (string, error) {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mt, "image/") {
		return mt, nil
	}
	detected := mimetype.Detect(data)
	if mt, _, _ := strings.Cut(detected.String(), ";"); strings.HasPrefix(mt, "image/") {
		return mt, nil
	}
	return "", domain.WrapError(domain.ErrInvalidInput, "Uploaded file is not an image",
		errors.New("detected "+detected.String()))
}
