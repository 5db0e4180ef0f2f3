package livestream

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUndecodableFrame = errors.New("undecodable frame")

// DecodeFrame turns one socket message into an image. Text messages carry
// base64 bytes, optionally as a data URL; binary messages carry raw bytes.
func DecodeFrame(payload []byte, encoded bool) (image.Image, string, error) {
	raw := payload
	if encoded {
		s := strings.TrimSpace(string(payload))
		if strings.HasPrefix(s, "data:") {
			if _, data, ok := strings.Cut(s, ","); ok {
				s = data
			}
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, "", fmt.Errorf("%w: base64: %w", ErrUndecodableFrame, err)
		}
		raw = b
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUndecodableFrame, err)
	}
	return img, format, nil
}
