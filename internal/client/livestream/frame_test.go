package livestream

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	return img
}

func TestDecodeFrame_Base64PNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(4, 3)))
	payload := []byte(base64.StdEncoding.EncodeToString(buf.Bytes()))

	img, format, err := DecodeFrame(payload, true)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
}

func TestDecodeFrame_DataURLJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(16, 8), nil))
	payload := []byte("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()))

	img, format, err := DecodeFrame(payload, true)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestDecodeFrame_BinaryBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage(5, 2)))

	img, format, err := DecodeFrame(buf.Bytes(), false)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, image.Rect(0, 0, 5, 2), img.Bounds())
}

func TestDecodeFrame_Garbage(t *testing.T) {
	_, _, err := DecodeFrame([]byte("not base64!!"), true)
	require.ErrorIs(t, err, ErrUndecodableFrame)

	_, _, err = DecodeFrame([]byte(base64.StdEncoding.EncodeToString([]byte("hello"))), true)
	require.ErrorIs(t, err, ErrUndecodableFrame)

	_, _, err = DecodeFrame([]byte{0x00, 0x01}, false)
	require.ErrorIs(t, err, ErrUndecodableFrame)
}
