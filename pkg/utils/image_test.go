package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeToJPGShrinksWideImages(t *testing.T) {
	out, format, err := NormalizeToJPG(encodePNG(t, 200, 100), 50, 90)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestNormalizeToJPGKeepsNarrowImages(t *testing.T) {
	out, _, err := NormalizeToJPG(encodePNG(t, 40, 30), 100, 0)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestNormalizeToJPGRejectsGarbage(t *testing.T) {
	_, _, err := NormalizeToJPG([]byte("definitely not an image"), 0, 80)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, _, err = NormalizeToJPG(nil, 0, 80)
	assert.Error(t, err)
}

func TestOrientRotatesQuarterTurn(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.RGBA{R: 255, A: 255})

	rotated := orient(src, 6)
	assert.Equal(t, 2, rotated.Bounds().Dx())
	assert.Equal(t, 3, rotated.Bounds().Dy())
	r, _, _, _ := rotated.At(1, 0).RGBA()
	assert.NotZero(t, r, "top-left moves to top-right on a clockwise turn")

	assert.Same(t, image.Image(src), orient(src, 1))
}

func TestReadAllLimit(t *testing.T) {
	b, err := ReadAllLimit(strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))

	_, err = ReadAllLimit(strings.NewReader("abcd"), 3)
	assert.ErrorIs(t, err, ErrTooLarge)
}
