package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_ScalesDownToJPEG(t *testing.T) {
	out, err := Normalize(pngFixture(t, 1280, 960), DefaultOptions())
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}

func TestNormalize_KeepsSmallImageSize(t *testing.T) {
	out, err := Normalize(pngFixture(t, 200, 300), DefaultOptions())
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("not an image"), DefaultOptions())
	assert.Error(t, err)
}

func TestFitWithin(t *testing.T) {
	w, h := fitWithin(480, 1280, 640)
	assert.Equal(t, 240, w)
	assert.Equal(t, 640, h)

	w, h = fitWithin(100, 100, 0)
	assert.Equal(t, 100, w)
	assert.Equal(t, 100, h)
}

func TestDataURI_RoundTrip(t *testing.T) {
	uri := DataURI("image/jpeg", []byte{0xff, 0xd8, 0xff})
	assert.Equal(t, "data:image/jpeg;base64,/9j/", uri)

	contentType, data, err := ParseDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)

	_, _, err = ParseDataURI("https://example.com/a.jpg")
	assert.Error(t, err)
}
