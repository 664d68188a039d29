package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/draw"
)

// Options bounds the normalized snapshot.
type Options struct {
	// Longest side in pixels after scaling
	MaxDimension int
	// Upper bound on the encoded size; quality steps down until it fits
	MaxBytes int
	Quality  int
}

func DefaultOptions() Options {
	return Options{
		MaxDimension: 640,
		MaxBytes:     150 * 1024,
		Quality:      80,
	}
}

// Normalize decodes a JPEG or PNG photo, scales it down to fit
// MaxDimension and re-encodes it as JPEG.
func Normalize(buffer []byte, opts Options) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), opts.MaxDimension)
	if width != bounds.Dx() || height != bounds.Dy() {
		img = resizeImage(img, width, height)
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var compressed []byte
	for {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()

		if opts.MaxBytes <= 0 || len(compressed) <= opts.MaxBytes || quality <= 40 {
			return compressed, nil
		}
		quality -= 10
	}
}

// fitWithin scales (w, h) so the longest side is at most max, keeping the aspect ratio.
func fitWithin(w, h, max int) (int, int) {
	if max <= 0 || (w <= max && h <= max) {
		return w, h
	}
	if w >= h {
		return max, maxInt(1, h*max/w)
	}
	return maxInt(1, w*max/h), max
}

func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// DataURI embeds data as a base64 data URI.
func DataURI(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a base64 data URI into its content type and payload.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	return contentType, data, nil
}
