package capture

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadedPhoto(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	file, header, err := req.FormFile("photo")
	require.NoError(t, err)
	return file, header
}

func TestUploadDevice_MissingPhoto(t *testing.T) {
	device := NewUploadDevice(nil, nil)

	_, err := device.Open(context.Background())

	assert.ErrorIs(t, err, ErrCameraUnavailable)
}

func TestUploadDevice_SnapshotAndRelease(t *testing.T) {
	file, header := uploadedPhoto(t, "selfie.jpg", []byte("not-really-a-jpeg"))
	device := NewUploadDevice(file, header)

	stream, err := device.Open(context.Background())
	require.NoError(t, err)

	img, err := stream.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.ContentType)
	assert.Equal(t, []byte("not-really-a-jpeg"), img.Data)

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())

	_, err = stream.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrCameraUnavailable)
}

func TestUploadDevice_EmptyPhoto(t *testing.T) {
	file, header := uploadedPhoto(t, "selfie.png", nil)
	stream, err := NewUploadDevice(file, header).Open(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrCameraUnavailable)
}
