package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
)

var ErrCameraUnavailable = errors.New("camera unavailable")

// maxSnapshotSize bounds a single captured frame.
const maxSnapshotSize = 10 << 20

// Image is a captured still frame.
type Image struct {
	Data        []byte
	ContentType string
}

// Device hands out capture streams. Callers must Close every stream they open.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an acquired capture resource.
type Stream interface {
	Snapshot(ctx context.Context) (Image, error)
	Close() error
}

// UploadDevice serves a single photo uploaded from the client camera.
type UploadDevice struct {
	file   multipart.File
	header *multipart.FileHeader
}

// NewUploadDevice wraps an uploaded photo part. A nil file yields ErrCameraUnavailable on Open.
func NewUploadDevice(file multipart.File, header *multipart.FileHeader) *UploadDevice {
	return &UploadDevice{file: file, header: header}
}

// Open implements Device.
func (d *UploadDevice) Open(ctx context.Context) (Stream, error) {
	if d == nil || d.file == nil || d.header == nil {
		return nil, ErrCameraUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &uploadStream{file: d.file, header: d.header}, nil
}

type uploadStream struct {
	mu     sync.Mutex
	file   multipart.File
	header *multipart.FileHeader
	closed bool
}

// Snapshot implements Stream.
func (s *uploadStream) Snapshot(ctx context.Context) (Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Image{}, fmt.Errorf("%w: stream already released", ErrCameraUnavailable)
	}
	if s.header.Size > maxSnapshotSize {
		return Image{}, fmt.Errorf("%w: photo exceeds 10MB", ErrCameraUnavailable)
	}

	data, err := io.ReadAll(io.LimitReader(s.file, maxSnapshotSize+1))
	if err != nil {
		return Image{}, fmt.Errorf("%w: failed to read photo: %v", ErrCameraUnavailable, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty photo", ErrCameraUnavailable)
	}

	return Image{Data: data, ContentType: detectContentType(s.header.Filename, data)}, nil
}

// Close implements Stream. It is safe to call more than once.
func (s *uploadStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

func detectContentType(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	}
	return http.DetectContentType(data)
}
