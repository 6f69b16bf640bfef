package storage

import (
	"context"
	"errors"
)

// Uploader define la interfaz para subir blobs y obtener su URL publica.
type Uploader interface {
	Upload(ctx context.Context, base64Payload, container string) (string, error)
}

type disabledUploader struct {
	reason string
}

func NewDisabledUploader(reason string) Uploader {
	return &disabledUploader{reason: reason}
}

func (u *disabledUploader) Upload(_ context.Context, _, _ string) (string, error) {
	if u.reason == "" {
		return "", errors.New("blob storage disabled")
	}
	return "", errors.New(u.reason)
}
