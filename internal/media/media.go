// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media stores the files uploaded with a nomination.

Two backends implement [Storage]:

  - S3Storage: any S3-compatible bucket (AWS, Cloudflare R2, MinIO).
  - DiskStorage: a local directory, used in development and single-host installs.

Keys are slash-separated and relative, e.g. "nominations/NOM-.../photo.jpg".
*/
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty, absolute or escape the root.
var ErrInvalidKey = errors.New("media: invalid object key")

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	Location    string `json:"location"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Storage persists uploaded files.
type Storage interface {
	Put(context context.Context, key, contentType string, body io.Reader, size int64) (Object, error)
	Delete(context context.Context, key string) error
}

// CleanKey validates an object key and returns its canonical form.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}

	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
