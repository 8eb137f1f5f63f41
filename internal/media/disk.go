// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStorage writes objects below a root directory.
type DiskStorage struct {
	root string
}

// NewDiskStorage creates the root directory if needed.
func NewDiskStorage(root string) (*DiskStorage, error) {
	absolute, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("media_disk_root_invalid: %w", err)
	}

	if err := os.MkdirAll(absolute, 0o750); err != nil {
		return nil, fmt.Errorf("media_disk_root_create_failed: %w", err)
	}
	return &DiskStorage{root: absolute}, nil
}

// Put streams body to a temp file and renames it into place, so readers never
// observe a partially written object.
func (storage *DiskStorage) Put(context context.Context, key, contentType string, body io.Reader, size int64) (Object, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return Object{}, err
	}

	target := filepath.Join(storage.root, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return Object{}, fmt.Errorf("media_disk_mkdir_failed: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("media_disk_create_failed: %w", err)
	}
	defer os.Remove(temp.Name())

	written, copyErr := io.Copy(temp, readerWithContext{context: context, reader: body})
	closeErr := temp.Close()
	if copyErr != nil {
		return Object{}, fmt.Errorf("media_disk_write_failed: %w", copyErr)
	}
	if closeErr != nil {
		return Object{}, fmt.Errorf("media_disk_close_failed: %w", closeErr)
	}
	if size >= 0 && written != size {
		return Object{}, fmt.Errorf("media_disk_short_write: wrote %d of %d bytes", written, size)
	}

	if err := os.Rename(temp.Name(), target); err != nil {
		return Object{}, fmt.Errorf("media_disk_rename_failed: %w", err)
	}

	return Object{Key: cleaned, Location: target, ContentType: contentType, Size: written}, nil
}

// Delete removes an object. Missing objects are not an error.
func (storage *DiskStorage) Delete(_ context.Context, key string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(storage.root, filepath.FromSlash(cleaned))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("media_disk_delete_failed: %w", err)
	}
	return nil
}

// readerWithContext stops a copy once the request is cancelled.
type readerWithContext struct {
	context context.Context
	reader  io.Reader
}

func (r readerWithContext) Read(buffer []byte) (int, error) {
	if err := r.context.Err(); err != nil {
		return 0, err
	}
	return r.reader.Read(buffer)
}
