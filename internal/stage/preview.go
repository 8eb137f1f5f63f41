// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stage

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Preview is a releasable local reference to a staged file.
// Release must be idempotent.
type Preview interface {
	Ref() string
	Release() error
}

// PreviewProvider acquires a preview for a newly staged file.
type PreviewProvider interface {
	Acquire(file File) (Preview, error)
}

// # No previews

// NoPreviews hands out inert previews.
type NoPreviews struct{}

func (NoPreviews) Acquire(File) (Preview, error) { return nopPreview{}, nil }

type nopPreview struct{}

func (nopPreview) Ref() string    { return "" }
func (nopPreview) Release() error { return nil }

// # Temp file previews

// TempPreviews copies each staged file into a private temp file, so later
// changes to the source do not alter what the user reviewed.
type TempPreviews struct {
	Dir string
}

func (provider TempPreviews) Acquire(file File) (Preview, error) {
	if file.Open == nil {
		return nopPreview{}, nil
	}

	source, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer source.Close()

	temp, err := os.CreateTemp(provider.Dir, "laureate-preview-*")
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(temp, source); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return nil, fmt.Errorf("copy preview: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(temp.Name())
		return nil, err
	}

	return &tempPreview{path: temp.Name()}, nil
}

type tempPreview struct {
	path string
	once sync.Once
	err  error
}

func (preview *tempPreview) Ref() string { return preview.path }

func (preview *tempPreview) Release() error {
	preview.once.Do(func() {
		if err := os.Remove(preview.path); err != nil && !os.IsNotExist(err) {
			preview.err = err
		}
	})
	return preview.err
}
