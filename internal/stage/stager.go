// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package stage holds the files a nominator selected before the nomination is
submitted: one nominee photo and up to five supporting documents.

Every staged file owns a [Preview]. Previews are released when the file is
replaced, removed, or when the stager is closed, so a long form session does
not leak temp files.
*/
package stage

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// # Files

// File is a candidate file selected by the user.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// FromPath describes a file on disk. The content type comes from the extension
// and falls back to content sniffing.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType, err = sniff(path)
		if err != nil {
			return File{}, err
		}
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: NormalizeType(contentType),
		Size:        info.Size(),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func sniff(path string) (string, error) {
	handle, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer handle.Close()

	header := make([]byte, 512)
	read, err := io.ReadFull(handle, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(header[:read]), nil
}

// StagedFile is an accepted file together with its preview handle.
type StagedFile struct {
	File
	Preview Preview
}

// # Stager

// ErrNoSuchFile is returned by Remove for an empty slot or out-of-range index.
var ErrNoSuchFile = errors.New("stage: no staged file at that position")

// Stager is safe for concurrent use.
type Stager struct {
	mutex      sync.Mutex
	previews   PreviewProvider
	photo      *StagedFile
	supporting []StagedFile
}

// New creates an empty stager. A nil provider disables previews.
func New(previews PreviewProvider) *Stager {
	if previews == nil {
		previews = NoPreviews{}
	}
	return &Stager{previews: previews}
}

// Stage validates and holds a file. A photo replaces the current one.
// On rejection the returned error is a *FileError and nothing already staged changes.
func (stager *Stager) Stage(slot Slot, file File) (StagedFile, error) {
	stager.mutex.Lock()
	defer stager.mutex.Unlock()

	staged := 0
	if slot == SlotSupporting {
		staged = len(stager.supporting)
	}

	if fileErr := Check(slot, file.ContentType, file.Size, staged); fileErr != nil {
		fileErr.Name = file.Name
		return StagedFile{}, fileErr
	}

	preview, err := stager.previews.Acquire(file)
	if err != nil {
		return StagedFile{}, fmt.Errorf("stage: preview %q: %w", file.Name, err)
	}

	file.ContentType = NormalizeType(file.ContentType)
	accepted := StagedFile{File: file, Preview: preview}

	switch slot {
	case SlotPhoto:
		if stager.photo != nil {
			stager.photo.Preview.Release()
		}
		stager.photo = &accepted
	case SlotSupporting:
		stager.supporting = append(stager.supporting, accepted)
	}

	return accepted, nil
}

// Remove drops a staged file and releases its preview. index is ignored for the photo slot.
func (stager *Stager) Remove(slot Slot, index int) error {
	stager.mutex.Lock()
	defer stager.mutex.Unlock()

	switch slot {
	case SlotPhoto:
		if stager.photo == nil {
			return ErrNoSuchFile
		}
		stager.photo.Preview.Release()
		stager.photo = nil
		return nil

	case SlotSupporting:
		if index < 0 || index >= len(stager.supporting) {
			return ErrNoSuchFile
		}
		stager.supporting[index].Preview.Release()

		remaining := make([]StagedFile, 0, len(stager.supporting)-1)
		remaining = append(remaining, stager.supporting[:index]...)
		stager.supporting = append(remaining, stager.supporting[index+1:]...)
		return nil
	}

	return ErrNoSuchFile
}

// Photo returns the staged photo, if any.
func (stager *Stager) Photo() (StagedFile, bool) {
	stager.mutex.Lock()
	defer stager.mutex.Unlock()

	if stager.photo == nil {
		return StagedFile{}, false
	}
	return *stager.photo, true
}

// Supporting returns a copy of the staged supporting files in selection order.
func (stager *Stager) Supporting() []StagedFile {
	stager.mutex.Lock()
	defer stager.mutex.Unlock()

	return append([]StagedFile(nil), stager.supporting...)
}

// Close releases every preview and empties both slots. The stager stays usable.
func (stager *Stager) Close() error {
	stager.mutex.Lock()
	defer stager.mutex.Unlock()

	var errs []error
	if stager.photo != nil {
		errs = append(errs, stager.photo.Preview.Release())
		stager.photo = nil
	}
	for _, staged := range stager.supporting {
		errs = append(errs, staged.Preview.Release())
	}
	stager.supporting = nil

	return errors.Join(errs...)
}
