// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stage

import (
	"fmt"
	"mime"
	"strings"
)

// # Slots & Limits

// Slot names a file input of the nomination form. The values double as the
// multipart field names.
type Slot string

const (
	SlotPhoto      Slot = "photo"
	SlotSupporting Slot = "supportingFiles"
)

const (
	// MaxPhotoBytes caps the nominee photo.
	MaxPhotoBytes int64 = 10 << 20
	// MaxSupportingBytes caps each supporting document.
	MaxSupportingBytes int64 = 10 << 20
	// MaxSupportingFiles is the number of supporting documents a nomination may carry.
	MaxSupportingFiles = 5
)

// supportingTypes is the allow-list for supporting documents.
var supportingTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"video/mp4":       true,
	"video/quicktime": true,
	"video/x-msvideo": true,
	"video/webm":      true,
}

// # Errors

// Constraint identifies which rule a rejected file violated.
type Constraint string

const (
	ConstraintType  Constraint = "type"
	ConstraintSize  Constraint = "size"
	ConstraintCount Constraint = "count"
)

// FileError reports a rejected file. Previously staged files are never affected.
type FileError struct {
	Slot       Slot
	Name       string
	Constraint Constraint
	Message    string
}

func (e *FileError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Slot, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Slot, e.Name, e.Message)
}

// # Rules

// Check applies the slot rules to a candidate file. staged is the number of
// files already held in the slot. It returns nil when the file is acceptable.
func Check(slot Slot, contentType string, size int64, staged int) *FileError {
	mediaType := NormalizeType(contentType)

	switch slot {
	case SlotPhoto:
		if !strings.HasPrefix(mediaType, "image/") {
			return &FileError{Slot: slot, Constraint: ConstraintType, Message: "photo must be an image"}
		}
		return checkSize(slot, size, MaxPhotoBytes)

	case SlotSupporting:
		if staged >= MaxSupportingFiles {
			return &FileError{Slot: slot, Constraint: ConstraintCount, Message: fmt.Sprintf("at most %d supporting files", MaxSupportingFiles)}
		}
		if !supportingTypes[mediaType] {
			return &FileError{Slot: slot, Constraint: ConstraintType, Message: "only images, PDF, Word documents and mp4, mov, avi or webm videos are accepted"}
		}
		return checkSize(slot, size, MaxSupportingBytes)
	}

	return &FileError{Slot: slot, Constraint: ConstraintType, Message: "unknown file slot"}
}

func checkSize(slot Slot, size, limit int64) *FileError {
	if size <= 0 {
		return &FileError{Slot: slot, Constraint: ConstraintSize, Message: "file is empty"}
	}
	if size > limit {
		return &FileError{Slot: slot, Constraint: ConstraintSize, Message: fmt.Sprintf("file exceeds %d MB", limit>>20)}
	}
	return nil
}

// NormalizeType strips parameters and lowercases a MIME type.
func NormalizeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
