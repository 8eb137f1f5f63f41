// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/laureate/internal/media"
)

func TestCleanKey(t *testing.T) {
	valid, err := media.CleanKey("nominations/NOM-1/./photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "nominations/NOM-1/photo.jpg", valid)

	for _, key := range []string{"", "/etc/passwd", "../escape", "a/../../b", `a\b`, "."} {
		_, err := media.CleanKey(key)
		assert.ErrorIs(t, err, media.ErrInvalidKey, key)
	}
}

func TestDiskStorage_PutAndDelete(t *testing.T) {
	root := t.TempDir()
	storage, err := media.NewDiskStorage(root)
	require.NoError(t, err)

	object, err := storage.Put(context.Background(), "nominations/NOM-1/photo.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"), 10)
	require.NoError(t, err)
	assert.Equal(t, "nominations/NOM-1/photo.jpg", object.Key)
	assert.Equal(t, int64(10), object.Size)

	content, err := os.ReadFile(filepath.Join(root, "nominations", "NOM-1", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))

	require.NoError(t, storage.Delete(context.Background(), object.Key))
	require.NoError(t, storage.Delete(context.Background(), object.Key), "deleting twice is not an error")
	_, err = os.Stat(object.Location)
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStorage_ShortWriteLeavesNothing(t *testing.T) {
	root := t.TempDir()
	storage, err := media.NewDiskStorage(root)
	require.NoError(t, err)

	_, err = storage.Put(context.Background(), "nominations/NOM-2/doc.pdf", "application/pdf", strings.NewReader("abc"), 99)
	assert.ErrorContains(t, err, "media_disk_short_write")

	entries, err := os.ReadDir(filepath.Join(root, "nominations", "NOM-2"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type fakeObjectAPI struct {
	putInput    *s3.PutObjectInput
	body        string
	deletedKeys []string
	err         error
}

func (api *fakeObjectAPI) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if api.err != nil {
		return nil, api.err
	}
	api.putInput = input
	body, _ := io.ReadAll(input.Body)
	api.body = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (api *fakeObjectAPI) DeleteObject(_ context.Context, input *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	api.deletedKeys = append(api.deletedKeys, aws.ToString(input.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_Put(t *testing.T) {
	api := &fakeObjectAPI{}
	storage := media.NewS3StorageWithClient(api, "laureate-uploads")

	object, err := storage.Put(context.Background(), "nominations/NOM-1/supporting-01.pdf", "application/pdf", strings.NewReader("%PDF"), 4)
	require.NoError(t, err)

	assert.Equal(t, "s3://laureate-uploads/nominations/NOM-1/supporting-01.pdf", object.Location)
	assert.Equal(t, "laureate-uploads", aws.ToString(api.putInput.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(api.putInput.ContentType))
	assert.Equal(t, int64(4), aws.ToInt64(api.putInput.ContentLength))
	assert.Equal(t, "%PDF", api.body)

	require.NoError(t, storage.Delete(context.Background(), object.Key))
	assert.Equal(t, []string{"nominations/NOM-1/supporting-01.pdf"}, api.deletedKeys)
}

func TestS3Storage_PutFailure(t *testing.T) {
	storage := media.NewS3StorageWithClient(&fakeObjectAPI{err: errors.New("access denied")}, "bucket")

	_, err := storage.Put(context.Background(), "nominations/NOM-1/photo.png", "image/png", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "media_s3_put_failed")
}
