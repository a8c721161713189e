package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPhotoStorage_SaveOpenDelete(t *testing.T) {
	s, err := NewPhotoStorage(t.TempDir(), 1)
	assert.NoError(t, err)

	ctx := context.Background()
	userID := uuid.New()

	relative, size, err := s.Save(ctx, userID, "avatar.png", strings.NewReader("fake-png-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, int64(len("fake-png-bytes")), size)
	assert.Contains(t, relative, userID.String())

	f, err := s.Open(ctx, relative)
	assert.NoError(t, err)
	content, err := io.ReadAll(f)
	assert.NoError(t, err)
	assert.Equal(t, "fake-png-bytes", string(content))
	_ = f.Close()

	assert.NoError(t, s.Delete(ctx, relative))
	_, err = s.Open(ctx, relative)
	assert.Error(t, err)
}

func TestPhotoStorage_RejectsOversizedFile(t *testing.T) {
	s, err := NewPhotoStorage(t.TempDir(), 1)
	assert.NoError(t, err)

	big := strings.NewReader(strings.Repeat("x", 1024*1024+1))
	_, _, err = s.Save(context.Background(), uuid.New(), "big.png", big)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "лимит")
}

func TestPhotoStorage_DeleteMissingFileIsNoop(t *testing.T) {
	s, err := NewPhotoStorage(t.TempDir(), 1)
	assert.NoError(t, err)

	assert.NoError(t, s.Delete(context.Background(), "nope/missing.png"))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "photo.png", sanitizeFilename("photo.png"))
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "photo", sanitizeFilename(""))
}
