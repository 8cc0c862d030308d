package services

import (
	"bytes"
	"context"
	"io"
	"modfy_server/lib"
	"modfy_server/structs"
	"strings"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func newTestUploads(t *testing.T) *UploadService {
	t.Helper()
	return NewUploadService(gecho.NewDefaultLogger(), &structs.UploadConfig{Dir: t.TempDir(), MaxBytes: 1024}, nil)
}

func TestSaveImage(t *testing.T) {
	us := newTestUploads(t)

	url, err := us.SaveImage(UploadProducts, "Oxford Shirt", "Front View.PNG", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/public-objects/products/oxford-shirt/front-view-"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	f, err := us.OpenPublic(strings.TrimPrefix(url, "/public-objects/"))
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	us := newTestUploads(t)

	_, err := us.SaveImage(UploadCategories, "tops", "notes.png", strings.NewReader("just some text pretending to be a png"))
	assert.ErrorIs(t, err, lib.ErrUnsupportedFile)

	var ve *lib.ValidationError
	_, err = us.SaveImage(UploadCategories, "tops", "empty.png", bytes.NewReader(nil))
	assert.ErrorAs(t, err, &ve)

	big := append(append([]byte{}, pngHeader...), make([]byte, 2048)...)
	_, err = us.SaveImage(UploadCategories, "tops", "big.png", bytes.NewReader(big))
	assert.ErrorAs(t, err, &ve)

	assert.True(t, IsImage(pngHeader))
	assert.False(t, IsImage([]byte("%PDF-1.4")))
}

func TestOpenRejectsTraversal(t *testing.T) {
	us := newTestUploads(t)

	_, err := us.OpenPublic("../private/uploads/secret")
	assert.ErrorIs(t, err, lib.ErrInvalidInput)

	_, err = us.OpenPrivate("uploads/../../etc/passwd")
	assert.ErrorIs(t, err, lib.ErrInvalidInput)

	_, err = us.OpenPublic("products/missing.png")
	assert.ErrorIs(t, err, lib.ErrNotFound)

	_, err = us.OpenPublic("")
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestPrivateObjectUpload(t *testing.T) {
	us := newTestUploads(t)
	ctx := context.Background()

	target, err := us.IssueUploadURL(ctx)
	require.NoError(t, err)
	id := strings.TrimPrefix(target.UploadURL, "/api/admin/objects/uploads/")
	assert.Equal(t, "/objects/uploads/"+id, target.ObjectPath)

	path, err := us.SavePrivateObject(ctx, id, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, target.ObjectPath, path)

	f, err := us.OpenPrivate(strings.TrimPrefix(path, "/objects/"))
	require.NoError(t, err)
	f.Close()

	// a target is good for one upload
	_, err = us.SavePrivateObject(ctx, id, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, lib.ErrNotFound)

	_, err = us.SavePrivateObject(ctx, uuid.NewString(), bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, lib.ErrNotFound)

	_, err = us.SavePrivateObject(ctx, "not-a-uuid", bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestUploadTargetExpires(t *testing.T) {
	us := newTestUploads(t)
	ctx := context.Background()
	now := time.Now()
	us.now = func() time.Time { return now }

	target, err := us.IssueUploadURL(ctx)
	require.NoError(t, err)
	id := strings.TrimPrefix(target.UploadURL, "/api/admin/objects/uploads/")

	now = now.Add(uploadTargetTTL + time.Second)
	_, err = us.SavePrivateObject(ctx, id, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestUploadTargetsInRedis(t *testing.T) {
	cache, mr := newTestCache(t)
	us := NewUploadService(gecho.NewDefaultLogger(), &structs.UploadConfig{Dir: t.TempDir(), MaxBytes: 1024}, cache)
	ctx := context.Background()

	target, err := us.IssueUploadURL(ctx)
	require.NoError(t, err)
	id := strings.TrimPrefix(target.UploadURL, "/api/admin/objects/uploads/")
	assert.True(t, mr.Exists(uploadTargetPrefix+id))

	_, err = us.SavePrivateObject(ctx, id, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.False(t, mr.Exists(uploadTargetPrefix+id))

	_, err = us.SavePrivateObject(ctx, id, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, lib.ErrNotFound)

	target, err = us.IssueUploadURL(ctx)
	require.NoError(t, err)
	id = strings.TrimPrefix(target.UploadURL, "/api/admin/objects/uploads/")
	mr.FastForward(uploadTargetTTL + time.Second)
	_, err = us.SavePrivateObject(ctx, id, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, lib.ErrNotFound)
}
