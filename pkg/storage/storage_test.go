package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("pro-videos", "Sinner Forehand (Slow-Mo)", ".MP4")
	assert.True(t, strings.HasPrefix(key, "pro-videos/sinner-forehand-slow-mo-"), key)
	assert.True(t, strings.HasSuffix(key, ".mp4"), key)

	assert.NotEqual(t, key, ObjectKey("pro-videos", "Sinner Forehand (Slow-Mo)", ".MP4"))
	assert.True(t, strings.HasPrefix(ObjectKey("user-videos", "", ".mov"), "user-videos/upload-"))
}

func TestLocalPut(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocal(dir, "http://localhost:8088/")
	require.NoError(t, err)

	url, err := local.Put(context.Background(), "user-videos/clip.mp4", strings.NewReader("data"), 4, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8088/static/user-videos/clip.mp4", url)

	got, err := os.ReadFile(filepath.Join(dir, "user-videos", "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestLocalPutRejectsTraversal(t *testing.T) {
	local, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	_, err = local.Put(context.Background(), "../escape.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}

func TestSaveThumbnailResizes(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocal(dir, "http://cdn")
	require.NoError(t, err)

	fh := pngUpload(t, 1200, 600)
	url, err := SaveThumbnail(context.Background(), local, fh, "thumbnails", "Alcaraz serve")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://cdn/static/thumbnails/alcaraz-serve-thumb-"), url)

	path := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "http://cdn/static/")))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, ThumbnailWidth, cfg.Width)
	assert.Equal(t, ThumbnailWidth/2, cfg.Height)
}

func pngUpload(t *testing.T, w, h int) *multipart.FileHeader {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("thumbnail", "frame.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["thumbnail"][0]
}
