package technique_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/technique"
	"github.com/DhavalSuthar-24/courtside/internal/testutil"
	"github.com/DhavalSuthar-24/courtside/pkg/storage"
)

const cdn = "http://cdn.test"

type env struct {
	db    *gorm.DB
	cfg   *config.Config
	r     *gin.Engine
	dir   string
	coach *models.User
	ana   *models.User
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	dir := t.TempDir()
	store, err := storage.NewLocal(dir, cdn)
	require.NoError(t, err)

	r, api := testutil.NewRouter()
	technique.RegisterTechniqueRoutes(api, db, cfg, store)
	return env{
		db:    db,
		cfg:   cfg,
		r:     r,
		dir:   dir,
		coach: testutil.CreateUser(t, db, models.RoleCoach, "Carla Coach"),
		ana:   testutil.CreateUser(t, db, models.RolePlayer, "Ana Player"),
	}
}

type part struct {
	field, filename string
	data            []byte
}

func (e env) upload(t *testing.T, u *models.User, path string, fields map[string]string, files ...part) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1"+path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", testutil.Bearer(t, e.cfg, u))
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

// stored returns the bytes behind a URL handed out by the local backend.
func (e env) stored(t *testing.T, url string) []byte {
	t.Helper()
	require.True(t, strings.HasPrefix(url, cdn+"/static/"), url)
	data, err := os.ReadFile(filepath.Join(e.dir, filepath.FromSlash(strings.TrimPrefix(url, cdn+"/static/"))))
	require.NoError(t, err)
	return data
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 180, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (e env) proVideo(t *testing.T) models.ProVideo {
	t.Helper()
	w := e.upload(t, e.coach, "/technique/pro-videos",
		map[string]string{"player_name": "C. Alcaraz", "shot_type": "Forehand", "handedness": "right", "tags": "clay"},
		part{"file", "alcaraz.MP4", []byte("pro-clip")},
		part{"thumbnail", "frame.png", pngBytes(t, 960, 540)},
	)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var v models.ProVideo
	testutil.Data(t, w, &v)
	return v
}

func (e env) userVideo(t *testing.T, u *models.User, title string) models.UserVideo {
	t.Helper()
	w := e.upload(t, u, "/technique/upload-user-video", map[string]string{"title": title}, part{"file", "clip.mov", []byte("my-clip")})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var v models.UserVideo
	testutil.Data(t, w, &v)
	return v
}

func TestUploadProVideo(t *testing.T) {
	e := setup(t)

	v := e.proVideo(t)
	assert.Equal(t, "Right", v.Handedness)
	assert.Equal(t, e.coach.ID, v.UploadedByID)
	assert.True(t, strings.HasPrefix(v.VideoURL, cdn+"/static/pro-videos/c-alcaraz-forehand-"), v.VideoURL)
	assert.True(t, strings.HasSuffix(v.VideoURL, ".mp4"), v.VideoURL)
	assert.Equal(t, "pro-clip", string(e.stored(t, v.VideoURL)))

	cfg, _, err := image.DecodeConfig(bytes.NewReader(e.stored(t, v.ThumbnailURL)))
	require.NoError(t, err)
	assert.Equal(t, storage.ThumbnailWidth, cfg.Width)

	var list []models.ProVideo
	w := testutil.Do(e.r, http.MethodGet, "/api/v1/technique/pro-videos?shot_type=forehand", testutil.Bearer(t, e.cfg, e.ana), nil)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Data(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, v.ID, list[0].ID)

	w = testutil.Do(e.r, http.MethodGet, "/api/v1/technique/pro-videos?shot_type=serve", testutil.Bearer(t, e.cfg, e.ana), nil)
	testutil.Data(t, w, &list)
	assert.Empty(t, list)
}

func TestUploadProVideoRejections(t *testing.T) {
	e := setup(t)
	fields := map[string]string{"player_name": "J. Sinner", "shot_type": "Backhand"}

	w := e.upload(t, e.ana, "/technique/pro-videos", fields, part{"file", "a.mp4", []byte("x")})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.upload(t, e.coach, "/technique/pro-videos", fields)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.upload(t, e.coach, "/technique/pro-videos", fields, part{"file", "notes.txt", []byte("x")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.upload(t, e.coach, "/technique/pro-videos", map[string]string{"shot_type": "Serve"}, part{"file", "a.mp4", []byte("x")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.upload(t, e.coach, "/technique/pro-videos", fields,
		part{"file", "a.mp4", []byte("x")}, part{"thumbnail", "frame.png", []byte("not an image")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, e.db.Model(&models.ProVideo{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUserVideosAreScopedToOwner(t *testing.T) {
	e := setup(t)
	ben := testutil.CreateUser(t, e.db, models.RolePlayer, "Ben Player")

	v := e.userVideo(t, e.ana, "Serve practice")
	assert.Equal(t, e.ana.ID, v.UserID)
	assert.True(t, strings.HasPrefix(v.VideoURL, cdn+"/static/user-videos/serve-practice-"), v.VideoURL)
	e.userVideo(t, ben, "Ben's clip")

	var mine []models.UserVideo
	w := testutil.Do(e.r, http.MethodGet, "/api/v1/technique/my-videos", testutil.Bearer(t, e.cfg, e.ana), nil)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Data(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, v.ID, mine[0].ID)

	w = e.upload(t, e.ana, "/technique/upload-user-video", nil, part{"file", "clip.mp4", []byte("x")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestComparisons(t *testing.T) {
	e := setup(t)
	ben := testutil.CreateUser(t, e.db, models.RolePlayer, "Ben Player")
	pro := e.proVideo(t)
	mine := e.userVideo(t, e.ana, "Forehand")
	bens := e.userVideo(t, ben, "Other")
	auth := testutil.Bearer(t, e.cfg, e.ana)

	w := testutil.Do(e.r, http.MethodPost, "/api/v1/technique/comparisons", auth, gin.H{
		"pro_video_id": pro.ID, "user_video_id": mine.ID, "pro_offset_sec": 1.5, "user_offset_sec": 0.25, "notes": "contact point",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cmp models.Comparison
	testutil.Data(t, w, &cmp)
	assert.Equal(t, 1.0, cmp.PlaybackRate)
	assert.Equal(t, 1.5, cmp.ProOffsetSec)
	require.NotNil(t, cmp.ProVideo)
	assert.Equal(t, pro.ID, cmp.ProVideo.ID)

	w = testutil.Do(e.r, http.MethodPost, "/api/v1/technique/comparisons", auth, gin.H{
		"pro_video_id": pro.ID, "user_video_id": mine.ID, "playback_rate": 0.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	cases := []struct {
		name string
		body gin.H
		want int
	}{
		{"someone else's clip", gin.H{"pro_video_id": pro.ID, "user_video_id": bens.ID}, http.StatusForbidden},
		{"unknown pro video", gin.H{"pro_video_id": "ghost", "user_video_id": mine.ID}, http.StatusNotFound},
		{"unknown user video", gin.H{"pro_video_id": pro.ID, "user_video_id": "ghost"}, http.StatusNotFound},
		{"negative offset", gin.H{"pro_video_id": pro.ID, "user_video_id": mine.ID, "pro_offset_sec": -1}, http.StatusBadRequest},
		{"zero rate", gin.H{"pro_video_id": pro.ID, "user_video_id": mine.ID, "playback_rate": 0}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.Do(e.r, http.MethodPost, "/api/v1/technique/comparisons", auth, tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}

	var list []models.Comparison
	w = testutil.Do(e.r, http.MethodGet, "/api/v1/technique/comparisons", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Data(t, w, &list)
	require.Len(t, list, 2)
	for _, c := range list {
		require.NotNil(t, c.UserVideo)
		assert.Equal(t, mine.ID, c.UserVideo.ID)
	}

	w = testutil.Do(e.r, http.MethodGet, "/api/v1/technique/comparisons", testutil.Bearer(t, e.cfg, ben), nil)
	testutil.Data(t, w, &list)
	assert.Empty(t, list)
}
