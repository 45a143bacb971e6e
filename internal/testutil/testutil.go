// Package testutil builds throwaway databases, users and requests for
// handler tests.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/pkg/token"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
	"github.com/DhavalSuthar-24/courtside/utils"
)

const Password = "baseline-rally"

// Config returns defaults suitable for tests.
func Config() *config.Config {
	cfg := config.Default()
	cfg.App.Env = "test"
	cfg.JWT.AccessTokenSecret = "test-secret"
	cfg.RateLimit.LoginBurst = 1000
	cfg.RateLimit.LoginPerSecond = 1000
	return cfg
}

// NewDB opens a private in-memory sqlite database with every table migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.HashCost = bcrypt.MinCost

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), config.GormConfig("test"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// NewRouter returns a gin engine with an /api/v1 group ready for RegisterXRoutes.
func NewRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	r := gin.New()
	return r, r.Group("/api/v1")
}

// CreateUser inserts a user with Password as the password.
func CreateUser(t *testing.T, db *gorm.DB, role models.Role, name string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(Password)
	require.NoError(t, err)

	u := &models.User{
		Email:           strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash:    hash,
		Name:            name,
		Role:            role,
		CoachLinkStatus: models.LinkNone,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// LinkPlayer points player at coach with the given status.
func LinkPlayer(t *testing.T, db *gorm.DB, player, coach *models.User, status models.LinkStatus) {
	t.Helper()
	require.NoError(t, db.Model(player).Updates(map[string]interface{}{
		"coach_id":          coach.ID,
		"coach_link_status": status,
	}).Error)
	player.CoachID = &coach.ID
	player.CoachLinkStatus = status
}

// Bearer returns an Authorization header value for u.
func Bearer(t *testing.T, cfg *config.Config, u *models.User) string {
	t.Helper()
	signed, err := token.GenerateJWT(u.ID, u.Email, string(u.Role), cfg.JWT.AccessTokenSecret, cfg.JWT.Issuer, 10)
	require.NoError(t, err)
	return "Bearer " + signed
}

// Do sends a JSON request (body may be nil) and records the response.
func Do(r http.Handler, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Data decodes the "data" field of a success envelope into out.
func Data(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.Equal(t, "success", env.Status, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out), w.Body.String())
}

// Reload re-reads a user row.
func Reload(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.First(&u, "id = ?", id).Error)
	return &u
}
