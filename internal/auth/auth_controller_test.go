package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/auth"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/testutil"
)

func setup(t *testing.T, cfg *config.Config) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.NewDB(t)
	r, api := testutil.NewRouter()
	auth.RegisterAuthRoutes(api, db, cfg)
	return db, r
}

func register(t *testing.T, r http.Handler, body gin.H) auth.RegisterResponse {
	t.Helper()
	w := testutil.Do(r, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out auth.RegisterResponse
	testutil.Data(t, w, &out)
	return out
}

func formLogin(r http.Handler, email, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db, r := setup(t, testutil.Config())

	first := register(t, r, gin.H{"email": "Ana@Example.com", "password": testutil.Password})
	assert.NotEmpty(t, first.ID)
	assert.Empty(t, first.CoachCode)

	w := testutil.Do(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "ana@example.com", "password": "another-secret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	w = formLogin(r, "ana@example.com", testutil.Password)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tok auth.TokenResponse
	testutil.Data(t, w, &tok)
	assert.Equal(t, first.ID, tok.ID)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, "PLAYER", tok.Role)
	assert.Equal(t, "ana", tok.Name)
	assert.NotEmpty(t, tok.AccessToken)
}

func TestRegisterDefaultsAndRoleValidation(t *testing.T) {
	db, r := setup(t, testutil.Config())

	out := register(t, r, gin.H{"email": "otto@example.com", "password": testutil.Password, "role": "Coach", "name": "Otto"})
	u := testutil.Reload(t, db, out.ID)
	assert.Equal(t, models.RoleCoach, u.Role)
	assert.Equal(t, "Otto", u.Name)
	assert.Equal(t, "Beginner", u.Level)
	require.NotNil(t, u.YearsExperience)
	assert.Zero(t, *u.YearsExperience)
	assert.Equal(t, models.LinkNone, u.CoachLinkStatus)
	assert.Equal(t, out.CoachCode, models.Deref(u.CoachCode))

	w := testutil.Do(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "admin@example.com", "password": testutil.Password, "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "not-an-email", "password": testutil.Password})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"email"`)
}

func TestCoachCodesAreDistinctSixDigits(t *testing.T) {
	_, r := setup(t, testutil.Config())
	pattern := regexp.MustCompile(`^[0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		out := register(t, r, gin.H{
			"email":    "coach" + string(rune('a'+i)) + "@example.com",
			"password": testutil.Password,
			"role":     "COACH",
		})
		assert.Regexp(t, pattern, out.CoachCode)
		assert.False(t, seen[out.CoachCode], "duplicate code %s", out.CoachCode)
		seen[out.CoachCode] = true
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	_, r := setup(t, testutil.Config())
	register(t, r, gin.H{"email": "ana@example.com", "password": testutil.Password})

	unknown := formLogin(r, "nobody@example.com", testutil.Password)
	wrong := formLogin(r, "ana@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
	assert.Contains(t, wrong.Body.String(), "Incorrect email or password")
}

func TestLoginAcceptsJSON(t *testing.T) {
	_, r := setup(t, testutil.Config())
	register(t, r, gin.H{"email": "ana@example.com", "password": testutil.Password})

	w := testutil.Do(r, http.MethodPost, "/api/v1/auth/token", "", gin.H{"email": "ana@example.com", "password": testutil.Password})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLoginIsRateLimited(t *testing.T) {
	cfg := testutil.Config()
	cfg.RateLimit.LoginPerSecond = 0.001
	cfg.RateLimit.LoginBurst = 2
	_, r := setup(t, cfg)

	for i := 0; i < 2; i++ {
		w := formLogin(r, "nobody@example.com", "x")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := formLogin(r, "nobody@example.com", "x")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestMeAndUpdateProfile(t *testing.T) {
	cfg := testutil.Config()
	db, r := setup(t, cfg)
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")
	bearer := testutil.Bearer(t, cfg, player)

	w := testutil.Do(r, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.Do(r, http.MethodGet, "/api/v1/auth/me", bearer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	testutil.Data(t, w, &me)
	assert.Equal(t, player.ID, me.ID)
	assert.Equal(t, player.Email, me.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = testutil.Do(r, http.MethodPut, "/api/v1/my-profile", bearer, gin.H{
		"goals": []string{"Improve serve", " ", "Win regionals"},
		"level": "Advanced",
		"age":   17,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	u := testutil.Reload(t, db, player.ID)
	assert.Equal(t, "Improve serve, Win regionals", u.Goals)
	assert.Equal(t, "Advanced", u.Level)
	require.NotNil(t, u.Age)
	assert.Equal(t, 17, *u.Age)
	assert.Equal(t, "Ana Player", u.Name)

	w = testutil.Do(r, http.MethodPut, "/api/v1/my-profile", bearer, gin.H{"goals": "Footwork"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Footwork", testutil.Reload(t, db, player.ID).Goals)
}

func TestGoalListAcceptsListOrString(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want auth.GoalList
	}{
		{"list", `["Improve serve", " ", "Win regionals"]`, "Improve serve, Win regionals"},
		{"string", `"  Footwork "`, "Footwork"},
		{"empty list", `[]`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var g auth.GoalList
			require.NoError(t, json.Unmarshal([]byte(tc.in), &g))
			assert.Equal(t, tc.want, g)
		})
	}

	var g auth.GoalList
	assert.Error(t, json.Unmarshal([]byte(`12`), &g))
}
