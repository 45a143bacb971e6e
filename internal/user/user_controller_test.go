package user_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/testutil"
	"github.com/DhavalSuthar-24/courtside/internal/user"
)

func TestLeaderboardRanksPlayersByXP(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	r, api := testutil.NewRouter()
	user.RegisterUserRoutes(api, db, cfg)

	coach := testutil.CreateUser(t, db, models.RoleCoach, "Carla Coach")
	xp := map[string]int{"Ana Player": 300, "Ben Player": 900, "Cy Player": 0}
	for name, points := range xp {
		u := testutil.CreateUser(t, db, models.RolePlayer, name)
		require.NoError(t, db.Model(u).Update("xp", points).Error)
	}
	require.NoError(t, db.Model(coach).Update("xp", 5000).Error)

	w := testutil.Do(r, http.MethodGet, "/api/v1/leaderboard?limit=2", testutil.Bearer(t, cfg, coach), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var entries []user.LeaderboardEntry
	testutil.Data(t, w, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ben Player", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 900, entries[0].XP)
	assert.Equal(t, "Ana Player", entries[1].Name)
}
