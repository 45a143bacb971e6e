package team_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/team"
	"github.com/DhavalSuthar-24/courtside/internal/testutil"
)

func addToSquad(t *testing.T, db *gorm.DB, coach *models.User, name string, players ...*models.User) *models.Squad {
	t.Helper()
	sq := &models.Squad{CoachID: coach.ID, Name: name}
	require.NoError(t, db.Create(sq).Error)
	for _, p := range players {
		require.NoError(t, db.Create(&models.SquadMember{SquadID: sq.ID, PlayerID: p.ID}).Error)
	}
	return sq
}

func TestPlayerIDsUnionsDirectAndSquadPlayers(t *testing.T) {
	db := testutil.NewDB(t)
	coach := testutil.CreateUser(t, db, models.RoleCoach, "Carla Coach")
	otherCoach := testutil.CreateUser(t, db, models.RoleCoach, "Otto Coach")
	direct := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")
	both := testutil.CreateUser(t, db, models.RolePlayer, "Ben Player")
	squadOnly := testutil.CreateUser(t, db, models.RolePlayer, "Cy Player")
	stranger := testutil.CreateUser(t, db, models.RolePlayer, "Dee Player")

	testutil.LinkPlayer(t, db, direct, coach, models.LinkActive)
	testutil.LinkPlayer(t, db, both, coach, models.LinkPending)
	testutil.LinkPlayer(t, db, stranger, otherCoach, models.LinkActive)
	addToSquad(t, db, coach, "Varsity", both, squadOnly)
	addToSquad(t, db, otherCoach, "Juniors", stranger)

	repo := team.NewTeamRepository(db)
	ids, err := repo.PlayerIDs(coach.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{direct.ID, both.ID, squadOnly.ID}, ids)

	for _, p := range []*models.User{direct, both, squadOnly} {
		ok, err := repo.Contains(coach.ID, p.ID)
		require.NoError(t, err)
		assert.True(t, ok, p.Name)
	}
	ok, err := repo.Contains(coach.ID, stranger.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCoachOfPrefersActiveLinkThenSquad(t *testing.T) {
	db := testutil.NewDB(t)
	coach := testutil.CreateUser(t, db, models.RoleCoach, "Carla Coach")
	squadCoach := testutil.CreateUser(t, db, models.RoleCoach, "Otto Coach")
	linked := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")
	pending := testutil.CreateUser(t, db, models.RolePlayer, "Ben Player")
	loner := testutil.CreateUser(t, db, models.RolePlayer, "Cy Player")

	testutil.LinkPlayer(t, db, linked, coach, models.LinkActive)
	testutil.LinkPlayer(t, db, pending, coach, models.LinkPending)
	addToSquad(t, db, squadCoach, "Juniors", linked, pending)

	repo := team.NewTeamRepository(db)

	got, err := repo.CoachOf(linked.ID)
	require.NoError(t, err)
	assert.Equal(t, coach.ID, got)

	got, err = repo.CoachOf(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, squadCoach.ID, got)

	got, err = repo.CoachOf(loner.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRosterRoutes(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	r, api := testutil.NewRouter()
	team.RegisterTeamRoutes(api, db, cfg)

	coach := testutil.CreateUser(t, db, models.RoleCoach, "Carla Coach")
	direct := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")
	squadOnly := testutil.CreateUser(t, db, models.RolePlayer, "Cy Player")
	testutil.LinkPlayer(t, db, direct, coach, models.LinkPending)
	addToSquad(t, db, coach, "Varsity", direct, squadOnly)

	auth := testutil.Bearer(t, cfg, coach)

	w := testutil.Do(r, http.MethodGet, "/api/v1/my-athletes", auth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var mine []models.User
	testutil.Data(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, direct.ID, mine[0].ID)
	assert.Equal(t, models.LinkPending, mine[0].CoachLinkStatus)

	w = testutil.Do(r, http.MethodGet, "/api/v1/squads/athletes", auth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var all []models.User
	testutil.Data(t, w, &all)
	assert.Len(t, all, 2)

	w = testutil.Do(r, http.MethodGet, "/api/v1/my-athletes", testutil.Bearer(t, cfg, direct), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
