package teams_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jrsteele09/squadhub/apiclient/apiclienttest"
	apperrors "github.com/jrsteele09/squadhub/internal/errors"
	"github.com/jrsteele09/squadhub/internal/utils"
	"github.com/jrsteele09/squadhub/teams"
	"github.com/jrsteele09/squadhub/users"
	"github.com/stretchr/testify/require"
)

const teamJSON = `{"id":3,"name":"Reds","club_crest":null,"head_coach":8,"head_coach_name":"Casey Coach",
	"head_coach_email":"c@example.com","owner":2,"owner_name":"Olive Owner","established_date":"1999-05-01",
	"location":"Leeds","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-02T00:00:00Z"}`

const squadJSON = `{"id":3,"name":"Reds","players":[
	{"id":10,"email":"gk@example.com","first_name":"Gina","last_name":"Keeper","role":"PLAYER","jersey_number":1,"position":"GK","profile_picture":null},
	{"id":11,"email":"fw@example.com","first_name":"Finn","last_name":"Forward","role":"PLAYER","jersey_number":9,"position":"FW","profile_picture":null},
	{"id":12,"email":"new@example.com","first_name":"","last_name":"","role":"PLAYER","jersey_number":null,"position":null,"profile_picture":null}]}`

type testFixture struct {
	backend *apiclienttest.Backend
	service *teams.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	b := apiclienttest.New(t)
	return &testFixture{backend: b, service: teams.NewService(b.Client)}
}

func TestService_Reads(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.backend.Reply(http.MethodGet, "teams/my/", http.StatusOK, teamJSON)
	f.backend.Reply(http.MethodGet, "teams/3/", http.StatusOK, teamJSON)
	f.backend.Reply(http.MethodGet, "teams/", http.StatusOK, `{"count":1,"results":[`+teamJSON+`]}`)
	f.backend.Reply(http.MethodGet, "teams/3/squad/", http.StatusOK, squadJSON)
	f.backend.Reply(http.MethodGet, "teams/3/staff/", http.StatusOK, `{"id":3,"name":"Reds","staff":[]}`)

	my, err := f.service.MyTeam(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), *my.Owner)
	require.Equal(t, "Olive Owner", *my.OwnerName)

	all, err := f.service.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	squad, err := f.service.GetSquad(ctx, 3, 0)
	require.NoError(t, err)
	require.Empty(t, f.backend.Last(t).Query)
	require.Len(t, squad.Players, 3)
	groups := squad.ByPosition()
	require.Len(t, groups["GK"], 1)
	require.Len(t, groups["Unknown"], 1)
	require.Equal(t, "new@example.com", groups["Unknown"][0].FullName())

	staff, err := f.service.GetStaff(ctx, 3, 2025)
	require.NoError(t, err)
	require.Empty(t, staff.Staff)
	require.Equal(t, "2025", f.backend.Last(t).Query.Get("season"))
}

func TestService_CreateUpdateDelete(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.backend.Reply(http.MethodPost, "teams/", http.StatusCreated, teamJSON)
	f.backend.Reply(http.MethodPut, "teams/3/", http.StatusOK, teamJSON)
	f.backend.Reply(http.MethodDelete, "teams/3/", http.StatusNoContent, nil)

	_, err := f.service.Create(ctx, teams.TeamInput{Name: "Reds", Owner: utils.Ptr[int64](2)})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Reds","location":null,"owner":2,"head_coach":null,"established_date":null}`,
		string(f.backend.Last(t).Body))

	_, err = f.service.Get(ctx, 4)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	in := teams.InputFrom(&teams.Team{Name: "Reds", Location: utils.Ptr("Leeds"), HeadCoach: utils.Ptr[int64](8)})
	_, err = f.service.Update(ctx, 3, in)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Reds","location":"Leeds","owner":null,"head_coach":8,"established_date":null}`,
		string(f.backend.Last(t).Body))

	_, err = f.service.SetOwner(ctx, 3, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"owner":null}`, string(f.backend.Last(t).Body))

	_, err = f.service.SetHeadCoach(ctx, 3, utils.Ptr[int64](8))
	require.NoError(t, err)
	require.JSONEq(t, `{"head_coach":8}`, string(f.backend.Last(t).Body))

	require.NoError(t, f.service.Delete(ctx, 3))
}

func TestService_Members(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	memberJSON := `{"id":20,"email":"m@example.com","first_name":"Mo","last_name":"Mid","role":"PLAYER","jersey_number":8,"position":"MF"}`
	f.backend.Reply(http.MethodPost, "teams/3/add_member/", http.StatusOK, `{"detail":"added"}`)
	f.backend.Reply(http.MethodPost, "teams/3/remove_member/", http.StatusNoContent, nil)
	f.backend.Reply(http.MethodPost, "teams/3/create_member/", http.StatusCreated, memberJSON)
	f.backend.Reply(http.MethodPatch, "teams/3/update_member/", http.StatusOK, memberJSON)

	t.Run("add and remove", func(t *testing.T) {
		require.NoError(t, f.service.AddMember(ctx, 3, teams.AddMemberRequest{UserID: 20, Role: users.RolePlayer}))
		require.JSONEq(t, `{"user_id":20,"role":"PLAYER"}`, string(f.backend.Last(t).Body))

		require.NoError(t, f.service.RemoveMember(ctx, 3, 20))
		require.JSONEq(t, `{"user_id":20}`, string(f.backend.Last(t).Body))
	})

	t.Run("create as json", func(t *testing.T) {
		m, err := f.service.CreateMember(ctx, 3, teams.CreateMemberRequest{
			Role:      users.RolePlayer,
			Email:     "m@example.com",
			FirstName: "Mo",
			LastName:  "Mid",
			Position:  users.PositionMidfielder,
		})
		require.NoError(t, err)
		require.Equal(t, int64(20), m.ID)

		req := f.backend.Last(t)
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		require.JSONEq(t, `{"role":"PLAYER","email":"m@example.com","first_name":"Mo","last_name":"Mid","position":"MF"}`, string(req.Body))
	})

	t.Run("create with picture", func(t *testing.T) {
		_, err := f.service.CreateMember(ctx, 3, teams.CreateMemberRequest{
			Role:         users.RolePlayer,
			Email:        "m@example.com",
			FirstName:    "Mo",
			LastName:     "Mid",
			JerseyNumber: utils.Ptr(8),
			DateOfBirth:  "2001-02-03",
			Picture:      strings.NewReader("png-bytes"),
			PictureName:  "mo.png",
		})
		require.NoError(t, err)

		values, files := f.backend.Last(t).Multipart(t)
		require.Equal(t, []string{"8"}, values["jersey_number"])
		require.Equal(t, []string{"2001-02-03"}, values["date_of_birth"])
		require.NotContains(t, values, "position")
		require.Equal(t, "png-bytes", string(files["profile_picture"]))
	})

	t.Run("update member", func(t *testing.T) {
		_, err := f.service.UpdateMember(ctx, 3, teams.UpdateMemberRequest{
			UserID:       20,
			JerseyNumber: utils.Null[int](),
			SquadStatus:  utils.Some("INJURED"),
		})
		require.NoError(t, err)
		require.JSONEq(t, `{"user_id":20,"jersey_number":null,"squad_status":"INJURED"}`, string(f.backend.Last(t).Body))
	})
}
