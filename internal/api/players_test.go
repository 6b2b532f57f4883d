package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

func TestPlayers_Search(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	s.login(t, "2", "alicia")
	s.login(t, "3", "bob")

	w := s.do(t, http.MethodGet, constants.RouteUserSearch, alice.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, constants.ErrQueryRequired, errorOf(t, w))

	w = s.do(t, http.MethodGet, constants.RouteUserSearch+"?query=ALI", alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Users []game.User `json:"users"`
	}
	decode(t, w, &out)
	require.Len(t, out.Users, 1)
	assert.Equal(t, "alicia", out.Users[0].Username)
}

func TestPlayers_LeaderboardAndRecent(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	bob := s.login(t, "2", "bob")
	b := startBattle(t, s, alice, bob)
	w := s.do(t, http.MethodPost, withID(constants.RouteBattleAction, b.Battle.ID), alice.ID, strike("100-100"))
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, constants.RouteLeaderboard, bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board struct {
		Leaderboard []game.User `json:"leaderboard"`
	}
	decode(t, w, &board)
	require.NotEmpty(t, board.Leaderboard)
	assert.Equal(t, "alice", board.Leaderboard[0].Username)

	w = s.do(t, http.MethodGet, constants.RouteRecentPlayers, bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recent struct {
		Players []game.User `json:"players"`
	}
	decode(t, w, &recent)
	require.Len(t, recent.Players, 1)
	assert.Equal(t, alice.ID, recent.Players[0].ID)
}

func TestCharacters_Catalog(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, constants.RouteCharacters, 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Characters []game.Character `json:"characters"`
	}
	decode(t, w, &list)
	assert.Len(t, list.Characters, 3)

	w = s.do(t, http.MethodGet, withID(constants.RouteCharacterByID, s.chars[0].ID), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one struct {
		Character game.Character `json:"character"`
	}
	decode(t, w, &one)
	assert.NotEmpty(t, one.Character.Moves)

	w = s.do(t, http.MethodGet, withID(constants.RouteCharacterByID, 999), 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, constants.RouteHealth, 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, constants.RouteVersion, 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderRequestID))
	var v map[string]any
	decode(t, w, &v)
	assert.Contains(t, v, "version")
}
