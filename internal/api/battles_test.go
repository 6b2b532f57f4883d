package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/notify"
	"github.com/lyfstyl-ux/fightcaster/internal/service"
)

type battleBody struct {
	Battle game.Battle      `json:"battle"`
	State  game.BattleState `json:"battleState"`
}

func startBattle(t *testing.T, s *testServer, p1, p2 game.User) battleBody {
	t.Helper()
	w := s.do(t, http.MethodPost, constants.RouteBattles, p1.ID, gin.H{
		"player1Id": p1.ID, "player2Id": p2.ID,
		"character1Id": s.chars[0].ID, "character2Id": s.chars[1].ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out battleBody
	decode(t, w, &out)
	return out
}

func strike(dmg string) game.BattleAction {
	return game.BattleAction{Type: game.ActionAttack, MoveName: "Strike", Damage: &dmg}
}

func TestBattles_CreateRequiresPlayerOne(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	bob := s.login(t, "2", "bob")

	w := s.do(t, http.MethodPost, constants.RouteBattles, bob.ID, gin.H{
		"player1Id": alice.ID, "player2Id": bob.ID,
		"character1Id": s.chars[0].ID, "character2Id": s.chars[1].ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, constants.RouteBattles, alice.ID, gin.H{"player1Id": alice.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, constants.RouteBattles, alice.ID, gin.H{
		"player1Id": alice.ID, "player2Id": 999,
		"character1Id": s.chars[0].ID, "character2Id": s.chars[1].ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, constants.ErrUserNotFound, errorOf(t, w))
}

func TestBattles_PlayTurn(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	bob := s.login(t, "2", "bob")
	b := startBattle(t, s, alice, bob)
	assert.Equal(t, 100, b.State.Player2Health)
	assert.Equal(t, alice.ID, b.State.CurrentPlayerID)

	w := s.do(t, http.MethodPost, withID(constants.RouteBattleAction, b.Battle.ID), bob.ID, strike("10-10"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, constants.ErrNotYourTurn, errorOf(t, w))

	w = s.do(t, http.MethodPost, withID(constants.RouteBattleAction, b.Battle.ID), alice.ID, strike("40-40"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		State game.BattleState `json:"battleState"`
	}
	decode(t, w, &out)
	assert.Equal(t, 60, out.State.Player2Health)
	assert.Equal(t, bob.ID, out.State.CurrentPlayerID)

	w = s.do(t, http.MethodGet, withID(constants.RouteBattleUpdates, b.Battle.ID), alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.CacheControlNoCache, w.Header().Get(constants.CacheControlHeader))
	var upd notify.Update
	decode(t, w, &upd)
	assert.Equal(t, 60, upd.State.Player2Health)
	assert.False(t, upd.LastUpdated.IsZero())

	w = s.do(t, http.MethodGet, withID(constants.RouteBattleByID, b.Battle.ID), bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got battleBody
	decode(t, w, &got)
	assert.Equal(t, 60, got.State.Player2Health)
}

func TestBattles_BadActions(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	bob := s.login(t, "2", "bob")
	carol := s.login(t, "3", "carol")
	b := startBattle(t, s, alice, bob)
	action := withID(constants.RouteBattleAction, b.Battle.ID)

	w := s.do(t, http.MethodPost, action, carol.ID, strike("1-1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, constants.ErrNotParticipant, errorOf(t, w))

	w = s.do(t, http.MethodPost, action, alice.ID, strike("9-1"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, service.ReasonInvalidAction, errorOf(t, w))

	w = s.do(t, http.MethodPost, action, alice.ID, gin.H{"moveName": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, withID(constants.RouteBattleAction, 999), alice.ID, strike("1-1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/battles/abc/action", alice.ID, strike("1-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, constants.ErrInvalidBattleID, errorOf(t, w))
}

func TestBattles_FinishResultAndRecent(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	bob := s.login(t, "2", "bob")
	carol := s.login(t, "3", "carol")
	b := startBattle(t, s, alice, bob)

	result := withID(constants.RouteBattleResult, b.Battle.ID)
	w := s.do(t, http.MethodGet, result, alice.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, withID(constants.RouteBattleAction, b.Battle.ID), alice.ID, strike("100-100"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, result, alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Result game.BattleResult `json:"result"`
	}
	decode(t, w, &res)
	assert.True(t, res.Result.Won)
	assert.Equal(t, service.WinnerXP, res.Result.XPGained)
	assert.Equal(t, 100, res.Result.DamageDealt)

	w = s.do(t, http.MethodGet, result, carol.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, withID(constants.RouteBattleAction, b.Battle.ID), bob.ID, strike("1-1"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, constants.RouteRecentBattles, bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recent struct {
		Battles []service.RecentBattle `json:"battles"`
	}
	decode(t, w, &recent)
	require.Len(t, recent.Battles, 1)
	assert.False(t, recent.Battles[0].Won)
	require.NotNil(t, recent.Battles[0].Opponent)
	assert.Equal(t, "alice", recent.Battles[0].Opponent.Username)
}

func TestBattles_UpdatesUnknown(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	w := s.do(t, http.MethodGet, withID(constants.RouteBattleUpdates, 404), alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(t, http.MethodGet, withID(constants.RouteBattleSocket, 404), alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBattles_Socket(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	bob := s.login(t, "2", "bob")
	b := startBattle(t, s, alice, bob)

	srv := httptest.NewServer(s.router)
	defer srv.Close()
	token, err := s.sessions.createSessionToken(bob.ID, "bob")
	require.NoError(t, err)
	header := http.Header{}
	header.Add("Cookie", constants.CookieSessionName+"="+token)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + constants.RouteAPIPrefix + withID(constants.RouteBattleSocket, b.Battle.ID)
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	var msg notify.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, notify.MessageSubscribed, msg.Type)
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, notify.MessageUpdate, msg.Type)

	w := s.do(t, http.MethodPost, withID(constants.RouteBattleAction, b.Battle.ID), alice.ID, strike("30-30"))
	require.Equal(t, http.StatusOK, w.Code)

	var upd struct {
		Type string        `json:"type"`
		Data notify.Update `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&upd))
	assert.Equal(t, notify.MessageUpdate, upd.Type)
	assert.Equal(t, 70, upd.Data.State.Player2Health)
}
