package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/service"
)

func TestChallenges_AcceptFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	bob := s.login(t, "2", "bob")

	w := s.do(t, http.MethodPost, constants.RouteChallenges, alice.ID, gin.H{"challengedId": bob.ID, "characterId": s.chars[0].ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Challenge game.Challenge `json:"challenge"`
	}
	decode(t, w, &created)
	assert.Equal(t, game.ChallengePending, created.Challenge.Status)

	w = s.do(t, http.MethodGet, constants.RouteChallenges, bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending struct {
		Challenges []service.PendingChallenge `json:"challenges"`
	}
	decode(t, w, &pending)
	require.Len(t, pending.Challenges, 1)
	require.NotNil(t, pending.Challenges[0].Challenger)
	assert.Equal(t, "alice", pending.Challenges[0].Challenger.Username)
	require.NotNil(t, pending.Challenges[0].Character)
	assert.Equal(t, s.chars[0].Name, pending.Challenges[0].Character.Name)

	accept := withID(constants.RouteChallengeAccept, created.Challenge.ID)
	w = s.do(t, http.MethodPost, accept, bob.ID, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, accept, alice.ID, gin.H{"characterId": s.chars[1].ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, accept, bob.ID, gin.H{"characterId": s.chars[1].ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var accepted struct {
		Challenge game.Challenge   `json:"challenge"`
		Battle    game.Battle      `json:"battle"`
		State     game.BattleState `json:"battleState"`
	}
	decode(t, w, &accepted)
	assert.Equal(t, game.ChallengeAccepted, accepted.Challenge.Status)
	assert.Equal(t, alice.ID, accepted.Battle.Player1ID)
	assert.Equal(t, alice.ID, accepted.State.CurrentPlayerID)
	require.NotNil(t, accepted.Challenge.BattleID)
	assert.Equal(t, accepted.Battle.ID, *accepted.Challenge.BattleID)

	w = s.do(t, http.MethodPost, withID(constants.RouteChallengeReject, created.Challenge.ID), bob.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, withID(constants.RouteBattleUpdates, accepted.Battle.ID), bob.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChallenges_RejectAndValidation(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "1", "alice")
	bob := s.login(t, "2", "bob")

	w := s.do(t, http.MethodPost, constants.RouteChallenges, alice.ID, gin.H{"challengedId": alice.ID, "characterId": s.chars[0].ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, constants.RouteChallenges, alice.ID, gin.H{"challengedId": bob.ID, "characterId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, constants.ErrCharacterNotFound, errorOf(t, w))

	w = s.do(t, http.MethodPost, constants.RouteChallenges, alice.ID, gin.H{"challengedId": bob.ID, "characterId": s.chars[0].ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Challenge game.Challenge `json:"challenge"`
	}
	decode(t, w, &created)

	w = s.do(t, http.MethodPost, withID(constants.RouteChallengeReject, created.Challenge.ID), bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rejected struct {
		Challenge game.Challenge `json:"challenge"`
	}
	decode(t, w, &rejected)
	assert.Equal(t, game.ChallengeRejected, rejected.Challenge.Status)

	w = s.do(t, http.MethodGet, constants.RouteChallenges, bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"challenges":[]}`, w.Body.String())

	w = s.do(t, http.MethodPost, withID(constants.RouteChallengeAccept, 999), bob.ID, gin.H{"characterId": s.chars[0].ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, constants.ErrChallengeNotFound, errorOf(t, w))
}
