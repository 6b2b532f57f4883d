package api

import (
	"github.com/lyfstyl-ux/fightcaster/internal/notify"
	"github.com/lyfstyl-ux/fightcaster/internal/service"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
)

const (
	recentBattlesLimit = 5
	leaderboardLimit   = 10
	recentPlayersLimit = 5
)

// GameHandler groups all game-related HTTP handlers.
type GameHandler struct {
	repo       storage.Repository
	battles    *service.Battles
	challenges *service.Challenges
	users      *service.Users
	hub        *notify.Hub
}

// NewGameHandler wires the handlers to the services and the update hub.
func NewGameHandler(repo storage.Repository, battles *service.Battles, challenges *service.Challenges, users *service.Users, hub *notify.Hub) *GameHandler {
	return &GameHandler{repo: repo, battles: battles, challenges: challenges, users: users, hub: hub}
}
