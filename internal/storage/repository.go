package storage

import (
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

// Repository is the persistence boundary for users, the catalog, battles
// and challenges. Single-record lookups return (nil, nil) on a miss so
// callers decide which absence is an error.
type Repository interface {
	GetBattle(id uint) (*game.Battle, error)
	GetBattleState(battleID uint) (*game.BattleState, error)
	SaveBattle(b *game.Battle) error
	SaveBattleState(s *game.BattleState) error
	GetUser(id uint) (*game.User, error)
	SaveUser(u *game.User) error
	GetCharacter(id uint) (*game.Character, error)
	GetMovesByCharacterID(characterID uint) ([]game.Move, error)
	GetChallenge(id uint) (*game.Challenge, error)
	SaveChallenge(c *game.Challenge) error

	CreateUser(u *game.User) error
	GetUserByFID(fid string) (*game.User, error)
	ListUsers() ([]game.User, error)
	// Leaderboard returns users ordered by rank points, highest first.
	Leaderboard(limit int) ([]game.User, error)

	ListCharacters() ([]game.Character, error)
	// SeedCatalog inserts or refreshes characters and their moves, matched
	// by name. IDs of existing rows are kept.
	SeedCatalog(characters []game.Character) error

	// CreateBattle assigns the battle an ID and stores it together with its
	// opening state.
	CreateBattle(b *game.Battle, s *game.BattleState) error
	// ListUserBattles returns the user's battles, newest first.
	ListUserBattles(userID uint, limit int) ([]game.Battle, error)

	CreateChallenge(c *game.Challenge) error
	// ListPendingChallenges returns pending challenges addressed to userID.
	ListPendingChallenges(userID uint) ([]game.Challenge, error)
	// ListStaleChallenges returns pending challenges created before the
	// given instant.
	ListStaleChallenges(before time.Time) ([]game.Challenge, error)

	// Transaction runs fn against a repository whose writes become visible
	// together, or not at all when fn returns an error.
	Transaction(fn func(tx Repository) error) error
}
