package service

import (
	"fmt"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
)

// Reward amounts applied when a battle completes.
const (
	WinnerXP         = 25
	WinnerRankPoints = 15
	LoserXP          = 5
	LoserRankPoints  = -10
	// XPPerLevel times the current level is the experience needed to level
	// up.
	XPPerLevel = 100
)

// Settle pays out rewards to both sides of a finished battle. A side whose
// user record is missing is skipped. It does not guard against running
// twice; use SettleBattle for that.
func Settle(repo storage.Repository, winnerID, loserID uint) error {
	winner, err := repo.GetUser(winnerID)
	if err != nil {
		return fmt.Errorf("load winner %d: %w", winnerID, err)
	}
	if winner != nil {
		winner.Experience += WinnerXP
		winner.RankPoints += WinnerRankPoints
		// One level per battle; leftover experience is discarded.
		if winner.Experience >= winner.Level*XPPerLevel {
			winner.Level++
			winner.Experience = 0
		}
		if err := repo.SaveUser(winner); err != nil {
			return fmt.Errorf("save winner %d: %w", winnerID, err)
		}
	}

	loser, err := repo.GetUser(loserID)
	if err != nil {
		return fmt.Errorf("load loser %d: %w", loserID, err)
	}
	if loser != nil {
		loser.Experience += LoserXP
		loser.RankPoints += LoserRankPoints
		if loser.RankPoints < 0 {
			loser.RankPoints = 0
		}
		if err := repo.SaveUser(loser); err != nil {
			return fmt.Errorf("save loser %d: %w", loserID, err)
		}
	}
	return nil
}

// SettleBattle settles b once. It reports whether rewards were paid on this
// call; the caller persists b afterwards.
func SettleBattle(repo storage.Repository, b *game.Battle) (bool, error) {
	if b.RewardsSettled || b.Status != game.BattleCompleted || b.WinnerID == nil {
		return false, nil
	}
	winnerID := *b.WinnerID
	if err := Settle(repo, winnerID, b.OpponentOf(winnerID)); err != nil {
		return false, err
	}
	b.RewardsSettled = true
	return true, nil
}
