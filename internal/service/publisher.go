package service

import "github.com/lyfstyl-ux/fightcaster/internal/game"

// Publisher receives battle snapshots after they are committed. Delivery
// is best effort and must not block the caller for long.
type Publisher interface {
	Publish(b *game.Battle, s *game.BattleState)
}

type nopPublisher struct{}

func (nopPublisher) Publish(*game.Battle, *game.BattleState) {}
