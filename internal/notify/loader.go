package notify

import (
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/storage"
)

// RepositoryLoader reads snapshots straight from repo.
func RepositoryLoader(repo storage.Repository) Loader {
	return func(battleID uint) (*game.Battle, *game.BattleState, error) {
		b, err := repo.GetBattle(battleID)
		if err != nil || b == nil {
			return nil, nil, err
		}
		s, err := repo.GetBattleState(battleID)
		if err != nil {
			return nil, nil, err
		}
		return b, s, nil
	}
}
