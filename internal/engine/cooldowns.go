package engine

import (
	"strings"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

func sameMove(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// remainingCooldown returns how many more own turns move is blocked for.
func remainingCooldown(cds []game.Cooldown, move string) int {
	for _, cd := range cds {
		if sameMove(cd.Move, move) {
			return cd.RemainingTurns
		}
	}
	return 0
}

// advanceCooldowns counts down every tracked move and then starts the
// cooldown of the move just used.
func advanceCooldowns(cds []game.Cooldown, used string, cooldown int) []game.Cooldown {
	out := make([]game.Cooldown, 0, len(cds)+1)
	for _, cd := range cds {
		if sameMove(cd.Move, used) {
			continue
		}
		cd.RemainingTurns--
		if cd.RemainingTurns > 0 {
			out = append(out, cd)
		}
	}
	if cooldown > 0 && used != "" {
		out = append(out, game.Cooldown{Move: used, RemainingTurns: cooldown})
	}
	return out
}
