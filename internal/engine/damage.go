package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

// MaxDamage bounds either end of a damage range. Anything above it is far
// past a full health bar and only invites overflow in crit math.
const MaxDamage = 10 * game.MaxHealth

// RangeError reports a malformed "min-max" damage string.
type RangeError struct {
	Value  string
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid damage range %q: %s", e.Value, e.Reason)
}

// ParseDamageRange parses an inclusive "min-max" range such as "30-45".
func ParseDamageRange(s string) (min, max int, err error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return 0, 0, &RangeError{Value: s, Reason: "expected min-max"}
	}
	min, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, &RangeError{Value: s, Reason: "min is not an integer"}
	}
	max, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, &RangeError{Value: s, Reason: "max is not an integer"}
	}
	if min < 0 {
		return 0, 0, &RangeError{Value: s, Reason: "min is negative"}
	}
	if max < min {
		return 0, 0, &RangeError{Value: s, Reason: "max is below min"}
	}
	if max > MaxDamage {
		return 0, 0, &RangeError{Value: s, Reason: fmt.Sprintf("max exceeds %d", MaxDamage)}
	}
	return min, max, nil
}

// rollBetween draws uniformly from [min, max].
func rollBetween(rng Roller, min, max int) int {
	return min + rng.Intn(max-min+1)
}

// rollDamage draws raw damage and applies the critical multiplier, floored.
func (e *Engine) rollDamage(min, max int) (dmg int, crit bool) {
	dmg = rollBetween(e.rng, min, max)
	if e.rng.Float64() < e.rules.CritChance {
		dmg = int(float64(dmg) * e.rules.CritMultiplier)
		crit = true
	}
	return dmg, crit
}
