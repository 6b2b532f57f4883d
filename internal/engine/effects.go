package engine

import "github.com/lyfstyl-ux/fightcaster/internal/game"

// newEffect builds an effect record with the configured duration. Legacy
// mode records zero, which never expires.
func (e *Engine) newEffect(tag string) game.Effect {
	if e.rules.LegacyEffects {
		return game.Effect{Tag: tag}
	}
	d, ok := e.rules.EffectDurations[tag]
	if !ok {
		d = e.rules.DefaultEffectDuration
	}
	return game.Effect{Tag: tag, RemainingTurns: d}
}

// tickEffects counts down the first n effects of the holder (the ones held
// before this turn's action) and drops those that reach zero. It returns
// the expired tags in order.
func tickEffects(effects []game.Effect, n int) (kept []game.Effect, expired []string) {
	if n > len(effects) {
		n = len(effects)
	}
	kept = make([]game.Effect, 0, len(effects))
	for i, ef := range effects {
		if i < n && ef.RemainingTurns > 0 {
			ef.RemainingTurns--
			if ef.RemainingTurns == 0 {
				expired = append(expired, ef.Tag)
				continue
			}
		}
		kept = append(kept, ef)
	}
	return kept, expired
}
