package engine

import (
	"strconv"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

// applyAttack damages the defender and hands the move's effect to them.
// A move without a damage range still applies its effect.
func (e *Engine) applyAttack(tc *turnContext, a game.BattleAction, hasRange bool, min, max int) Outcome {
	actor, defender := tc.sides()
	var out Outcome
	if hasRange {
		out.Damage, out.Critical = e.rollDamage(min, max)
		*defender.health = clampHealth(*defender.health - out.Damage)
		*actor.damage += out.Damage
		if out.Critical {
			*actor.critical++
		}
	}
	if a.Effect != nil && *a.Effect != "" {
		out.Effect = *a.Effect
		*defender.effects = append(*defender.effects, e.newEffect(out.Effect))
		*actor.statusEffects++
	}

	entry := actor.character + " used " + a.MoveName + " for " + strconv.Itoa(out.Damage) + " damage"
	if out.Critical {
		entry += " (CRITICAL HIT!)"
	}
	if out.Effect != "" {
		entry += " and applied " + out.Effect
	}
	out.Entry = entry
	return out
}

// applyHeal restores the actor's own health, capped at the maximum.
func (e *Engine) applyHeal(tc *turnContext) Outcome {
	actor, _ := tc.sides()
	healed := rollBetween(e.rng, e.rules.HealMin, e.rules.HealMax)
	*actor.health = clampHealth(*actor.health + healed)
	*actor.healing += healed
	return Outcome{
		Healing: healed,
		Entry:   actor.character + " healed for " + strconv.Itoa(healed) + " HP",
	}
}

// applyBuff changes no health; an attached effect lands on the actor.
func (e *Engine) applyBuff(tc *turnContext, a game.BattleAction) Outcome {
	actor, _ := tc.sides()
	out := Outcome{Entry: actor.character + " used " + a.MoveName}
	if a.Effect != nil && *a.Effect != "" {
		out.Effect = *a.Effect
		*actor.effects = append(*actor.effects, e.newEffect(out.Effect))
		*actor.statusEffects++
		out.Entry += " and applied " + out.Effect
	}
	return out
}
