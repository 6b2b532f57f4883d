package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

var (
	ErrBattleCompleted   = errors.New("battle already completed")
	ErrUnknownActionType = errors.New("unknown action type")
)

// CooldownError is returned when a move is used before its cooldown ran out.
type CooldownError struct {
	Move      string
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("move %q is on cooldown for %d more turn(s)", e.Move, e.Remaining)
}

// Rules are the tunable numbers of turn resolution.
type Rules struct {
	CritChance     float64
	CritMultiplier float64
	HealMin        int
	HealMax        int
	// EffectDurations maps an effect tag to the number of the holder's own
	// turns it lasts. Tags not listed use DefaultEffectDuration.
	EffectDurations       map[string]int
	DefaultEffectDuration int
	// LegacyEffects records every effect without expiry.
	LegacyEffects    bool
	EnforceCooldowns bool
}

// DefaultRules returns the standard game numbers.
func DefaultRules() Rules {
	return Rules{
		CritChance:     0.1,
		CritMultiplier: 1.5,
		HealMin:        15,
		HealMax:        25,
		EffectDurations: map[string]int{
			game.EffectBurn:         3,
			game.EffectSlow:         2,
			game.EffectUntargetable: 1,
			game.EffectDefenseBoost: 1,
		},
		DefaultEffectDuration: 2,
		EnforceCooldowns:      true,
	}
}

// Names carries display names for log lines.
type Names struct {
	Player1Character string
	Player2Character string
	Player1Username  string
	Player2Username  string
}

// Request is one submitted action against a loaded battle.
type Request struct {
	Battle *game.Battle
	State  *game.BattleState
	Action game.BattleAction
	// MoveCooldown is the catalog cooldown of the move being used.
	MoveCooldown int
	Names        Names
	Now          time.Time
}

// Outcome describes what a resolved action did.
type Outcome struct {
	Entry    string
	Damage   int
	Critical bool
	Healing  int
	Effect   string
	// Completed is true when this action ended the battle; WinnerID and
	// LoserID are set only then.
	Completed bool
	WinnerID  uint
	LoserID   uint
}

// Engine resolves single actions. It holds no per-battle state and is safe
// for concurrent use as long as callers serialize work on the same battle.
type Engine struct {
	rng   Roller
	rules Rules
}

func New(rng Roller, rules Rules) *Engine {
	return &Engine{rng: rng, rules: rules}
}

// Rules returns the engine's configured rules.
func (e *Engine) Rules() Rules { return e.rules }

// Resolve applies req.Action for the current player and mutates the battle
// and state in place. All validation happens before the first write, so an
// error leaves both untouched.
func (e *Engine) Resolve(req Request) (Outcome, error) {
	b, s := req.Battle, req.State
	if b == nil || s == nil {
		return Outcome{}, errors.New("battle and state are required")
	}
	if s.Status == game.BattleCompleted || b.Status == game.BattleCompleted {
		return Outcome{}, ErrBattleCompleted
	}

	tc := newTurnContext(b, s, req.Names, req.Now)
	actor, _ := tc.sides()
	a := req.Action

	var min, max int
	switch a.Type {
	case game.ActionAttack:
		if a.Damage != nil {
			var err error
			if min, max, err = ParseDamageRange(*a.Damage); err != nil {
				return Outcome{}, err
			}
		}
	case game.ActionHeal, game.ActionBuff:
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownActionType, a.Type)
	}
	if e.rules.EnforceCooldowns {
		if left := remainingCooldown(*actor.cooldowns, a.MoveName); left > 0 {
			return Outcome{}, &CooldownError{Move: a.MoveName, Remaining: left}
		}
	}

	heldBefore := len(*actor.effects)
	var out Outcome
	switch a.Type {
	case game.ActionAttack:
		out = e.applyAttack(tc, a, a.Damage != nil, min, max)
	case game.ActionHeal:
		out = e.applyHeal(tc)
	case game.ActionBuff:
		out = e.applyBuff(tc, a)
	}
	tc.add(out.Entry)

	if tc.finishIfDecided(&out) {
		tc.stamp()
		return out, nil
	}
	e.endTurn(tc, a.MoveName, req.MoveCooldown, heldBefore)
	tc.stamp()
	return out, nil
}
