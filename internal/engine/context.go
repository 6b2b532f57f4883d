package engine

import (
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"gorm.io/datatypes"
)

// --- Turn context and helpers -----------------------------------------
type turnContext struct {
	b     *game.Battle
	s     *game.BattleState
	names Names
	now   time.Time
	p1    bool
}

func newTurnContext(b *game.Battle, s *game.BattleState, names Names, now time.Time) *turnContext {
	if now.IsZero() {
		now = time.Now()
	}
	return &turnContext{b: b, s: s, names: names, now: now, p1: s.CurrentPlayerID == b.Player1ID}
}

// add appends a line to both views of the battle log.
func (tc *turnContext) add(line string) {
	if line == "" {
		return
	}
	tc.s.BattleLog = append(tc.s.BattleLog, line)
	tc.b.BattleLog = append(tc.b.BattleLog, line)
}

// stamp copies the turn counter onto the battle and refreshes timestamps.
func (tc *turnContext) stamp() {
	tc.b.Turns = tc.s.CurrentTurn
	tc.b.UpdatedAt = tc.now
	tc.s.UpdatedAt = tc.now
}

// side is a view over one combatant's fields on the battle and its state.
type side struct {
	userID        uint
	character     string
	username      string
	health        *int
	effects       *datatypes.JSONSlice[game.Effect]
	cooldowns     *datatypes.JSONSlice[game.Cooldown]
	damage        *int
	critical      *int
	healing       *int
	statusEffects *int
}

func (tc *turnContext) player1() side {
	return side{
		userID:        tc.b.Player1ID,
		character:     orDefault(tc.names.Player1Character, "Player 1"),
		username:      orDefault(tc.names.Player1Username, "Player 1"),
		health:        &tc.s.Player1Health,
		effects:       &tc.s.Player1Effects,
		cooldowns:     &tc.s.Player1Cooldowns,
		damage:        &tc.b.Player1Damage,
		critical:      &tc.b.Player1CriticalHits,
		healing:       &tc.b.Player1Healing,
		statusEffects: &tc.b.Player1StatusEffects,
	}
}

func (tc *turnContext) player2() side {
	return side{
		userID:        tc.b.Player2ID,
		character:     orDefault(tc.names.Player2Character, "Player 2"),
		username:      orDefault(tc.names.Player2Username, "Player 2"),
		health:        &tc.s.Player2Health,
		effects:       &tc.s.Player2Effects,
		cooldowns:     &tc.s.Player2Cooldowns,
		damage:        &tc.b.Player2Damage,
		critical:      &tc.b.Player2CriticalHits,
		healing:       &tc.b.Player2Healing,
		statusEffects: &tc.b.Player2StatusEffects,
	}
}

// sides returns the acting side first.
func (tc *turnContext) sides() (actor, defender side) {
	if tc.p1 {
		return tc.player1(), tc.player2()
	}
	return tc.player2(), tc.player1()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func clampHealth(h int) int {
	if h < 0 {
		return 0
	}
	if h > game.MaxHealth {
		return game.MaxHealth
	}
	return h
}
