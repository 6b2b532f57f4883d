package game

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// MaxHealth is the starting and maximum health of every combatant.
const MaxHealth = 100

// Battle is the persistent record of a two-player encounter and its
// accumulated statistics.
type Battle struct {
	ID                   uint                        `json:"id" gorm:"primaryKey"`
	Player1ID            uint                        `json:"player1Id" gorm:"index"`
	Player2ID            uint                        `json:"player2Id" gorm:"index"`
	Player1CharacterID   uint                        `json:"player1CharacterId"`
	Player2CharacterID   uint                        `json:"player2CharacterId"`
	Status               BattleStatus                `json:"status" gorm:"index"`
	WinnerID             *uint                       `json:"winnerId"`
	Turns                int                         `json:"turns"`
	Player1Damage        int                         `json:"player1Damage"`
	Player2Damage        int                         `json:"player2Damage"`
	Player1CriticalHits  int                         `json:"player1CriticalHits"`
	Player2CriticalHits  int                         `json:"player2CriticalHits"`
	Player1Healing       int                         `json:"player1Healing"`
	Player2Healing       int                         `json:"player2Healing"`
	Player1StatusEffects int                         `json:"player1StatusEffects"`
	Player2StatusEffects int                         `json:"player2StatusEffects"`
	BattleLog            datatypes.JSONSlice[string] `json:"battleLog"`
	// RewardsSettled flips once settlement ran so a replayed completion
	// cannot pay out twice.
	RewardsSettled bool      `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// HasPlayer reports whether userID is one of the two participants.
func (b *Battle) HasPlayer(userID uint) bool {
	return userID != 0 && (b.Player1ID == userID || b.Player2ID == userID)
}

// OpponentOf returns the other participant, or 0 when userID is not playing.
func (b *Battle) OpponentOf(userID uint) uint {
	switch userID {
	case b.Player1ID:
		return b.Player2ID
	case b.Player2ID:
		return b.Player1ID
	}
	return 0
}

// Clone returns a deep copy.
func (b *Battle) Clone() *Battle {
	if b == nil {
		return nil
	}
	out := *b
	out.WinnerID = cloneUint(b.WinnerID)
	out.BattleLog = append(datatypes.JSONSlice[string](nil), b.BattleLog...)
	return &out
}

// Effect is a status tag held by a combatant. RemainingTurns counts the
// holder's own turns left; zero means the effect never expires.
type Effect struct {
	Tag            string `json:"tag"`
	RemainingTurns int    `json:"remainingTurns"`
}

// Cooldown tracks how many of the owner's turns remain before Move can be
// used again.
type Cooldown struct {
	Move           string `json:"move"`
	RemainingTurns int    `json:"remainingTurns"`
}

// BattleState is the live combat snapshot, 1:1 with Battle.
type BattleState struct {
	BattleID         uint `gorm:"primaryKey;autoIncrement:false"`
	CurrentTurn      int
	CurrentPlayerID  uint
	Player1Health    int
	Player2Health    int
	Player1Effects   datatypes.JSONSlice[Effect]
	Player2Effects   datatypes.JSONSlice[Effect]
	Player1Cooldowns datatypes.JSONSlice[Cooldown]
	Player2Cooldowns datatypes.JSONSlice[Cooldown]
	BattleLog        datatypes.JSONSlice[string]
	Status           BattleStatus
	Winner           *uint
	UpdatedAt        time.Time
}

// NewBattleState returns the opening snapshot: full health, turn 1 and
// player one to move.
func NewBattleState(b *Battle) *BattleState {
	return &BattleState{
		BattleID:         b.ID,
		CurrentTurn:      1,
		CurrentPlayerID:  b.Player1ID,
		Player1Health:    MaxHealth,
		Player2Health:    MaxHealth,
		Player1Effects:   datatypes.JSONSlice[Effect]{},
		Player2Effects:   datatypes.JSONSlice[Effect]{},
		Player1Cooldowns: datatypes.JSONSlice[Cooldown]{},
		Player2Cooldowns: datatypes.JSONSlice[Cooldown]{},
		BattleLog:        datatypes.JSONSlice[string]{"Battle started!"},
		Status:           BattleActive,
	}
}

// Clone returns a deep copy.
func (s *BattleState) Clone() *BattleState {
	if s == nil {
		return nil
	}
	out := *s
	out.Player1Effects = append(datatypes.JSONSlice[Effect](nil), s.Player1Effects...)
	out.Player2Effects = append(datatypes.JSONSlice[Effect](nil), s.Player2Effects...)
	out.Player1Cooldowns = append(datatypes.JSONSlice[Cooldown](nil), s.Player1Cooldowns...)
	out.Player2Cooldowns = append(datatypes.JSONSlice[Cooldown](nil), s.Player2Cooldowns...)
	out.BattleLog = append(datatypes.JSONSlice[string](nil), s.BattleLog...)
	out.Winner = cloneUint(s.Winner)
	return &out
}

// EffectTags returns the tags of the given effect list in application order.
func EffectTags(effects []Effect) []string {
	out := make([]string, 0, len(effects))
	for _, e := range effects {
		out = append(out, e.Tag)
	}
	return out
}

type battleStateJSON struct {
	BattleID             uint         `json:"battleId"`
	CurrentTurn          int          `json:"currentTurn"`
	CurrentPlayerID      uint         `json:"currentPlayerId"`
	Player1Health        int          `json:"player1Health"`
	Player2Health        int          `json:"player2Health"`
	Player1Effects       []string     `json:"player1Effects"`
	Player2Effects       []string     `json:"player2Effects"`
	Player1EffectDetails []Effect     `json:"player1EffectDetails"`
	Player2EffectDetails []Effect     `json:"player2EffectDetails"`
	Player1Cooldowns     []Cooldown   `json:"player1Cooldowns"`
	Player2Cooldowns     []Cooldown   `json:"player2Cooldowns"`
	BattleLog            []string     `json:"battleLog"`
	Status               BattleStatus `json:"status"`
	Winner               *uint        `json:"winner,omitempty"`
}

// MarshalJSON emits the client wire shape: effects as plain tag lists with
// the duration records alongside.
func (s BattleState) MarshalJSON() ([]byte, error) {
	orEmpty := func(in []Effect) []Effect {
		if in == nil {
			return []Effect{}
		}
		return in
	}
	cds := func(in []Cooldown) []Cooldown {
		if in == nil {
			return []Cooldown{}
		}
		return in
	}
	log := []string(s.BattleLog)
	if log == nil {
		log = []string{}
	}
	return json.Marshal(battleStateJSON{
		BattleID:             s.BattleID,
		CurrentTurn:          s.CurrentTurn,
		CurrentPlayerID:      s.CurrentPlayerID,
		Player1Health:        s.Player1Health,
		Player2Health:        s.Player2Health,
		Player1Effects:       EffectTags(s.Player1Effects),
		Player2Effects:       EffectTags(s.Player2Effects),
		Player1EffectDetails: orEmpty(s.Player1Effects),
		Player2EffectDetails: orEmpty(s.Player2Effects),
		Player1Cooldowns:     cds(s.Player1Cooldowns),
		Player2Cooldowns:     cds(s.Player2Cooldowns),
		BattleLog:            log,
		Status:               s.Status,
		Winner:               s.Winner,
	})
}

// UnmarshalJSON reads the wire shape written by MarshalJSON. Effect
// details win over the plain tag lists when both are present.
func (s *BattleState) UnmarshalJSON(data []byte) error {
	var w battleStateJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	effects := func(details []Effect, tags []string) datatypes.JSONSlice[Effect] {
		if len(details) > 0 {
			return details
		}
		out := make(datatypes.JSONSlice[Effect], 0, len(tags))
		for _, t := range tags {
			out = append(out, Effect{Tag: t})
		}
		return out
	}
	*s = BattleState{
		BattleID:         w.BattleID,
		CurrentTurn:      w.CurrentTurn,
		CurrentPlayerID:  w.CurrentPlayerID,
		Player1Health:    w.Player1Health,
		Player2Health:    w.Player2Health,
		Player1Effects:   effects(w.Player1EffectDetails, w.Player1Effects),
		Player2Effects:   effects(w.Player2EffectDetails, w.Player2Effects),
		Player1Cooldowns: w.Player1Cooldowns,
		Player2Cooldowns: w.Player2Cooldowns,
		BattleLog:        w.BattleLog,
		Status:           w.Status,
		Winner:           w.Winner,
	}
	return nil
}

// BattleAction is the transient move submission for one turn.
type BattleAction struct {
	Type     ActionType `json:"type"`
	MoveID   *uint      `json:"moveId,omitempty"`
	MoveName string     `json:"moveName"`
	Damage   *string    `json:"damage,omitempty"`
	Effect   *string    `json:"effect,omitempty"`
	TargetID uint       `json:"targetId"`
}

// BattleResult summarizes a completed battle from one participant's view.
type BattleResult struct {
	BattleID            uint   `json:"battleId"`
	Won                 bool   `json:"won"`
	OpponentID          uint   `json:"opponentId"`
	OpponentName        string `json:"opponentName"`
	XPGained            int    `json:"xpGained"`
	RankPointsChange    int    `json:"rankPointsChange"`
	CharacterExperience int    `json:"characterExperience"`
	CharacterLevel      int    `json:"characterLevel"`
	LevelProgress       int    `json:"levelProgress"`
	TotalTurns          int    `json:"totalTurns"`
	DamageDealt         int    `json:"damageDealt"`
	DamageTaken         int    `json:"damageTaken"`
	CriticalHits        int    `json:"criticalHits"`
	Healing             int    `json:"healing"`
	StatusEffects       int    `json:"statusEffects"`
}
