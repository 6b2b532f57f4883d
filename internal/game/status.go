package game

// Status and tag values are typed strings so handlers, storage and the
// engine share one spelling.

type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityRare      Rarity = "Rare"
	RarityLegendary Rarity = "Legendary"
)

// Valid reports whether r is one of the known rarity tiers.
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityLegendary:
		return true
	}
	return false
}

type BattleStatus string

const (
	BattlePending   BattleStatus = "pending"
	BattleActive    BattleStatus = "active"
	BattleCompleted BattleStatus = "completed"
)

type ChallengeStatus string

const (
	ChallengePending  ChallengeStatus = "pending"
	ChallengeAccepted ChallengeStatus = "accepted"
	ChallengeRejected ChallengeStatus = "rejected"
	ChallengeExpired  ChallengeStatus = "expired"
)

// ActionType is the kind of move a player submits on their turn.
type ActionType string

const (
	ActionAttack ActionType = "attack"
	ActionHeal   ActionType = "heal"
	ActionBuff   ActionType = "buff"
)

// Known effect tags. Moves may carry other tags; those are applied with the
// default duration.
const (
	EffectBurn         = "burn"
	EffectSlow         = "slow"
	EffectDefenseBoost = "defense_boost"
	EffectHeal         = "heal"
	EffectUntargetable = "untargetable"
)
