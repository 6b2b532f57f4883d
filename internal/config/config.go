package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lyfstyl-ux/fightcaster/internal/engine"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
)

//go:embed default_config.json
var defaultConfig []byte

type moveEntry struct {
	Name        string  `json:"name"`
	Damage      *string `json:"damage"`
	Effect      *string `json:"effect"`
	Description string  `json:"description"`
	Cooldown    int     `json:"cooldown"`
}

type characterEntry struct {
	Name                   string      `json:"name"`
	Class                  string      `json:"class"`
	Rarity                 game.Rarity `json:"rarity"`
	Attack                 int         `json:"attack"`
	Defense                int         `json:"defense"`
	Speed                  int         `json:"speed"`
	SpecialMove            string      `json:"special_move"`
	SpecialMoveDescription string      `json:"special_move_description"`
	ImageURL               string      `json:"image_url"`
	Moves                  []moveEntry `json:"moves"`
}

type rulesEntry struct {
	CritChance            *float64       `json:"crit_chance"`
	CritMultiplier        *float64       `json:"crit_multiplier"`
	HealMin               *int           `json:"heal_min"`
	HealMax               *int           `json:"heal_max"`
	EffectDurations       map[string]int `json:"effect_durations"`
	DefaultEffectDuration *int           `json:"default_effect_duration"`
	LegacyEffects         bool           `json:"legacy_effects"`
	// Pointer so an absent key keeps enforcement on.
	EnforceCooldowns *bool  `json:"enforce_cooldowns"`
	ChallengeTTL     string `json:"challenge_ttl"`
}

type rawConfig struct {
	CharacterList []characterEntry `json:"character_list"`
	Server        *struct {
		Address string `json:"address"`
	} `json:"server"`
	Rules *rulesEntry `json:"rules"`
}

// DefaultChallengeTTL is how long a pending challenge waits for an answer.
const DefaultChallengeTTL = 24 * time.Hour

// LoadedConfig contains the character catalog to seed, the resolution rules
// and the server address to bind to.
type LoadedConfig struct {
	Characters    []game.Character
	ServerAddress string
	Rules         engine.Rules
	ChallengeTTL  time.Duration
}

// LoadConfig reads the configuration file at path. It requires the key
// `character_list` (snake_case).
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return parse(path, b)
}

// LoadConfigOrDefault reads path when it exists and falls back to the
// built-in catalog otherwise.
func LoadConfigOrDefault(path string) (*LoadedConfig, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}
	return Default()
}

// Default returns the built-in catalog and rules.
func Default() (*LoadedConfig, error) {
	return parse("<default>", defaultConfig)
}

func parse(path string, b []byte) (*LoadedConfig, error) {
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CharacterList) == 0 {
		return nil, fmt.Errorf("config file %s: character_list is empty (provide 'character_list' array)", path)
	}

	characters := make([]game.Character, 0, len(rc.CharacterList))
	nameSet := make(map[string]struct{}, len(rc.CharacterList))
	for _, c := range rc.CharacterList {
		ch, err := toCharacter(c)
		if err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		ln := strings.ToLower(ch.Name)
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate character name '%s'", path, ch.Name)
		}
		nameSet[ln] = struct{}{}
		characters = append(characters, ch)
	}

	rules, ttl, err := toRules(rc.Rules)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	return &LoadedConfig{
		Characters:    characters,
		ServerAddress: addr,
		Rules:         rules,
		ChallengeTTL:  ttl,
	}, nil
}

func toCharacter(c characterEntry) (game.Character, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return game.Character{}, errors.New("character entry missing 'name'")
	}
	if !c.Rarity.Valid() {
		return game.Character{}, fmt.Errorf("character '%s' has unknown rarity '%s'", name, c.Rarity)
	}
	if len(c.Moves) == 0 {
		return game.Character{}, fmt.Errorf("character '%s' has no moves", name)
	}
	moves := make([]game.Move, 0, len(c.Moves))
	moveSet := make(map[string]struct{}, len(c.Moves))
	for _, m := range c.Moves {
		mn := strings.TrimSpace(m.Name)
		if mn == "" {
			return game.Character{}, fmt.Errorf("character '%s' has a move without 'name'", name)
		}
		key := strings.ToLower(mn)
		if _, exists := moveSet[key]; exists {
			return game.Character{}, fmt.Errorf("character '%s' has duplicate move '%s'", name, mn)
		}
		moveSet[key] = struct{}{}
		if m.Damage != nil {
			if _, _, err := engine.ParseDamageRange(*m.Damage); err != nil {
				return game.Character{}, fmt.Errorf("character '%s' move '%s': %w", name, mn, err)
			}
		}
		if m.Cooldown < 0 {
			return game.Character{}, fmt.Errorf("character '%s' move '%s': negative cooldown", name, mn)
		}
		moves = append(moves, game.Move{
			Name:        mn,
			Damage:      m.Damage,
			Effect:      m.Effect,
			Description: m.Description,
			Cooldown:    m.Cooldown,
		})
	}
	return game.Character{
		Name:                   name,
		Class:                  c.Class,
		Rarity:                 c.Rarity,
		Attack:                 c.Attack,
		Defense:                c.Defense,
		Speed:                  c.Speed,
		SpecialMove:            c.SpecialMove,
		SpecialMoveDescription: c.SpecialMoveDescription,
		ImageURL:               c.ImageURL,
		Moves:                  moves,
	}, nil
}

// toRules overlays the configured values on engine.DefaultRules.
func toRules(r *rulesEntry) (engine.Rules, time.Duration, error) {
	rules := engine.DefaultRules()
	ttl := DefaultChallengeTTL
	if r == nil {
		return rules, ttl, nil
	}
	if r.CritChance != nil {
		if *r.CritChance < 0 || *r.CritChance > 1 {
			return rules, 0, fmt.Errorf("rules.crit_chance must be within [0, 1], got %v", *r.CritChance)
		}
		rules.CritChance = *r.CritChance
	}
	if r.CritMultiplier != nil {
		if *r.CritMultiplier < 1 {
			return rules, 0, fmt.Errorf("rules.crit_multiplier must be at least 1, got %v", *r.CritMultiplier)
		}
		rules.CritMultiplier = *r.CritMultiplier
	}
	if r.HealMin != nil {
		rules.HealMin = *r.HealMin
	}
	if r.HealMax != nil {
		rules.HealMax = *r.HealMax
	}
	if rules.HealMin < 0 || rules.HealMax < rules.HealMin {
		return rules, 0, fmt.Errorf("rules.heal_min/heal_max out of order: %d-%d", rules.HealMin, rules.HealMax)
	}
	for tag, d := range r.EffectDurations {
		if d < 1 {
			return rules, 0, fmt.Errorf("rules.effect_durations[%s] must be at least 1", tag)
		}
		rules.EffectDurations[tag] = d
	}
	if r.DefaultEffectDuration != nil {
		if *r.DefaultEffectDuration < 1 {
			return rules, 0, errors.New("rules.default_effect_duration must be at least 1")
		}
		rules.DefaultEffectDuration = *r.DefaultEffectDuration
	}
	rules.LegacyEffects = r.LegacyEffects
	if r.EnforceCooldowns != nil {
		rules.EnforceCooldowns = *r.EnforceCooldowns
	}
	if r.ChallengeTTL != "" {
		d, err := time.ParseDuration(r.ChallengeTTL)
		if err != nil || d <= 0 {
			return rules, 0, fmt.Errorf("rules.challenge_ttl %q is not a positive duration", r.ChallengeTTL)
		}
		ttl = d
	}
	return rules, ttl, nil
}
