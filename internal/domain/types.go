package domain

import (
	"fmt"
	"strings"
)

// Vec2 - позиция или скорость на арене
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CombatantKind - тег варианта бойца
type CombatantKind uint8

const (
	KindPlayer CombatantKind = iota
	KindEnemy
)

func (k CombatantKind) String() string {
	if k == KindPlayer {
		return "PLAYER"
	}
	return "ENEMY"
}

// DamageType - тип урона
type DamageType uint8

const (
	DamagePhysical DamageType = iota
	DamageKi
	DamageStatus
)

var damageTypeToString = map[DamageType]string{
	DamagePhysical: "physical",
	DamageKi:       "ki",
	DamageStatus:   "status",
}

// ParseDamageType конвертирует строку из контента в DamageType.
// Пустая строка - физический урон.
func ParseDamageType(s string) (DamageType, error) {
	switch strings.ToLower(s) {
	case "", "physical":
		return DamagePhysical, nil
	case "ki":
		return DamageKi, nil
	case "status":
		return DamageStatus, nil
	}
	return DamagePhysical, fmt.Errorf("unknown damage type %q", s)
}

func (d DamageType) String() string {
	if v, ok := damageTypeToString[d]; ok {
		return v
	}
	return "unknown"
}

// StatusType - тег статус-эффекта
type StatusType string

const (
	StatusStunned   StatusType = "stunned"
	StatusKnockdown StatusType = "knockdown"
	StatusPoison    StatusType = "poison"
	StatusBurn      StatusType = "burn"
	StatusBleed     StatusType = "bleed"
)

// Stat - одна из пяти тренируемых характеристик
type Stat uint8

const (
	Strength Stat = iota
	Speed
	Endurance
	Technique
	KiControl
	StatCount
)

// AllStats - порядок обхода характеристик везде, где он важен
var AllStats = [...]Stat{Strength, Speed, Endurance, Technique, KiControl}

var statToString = [...]string{"strength", "speed", "endurance", "technique", "ki_control"}

var statAliases = map[string]Stat{
	"strength":   Strength,
	"str":        Strength,
	"speed":      Speed,
	"spd":        Speed,
	"endurance":  Endurance,
	"end":        Endurance,
	"technique":  Technique,
	"tech":       Technique,
	"ki_control": KiControl,
	"kicontrol":  KiControl,
	"ki":         KiControl,
}

// ParseStat принимает имя из YAML (snake_case) и короткие алиасы.
func ParseStat(s string) (Stat, bool) {
	v, ok := statAliases[strings.ToLower(s)]
	return v, ok
}

func (s Stat) String() string {
	if s < StatCount {
		return statToString[s]
	}
	return "unknown"
}

// StatBlock - значения по всем характеристикам
type StatBlock [StatCount]float64

// Result - итог боя
type Result uint8

const (
	ResultNone Result = iota
	ResultWin
	ResultLoss
)

func (r Result) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultLoss:
		return "loss"
	}
	return "none"
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Terminal - бой закончился
func (r Result) Terminal() bool {
	return r != ResultNone
}

// AIState - состояние автомата врага
type AIState string

const (
	AIApproach  AIState = "approach"
	AIAttack    AIState = "attack"
	AIStagger   AIState = "stagger"
	AIStunned   AIState = "stunned"
	AIKnockdown AIState = "knockdown"
	AIDodge     AIState = "dodge"
	AIDead      AIState = "dead"
)

// Difficulty задает задержку реакции врагов
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
	DifficultyMaster Difficulty = "master"
)

var reactionDelays = map[Difficulty]float64{
	DifficultyEasy:   0.5,
	DifficultyNormal: 0.3,
	DifficultyHard:   0.15,
	DifficultyMaster: 0.05,
}

// ReactionDelay возвращает задержку реакции. Неизвестная сложность считается normal.
func (d Difficulty) ReactionDelay() float64 {
	if v, ok := reactionDelays[d]; ok {
		return v
	}
	return reactionDelays[DifficultyNormal]
}

// ParseDifficulty нечувствителен к регистру.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(s))
	_, ok := reactionDelays[d]
	return d, ok
}
