package domain

// Описания статического контента. Загружаются из YAML пакетом content
// и дальше только читаются.

// RequirementKind - вид пререквизита упражнения
type RequirementKind uint8

const (
	RequireProficiency RequirementKind = iota
	RequirePowerLevel
	RequireStat
)

// Requirement - одно условие допуска к упражнению
type Requirement struct {
	Kind     RequirementKind
	Exercise string // для RequireProficiency
	Stat     Stat   // для RequireStat
	Min      float64
}

// ExerciseDef - упражнение
type ExerciseDef struct {
	ID             string
	Name           string
	Duration       float64
	StaminaCost    float64
	Gains          StatBlock
	Requirements   []Requirement
	OncePerRest    bool
	InjuryRisk     float64
	LimitBreak     bool
	Kata           bool
	Unlocks        string
	StaminaRestore float64
	FullHeal       bool
	Act            int
}

// FoodEffect - что дает съеденный предмет
type FoodEffect struct {
	Hunger            float64
	HP                float64
	Stamina           float64
	Ki                float64
	RemoveInjuries    bool
	CurePoison        bool
	InjuryTimerReduce float64
	StatBonus         StatBlock
	Duration          float64
	TrainBonus        float64 // доля, 0.1 = +10%
	KiRegen           float64
	HPRegen           float64
	RegenDuration     float64
	SickChance        float64
	PoisonChance      float64
}

// ItemDef - предмет инвентаря
type ItemDef struct {
	ID                  string
	Name                string
	Type                string
	Value               int
	Food                *FoodEffect
	WisdomSafeThreshold float64
}

// Consumable - можно ли это съесть
func (i *ItemDef) Consumable() bool {
	return i != nil && i.Food != nil
}

// PhaseDef - фаза босса по порогу HP (доля от максимума)
type PhaseDef struct {
	HPThreshold float64
	SpeedMult   float64
	DamageMult  float64
	Message     string
}

// DropDef - выпадение предмета
type DropDef struct {
	Item   string
	Chance float64
	Amount int
}

// EnemyDef - шаблон врага
type EnemyDef struct {
	ID               string
	Name             string
	PowerLevel       int
	HP               float64
	Speed            float64
	Technique        float64
	Attacks          []string
	Phases           []PhaseDef
	Drops            []DropDef
	Zeni             int
	Pack             bool
	GroupSize        int
	AdjustToPL       bool
	MaxFightDuration float64
}

// TriggerType - чем запускается сюжетная встреча
type TriggerType string

const (
	TriggerZone  TriggerType = "zone"
	TriggerPL    TriggerType = "pl"
	TriggerFlag  TriggerType = "flag"
	TriggerEvent TriggerType = "event"
)

type TriggerDef struct {
	Type       TriggerType
	Zone       int
	PowerLevel int
	Flag       string
	After      string // для event: id встречи, после которой срабатывает
}

// EncounterCombat - бой внутри встречи
type EncounterCombat struct {
	Enemies      []string
	WinCondition string
}

// EncounterDef - сюжетная встреча
type EncounterDef struct {
	ID        string
	Act       int
	Trigger   TriggerDef
	Dialogue  string
	Combat    *EncounterCombat
	Training  string
	OnWinFlag string
	Flag      string // выставляется при завершении встречи без боя
	Required  bool
}

// ZoneDef - зона мира
type ZoneDef struct {
	ID            int
	Name          string
	Act           int
	Enemies       []string
	TrainingSites []string
	LocationBonus float64
	Next          []int
}

// NPCDef - персонаж для отношений
type NPCDef struct {
	ID               string
	Name             string
	BaseRelationship float64
}

// DialogueLine - реплика
type DialogueLine struct {
	Speaker string
	Text    string
}
