package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse - корневой объект, который сервер рассылает зрителям.
// Это полный снимок игры: экран, персонаж, часы, мир и текущая сцена.
type ServerResponse struct {
	// Type тип сообщения. Сейчас всегда "SNAPSHOT".
	Type string `json:"type"`

	// Tick номер кадра игрового цикла
	Tick uint64 `json:"tick"`

	// Screen верхний экран стека (title, dialogue, overworld, training, combat, inventory)
	Screen string `json:"screen"`

	Player PlayerView `json:"player"`
	Hunger HungerView `json:"hunger"`
	Clock  ClockView  `json:"clock"`
	World  WorldView  `json:"world"`

	// Сцены, которых сейчас нет на экране, не передаются
	Combat   *CombatView   `json:"combat,omitempty"`
	Training *TrainingView `json:"training,omitempty"`
	Dialogue *DialogueView `json:"dialogue,omitempty"`

	Inventory map[string]int `json:"inventory,omitempty"`

	// Logs новые сообщения с прошлого снимка
	Logs []LogEntry `json:"logs,omitempty"`
}

// PlayerView - характеристики персонажа вне боя
type PlayerView struct {
	Name          string             `json:"name"`
	PowerLevel    int                `json:"powerLevel"`
	HP            float64            `json:"hp"`
	MaxHP         float64            `json:"maxHp"`
	Stamina       float64            `json:"stamina"`
	MaxStamina    float64            `json:"maxStamina"`
	Ki            float64            `json:"ki"`
	MaxKi         float64            `json:"maxKi"`
	Stats         map[string]float64 `json:"stats"`
	Honor         float64            `json:"honor"`
	HonorTitle    string             `json:"honorTitle"`
	Determination float64            `json:"determination"`
	Wisdom        float64            `json:"wisdom"`
	Zeni          int                `json:"zeni"`
	Techniques    []string           `json:"techniques,omitempty"`
	Injuries      []InjuryView       `json:"injuries,omitempty"`
	Effects       []string           `json:"effects,omitempty"`
}

type InjuryView struct {
	Type      string  `json:"type"`
	Label     string  `json:"label"`
	Remaining float64 `json:"remaining"`
}

type HungerView struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Mode  string  `json:"mode"`
}

type ClockView struct {
	Day     int     `json:"day"`
	Time    string  `json:"time"`
	Season  string  `json:"season"`
	Weather string  `json:"weather"`
	Seconds float64 `json:"seconds"`
}

// WorldView - сюжет и положение на карте
type WorldView struct {
	Act       int      `json:"act"`
	ActName   string   `json:"actName"`
	Zone      int      `json:"zone"`
	ZoneName  string   `json:"zoneName"`
	Next      []int    `json:"next,omitempty"`
	Pending   []string `json:"pending,omitempty"`
	Exercises []string `json:"exercises,omitempty"`
	Flags     []string `json:"flags,omitempty"`
}

// CombatantView - DTO бойца на арене
type CombatantView struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"` // PLAYER, ENEMY
	Name       string   `json:"name"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Facing     int      `json:"facing"`
	HP         float64  `json:"hp"`
	MaxHP      float64  `json:"maxHp"`
	Stamina    float64  `json:"stamina"`
	MaxStamina float64  `json:"maxStamina"`
	Ki         float64  `json:"ki,omitempty"`
	MaxKi      float64  `json:"maxKi,omitempty"`
	Guard      float64  `json:"guard"`
	PowerLevel int      `json:"powerLevel"`
	State      string   `json:"state"`
	Blocking   bool     `json:"blocking,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
	IsDead     bool     `json:"isDead"`
}

type ProjectileView struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Beam bool    `json:"beam,omitempty"`
}

// CombatView - состояние боевой сессии
type CombatView struct {
	Phase       string           `json:"phase"` // intro, fight, end
	Player      CombatantView    `json:"player"`
	Enemies     []CombatantView  `json:"enemies"`
	Projectiles []ProjectileView `json:"projectiles,omitempty"`
	LockOn      string           `json:"lockOn,omitempty"`
	Combo       int              `json:"combo"`
	ComboLabel  string           `json:"comboLabel,omitempty"`
	ComboColor  string           `json:"comboColor,omitempty"`
	HitsLanded  int              `json:"hitsLanded"`
	Timer       float64          `json:"timer"`
	WinLabel    string           `json:"winCondition"`
	SlowMotion  bool             `json:"slowMotion,omitempty"`
	HitStop     bool             `json:"hitStop,omitempty"`
	Result      string           `json:"result"`
}

type TrainingView struct {
	Exercise string  `json:"exercise"`
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
	Quality  float64 `json:"quality"`
	Flow     bool    `json:"flow"`
}

type DialogueView struct {
	ID      string `json:"id"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Line    int    `json:"line"`
	Lines   int    `json:"lines"`
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, TRAINING, STORY, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - корневой объект команды отладочного драйвера.
type ClientCommand struct {
	// Action название действия (ENCOUNTER, FIGHT, TRAIN, ...)
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// EncounterPayload запускает сюжетную встречу (ENCOUNTER).
// Пустой ID - первая ожидающая встреча.
type EncounterPayload struct {
	ID string `json:"id,omitempty"`
}

// FightPayload - свободный бой (FIGHT). Пустой Enemy - случайный враг зоны.
type FightPayload struct {
	Enemy        string `json:"enemy,omitempty"`
	WinCondition string `json:"winCondition,omitempty"`
}

// TrainPayload - начать упражнение (TRAIN)
type TrainPayload struct {
	Exercise string `json:"exercise"`
}

// QualityPayload - качество выполнения от мини-игры (QUALITY), 0..100
type QualityPayload struct {
	Quality float64 `json:"quality"`
}

// ItemPayload - действия с предметами (EAT)
type ItemPayload struct {
	ItemID string `json:"itemId"`
}

// TravelPayload - переход в соседнюю зону (TRAVEL)
type TravelPayload struct {
	Zone int `json:"zone"`
}

// SlotPayload - слот сохранения (SAVE, LOAD). Пустой - слот из конфига.
type SlotPayload struct {
	Slot string `json:"slot,omitempty"`
}
