package domain

import "strings"

// ActionType - внутренний числовой идентификатор команды оболочки
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionEncounter
	ActionFight
	ActionTrain
	ActionQuality
	ActionEat
	ActionRest
	ActionTravel
	ActionSave
	ActionLoad
	ActionAbort
	ActionAdvance
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"ENCOUNTER": ActionEncounter,
	"FIGHT":     ActionFight,
	"TRAIN":     ActionTrain,
	"QUALITY":   ActionQuality,
	"EAT":       ActionEat,
	"REST":      ActionRest,
	"TRAVEL":    ActionTravel,
	"SAVE":      ActionSave,
	"LOAD":      ActionLoad,
	"ABORT":     ActionAbort,
	"ADVANCE":   ActionAdvance,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionEncounter: "ENCOUNTER",
	ActionFight:     "FIGHT",
	ActionTrain:     "TRAIN",
	ActionQuality:   "QUALITY",
	ActionEat:       "EAT",
	ActionRest:      "REST",
	ActionTravel:    "TRAVEL",
	ActionSave:      "SAVE",
	ActionLoad:      "LOAD",
	ActionAbort:     "ABORT",
	ActionAdvance:   "ADVANCE",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
