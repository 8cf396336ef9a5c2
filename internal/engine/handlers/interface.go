package handlers

import (
	"context"
	"encoding/json"

	"warrior-server/internal/systems"
)

// GameAPI - то, что хендлеры могут делать с игрой.
// Game реализует этот интерфейс, тесты подставляют заглушку.
type GameAPI interface {
	StartEncounter(id string) error
	StartFight(enemyID, winCondition string) error
	StartTraining(id string) (systems.TrainingOutcome, error)
	SetQuality(q float64) error
	Eat(itemID string) (systems.EatResult, error)
	Rest(ctx context.Context) error
	Travel(zone int) error
	SaveGame(ctx context.Context, slot string) error
	LoadGame(ctx context.Context, slot string) error
	Abort() error
	Advance() error
}

// Context передает хендлеру игру и контекст запроса.
type Context struct {
	Ctx  context.Context
	Game GameAPI
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в игровой лог напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, COMBAT, TRAINING, ERROR)
}

// HandlerFunc - это контракт для любой команды (FIGHT, TRAIN, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
