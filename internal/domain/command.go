package domain

import "encoding/json"

// InternalCommand - команда для игрового цикла.
// Приходит из HTTP/WS, исполняется строго в goroutine цикла.
type InternalCommand struct {
	Action  ActionType
	Payload json.RawMessage
	// Reply получает результат исполнения. Может быть nil.
	Reply chan CommandReply
}

// CommandReply - ответ цикла на команду
type CommandReply struct {
	Msg   string `json:"msg"`
	Error string `json:"error,omitempty"`
}
