package actions

import (
	"warrior-server/internal/engine/handlers"
	"warrior-server/pkg/api"
)

// HandleEat съедает предмет. Отказ (не еда, отравление и т.п.) возвращается текстом.
func HandleEat(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	res, err := ctx.Game.Eat(p.ItemID)
	if err != nil {
		return handlers.Result{}, err
	}
	if !res.OK {
		return handlers.Result{Msg: res.Reason, MsgType: "ERROR"}, nil
	}
	return handlers.EmptyResult(), nil
}
