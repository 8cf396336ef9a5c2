package actions

import (
	"warrior-server/internal/engine/handlers"
	"warrior-server/pkg/api"
)

// HandleFight - свободный бой вне сюжета
func HandleFight(ctx handlers.Context, p api.FightPayload) (handlers.Result, error) {
	if err := ctx.Game.StartFight(p.Enemy, p.WinCondition); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{Msg: "Fight started", MsgType: "COMBAT"}, nil
}

func HandleAbort(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Game.Abort()
}
