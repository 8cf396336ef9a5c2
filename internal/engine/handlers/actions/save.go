package actions

import (
	"warrior-server/internal/engine/handlers"
	"warrior-server/pkg/api"
)

func HandleSave(ctx handlers.Context, p api.SlotPayload) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Game.SaveGame(ctx.Ctx, p.Slot)
}

func HandleLoad(ctx handlers.Context, p api.SlotPayload) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Game.LoadGame(ctx.Ctx, p.Slot)
}
