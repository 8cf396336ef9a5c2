package actions

import (
	"fmt"

	"warrior-server/internal/engine/handlers"
	"warrior-server/pkg/api"
)

// HandleEncounter запускает сюжетную встречу
func HandleEncounter(ctx handlers.Context, p api.EncounterPayload) (handlers.Result, error) {
	if err := ctx.Game.StartEncounter(p.ID); err != nil {
		return handlers.Result{}, err
	}
	if p.ID == "" {
		return handlers.Result{Msg: "Encounter started", MsgType: "STORY"}, nil
	}
	return handlers.Result{Msg: fmt.Sprintf("Encounter %s started", p.ID), MsgType: "STORY"}, nil
}

// HandleAdvance листает диалог, закрывает титул и инвентарь
func HandleAdvance(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Game.Advance()
}

func HandleTravel(ctx handlers.Context, p api.TravelPayload) (handlers.Result, error) {
	if err := ctx.Game.Travel(p.Zone); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(), nil
}
