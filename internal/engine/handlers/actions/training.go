package actions

import (
	"warrior-server/internal/engine/handlers"
	"warrior-server/pkg/api"
)

// HandleTrain начинает упражнение. Отказ модели - не ошибка команды,
// причина уходит в лог.
func HandleTrain(ctx handlers.Context, p api.TrainPayload) (handlers.Result, error) {
	out, err := ctx.Game.StartTraining(p.Exercise)
	if err != nil {
		return handlers.Result{}, err
	}
	if !out.OK {
		return handlers.Result{Msg: out.Reason, MsgType: "ERROR"}, nil
	}
	return handlers.Result{Msg: "Training started: " + p.Exercise, MsgType: "TRAINING"}, nil
}

func HandleQuality(ctx handlers.Context, p api.QualityPayload) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Game.SetQuality(p.Quality)
}

func HandleRest(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Game.Rest(ctx.Ctx)
}
