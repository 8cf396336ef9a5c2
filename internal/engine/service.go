package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"warrior-server/internal/domain"
	"warrior-server/internal/engine/handlers"
	"warrior-server/internal/engine/handlers/actions"
	"warrior-server/internal/network"
	"warrior-server/pkg/api"
	"warrior-server/pkg/content"
	"warrior-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ArenaService крутит одну игру в своей горутине.
// Снаружи в игру попадают только команды через CommandChan.
type ArenaService struct {
	Game        *Game
	CommandChan chan domain.InternalCommand
	Hub         *network.Broadcaster

	handlers map[domain.ActionType]handlers.HandlerFunc
	latest   atomic.Pointer[api.ServerResponse]
	interval time.Duration
	log      *logrus.Entry
}

func NewService(cfg Config, reg *content.Registry, store SaveStore) *ArenaService {
	s := &ArenaService{
		Game:        NewGame(cfg, reg, store),
		CommandChan: make(chan domain.InternalCommand, 100),
		Hub:         network.NewBroadcaster(),
		handlers:    make(map[domain.ActionType]handlers.HandlerFunc),
		interval:    cfg.TickInterval(),
		log:         logger.For("service"),
	}
	s.registerHandlers()
	s.publish()
	return s
}

func (s *ArenaService) registerHandlers() {
	s.handlers[domain.ActionEncounter] = handlers.WithPayload(actions.HandleEncounter)
	s.handlers[domain.ActionFight] = handlers.WithPayload(actions.HandleFight)
	s.handlers[domain.ActionTrain] = handlers.WithPayload(actions.HandleTrain)
	s.handlers[domain.ActionQuality] = handlers.WithPayload(actions.HandleQuality)
	s.handlers[domain.ActionEat] = handlers.WithPayload(actions.HandleEat)
	s.handlers[domain.ActionTravel] = handlers.WithPayload(actions.HandleTravel)
	s.handlers[domain.ActionSave] = handlers.WithPayload(actions.HandleSave)
	s.handlers[domain.ActionLoad] = handlers.WithPayload(actions.HandleLoad)
	s.handlers[domain.ActionRest] = handlers.WithEmptyPayload(actions.HandleRest)
	s.handlers[domain.ActionAbort] = handlers.WithEmptyPayload(actions.HandleAbort)
	s.handlers[domain.ActionAdvance] = handlers.WithEmptyPayload(actions.HandleAdvance)
}

// Run - игровой цикл с фиксированной частотой. dt меряется по часам,
// Game.Update сам зажимает его сверху.
func (s *ArenaService) Run(ctx context.Context) {
	s.log.WithField("interval", s.interval).Info("Game loop started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Game loop stopped")
			return
		case cmd := <-s.CommandChan:
			reply := s.Execute(ctx, cmd)
			if cmd.Reply != nil {
				cmd.Reply <- reply
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Step(dt)
		}
	}
}

// Step - один кадр: обновление, снимок, рассылка.
// Вызывается только из горутины цикла (или из теста без Run).
func (s *ArenaService) Step(dt float64) {
	s.Game.Update(dt)
	s.publish()
}

func (s *ArenaService) publish() {
	snap := s.Game.Snapshot()
	s.latest.Store(&snap)
	s.Hub.Broadcast(snap)
	// Логи уже ушли в снимке
	s.Game.DrainLogs()
}

// Latest - последний опубликованный снимок. Безопасен из любой горутины.
func (s *ArenaService) Latest() *api.ServerResponse {
	return s.latest.Load()
}

// Execute исполняет команду синхронно. Только из горутины цикла.
func (s *ArenaService) Execute(ctx context.Context, cmd domain.InternalCommand) domain.CommandReply {
	handler, ok := s.handlers[cmd.Action]
	if !ok {
		return domain.CommandReply{Error: fmt.Sprintf("%v: %s", ErrUnknownCommand, cmd.Action)}
	}

	log := s.log.WithField("action", cmd.Action.String())
	result, err := handler(handlers.Context{Ctx: ctx, Game: s.Game}, cmd.Payload)
	if err != nil {
		log.WithError(err).Debug("Command rejected")
		s.Game.addLog(LogError, "%s: %v", cmd.Action, err)
		s.publish()
		return domain.CommandReply{Error: err.Error()}
	}

	if result.Msg != "" {
		msgType := result.MsgType
		if msgType == "" {
			msgType = LogInfo
		}
		s.Game.addLog(msgType, "%s", result.Msg)
	}
	log.Debug("Command executed")
	s.publish()
	return domain.CommandReply{Msg: result.Msg}
}

// ProcessCommand принимает команду от внешнего мира (HTTP) и ждет ответа цикла.
func (s *ArenaService) ProcessCommand(ctx context.Context, cmd api.ClientCommand) (domain.CommandReply, error) {
	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown {
		return domain.CommandReply{}, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Action)
	}
	payload := cmd.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}

	reply := make(chan domain.CommandReply, 1)
	select {
	case s.CommandChan <- domain.InternalCommand{Action: action, Payload: payload, Reply: reply}:
	case <-ctx.Done():
		return domain.CommandReply{}, ctx.Err()
	}

	select {
	case r := <-reply:
		return r, nil
	case <-ctx.Done():
		return domain.CommandReply{}, ctx.Err()
	}
}
