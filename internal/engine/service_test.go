package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"warrior-server/internal/domain"
	"warrior-server/pkg/api"
	"warrior-server/pkg/content"
)

func newTestService(t *testing.T) *ArenaService {
	t.Helper()
	reg, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg := NewConfig()
	cfg.Seed = 7
	cfg.AutoAdvance = false
	return NewService(cfg, reg, nil)
}

func exec(s *ArenaService, action domain.ActionType, payload string) domain.CommandReply {
	return s.Execute(context.Background(), domain.InternalCommand{Action: action, Payload: json.RawMessage(payload)})
}

func TestServiceExecute(t *testing.T) {
	s := newTestService(t)
	if s.Latest() == nil || s.Latest().Screen != string(ScreenTitle) {
		t.Fatal("a snapshot is published on creation")
	}

	if r := exec(s, domain.ActionAdvance, ""); r.Error != "" {
		t.Fatalf("advance failed: %s", r.Error)
	}
	if s.Latest().Screen != string(ScreenOverworld) {
		t.Errorf("commands publish right away, screen %s", s.Latest().Screen)
	}

	if r := exec(s, domain.ActionFight, `{"enemy":"wolf"}`); r.Error != "" {
		t.Fatalf("fight failed: %s", r.Error)
	}
	snap := s.Latest()
	if snap.Combat == nil || snap.Combat.Phase != string(phaseIntro) || len(snap.Combat.Enemies) != 1 {
		t.Fatalf("unexpected combat view %+v", snap.Combat)
	}
	if snap.Combat.Enemies[0].ID == "" || snap.Combat.Player.Type != "PLAYER" {
		t.Errorf("unexpected combatants %+v", snap.Combat)
	}

	r := exec(s, domain.ActionTrain, `{"exercise":"pushups"}`)
	if !strings.Contains(r.Error, ErrCombatActive.Error()) {
		t.Errorf("training during combat must fail, got %+v", r)
	}
	logs := s.Latest().Logs
	if len(logs) == 0 || logs[len(logs)-1].Type != LogError {
		t.Errorf("rejections are logged, got %+v", logs)
	}

	if r := exec(s, domain.ActionUnknown, ""); !strings.Contains(r.Error, ErrUnknownCommand.Error()) {
		t.Errorf("expected unknown command, got %+v", r)
	}
}

func TestServiceStepBroadcasts(t *testing.T) {
	s := newTestService(t)
	ch := s.Hub.Register("test")

	s.Step(frame)
	s.Step(frame)

	first, second := <-ch, <-ch
	if first.Tick != 1 || second.Tick != 2 {
		t.Errorf("ticks %d, %d", first.Tick, second.Tick)
	}
	if s.Latest().Tick != 2 {
		t.Errorf("latest tick %d", s.Latest().Tick)
	}
}

func TestProcessCommand(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	reqCtx, reqCancel := context.WithTimeout(ctx, 2*time.Second)
	defer reqCancel()

	reply, err := s.ProcessCommand(reqCtx, api.ClientCommand{Action: "advance"})
	if err != nil || reply.Error != "" {
		t.Fatalf("advance failed: %+v %v", reply, err)
	}

	reply, err = s.ProcessCommand(reqCtx, api.ClientCommand{Action: "quality", Payload: json.RawMessage(`{"quality":50}`)})
	if err != nil || !strings.Contains(reply.Error, "not training") {
		t.Errorf("quality outside training must be rejected, got %+v %v", reply, err)
	}

	if _, err := s.ProcessCommand(reqCtx, api.ClientCommand{Action: "dance"}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestProcessCommandWithoutLoop(t *testing.T) {
	s := newTestService(t)
	s.CommandChan = make(chan domain.InternalCommand)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.ProcessCommand(ctx, api.ClientCommand{Action: "rest"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected a deadline error, got %v", err)
	}
}
