package agent

import (
	"os"
	"testing"

	"warrior-server/internal/domain"
	"warrior-server/internal/systems"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Бот должен подходить под контракт ввода
var _ systems.PlayerInput = (*Bot)(nil)

func arena(gap float64) (*domain.Combatant, *domain.Combatant) {
	self := domain.NewCombatant(domain.KindPlayer, 0, "Kaze")
	self.Pos.X = 200
	self.MaxKi, self.Ki = 100, 100
	enemy := domain.NewCombatant(domain.KindEnemy, 1, "Wolf")
	enemy.Pos.X = self.Pos.X + gap
	return self, enemy
}

func TestBotDecisions(t *testing.T) {
	tests := []struct {
		name  string
		gap   float64
		setup func(self, enemy *domain.Combatant)
		check func(systems.PlayerCommand) bool
	}{
		{"ApproachFar", 400, nil, func(c systems.PlayerCommand) bool { return c.MoveX == 1 && !c.Light && !c.Medium }},
		{"ApproachLeft", -400, nil, func(c systems.PlayerCommand) bool { return c.MoveX == -1 }},
		{"AttackInRange", 50, nil, func(c systems.PlayerCommand) bool { return c.Light || c.Medium || c.Heavy }},
		{"BlockThreat", 60, func(_, e *domain.Combatant) { e.Attacking = true }, func(c systems.PlayerCommand) bool {
			return c.Block && !c.Dodge
		}},
		{"DodgeWhenLow", 60, func(s, e *domain.Combatant) {
			e.Attacking = true
			s.HP = s.MaxHP * 0.1
		}, func(c systems.PlayerCommand) bool { return c.Dodge && c.MoveX == -1 }},
		{"IgnoreDead", 50, func(_, e *domain.Combatant) { e.HP = 0 }, func(c systems.PlayerCommand) bool {
			return c == systems.PlayerCommand{}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 0.9 не проходит ни один шанс
			b := NewBot(utils.NewSequence(0.9))
			self, enemy := arena(tt.gap)
			if tt.setup != nil {
				tt.setup(self, enemy)
			}
			cmd := b.Poll(self, []*domain.Combatant{enemy})
			if !tt.check(cmd) {
				t.Errorf("unexpected command %+v", cmd)
			}
		})
	}
}

func TestBotAlternatesAttacks(t *testing.T) {
	b := NewBot(utils.NewSequence(0.9))
	self, enemy := arena(40)
	first := b.Poll(self, []*domain.Combatant{enemy})
	second := b.Poll(self, []*domain.Combatant{enemy})
	if first.Medium == second.Medium {
		t.Errorf("expected alternating attacks, got %+v then %+v", first, second)
	}
}

func TestBotChargesBeam(t *testing.T) {
	b := NewBot(utils.NewSequence(0.9))
	b.Beam = true
	self, enemy := arena(500)
	opp := []*domain.Combatant{enemy}

	for i := 0; i < beamChargePolls; i++ {
		if cmd := b.Poll(self, opp); !cmd.ChargeKi {
			t.Fatalf("poll %d: expected charge, got %+v", i, cmd)
		}
	}
	if cmd := b.Poll(self, opp); cmd.ChargeKi {
		t.Error("charge must be released to fire the beam")
	}

	// Без ки луч не заряжается
	self.Ki = 0
	if cmd := b.Poll(self, opp); cmd.ChargeKi {
		t.Error("no ki, no charge")
	}
}

func TestBotPrepare(t *testing.T) {
	b := NewBot(utils.NewSequence(0.9))
	stats := domain.NewStatsModel()

	b.Prepare(stats)
	if b.Beam {
		t.Error("a fresh character knows no beam")
	}

	stats.Techniques[domain.TechniqueKiWave] = true
	b.charging = 5
	b.Prepare(stats)
	if !b.Beam || b.charging != 0 {
		t.Errorf("prepare must pick up the technique and reset the charge, got %+v", b)
	}
}
