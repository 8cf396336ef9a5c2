package systems

import (
	"math"
	"testing"

	"warrior-server/internal/domain"
)

func TestStepPhysics(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *domain.Combatant)
		check func(t *testing.T, c *domain.Combatant)
	}{
		{
			name: "Airborne combatant lands on the ground",
			setup: func(c *domain.Combatant) {
				c.Pos = domain.Vec2{X: 300, Y: domain.GroundY - 1}
				c.OnGround = false
				c.Vel.Y = 100
			},
			check: func(t *testing.T, c *domain.Combatant) {
				if !c.OnGround || c.Pos.Y != domain.GroundY || c.Vel.Y != 0 {
					t.Errorf("expected landing, got pos %v vel %v ground %v", c.Pos, c.Vel, c.OnGround)
				}
			},
		},
		{
			name: "Upward velocity leaves the ground",
			setup: func(c *domain.Combatant) {
				c.Pos = domain.Vec2{X: 300, Y: domain.GroundY}
				c.Vel.Y = domain.LaunchVelocity
			},
			check: func(t *testing.T, c *domain.Combatant) {
				if c.OnGround || c.Pos.Y >= domain.GroundY {
					t.Errorf("expected airborne, got pos %v", c.Pos)
				}
			},
		},
		{
			name: "Arena bounds clamp position and stop motion",
			setup: func(c *domain.Combatant) {
				c.Pos = domain.Vec2{X: domain.ArenaMaxX - 1, Y: domain.GroundY}
				c.Vel.X = 1000
			},
			check: func(t *testing.T, c *domain.Combatant) {
				if c.Pos.X != domain.ArenaMaxX || c.Vel.X != 0 {
					t.Errorf("expected clamp at right wall, got x=%v vx=%v", c.Pos.X, c.Vel.X)
				}
			},
		},
		{
			name: "Ground friction scales with dt",
			setup: func(c *domain.Combatant) {
				c.Pos = domain.Vec2{X: 300, Y: domain.GroundY}
				c.Vel.X = 100
			},
			check: func(t *testing.T, c *domain.Combatant) {
				want := 100 * math.Pow(domain.PlayerFriction, 1)
				if math.Abs(c.Vel.X-want) > 1e-9 {
					t.Errorf("expected vx %v, got %v", want, c.Vel.X)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := domain.NewCombatant(domain.KindPlayer, 0, "Hero")
			tt.setup(c)
			StepPhysics(c, 1.0/60)
			tt.check(t, c)
		})
	}
}

func TestStepProjectile(t *testing.T) {
	owner := domain.NewCombatant(domain.KindPlayer, 0, "Hero")
	owner.Pos.X = 200

	p := domain.NewKiBlast(owner, 1)
	StepProjectile(p, 0.5)
	if !p.Alive || p.Pos.X <= 200 {
		t.Fatalf("blast should fly right, got %v alive=%v", p.Pos, p.Alive)
	}
	StepProjectile(p, domain.KiBlastLifetime)
	if p.Alive {
		t.Error("blast should expire by age")
	}
}

func TestOverlaps(t *testing.T) {
	owner := domain.NewCombatant(domain.KindPlayer, 0, "Hero")
	target := domain.NewCombatant(domain.KindEnemy, 1, "Wolf")
	target.Pos.X = 400

	p := domain.NewKiBlast(owner, 1)
	p.Pos = domain.Vec2{X: 400, Y: domain.GroundY - 40}
	if !Overlaps(p, target) {
		t.Error("blast at target center must overlap")
	}
	p.Pos.X = 100
	if Overlaps(p, target) {
		t.Error("distant blast must not overlap")
	}
}
