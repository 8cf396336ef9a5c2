package domain

import "testing"

type recordingReactor struct {
	damage   []float64
	hitStuns []float64
	statuses []StatusType
}

func (r *recordingReactor) OnDamaged(_ *Combatant, amount float64, _ DamageType) {
	r.damage = append(r.damage, amount)
}

func (r *recordingReactor) OnHitStun(_ *Combatant, d float64) {
	r.hitStuns = append(r.hitStuns, d)
}

func (r *recordingReactor) OnStatus(_ *Combatant, s StatusType, _ float64) {
	r.statuses = append(r.statuses, s)
}

func TestTakeDamageNeverNegative(t *testing.T) {
	c := NewCombatant(KindEnemy, 1, "Wolf")
	c.HP, c.MaxHP = 30, 30

	if got := c.TakeDamage(50, DamagePhysical); got != 30 {
		t.Errorf("actual damage = %v, want 30", got)
	}
	if c.HP != 0 {
		t.Errorf("HP = %v, want 0", c.HP)
	}
	if got := c.TakeDamage(10, DamagePhysical); got != 0 {
		t.Errorf("damage to dead combatant = %v, want 0", got)
	}
	if got := NewCombatant(KindEnemy, 2, "x").TakeDamage(-5, DamagePhysical); got != 0 {
		t.Errorf("negative damage applied: %v", got)
	}
}

func TestTakeDamageRespectsInvulnerability(t *testing.T) {
	c := NewCombatant(KindPlayer, 0, "Hero")
	c.Invulnerable = 0.2
	if got := c.TakeDamage(10, DamagePhysical); got != 0 {
		t.Errorf("damage during i-frames = %v", got)
	}
	c.TickTimers(0.3)
	if c.Invulnerable != 0 {
		t.Errorf("invulnerable = %v, must clamp at 0", c.Invulnerable)
	}
	if got := c.TakeDamage(10, DamagePhysical); got != 10 {
		t.Errorf("damage after i-frames = %v", got)
	}
}

func TestApplyHitStunTakesMaximum(t *testing.T) {
	c := NewCombatant(KindEnemy, 1, "Bandit")
	r := &recordingReactor{}
	c.Reactor = r

	c.ApplyHitStun(0.5)
	c.ApplyHitStun(0.2)
	if c.HitStun != 0.5 {
		t.Errorf("HitStun = %v, want 0.5", c.HitStun)
	}
	c.ApplyHitStun(0.8)
	if c.HitStun != 0.8 {
		t.Errorf("HitStun = %v, want 0.8", c.HitStun)
	}
	if len(r.hitStuns) != 3 {
		t.Errorf("reactor saw %d hit-stuns", len(r.hitStuns))
	}

	for c.DecayHitStun(0.3) {
	}
	if c.HitStun != 0 {
		t.Errorf("HitStun = %v after decay", c.HitStun)
	}
}

func TestApplyStatusReplaces(t *testing.T) {
	c := NewCombatant(KindEnemy, 1, "Bandit")
	c.ApplyStatus(StatusPoison, 5, 2)
	c.ApplyStatus(StatusPoison, 3, 4)
	if len(c.Statuses) != 1 {
		t.Fatalf("statuses = %d, want 1", len(c.Statuses))
	}
	if s := c.Status(StatusPoison); s.Remaining != 3 || s.TickDamage != 4 {
		t.Errorf("status = %+v", s)
	}
}

func TestUpdateStatusesTicksOncePerSecond(t *testing.T) {
	c := NewCombatant(KindEnemy, 1, "Bandit")
	c.HP, c.MaxHP = 100, 100
	c.ApplyStatus(StatusBurn, 2.5, 5)

	for i := 0; i < 3; i++ {
		c.UpdateStatuses(0.25)
	}
	if c.HP != 100 {
		t.Errorf("HP = %v before first full second", c.HP)
	}
	c.UpdateStatuses(0.25)
	c.UpdateStatuses(1.0)
	if c.HP != 90 {
		t.Errorf("HP = %v, want 90 after two ticks", c.HP)
	}
	c.UpdateStatuses(0.5)
	if c.HasStatus(StatusBurn) {
		t.Error("burn must expire")
	}
}

func TestClampKeepsInvariants(t *testing.T) {
	c := NewCombatant(KindPlayer, 0, "Hero")
	c.HP = 500
	c.Stamina = -3
	c.Ki = 10
	c.Guard = 140
	c.HitStun = -1
	c.ParryWindow = -0.5
	c.Clamp()

	if c.HP != c.MaxHP || c.Stamina != 0 || c.Ki != 0 || c.Guard != GuardMax || c.HitStun != 0 || c.ParryWindow != 0 {
		t.Errorf("clamp failed: %+v", c)
	}
}

func TestKiChargeMultiplier(t *testing.T) {
	tests := []struct {
		charge float64
		want   float64
	}{
		{0, 1}, {1.9, 1}, {2, 2}, {3, 3.5}, {4.5, 5}, {5, 7}, {12, 7},
	}
	for _, tt := range tests {
		if got := KiChargeMultiplier(tt.charge); got != tt.want {
			t.Errorf("KiChargeMultiplier(%v) = %v, want %v", tt.charge, got, tt.want)
		}
	}
}

func TestAttackScaledIsCopy(t *testing.T) {
	base := &AttackDescriptor{Name: "claw", DamageFraction: 0.1, Status: &StatusSpec{Type: StatusBleed, Duration: 2}}
	scaled := base.Scaled(1.5)
	if base.DamageFraction != 0.1 {
		t.Error("original descriptor mutated")
	}
	if !approx(scaled.DamageFraction, 0.15) {
		t.Errorf("scaled = %v", scaled.DamageFraction)
	}
	scaled.Status.Duration = 9
	if base.Status.Duration != 2 {
		t.Error("status spec shared between copies")
	}
	if base.EffectiveGuardDamage() != DefaultGuardDamage || base.EffectiveHitStun() != DefaultHitStun || base.HitCount() != 1 {
		t.Error("defaults not applied")
	}
}
