package systems

import (
	"math"
	"testing"

	"warrior-server/internal/domain"
	"warrior-server/pkg/utils"
)

const eps = 1e-9

// strikeController бьет первого живого противника каждый кадр
type strikeController struct {
	atk *domain.AttackDescriptor
}

func (s *strikeController) CombatUpdate(_ float64, _ *domain.Combatant, opponents []*domain.Combatant) []domain.Intent {
	for _, o := range opponents {
		if !o.IsDead() {
			return []domain.Intent{{Kind: domain.IntentMelee, Attack: s.atk, Target: o}}
		}
	}
	return nil
}

func jab(frac float64) *domain.AttackDescriptor {
	return &domain.AttackDescriptor{Name: "jab", DamageFraction: frac}
}

// newArena - игрок и один враг, крит не выпадает никогда
func newArena(t *testing.T, win domain.WinCondition) (*CombatEngine, *Recorder, *domain.Combatant, *domain.Combatant) {
	t.Helper()
	rec := NewRecorder(256)
	eng := NewCombatEngine(rec, utils.NewSequence(0.99))

	player := domain.NewCombatant(domain.KindPlayer, 0, "Hero")
	player.Pos.X = 200
	enemy := domain.NewCombatant(domain.KindEnemy, 1, "Wolf")
	enemy.Pos.X = 260

	eng.Reset(player, []*domain.Combatant{enemy}, win)
	return eng, rec, player, enemy
}

func TestResolveHitAbsentAttack(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{})

	res := eng.ResolveHit(player, enemy, nil)
	if res.Outcome != OutcomeNone || res.Damage != 0 || res.Critical {
		t.Errorf("absent attack must give zero result, got %+v", res)
	}
	if enemy.HP != enemy.MaxHP {
		t.Errorf("HP must not change, got %v", enemy.HP)
	}
}

func TestResolveHitParry(t *testing.T) {
	eng, rec, player, enemy := newArena(t, domain.WinCondition{})
	enemy.PowerLevel = 1000
	player.Blocking = true
	player.ParryWindow = 0.1

	atk := &domain.AttackDescriptor{Name: "smash", DamageFraction: 5, Knockback: 3}
	res := eng.ResolveHit(enemy, player, atk)

	if !res.Parried() {
		t.Fatalf("expected parry, got %v", res.Outcome)
	}
	if player.HP != player.MaxHP {
		t.Errorf("parrying defender must take no damage, HP %v", player.HP)
	}
	if enemy.HitStun != domain.ParryStun {
		t.Errorf("attacker hit-stun must be %v, got %v", domain.ParryStun, enemy.HitStun)
	}
	// враг справа от игрока, отлетает вправо
	if enemy.Vel.X <= 0 {
		t.Errorf("attacker must be pushed away, vx=%v", enemy.Vel.X)
	}
	if rec.Count(EffectParry) != 1 || rec.Count(EffectHit) != 0 {
		t.Errorf("expected one parry event and no hit events, got %v", rec.Records())
	}
}

func TestResolveHitChipDamage(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{})
	player.PowerLevel = 100
	enemy.Blocking = true

	res := eng.ResolveHit(player, enemy, jab(0.10))

	if res.Outcome != OutcomeBlocked {
		t.Fatalf("expected block, got %v", res.Outcome)
	}
	if math.Abs(res.Damage-1.0) > eps {
		t.Errorf("chip damage must be 1.0, got %v", res.Damage)
	}
	if math.Abs(enemy.HP-(enemy.MaxHP-1.0)) > eps {
		t.Errorf("expected HP %v, got %v", enemy.MaxHP-1.0, enemy.HP)
	}
	if enemy.Guard != domain.GuardMax-domain.DefaultGuardDamage {
		t.Errorf("expected guard %v, got %v", domain.GuardMax-domain.DefaultGuardDamage, enemy.Guard)
	}
	if eng.Session.Combo != 0 || eng.Session.HitsLanded != 0 {
		t.Error("blocked hit must not count toward combo")
	}
}

func TestGuardBreakOncePerDepletion(t *testing.T) {
	eng, rec, player, enemy := newArena(t, domain.WinCondition{})
	atk := &domain.AttackDescriptor{Name: "claw", DamageFraction: 0.1, GuardDamage: 20}

	for i := 1; i <= 6; i++ {
		player.Blocking = true
		res := eng.ResolveHit(enemy, player, atk)
		if res.Outcome != OutcomeBlocked {
			t.Fatalf("hit %d: expected block, got %v", i, res.Outcome)
		}
		if i == 5 && !res.GuardBroken {
			t.Fatal("fifth hit must break the guard")
		}
		if i == 6 && res.GuardBroken {
			t.Fatal("guard already depleted, no second break")
		}
	}

	if player.Guard != 0 {
		t.Errorf("guard must be clamped to zero, got %v", player.Guard)
	}
	st := player.Status(domain.StatusStunned)
	if st == nil || st.Remaining != domain.GuardBreakStun {
		t.Fatalf("expected %vs stun, got %+v", domain.GuardBreakStun, st)
	}
	if n := rec.Count(EffectGuardBreak); n != 1 {
		t.Errorf("expected exactly one guard break event, got %d", n)
	}
}

func TestGuardRegeneratesWhenNotBlocking(t *testing.T) {
	eng, _, player, _ := newArena(t, domain.WinCondition{})
	player.Guard = 50

	eng.Update(1.0)
	if math.Abs(player.Guard-65) > eps {
		t.Errorf("expected guard 65 after 1s, got %v", player.Guard)
	}

	player.Blocking = true
	eng.Update(1.0)
	if math.Abs(player.Guard-65) > eps {
		t.Errorf("guard must not regen while blocking, got %v", player.Guard)
	}
}

func TestComboDecay(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{})

	eng.ResolveHit(player, enemy, jab(0.1))
	if eng.Session.Combo != 1 {
		t.Fatalf("expected combo 1, got %d", eng.Session.Combo)
	}

	eng.Update(0.5)
	if eng.Session.Combo != 1 {
		t.Errorf("combo must survive 0.5s, got %d", eng.Session.Combo)
	}
	eng.Update(0.6)
	if eng.Session.Combo != 0 {
		t.Errorf("combo must reset after 1.0s without hits, got %d", eng.Session.Combo)
	}
	if eng.Session.ComboMax != 1 {
		t.Errorf("combo max must be kept, got %d", eng.Session.ComboMax)
	}
}

func TestEnemyHitBreaksPlayerCombo(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{})

	for i := 0; i < 4; i++ {
		eng.ResolveHit(player, enemy, jab(0.1))
	}
	eng.ResolveHit(enemy, player, jab(0.1))

	if eng.Session.Combo != 0 {
		t.Errorf("enemy hit must reset combo, got %d", eng.Session.Combo)
	}
	if eng.Session.ComboMax != 4 {
		t.Errorf("expected combo max 4, got %d", eng.Session.ComboMax)
	}
}

func TestComboMultiplierScalesDamage(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{})
	player.PowerLevel = 100
	enemy.MaxHP, enemy.HP = 10000, 10000

	for i := 0; i < 3; i++ {
		eng.ResolveHit(player, enemy, jab(0.1))
	}
	// четвертый удар идет при комбо 3
	res := eng.ResolveHit(player, enemy, jab(0.1))
	if math.Abs(res.Damage-12) > eps {
		t.Errorf("expected 10 x 1.2 = 12, got %v", res.Damage)
	}
}

func TestCriticalHit(t *testing.T) {
	rec := NewRecorder(16)
	eng := NewCombatEngine(rec, utils.NewSequence(0.0))
	player := domain.NewCombatant(domain.KindPlayer, 0, "Hero")
	player.PowerLevel = 100
	player.Technique = 10
	enemy := domain.NewCombatant(domain.KindEnemy, 1, "Wolf")
	eng.Reset(player, []*domain.Combatant{enemy}, domain.WinCondition{})

	res := eng.ResolveHit(player, enemy, jab(0.1))
	if !res.Critical {
		t.Fatal("expected critical")
	}
	if math.Abs(res.Damage-18) > eps {
		t.Errorf("expected 18 damage, got %v", res.Damage)
	}
	if eng.Session.Flash != domain.CritFlash || eng.Session.SlowMotion != domain.CritSlowMotion {
		t.Errorf("crit must flash and slow down, got flash=%v slow=%v", eng.Session.Flash, eng.Session.SlowMotion)
	}
	if rec.Count(EffectCritical) != 1 {
		t.Error("expected critical event")
	}
}

func TestZeroTechniqueNeverCrits(t *testing.T) {
	eng := NewCombatEngine(nil, utils.NewSequence(0.0))
	player := domain.NewCombatant(domain.KindPlayer, 0, "Hero")
	enemy := domain.NewCombatant(domain.KindEnemy, 1, "Wolf")
	eng.Reset(player, []*domain.Combatant{enemy}, domain.WinCondition{})

	if res := eng.ResolveHit(player, enemy, jab(0.1)); res.Critical {
		t.Error("technique 0 must never crit")
	}
}

func TestMultiHitSubHits(t *testing.T) {
	t.Run("Sub-hits fire at 80ms stagger", func(t *testing.T) {
		eng, rec, player, enemy := newArena(t, domain.WinCondition{})
		player.PowerLevel = 100
		atk := &domain.AttackDescriptor{Name: "flurry", DamageFraction: 0.1, Hits: 3}

		eng.ResolveHit(player, enemy, atk)
		if math.Abs(enemy.HP-90) > eps {
			t.Fatalf("primary hit: expected HP 90, got %v", enemy.HP)
		}

		eng.Update(0.05)
		if math.Abs(enemy.HP-90) > eps {
			t.Errorf("no sub-hit before 80ms, HP %v", enemy.HP)
		}
		eng.Update(0.05)
		if math.Abs(enemy.HP-80) > eps {
			t.Errorf("one sub-hit by 100ms, HP %v", enemy.HP)
		}
		eng.Update(0.1)
		if math.Abs(enemy.HP-70) > eps {
			t.Errorf("two sub-hits by 200ms, HP %v", enemy.HP)
		}
		if eng.Session.HitsLanded != 1 {
			t.Errorf("sub-hits do not count as landed hits, got %d", eng.Session.HitsLanded)
		}
		if rec.Count(EffectHit) != 3 {
			t.Errorf("expected 3 hit events, got %d", rec.Count(EffectHit))
		}
	})

	t.Run("Sub-hits skip a dead defender", func(t *testing.T) {
		eng, rec, player, enemy := newArena(t, domain.WinCondition{})
		player.PowerLevel = 100
		enemy.HP = 15
		atk := &domain.AttackDescriptor{Name: "flurry", DamageFraction: 0.1, Hits: 3}

		eng.ResolveHit(player, enemy, atk)
		eng.Update(0.1)
		eng.Session.Result = domain.ResultNone
		eng.Update(0.1)

		if enemy.HP != 0 {
			t.Errorf("expected HP 0, got %v", enemy.HP)
		}
		if rec.Count(EffectKO) != 1 {
			t.Errorf("expected exactly one KO, got %d", rec.Count(EffectKO))
		}
		if rec.Count(EffectHit) != 2 {
			t.Errorf("third hit must be skipped, got %d hit events", rec.Count(EffectHit))
		}
	})
}

func TestHitStunMaxCombine(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{})

	eng.ResolveHit(player, enemy, &domain.AttackDescriptor{Name: "heavy", DamageFraction: 0.1, HitStun: 0.5})
	eng.ResolveHit(player, enemy, jab(0.1))
	if enemy.HitStun != 0.5 {
		t.Errorf("hit-stun must not be additive, got %v", enemy.HitStun)
	}
}

func TestKnockbackAndLaunch(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{})

	eng.ResolveHit(player, enemy, &domain.AttackDescriptor{Name: "kick", DamageFraction: 0.1, Knockback: 1.5})
	if enemy.Vel.X != 1.5*domain.KnockbackScale || enemy.Vel.Y != domain.KnockbackLift {
		t.Errorf("unexpected knockback velocity %v", enemy.Vel)
	}

	eng.ResolveHit(player, enemy, &domain.AttackDescriptor{Name: "uppercut", DamageFraction: 0.1, Launch: true})
	if enemy.Vel.X != domain.LaunchPush || enemy.Vel.Y != domain.LaunchVelocity {
		t.Errorf("unexpected launch velocity %v", enemy.Vel)
	}
}

func TestAttackStatusAndKO(t *testing.T) {
	eng, rec, player, enemy := newArena(t, domain.WinCondition{})
	player.PowerLevel = 100

	poison := &domain.AttackDescriptor{
		Name:           "dart",
		DamageFraction: 0.1,
		Status:         &domain.StatusSpec{Type: domain.StatusPoison, Duration: 5, TickDamage: 2},
	}
	eng.ResolveHit(player, enemy, poison)
	if !enemy.HasStatus(domain.StatusPoison) {
		t.Fatal("expected poison status")
	}

	enemy.HP = 5
	eng.ResolveHit(player, enemy, jab(0.1))
	kd := enemy.Status(domain.StatusKnockdown)
	if kd == nil || kd.Remaining != domain.PermanentDuration {
		t.Fatalf("KO must apply permanent knockdown, got %+v", kd)
	}
	if rec.Count(EffectKO) != 1 {
		t.Error("expected KO event")
	}

	if res := eng.ResolveHit(player, enemy, jab(0.1)); res.Outcome != OutcomeNone {
		t.Errorf("dead defender must not be hit, got %v", res.Outcome)
	}
}

func TestInvulnerableDefenderEvades(t *testing.T) {
	eng, rec, player, enemy := newArena(t, domain.WinCondition{})
	player.Invulnerable = 0.2

	res := eng.ResolveHit(enemy, player, jab(0.5))
	if res.Outcome != OutcomeNone || player.HP != player.MaxHP {
		t.Errorf("i-frames must evade the hit, got %+v hp=%v", res, player.HP)
	}

	// Уклонение от крита не дает ни вспышки, ни замедления
	crit := NewCombatEngine(rec, utils.NewSequence(0))
	crit.Reset(player, []*domain.Combatant{enemy}, domain.WinCondition{})
	enemy.Technique = 50
	player.Invulnerable = 0.2
	res = crit.ResolveHit(enemy, player, jab(0.5))
	if res.Outcome != OutcomeNone || res.Critical {
		t.Errorf("evaded hit must not crit, got %+v", res)
	}
	if crit.Session.Flash != 0 || crit.Session.SlowMotion != 0 {
		t.Errorf("evaded hit must not flash, flash=%v slowmo=%v", crit.Session.Flash, crit.Session.SlowMotion)
	}
	if rec.Count(EffectCritical) != 0 {
		t.Error("evaded hit must not report a critical")
	}
}

func TestResolveKiHit(t *testing.T) {
	tests := []struct {
		charge   float64
		wantDmg  float64
		wantSlow float64
	}{
		{0.5, 10, domain.KiSlowMotionWeak},
		{2, 20, domain.KiSlowMotionWeak},
		{3, 35, domain.KiSlowMotionStrong},
		{4.5, 50, domain.KiSlowMotionStrong},
		{6, 70, domain.KiSlowMotionStrong},
	}

	for _, tt := range tests {
		eng, _, player, enemy := newArena(t, domain.WinCondition{})
		player.PowerLevel = 10
		enemy.Blocking = true
		enemy.ParryWindow = 0.1

		got := eng.ResolveKiHit(player, enemy, tt.charge)
		if math.Abs(got-tt.wantDmg) > eps {
			t.Errorf("charge %v: expected %v, got %v", tt.charge, tt.wantDmg, got)
		}
		if eng.Session.SlowMotion != tt.wantSlow {
			t.Errorf("charge %v: expected slow-mo %v, got %v", tt.charge, tt.wantSlow, eng.Session.SlowMotion)
		}
	}
}

func TestProjectileHitsOpponent(t *testing.T) {
	eng, rec, player, enemy := newArena(t, domain.WinCondition{})
	player.PowerLevel = 100

	blast := domain.NewKiBlast(player, 1)
	eng.Session.Projectiles = append(eng.Session.Projectiles, blast)

	for i := 0; i < 30 && len(eng.Session.Projectiles) > 0; i++ {
		eng.Update(1.0 / 60)
	}

	if len(eng.Session.Projectiles) != 0 {
		t.Fatal("blast should be consumed by the hit")
	}
	if math.Abs(enemy.HP-(enemy.MaxHP-12)) > eps {
		t.Errorf("expected 12 ki damage, HP %v", enemy.HP)
	}
	if rec.Count(EffectKiHit) != 1 {
		t.Error("expected ki hit event")
	}
}

func TestLandHitsWinCondition(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{Kind: domain.WinLandHits, Target: 10})
	player.PowerLevel = 10
	enemy.MaxHP, enemy.HP = 1000, 1000
	player.Controller = &strikeController{atk: jab(0.1)}

	for tick := 1; tick <= 10; tick++ {
		eng.Update(1.0 / 60)
		if eng.Session.HitsLanded != tick {
			t.Fatalf("tick %d: expected %d hits, got %d", tick, tick, eng.Session.HitsLanded)
		}
		if tick < 10 && eng.Session.Result != domain.ResultNone {
			t.Fatalf("tick %d: result set too early: %v", tick, eng.Session.Result)
		}
	}
	if eng.Session.Result != domain.ResultWin {
		t.Fatalf("expected win on the 10th hit, got %v", eng.Session.Result)
	}

	// после итога Update ничего не меняет
	before := eng.Summary()
	for i := 0; i < 20; i++ {
		eng.Update(1.0 / 60)
	}
	after := eng.Summary()
	if before.ComboMax != after.ComboMax || before.HitsLanded != after.HitsLanded || before.Result != after.Result {
		t.Errorf("update after terminal result changed summary: %+v -> %+v", before, after)
	}
	if after.FightDuration != before.FightDuration {
		t.Error("fight timer must stop after terminal result")
	}
}

func TestWinConditions(t *testing.T) {
	tests := []struct {
		name  string
		win   domain.WinCondition
		setup func(eng *CombatEngine, player, enemy *domain.Combatant)
		steps int
		want  domain.Result
	}{
		{
			name:  "All enemies dead",
			win:   domain.WinCondition{},
			setup: func(_ *CombatEngine, _, enemy *domain.Combatant) { enemy.HP = 0 },
			steps: 1,
			want:  domain.ResultWin,
		},
		{
			name:  "Survive timer",
			win:   domain.WinCondition{Kind: domain.WinSurvive, Target: 1},
			setup: func(*CombatEngine, *domain.Combatant, *domain.Combatant) {},
			steps: 61,
			want:  domain.ResultWin,
		},
		{
			name:  "Survive not yet",
			win:   domain.WinCondition{Kind: domain.WinSurvive, Target: 2},
			setup: func(*CombatEngine, *domain.Combatant, *domain.Combatant) {},
			steps: 60,
			want:  domain.ResultNone,
		},
		{
			name: "Reduce stamina",
			win:  domain.WinCondition{Kind: domain.WinReduceStamina, Target: 0.5},
			setup: func(_ *CombatEngine, _, enemy *domain.Combatant) {
				enemy.Stamina = enemy.MaxStamina * 0.4
			},
			steps: 1,
			want:  domain.ResultWin,
		},
		{
			name:  "Player KO is a loss",
			win:   domain.WinCondition{},
			setup: func(_ *CombatEngine, player, _ *domain.Combatant) { player.HP = 0 },
			steps: 1,
			want:  domain.ResultLoss,
		},
		{
			name: "Win is checked before loss",
			win:  domain.WinCondition{},
			setup: func(_ *CombatEngine, player, enemy *domain.Combatant) {
				player.HP = 0
				enemy.HP = 0
			},
			steps: 1,
			want:  domain.ResultWin,
		},
		{
			name:  "Survive ignores dead enemies",
			win:   domain.WinCondition{Kind: domain.WinSurvive, Target: 10},
			setup: func(_ *CombatEngine, _, enemy *domain.Combatant) { enemy.HP = 0 },
			steps: 60,
			want:  domain.ResultNone,
		},
		{
			name:  "Land hits ignores dead enemies",
			win:   domain.WinCondition{Kind: domain.WinLandHits, Target: 10},
			setup: func(_ *CombatEngine, _, enemy *domain.Combatant) { enemy.HP = 0 },
			steps: 5,
			want:  domain.ResultNone,
		},
		{
			name: "Land hits counts only hits",
			win:  domain.WinCondition{Kind: domain.WinLandHits, Target: 10},
			setup: func(eng *CombatEngine, player, enemy *domain.Combatant) {
				enemy.HP = 1
				eng.ResolveHit(player, enemy, jab(0.5))
			},
			steps: 1,
			want:  domain.ResultNone,
		},
		{
			name:  "Max fight duration beats an explicit condition",
			win:   domain.WinCondition{Kind: domain.WinLandHits, Target: 10},
			setup: func(eng *CombatEngine, _, _ *domain.Combatant) { eng.SetMaxDuration(0.5) },
			steps: 31,
			want:  domain.ResultWin,
		},
		{
			name:  "Max fight duration",
			win:   domain.WinCondition{},
			setup: func(eng *CombatEngine, _, _ *domain.Combatant) { eng.SetMaxDuration(0.5) },
			steps: 31,
			want:  domain.ResultWin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, _, player, enemy := newArena(t, tt.win)
			tt.setup(eng, player, enemy)
			for i := 0; i < tt.steps; i++ {
				eng.Update(1.0 / 60)
			}
			if eng.Session.Result != tt.want {
				t.Errorf("expected %v, got %v", tt.want, eng.Session.Result)
			}
		})
	}
}

func TestSlowMotionDilatesTime(t *testing.T) {
	eng, _, _, _ := newArena(t, domain.WinCondition{})
	eng.Session.SlowMotion = 0.2
	eng.Session.Flash = 0.05

	eng.Update(0.1)
	if math.Abs(eng.Session.FightTimer-0.03) > eps {
		t.Errorf("fight timer must advance by dilated dt, got %v", eng.Session.FightTimer)
	}
	if math.Abs(eng.Session.SlowMotion-0.1) > eps {
		t.Errorf("slow-mo countdown runs on real dt, got %v", eng.Session.SlowMotion)
	}
	if eng.Session.Flash != 0 {
		t.Errorf("flash runs on real dt, got %v", eng.Session.Flash)
	}
}

func TestLockOnNearestRetained(t *testing.T) {
	eng := NewCombatEngine(nil, utils.NewSequence(0.99))
	player := domain.NewCombatant(domain.KindPlayer, 0, "Hero")
	player.Pos.X = 200
	far := domain.NewCombatant(domain.KindEnemy, 1, "Far")
	far.Pos.X = 600
	near := domain.NewCombatant(domain.KindEnemy, 2, "Near")
	near.Pos.X = 300
	eng.Reset(player, []*domain.Combatant{far, near}, domain.WinCondition{})

	eng.Update(1.0 / 60)
	if eng.Session.LockOn != near {
		t.Fatalf("expected nearest enemy locked, got %v", eng.Session.LockOn)
	}

	// ближайший отошел, но цель держится, пока жива
	near.Pos.X = 800
	eng.Update(1.0 / 60)
	if eng.Session.LockOn != near {
		t.Error("lock-on must be retained while the target lives")
	}

	near.HP = 0
	eng.Update(1.0 / 60)
	if eng.Session.LockOn != far {
		t.Errorf("expected switch to the remaining enemy, got %v", eng.Session.LockOn)
	}
}

func TestAbortAndConsume(t *testing.T) {
	eng, _, _, _ := newArena(t, domain.WinCondition{})

	if _, ok := eng.Consume(); ok {
		t.Fatal("consume must fail without a result")
	}

	eng.Abort()
	if eng.Session != nil || eng.Active() {
		t.Fatal("abort must tear the session down")
	}
	eng.Update(1.0 / 60)

	eng2, _, _, enemy2 := newArena(t, domain.WinCondition{})
	enemy2.HP = 0
	eng2.Update(1.0 / 60)
	sum, ok := eng2.Consume()
	if !ok || sum.Result != domain.ResultWin {
		t.Fatalf("expected consumable win, got %+v ok=%v", sum, ok)
	}
	if eng2.Session != nil {
		t.Error("consume must close the session")
	}
}

func TestResolveHitNilDefenderPanicsInStrictMode(t *testing.T) {
	eng, _, player, _ := newArena(t, domain.WinCondition{})
	defer func() {
		if recover() == nil {
			t.Error("expected invariant panic")
		}
	}()
	eng.ResolveHit(player, nil, jab(0.1))
}

func TestComboTables(t *testing.T) {
	tests := []struct {
		count int
		mult  float64
		label string
		color string
	}{
		{0, 1.0, "", "#ffff00"},
		{2, 1.0, "", "#ffff00"},
		{3, 1.2, "GOOD!", "#ffff00"},
		{6, 1.5, "GREAT!", "#ff9900"},
		{10, 1.75, "EXCELLENT!", "#ff6600"},
		{15, 2.0, "AMAZING!", "#ff4400"},
		{20, 2.5, "INCREDIBLE!", "#ff00aa"},
		{26, 3.0, "LEGENDARY!", "#aa00ff"},
		{99, 3.0, "LEGENDARY!", "#aa00ff"},
	}
	for _, tt := range tests {
		if got := ComboMultiplier(tt.count); got != tt.mult {
			t.Errorf("ComboMultiplier(%d) = %v, want %v", tt.count, got, tt.mult)
		}
		if got := ComboLabel(tt.count); got != tt.label {
			t.Errorf("ComboLabel(%d) = %q, want %q", tt.count, got, tt.label)
		}
		if got := ComboColor(tt.count); got != tt.color {
			t.Errorf("ComboColor(%d) = %q, want %q", tt.count, got, tt.color)
		}
	}
}

func TestInvariantsHoldDuringFight(t *testing.T) {
	eng, _, player, enemy := newArena(t, domain.WinCondition{})
	player.PowerLevel = 30
	enemy.PowerLevel = 30
	player.Controller = &strikeController{atk: &domain.AttackDescriptor{Name: "kick", DamageFraction: 0.2, Knockback: 1}}
	enemy.Controller = &strikeController{atk: &domain.AttackDescriptor{Name: "claw", DamageFraction: 0.2, Hits: 2}}

	for i := 0; i < 600 && eng.Active(); i++ {
		eng.Update(1.0 / 60)
		for _, c := range []*domain.Combatant{player, enemy} {
			if c.HP < 0 || c.HP > c.MaxHP || c.Stamina < 0 || c.Stamina > c.MaxStamina ||
				c.Ki < 0 || c.Ki > c.MaxKi || c.Guard < 0 || c.Guard > domain.GuardMax ||
				c.HitStun < 0 || c.ParryWindow < 0 {
				t.Fatalf("tick %d: invariant broken for %s: %+v", i, c.Name, c)
			}
		}
	}
	if eng.Session.Result == domain.ResultNone {
		t.Error("fight should finish within 10 seconds")
	}
}
