package systems

import (
	"math"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Outcome - чем закончилось разрешение удара
type Outcome uint8

const (
	OutcomeNone    Outcome = iota // атаки нет, цель мертва или неуязвима
	OutcomeHit                    // прямое попадание
	OutcomeBlocked                // блок с чип-уроном
	OutcomeParried                // парирование, урона нет
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeParried:
		return "parried"
	}
	return "none"
}

// HitResult - результат ResolveHit
type HitResult struct {
	Outcome     Outcome
	Damage      float64
	Critical    bool
	GuardBroken bool
}

// Parried - урон не разрешался. За парирование нельзя давать комбо и звук удара.
func (r HitResult) Parried() bool { return r.Outcome == OutcomeParried }

// Landed - удар дошел до HP без блока
func (r HitResult) Landed() bool { return r.Outcome == OutcomeHit }

// SessionSummary - итог для экрана результатов и наград
type SessionSummary struct {
	Result        domain.Result `json:"result"`
	ComboMax      int           `json:"comboMax"`
	HitsLanded    int           `json:"hitsLanded"`
	FightDuration float64       `json:"fightDuration"`
	PlayerHP      float64       `json:"playerHp"`
	PlayerMaxHP   float64       `json:"playerMaxHp"`
}

// CombatSession - состояние одного боя. Живет от Reset до Abort или Consume.
type CombatSession struct {
	Player      *domain.Combatant
	Enemies     []*domain.Combatant
	Projectiles []*domain.Projectile
	Win         domain.WinCondition
	// MaxDuration - лимит боя в секундах, по истечении засчитывается победа. 0 - без лимита.
	MaxDuration float64

	Combo      int
	ComboMax   int
	ComboTimer float64
	HitsLanded int

	FightTimer float64
	Clock      float64 // часы сессии в замедленном времени, по ним живет очередь событий
	SlowMotion float64
	Flash      float64

	Result domain.Result
	LockOn *domain.Combatant

	events Scheduler
}

// CombatEngine ведет одну боевую сессию за раз.
type CombatEngine struct {
	Session *CombatSession

	sink EffectsSink
	rng  utils.Roller
	log  *logrus.Entry
}

func NewCombatEngine(sink EffectsSink, rng utils.Roller) *CombatEngine {
	if sink == nil {
		sink = NopSink{}
	}
	return &CombatEngine{
		sink: sink,
		rng:  rng,
		log:  logger.For("combat_engine"),
	}
}

// Reset начинает новую сессию с этими бойцами.
func (e *CombatEngine) Reset(player *domain.Combatant, enemies []*domain.Combatant, win domain.WinCondition) {
	domain.Assert(player != nil, "combat reset without player")

	for _, c := range append([]*domain.Combatant{player}, enemies...) {
		if c == nil {
			continue
		}
		c.Guard = domain.GuardMax
		c.HitStun = 0
		c.ParryWindow = 0
		c.Invulnerable = 0
		c.Blocking = false
		c.Attacking = false
	}

	e.Session = &CombatSession{
		Player:  player,
		Enemies: enemies,
		Win:     win,
	}
	e.log.WithFields(logrus.Fields{
		"enemies":       len(enemies),
		"win_condition": win.String(),
	}).Info("Combat session started")
}

// SetMaxDuration задает лимит длительности текущей сессии.
func (e *CombatEngine) SetMaxDuration(seconds float64) {
	if e.Session != nil {
		e.Session.MaxDuration = seconds
	}
}

// Active - есть сессия без итога
func (e *CombatEngine) Active() bool {
	return e.Session != nil && !e.Session.Result.Terminal()
}

// Update продвигает сессию на dt реального времени.
func (e *CombatEngine) Update(dt float64) {
	s := e.Session
	if s == nil || s.Result.Terminal() || dt <= 0 {
		return
	}

	// Замедление и вспышка считаются в реальном времени, все остальное в замедленном.
	scale := 1.0
	if s.SlowMotion > 0 {
		scale = domain.SlowMotionFactor
	}
	s.SlowMotion = math.Max(0, s.SlowMotion-dt)
	s.Flash = math.Max(0, s.Flash-dt)
	adt := dt * scale

	s.FightTimer += adt
	s.Clock += adt
	s.events.DrainDue(s.Clock)

	if s.Combo > 0 {
		s.ComboTimer -= adt
		if s.ComboTimer <= 0 {
			s.Combo = 0
			s.ComboTimer = 0
		}
	}

	e.stepCombatant(s.Player, s.Enemies, adt)
	opponents := []*domain.Combatant{s.Player}
	for _, en := range s.Enemies {
		e.stepCombatant(en, opponents, adt)
	}

	e.updateProjectiles(adt)
	e.evaluate()
	e.updateLockOn()
}

func (e *CombatEngine) stepCombatant(c *domain.Combatant, opponents []*domain.Combatant, dt float64) {
	if !c.Blocking {
		c.Guard = math.Min(domain.GuardMax, c.Guard+domain.GuardRegen*dt)
	}
	c.TickTimers(dt)

	if c.Controller != nil {
		for _, in := range c.Controller.CombatUpdate(dt, c, opponents) {
			e.resolveIntent(c, in)
		}
	}
	c.DecayHitStun(dt)

	StepPhysics(c, dt)

	alive := !c.IsDead()
	c.UpdateStatuses(dt)
	if alive && c.IsDead() {
		e.knockOut(c)
	}
	c.Clamp()
}

func (e *CombatEngine) resolveIntent(c *domain.Combatant, in domain.Intent) {
	switch in.Kind {
	case domain.IntentMelee:
		if in.Target != nil && in.Attack != nil {
			e.ResolveHit(c, in.Target, in.Attack)
		}
	case domain.IntentProjectile:
		if in.Projectile != nil {
			e.Session.Projectiles = append(e.Session.Projectiles, in.Projectile)
		}
	}
}

// ResolveHit разрешает один удар attacker по defender.
func (e *CombatEngine) ResolveHit(attacker, defender *domain.Combatant, atk *domain.AttackDescriptor) HitResult {
	if atk == nil {
		return HitResult{}
	}
	if !domain.Assert(attacker != nil && defender != nil, "resolve hit with nil combatant") ||
		!domain.Assert(e.Session != nil, "resolve hit without session") {
		return HitResult{}
	}
	s := e.Session
	// Неуязвимую цель удар не достает: ни урона, ни крита, ни вспышки
	if defender.IsDead() || defender.Invulnerable > 0 {
		return HitResult{}
	}

	combo := 0
	if attacker.IsPlayer() {
		combo = s.Combo
	}
	base := atk.DamageFraction * float64(attacker.PowerLevel) * ComboMultiplier(combo)
	dmg := base

	crit := false
	if e.rng != nil && e.rng.Float64() < attacker.Technique*domain.CritChancePerTechnique {
		crit = true
		dmg *= domain.CritMultiplier
		s.Flash = math.Max(s.Flash, domain.CritFlash)
	}

	ev := HitEvent{Attacker: attacker, Defender: defender, Attack: atk.Name, Critical: crit}

	if defender.Blocking && !atk.Unblockable {
		// Парирование проверяется раньше чип-урона
		if defender.ParryWindow > 0 {
			e.parry(attacker, defender)
			return HitResult{Outcome: OutcomeParried}
		}

		res := HitResult{Outcome: OutcomeBlocked, Critical: crit}
		res.Damage = defender.TakeDamage(dmg*domain.ChipDamage, atk.Type)

		prev := defender.Guard
		defender.Guard -= atk.EffectiveGuardDamage()
		if defender.Guard <= 0 {
			defender.Guard = 0
			// Пробой только при переходе через ноль
			if prev > 0 {
				res.GuardBroken = true
				defender.Blocking = false
				defender.ApplyStatus(domain.StatusStunned, domain.GuardBreakStun, 0)
				e.sink.OnGuardBreak(defender)
			}
		}
		ev.Damage = res.Damage
		e.sink.OnBlock(ev)
		if defender.IsDead() {
			e.knockOut(defender)
		}
		return res
	}

	res := HitResult{Outcome: OutcomeHit, Critical: crit}
	res.Damage = defender.TakeDamage(dmg, atk.Type)

	// Добивающие удары без крита, каждый проверяет, что цель еще жива
	for h := 1; h < atk.HitCount(); h++ {
		name := atk.Name
		dtype := atk.Type
		s.events.Schedule(s.Clock+float64(h)*domain.MultiHitStagger, func() {
			if defender.IsDead() {
				return
			}
			applied := defender.TakeDamage(base, dtype)
			e.sink.OnHit(HitEvent{Attacker: attacker, Defender: defender, Attack: name, Damage: applied, SubHit: true})
			if defender.IsDead() {
				e.knockOut(defender)
			}
		})
	}

	defender.ApplyHitStun(atk.EffectiveHitStun())

	dir := defender.DirectionAwayFrom(attacker)
	if atk.Knockback > 0 {
		defender.Vel.X = atk.Knockback * domain.KnockbackScale * dir
		defender.Vel.Y = domain.KnockbackLift
	}
	if atk.Launch {
		defender.Vel.Y = domain.LaunchVelocity
		defender.Vel.X = dir * domain.LaunchPush
	}

	if atk.Status != nil {
		defender.ApplyStatus(atk.Status.Type, atk.Status.Duration, atk.Status.TickDamage)
	}

	if attacker.IsPlayer() {
		s.Combo++
		s.ComboTimer = domain.ComboDecay
		if s.Combo > s.ComboMax {
			s.ComboMax = s.Combo
		}
		s.HitsLanded++
		if ComboTier(s.Combo) >= domain.ComboSlowMotionTier {
			s.SlowMotion = math.Max(s.SlowMotion, domain.ComboSlowMotion)
		}
	} else {
		s.Combo = 0
		s.ComboTimer = 0
	}

	ev.Damage = res.Damage
	ev.Combo = s.Combo
	if crit {
		s.SlowMotion = math.Max(s.SlowMotion, domain.CritSlowMotion)
		e.sink.OnCritical(ev)
	} else {
		e.sink.OnHit(ev)
	}

	if defender.IsDead() {
		e.knockOut(defender)
	}
	return res
}

func (e *CombatEngine) parry(attacker, defender *domain.Combatant) {
	attacker.ApplyHitStun(domain.ParryStun)
	attacker.Vel.X = attacker.DirectionAwayFrom(defender) * domain.ParryKnockback
	e.sink.OnParry(attacker, defender)
}

// knockOut вешает нокдаун до конца сессии
func (e *CombatEngine) knockOut(c *domain.Combatant) {
	if kd := c.Status(domain.StatusKnockdown); kd != nil && kd.Remaining > domain.PermanentDuration/2 {
		return
	}
	c.ApplyStatus(domain.StatusKnockdown, domain.PermanentDuration, 0)
	e.sink.OnKO(c)
}

// ResolveKiHit - урон ки-луча по времени зарядки. Блок не учитывается.
func (e *CombatEngine) ResolveKiHit(attacker, defender *domain.Combatant, chargeTime float64) float64 {
	if !domain.Assert(attacker != nil && defender != nil, "resolve ki hit with nil combatant") {
		return 0
	}
	dmg := float64(attacker.PowerLevel) * domain.KiChargeMultiplier(chargeTime)
	applied := defender.TakeDamage(dmg, domain.DamageKi)

	if s := e.Session; s != nil {
		slow := domain.KiSlowMotionWeak
		if chargeTime >= domain.KiStrongCharge {
			slow = domain.KiSlowMotionStrong
		}
		s.SlowMotion = math.Max(s.SlowMotion, slow)
	}
	e.sink.OnKiHit(HitEvent{Attacker: attacker, Defender: defender, Attack: "ki_beam", Damage: applied})
	if defender.IsDead() {
		e.knockOut(defender)
	}
	return applied
}

func (e *CombatEngine) updateProjectiles(dt float64) {
	s := e.Session
	kept := s.Projectiles[:0]
	for _, p := range s.Projectiles {
		StepProjectile(p, dt)
		if p.Alive && p.Owner != nil {
			for _, target := range e.opponentsOf(p.Owner) {
				if target.IsDead() || !Overlaps(p, target) {
					continue
				}
				e.projectileHit(p, target)
				p.Alive = false
				break
			}
		}
		if p.Alive {
			kept = append(kept, p)
		}
	}
	s.Projectiles = kept
}

func (e *CombatEngine) projectileHit(p *domain.Projectile, target *domain.Combatant) {
	if p.Beam {
		e.ResolveKiHit(p.Owner, target, p.ChargeTime)
		return
	}
	dmg := p.DamageFraction * float64(p.Owner.PowerLevel)
	applied := target.TakeDamage(dmg, domain.DamageKi)
	target.ApplyHitStun(domain.ProjectileStun)
	e.sink.OnKiHit(HitEvent{Attacker: p.Owner, Defender: target, Attack: "ki_blast", Damage: applied})
	if target.IsDead() {
		e.knockOut(target)
	}
}

func (e *CombatEngine) opponentsOf(c *domain.Combatant) []*domain.Combatant {
	if c.IsPlayer() {
		return e.Session.Enemies
	}
	return []*domain.Combatant{e.Session.Player}
}

// evaluate выставляет итог не более одного раза. Победа проверяется раньше поражения.
func (e *CombatEngine) evaluate() {
	s := e.Session
	if s.Result.Terminal() {
		return
	}

	// Явное условие заменяет проверку "все враги мертвы", а не дополняет ее
	won := false
	switch s.Win.Kind {
	case domain.WinAllEnemiesDead:
		won = e.allEnemiesDead()
	case domain.WinSurvive, domain.WinLast:
		won = s.FightTimer >= s.Win.Target
	case domain.WinLandHits:
		won = float64(s.HitsLanded) >= s.Win.Target
	case domain.WinReduceStamina:
		if len(s.Enemies) > 0 {
			first := s.Enemies[0]
			won = first.Stamina <= first.MaxStamina*s.Win.Target
		}
	}
	if s.MaxDuration > 0 && s.FightTimer >= s.MaxDuration {
		won = true
	}

	switch {
	case won:
		s.Result = domain.ResultWin
	case s.Player.IsDead():
		s.Result = domain.ResultLoss
	default:
		return
	}
	e.log.WithFields(logrus.Fields{
		"result":      s.Result.String(),
		"hits_landed": s.HitsLanded,
		"combo_max":   s.ComboMax,
		"duration":    s.FightTimer,
	}).Info("Combat session finished")
}

func (e *CombatEngine) allEnemiesDead() bool {
	for _, en := range e.Session.Enemies {
		if !en.IsDead() {
			return false
		}
	}
	return true
}

// updateLockOn держит цель, пока она жива, потом берет ближайшего живого.
func (e *CombatEngine) updateLockOn() {
	s := e.Session
	if s.LockOn != nil && !s.LockOn.IsDead() {
		return
	}
	s.LockOn = nil
	best := math.Inf(1)
	for _, en := range s.Enemies {
		if en.IsDead() {
			continue
		}
		if d := s.Player.DistanceTo(en); d < best {
			best = d
			s.LockOn = en
		}
	}
}

// Summary - снимок итогов текущей сессии
func (e *CombatEngine) Summary() SessionSummary {
	s := e.Session
	if s == nil {
		return SessionSummary{}
	}
	return SessionSummary{
		Result:        s.Result,
		ComboMax:      s.ComboMax,
		HitsLanded:    s.HitsLanded,
		FightDuration: s.FightTimer,
		PlayerHP:      s.Player.HP,
		PlayerMaxHP:   s.Player.MaxHP,
	}
}

// Consume забирает итог завершенной сессии и закрывает ее.
// Пока итога нет, возвращает false и ничего не трогает.
func (e *CombatEngine) Consume() (SessionSummary, bool) {
	if e.Session == nil || !e.Session.Result.Terminal() {
		return SessionSummary{}, false
	}
	sum := e.Summary()
	e.Session = nil
	return sum, true
}

// Abort закрывает сессию без итога. Награды не начисляются.
func (e *CombatEngine) Abort() {
	if e.Session == nil {
		return
	}
	e.Session.events.Clear()
	e.log.Info("Combat session aborted")
	e.Session = nil
}

// ComboTier - индекс последнего пройденного порога комбо, -1 ниже первого.
func ComboTier(count int) int {
	for i := len(domain.ComboThresholds) - 1; i >= 0; i-- {
		if count >= domain.ComboThresholds[i] {
			return i
		}
	}
	return -1
}

// ComboMultiplier - множитель урона по счетчику комбо
func ComboMultiplier(count int) float64 {
	if t := ComboTier(count); t >= 0 {
		return domain.ComboMultipliers[t]
	}
	return 1.0
}

var comboLabels = [...]string{"GOOD!", "GREAT!", "EXCELLENT!", "AMAZING!", "INCREDIBLE!", "LEGENDARY!"}

// ComboLabel - подпись для счетчика, пустая ниже первого порога
func ComboLabel(count int) string {
	if t := ComboTier(count); t >= 0 {
		return comboLabels[t]
	}
	return ""
}

var comboColors = [...]string{"#ffff00", "#ff9900", "#ff6600", "#ff4400", "#ff00aa", "#aa00ff"}

// ComboColor - цвет счетчика. Ниже порога GREAT! цвет как у GOOD!
func ComboColor(count int) string {
	t := ComboTier(count)
	if t < 0 {
		t = 0
	}
	return comboColors[t]
}
