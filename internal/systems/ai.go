package systems

import (
	"context"
	"errors"
	"math"
	"sort"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// События автомата врага
const (
	evEngage    = "engage"
	evDisengage = "disengage"
	evStagger   = "stagger"
	evStun      = "stun"
	evKnockdown = "knockdown"
	evEvade     = "evade"
	evRecover   = "recover"
	evDie       = "die"
)

var (
	aiLiving = []string{
		string(domain.AIApproach), string(domain.AIAttack), string(domain.AIStagger),
		string(domain.AIStunned), string(domain.AIKnockdown), string(domain.AIDodge),
	}
	aiActive = []string{
		string(domain.AIApproach), string(domain.AIAttack), string(domain.AIDodge), string(domain.AIStagger),
	}
)

func aiEvents() fsm.Events {
	return fsm.Events{
		{Name: evEngage, Src: []string{string(domain.AIApproach)}, Dst: string(domain.AIAttack)},
		{Name: evDisengage, Src: []string{string(domain.AIAttack)}, Dst: string(domain.AIApproach)},
		{Name: evStagger, Src: aiActive, Dst: string(domain.AIStagger)},
		{Name: evStun, Src: aiLiving, Dst: string(domain.AIStunned)},
		{Name: evKnockdown, Src: aiLiving, Dst: string(domain.AIKnockdown)},
		{Name: evEvade, Src: []string{string(domain.AIApproach)}, Dst: string(domain.AIDodge)},
		{Name: evRecover, Src: []string{
			string(domain.AIStagger), string(domain.AIStunned), string(domain.AIKnockdown), string(domain.AIDodge),
		}, Dst: string(domain.AIApproach)},
		{Name: evDie, Src: aiLiving, Dst: string(domain.AIDead)},
	}
}

// AIConfig - все, что нужно врагу, чтобы думать
type AIConfig struct {
	Attacks    []*domain.AttackDescriptor
	Phases     []domain.PhaseDef
	Speed      float64 // стат скорости из шаблона
	Difficulty domain.Difficulty
	Rng        utils.Roller
	Sink       EffectsSink
}

// EnemyAI - автомат одного врага. Реализует Controller и Reactor.
type EnemyAI struct {
	fsm  *fsm.FSM
	ctx  context.Context
	self *domain.Combatant

	attacks  []*domain.AttackDescriptor
	phases   []domain.PhaseDef
	phaseIdx int

	speed      float64
	speedMult  float64
	damageMult float64
	reaction   float64

	aiTimer  float64
	cooldown float64

	rng  utils.Roller
	sink EffectsSink
	log  *logrus.Entry
}

func NewEnemyAI(cfg AIConfig) *EnemyAI {
	a := &EnemyAI{
		ctx:        context.Background(),
		attacks:    cfg.Attacks,
		speed:      cfg.Speed,
		speedMult:  1,
		damageMult: 1,
		reaction:   cfg.Difficulty.ReactionDelay(),
		rng:        cfg.Rng,
		sink:       cfg.Sink,
		log:        logger.For("enemy_ai"),
	}
	if a.sink == nil {
		a.sink = NopSink{}
	}
	if a.rng == nil {
		a.rng = utils.NewRoller(1)
	}

	// Пороги по убыванию: так они и пересекаются, пока HP падает
	a.phases = append([]domain.PhaseDef(nil), cfg.Phases...)
	sort.SliceStable(a.phases, func(i, j int) bool {
		return a.phases[i].HPThreshold > a.phases[j].HPThreshold
	})

	a.fsm = fsm.NewFSM(
		string(domain.AIApproach),
		aiEvents(),
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if a.self != nil {
					a.self.State = e.Dst
				}
				a.log.WithFields(logrus.Fields{"from": e.Src, "to": e.Dst, "event": e.Event}).Trace("AI transition")
			},
		},
	)
	return a
}

// Attach подключает автомат к бойцу как контроллер и реактор.
func (a *EnemyAI) Attach(c *domain.Combatant) {
	a.self = c
	c.Controller = a
	c.Reactor = a
	c.State = a.fsm.Current()
	a.log = a.log.WithField("enemy", c.Name)
}

// State - текущее состояние автомата
func (a *EnemyAI) State() domain.AIState {
	return domain.AIState(a.fsm.Current())
}

// Phase - сколько фаз уже сработало
func (a *EnemyAI) Phase() int { return a.phaseIdx }

// Multipliers - текущие множители скорости и урона от фаз
func (a *EnemyAI) Multipliers() (speed, damage float64) {
	return a.speedMult, a.damageMult
}

func (a *EnemyAI) fire(event string) bool {
	if !a.fsm.Can(event) {
		return false
	}
	if err := a.fsm.Event(a.ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			a.log.WithError(err).WithField("event", event).Warn("AI event rejected")
		}
		return false
	}
	return true
}

func (a *EnemyAI) is(s domain.AIState) bool {
	return a.fsm.Is(string(s))
}

// CombatUpdate - один кадр решения врага
func (a *EnemyAI) CombatUpdate(dt float64, self *domain.Combatant, opponents []*domain.Combatant) []domain.Intent {
	if self.IsDead() {
		a.fire(evDie)
		self.Attacking = false
		return nil
	}
	target := firstLiving(opponents)
	if target == nil {
		self.Attacking = false
		return nil
	}

	a.cooldown = math.Max(0, a.cooldown-dt)
	a.aiTimer = math.Max(0, a.aiTimer-dt)

	toward := 1.0
	if target.Pos.X < self.Pos.X {
		toward = -1
	}
	dist := self.DistanceTo(target)

	var intents []domain.Intent
	switch a.State() {
	case domain.AIApproach:
		self.Attacking = false
		speed := (domain.WalkSpeed + a.speed*domain.SpeedPerStat) * a.speedMult * domain.ApproachSpeedScale
		self.Vel.X = toward * speed
		if dist < domain.MeleeRange {
			a.fire(evEngage)
			a.aiTimer = a.reaction
		} else if target.Attacking && utils.Chance(a.rng, domain.DodgeChance) {
			a.fire(evEvade)
			a.aiTimer = domain.DodgeDuration
		}

	case domain.AIAttack:
		if a.aiTimer <= 0 {
			self.Attacking = false
		}
		if a.aiTimer <= 0 && a.cooldown <= 0 {
			intents = a.attack(self, target, dist)
		}
		if dist > domain.DisengageRange {
			self.Attacking = false
			a.fire(evDisengage)
		}

	case domain.AIStagger:
		self.Attacking = false
		self.Vel.X *= domain.StaggerDamping
		if self.HitStun <= 0 {
			a.fire(evRecover)
		}

	case domain.AIStunned, domain.AIKnockdown:
		self.Attacking = false
		if !self.HasStatus(domain.StatusStunned) && !self.HasStatus(domain.StatusKnockdown) {
			a.fire(evRecover)
			a.cooldown = domain.StunGrace
		}

	case domain.AIDodge:
		self.Vel.X = -toward * domain.DodgePush
		if a.aiTimer <= 0 {
			a.fire(evRecover)
		}
	}

	self.Facing = int(toward)
	return intents
}

// attack выбирает удар из пула. Промах по дистанции все равно уходит в откат.
func (a *EnemyAI) attack(self, target *domain.Combatant, dist float64) []domain.Intent {
	base := utils.Pick(a.rng, a.attacks)
	if base == nil {
		return nil
	}
	atk := base.Scaled(a.damageMult)

	a.cooldown = domain.AttackCooldownBase - math.Min(a.speed*domain.AttackCooldownCut, domain.AttackCooldownMax)
	a.aiTimer = domain.PostAttackReact
	self.Attacking = true

	if dist > atk.EffectiveRange() {
		return nil
	}
	return []domain.Intent{{Kind: domain.IntentMelee, Attack: atk, Target: target}}
}

// OnDamaged проверяет пороги фаз. Один удар может пересечь несколько.
func (a *EnemyAI) OnDamaged(c *domain.Combatant, _ float64, _ domain.DamageType) {
	if c.MaxHP > 0 {
		pct := c.HP / c.MaxHP
		for a.phaseIdx < len(a.phases) && pct <= a.phases[a.phaseIdx].HPThreshold {
			a.triggerPhase(c, a.phaseIdx)
			a.phaseIdx++
		}
	}
	if c.IsDead() {
		c.Attacking = false
		a.fire(evDie)
	}
}

func (a *EnemyAI) triggerPhase(c *domain.Combatant, idx int) {
	p := a.phases[idx]
	if p.SpeedMult > 0 {
		a.speedMult = p.SpeedMult
	}
	if p.DamageMult > 0 {
		a.damageMult = p.DamageMult
	}
	a.log.WithFields(logrus.Fields{
		"phase":       idx + 1,
		"speed_mult":  a.speedMult,
		"damage_mult": a.damageMult,
	}).Info("Enemy phase change")
	a.sink.OnPhaseChange(c, idx+1, p.Message)
}

func (a *EnemyAI) OnHitStun(c *domain.Combatant, _ float64) {
	if c.IsDead() {
		return
	}
	c.Attacking = false
	a.fire(evStagger)
}

func (a *EnemyAI) OnStatus(c *domain.Combatant, status domain.StatusType, _ float64) {
	switch status {
	case domain.StatusStunned:
		c.Attacking = false
		a.fire(evStun)
	case domain.StatusKnockdown:
		c.Attacking = false
		if c.IsDead() {
			a.fire(evDie)
			return
		}
		a.fire(evKnockdown)
	}
}

func firstLiving(cs []*domain.Combatant) *domain.Combatant {
	for _, c := range cs {
		if c != nil && !c.IsDead() {
			return c
		}
	}
	return nil
}
