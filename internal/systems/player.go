package systems

import (
	"math"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// PlayerCommand - управление на один кадр.
// Block и ChargeKi удерживаются, остальное срабатывает как нажатие.
type PlayerCommand struct {
	MoveX    float64 `json:"moveX"`
	Block    bool    `json:"block"`
	ChargeKi bool    `json:"chargeKi"`
	Dodge    bool    `json:"dodge"`
	Light    bool    `json:"light"`
	Medium   bool    `json:"medium"`
	Heavy    bool    `json:"heavy"`
	KiBlast  bool    `json:"kiBlast"`
	Jump     bool    `json:"jump"`
}

// PlayerInput - источник команд: бот, скрипт теста или удаленный драйвер
type PlayerInput interface {
	Poll(self *domain.Combatant, opponents []*domain.Combatant) PlayerCommand
}

// PlayerAttacks - удары, привязанные к трем кнопкам
type PlayerAttacks struct {
	Light  *domain.AttackDescriptor
	Medium *domain.AttackDescriptor
	Heavy  *domain.AttackDescriptor
}

type attackSlot struct {
	atk      *domain.AttackDescriptor
	duration float64
	stamina  float64
}

// Действия игрока для тега State
const (
	ActionIdle   = "idle"
	ActionWalk   = "walk"
	ActionBlock  = "block"
	ActionAttack = "attack"
	ActionCharge = "powerup"
	ActionBeam   = "ki_wave"
	ActionHurt   = "hurt"
	ActionDead   = "dead"
)

// PlayerController переводит команды в намерения для движка боя.
// Ресурсы бойца в бою главные; модель характеристик догоняет их каждый кадр,
// чтобы тикать эффекты и травмы.
type PlayerController struct {
	Input PlayerInput
	Stats *domain.StatsModel

	slots     [3]attackSlot
	cooldowns [3]float64

	dodgeCD     float64
	attackTimer float64
	chargeTime  float64
	charging    bool
	prevBlock   bool
	secondWind  bool

	// Punches - сколько ударов брошено за сессию
	Punches int

	log *logrus.Entry
}

func NewPlayerController(stats *domain.StatsModel, input PlayerInput, attacks PlayerAttacks) *PlayerController {
	return &PlayerController{
		Input: input,
		Stats: stats,
		slots: [3]attackSlot{
			{atk: attacks.Light, duration: 0.30, stamina: domain.StaminaLight},
			{atk: attacks.Medium, duration: 0.50, stamina: domain.StaminaMedium},
			{atk: attacks.Heavy, duration: 0.90, stamina: domain.StaminaHeavy},
		},
		log: logger.For("player_controller"),
	}
}

// NewPlayerCombatant собирает бойца из модели характеристик.
func NewPlayerCombatant(name string, stats *domain.StatsModel) *domain.Combatant {
	c := domain.NewCombatant(domain.KindPlayer, 0, name)
	c.Pos.X = 200
	SyncCombatant(c, stats)
	c.HP, c.Stamina, c.Ki = stats.HP, stats.Stamina, stats.Ki
	return c
}

// SyncCombatant переносит максимумы и производные характеристики в бойца.
func SyncCombatant(c *domain.Combatant, s *domain.StatsModel) {
	c.MaxHP, c.MaxStamina, c.MaxKi = s.MaxHP, s.MaxStamina, s.MaxKi
	c.PowerLevel = s.PowerLevel
	c.Technique = s.Effective(domain.Technique)
	c.Speed = s.Effective(domain.Speed)
	c.Clamp()
}

// WriteBack возвращает ресурсы бойца в модель (конец боя, каждый кадр).
func WriteBack(c *domain.Combatant, s *domain.StatsModel) {
	s.HP = math.Min(c.HP, s.MaxHP)
	s.Stamina = math.Min(c.Stamina, s.MaxStamina)
	s.Ki = math.Min(c.Ki, s.MaxKi)
}

// Reset сбрасывает состояние между боями
func (p *PlayerController) Reset() {
	p.cooldowns = [3]float64{}
	p.dodgeCD, p.attackTimer, p.chargeTime = 0, 0, 0
	p.charging, p.prevBlock, p.secondWind = false, false, false
	p.Punches = 0
}

// ChargeTime - сколько держится заряд ки
func (p *PlayerController) ChargeTime() float64 { return p.chargeTime }

func (p *PlayerController) CombatUpdate(dt float64, self *domain.Combatant, opponents []*domain.Combatant) []domain.Intent {
	if p.Stats != nil {
		WriteBack(self, p.Stats)
		p.Stats.UpdateEffects(dt)
		p.Stats.UpdateInjuries(dt)
		SyncCombatant(self, p.Stats)
		self.HP, self.Stamina, self.Ki = p.Stats.HP, p.Stats.Stamina, p.Stats.Ki
	}

	if self.IsDead() {
		self.Blocking, self.Attacking = false, false
		self.State = ActionDead
		return nil
	}

	var cmd PlayerCommand
	if p.Input != nil {
		cmd = p.Input.Poll(self, opponents)
	}
	intents := p.handle(dt, self, opponents, cmd)
	p.regen(dt, self)

	if !p.secondWind && self.HP < self.MaxHP*domain.SecondWindThreshold {
		p.secondWind = true
		healed := self.Heal(self.MaxHP * domain.SecondWindHeal)
		p.log.WithField("healed", healed).Info("Second wind")
	}

	if p.Stats != nil {
		WriteBack(self, p.Stats)
	}
	return intents
}

func (p *PlayerController) handle(dt float64, self *domain.Combatant, opponents []*domain.Combatant, cmd PlayerCommand) []domain.Intent {
	p.dodgeCD = math.Max(0, p.dodgeCD-dt)

	if self.HitStun > 0 || self.HasStatus(domain.StatusStunned) || self.HasStatus(domain.StatusKnockdown) {
		self.Attacking, self.Blocking = false, false
		p.charging, p.chargeTime, p.attackTimer = false, 0, 0
		p.tickCooldowns(dt)
		p.prevBlock = cmd.Block
		self.State = ActionHurt
		return nil
	}

	if !self.Attacking && !self.Blocking {
		move := math.Max(-1, math.Min(1, cmd.MoveX))
		self.Vel.X = move * (domain.WalkSpeed + self.Speed*domain.MoveSpeedPerStat)
		if math.Abs(move) > 0.1 {
			self.Facing = 1
			if move < 0 {
				self.Facing = -1
			}
		}
	}

	self.Blocking = cmd.Block && self.Stamina > domain.BlockMinStamina
	if self.Blocking {
		self.DrainStamina(domain.BlockCost * dt)
		if !p.prevBlock {
			self.ParryWindow = domain.ParryWindow
		}
	} else {
		self.ParryWindow = 0
	}
	p.prevBlock = cmd.Block

	if cmd.Dodge && p.dodgeCD <= 0 && self.Stamina >= domain.DodgeCost {
		self.Vel.X = float64(self.Facing) * domain.DodgeSpeed
		self.Vel.Y = domain.DodgeLift
		self.OnGround = false
		self.Invulnerable = domain.DodgeInvulnerable
		p.dodgeCD = domain.DodgeCooldown
		self.DrainStamina(domain.DodgeCost)
	}

	var intents []domain.Intent
	if !self.Attacking && !self.Blocking {
		for i, pressed := range [3]bool{cmd.Light, cmd.Medium, cmd.Heavy} {
			if pressed && p.cooldowns[i] <= 0 {
				intents = p.attack(i, self, opponents)
				break
			}
		}
	}
	p.tickCooldowns(dt)

	if cmd.ChargeKi && self.MaxKi > 0 {
		p.charging = true
		p.chargeTime += dt
	} else if p.charging {
		p.charging = false
		if p.chargeTime >= domain.BeamMinCharge && p.Stats != nil && p.Stats.HasTechnique(domain.TechniqueKiWave) {
			intents = append(intents, domain.Intent{
				Kind:       domain.IntentProjectile,
				Projectile: domain.NewBeam(self, float64(self.Facing), p.chargeTime),
			})
			self.Attacking = true
			p.attackTimer = domain.BeamAttackTime
			self.State = ActionBeam
		}
		p.chargeTime = 0
	}

	if cmd.KiBlast && !self.Attacking && self.DrainKi(domain.KiBlastCost) {
		intents = append(intents, domain.Intent{
			Kind:       domain.IntentProjectile,
			Projectile: domain.NewKiBlast(self, float64(self.Facing)),
		})
	}

	if self.Attacking {
		p.attackTimer -= dt
		if p.attackTimer <= 0 {
			self.Attacking = false
		}
	}

	if cmd.Jump && self.OnGround {
		self.Vel.Y = domain.JumpForce * domain.CombatJumpScale
		self.OnGround = false
	}

	self.State = p.actionTag(self)
	return intents
}

// attack тратит выносливость и бьет всех живых в радиусе
func (p *PlayerController) attack(i int, self *domain.Combatant, opponents []*domain.Combatant) []domain.Intent {
	slot := p.slots[i]
	if slot.atk == nil || self.Stamina < slot.stamina {
		return nil
	}
	self.DrainStamina(slot.stamina)
	self.Attacking = true
	p.attackTimer = slot.duration
	p.cooldowns[i] = slot.duration + domain.AttackRecovery
	p.Punches++
	if p.Stats != nil {
		p.Stats.Counters.Punches++
	}

	var intents []domain.Intent
	for _, o := range opponents {
		if o.IsDead() {
			continue
		}
		if self.DistanceTo(o) <= slot.atk.EffectiveRange() {
			intents = append(intents, domain.Intent{Kind: domain.IntentMelee, Attack: slot.atk, Target: o})
		}
	}
	return intents
}

func (p *PlayerController) tickCooldowns(dt float64) {
	for i := range p.cooldowns {
		p.cooldowns[i] = math.Max(0, p.cooldowns[i]-dt)
	}
}

func (p *PlayerController) regen(dt float64, self *domain.Combatant) {
	var rate float64
	switch {
	case self.Blocking:
		rate = domain.StaminaRegenBlock
	case self.Attacking:
		rate = 0
	case math.Abs(self.Vel.X) > domain.MovingThreshold:
		rate = domain.StaminaRegenMove
	default:
		rate = domain.StaminaRegenIdle
	}
	self.RestoreStamina(rate * dt)

	if p.Stats != nil {
		if ki := p.Stats.Effective(domain.KiControl); ki > 0 {
			self.RegenKi(ki * domain.KiRegenPerControl * dt)
		}
	}
}

func (p *PlayerController) actionTag(self *domain.Combatant) string {
	switch {
	case self.State == ActionBeam && self.Attacking:
		return ActionBeam
	case p.charging:
		return ActionCharge
	case self.Attacking:
		return ActionAttack
	case self.Blocking:
		return ActionBlock
	case math.Abs(self.Vel.X) > domain.MovingThreshold:
		return ActionWalk
	}
	return ActionIdle
}
