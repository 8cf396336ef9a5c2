package domain

import "math"

// StatusEffect - эффект на бойце. Одного типа может быть только один.
type StatusEffect struct {
	Type       StatusType `json:"type"`
	Remaining  float64    `json:"remaining"`
	TickDamage float64    `json:"tickDamage,omitempty"`
	TickTimer  float64    `json:"-"`
}

// IntentKind - что боец хочет сделать в этом кадре
type IntentKind uint8

const (
	IntentMelee IntentKind = iota
	IntentProjectile
)

// Intent возвращается контроллером и разрешается движком боя сразу же, в том же кадре.
type Intent struct {
	Kind       IntentKind
	Attack     *AttackDescriptor
	Target     *Combatant
	Projectile *Projectile
}

// Controller - покадровое поведение бойца (ввод игрока или AI врага).
type Controller interface {
	CombatUpdate(dt float64, self *Combatant, opponents []*Combatant) []Intent
}

// Reactor получает уведомления о входящих воздействиях.
// AI врага переходит по ним в stagger/stunned и проверяет фазы.
type Reactor interface {
	OnDamaged(c *Combatant, amount float64, dtype DamageType)
	OnHitStun(c *Combatant, duration float64)
	OnStatus(c *Combatant, status StatusType, duration float64)
}

// Combatant - боец на арене. Игрок и враг отличаются только Kind,
// контроллером и реактором.
type Combatant struct {
	ID         EntityID      `json:"id"`
	Kind       CombatantKind `json:"-"`
	Name       string        `json:"name"`
	TemplateID string        `json:"templateId,omitempty"`

	Pos    Vec2    `json:"pos"`
	Vel    Vec2    `json:"vel"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	HP         float64 `json:"hp"`
	MaxHP      float64 `json:"maxHp"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"maxStamina"`
	Ki         float64 `json:"ki"`
	MaxKi      float64 `json:"maxKi"`

	PowerLevel int     `json:"powerLevel"`
	Technique  float64 `json:"technique"`
	Speed      float64 `json:"speed"`

	Facing       int     `json:"facing"`
	Blocking     bool    `json:"blocking"`
	ParryWindow  float64 `json:"parryWindow"`
	HitStun      float64 `json:"hitStun"`
	Invulnerable float64 `json:"invulnerable"`
	Guard        float64 `json:"guard"`
	Attacking    bool    `json:"attacking"`
	OnGround     bool    `json:"onGround"`
	Friction     float64 `json:"-"`

	// State - тег для отображения: состояние AI у врага, действие у игрока
	State    string         `json:"state"`
	Statuses []StatusEffect `json:"statuses"`

	Controller Controller `json:"-"`
	Reactor    Reactor    `json:"-"`
}

// NewCombatant создает бойца с полными ресурсами и полной стойкой.
func NewCombatant(kind CombatantKind, index uint32, name string) *Combatant {
	c := &Combatant{
		ID:         PackEntityID(kind, index),
		Kind:       kind,
		Name:       name,
		Width:      CombatantWidth,
		Height:     PlayerHeight,
		MaxHP:      HPBase,
		HP:         HPBase,
		MaxStamina: StaminaBase,
		Stamina:    StaminaBase,
		PowerLevel: PowerLevelBase,
		Guard:      GuardMax,
		Facing:     1,
		OnGround:   true,
		Friction:   PlayerFriction,
		Pos:        Vec2{Y: GroundY},
	}
	if kind == KindEnemy {
		c.Height = EnemyHeight
		c.Facing = -1
		c.Friction = EnemyFriction
		c.State = string(AIApproach)
	}
	return c
}

func (c *Combatant) IsPlayer() bool { return c.Kind == KindPlayer }

func (c *Combatant) IsDead() bool { return c.HP <= 0 }

// TakeDamage снимает HP и возвращает реально нанесенный урон.
// Мертвых и неуязвимых (кувырок) не трогает.
func (c *Combatant) TakeDamage(amount float64, dtype DamageType) float64 {
	if c.IsDead() || c.Invulnerable > 0 || amount <= 0 {
		return 0
	}
	prev := c.HP
	c.HP = math.Max(0, c.HP-amount)
	actual := prev - c.HP
	if c.Reactor != nil {
		c.Reactor.OnDamaged(c, actual, dtype)
	}
	return actual
}

// ApplyHitStun не складывает оглушения, берется максимум.
func (c *Combatant) ApplyHitStun(duration float64) {
	if duration <= 0 {
		return
	}
	c.HitStun = math.Max(c.HitStun, duration)
	if c.Reactor != nil {
		c.Reactor.OnHitStun(c, duration)
	}
}

// ApplyStatus заменяет эффект того же типа.
func (c *Combatant) ApplyStatus(status StatusType, duration, tickDamage float64) {
	c.RemoveStatus(status)
	c.Statuses = append(c.Statuses, StatusEffect{
		Type:       status,
		Remaining:  duration,
		TickDamage: tickDamage,
	})
	if c.Reactor != nil {
		c.Reactor.OnStatus(c, status, duration)
	}
}

func (c *Combatant) RemoveStatus(status StatusType) {
	kept := c.Statuses[:0]
	for _, s := range c.Statuses {
		if s.Type != status {
			kept = append(kept, s)
		}
	}
	c.Statuses = kept
}

// Status возвращает эффект по типу или nil.
func (c *Combatant) Status(status StatusType) *StatusEffect {
	for i := range c.Statuses {
		if c.Statuses[i].Type == status {
			return &c.Statuses[i]
		}
	}
	return nil
}

func (c *Combatant) HasStatus(status StatusType) bool {
	return c.Status(status) != nil
}

// UpdateStatuses тикает эффекты. Периодический урон идет раз в целую секунду.
func (c *Combatant) UpdateStatuses(dt float64) {
	var tickDamage float64
	kept := c.Statuses[:0]
	for _, s := range c.Statuses {
		s.Remaining -= dt
		if s.TickDamage > 0 {
			s.TickTimer += dt
			for s.TickTimer >= 1 {
				s.TickTimer -= 1
				tickDamage += s.TickDamage
			}
		}
		if s.Remaining > 0 {
			kept = append(kept, s)
		}
	}
	c.Statuses = kept
	if tickDamage > 0 {
		c.TakeDamage(tickDamage, DamageStatus)
	}
}

// TickTimers уменьшает окно парирования и неуязвимость.
func (c *Combatant) TickTimers(dt float64) {
	c.ParryWindow = math.Max(0, c.ParryWindow-dt)
	c.Invulnerable = math.Max(0, c.Invulnerable-dt)
}

// DecayHitStun возвращает true, пока боец оглушен.
func (c *Combatant) DecayHitStun(dt float64) bool {
	if c.HitStun <= 0 {
		return false
	}
	c.HitStun = math.Max(0, c.HitStun-dt)
	return true
}

func (c *Combatant) Heal(amount float64) float64 {
	if amount <= 0 || c.IsDead() {
		return 0
	}
	prev := c.HP
	c.HP = math.Min(c.MaxHP, c.HP+amount)
	return c.HP - prev
}

func (c *Combatant) DrainStamina(amount float64) {
	c.Stamina = clamp(c.Stamina-amount, 0, c.MaxStamina)
}

func (c *Combatant) RestoreStamina(amount float64) {
	c.Stamina = clamp(c.Stamina+amount, 0, c.MaxStamina)
}

// DrainKi не уходит в минус: при нехватке ничего не списывает.
func (c *Combatant) DrainKi(amount float64) bool {
	if c.Ki < amount {
		return false
	}
	c.Ki = clamp(c.Ki-amount, 0, c.MaxKi)
	return true
}

func (c *Combatant) RegenKi(amount float64) {
	c.Ki = clamp(c.Ki+amount, 0, c.MaxKi)
}

// DistanceTo - горизонтальная дистанция, бой идет на одной линии
func (c *Combatant) DistanceTo(o *Combatant) float64 {
	return math.Abs(c.Pos.X - o.Pos.X)
}

// DirectionAwayFrom возвращает +1 или -1: куда отлетает c от o.
func (c *Combatant) DirectionAwayFrom(o *Combatant) float64 {
	if c.Pos.X < o.Pos.X {
		return -1
	}
	return 1
}

// Box - хитбокс: ноги стоят на Pos.Y
func (c *Combatant) Box() (x, y, w, h float64) {
	return c.Pos.X - c.Width/2, c.Pos.Y - c.Height, c.Width, c.Height
}

// Clamp возвращает все ресурсы и таймеры в допустимые границы.
func (c *Combatant) Clamp() {
	c.HP = clamp(c.HP, 0, c.MaxHP)
	c.Stamina = clamp(c.Stamina, 0, c.MaxStamina)
	c.Ki = clamp(c.Ki, 0, c.MaxKi)
	c.Guard = clamp(c.Guard, 0, GuardMax)
	c.HitStun = math.Max(0, c.HitStun)
	c.ParryWindow = math.Max(0, c.ParryWindow)
	c.Invulnerable = math.Max(0, c.Invulnerable)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Projectile - ки-снаряд или луч
type Projectile struct {
	Owner          *Combatant `json:"-"`
	Pos            Vec2       `json:"pos"`
	Vel            Vec2       `json:"vel"`
	Width          float64    `json:"width"`
	Height         float64    `json:"height"`
	DamageFraction float64    `json:"-"`
	ChargeTime     float64    `json:"chargeTime,omitempty"`
	Age            float64    `json:"age"`
	MaxAge         float64    `json:"-"`
	Gravity        bool       `json:"-"`
	Beam           bool       `json:"beam"`
	Alive          bool       `json:"alive"`
}

// NewKiBlast - маленький снаряд в направлении dir
func NewKiBlast(owner *Combatant, dir float64) *Projectile {
	return &Projectile{
		Owner:          owner,
		Pos:            Vec2{X: owner.Pos.X + dir*owner.Width/2, Y: owner.Pos.Y - owner.Height/2},
		Vel:            Vec2{X: dir * KiBlastSpeed, Y: -20},
		Width:          16,
		Height:         16,
		DamageFraction: KiBlastDamage,
		MaxAge:         KiBlastLifetime,
		Alive:          true,
	}
}

// NewBeam - широкий луч. Урон считается при попадании через ResolveKiHit
// по времени зарядки, блок он игнорирует.
func NewBeam(owner *Combatant, dir, chargeTime float64) *Projectile {
	return &Projectile{
		Owner:      owner,
		Pos:        Vec2{X: owner.Pos.X + dir*owner.Width/2, Y: owner.Pos.Y - owner.Height/2},
		Vel:        Vec2{X: dir * BeamSpeed},
		Width:      80,
		Height:     24,
		ChargeTime: chargeTime,
		MaxAge:     BeamLifetime,
		Beam:       true,
		Alive:      true,
	}
}

// KiChargeMultiplier - ступени множителя по времени зарядки
func KiChargeMultiplier(chargeTime float64) float64 {
	switch {
	case chargeTime >= 5:
		return 7.0
	case chargeTime >= 4:
		return 5.0
	case chargeTime >= 3:
		return 3.5
	case chargeTime >= 2:
		return 2.0
	}
	return 1.0
}
