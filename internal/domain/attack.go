package domain

// StatusSpec - статус, который атака вешает на цель
type StatusSpec struct {
	Type       StatusType `json:"type"`
	Duration   float64    `json:"duration"`
	TickDamage float64    `json:"tickDamage"`
}

// AttackDescriptor - неизменяемое описание атаки.
// Урон задается долей от уровня силы атакующего.
// Во время боя дескриптор не мутируется: для фаз босса делается копия через Scaled.
type AttackDescriptor struct {
	Name           string
	DamageFraction float64
	Range          float64 // множитель к RangeUnit
	HitStun        float64
	Knockback      float64
	Launch         bool
	Unblockable    bool
	GuardDamage    float64
	Hits           int
	Status         *StatusSpec
	Type           DamageType
}

// Scaled возвращает копию с умноженным уроном.
func (a *AttackDescriptor) Scaled(mult float64) *AttackDescriptor {
	if a == nil {
		return nil
	}
	c := *a
	c.DamageFraction *= mult
	if a.Status != nil {
		s := *a.Status
		c.Status = &s
	}
	return &c
}

// EffectiveRange - дальность в единицах арены
func (a *AttackDescriptor) EffectiveRange() float64 {
	r := a.Range
	if r <= 0 {
		r = 1.0
	}
	return r * RangeUnit
}

func (a *AttackDescriptor) EffectiveHitStun() float64 {
	if a.HitStun <= 0 {
		return DefaultHitStun
	}
	return a.HitStun
}

func (a *AttackDescriptor) EffectiveGuardDamage() float64 {
	if a.GuardDamage <= 0 {
		return DefaultGuardDamage
	}
	return a.GuardDamage
}

func (a *AttackDescriptor) HitCount() int {
	if a.Hits < 1 {
		return 1
	}
	return a.Hits
}
