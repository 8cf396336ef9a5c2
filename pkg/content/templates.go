package content

import (
	"math"

	"warrior-server/internal/domain"
)

// EnemyTemplate - описание врага с уже найденными дескрипторами атак.
// Шаблон общий для всех боев, поэтому Spawn не трогает его, а AdjustToPL отдает копию.
type EnemyTemplate struct {
	Def     *domain.EnemyDef
	Attacks []*domain.AttackDescriptor
}

// Count - сколько бойцов выходит на арену по одному шаблону
func (t *EnemyTemplate) Count() int {
	if t.Def.Pack {
		return max(t.Def.GroupSize, 1)
	}
	return 1
}

// AdjustToPL подгоняет врага под игрока: уровень силы становится 1.5x от игрока,
// HP масштабируется в той же пропорции. Без флага adjust_to_pl шаблон возвращается как есть.
func (t *EnemyTemplate) AdjustToPL(playerPL int) *EnemyTemplate {
	if !t.Def.AdjustToPL || t.Def.PowerLevel <= 0 || playerPL <= 0 {
		return t
	}
	ratio := float64(playerPL) * domain.AdjustPLRatio / float64(t.Def.PowerLevel)
	def := *t.Def
	def.HP = math.Round(t.Def.HP * ratio)
	def.PowerLevel = int(math.Round(float64(t.Def.PowerLevel) * ratio))
	return &EnemyTemplate{Def: &def, Attacks: t.Attacks}
}

// Spawn создает бойца из шаблона в заданной точке. Контроллер подключает вызывающий.
func (t *EnemyTemplate) Spawn(index uint32, pos domain.Vec2) *domain.Combatant {
	d := t.Def
	c := domain.NewCombatant(domain.KindEnemy, index, d.Name)
	c.TemplateID = d.ID
	c.Pos = pos
	c.HP, c.MaxHP = d.HP, d.HP
	c.Stamina, c.MaxStamina = domain.EnemyStamina, domain.EnemyStamina
	c.PowerLevel = d.PowerLevel
	c.Technique = d.Technique
	c.Speed = d.Speed
	return c
}

// SpawnGroup выводит всю группу шаблона: стая встает в ряд через 80 единиц.
// Индексы бойцов идут подряд, начиная с first.
func (t *EnemyTemplate) SpawnGroup(first uint32, x float64) []*domain.Combatant {
	n := t.Count()
	out := make([]*domain.Combatant, 0, n)
	for i := 0; i < n; i++ {
		pos := domain.Vec2{X: x + float64(i)*domain.PackSpacing, Y: domain.GroundY}
		out = append(out, t.Spawn(first+uint32(i), pos))
	}
	return out
}
