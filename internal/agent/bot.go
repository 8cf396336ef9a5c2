package agent

import (
	"math"

	"warrior-server/internal/domain"
	"warrior-server/internal/systems"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Пороги решений бота
const (
	lowHPFraction   = 0.25
	heavyStamina    = 60.0
	heavyChance     = 0.25
	kiBlastChance   = 0.02
	beamChargePolls = 40 // ~0.66 с при 60 кадрах
)

// Bot - "игрок-компьютер" для безголового режима и тестов.
// Реализует systems.PlayerInput: смотрит на арену и отдает команду на кадр,
// как это делал бы человек с геймпадом.
//
// Приоритеты: уйти кувырком при низком HP, закрыться от атакующего врага,
// зарядить луч издалека, бить в упор, иначе идти к цели.
type Bot struct {
	// Beam - персонаж знает технику луча. Выставляет движок перед боем.
	Beam bool

	rng      utils.Roller
	charging int
	light    bool
	log      *logrus.Entry
}

func NewBot(rng utils.Roller) *Bot {
	if rng == nil {
		rng = utils.NewRoller(1)
	}
	return &Bot{rng: rng, log: logger.For("agent")}
}

// Reset сбрасывает заряд между боями
func (b *Bot) Reset() {
	b.charging = 0
	b.light = false
}

// Prepare настраивает бота под персонажа перед боем
func (b *Bot) Prepare(stats *domain.StatsModel) {
	b.Beam = stats.HasTechnique(domain.TechniqueKiWave)
	b.Reset()
}

func (b *Bot) Poll(self *domain.Combatant, opponents []*domain.Combatant) systems.PlayerCommand {
	target := nearest(self, opponents)
	if target == nil {
		b.charging = 0
		return systems.PlayerCommand{}
	}

	dist := self.DistanceTo(target)
	dir := 1.0
	if target.Pos.X < self.Pos.X {
		dir = -1
	}

	// Заряд луча держим до конца, иначе он пропадет впустую
	if b.charging > 0 {
		if b.charging >= beamChargePolls {
			b.charging = 0
			b.log.WithField("target", target.Name).Debug("Bot releases beam")
			return systems.PlayerCommand{}
		}
		b.charging++
		return systems.PlayerCommand{ChargeKi: true}
	}

	threatened := target.Attacking && dist < domain.DisengageRange
	switch {
	case threatened && self.HP < self.MaxHP*lowHPFraction && self.Stamina >= domain.DodgeCost:
		// Кувырок уходит по направлению взгляда, поэтому разворачиваемся от цели
		return systems.PlayerCommand{MoveX: -dir, Dodge: true}

	case threatened && self.Stamina > domain.BlockMinStamina:
		return systems.PlayerCommand{Block: true}

	case dist > domain.DisengageRange && b.Beam && self.Ki >= self.MaxKi*0.5:
		b.charging = 1
		return systems.PlayerCommand{MoveX: dir * 0.2, ChargeKi: true}

	case dist > domain.DisengageRange && self.Ki >= domain.KiBlastCost && utils.Chance(b.rng, kiBlastChance):
		return systems.PlayerCommand{MoveX: dir * 0.2, KiBlast: true}

	case dist <= domain.MeleeRange:
		cmd := systems.PlayerCommand{MoveX: dir * 0.01}
		switch {
		case self.Stamina > heavyStamina && utils.Chance(b.rng, heavyChance):
			cmd.Heavy = true
		case b.light:
			cmd.Light = true
		default:
			cmd.Medium = true
		}
		b.light = !b.light
		return cmd
	}
	return systems.PlayerCommand{MoveX: dir}
}

func nearest(self *domain.Combatant, cs []*domain.Combatant) *domain.Combatant {
	var best *domain.Combatant
	bestDist := math.Inf(1)
	for _, c := range cs {
		if c.IsDead() {
			continue
		}
		if d := self.DistanceTo(c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
