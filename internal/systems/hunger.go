package systems

import (
	"math"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// HungerMode задает скорость расхода сытости
type HungerMode uint8

const (
	HungerIdle HungerMode = iota
	HungerTraining
	HungerCombat
)

func (m HungerMode) String() string {
	switch m {
	case HungerTraining:
		return "training"
	case HungerCombat:
		return "combat"
	}
	return "idle"
}

func (m HungerMode) drain() float64 {
	switch m {
	case HungerTraining:
		return domain.HungerDrainTrain
	case HungerCombat:
		return domain.HungerDrainCombat
	}
	return domain.HungerDrainIdle
}

// hungerTier - ступень эффекта. Эффект переставляется только при смене ступени.
type hungerTier int8

const (
	tierUnset hungerTier = iota - 1
	tierNeutral
	tierWellFed
	tierHungry
	tierStarving
)

func tierFor(v float64) hungerTier {
	switch {
	case v >= domain.HungerWellFed:
		return tierWellFed
	case v < domain.HungerStarving:
		return tierStarving
	case v < domain.HungerHungry:
		return tierHungry
	}
	return tierNeutral
}

// EatResult - что случилось после еды
type EatResult struct {
	OK         bool     `json:"ok"`
	Reason     string   `json:"reason,omitempty"`
	HungerGain float64  `json:"hungerGain"`
	Healed     float64  `json:"healed"`
	Messages   []string `json:"messages,omitempty"`
}

// HungerModel - сытость игрока и ее влияние на характеристики.
type HungerModel struct {
	Value float64
	Mode  HungerMode
	// Starve получает урон от голода. Без него урон идет прямо в модель.
	// Во время боя движок направляет его в бойца игрока.
	Starve func(amount float64)

	stats *domain.StatsModel
	rng   utils.Roller
	tier  hungerTier
	log   *logrus.Entry
}

func NewHungerModel(stats *domain.StatsModel, rng utils.Roller) *HungerModel {
	if rng == nil {
		rng = utils.NewRoller(1)
	}
	return &HungerModel{
		Value: domain.HungerStart,
		stats: stats,
		rng:   rng,
		tier:  tierUnset,
		log:   logger.For("hunger"),
	}
}

func (h *HungerModel) SetMode(m HungerMode) { h.Mode = m }

// SetValue выставляет сытость напрямую (загрузка сейва, отладка).
func (h *HungerModel) SetValue(v float64) {
	h.Value = math.Max(0, math.Min(domain.HungerMax, v))
	h.tier = tierUnset
	h.applyEffects()
}

// Update расходует сытость и при голодании отнимает HP.
func (h *HungerModel) Update(dt float64) {
	if dt <= 0 {
		return
	}
	h.Value = math.Max(0, h.Value-h.Mode.drain()*dt)
	h.applyEffects()

	if h.Value <= domain.HungerCritical {
		if h.Starve != nil {
			h.Starve(domain.StarvationDamage * dt)
		} else {
			h.stats.TakeDamage(domain.StarvationDamage * dt)
		}
	}
}

func (h *HungerModel) applyEffects() {
	tier := tierFor(h.Value)
	if tier == h.tier {
		return
	}
	h.tier = tier
	h.stats.RemoveEffectsBySource(domain.SourceHunger)

	switch tier {
	case tierWellFed:
		var bonus domain.StatBlock
		bonus[domain.Strength] = domain.WellFedStatBonus
		bonus[domain.Speed] = domain.WellFedStatBonus
		bonus[domain.Endurance] = domain.WellFedStatBonus
		h.stats.AddEffect(domain.TimedEffect{
			Type:       "well_fed",
			Source:     domain.SourceHunger,
			Permanent:  true,
			Stats:      bonus,
			TrainBonus: domain.WellFedTrainBonus,
		})
	case tierHungry, tierStarving:
		sev := domain.HungrySeverity
		if tier == tierStarving {
			sev = domain.StarvingSeverity
		}
		var penalty domain.StatBlock
		penalty[domain.Strength] = -sev * domain.HungryPenaltyScale
		penalty[domain.Speed] = -sev * domain.HungryPenaltyScale
		penalty[domain.Endurance] = -sev * domain.HungryPenaltyScale
		h.stats.AddEffect(domain.TimedEffect{
			Type:      "hungry",
			Source:    domain.SourceHunger,
			Permanent: true,
			Stats:     penalty,
		})
	}

	h.log.WithFields(logrus.Fields{"hunger": math.Round(h.Value), "label": h.Label()}).Debug("Hunger tier changed")
}

func (h *HungerModel) CanTrain() bool { return h.Value >= domain.HungerStarving }
func (h *HungerModel) CanFight() bool { return h.Value > domain.HungerCritical }

func (h *HungerModel) Label() string {
	switch {
	case h.Value >= domain.HungerWellFed:
		return "Well Fed"
	case h.Value >= domain.HungerNormal:
		return "Normal"
	case h.Value >= domain.HungerHungry:
		return "Hungry"
	case h.Value >= domain.HungerStarving:
		return "Starving"
	}
	return "Critical"
}

func (h *HungerModel) Color() string {
	switch {
	case h.Value >= domain.HungerWellFed:
		return "#2ecc71"
	case h.Value >= domain.HungerNormal:
		return "#f4d03f"
	case h.Value >= domain.HungerHungry:
		return "#e67e22"
	case h.Value >= domain.HungerStarving:
		return "#e74c3c"
	}
	return "#8e1515"
}

// Eat применяет эффект еды. Несъедобное отклоняется без изменений.
func (h *HungerModel) Eat(item *domain.ItemDef) EatResult {
	if !item.Consumable() {
		return EatResult{Reason: "Not edible"}
	}
	f := item.Food
	s := h.stats
	res := EatResult{OK: true}

	if f.Hunger > 0 {
		prev := h.Value
		h.Value = math.Min(domain.HungerMax, h.Value+f.Hunger)
		res.HungerGain = h.Value - prev
		h.applyEffects()
	}
	if f.HP > 0 {
		res.Healed = s.Heal(f.HP)
	}
	if f.Stamina > 0 {
		s.RestoreStamina(f.Stamina)
	}
	if f.Ki > 0 {
		s.RestoreKi(f.Ki)
	}
	if f.RemoveInjuries && len(s.Injuries) > 0 {
		s.ClearInjuries()
		res.Messages = append(res.Messages, "All injuries healed!")
	}
	if f.CurePoison && s.RemoveEffect("poison") {
		res.Messages = append(res.Messages, "Poison cured!")
	}
	if f.InjuryTimerReduce > 0 {
		s.ShortenInjuries(f.InjuryTimerReduce)
	}

	if f.Duration > 0 {
		if f.StatBonus != (domain.StatBlock{}) {
			s.AddEffect(domain.TimedEffect{Type: "food_bonus", Source: domain.SourceFood, Remaining: f.Duration, Stats: f.StatBonus})
		}
		if f.TrainBonus > 0 {
			s.AddEffect(domain.TimedEffect{Type: "train_food", Source: domain.SourceFood, Remaining: f.Duration, TrainBonus: f.TrainBonus * 100})
		}
	}
	if f.RegenDuration > 0 {
		if f.KiRegen > 0 {
			s.AddEffect(domain.TimedEffect{Type: "ki_food", Source: domain.SourceFood, Remaining: f.RegenDuration, KiRegen: f.KiRegen})
		}
		if f.HPRegen > 0 {
			s.AddEffect(domain.TimedEffect{Type: "hp_food", Source: domain.SourceFood, Remaining: f.RegenDuration, HPRegen: f.HPRegen})
		}
	}

	if utils.Chance(h.rng, f.SickChance) {
		var penalty domain.StatBlock
		penalty[domain.Strength] = -domain.SickPenalty
		penalty[domain.Speed] = -domain.SickPenalty
		penalty[domain.Endurance] = -domain.SickPenalty
		s.AddEffect(domain.TimedEffect{Type: "sick", Source: domain.SourceFood, Remaining: domain.SickDuration, Stats: penalty})
		res.Messages = append(res.Messages, "You feel sick...")
	}

	// Мудрый персонаж отличает ядовитое
	if f.PoisonChance > 0 {
		safe := item.WisdomSafeThreshold
		if safe <= 0 {
			safe = math.Inf(1)
		}
		if s.Wisdom < safe && utils.Chance(h.rng, f.PoisonChance) {
			s.AddEffect(domain.TimedEffect{Type: "poison", Source: domain.SourceFood, Remaining: domain.PoisonDuration, TickDamage: domain.PoisonTick})
			res.Messages = append(res.Messages, "Poisonous mushroom!")
		}
	}

	h.log.WithFields(logrus.Fields{
		"item":   item.ID,
		"hunger": math.Round(h.Value),
		"healed": res.Healed,
	}).Info("Item eaten")
	return res
}
