package systems

import (
	"math"
	"testing"

	"warrior-server/internal/domain"
	"warrior-server/pkg/utils"
)

func TestHungerDrainByMode(t *testing.T) {
	tests := []struct {
		mode HungerMode
		want float64
	}{
		{HungerIdle, domain.HungerStart - 0.3*10},
		{HungerTraining, domain.HungerStart - 0.8*10},
		{HungerCombat, domain.HungerStart - 1.2*10},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			h := NewHungerModel(domain.NewStatsModel(), utils.NewSequence(0.99))
			h.SetMode(tt.mode)
			h.Update(10)
			if math.Abs(h.Value-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, h.Value)
			}
		})
	}
}

func TestHungerEffects(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		effect   string
		strDelta float64
		label    string
		color    string
	}{
		{"Well fed", 90, "well_fed", 1, "Well Fed", "#2ecc71"},
		{"Normal", 60, "", 0, "Normal", "#f4d03f"},
		{"Peckish", 40, "", 0, "Hungry", "#e67e22"},
		{"Hungry", 20, "hungry", -0.5, "Starving", "#e74c3c"},
		{"Starving", 5, "hungry", -1.5, "Critical", "#8e1515"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := domain.NewStatsModel()
			stats.Base[domain.Strength] = 10
			stats.Recalculate()
			h := NewHungerModel(stats, nil)
			h.SetValue(tt.value)

			if tt.effect != "" && !stats.HasEffect(tt.effect) {
				t.Errorf("expected effect %q, got %+v", tt.effect, stats.Effects)
			}
			if tt.effect == "" && len(stats.Effects) != 0 {
				t.Errorf("expected no hunger effects, got %+v", stats.Effects)
			}
			got := stats.Effective(domain.Strength) - stats.Base[domain.Strength]
			if math.Abs(got-tt.strDelta) > 1e-9 {
				t.Errorf("expected strength delta %v, got %v", tt.strDelta, got)
			}
			if h.Label() != tt.label || h.Color() != tt.color {
				t.Errorf("expected %s/%s, got %s/%s", tt.label, tt.color, h.Label(), h.Color())
			}
		})
	}
}

func TestHungerEffectReplacedOnTierChange(t *testing.T) {
	stats := domain.NewStatsModel()
	h := NewHungerModel(stats, nil)
	h.SetValue(81)
	if !stats.HasEffect("well_fed") {
		t.Fatal("expected well fed")
	}
	if stats.TrainingGainBonus() != domain.WellFedTrainBonus {
		t.Errorf("well fed gives +10%% training, got %v", stats.TrainingGainBonus())
	}

	// 81 -> 79: ступень сменилась, эффект снят
	h.Update(2 / domain.HungerDrainIdle)
	if stats.HasEffect("well_fed") || len(stats.Effects) != 0 {
		t.Errorf("effects must follow the tier, got %+v", stats.Effects)
	}
}

func TestHungerCriticalDamage(t *testing.T) {
	stats := domain.NewStatsModel()
	h := NewHungerModel(stats, nil)
	h.SetValue(0)

	before := stats.HP
	h.Update(2)
	if math.Abs(before-stats.HP-2*domain.StarvationDamage) > 1e-9 {
		t.Errorf("critical hunger costs 5 HP/s, lost %v", before-stats.HP)
	}
	if h.CanFight() || h.CanTrain() {
		t.Error("cannot fight or train at zero hunger")
	}

	// с перехватчиком урон уходит ему, модель не трогается
	var routed float64
	h.Starve = func(amount float64) { routed += amount }
	before = stats.HP
	h.Update(1)
	if routed != domain.StarvationDamage || stats.HP != before {
		t.Errorf("starvation must go through the hook, routed %v, hp %v -> %v", routed, before, stats.HP)
	}
}

func TestHungerGates(t *testing.T) {
	h := NewHungerModel(domain.NewStatsModel(), nil)

	h.SetValue(10)
	if !h.CanTrain() || !h.CanFight() {
		t.Error("10 is enough to train and fight")
	}
	h.SetValue(9.9)
	if h.CanTrain() {
		t.Error("below 10 training is refused")
	}
}

func TestEatRestores(t *testing.T) {
	stats := domain.NewStatsModel()
	stats.TakeDamage(50)
	stats.DrainStamina(50)
	stats.AddInjury(domain.InjuryDef{Type: "sprain", Duration: 100})
	h := NewHungerModel(stats, utils.NewSequence(0.99))
	h.SetValue(50)

	res := h.Eat(&domain.ItemDef{
		ID: "senzu_bean",
		Food: &domain.FoodEffect{
			Hunger: 60, HP: 30, Stamina: 20, RemoveInjuries: true,
		},
	})
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
	if h.Value != domain.HungerMax || res.HungerGain != 50 {
		t.Errorf("hunger must clamp at 100, got %v (+%v)", h.Value, res.HungerGain)
	}
	if res.Healed != 30 {
		t.Errorf("expected 30 healed, got %v", res.Healed)
	}
	if len(stats.Injuries) != 0 {
		t.Error("injuries must be removed")
	}
	if !stats.HasEffect("well_fed") {
		t.Error("eating to full applies well fed immediately")
	}
}

func TestEatTimedEffects(t *testing.T) {
	stats := domain.NewStatsModel()
	h := NewHungerModel(stats, utils.NewSequence(0.99))

	var bonus domain.StatBlock
	bonus[domain.Technique] = 2
	h.Eat(&domain.ItemDef{ID: "fish", Food: &domain.FoodEffect{
		Hunger: 5, StatBonus: bonus, Duration: 60, TrainBonus: 0.1, KiRegen: 2, RegenDuration: 30,
	}})

	for _, eff := range []string{"food_bonus", "train_food", "ki_food"} {
		if !stats.HasEffect(eff) {
			t.Errorf("expected %s", eff)
		}
	}
	if stats.Effective(domain.Technique) != 2 {
		t.Errorf("expected technique bonus 2, got %v", stats.Effective(domain.Technique))
	}
}

func TestEatSicknessAndPoison(t *testing.T) {
	mushroom := &domain.ItemDef{
		ID:                  "mushroom",
		Food:                &domain.FoodEffect{Hunger: 15, PoisonChance: 0.1},
		WisdomSafeThreshold: 10,
	}

	t.Run("Foolish eater gets poisoned", func(t *testing.T) {
		stats := domain.NewStatsModel()
		h := NewHungerModel(stats, utils.NewSequence(0.05))
		h.Eat(mushroom)
		if !stats.HasEffect("poison") {
			t.Error("expected poison")
		}
	})

	t.Run("Wisdom protects", func(t *testing.T) {
		stats := domain.NewStatsModel()
		stats.ChangeWisdom(10)
		h := NewHungerModel(stats, utils.NewSequence(0.05))
		h.Eat(mushroom)
		if stats.HasEffect("poison") {
			t.Error("wisdom 10 must be safe")
		}
	})

	t.Run("Raw meat makes sick", func(t *testing.T) {
		stats := domain.NewStatsModel()
		h := NewHungerModel(stats, utils.NewSequence(0.1))
		res := h.Eat(&domain.ItemDef{ID: "raw_meat", Food: &domain.FoodEffect{Hunger: 20, SickChance: 0.4}})
		if !stats.HasEffect("sick") || len(res.Messages) != 1 {
			t.Errorf("expected sickness, got %+v", res)
		}
	})
}

func TestEatRejectsNonFood(t *testing.T) {
	h := NewHungerModel(domain.NewStatsModel(), nil)
	for _, item := range []*domain.ItemDef{nil, {ID: "rock"}} {
		if res := h.Eat(item); res.OK || h.Value != domain.HungerStart {
			t.Errorf("non-food must be rejected, got %+v", res)
		}
	}
}
