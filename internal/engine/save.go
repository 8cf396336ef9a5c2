package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"warrior-server/internal/domain"
	"warrior-server/internal/systems"

	"github.com/sirupsen/logrus"
)

// SaveData - плоский снимок игры, один JSON-блоб на слот
type SaveData struct {
	Stats       *domain.StatsModel       `json:"stats"`
	Hunger      float64                  `json:"hunger"`
	Weather     systems.WeatherState     `json:"weather"`
	Progression systems.ProgressionState `json:"progression"`
	Inventory   map[string]int           `json:"inventory"`
	Flow        bool                     `json:"flow"`
	SavedAt     time.Time                `json:"savedAt"`
}

func (g *Game) snapshotSave() SaveData {
	stats := *g.Stats
	return SaveData{
		Stats:       &stats,
		Hunger:      g.Hunger.Value,
		Weather:     g.Weather.State(),
		Progression: g.World.State(),
		Inventory:   maps.Clone(g.Inventory),
		Flow:        g.Training.Flow(),
		SavedAt:     time.Now().UTC(),
	}
}

// SaveGame пишет снимок в слот. Пустой слот - слот из конфига.
// В бою и на тренировке сохраняться нельзя.
func (g *Game) SaveGame(ctx context.Context, slot string) error {
	if g.store == nil {
		return ErrNoStore
	}
	if g.fight != nil {
		return ErrCombatActive
	}
	if g.Training.Active() {
		return fmt.Errorf("%w: training", ErrWrongScreen)
	}
	if slot == "" {
		slot = g.cfg.SaveSlot
	}

	data, err := json.Marshal(g.snapshotSave())
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}
	if err := g.store.Save(ctx, slot, data); err != nil {
		return err
	}
	g.addLog(LogInfo, "Game saved")
	return nil
}

// LoadGame читает слот, прерывает текущую сцену и ставит игрока в overworld.
func (g *Game) LoadGame(ctx context.Context, slot string) error {
	if g.store == nil {
		return ErrNoStore
	}
	if slot == "" {
		slot = g.cfg.SaveSlot
	}
	blob, err := g.store.Load(ctx, slot)
	if err != nil {
		return err
	}
	var data SaveData
	if err := json.Unmarshal(blob, &data); err != nil {
		return fmt.Errorf("decode save %s: %w", slot, err)
	}

	g.teardown()
	g.restore(data)
	g.enterOverworld()

	g.addLog(LogInfo, "Game loaded")
	g.log.WithFields(logrus.Fields{
		"slot":        slot,
		"power_level": g.Stats.PowerLevel,
		"zone":        g.World.Zone,
	}).Info("Save restored")
	return nil
}

// teardown закрывает все сцены без наград
func (g *Game) teardown() {
	if g.fight != nil {
		g.Combat.Abort()
		g.fight = nil
	}
	g.Training.Cancel()
	g.trainingEnc = ""
	g.dialogue = nil
	g.notice = 0
	clear(g.deferred)
}

func (g *Game) restore(d SaveData) {
	if d.Stats != nil {
		*g.Stats = *d.Stats
		g.Stats.EnsureMaps()
		g.Stats.Recalculate()
	}
	g.Hunger.SetValue(d.Hunger)
	g.Weather.Restore(d.Weather)
	g.World.Restore(d.Progression)
	g.Inventory = make(map[string]int, len(d.Inventory))
	for id, n := range d.Inventory {
		g.AddItem(id, n)
	}
	g.Training.SetFlow(d.Flow)
}
