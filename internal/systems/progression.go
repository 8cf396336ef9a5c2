package systems

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Акты сюжета
const (
	ActSurvival = iota
	ActJourney
	ActTest
	ActProving
)

var actNames = [...]string{"Act 1: Survival", "Act 2: The Journey", "Act 3: The Test", "Act 4: The Proving"}

// Сюжетные флаги, которые открывают акты
const (
	FlagDecidedJourney   = "decided_journey"
	FlagArrivedCoast     = "arrived_coast"
	FlagShenDeliveryDone = "shen_delivery_done"
)

var (
	ErrUnknownZone = errors.New("unknown zone")
	ErrNoRoute     = errors.New("no route to zone")
)

// StorySource - статичные данные мира (реализует content.Registry)
type StorySource interface {
	Zone(id int) (*domain.ZoneDef, bool)
	Encounters() []*domain.EncounterDef
	NPCs() []domain.NPCDef
}

// Rewards - что принес бой
type Rewards struct {
	Result domain.Result  `json:"result"`
	Zeni   int            `json:"zeni"`
	Drops  map[string]int `json:"drops,omitempty"`
	Flag   string         `json:"flag,omitempty"`
}

// ProgressionState - сериализуемая часть для сейва
type ProgressionState struct {
	Act           int                `json:"act"`
	Zone          int                `json:"zone"`
	Flags         []string           `json:"flags"`
	Relationships map[string]float64 `json:"relationships"`
	Done          []string           `json:"done"`
	Visited       []int              `json:"visited"`
}

// WorldProgressionModel - акты, флаги, встречи, отношения и перемещения.
type WorldProgressionModel struct {
	Act  int
	Zone int

	flags         map[string]bool
	relationships map[string]float64
	done          map[string]bool
	visited       map[int]bool

	stats *domain.StatsModel
	story StorySource
	rng   utils.Roller
	log   *logrus.Entry
}

func NewWorldProgression(stats *domain.StatsModel, story StorySource, rng utils.Roller) *WorldProgressionModel {
	if rng == nil {
		rng = utils.NewRoller(1)
	}
	p := &WorldProgressionModel{
		stats: stats,
		story: story,
		rng:   rng,
		log:   logger.For("progression"),
	}
	p.Reset()
	return p
}

// Reset - новая игра: первая зона, базовые отношения
func (p *WorldProgressionModel) Reset() {
	p.Act = ActSurvival
	p.Zone = 0
	p.flags = make(map[string]bool)
	p.relationships = make(map[string]float64)
	p.done = make(map[string]bool)
	p.visited = map[int]bool{0: true}
	for _, npc := range p.story.NPCs() {
		p.relationships[npc.ID] = npc.BaseRelationship
	}
}

func (p *WorldProgressionModel) ActName() string {
	if p.Act >= 0 && p.Act < len(actNames) {
		return actNames[p.Act]
	}
	return fmt.Sprintf("Act %d", p.Act+1)
}

// --- ФЛАГИ И АКТЫ ---

func (p *WorldProgressionModel) SetFlag(flag string) {
	if flag == "" || p.flags[flag] {
		return
	}
	p.flags[flag] = true
	p.log.WithField("flag", flag).Info("Story flag set")
	p.CheckActProgress()
}

func (p *WorldProgressionModel) HasFlag(flag string) bool { return p.flags[flag] }

// CheckActProgress продвигает не больше одного акта за вызов.
func (p *WorldProgressionModel) CheckActProgress() bool {
	pl := p.stats.PowerLevel
	prev := p.Act
	switch {
	case p.Act < ActProving && pl >= domain.ActPowerLevels[2] && p.flags[FlagShenDeliveryDone]:
		p.Act = ActProving
	case p.Act < ActTest && pl >= domain.ActPowerLevels[1] && p.flags[FlagArrivedCoast]:
		p.Act = ActTest
	case p.Act < ActJourney && pl >= domain.ActPowerLevels[0] && p.flags[FlagDecidedJourney]:
		p.Act = ActJourney
	}
	if p.Act != prev {
		p.log.WithFields(logrus.Fields{"act": p.ActName(), "power_level": pl}).Info("Act advanced")
		return true
	}
	return false
}

// --- ВСТРЕЧИ ---

func (p *WorldProgressionModel) available(enc *domain.EncounterDef) bool {
	return !p.done[enc.ID] && enc.Act <= p.Act
}

// PendingEncounters - все встречи, условия которых выполнены сейчас:
// текущая зона, уровень силы, флаги и "после встречи X".
func (p *WorldProgressionModel) PendingEncounters() []*domain.EncounterDef {
	var out []*domain.EncounterDef
	for _, enc := range p.story.Encounters() {
		if p.available(enc) && p.triggered(enc.Trigger) {
			out = append(out, enc)
		}
	}
	return out
}

// ZoneEncounters - только встречи входа в зону
func (p *WorldProgressionModel) ZoneEncounters(zoneID int) []*domain.EncounterDef {
	var out []*domain.EncounterDef
	for _, enc := range p.story.Encounters() {
		if p.available(enc) && enc.Trigger.Type == domain.TriggerZone && enc.Trigger.Zone == zoneID {
			out = append(out, enc)
		}
	}
	return out
}

func (p *WorldProgressionModel) triggered(t domain.TriggerDef) bool {
	switch t.Type {
	case domain.TriggerZone:
		return t.Zone == p.Zone
	case domain.TriggerPL:
		return p.stats.PowerLevel >= t.PowerLevel
	case domain.TriggerFlag:
		return p.flags[t.Flag]
	case domain.TriggerEvent:
		return t.After != "" && p.done[t.After]
	}
	return false
}

// Encounter ищет встречу по id
func (p *WorldProgressionModel) Encounter(id string) (*domain.EncounterDef, bool) {
	for _, enc := range p.story.Encounters() {
		if enc.ID == id {
			return enc, true
		}
	}
	return nil, false
}

// MarkDone закрывает встречу и ставит ее флаг, если он есть.
func (p *WorldProgressionModel) MarkDone(id string) {
	if p.done[id] {
		return
	}
	p.done[id] = true
	if enc, ok := p.Encounter(id); ok && enc.Flag != "" {
		p.SetFlag(enc.Flag)
	}
}

func (p *WorldProgressionModel) IsDone(id string) bool { return p.done[id] }

// --- ОТНОШЕНИЯ И МЕТРИКИ ---

func (p *WorldProgressionModel) ChangeRelationship(npcID string, delta float64) float64 {
	v := math.Max(0, math.Min(100, p.relationships[npcID]+delta))
	p.relationships[npcID] = v
	return v
}

func (p *WorldProgressionModel) Relationship(npcID string) float64 {
	return p.relationships[npcID]
}

func (p *WorldProgressionModel) RelationshipLabel(npcID string) string {
	v := p.relationships[npcID]
	switch {
	case v >= 80:
		return "Deeply Trusted"
	case v >= 60:
		return "Good Friend"
	case v >= 40:
		return "Friendly"
	case v >= 20:
		return "Acquainted"
	}
	return "Stranger"
}

func (p *WorldProgressionModel) ChangeHonor(delta float64)         { p.stats.ChangeHonor(delta) }
func (p *WorldProgressionModel) ChangeDetermination(delta float64) { p.stats.ChangeDetermination(delta) }
func (p *WorldProgressionModel) ChangeWisdom(delta float64)        { p.stats.ChangeWisdom(delta) }

// --- ЗОНЫ ---

// CurrentZone - описание текущей зоны
func (p *WorldProgressionModel) CurrentZone() (*domain.ZoneDef, bool) {
	return p.story.Zone(p.Zone)
}

// LocationBonus - множитель тренировок текущей зоны
func (p *WorldProgressionModel) LocationBonus() float64 {
	if z, ok := p.CurrentZone(); ok && z.LocationBonus > 0 {
		return z.LocationBonus
	}
	return 1
}

// Travel переходит в соседнюю зону. Возвращает встречи входа.
func (p *WorldProgressionModel) Travel(zoneID int) ([]*domain.EncounterDef, error) {
	if _, ok := p.story.Zone(zoneID); !ok {
		return nil, fmt.Errorf("travel to %d: %w", zoneID, ErrUnknownZone)
	}
	cur, ok := p.CurrentZone()
	if !ok || !slices.Contains(cur.Next, zoneID) {
		return nil, fmt.Errorf("travel %d -> %d: %w", p.Zone, zoneID, ErrNoRoute)
	}

	p.Zone = zoneID
	p.visited[zoneID] = true
	p.log.WithField("zone", zoneID).Info("Travelled")
	return p.ZoneEncounters(zoneID), nil
}

func (p *WorldProgressionModel) Visited(zoneID int) bool { return p.visited[zoneID] }

// --- НАГРАДЫ ---

// ApplyCombatResult начисляет итог боя. Прерванный бой сюда не попадает.
func (p *WorldProgressionModel) ApplyCombatResult(sum SessionSummary, enemies []*domain.EnemyDef, onWinFlag string) Rewards {
	r := Rewards{Result: sum.Result}
	switch sum.Result {
	case domain.ResultWin:
		for _, e := range enemies {
			if e == nil {
				continue
			}
			r.Zeni += e.Zeni
			for _, d := range e.Drops {
				if !utils.Chance(p.rng, d.Chance) {
					continue
				}
				if r.Drops == nil {
					r.Drops = make(map[string]int)
				}
				r.Drops[d.Item] += max(d.Amount, 1)
			}
		}
		p.stats.AddZeni(r.Zeni)
		p.stats.Counters.FightsWon++
		if onWinFlag != "" {
			r.Flag = onWinFlag
			p.SetFlag(onWinFlag)
		}
	case domain.ResultLoss:
		p.stats.Counters.FightsLost++
		p.stats.ChangeDetermination(1)
	default:
		return r
	}

	p.log.WithFields(logrus.Fields{
		"result":    sum.Result,
		"zeni":      r.Zeni,
		"drops":     len(r.Drops),
		"combo_max": sum.ComboMax,
	}).Info("Combat rewards applied")
	return r
}

// --- СОХРАНЕНИЕ ---

func (p *WorldProgressionModel) State() ProgressionState {
	st := ProgressionState{
		Act:           p.Act,
		Zone:          p.Zone,
		Flags:         sortedKeys(p.flags),
		Done:          sortedKeys(p.done),
		Relationships: make(map[string]float64, len(p.relationships)),
	}
	for k, v := range p.relationships {
		st.Relationships[k] = v
	}
	for z := range p.visited {
		st.Visited = append(st.Visited, z)
	}
	sort.Ints(st.Visited)
	return st
}

// Restore поверх Reset: отношения из сейва перекрывают базовые.
func (p *WorldProgressionModel) Restore(st ProgressionState) {
	p.Reset()
	p.Act = max(ActSurvival, min(ActProving, st.Act))
	p.Zone = st.Zone
	for _, f := range st.Flags {
		p.flags[f] = true
	}
	for _, id := range st.Done {
		p.done[id] = true
	}
	for k, v := range st.Relationships {
		p.relationships[k] = math.Max(0, math.Min(100, v))
	}
	for _, z := range st.Visited {
		p.visited[z] = true
	}
	p.visited[p.Zone] = true
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
