package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"warrior-server/internal/agent"
	"warrior-server/internal/domain"
	"warrior-server/internal/systems"
	"warrior-server/pkg/api"
	"warrior-server/pkg/content"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrCombatActive     = errors.New("combat in progress")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrWrongScreen      = errors.New("not available on this screen")
	ErrTooHungry        = errors.New("too hungry to fight")
	ErrNoItem           = errors.New("item not in inventory")
	ErrNoEnemies        = errors.New("no enemies to fight here")
	ErrUnknownEncounter = errors.New("unknown encounter")
	ErrNoStore          = errors.New("saving is disabled")
)

// Тайминги оболочки, в секундах
const (
	CombatIntroTime  = 2.0
	WinEndDelay      = 3.5
	LossEndDelay     = 3.0
	PlayerHitStop    = 0.05
	EnemyHitStop     = 0.04
	DialogueLineTime = 1.5
	NoticeTime       = 2.0

	LossRecoverFraction = 0.10
	MaxStack            = 99
	LogBufferSize       = 64
)

// Типы записей игрового лога
const (
	LogInfo     = "INFO"
	LogCombat   = "COMBAT"
	LogTraining = "TRAINING"
	LogStory    = "STORY"
	LogError    = "ERROR"
)

// SaveStore - хранилище блобов сохранений (реализует storage.SaveStore)
type SaveStore interface {
	Save(ctx context.Context, slot string, data []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
}

// preparer - ввод, которому нужно знать персонажа перед боем (бот)
type preparer interface {
	Prepare(stats *domain.StatsModel)
}

// Game - оболочка одной игры: модели, стек экранов и сцены.
// Все методы вызываются из одной горутины игрового цикла.
type Game struct {
	Stats     *domain.StatsModel
	Hunger    *systems.HungerModel
	Weather   *systems.WeatherModel
	World     *systems.WorldProgressionModel
	Training  *systems.TrainingEngine
	Combat    *systems.CombatEngine
	Effects   *systems.Recorder
	Inventory map[string]int

	// Input управляет игроком в бою. По умолчанию бот.
	Input systems.PlayerInput

	LastTraining *systems.TrainingResult
	LastCombat   *systems.SessionSummary
	LastRewards  *systems.Rewards
	LastEat      *systems.EatResult

	cfg     Config
	content *content.Registry
	store   SaveStore
	rng     utils.Roller
	sink    systems.EffectsSink

	screens  screenStack
	tick     uint64
	dialogue *dialogueScene
	fight    *combatScene
	notice   float64

	// trainingEnc - встреча, запустившая текущую тренировку
	trainingEnc string
	// deferred - встречи, отложенные до отдыха (проигрыш или отказ)
	deferred map[string]bool

	logs   []api.LogEntry
	logSeq uint64
	log    *logrus.Entry
}

// NewGame собирает новую игру. store может быть nil, тогда сохранения выключены.
func NewGame(cfg Config, reg *content.Registry, store SaveStore) *Game {
	rng := utils.NewRoller(cfg.Seed)
	stats := domain.NewStatsModel()
	hunger := systems.NewHungerModel(stats, rng)

	g := &Game{
		Stats:     stats,
		Hunger:    hunger,
		Weather:   systems.NewWeatherModel(rng),
		World:     systems.NewWorldProgression(stats, reg, rng),
		Training:  systems.NewTrainingEngine(stats, hunger, reg, reg, rng),
		Effects:   systems.NewRecorder(128),
		Inventory: make(map[string]int),
		Input:     agent.NewBot(rng),
		cfg:       cfg,
		content:   reg,
		store:     store,
		rng:       rng,
		screens:   screenStack{ScreenTitle},
		deferred:  make(map[string]bool),
		log:       logger.For("game"),
	}
	g.sink = systems.MultiSink{systems.NewLogSink(), g.Effects, &sceneSink{g: g}}
	g.Combat = systems.NewCombatEngine(g.sink, rng)
	hunger.Starve = g.starve

	g.log.WithFields(logrus.Fields{
		"seed":       cfg.Seed,
		"difficulty": cfg.Difficulty,
		"player":     cfg.PlayerName,
	}).Info("New game created")
	return g
}

// starve: в бою HP живет в бойце, модель получит его при записи назад.
// Кадры неуязвимости от голода не спасают.
func (g *Game) starve(amount float64) {
	if g.fight != nil && g.Combat.Active() && g.Combat.Session.Player != nil {
		p := g.Combat.Session.Player
		p.HP = math.Max(0, p.HP-amount)
		return
	}
	g.Stats.TakeDamage(amount)
}

func (g *Game) Screen() Screen { return g.screens.top() }
func (g *Game) Tick() uint64    { return g.tick }

// Update - один кадр. dt зажимается сверху, чтобы после паузы бой не улетал вперед.
func (g *Game) Update(dt float64) {
	if dt <= 0 {
		return
	}
	dt = math.Min(dt, g.cfg.MaxDelta)
	g.tick++

	switch g.screens.top() {
	case ScreenTitle:
		if g.cfg.AutoAdvance {
			g.enterOverworld()
		}
	case ScreenDialogue:
		g.updateDialogue(dt)
	case ScreenOverworld:
		g.updateOverworld(dt)
	case ScreenTraining:
		g.updateTraining(dt)
	case ScreenCombat:
		g.updateCombat(dt)
	case ScreenInventory:
		g.notice -= dt
		if g.notice <= 0 {
			g.screens.pop()
		}
	}
}

func (g *Game) enterOverworld() {
	g.screens.reset(ScreenOverworld)
	g.Hunger.SetMode(systems.HungerIdle)
	g.log.WithField("zone", g.World.Zone).Info("Entered overworld")
}

// tickWorld - время, голод и таймеры эффектов вне боя
func (g *Game) tickWorld(dt float64) {
	g.Hunger.Update(dt)
	g.Weather.Update(dt)
	g.Stats.UpdateEffects(dt)
	g.Stats.UpdateInjuries(dt)
}

func (g *Game) updateOverworld(dt float64) {
	g.tickWorld(dt)
	if g.World.CheckActProgress() {
		g.addLog(LogStory, "%s begins", g.World.ActName())
	}

	for _, enc := range g.World.PendingEncounters() {
		if g.deferred[enc.ID] {
			continue
		}
		g.beginEncounter(enc)
		return
	}
}

func (g *Game) updateTraining(dt float64) {
	res := g.Training.Update(dt)
	g.tickWorld(dt)
	if res == nil {
		return
	}

	g.LastTraining = res
	g.addLog(LogTraining, "%s complete (quality %.0f)", res.Name, res.Quality)
	for _, m := range res.Messages {
		g.addLog(LogTraining, "%s", m)
	}
	g.screens.pop()
	if enc := g.trainingEnc; enc != "" {
		g.trainingEnc = ""
		g.World.MarkDone(enc)
	}
}

// --- ВСТРЕЧИ ---

// StartEncounter запускает встречу по id. Пустой id - первая ожидающая.
func (g *Game) StartEncounter(id string) error {
	if err := g.requireOverworld(); err != nil {
		return err
	}
	if id == "" {
		pending := g.World.PendingEncounters()
		if len(pending) == 0 {
			return fmt.Errorf("%w: nothing pending", ErrUnknownEncounter)
		}
		g.beginEncounter(pending[0])
		return nil
	}

	enc, ok := g.World.Encounter(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEncounter, id)
	}
	if g.World.IsDone(id) {
		return fmt.Errorf("encounter %s already done", id)
	}
	delete(g.deferred, id)
	g.beginEncounter(enc)
	return nil
}

func (g *Game) beginEncounter(enc *domain.EncounterDef) {
	g.log.WithField("encounter", enc.ID).Info("Encounter started")
	var lines []domain.DialogueLine
	if enc.Dialogue != "" {
		lines, _ = g.content.Dialogue(enc.Dialogue)
	}
	g.pushDialogue(enc.Dialogue, lines, func() { g.proceedEncounter(enc) })
}

// proceedEncounter - то, что идет после реплик: бой, тренировка или просто отметка.
func (g *Game) proceedEncounter(enc *domain.EncounterDef) {
	switch {
	case enc.Combat != nil:
		if err := g.startCombat(enc.Combat.Enemies, enc.Combat.WinCondition, enc); err != nil {
			g.deferred[enc.ID] = true
			g.addLog(LogError, "%s: %v", enc.ID, err)
			g.log.WithError(err).WithField("encounter", enc.ID).Warn("Encounter combat deferred")
		}
	case enc.Training != "":
		if out := g.startTraining(enc.Training, enc.ID); !out.OK {
			g.deferred[enc.ID] = true
			g.addLog(LogTraining, "%s", out.Reason)
		}
	default:
		g.World.MarkDone(enc.ID)
	}
}

// --- ДИАЛОГИ ---

type dialogueScene struct {
	id    string
	lines []domain.DialogueLine
	pos   int
	timer float64
	then  func()
}

func (g *Game) pushDialogue(id string, lines []domain.DialogueLine, then func()) {
	if len(lines) == 0 {
		if then != nil {
			then()
		}
		return
	}
	g.dialogue = &dialogueScene{id: id, lines: lines, then: then}
	g.screens.push(ScreenDialogue)
	for _, l := range lines {
		if l.Speaker == "" {
			g.addLog(LogStory, "%s", l.Text)
			continue
		}
		g.addLog(LogStory, "%s: %s", l.Speaker, l.Text)
	}
}

func (g *Game) updateDialogue(dt float64) {
	if g.dialogue == nil || !g.cfg.AutoAdvance {
		return
	}
	g.dialogue.timer += dt
	if g.dialogue.timer >= DialogueLineTime {
		g.advanceDialogue()
	}
}

func (g *Game) advanceDialogue() {
	d := g.dialogue
	if d == nil {
		return
	}
	d.pos++
	d.timer = 0
	if d.pos < len(d.lines) {
		return
	}
	g.dialogue = nil
	g.screens.pop()
	if d.then != nil {
		d.then()
	}
}

// Advance - "дальше": титульный экран, реплика диалога, закрыть инвентарь.
func (g *Game) Advance() error {
	switch g.screens.top() {
	case ScreenTitle:
		g.enterOverworld()
	case ScreenDialogue:
		g.advanceDialogue()
	case ScreenInventory:
		g.notice = 0
		g.screens.pop()
	default:
		return fmt.Errorf("%w: %s", ErrWrongScreen, g.screens.top())
	}
	return nil
}

// --- ТРЕНИРОВКИ ---

// StartTraining запускает упражнение из overworld. Отказ возвращается значением.
func (g *Game) StartTraining(id string) (systems.TrainingOutcome, error) {
	if err := g.requireOverworld(); err != nil {
		return systems.TrainingOutcome{}, err
	}
	if ex, ok := g.content.Exercise(id); ok && ex.Act > g.World.Act {
		return systems.TrainingOutcome{Reason: "Not available yet"}, nil
	}
	return g.startTraining(id, ""), nil
}

func (g *Game) startTraining(id, encounter string) systems.TrainingOutcome {
	out := g.Training.Start(id, g.Weather.Conditions(g.World.LocationBonus()))
	if out.OK {
		g.trainingEnc = encounter
		g.screens.push(ScreenTraining)
	}
	return out
}

// SetQuality - оценка мини-игры для текущего упражнения
func (g *Game) SetQuality(q float64) error {
	if !g.Training.Active() {
		return fmt.Errorf("%w: not training", ErrWrongScreen)
	}
	g.Training.SetQuality(q)
	return nil
}

// --- ОТДЫХ, ЕДА, ПЕРЕХОДЫ ---

// Rest: полная выносливость, четверть HP, сброс "раз до отдыха", +8 часов.
// При настроенном хранилище игра сохраняется.
func (g *Game) Rest(ctx context.Context) error {
	if err := g.requireOverworld(); err != nil {
		return err
	}
	s := g.Stats
	s.RestoreStamina(s.MaxStamina)
	healed := s.Heal(s.MaxHP * domain.RestHealFraction)
	g.Training.OnRest()
	g.Weather.AdvanceHours(domain.RestHours)
	clear(g.deferred)

	g.log.WithFields(logrus.Fields{"healed": math.Round(healed), "day": g.Weather.Day}).Info("Rested")
	if g.store != nil {
		if err := g.SaveGame(ctx, ""); err != nil {
			g.log.WithError(err).Warn("Autosave after rest failed")
		}
	}
	g.pushDialogue("rest", []domain.DialogueLine{
		{Text: "Rested. Morning has come."},
		{Text: fmt.Sprintf("Power Level: %d", s.PowerLevel)},
	}, nil)
	return nil
}

// Eat съедает предмет из инвентаря и показывает результат на экране инвентаря.
func (g *Game) Eat(itemID string) (systems.EatResult, error) {
	if g.fight != nil {
		return systems.EatResult{}, ErrCombatActive
	}
	top := g.screens.top()
	if top != ScreenOverworld && top != ScreenInventory {
		return systems.EatResult{}, fmt.Errorf("%w: %s", ErrWrongScreen, top)
	}
	if g.Inventory[itemID] <= 0 {
		return systems.EatResult{}, fmt.Errorf("%w: %s", ErrNoItem, itemID)
	}
	def, ok := g.content.Item(itemID)
	if !ok {
		return systems.EatResult{}, fmt.Errorf("%w: %s", ErrNoItem, itemID)
	}

	res := g.Hunger.Eat(def)
	if res.OK {
		g.RemoveItem(itemID, 1)
		g.addLog(LogInfo, "Ate %s", def.Name)
	} else {
		g.addLog(LogInfo, "%s", res.Reason)
	}
	for _, m := range res.Messages {
		g.addLog(LogInfo, "%s", m)
	}
	g.LastEat = &res

	if top == ScreenOverworld {
		g.screens.push(ScreenInventory)
	}
	g.notice = NoticeTime
	return res, nil
}

// Travel - переход по связи зон
func (g *Game) Travel(zone int) error {
	if err := g.requireOverworld(); err != nil {
		return err
	}
	if _, err := g.World.Travel(zone); err != nil {
		return err
	}
	if z, ok := g.World.CurrentZone(); ok {
		g.addLog(LogStory, "Arrived at %s", z.Name)
	}
	return nil
}

func (g *Game) AddItem(id string, qty int) {
	if qty <= 0 {
		return
	}
	g.Inventory[id] = min(g.Inventory[id]+qty, MaxStack)
}

func (g *Game) RemoveItem(id string, qty int) bool {
	if g.Inventory[id] < qty {
		return false
	}
	g.Inventory[id] -= qty
	if g.Inventory[id] <= 0 {
		delete(g.Inventory, id)
	}
	return true
}

// Abort - принудительный выход из боя или тренировки без наград.
func (g *Game) Abort() error {
	switch {
	case g.fight != nil:
		g.Combat.Abort()
		g.fight = nil
		g.Hunger.SetMode(systems.HungerIdle)
		g.screens.pop()
		g.addLog(LogCombat, "Fled the fight")
	case g.Training.Active():
		g.Training.Cancel()
		g.trainingEnc = ""
		g.screens.pop()
		g.addLog(LogTraining, "Training cancelled")
	default:
		return fmt.Errorf("%w: nothing to abort", ErrWrongScreen)
	}
	return nil
}

func (g *Game) requireOverworld() error {
	if g.fight != nil || g.Combat.Active() {
		return ErrCombatActive
	}
	if top := g.screens.top(); top != ScreenOverworld {
		return fmt.Errorf("%w: %s", ErrWrongScreen, top)
	}
	return nil
}

// --- ЛОГ ---

func (g *Game) addLog(kind, format string, args ...any) {
	g.logSeq++
	g.logs = append(g.logs, api.LogEntry{
		ID:        fmt.Sprintf("%d-%d", g.tick, g.logSeq),
		Text:      fmt.Sprintf(format, args...),
		Type:      kind,
		Timestamp: time.Now().UnixMilli(),
	})
	if over := len(g.logs) - LogBufferSize; over > 0 {
		g.logs = append(g.logs[:0], g.logs[over:]...)
	}
}

// DrainLogs отдает накопленные записи и очищает буфер
func (g *Game) DrainLogs() []api.LogEntry {
	out := g.logs
	g.logs = nil
	return out
}
