package systems

import (
	"fmt"
	"math"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"
	"warrior-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// ExerciseSource - справочник упражнений (реализует content.Registry)
type ExerciseSource interface {
	Exercise(id string) (*domain.ExerciseDef, bool)
}

// InjurySource - справочник травм
type InjurySource interface {
	Injury(kind string) (domain.InjuryDef, bool)
}

// TrainingConditions - внешние множители тренировки.
// Погода задается по каждой характеристике, ноль значит "нет бонуса".
type TrainingConditions struct {
	Time     float64          `json:"time,omitempty"`
	Location float64          `json:"location,omitempty"`
	Weather  domain.StatBlock `json:"weather"`
}

// For сводит условия к множителям одной характеристики
func (c TrainingConditions) For(stat domain.Stat) domain.GainConditions {
	return domain.GainConditions{Time: c.Time, Location: c.Location, Weather: c.Weather[stat]}
}

// TrainingOutcome - ответ на попытку начать. Отказ - это значение, не ошибка.
type TrainingOutcome struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func reject(format string, args ...any) TrainingOutcome {
	return TrainingOutcome{Reason: fmt.Sprintf(format, args...)}
}

// TrainingResult - итог завершенного упражнения
type TrainingResult struct {
	ExerciseID  string           `json:"exerciseId"`
	Name        string           `json:"name"`
	Gains       domain.StatBlock `json:"gains"`   // посчитанный прирост
	Applied     domain.StatBlock `json:"applied"` // то, что легло в стат
	Quality     float64          `json:"quality"`
	Proficiency int              `json:"proficiency"`
	Injury      string           `json:"injury,omitempty"`
	Unlocked    string           `json:"unlocked,omitempty"`
	Flow        bool             `json:"flow"`
	Messages    []string         `json:"messages,omitempty"`
}

var (
	lightInjuries  = []string{"sprain", "pulled_muscle", "exhaustion"}
	severeInjuries = []string{"pulled_muscle", "fracture", "exhaustion"}
)

// TrainingEngine ведет одно упражнение за раз.
type TrainingEngine struct {
	stats     *domain.StatsModel
	hunger    *HungerModel
	exercises ExerciseSource
	injuries  InjurySource
	rng       utils.Roller

	active     *domain.ExerciseDef
	progress   float64
	quality    float64
	conditions TrainingConditions

	flow bool
	used map[string]bool

	log *logrus.Entry
}

func NewTrainingEngine(stats *domain.StatsModel, hunger *HungerModel, exercises ExerciseSource, injuries InjurySource, rng utils.Roller) *TrainingEngine {
	if rng == nil {
		rng = utils.NewRoller(1)
	}
	return &TrainingEngine{
		stats:     stats,
		hunger:    hunger,
		exercises: exercises,
		injuries:  injuries,
		rng:       rng,
		used:      make(map[string]bool),
		log:       logger.For("training"),
	}
}

func (t *TrainingEngine) Active() bool         { return t.active != nil }
func (t *TrainingEngine) Progress() float64    { return t.progress }
func (t *TrainingEngine) Quality() float64     { return t.quality }
func (t *TrainingEngine) Flow() bool           { return t.flow }
func (t *TrainingEngine) Used(id string) bool  { return t.used[id] }
func (t *TrainingEngine) SetFlow(on bool)      { t.flow = on }
func (t *TrainingEngine) SetQuality(q float64) { t.quality = math.Max(0, math.Min(100, q)) }

// Current - активное упражнение или nil
func (t *TrainingEngine) Current() *domain.ExerciseDef { return t.active }

// Start проверяет допуски и запускает упражнение.
func (t *TrainingEngine) Start(exerciseID string, cond TrainingConditions) TrainingOutcome {
	if t.active != nil {
		return reject("Already training %s", t.active.Name)
	}
	ex, ok := t.exercises.Exercise(exerciseID)
	if !ok {
		return reject("Unknown exercise")
	}

	for _, req := range ex.Requirements {
		switch req.Kind {
		case domain.RequireProficiency:
			if float64(t.stats.ProficiencyLevel(req.Exercise)) < req.Min {
				return reject("Need proficiency level %v in %s", req.Min, req.Exercise)
			}
		case domain.RequirePowerLevel:
			if float64(t.stats.PowerLevel) < req.Min {
				return reject("Need Power Level %v", req.Min)
			}
		case domain.RequireStat:
			if t.stats.Base[req.Stat] < req.Min {
				return reject("Need %s %v", req.Stat, req.Min)
			}
		}
	}

	if ex.OncePerRest && t.used[ex.ID] {
		return reject("Already used this training today, rest first")
	}
	if ex.StaminaCost > 0 && t.stats.Stamina < ex.StaminaCost*domain.MinStaminaFraction {
		return reject("Too exhausted to train!")
	}
	if t.hunger != nil && !t.hunger.CanTrain() {
		return reject("Too hungry to train, eat something first")
	}

	t.active = ex
	t.progress = 0
	t.quality = domain.TrainingQualityBase + t.rng.Float64()*domain.TrainingQualitySpread
	t.conditions = cond
	if t.hunger != nil {
		t.hunger.SetMode(HungerTraining)
	}

	t.log.WithFields(logrus.Fields{"exercise": ex.ID, "quality": math.Round(t.quality)}).Info("Training started")
	return TrainingOutcome{OK: true}
}

// Cancel прерывает упражнение без наград
func (t *TrainingEngine) Cancel() {
	if t.active == nil {
		return
	}
	t.log.WithField("exercise", t.active.ID).Info("Training cancelled")
	t.active = nil
	t.progress = 0
	if t.hunger != nil {
		t.hunger.SetMode(HungerIdle)
	}
}

// OnRest снимает ограничения "раз до отдыха"
func (t *TrainingEngine) OnRest() {
	clear(t.used)
}

// Update двигает прогресс. Возвращает результат в кадре завершения, иначе nil.
func (t *TrainingEngine) Update(dt float64) *TrainingResult {
	ex := t.active
	if ex == nil || dt <= 0 {
		return nil
	}

	if ex.Duration > 0 {
		t.progress += dt / ex.Duration
		if ex.StaminaCost > 0 {
			t.stats.DrainStamina(ex.StaminaCost * dt / ex.Duration)
		}
	} else {
		t.progress = 1
	}

	// Непрерывный риск на низкой выносливости
	if t.stats.Stamina < domain.LowStaminaThreshold && utils.Chance(t.rng, domain.LowStaminaInjuryRisk*dt) {
		if inj := t.injure(ex); inj != "" {
			t.log.WithFields(logrus.Fields{"exercise": ex.ID, "injury": inj}).Warn("Injured while training exhausted")
		}
	}

	if t.progress >= 1 {
		return t.complete()
	}
	return nil
}

func (t *TrainingEngine) complete() *TrainingResult {
	ex := t.active
	t.active = nil
	t.progress = 0
	s := t.stats
	s.Counters.Sessions++

	res := &TrainingResult{ExerciseID: ex.ID, Name: ex.Name, Quality: t.quality}

	if ex.LimitBreak || ex.InjuryRisk > 0 {
		risk := ex.InjuryRisk
		if s.Stamina < domain.CriticalStamina {
			risk += domain.CriticalStaminaRisk
		}
		if utils.Chance(t.rng, risk) {
			res.Injury = t.injure(ex)
			if res.Injury != "" {
				res.Messages = append(res.Messages, "Injured: "+t.injuryLabel(res.Injury)+"!")
			}
		}
	}
	if ex.OncePerRest {
		t.used[ex.ID] = true
	}
	if ex.LimitBreak {
		s.Counters.LimitBreaks++
	}

	flowMult := 1.0
	if t.flow {
		flowMult = domain.FlowMultiplier
	}
	qualityMult := 1.0
	if ex.Kata {
		qualityMult = KataQualityMultiplier(t.quality)
	}
	profMult := s.ProficiencyMultiplier(ex.ID)

	for _, stat := range domain.AllStats {
		base := ex.Gains[stat]
		if base <= 0 {
			continue
		}
		raw := base * profMult * flowMult * qualityMult
		res.Gains[stat], res.Applied[stat] = s.GainStat(stat, raw, t.conditions.For(stat))
	}

	if ex.StaminaRestore > 0 {
		s.RestoreStamina(ex.StaminaRestore)
	}
	if ex.FullHeal {
		s.Heal(s.MaxHP)
	}

	prevLevel := s.ProficiencyLevel(ex.ID)
	res.Proficiency = s.AddProficiency(ex.ID, domain.ProficiencyGainPerTick)
	if res.Proficiency > prevLevel {
		res.Messages = append(res.Messages, fmt.Sprintf("Proficiency Level %d reached!", res.Proficiency))
	}

	// Поток расходуется следующей сессией; ката может зажечь его снова
	t.flow = ex.Kata && t.quality >= domain.FlowQuality
	res.Flow = t.flow
	if t.flow {
		res.Messages = append(res.Messages, "Flow State! Next training doubled!")
	}

	if ex.Unlocks != "" && s.UnlockTechnique(ex.Unlocks) {
		res.Unlocked = ex.Unlocks
		res.Messages = append(res.Messages, "Unlocked technique: "+ex.Unlocks+"!")
	}

	if t.hunger != nil {
		t.hunger.SetMode(HungerIdle)
	}

	t.log.WithFields(logrus.Fields{
		"exercise":    ex.ID,
		"quality":     math.Round(t.quality),
		"proficiency": res.Proficiency,
		"power_level": s.PowerLevel,
		"injury":      res.Injury,
	}).Info("Training complete")
	return res
}

// KataQualityMultiplier: ниже 70 ката не дает ничего
func KataQualityMultiplier(q float64) float64 {
	switch {
	case q >= 95:
		return 2.0
	case q >= 85:
		return 1.5
	case q >= 70:
		return 1.0
	}
	return 0
}

// injure выбирает травму по тяжести упражнения
func (t *TrainingEngine) injure(ex *domain.ExerciseDef) string {
	pool := lightInjuries
	if ex.StaminaCost > domain.SevereInjuryStamina || ex.LimitBreak {
		pool = severeInjuries
	}
	kind := utils.Pick(t.rng, pool)
	def := domain.InjuryDef{Type: kind, Label: kind}
	if t.injuries != nil {
		if d, ok := t.injuries.Injury(kind); ok {
			def = d
		}
	}
	if !t.stats.AddInjury(def) {
		return ""
	}
	return kind
}

func (t *TrainingEngine) injuryLabel(kind string) string {
	if t.injuries != nil {
		if d, ok := t.injuries.Injury(kind); ok && d.Label != "" {
			return d.Label
		}
	}
	return kind
}
