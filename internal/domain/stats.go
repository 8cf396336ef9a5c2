package domain

import (
	"math"
	"sort"
)

// Источники временных эффектов
const (
	SourceHunger = "hunger"
	SourceFood   = "food"
)

// TimedEffect - временный бонус или штраф. Remaining <= 0 при Permanent означает "пока не снимут".
type TimedEffect struct {
	Type       string    `json:"type"`
	Source     string    `json:"source"`
	Remaining  float64   `json:"remaining"`
	Permanent  bool      `json:"permanent,omitempty"`
	Stats      StatBlock `json:"stats"`
	TrainBonus float64   `json:"trainBonus,omitempty"` // проценты к приросту
	KiRegen    float64   `json:"kiRegen,omitempty"`    // ки в секунду
	HPRegen    float64   `json:"hpRegen,omitempty"`    // HP в секунду
	TickDamage float64   `json:"tickDamage,omitempty"`
	TickTimer  float64   `json:"-"`
}

// InjuryDef - справочная запись о травме
type InjuryDef struct {
	Type      string    `json:"type"`
	Label     string    `json:"label"`
	Duration  float64   `json:"duration"`
	Penalties StatBlock `json:"penalties"`
}

// Injury - активная травма
type Injury struct {
	Type      string    `json:"type"`
	Remaining float64   `json:"remaining"`
	Penalties StatBlock `json:"penalties"`
}

// GainConditions - внешние множители прироста. Ноль означает "не задан".
type GainConditions struct {
	Time     float64 `json:"time,omitempty"`
	Weather  float64 `json:"weather,omitempty"`
	Location float64 `json:"location,omitempty"`
	Quality  float64 `json:"quality,omitempty"`
}

// Multiplier - произведение всех заданных множителей
func (g GainConditions) Multiplier() float64 {
	m := 1.0
	for _, v := range [...]float64{g.Time, g.Weather, g.Location, g.Quality} {
		if v > 0 {
			m *= v
		}
	}
	return m
}

// Counters - статистика для наград и отладки
type Counters struct {
	Punches     int `json:"punches"`
	FightsWon   int `json:"fightsWon"`
	FightsLost  int `json:"fightsLost"`
	Sessions    int `json:"sessions"`
	LimitBreaks int `json:"limitBreaks"`
}

// StatsModel - характеристики игрока и все производные от них.
type StatsModel struct {
	Base    StatBlock `json:"base"`
	Bonuses StatBlock `json:"bonuses"` // проценты
	// AllStatsBonus и TrainGain - постоянные процентные бонусы (трейты, титулы)
	AllStatsBonus float64 `json:"allStatsBonus"`
	TrainGain     float64 `json:"trainGain"`

	HP      float64 `json:"hp"`
	Stamina float64 `json:"stamina"`
	Ki      float64 `json:"ki"`

	PowerLevel int     `json:"powerLevel"`
	MaxHP      float64 `json:"maxHp"`
	MaxStamina float64 `json:"maxStamina"`
	MaxKi      float64 `json:"maxKi"`

	Honor         float64 `json:"honor"`
	Determination float64 `json:"determination"`
	Wisdom        float64 `json:"wisdom"`
	Zeni          int     `json:"zeni"`

	Effects     []TimedEffect      `json:"effects"`
	Injuries    []Injury           `json:"injuries"`
	Proficiency map[string]float64 `json:"proficiency"`
	Techniques  map[string]bool    `json:"techniques"`
	Traits      map[string]bool    `json:"traits"`
	Titles      map[string]bool    `json:"titles"`
	Counters    Counters           `json:"counters"`
}

// NewStatsModel - стартовый персонаж: сила, скорость и выносливость по 1.
func NewStatsModel() *StatsModel {
	s := &StatsModel{}
	s.Reset()
	return s
}

// Reset возвращает модель к началу игры.
func (s *StatsModel) Reset() {
	*s = StatsModel{
		Honor:       HonorStart,
		Proficiency: make(map[string]float64),
		Techniques:  make(map[string]bool),
		Traits:      make(map[string]bool),
		Titles:      make(map[string]bool),
	}
	s.Base[Strength] = 1
	s.Base[Speed] = 1
	s.Base[Endurance] = 1
	s.Recalculate()
	s.HP = s.MaxHP
	s.Stamina = s.MaxStamina
	s.Ki = s.MaxKi
}

// EnsureMaps нужен после загрузки сейва, где карты могли быть пустыми.
func (s *StatsModel) EnsureMaps() {
	if s.Proficiency == nil {
		s.Proficiency = make(map[string]float64)
	}
	if s.Techniques == nil {
		s.Techniques = make(map[string]bool)
	}
	if s.Traits == nil {
		s.Traits = make(map[string]bool)
	}
	if s.Titles == nil {
		s.Titles = make(map[string]bool)
	}
}

// Recalculate пересчитывает уровень силы и максимумы.
// Текущие значения сдвигаются на разницу максимумов и зажимаются.
func (s *StatsModel) Recalculate() {
	str := s.Effective(Strength)
	spd := s.Effective(Speed)
	end := s.Effective(Endurance)
	tec := s.Effective(Technique)
	ki := s.Effective(KiControl)

	s.PowerLevel = PowerLevelFor(str, spd, end, tec, ki)

	prevHP, prevStamina, prevKi := s.MaxHP, s.MaxStamina, s.MaxKi
	s.MaxHP = HPBase + end*HPPerEndurance
	s.MaxStamina = StaminaBase + end*StaminaPerEnd
	s.MaxKi = ki * KiPerKiControl

	if prevHP > 0 {
		s.HP += s.MaxHP - prevHP
	}
	if prevStamina > 0 {
		s.Stamina += s.MaxStamina - prevStamina
	}
	s.Ki += s.MaxKi - prevKi
	s.clampResources()
}

// PowerLevelFor - формула уровня силы
func PowerLevelFor(str, spd, end, tec, ki float64) int {
	return int(math.Floor((str*2+spd*2+end*1.5+tec*1.5+ki)*0.5 + PowerLevelBase))
}

func (s *StatsModel) clampResources() {
	s.HP = clamp(s.HP, 0, s.MaxHP)
	s.Stamina = clamp(s.Stamina, 0, s.MaxStamina)
	s.Ki = clamp(s.Ki, 0, s.MaxKi)
}

// Effective - базовое значение с процентами, травмами и плоскими эффектами.
func (s *StatsModel) Effective(stat Stat) float64 {
	base := s.Base[stat]
	pct := s.Bonuses[stat] + s.AllStatsBonus
	injury := s.InjuryPenalty(stat)
	flat := s.EffectBonus(stat)
	return math.Max(0, base*(1+pct/100)*(1-injury)+flat)
}

// DiminishedGain - убывающая отдача: чем выше стат, тем меньше прирост
func DiminishedGain(raw, current float64) float64 {
	return raw / (1 + current*DiminishingRate)
}

// GainStat добавляет тренировочный прирост.
// Возвращает посчитанный прирост и то, что реально легло в стат (с учетом потолка).
func (s *StatsModel) GainStat(stat Stat, raw float64, cond GainConditions) (gain, applied float64) {
	if stat >= StatCount || raw <= 0 {
		return 0, 0
	}
	current := s.Base[stat]
	gain = DiminishedGain(raw, current)
	gain *= 1 + s.TrainingGainBonus()/100
	gain *= cond.Multiplier()
	if gain < 0 {
		gain = 0
	}

	next := math.Min(StatCap, current+gain)
	applied = math.Max(0, next-current)
	s.Base[stat] = math.Max(current, next)
	s.Recalculate()
	return gain, applied
}

// TrainingGainBonus - постоянный бонус плюс бонусы эффектов (сытость, еда)
func (s *StatsModel) TrainingGainBonus() float64 {
	total := s.TrainGain
	for _, e := range s.Effects {
		total += e.TrainBonus
	}
	return total
}

// --- ТРАВМЫ ---

// AddInjury не складывает травмы одного типа: повтор просто игнорируется.
func (s *StatsModel) AddInjury(def InjuryDef) bool {
	if def.Type == "" || s.HasInjury(def.Type) {
		return false
	}
	s.Injuries = append(s.Injuries, Injury{
		Type:      def.Type,
		Remaining: def.Duration,
		Penalties: def.Penalties,
	})
	s.Recalculate()
	return true
}

func (s *StatsModel) HasInjury(injuryType string) bool {
	for _, inj := range s.Injuries {
		if inj.Type == injuryType {
			return true
		}
	}
	return false
}

// InjuryPenalty - суммарный штраф, не больше 80%
func (s *StatsModel) InjuryPenalty(stat Stat) float64 {
	var p float64
	for _, inj := range s.Injuries {
		p += inj.Penalties[stat]
	}
	return clamp(p, 0, InjuryPenaltyMax)
}

// UpdateInjuries тикает таймеры и снимает зажившие травмы.
func (s *StatsModel) UpdateInjuries(dt float64) {
	kept := s.Injuries[:0]
	healed := false
	for _, inj := range s.Injuries {
		inj.Remaining -= dt
		if inj.Remaining > 0 {
			kept = append(kept, inj)
		} else {
			healed = true
		}
	}
	s.Injuries = kept
	if healed {
		s.Recalculate()
	}
}

// ClearInjuries лечит все травмы разом
func (s *StatsModel) ClearInjuries() {
	s.Injuries = nil
	s.Recalculate()
}

// ShortenInjuries сокращает таймеры на долю fraction
func (s *StatsModel) ShortenInjuries(fraction float64) {
	f := clamp(fraction, 0, 1)
	for i := range s.Injuries {
		s.Injuries[i].Remaining *= 1 - f
	}
}

// --- ЭФФЕКТЫ ---

// AddEffect заменяет эффект того же типа.
func (s *StatsModel) AddEffect(e TimedEffect) {
	s.removeEffects(func(x TimedEffect) bool { return x.Type == e.Type })
	s.Effects = append(s.Effects, e)
	s.Recalculate()
}

// RemoveEffectsBySource снимает все эффекты источника (например, голод пересчитывает свои).
func (s *StatsModel) RemoveEffectsBySource(source string) {
	if s.removeEffects(func(x TimedEffect) bool { return x.Source == source }) {
		s.Recalculate()
	}
}

// RemoveEffect снимает эффект по типу
func (s *StatsModel) RemoveEffect(effectType string) bool {
	removed := s.removeEffects(func(x TimedEffect) bool { return x.Type == effectType })
	if removed {
		s.Recalculate()
	}
	return removed
}

func (s *StatsModel) HasEffect(effectType string) bool {
	for _, e := range s.Effects {
		if e.Type == effectType {
			return true
		}
	}
	return false
}

func (s *StatsModel) removeEffects(match func(TimedEffect) bool) bool {
	kept := s.Effects[:0]
	removed := false
	for _, e := range s.Effects {
		if match(e) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.Effects = kept
	return removed
}

// EffectBonus - плоская сумма эффектов по стату
func (s *StatsModel) EffectBonus(stat Stat) float64 {
	var sum float64
	for _, e := range s.Effects {
		sum += e.Stats[stat]
	}
	return sum
}

// UpdateEffects тикает эффекты: регенерация, яд, истечение.
func (s *StatsModel) UpdateEffects(dt float64) {
	expired := false
	kept := s.Effects[:0]
	var damage float64
	for _, e := range s.Effects {
		if e.KiRegen > 0 {
			s.Ki = math.Min(s.MaxKi, s.Ki+e.KiRegen*dt)
		}
		if e.HPRegen > 0 {
			s.HP = math.Min(s.MaxHP, s.HP+e.HPRegen*dt)
		}
		if e.TickDamage > 0 {
			e.TickTimer += dt
			for e.TickTimer >= 1 {
				e.TickTimer -= 1
				damage += e.TickDamage
			}
		}
		if !e.Permanent {
			e.Remaining -= dt
			if e.Remaining <= 0 {
				expired = true
				continue
			}
		}
		kept = append(kept, e)
	}
	s.Effects = kept
	if damage > 0 {
		s.TakeDamage(damage)
	}
	if expired {
		s.Recalculate()
	}
}

// --- РЕСУРСЫ ---

func (s *StatsModel) TakeDamage(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	prev := s.HP
	s.HP = math.Max(0, s.HP-amount)
	return prev - s.HP
}

func (s *StatsModel) Heal(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	prev := s.HP
	s.HP = math.Min(s.MaxHP, s.HP+amount)
	return s.HP - prev
}

// DrainStamina возвращает true, если персонаж выдохся (10 и меньше).
func (s *StatsModel) DrainStamina(amount float64) bool {
	s.Stamina = clamp(s.Stamina-amount, 0, s.MaxStamina)
	return s.Stamina <= 10
}

func (s *StatsModel) RestoreStamina(amount float64) {
	s.Stamina = clamp(s.Stamina+amount, 0, s.MaxStamina)
}

func (s *StatsModel) RestoreKi(amount float64) {
	s.Ki = clamp(s.Ki+amount, 0, s.MaxKi)
}

// --- МАСТЕРСТВО ---

// ProficiencyLevelFor переводит опыт в уровень 0..10
func ProficiencyLevelFor(xp float64) int {
	for lvl := len(ProficiencyThresholds) - 1; lvl >= 1; lvl-- {
		if xp >= ProficiencyThresholds[lvl] {
			return lvl
		}
	}
	return 0
}

func (s *StatsModel) ProficiencyLevel(exerciseID string) int {
	return ProficiencyLevelFor(s.Proficiency[exerciseID])
}

func (s *StatsModel) ProficiencyMultiplier(exerciseID string) float64 {
	return ProficiencyMultipliers[s.ProficiencyLevel(exerciseID)]
}

// AddProficiency добавляет опыт и возвращает новый уровень.
func (s *StatsModel) AddProficiency(exerciseID string, xp float64) int {
	s.EnsureMaps()
	s.Proficiency[exerciseID] += xp
	return s.ProficiencyLevel(exerciseID)
}

// --- ТЕХНИКИ, ТРЕЙТЫ, ТИТУЛЫ ---

// UnlockTechnique возвращает true, если техника новая.
func (s *StatsModel) UnlockTechnique(id string) bool {
	s.EnsureMaps()
	if id == "" || s.Techniques[id] {
		return false
	}
	s.Techniques[id] = true
	return true
}

func (s *StatsModel) HasTechnique(id string) bool { return s.Techniques[id] }

func (s *StatsModel) UnlockTrait(id string) {
	s.EnsureMaps()
	s.Traits[id] = true
}

func (s *StatsModel) HasTrait(id string) bool { return s.Traits[id] }

func (s *StatsModel) AddTitle(id string) {
	s.EnsureMaps()
	s.Titles[id] = true
}

// SortedTechniques - для снапшотов и логов
func (s *StatsModel) SortedTechniques() []string {
	out := make([]string, 0, len(s.Techniques))
	for id := range s.Techniques {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// --- ЧЕСТЬ, РЕШИМОСТЬ, МУДРОСТЬ ---

func (s *StatsModel) ChangeHonor(delta float64) {
	s.Honor = clamp(s.Honor+delta, 0, HonorMax)
}

func (s *StatsModel) ChangeDetermination(delta float64) {
	s.Determination = clamp(s.Determination+delta, 0, MeterMax)
}

func (s *StatsModel) ChangeWisdom(delta float64) {
	s.Wisdom = clamp(s.Wisdom+delta, 0, MeterMax)
}

// AddZeni не дает уйти в минус
func (s *StatsModel) AddZeni(delta int) {
	s.Zeni += delta
	if s.Zeni < 0 {
		s.Zeni = 0
	}
}

func (s *StatsModel) HonorTitle() string {
	switch {
	case s.Honor >= 80:
		return "Hero"
	case s.Honor >= 50:
		return "Honorable"
	case s.Honor >= 20:
		return "Questionable"
	}
	return "Dishonorable"
}

// ShopDiscount: положительное значение - скидка, отрицательное - наценка
func (s *StatsModel) ShopDiscount() float64 {
	if s.Honor >= 80 {
		return 0.20
	}
	if s.Honor < 20 {
		return -0.30
	}
	return 0
}

var determinationBonuses = []struct {
	threshold float64
	id        string
}{
	{10, "never_give_up"},
	{20, "second_wind"},
	{30, "comeback_king"},
	{40, "unbreakable_will"},
	{50, "zenkai_boost"},
}

func (s *StatsModel) DeterminationBonuses() []string {
	var out []string
	for _, b := range determinationBonuses {
		if s.Determination >= b.threshold {
			out = append(out, b.id)
		}
	}
	return out
}

// Stage - визуальная стадия персонажа по уровню силы
func (s *StatsModel) Stage() int {
	switch {
	case s.PowerLevel >= 81:
		return 3
	case s.PowerLevel >= 41:
		return 2
	case s.PowerLevel >= 16:
		return 1
	}
	return 0
}
