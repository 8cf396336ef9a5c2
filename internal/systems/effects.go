package systems

import (
	"sync"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// HitEvent - описание одного разрешенного удара для визуальных эффектов
type HitEvent struct {
	Attacker *domain.Combatant
	Defender *domain.Combatant
	Attack   string
	Damage   float64
	Critical bool
	SubHit   bool
	Combo    int
}

// EffectsSink получает боевые события. Частицы, тряска экрана и звук
// живут за этим интерфейсом, симуляция о них не знает.
type EffectsSink interface {
	OnHit(e HitEvent)
	OnCritical(e HitEvent)
	OnBlock(e HitEvent)
	OnParry(attacker, defender *domain.Combatant)
	OnGuardBreak(defender *domain.Combatant)
	OnKO(c *domain.Combatant)
	OnPhaseChange(c *domain.Combatant, phase int, message string)
	OnKiHit(e HitEvent)
}

// NopSink ничего не делает
type NopSink struct{}

func (NopSink) OnHit(HitEvent) {}
func (NopSink) OnCritical(HitEvent) {}
func (NopSink) OnBlock(HitEvent) {}
func (NopSink) OnParry(_, _ *domain.Combatant) {}
func (NopSink) OnGuardBreak(*domain.Combatant) {}
func (NopSink) OnKO(*domain.Combatant) {}
func (NopSink) OnPhaseChange(*domain.Combatant, int, string) {}
func (NopSink) OnKiHit(HitEvent) {}

// LogSink пишет события в лог на уровне debug, смену фаз и нокауты на info.
type LogSink struct {
	log *logrus.Entry
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.For("combat_fx")}
}

func (s *LogSink) hit(e HitEvent) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{
		"attacker": e.Attacker.Name,
		"defender": e.Defender.Name,
		"attack":   e.Attack,
		"damage":   e.Damage,
		"combo":    e.Combo,
	})
}

func (s *LogSink) OnHit(e HitEvent) {
	s.hit(e).WithField("sub_hit", e.SubHit).Debug("Hit landed")
}

func (s *LogSink) OnCritical(e HitEvent) {
	s.hit(e).Debug("Critical hit")
}

func (s *LogSink) OnBlock(e HitEvent) {
	s.hit(e).Debug("Hit blocked")
}

func (s *LogSink) OnParry(attacker, defender *domain.Combatant) {
	s.log.WithFields(logrus.Fields{"attacker": attacker.Name, "defender": defender.Name}).Debug("Parry")
}

func (s *LogSink) OnGuardBreak(defender *domain.Combatant) {
	s.log.WithField("defender", defender.Name).Debug("Guard broken")
}

func (s *LogSink) OnKO(c *domain.Combatant) {
	s.log.WithField("combatant", c.Name).Info("Knocked out")
}

func (s *LogSink) OnPhaseChange(c *domain.Combatant, phase int, message string) {
	s.log.WithFields(logrus.Fields{"combatant": c.Name, "phase": phase}).Info(message)
}

func (s *LogSink) OnKiHit(e HitEvent) {
	s.hit(e).Debug("Ki hit")
}

// EffectKind - тег записи в журнале эффектов
type EffectKind string

const (
	EffectHit         EffectKind = "hit"
	EffectCritical    EffectKind = "critical"
	EffectBlock       EffectKind = "block"
	EffectParry       EffectKind = "parry"
	EffectGuardBreak  EffectKind = "guard_break"
	EffectKO          EffectKind = "ko"
	EffectPhaseChange EffectKind = "phase"
	EffectKiHit       EffectKind = "ki_hit"
)

// EffectRecord - плоская запись события, уходит зрителям в снапшоте
type EffectRecord struct {
	Kind    EffectKind `json:"kind"`
	Source  string     `json:"source,omitempty"`
	Target  string     `json:"target,omitempty"`
	Attack  string     `json:"attack,omitempty"`
	Damage  float64    `json:"damage,omitempty"`
	Combo   int        `json:"combo,omitempty"`
	Phase   int        `json:"phase,omitempty"`
	Message string     `json:"message,omitempty"`
}

// Recorder копит события в кольцевом буфере ограниченного размера.
// Используется сервисом для ленты событий и тестами.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	records []EffectRecord
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 64
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) add(rec EffectRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	if len(r.records) > r.limit {
		r.records = r.records[len(r.records)-r.limit:]
	}
}

func fromHit(kind EffectKind, e HitEvent) EffectRecord {
	return EffectRecord{
		Kind:   kind,
		Source: e.Attacker.Name,
		Target: e.Defender.Name,
		Attack: e.Attack,
		Damage: e.Damage,
		Combo:  e.Combo,
	}
}

func (r *Recorder) OnHit(e HitEvent) { r.add(fromHit(EffectHit, e)) }
func (r *Recorder) OnCritical(e HitEvent) { r.add(fromHit(EffectCritical, e)) }
func (r *Recorder) OnBlock(e HitEvent) { r.add(fromHit(EffectBlock, e)) }
func (r *Recorder) OnKiHit(e HitEvent) { r.add(fromHit(EffectKiHit, e)) }

func (r *Recorder) OnParry(attacker, defender *domain.Combatant) {
	r.add(EffectRecord{Kind: EffectParry, Source: attacker.Name, Target: defender.Name})
}

func (r *Recorder) OnGuardBreak(defender *domain.Combatant) {
	r.add(EffectRecord{Kind: EffectGuardBreak, Target: defender.Name})
}

func (r *Recorder) OnKO(c *domain.Combatant) {
	r.add(EffectRecord{Kind: EffectKO, Target: c.Name})
}

func (r *Recorder) OnPhaseChange(c *domain.Combatant, phase int, message string) {
	r.add(EffectRecord{Kind: EffectPhaseChange, Target: c.Name, Phase: phase, Message: message})
}

// Records возвращает копию накопленного
func (r *Recorder) Records() []EffectRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EffectRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Drain возвращает накопленное и очищает буфер
func (r *Recorder) Drain() []EffectRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.records
	r.records = nil
	return out
}

// Count - сколько записей данного вида в буфере
func (r *Recorder) Count(kind EffectKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

// MultiSink раздает события нескольким приемникам по порядку
type MultiSink []EffectsSink

func (m MultiSink) OnHit(e HitEvent) {
	for _, s := range m {
		s.OnHit(e)
	}
}

func (m MultiSink) OnCritical(e HitEvent) {
	for _, s := range m {
		s.OnCritical(e)
	}
}

func (m MultiSink) OnBlock(e HitEvent) {
	for _, s := range m {
		s.OnBlock(e)
	}
}

func (m MultiSink) OnParry(attacker, defender *domain.Combatant) {
	for _, s := range m {
		s.OnParry(attacker, defender)
	}
}

func (m MultiSink) OnGuardBreak(defender *domain.Combatant) {
	for _, s := range m {
		s.OnGuardBreak(defender)
	}
}

func (m MultiSink) OnKO(c *domain.Combatant) {
	for _, s := range m {
		s.OnKO(c)
	}
}

func (m MultiSink) OnPhaseChange(c *domain.Combatant, phase int, message string) {
	for _, s := range m {
		s.OnPhaseChange(c, phase, message)
	}
}

func (m MultiSink) OnKiHit(e HitEvent) {
	for _, s := range m {
		s.OnKiHit(e)
	}
}
