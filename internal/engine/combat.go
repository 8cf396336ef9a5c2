package engine

import (
	"fmt"

	"warrior-server/internal/domain"
	"warrior-server/internal/systems"
	"warrior-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

type combatPhase string

const (
	phaseIntro combatPhase = "intro"
	phaseFight combatPhase = "fight"
	phaseEnd   combatPhase = "end"
)

// combatScene - экран боя вокруг сессии движка: заставка, бой, пауза на итог.
type combatScene struct {
	phase   combatPhase
	timer   float64
	hitStop float64

	player    *domain.Combatant
	defs      []*domain.EnemyDef // по одному на бойца, для наград
	encounter *domain.EncounterDef
}

// StartFight - свободный бой. Пустой enemyID - случайный враг текущей зоны.
func (g *Game) StartFight(enemyID, winCondition string) error {
	if err := g.requireOverworld(); err != nil {
		return err
	}
	if enemyID == "" {
		z, ok := g.World.CurrentZone()
		if !ok || len(z.Enemies) == 0 {
			return ErrNoEnemies
		}
		enemyID = utils.Pick(g.rng, z.Enemies)
	}
	return g.startCombat([]string{enemyID}, winCondition, nil)
}

func (g *Game) startCombat(ids []string, winCondition string, enc *domain.EncounterDef) error {
	if g.fight != nil || g.Combat.Active() {
		return ErrCombatActive
	}
	if !g.Hunger.CanFight() {
		return ErrTooHungry
	}
	win, err := domain.ParseWinCondition(winCondition)
	if err != nil {
		return err
	}
	attacks, err := g.playerAttacks()
	if err != nil {
		return err
	}

	var (
		enemies []*domain.Combatant
		defs    []*domain.EnemyDef
		maxDur  float64
	)
	index := uint32(1)
	x := domain.EnemySpawnX
	for _, id := range ids {
		tpl, err := g.content.Enemy(id)
		if err != nil {
			return err
		}
		tpl = tpl.AdjustToPL(g.Stats.PowerLevel)

		group := tpl.SpawnGroup(index, x)
		for _, c := range group {
			ai := systems.NewEnemyAI(systems.AIConfig{
				Attacks:    tpl.Attacks,
				Phases:     tpl.Def.Phases,
				Speed:      tpl.Def.Speed,
				Difficulty: g.cfg.Difficulty,
				Rng:        g.rng,
				Sink:       g.sink,
			})
			ai.Attach(c)
			defs = append(defs, tpl.Def)
		}
		enemies = append(enemies, group...)
		index += uint32(len(group))
		x += float64(len(group)) * domain.PackSpacing
		maxDur = max(maxDur, tpl.Def.MaxFightDuration)
	}
	if len(enemies) == 0 {
		return ErrNoEnemies
	}

	player := systems.NewPlayerCombatant(g.cfg.PlayerName, g.Stats)
	player.Controller = systems.NewPlayerController(g.Stats, g.Input, attacks)
	if p, ok := g.Input.(preparer); ok {
		p.Prepare(g.Stats)
	}

	g.Combat.Reset(player, enemies, win)
	g.Combat.SetMaxDuration(maxDur)
	g.Hunger.SetMode(systems.HungerCombat)
	g.fight = &combatScene{
		phase:     phaseIntro,
		timer:     CombatIntroTime,
		player:    player,
		defs:      defs,
		encounter: enc,
	}
	g.screens.push(ScreenCombat)

	names := make([]string, 0, len(enemies))
	for _, e := range enemies {
		names = append(names, e.Name)
	}
	g.addLog(LogCombat, "Fight! %v", names)
	return nil
}

func (g *Game) playerAttacks() (systems.PlayerAttacks, error) {
	var out systems.PlayerAttacks
	slots := []struct {
		name string
		dst  **domain.AttackDescriptor
	}{
		{"punch", &out.Light},
		{"kick", &out.Medium},
		{"heavy_punch", &out.Heavy},
	}
	for _, s := range slots {
		atk, err := g.content.Attack(s.name)
		if err != nil {
			return out, fmt.Errorf("player attacks: %w", err)
		}
		*s.dst = atk
	}
	return out, nil
}

// updateCombat: стоп-кадр замораживает всю симуляцию, включая таймер выживания.
func (g *Game) updateCombat(dt float64) {
	f := g.fight
	if f == nil {
		g.screens.pop()
		return
	}
	if f.hitStop > 0 {
		f.hitStop -= dt
		return
	}

	switch f.phase {
	case phaseIntro:
		f.timer -= dt
		if f.timer <= 0 {
			f.phase = phaseFight
		}
	case phaseFight:
		g.Combat.Update(dt)
		g.Hunger.Update(dt)
		if g.Combat.Active() {
			return
		}
		f.phase = phaseEnd
		f.timer = LossEndDelay
		if g.Combat.Summary().Result == domain.ResultWin {
			f.timer = WinEndDelay
		}
	case phaseEnd:
		f.timer -= dt
		if f.timer <= 0 {
			g.finishCombat()
		}
	}
}

// finishCombat забирает итог, начисляет награды и закрывает экран боя.
func (g *Game) finishCombat() {
	f := g.fight
	sum, ok := g.Combat.Consume()
	if !ok {
		return
	}
	g.fight = nil
	g.screens.pop()
	g.Hunger.SetMode(systems.HungerIdle)
	systems.WriteBack(f.player, g.Stats)

	flag := ""
	if f.encounter != nil {
		flag = f.encounter.OnWinFlag
	}
	rw := g.World.ApplyCombatResult(sum, f.defs, flag)
	for item, n := range rw.Drops {
		g.AddItem(item, n)
	}
	g.LastCombat = &sum
	g.LastRewards = &rw

	switch sum.Result {
	case domain.ResultWin:
		g.addLog(LogCombat, "Victory! +%d zeni", rw.Zeni)
		if f.encounter != nil {
			g.World.MarkDone(f.encounter.ID)
		}
	case domain.ResultLoss:
		g.Stats.HP = max(g.Stats.HP, g.Stats.MaxHP*LossRecoverFraction)
		g.addLog(LogCombat, "Defeated...")
		if f.encounter != nil {
			g.deferred[f.encounter.ID] = true
		}
	}

	g.log.WithFields(logrus.Fields{
		"result":      sum.Result,
		"hits_landed": sum.HitsLanded,
		"combo_max":   sum.ComboMax,
		"duration":    sum.FightDuration,
	}).Info("Combat closed")
}

// sceneSink переводит боевые события в стоп-кадры и строки лога.
type sceneSink struct {
	systems.NopSink
	g *Game
}

func (s *sceneSink) OnHit(e systems.HitEvent) {
	f := s.g.fight
	if f == nil || e.SubHit {
		return
	}
	stop := EnemyHitStop
	if e.Attacker.IsPlayer() {
		stop = PlayerHitStop
	}
	f.hitStop = max(f.hitStop, stop)
}

func (s *sceneSink) OnCritical(e systems.HitEvent) {
	s.OnHit(e)
	s.g.addLog(LogCombat, "Critical hit on %s!", e.Defender.Name)
}

func (s *sceneSink) OnGuardBreak(d *domain.Combatant) {
	s.g.addLog(LogCombat, "%s's guard is broken!", d.Name)
}

func (s *sceneSink) OnKO(c *domain.Combatant) {
	s.g.addLog(LogCombat, "%s is down!", c.Name)
}

func (s *sceneSink) OnPhaseChange(c *domain.Combatant, phase int, message string) {
	if message == "" {
		message = fmt.Sprintf("%s enters phase %d", c.Name, phase)
	}
	s.g.addLog(LogCombat, "%s", message)
}
