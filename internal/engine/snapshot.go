package engine

import (
	"maps"
	"slices"
	"strconv"

	"warrior-server/internal/domain"
	"warrior-server/internal/systems"
	"warrior-server/pkg/api"
)

// Snapshot собирает полный снимок для зрителей и отладки.
// Логи не забираются, это делает цикл после рассылки.
func (g *Game) Snapshot() api.ServerResponse {
	resp := api.ServerResponse{
		Type:      "SNAPSHOT",
		Tick:      g.tick,
		Screen:    string(g.screens.top()),
		Player:    g.playerView(),
		Hunger:    api.HungerView{Value: g.Hunger.Value, Label: g.Hunger.Label(), Color: g.Hunger.Color(), Mode: g.Hunger.Mode.String()},
		Clock:     g.clockView(),
		World:     g.worldView(),
		Inventory: maps.Clone(g.Inventory),
		Logs:      slices.Clone(g.logs),
	}

	if g.fight != nil && g.Combat.Session != nil {
		resp.Combat = g.combatView()
	}
	if ex := g.Training.Current(); ex != nil {
		resp.Training = &api.TrainingView{
			Exercise: ex.ID,
			Name:     ex.Name,
			Progress: g.Training.Progress(),
			Quality:  g.Training.Quality(),
			Flow:     g.Training.Flow(),
		}
	}
	if d := g.dialogue; d != nil && d.pos < len(d.lines) {
		l := d.lines[d.pos]
		resp.Dialogue = &api.DialogueView{ID: d.id, Speaker: l.Speaker, Text: l.Text, Line: d.pos + 1, Lines: len(d.lines)}
	}
	return resp
}

func (g *Game) playerView() api.PlayerView {
	s := g.Stats
	v := api.PlayerView{
		Name:          g.cfg.PlayerName,
		PowerLevel:    s.PowerLevel,
		HP:            s.HP,
		MaxHP:         s.MaxHP,
		Stamina:       s.Stamina,
		MaxStamina:    s.MaxStamina,
		Ki:            s.Ki,
		MaxKi:         s.MaxKi,
		Stats:         make(map[string]float64, len(domain.AllStats)),
		Honor:         s.Honor,
		HonorTitle:    s.HonorTitle(),
		Determination: s.Determination,
		Wisdom:        s.Wisdom,
		Zeni:          s.Zeni,
		Techniques:    s.SortedTechniques(),
	}
	for _, st := range domain.AllStats {
		v.Stats[st.String()] = s.Effective(st)
	}
	for _, inj := range s.Injuries {
		label := inj.Type
		if def, ok := g.content.Injury(inj.Type); ok {
			label = def.Label
		}
		v.Injuries = append(v.Injuries, api.InjuryView{Type: inj.Type, Label: label, Remaining: inj.Remaining})
	}
	for _, e := range s.Effects {
		v.Effects = append(v.Effects, e.Type)
	}
	return v
}

func (g *Game) clockView() api.ClockView {
	w := g.Weather
	return api.ClockView{
		Day:     w.Day,
		Time:    w.TimeLabel(),
		Season:  string(w.Season),
		Weather: string(w.Weather),
		Seconds: w.GameTime,
	}
}

func (g *Game) worldView() api.WorldView {
	p := g.World
	v := api.WorldView{
		Act:     p.Act,
		ActName: p.ActName(),
		Zone:    p.Zone,
		Flags:   p.State().Flags,
	}
	if z, ok := p.CurrentZone(); ok {
		v.ZoneName = z.Name
		v.Next = z.Next
	}
	for _, enc := range p.PendingEncounters() {
		v.Pending = append(v.Pending, enc.ID)
	}
	for _, ex := range g.content.AvailableExercises(p.Act) {
		v.Exercises = append(v.Exercises, ex.ID)
	}
	return v
}

func (g *Game) combatView() *api.CombatView {
	s := g.Combat.Session
	f := g.fight
	v := &api.CombatView{
		Phase:      string(f.phase),
		Player:     combatantView(s.Player),
		Combo:      s.Combo,
		ComboLabel: systems.ComboLabel(s.Combo),
		ComboColor: systems.ComboColor(s.Combo),
		HitsLanded: s.HitsLanded,
		Timer:      s.FightTimer,
		WinLabel:   s.Win.String(),
		SlowMotion: s.SlowMotion > 0,
		HitStop:    f.hitStop > 0,
		Result:     s.Result.String(),
	}
	for _, e := range s.Enemies {
		v.Enemies = append(v.Enemies, combatantView(e))
	}
	for _, p := range s.Projectiles {
		if p.Alive {
			v.Projectiles = append(v.Projectiles, api.ProjectileView{X: p.Pos.X, Y: p.Pos.Y, Beam: p.Beam})
		}
	}
	if s.LockOn != nil {
		v.LockOn = idString(s.LockOn.ID)
	}
	return v
}

func combatantView(c *domain.Combatant) api.CombatantView {
	v := api.CombatantView{
		ID:         idString(c.ID),
		Type:       c.Kind.String(),
		Name:       c.Name,
		X:          c.Pos.X,
		Y:          c.Pos.Y,
		Facing:     c.Facing,
		HP:         c.HP,
		MaxHP:      c.MaxHP,
		Stamina:    c.Stamina,
		MaxStamina: c.MaxStamina,
		Ki:         c.Ki,
		MaxKi:      c.MaxKi,
		Guard:      c.Guard,
		PowerLevel: c.PowerLevel,
		State:      c.State,
		Blocking:   c.Blocking,
		IsDead:     c.IsDead(),
	}
	for _, st := range c.Statuses {
		v.Statuses = append(v.Statuses, string(st.Type))
	}
	return v
}

// idString совпадает с JSON-формой EntityID
func idString(id domain.EntityID) string {
	return strconv.FormatUint(uint64(id), 10)
}
