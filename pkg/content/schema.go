package content

import (
	"fmt"
	"sort"
	"strings"

	"warrior-server/internal/domain"
)

// Форматы YAML-файлов. Снаружи пакета не видны: наружу уходят только domain-типы.

type statusYAML struct {
	Type       string  `yaml:"type"`
	Duration   float64 `yaml:"duration"`
	TickDamage float64 `yaml:"tick_damage"`
}

type attackYAML struct {
	Damage      float64     `yaml:"damage"`
	Range       float64     `yaml:"range"`
	HitStun     float64     `yaml:"hitstun"`
	Knockback   float64     `yaml:"knockback"`
	Launch      bool        `yaml:"launch"`
	Unblockable bool        `yaml:"unblockable"`
	GuardDamage float64     `yaml:"guard_damage"`
	Hits        int         `yaml:"hits"`
	Type        string      `yaml:"type"`
	Status      *statusYAML `yaml:"status"`
}

type phaseYAML struct {
	HPThreshold float64 `yaml:"hp_threshold"`
	SpeedMult   float64 `yaml:"speed_mult"`
	DamageMult  float64 `yaml:"damage_mult"`
	Message     string  `yaml:"message"`
}

type dropYAML struct {
	Item   string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	Amount int     `yaml:"amount"`
}

type enemyYAML struct {
	ID               string      `yaml:"id"`
	Name             string      `yaml:"name"`
	PL               int         `yaml:"pl"`
	HP               float64     `yaml:"hp"`
	Speed            float64     `yaml:"speed"`
	Technique        float64     `yaml:"technique"`
	Attacks          []string    `yaml:"attacks"`
	Phases           []phaseYAML `yaml:"phases"`
	Drops            []dropYAML  `yaml:"drops"`
	Zeni             int         `yaml:"zeni"`
	Behavior         string      `yaml:"behavior"`
	GroupSize        int         `yaml:"group_size"`
	AdjustToPL       bool        `yaml:"adjust_to_pl"`
	MaxFightDuration float64     `yaml:"max_fight_duration"`
}

type exerciseYAML struct {
	ID             string             `yaml:"id"`
	Name           string             `yaml:"name"`
	Duration       float64            `yaml:"duration"`
	StaminaCost    float64            `yaml:"stamina_cost"`
	Gains          map[string]float64 `yaml:"gains"`
	Requires       map[string]float64 `yaml:"requires"`
	OncePerRest    bool               `yaml:"once_per_rest"`
	InjuryRisk     float64            `yaml:"injury_risk"`
	Tier           string             `yaml:"tier"`
	Kata           bool               `yaml:"kata"`
	Unlocks        string             `yaml:"unlocks"`
	StaminaRestore float64            `yaml:"stamina_restore"`
	FullHeal       bool               `yaml:"full_heal"`
	Act            int                `yaml:"act"`
}

type foodYAML struct {
	Hunger            float64            `yaml:"hunger"`
	HP                float64            `yaml:"hp"`
	Stamina           float64            `yaml:"stamina"`
	Ki                float64            `yaml:"ki"`
	RemoveInjuries    bool               `yaml:"remove_injuries"`
	CurePoison        bool               `yaml:"cure_poison"`
	InjuryTimerReduce float64            `yaml:"injury_timer_reduce"`
	StatBonus         map[string]float64 `yaml:"stat_bonus"`
	Duration          float64            `yaml:"duration"`
	TrainBonus        float64            `yaml:"train_bonus"`
	KiRegen           float64            `yaml:"ki_regen"`
	HPRegen           float64            `yaml:"hp_regen"`
	RegenDuration     float64            `yaml:"regen_duration"`
	SickChance        float64            `yaml:"sick_chance"`
	PoisonChance      float64            `yaml:"poison_chance"`
}

type itemYAML struct {
	ID                  string    `yaml:"id"`
	Name                string    `yaml:"name"`
	Type                string    `yaml:"type"`
	Value               int       `yaml:"value"`
	Food                *foodYAML `yaml:"food"`
	WisdomSafeThreshold float64   `yaml:"wisdom_safe_threshold"`
}

type injuryYAML struct {
	Label     string             `yaml:"label"`
	Duration  float64            `yaml:"duration"`
	Penalties map[string]float64 `yaml:"penalties"`
}

type triggerYAML struct {
	Type  string `yaml:"type"`
	Zone  int    `yaml:"zone"`
	PL    int    `yaml:"pl"`
	Flag  string `yaml:"flag"`
	After string `yaml:"after"`
}

type combatYAML struct {
	Enemies      []string `yaml:"enemies"`
	WinCondition string   `yaml:"win_condition"`
}

type encounterYAML struct {
	ID        string      `yaml:"id"`
	Act       int         `yaml:"act"`
	Trigger   triggerYAML `yaml:"trigger"`
	Dialogue  string      `yaml:"dialogue"`
	Combat    *combatYAML `yaml:"combat"`
	Training  string      `yaml:"training"`
	OnWinFlag string      `yaml:"on_win_flag"`
	Flag      string      `yaml:"flag"`
	Required  bool        `yaml:"required"`
}

type zoneYAML struct {
	ID            int      `yaml:"id"`
	Name          string   `yaml:"name"`
	Act           int      `yaml:"act"`
	Enemies       []string `yaml:"enemies"`
	TrainingSites []string `yaml:"training_sites"`
	LocationBonus float64  `yaml:"location_bonus"`
	Next          []int    `yaml:"next"`
}

type npcYAML struct {
	ID               string  `yaml:"id"`
	Name             string  `yaml:"name"`
	BaseRelationship float64 `yaml:"base_relationship"`
}

type lineYAML struct {
	Speaker string `yaml:"speaker"`
	Text    string `yaml:"text"`
}

type storyYAML struct {
	Zones      []zoneYAML            `yaml:"zones"`
	NPCs       []npcYAML             `yaml:"npcs"`
	Dialogues  map[string][]lineYAML `yaml:"dialogues"`
	Encounters []encounterYAML       `yaml:"encounters"`
}

// --- КОНВЕРТАЦИЯ ---

// statBlock переводит {stat: value} в StatBlock. Ключ "all" разрешен только там, где allowAll.
func statBlock(m map[string]float64, allowAll bool) (domain.StatBlock, error) {
	var b domain.StatBlock
	for k, v := range m {
		if allowAll && strings.EqualFold(k, "all") {
			for _, s := range domain.AllStats {
				b[s] += v
			}
			continue
		}
		s, ok := domain.ParseStat(k)
		if !ok {
			return b, fmt.Errorf("unknown stat %q", k)
		}
		b[s] += v
	}
	return b, nil
}

func (a attackYAML) toDomain(name string) (*domain.AttackDescriptor, error) {
	dt, err := domain.ParseDamageType(a.Type)
	if err != nil {
		return nil, fmt.Errorf("attack %s: %w", name, err)
	}
	d := &domain.AttackDescriptor{
		Name:           name,
		DamageFraction: a.Damage,
		Range:          a.Range,
		HitStun:        a.HitStun,
		Knockback:      a.Knockback,
		Launch:         a.Launch,
		Unblockable:    a.Unblockable,
		GuardDamage:    a.GuardDamage,
		Hits:           a.Hits,
		Type:           dt,
	}
	if a.Status != nil {
		if a.Status.Type == "" || a.Status.Duration <= 0 {
			return nil, fmt.Errorf("attack %s: status needs type and duration", name)
		}
		d.Status = &domain.StatusSpec{
			Type:       domain.StatusType(a.Status.Type),
			Duration:   a.Status.Duration,
			TickDamage: a.Status.TickDamage,
		}
	}
	return d, nil
}

func (e enemyYAML) toDomain() (*domain.EnemyDef, error) {
	if e.ID == "" {
		return nil, fmt.Errorf("enemy without id")
	}
	if e.HP <= 0 || e.PL <= 0 {
		return nil, fmt.Errorf("enemy %s: hp and pl must be positive", e.ID)
	}
	d := &domain.EnemyDef{
		ID:               e.ID,
		Name:             e.Name,
		PowerLevel:       e.PL,
		HP:               e.HP,
		Speed:            e.Speed,
		Technique:        e.Technique,
		Attacks:          e.Attacks,
		Zeni:             e.Zeni,
		AdjustToPL:       e.AdjustToPL,
		MaxFightDuration: e.MaxFightDuration,
	}
	switch e.Behavior {
	case "", "solo":
	case "pack":
		d.Pack = true
		d.GroupSize = e.GroupSize
		if d.GroupSize <= 0 {
			d.GroupSize = domain.DefaultPackSize
		}
	default:
		return nil, fmt.Errorf("enemy %s: unknown behavior %q", e.ID, e.Behavior)
	}
	if d.Name == "" {
		d.Name = e.ID
	}
	for _, p := range e.Phases {
		if p.HPThreshold <= 0 || p.HPThreshold >= 1 {
			return nil, fmt.Errorf("enemy %s: phase threshold %v out of (0,1)", e.ID, p.HPThreshold)
		}
		d.Phases = append(d.Phases, domain.PhaseDef{
			HPThreshold: p.HPThreshold,
			SpeedMult:   p.SpeedMult,
			DamageMult:  p.DamageMult,
			Message:     p.Message,
		})
	}
	for _, dr := range e.Drops {
		d.Drops = append(d.Drops, domain.DropDef{Item: dr.Item, Chance: dr.Chance, Amount: dr.Amount})
	}
	return d, nil
}

func (e exerciseYAML) toDomain() (*domain.ExerciseDef, error) {
	if e.ID == "" {
		return nil, fmt.Errorf("exercise without id")
	}
	gains, err := statBlock(e.Gains, false)
	if err != nil {
		return nil, fmt.Errorf("exercise %s gains: %w", e.ID, err)
	}
	d := &domain.ExerciseDef{
		ID:             e.ID,
		Name:           e.Name,
		Duration:       e.Duration,
		StaminaCost:    e.StaminaCost,
		Gains:          gains,
		OncePerRest:    e.OncePerRest,
		InjuryRisk:     e.InjuryRisk,
		Kata:           e.Kata,
		Unlocks:        e.Unlocks,
		StaminaRestore: e.StaminaRestore,
		FullHeal:       e.FullHeal,
		Act:            e.Act,
	}
	switch e.Tier {
	case "", "normal":
	case "limit_break":
		d.LimitBreak = true
	default:
		return nil, fmt.Errorf("exercise %s: unknown tier %q", e.ID, e.Tier)
	}
	if d.Name == "" {
		d.Name = e.ID
	}

	// Порядок ключей map случаен, а сообщения об отказе должны быть стабильны
	keys := make([]string, 0, len(e.Requires))
	for k := range e.Requires {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := e.Requires[k]
		switch {
		case k == "power_level":
			d.Requirements = append(d.Requirements, domain.Requirement{Kind: domain.RequirePowerLevel, Min: v})
		case strings.HasPrefix(k, "proficiency_"):
			d.Requirements = append(d.Requirements, domain.Requirement{
				Kind:     domain.RequireProficiency,
				Exercise: strings.TrimPrefix(k, "proficiency_"),
				Min:      v,
			})
		default:
			s, ok := domain.ParseStat(k)
			if !ok {
				return nil, fmt.Errorf("exercise %s: unknown requirement %q", e.ID, k)
			}
			d.Requirements = append(d.Requirements, domain.Requirement{Kind: domain.RequireStat, Stat: s, Min: v})
		}
	}
	return d, nil
}

func (i itemYAML) toDomain() (*domain.ItemDef, error) {
	if i.ID == "" {
		return nil, fmt.Errorf("item without id")
	}
	d := &domain.ItemDef{
		ID:                  i.ID,
		Name:                i.Name,
		Type:                i.Type,
		Value:               i.Value,
		WisdomSafeThreshold: i.WisdomSafeThreshold,
	}
	if d.Type == "" {
		d.Type = "consumable"
	}
	if d.Name == "" {
		d.Name = i.ID
	}
	if f := i.Food; f != nil {
		bonus, err := statBlock(f.StatBonus, true)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", i.ID, err)
		}
		d.Food = &domain.FoodEffect{
			Hunger:            f.Hunger,
			HP:                f.HP,
			Stamina:           f.Stamina,
			Ki:                f.Ki,
			RemoveInjuries:    f.RemoveInjuries,
			CurePoison:        f.CurePoison,
			InjuryTimerReduce: f.InjuryTimerReduce,
			StatBonus:         bonus,
			Duration:          f.Duration,
			TrainBonus:        f.TrainBonus,
			KiRegen:           f.KiRegen,
			HPRegen:           f.HPRegen,
			RegenDuration:     f.RegenDuration,
			SickChance:        f.SickChance,
			PoisonChance:      f.PoisonChance,
		}
	}
	return d, nil
}

func (i injuryYAML) toDomain(kind string) (domain.InjuryDef, error) {
	pen, err := statBlock(i.Penalties, false)
	if err != nil {
		return domain.InjuryDef{}, fmt.Errorf("injury %s: %w", kind, err)
	}
	if i.Duration <= 0 {
		return domain.InjuryDef{}, fmt.Errorf("injury %s: duration must be positive", kind)
	}
	label := i.Label
	if label == "" {
		label = kind
	}
	return domain.InjuryDef{Type: kind, Label: label, Duration: i.Duration, Penalties: pen}, nil
}

func (e encounterYAML) toDomain() (*domain.EncounterDef, error) {
	if e.ID == "" {
		return nil, fmt.Errorf("encounter without id")
	}
	t := domain.TriggerDef{
		Type:       domain.TriggerType(e.Trigger.Type),
		Zone:       e.Trigger.Zone,
		PowerLevel: e.Trigger.PL,
		Flag:       e.Trigger.Flag,
		After:      e.Trigger.After,
	}
	switch t.Type {
	case domain.TriggerZone, domain.TriggerPL:
	case domain.TriggerFlag:
		if t.Flag == "" {
			return nil, fmt.Errorf("encounter %s: flag trigger without flag", e.ID)
		}
	case domain.TriggerEvent:
		if t.After == "" {
			return nil, fmt.Errorf("encounter %s: event trigger without after", e.ID)
		}
	default:
		return nil, fmt.Errorf("encounter %s: unknown trigger %q", e.ID, e.Trigger.Type)
	}

	d := &domain.EncounterDef{
		ID:        e.ID,
		Act:       e.Act,
		Trigger:   t,
		Dialogue:  e.Dialogue,
		Training:  e.Training,
		OnWinFlag: e.OnWinFlag,
		Flag:      e.Flag,
		Required:  e.Required,
	}
	if e.Combat != nil {
		if _, err := domain.ParseWinCondition(e.Combat.WinCondition); err != nil {
			return nil, fmt.Errorf("encounter %s: %w", e.ID, err)
		}
		d.Combat = &domain.EncounterCombat{Enemies: e.Combat.Enemies, WinCondition: e.Combat.WinCondition}
	}
	return d, nil
}
