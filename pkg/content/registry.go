package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"warrior-server/internal/domain"
	"warrior-server/pkg/logger"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

var (
	ErrUnknownAttack = errors.New("unknown attack")
	ErrUnknownEnemy  = errors.New("unknown enemy")
)

// Имена файлов набора контента
const (
	fileAttacks   = "attacks.yaml"
	fileEnemies   = "enemies.yaml"
	fileExercises = "exercises.yaml"
	fileItems     = "items.yaml"
	fileInjuries  = "injuries.yaml"
	fileStory     = "story.yaml"
)

// Registry - весь статичный контент игры. После загрузки только читается,
// поэтому безопасен для чтения из нескольких горутин.
type Registry struct {
	attacks    map[string]*domain.AttackDescriptor
	enemies    map[string]*EnemyTemplate
	exercises  map[string]*domain.ExerciseDef
	exOrder    []string
	items      map[string]*domain.ItemDef
	injuries   map[string]domain.InjuryDef
	zones      map[int]*domain.ZoneDef
	npcs       []domain.NPCDef
	encounters []*domain.EncounterDef
	dialogues  map[string][]domain.DialogueLine
}

// Default - встроенный набор контента
func Default() (*Registry, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return parse(sub, "embedded")
}

// Load читает YAML из каталога. Файлы, которых там нет, берутся из встроенного набора.
func Load(dir string) (*Registry, error) {
	if dir == "" {
		return Default()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content dir %s: not a directory", dir)
	}
	base, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, err
	}
	return parse(overlayFS{top: os.DirFS(dir), base: base}, dir)
}

// overlayFS отдает файл из top, а если его нет - из base
type overlayFS struct {
	top, base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.top.Open(name)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return o.base.Open(name)
	}
	return nil, err
}

func decode(fsys fs.FS, name string, out any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func parse(fsys fs.FS, source string) (*Registry, error) {
	r := &Registry{
		attacks:   make(map[string]*domain.AttackDescriptor),
		enemies:   make(map[string]*EnemyTemplate),
		exercises: make(map[string]*domain.ExerciseDef),
		items:     make(map[string]*domain.ItemDef),
		injuries:  make(map[string]domain.InjuryDef),
		zones:     make(map[int]*domain.ZoneDef),
		dialogues: make(map[string][]domain.DialogueLine),
	}

	var attacks map[string]attackYAML
	if err := decode(fsys, fileAttacks, &attacks); err != nil {
		return nil, err
	}
	for name, a := range attacks {
		d, err := a.toDomain(name)
		if err != nil {
			return nil, err
		}
		r.attacks[name] = d
	}

	var injuries map[string]injuryYAML
	if err := decode(fsys, fileInjuries, &injuries); err != nil {
		return nil, err
	}
	for kind, i := range injuries {
		d, err := i.toDomain(kind)
		if err != nil {
			return nil, err
		}
		r.injuries[kind] = d
	}

	var items []itemYAML
	if err := decode(fsys, fileItems, &items); err != nil {
		return nil, err
	}
	for _, i := range items {
		d, err := i.toDomain()
		if err != nil {
			return nil, err
		}
		if _, dup := r.items[d.ID]; dup {
			return nil, fmt.Errorf("item %s: duplicate id", d.ID)
		}
		r.items[d.ID] = d
	}

	var exercises []exerciseYAML
	if err := decode(fsys, fileExercises, &exercises); err != nil {
		return nil, err
	}
	for _, e := range exercises {
		d, err := e.toDomain()
		if err != nil {
			return nil, err
		}
		if _, dup := r.exercises[d.ID]; dup {
			return nil, fmt.Errorf("exercise %s: duplicate id", d.ID)
		}
		r.exercises[d.ID] = d
		r.exOrder = append(r.exOrder, d.ID)
	}

	// Враги после атак: шаблон сразу держит готовые дескрипторы
	var enemies []enemyYAML
	if err := decode(fsys, fileEnemies, &enemies); err != nil {
		return nil, err
	}
	for _, e := range enemies {
		d, err := e.toDomain()
		if err != nil {
			return nil, err
		}
		if _, dup := r.enemies[d.ID]; dup {
			return nil, fmt.Errorf("enemy %s: duplicate id", d.ID)
		}
		t := &EnemyTemplate{Def: d}
		for _, name := range d.Attacks {
			if atk, ok := r.attacks[name]; ok {
				t.Attacks = append(t.Attacks, atk)
			}
		}
		r.enemies[d.ID] = t
	}

	var story storyYAML
	if err := decode(fsys, fileStory, &story); err != nil {
		return nil, err
	}
	for _, z := range story.Zones {
		if _, dup := r.zones[z.ID]; dup {
			return nil, fmt.Errorf("zone %d: duplicate id", z.ID)
		}
		r.zones[z.ID] = &domain.ZoneDef{
			ID:            z.ID,
			Name:          z.Name,
			Act:           z.Act,
			Enemies:       z.Enemies,
			TrainingSites: z.TrainingSites,
			LocationBonus: z.LocationBonus,
			Next:          z.Next,
		}
	}
	for _, n := range story.NPCs {
		r.npcs = append(r.npcs, domain.NPCDef{ID: n.ID, Name: n.Name, BaseRelationship: n.BaseRelationship})
	}
	for id, lines := range story.Dialogues {
		for _, l := range lines {
			r.dialogues[id] = append(r.dialogues[id], domain.DialogueLine{Speaker: l.Speaker, Text: l.Text})
		}
	}
	for _, e := range story.Encounters {
		d, err := e.toDomain()
		if err != nil {
			return nil, err
		}
		r.encounters = append(r.encounters, d)
	}

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("content %s: %w", source, err)
	}

	logger.For("content").WithFields(logrus.Fields{
		"source":     source,
		"attacks":    len(r.attacks),
		"enemies":    len(r.enemies),
		"exercises":  len(r.exercises),
		"items":      len(r.items),
		"zones":      len(r.zones),
		"encounters": len(r.encounters),
	}).Info("Content loaded")
	return r, nil
}

// --- ПОИСК ---

func (r *Registry) Attack(name string) (*domain.AttackDescriptor, error) {
	if a, ok := r.attacks[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAttack, name)
}

func (r *Registry) Enemy(id string) (*EnemyTemplate, error) {
	if t, ok := r.enemies[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEnemy, id)
}

func (r *Registry) Exercise(id string) (*domain.ExerciseDef, bool) {
	e, ok := r.exercises[id]
	return e, ok
}

// Exercises - все упражнения в порядке файла
func (r *Registry) Exercises() []*domain.ExerciseDef {
	out := make([]*domain.ExerciseDef, 0, len(r.exOrder))
	for _, id := range r.exOrder {
		out = append(out, r.exercises[id])
	}
	return out
}

// AvailableExercises - упражнения, открытые к данному акту
func (r *Registry) AvailableExercises(act int) []*domain.ExerciseDef {
	var out []*domain.ExerciseDef
	for _, id := range r.exOrder {
		if e := r.exercises[id]; e.Act <= act {
			out = append(out, e)
		}
	}
	return out
}

func (r *Registry) Item(id string) (*domain.ItemDef, bool) {
	i, ok := r.items[id]
	return i, ok
}

func (r *Registry) Injury(kind string) (domain.InjuryDef, bool) {
	i, ok := r.injuries[kind]
	return i, ok
}

func (r *Registry) Zone(id int) (*domain.ZoneDef, bool) {
	z, ok := r.zones[id]
	return z, ok
}

// ZoneIDs - id зон по возрастанию
func (r *Registry) ZoneIDs() []int {
	ids := make([]int, 0, len(r.zones))
	for id := range r.zones {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *Registry) Encounters() []*domain.EncounterDef { return r.encounters }
func (r *Registry) NPCs() []domain.NPCDef              { return r.npcs }

func (r *Registry) Dialogue(id string) ([]domain.DialogueLine, bool) {
	d, ok := r.dialogues[id]
	return d, ok
}
