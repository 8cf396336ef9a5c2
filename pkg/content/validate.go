package content

import (
	"errors"
	"fmt"

	"warrior-server/internal/domain"
)

// Validate проверяет перекрестные ссылки между таблицами.
// Возвращает все найденные проблемы разом.
func (r *Registry) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for id, t := range r.enemies {
		d := t.Def
		if len(d.Attacks) == 0 {
			bad("enemy %s: empty attack pool", id)
		}
		for _, a := range d.Attacks {
			if _, ok := r.attacks[a]; !ok {
				bad("enemy %s: %w %q", id, ErrUnknownAttack, a)
			}
		}
		for _, dr := range d.Drops {
			if _, ok := r.items[dr.Item]; !ok {
				bad("enemy %s: drop of unknown item %q", id, dr.Item)
			}
			if dr.Chance < 0 || dr.Chance > 1 {
				bad("enemy %s: drop chance %v out of [0,1]", id, dr.Chance)
			}
		}
	}

	for id, e := range r.exercises {
		if e.Duration < 0 || e.StaminaCost < 0 {
			bad("exercise %s: negative duration or cost", id)
		}
		for _, req := range e.Requirements {
			if req.Exercise == "" {
				continue
			}
			if _, ok := r.exercises[req.Exercise]; !ok {
				bad("exercise %s: requires proficiency in unknown exercise %q", id, req.Exercise)
			}
		}
	}

	for id, z := range r.zones {
		for _, e := range z.Enemies {
			if _, ok := r.enemies[e]; !ok {
				bad("zone %d: %w %q", id, ErrUnknownEnemy, e)
			}
		}
		for _, ex := range z.TrainingSites {
			if _, ok := r.exercises[ex]; !ok {
				bad("zone %d: unknown exercise %q", id, ex)
			}
		}
		for _, n := range z.Next {
			if _, ok := r.zones[n]; !ok {
				bad("zone %d: link to unknown zone %d", id, n)
			}
		}
	}
	if _, ok := r.zones[0]; !ok && len(r.zones) > 0 {
		bad("zone 0 is the starting zone and must exist")
	}

	seen := make(map[string]bool, len(r.encounters))
	for _, enc := range r.encounters {
		if seen[enc.ID] {
			bad("encounter %s: duplicate id", enc.ID)
		}
		seen[enc.ID] = true
	}
	for _, enc := range r.encounters {
		if enc.Dialogue != "" {
			if _, ok := r.dialogues[enc.Dialogue]; !ok {
				bad("encounter %s: unknown dialogue %q", enc.ID, enc.Dialogue)
			}
		}
		if enc.Training != "" {
			if _, ok := r.exercises[enc.Training]; !ok {
				bad("encounter %s: unknown exercise %q", enc.ID, enc.Training)
			}
		}
		if enc.Combat != nil {
			if len(enc.Combat.Enemies) == 0 {
				bad("encounter %s: combat without enemies", enc.ID)
			}
			for _, e := range enc.Combat.Enemies {
				if _, ok := r.enemies[e]; !ok {
					bad("encounter %s: %w %q", enc.ID, ErrUnknownEnemy, e)
				}
			}
		}
		if after := enc.Trigger.After; after != "" && !seen[after] {
			bad("encounter %s: triggers after unknown encounter %q", enc.ID, after)
		}
		if _, ok := r.zones[enc.Trigger.Zone]; enc.Trigger.Type == domain.TriggerZone && !ok {
			bad("encounter %s: trigger zone %d does not exist", enc.ID, enc.Trigger.Zone)
		}
	}

	return errors.Join(errs...)
}
