package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// WinKind - вариант условия победы
type WinKind uint8

const (
	WinAllEnemiesDead WinKind = iota
	WinSurvive
	WinLast
	WinLandHits
	WinReduceStamina
)

// WinCondition - явное условие победы сессии. Нулевое значение - "все враги повержены".
type WinCondition struct {
	Kind   WinKind
	Target float64
}

// ParseWinCondition разбирает строку из контента:
// "", "none", "survive_10", "survive_10_turns", "last_30_sec", "land_10_hits", "reduce_stamina_50pct".
// Суффиксы turns/sec/seconds считаются секундами.
func ParseWinCondition(s string) (WinCondition, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return WinCondition{}, nil
	}
	if strings.HasPrefix(s, "reduce_stamina") {
		return WinCondition{Kind: WinReduceStamina, Target: 0.5}, nil
	}

	parts := strings.Split(s, "_")
	if len(parts) < 2 {
		return WinCondition{}, fmt.Errorf("unknown win condition %q", s)
	}
	n, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || n <= 0 {
		return WinCondition{}, fmt.Errorf("win condition %q: bad amount", s)
	}

	switch parts[0] {
	case "survive":
		return WinCondition{Kind: WinSurvive, Target: n}, nil
	case "last":
		return WinCondition{Kind: WinLast, Target: n}, nil
	case "land":
		return WinCondition{Kind: WinLandHits, Target: n}, nil
	}
	return WinCondition{}, fmt.Errorf("unknown win condition %q", s)
}

func (w WinCondition) String() string {
	switch w.Kind {
	case WinSurvive:
		return fmt.Sprintf("survive_%g", w.Target)
	case WinLast:
		return fmt.Sprintf("last_%g", w.Target)
	case WinLandHits:
		return fmt.Sprintf("land_%g_hits", w.Target)
	case WinReduceStamina:
		return "reduce_stamina_50pct"
	}
	return "none"
}
