package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"warrior-server/internal/domain"
	"warrior-server/internal/engine"
	"warrior-server/internal/systems"
	"warrior-server/pkg/content"
	"warrior-server/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "pl":
		printPowerLevels()
	case "gains":
		printGains()
	case "combo":
		printCombo()
	case "sim":
		if len(os.Args) < 3 {
			fmt.Println("Usage: balance sim <enemy_id> [fights]")
			return
		}
		n := 20
		if len(os.Args) > 3 {
			v, err := strconv.Atoi(os.Args[3])
			if err != nil || v <= 0 {
				fmt.Printf("Invalid fight count: %s\n", os.Args[3])
				return
			}
			n = v
		}
		if err := simulate(os.Args[2], n); err != nil {
			fmt.Printf("Simulation failed: %v\n", err)
			os.Exit(1)
		}
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Balance - таблицы баланса
Commands:
  pl                     - уровень силы для типовых раскладов статов
  gains                  - убывающая отдача тренировок
  combo                  - пороги комбо, множители и подписи
  sim <enemy> [fights]   - прогнать бои бота против врага (по умолчанию 20)`)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func printPowerLevels() {
	spreads := []struct {
		name                   string
		str, spd, end, tec, ki float64
	}{
		{"start", 1, 1, 1, 0, 0},
		{"brawler", 10, 4, 8, 2, 0},
		{"runner", 4, 12, 6, 2, 0},
		{"balanced", 8, 8, 8, 8, 8},
		{"ki adept", 5, 6, 5, 10, 20},
		{"act 3", 30, 30, 30, 25, 25},
	}
	w := newTable()
	fmt.Fprintln(w, "spread\tSTR\tSPD\tEND\tTEC\tKI\tPL")
	for _, s := range spreads {
		pl := domain.PowerLevelFor(s.str, s.spd, s.end, s.tec, s.ki)
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t%d\n", s.name, s.str, s.spd, s.end, s.tec, s.ki, pl)
	}
	w.Flush()
}

func printGains() {
	raws := []float64{0.5, 1, 2}
	w := newTable()
	fmt.Fprint(w, "current")
	for _, r := range raws {
		fmt.Fprintf(w, "\traw %.1f", r)
	}
	fmt.Fprintln(w)
	for _, cur := range []float64{1, 5, 10, 20, 40, 80} {
		fmt.Fprintf(w, "%.0f", cur)
		for _, r := range raws {
			fmt.Fprintf(w, "\t%.3f", domain.DiminishedGain(r, cur))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func printCombo() {
	w := newTable()
	fmt.Fprintln(w, "hits\tmultiplier\tlabel\tcolor")
	for _, n := range domain.ComboThresholds {
		fmt.Fprintf(w, "%d\tx%.2f\t%s\t%s\n", n, systems.ComboMultiplier(n), systems.ComboLabel(n), systems.ComboColor(n))
	}
	w.Flush()
}

// simulate гоняет бои бота через ту же оболочку, что и сервер
func simulate(enemyID string, fights int) error {
	logger.Configure("warn", "", os.Stderr)
	reg, err := content.Default()
	if err != nil {
		return err
	}

	var won, lost int
	var duration, combo float64
	for i := 0; i < fights; i++ {
		cfg := engine.NewConfig()
		cfg.Seed = int64(i + 1)
		g := engine.NewGame(cfg, reg, nil)
		g.Update(cfg.MaxDelta)
		if err := g.StartFight(enemyID, ""); err != nil {
			return err
		}
		// 10 минут игрового времени - потолок одного боя
		for step := 0; step < 12000 && g.Screen() == engine.ScreenCombat; step++ {
			g.Update(cfg.MaxDelta)
		}
		if g.Screen() == engine.ScreenCombat {
			g.Abort()
			continue
		}
		switch g.LastRewards.Result {
		case domain.ResultWin:
			won++
		case domain.ResultLoss:
			lost++
		}
		duration += g.LastCombat.FightDuration
		combo += float64(g.LastCombat.ComboMax)
	}

	w := newTable()
	fmt.Fprintln(w, "enemy\tfights\twon\tlost\tavg time\tavg max combo")
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1fs\t%.1f\n", enemyID, fights, won, lost, duration/float64(fights), combo/float64(fights))
	return w.Flush()
}
