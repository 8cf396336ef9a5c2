package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"warrior-server/internal/domain"
	"warrior-server/internal/engine"
	"warrior-server/internal/infrastructure/storage"
	"warrior-server/internal/server"
	"warrior-server/internal/version"
	"warrior-server/pkg/content"
	"warrior-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	log := logger.For("main")

	// 1. Конфигурация: умолчания, затем окружение, затем флаги
	cfg := engine.NewConfig()
	if err := cfg.FromEnv(); err != nil {
		log.WithError(err).Fatal("Bad environment")
	}

	var (
		seed       int64
		difficulty string
		noSave     bool
		resume     bool
	)
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 keeps env/random)")
	flag.StringVar(&difficulty, "difficulty", string(cfg.Difficulty), "easy | normal | hard | master")
	flag.StringVar(&cfg.SavePath, "save", cfg.SavePath, "SQLite save file")
	flag.StringVar(&cfg.SaveSlot, "slot", cfg.SaveSlot, "Save slot")
	flag.StringVar(&cfg.ContentDir, "content", cfg.ContentDir, "Directory with YAML overrides")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.BoolVar(&noSave, "nosave", false, "Disable saving")
	flag.BoolVar(&resume, "resume", false, "Load the save slot on start")
	flag.Parse()

	if seed != 0 {
		cfg.Seed = seed
	}
	d, ok := domain.ParseDifficulty(difficulty)
	if !ok {
		log.WithField("difficulty", difficulty).Fatal("Unknown difficulty")
	}
	cfg.Difficulty = d

	log.Info("Starting Warrior server...")
	log.Info(version.String())
	log.WithFields(logrus.Fields{"seed": cfg.Seed, "difficulty": cfg.Difficulty}).Info("Config ready")

	// 2. Контент и хранилище
	reg, err := content.Load(cfg.ContentDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to load content")
	}

	var store *storage.SaveStore
	if !noSave {
		store, err = storage.Open(cfg.SavePath)
		if err != nil {
			log.WithError(err).Fatal("Failed to open save store")
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Ядро. nil-указатель нельзя класть в интерфейс, иначе проверка store != nil ломается.
	var saves engine.SaveStore
	var lister server.SlotLister
	if store != nil {
		saves, lister = store, store
	}
	svc := engine.NewService(cfg, reg, saves)
	if resume {
		if err := svc.Game.LoadGame(ctx, ""); err != nil {
			if !errors.Is(err, storage.ErrNoSave) {
				log.WithError(err).Fatal("Failed to resume")
			}
			log.Warn("Nothing to resume, starting fresh")
		}
	}
	loopDone := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(loopDone)
	}()

	// 4. HTTP до сигнала
	srv := server.New(svc, lister, cfg.Port)
	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Error("Server error")
		stop()
	}
	<-loopDone

	// Финальное сохранение. В бою или на тренировке оно не пройдет, это нормально.
	if store != nil {
		if err := svc.Game.SaveGame(context.Background(), ""); err != nil {
			log.WithError(err).Warn("Final save skipped")
		}
	}
	log.Info("Done.")
}
