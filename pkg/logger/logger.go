package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log *logrus.Logger

// Init инициализирует глобальный логгер из переменных окружения.
// Вызывается один раз в main.go и в TestMain каждого пакета.
func Init() {
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
	}
	Configure(level, os.Getenv("LOG_FORMAT"), os.Stdout)
}

// Configure пересоздает логгер с явными параметрами.
// Неизвестный уровень молча превращается в info.
func Configure(level, format string, out io.Writer) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// "json" - для продакшена, "text" - для разработки.
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(out)
}

// For возвращает запись с полем component.
// Если Init еще не вызывался (например, в утилитах), поднимаем логгер по умолчанию.
func For(component string) *logrus.Entry {
	if Log == nil {
		Init()
	}
	return Log.WithField("component", component)
}
