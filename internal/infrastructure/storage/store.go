package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"warrior-server/internal/version"
	"warrior-server/pkg/logger"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SaveVersion - версия формата блоба. Блобы другой версии не загружаются.
const SaveVersion = version.SaveFormat

var (
	ErrNoSave         = errors.New("no save in slot")
	ErrVersion        = errors.New("unsupported save version")
	ErrEmptySlot      = errors.New("slot name is empty")
	schema            = `
		CREATE TABLE IF NOT EXISTS saves (
			slot       TEXT PRIMARY KEY,
			version    INTEGER NOT NULL,
			data       BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)`
)

// SlotInfo - запись о сохранении без самого блоба
type SlotInfo struct {
	Slot      string    `json:"slot"`
	Version   int       `json:"version"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveStore хранит по одному JSON-блобу на слот в SQLite.
type SaveStore struct {
	db  *sql.DB
	log *logrus.Entry
}

// Open открывает (или создает) файл базы и таблицу сохранений.
func Open(path string) (*SaveStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create save dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open save db: %w", err)
	}
	// Один писатель: игровой цикл
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping save db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create saves table: %w", err)
	}

	s := &SaveStore{db: db, log: logger.For("storage").WithField("path", path)}
	s.log.Info("Save store opened")
	return s, nil
}

func (s *SaveStore) Close() error {
	return s.db.Close()
}

// Save перезаписывает слот
func (s *SaveStore) Save(ctx context.Context, slot string, data []byte) error {
	if slot == "" {
		return ErrEmptySlot
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saves (slot, version, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET version = excluded.version, data = excluded.data, updated_at = excluded.updated_at`,
		slot, SaveVersion, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	s.log.WithFields(logrus.Fields{"slot": slot, "bytes": len(data)}).Info("Game saved")
	return nil
}

// Load читает слот. Пустой слот - ErrNoSave.
func (s *SaveStore) Load(ctx context.Context, slot string) ([]byte, error) {
	if slot == "" {
		return nil, ErrEmptySlot
	}
	var (
		version int
		data    []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT version, data FROM saves WHERE slot = ?`, slot).Scan(&version, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slot %s: %w", slot, ErrNoSave)
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	if version != SaveVersion {
		return nil, fmt.Errorf("slot %s version %d: %w", slot, version, ErrVersion)
	}
	return data, nil
}

// Delete удаляет слот. Удаление пустого слота не ошибка.
func (s *SaveStore) Delete(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// Slots - все сохранения, свежие первыми
func (s *SaveStore) Slots(ctx context.Context) ([]SlotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, version, length(data), updated_at FROM saves ORDER BY updated_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []SlotInfo
	for rows.Next() {
		var (
			info SlotInfo
			ts   int64
		)
		if err := rows.Scan(&info.Slot, &info.Version, &info.Size, &ts); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		info.UpdatedAt = time.Unix(ts, 0).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}
