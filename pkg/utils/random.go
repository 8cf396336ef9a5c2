package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	mrand "math/rand"
)

// Roller - источник случайности для симуляции.
// *math/rand.Rand подходит напрямую, в тестах используется Sequence.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

// NewRoller создает детерминированный генератор от сида.
func NewRoller(seed int64) Roller {
	return mrand.New(mrand.NewSource(seed))
}

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// GenerateDeterministicID нужен там, где ID должен повторяться при одинаковом сиде.
func GenerateDeterministicID(r Roller, prefix string) string {
	return fmt.Sprintf("%s_%08x", prefix, r.Intn(1<<31-1))
}

// StringToSeed превращает строку (имя слота, токен) в сид.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() & (1<<63 - 1))
}

// Chance возвращает true с вероятностью p.
func Chance(r Roller, p float64) bool {
	if p <= 0 {
		return false
	}
	return r.Float64() < p
}

// Pick выбирает случайный элемент. Для пустого слайса возвращает нулевое значение.
func Pick[T any](r Roller, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.Intn(len(items))]
}

// Sequence - предсказуемый Roller: отдает значения по кругу.
// Intn берет следующее значение и масштабирует его в [0, n).
type Sequence struct {
	values []float64
	pos    int
}

func NewSequence(values ...float64) *Sequence {
	if len(values) == 0 {
		values = []float64{0.5}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(s.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
