package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор бойца (Kind + Index)
type EntityID uint64

const (
	bitsIndex = 32
	bitsKind  = 8

	shiftKind = bitsIndex

	maskIndex = (1 << bitsIndex) - 1
	maskKind  = (1 << bitsKind) - 1
)

// PackEntityID создает ID из вида бойца и порядкового номера в сессии
func PackEntityID(kind CombatantKind, index uint32) EntityID {
	id := uint64(index) & maskIndex
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

func (id EntityID) Kind() CombatantKind {
	return CombatantKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Index() uint32 {
	return uint32(id & maskIndex)
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// String для логов: [ENEMY:2]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d]", id.Kind(), id.Index())
}
