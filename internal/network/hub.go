package network

import (
	"sync"

	"warrior-server/pkg/api"
)

// Broadcaster занимается только рассылкой снимков подписчикам (зрителям)
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ID сессии -> Личный канал
	subscribers map[string]chan api.ServerResponse
	dropped     uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register создает личный канал для зрителя. Повторная регистрация закрывает старый канал.
func (b *Broadcaster) Register(id string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// SendTo отправляет сообщение конкретному ID (Unicast)
func (b *Broadcaster) SendTo(id string, msg api.ServerResponse) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subscribers[id]
	if !ok {
		return false
	}
	return b.offer(ch, msg)
}

// Broadcast отправляет всем. Медленный зритель теряет кадр, цикл не ждет.
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		b.offer(ch, msg)
	}
}

func (b *Broadcaster) offer(ch chan api.ServerResponse, msg api.ServerResponse) bool {
	select {
	case ch <- msg:
		return true
	default:
		b.dropped++
		return false
	}
}

func (b *Broadcaster) HasSubscriber(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped - сколько кадров не влезло в каналы зрителей
func (b *Broadcaster) Dropped() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}
