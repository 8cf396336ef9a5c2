package systems

import "container/heap"

// ScheduledEvent - отложенное действие внутри боевой сессии (добивающие удары мульти-хита)
type ScheduledEvent struct {
	FireAt float64 // время сессии, когда событие срабатывает
	Seq    uint64  // порядок постановки, разрешает равные FireAt
	Fire   func()
}

// EventQueue реализует heap.Interface и хранит ScheduledEvent
type EventQueue []*ScheduledEvent

func (q EventQueue) Len() int { return len(q) }

func (q EventQueue) Less(i, j int) bool {
	// MinHeap: раньше срабатывает то, что раньше поставлено при равном времени
	if q[i].FireAt == q[j].FireAt {
		return q[i].Seq < q[j].Seq
	}
	return q[i].FireAt < q[j].FireAt
}

func (q EventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *EventQueue) Push(x interface{}) {
	*q = append(*q, x.(*ScheduledEvent))
}

func (q *EventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // избегаем утечки памяти
	*q = old[0 : n-1]
	return item
}

// Scheduler - очередь событий на часах сессии
type Scheduler struct {
	queue EventQueue
	seq   uint64
}

// Schedule ставит fn на момент at
func (s *Scheduler) Schedule(at float64, fn func()) *ScheduledEvent {
	s.seq++
	ev := &ScheduledEvent{FireAt: at, Seq: s.seq, Fire: fn}
	heap.Push(&s.queue, ev)
	return ev
}

// DrainDue выполняет все события с FireAt <= now по порядку и возвращает их число.
// Событие может поставить новое; если оно тоже уже наступило, выполнится в этом же вызове.
func (s *Scheduler) DrainDue(now float64) int {
	fired := 0
	for s.queue.Len() > 0 && s.queue[0].FireAt <= now {
		ev := heap.Pop(&s.queue).(*ScheduledEvent)
		if ev.Fire != nil {
			ev.Fire()
		}
		fired++
	}
	return fired
}

func (s *Scheduler) Len() int { return s.queue.Len() }

// Clear выбрасывает все, не выполняя
func (s *Scheduler) Clear() {
	s.queue = s.queue[:0]
	s.seq = 0
}
