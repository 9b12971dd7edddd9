package clock

import "log"

// SubscriptionID identifies one registered notification subscriber. It is
// only valid for the clock that issued it.
type SubscriptionID uint64

// subscriberList is a broadcast list that preserves subscribe order for
// delivery. There is no ordering contract across subscribers, but stable
// iteration keeps frames deterministic.
type subscriberList[T any] struct {
	nextID SubscriptionID
	order  []SubscriptionID
	subs   map[SubscriptionID]T
}

func newSubscriberList[T any]() *subscriberList[T] {
	return &subscriberList[T]{subs: make(map[SubscriptionID]T)}
}

func (l *subscriberList[T]) add(fn T) SubscriptionID {
	l.nextID++
	id := l.nextID
	l.subs[id] = fn
	l.order = append(l.order, id)

	return id
}

func (l *subscriberList[T]) remove(id SubscriptionID) bool {
	if _, ok := l.subs[id]; !ok {
		return false
	}

	delete(l.subs, id)

	for i, sid := range l.order {
		if sid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}

	return true
}

func (l *subscriberList[T]) each(visit func(fn T)) {
	// Iterate over a copy so subscribers may unsubscribe from inside
	// their own handler.
	ids := make([]SubscriptionID, len(l.order))
	copy(ids, l.order)

	for _, id := range ids {
		fn, ok := l.subs[id]
		if !ok {
			continue
		}

		visit(fn)
	}
}

// safeNotify runs one subscriber handler and isolates its failure so the
// remaining subscribers still receive the notification.
func safeNotify(logger *log.Logger, what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("%s subscriber panicked: %v", what, r)
		}
	}()

	fn()
}
