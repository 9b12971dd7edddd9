package persistence

import (
	"fmt"
	"sync"

	"github.com/frostline/gameclock/clock"
)

// Constructor rebuilds a live callback from persisted parameters.
type Constructor func(params map[string]any) (clock.Callback, error)

// Factory maps stable event-type tags to callback constructors. It is the
// collaborator that gives persisted scheduled events their behavior back
// at load time; the clock itself never serializes executable code.
type Factory struct {
	lock         sync.RWMutex
	constructors map[string]Constructor
}

// NewFactory creates an empty event factory.
func NewFactory() *Factory {
	return &Factory{constructors: make(map[string]Constructor)}
}

// Register adds a constructor under an event-type tag. Registering the
// same tag twice is an error.
func (f *Factory) Register(eventType string, ctor Constructor) error {
	if eventType == "" {
		return fmt.Errorf("event type must not be empty")
	}

	if ctor == nil {
		return fmt.Errorf("constructor for %q must not be nil", eventType)
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.constructors[eventType]; ok {
		return fmt.Errorf("event type %q already registered", eventType)
	}

	f.constructors[eventType] = ctor

	return nil
}

// Create rebuilds a callback for the given event-type tag.
func (f *Factory) Create(
	eventType string,
	params map[string]any,
) (clock.Callback, error) {
	f.lock.RLock()
	ctor, ok := f.constructors[eventType]
	f.lock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("event type %q not registered", eventType)
	}

	callback, err := ctor(params)
	if err != nil {
		return nil, fmt.Errorf("rebuilding %q event: %w", eventType, err)
	}

	if callback == nil {
		return nil, fmt.Errorf("constructor for %q returned nil", eventType)
	}

	return callback, nil
}

// Types returns the registered event-type tags.
func (f *Factory) Types() []string {
	f.lock.RLock()
	defer f.lock.RUnlock()

	types := make([]string, 0, len(f.constructors))
	for t := range f.constructors {
		types = append(types, t)
	}

	return types
}
