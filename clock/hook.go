package clock

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosBeforeEventFire triggers right before a due scheduled event runs.
var HookPosBeforeEventFire = &HookPos{Name: "BeforeEventFire"}

// HookPosAfterEventFire triggers right after a due scheduled event ran,
// whether or not its callback failed.
var HookPosAfterEventFire = &HookPos{Name: "AfterEventFire"}

// HookCtx is the context that holds all the information about the site
// where a hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hook is a short piece of program that can be invoked by a hookable
// object.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable defines an object that accepts Hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// A HookableBase provides the utility functions for types that implement
// the Hookable interface.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
