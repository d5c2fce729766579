package light

import (
	"errors"
	"fmt"

	"github.com/shini4i/lights-daemon/internal/brightness"
)

var (
	// ErrEmptyPriority is returned when no notification types are configured.
	ErrEmptyPriority = errors.New("notification priority list is empty")
	// ErrDuplicateType is returned when a type appears twice in the priority list.
	ErrDuplicateType = errors.New("duplicate notification type")
	// ErrFallbackMissing is returned when the fallback type is not in the priority list.
	ErrFallbackMissing = errors.New("fallback type not in priority list")
	// ErrBacklightNotification is returned when the backlight is listed as a notification type.
	ErrBacklightNotification = errors.New("backlight cannot be a notification type")
)

// DefaultPriority is the notification scan order used unless configured
// otherwise. The fallback sits last so any lit type ahead of it wins.
var DefaultPriority = []Type{TypeAttention, TypeNotifications, TypeBattery}

// Entry pairs a notification type with its last requested state.
type Entry struct {
	Type  Type
	State State
}

// Arbiter decides which notification type drives the shared RGB LED.
//
// Entries are kept in a fixed priority order. Every update rescans from
// the top and stops at the first entry that is either the fallback type
// or lit. Arbiter is not safe for concurrent use; Controller serializes it.
type Arbiter struct {
	entries  []Entry
	fallback Type
}

// NewArbiter creates an arbiter with every type in priority order starting off.
func NewArbiter(priority []Type, fallback Type) (*Arbiter, error) {
	if len(priority) == 0 {
		return nil, ErrEmptyPriority
	}

	seen := make(map[Type]bool, len(priority))
	entries := make([]Entry, 0, len(priority))
	for _, t := range priority {
		if t == TypeBacklight {
			return nil, ErrBacklightNotification
		}
		if seen[t] {
			return nil, fmt.Errorf("%s: %w", t, ErrDuplicateType)
		}
		seen[t] = true
		entries = append(entries, Entry{Type: t})
	}

	if !seen[fallback] {
		return nil, fmt.Errorf("%s: %w", fallback, ErrFallbackMissing)
	}

	return &Arbiter{entries: entries, fallback: fallback}, nil
}

// Types returns the notification types in priority order.
func (a *Arbiter) Types() []Type {
	types := make([]Type, len(a.entries))
	for i, e := range a.entries {
		types[i] = e.Type
	}
	return types
}

// Fallback returns the type shown when nothing ahead of it is lit.
func (a *Arbiter) Fallback() Type {
	return a.fallback
}

// Has reports whether t is one of the arbitrated notification types.
func (a *Arbiter) Has(t Type) bool {
	for _, e := range a.entries {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Update stores state for t and returns the entry that now drives the LED.
func (a *Arbiter) Update(t Type, state State) (Entry, error) {
	found := false
	for i := range a.entries {
		if a.entries[i].Type == t {
			a.entries[i].State = state
			found = true
			break
		}
	}
	if !found {
		return Entry{}, fmt.Errorf("%s: %w", t, ErrUnsupported)
	}

	return a.Active(), nil
}

// Active returns the entry currently driving the LED.
func (a *Arbiter) Active() Entry {
	active, _ := SelectActive(a.entries, a.fallback)
	return active
}

// SelectActive scans entries in order and returns the first one that is
// the fallback type or has a lit color. The boolean is false when no
// entry qualifies, which cannot happen if fallback is among entries.
func SelectActive(entries []Entry, fallback Type) (Entry, bool) {
	for _, e := range entries {
		if e.Type == fallback || brightness.IsLit(e.State.Color) {
			return e, true
		}
	}
	return Entry{}, false
}
