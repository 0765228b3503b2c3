package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"
)

// Slot names one unit of durable local state. The key strings match the
// ones already present in stored browser sessions.
type Slot string

const (
	SlotAuth          Slot = "nutiai_auth"
	SlotUser          Slot = "nutiai_user"
	SlotBaseGoal      Slot = "nutiai_base_goal"
	SlotMeals         Slot = "nutiai_meals"
	SlotSavedDiets    Slot = "nutiai_saved_diets"
	SlotSavedWorkouts Slot = "nutiai_saved_workouts"
	SlotActiveDietID  Slot = "nutiai_active_diet_id"
)

// AllSlots is the complete slot set.
var AllSlots = []Slot{SlotAuth, SlotUser, SlotBaseGoal, SlotMeals, SlotSavedDiets, SlotSavedWorkouts, SlotActiveDietID}

var ErrUnknownSlot = errors.New("unknown slot")

func (s Slot) Valid() bool {
	for _, known := range AllSlots {
		if s == known {
			return true
		}
	}
	return false
}

// raw slots hold a bare string instead of JSON text.
func (s Slot) raw() bool {
	return s == SlotAuth || s == SlotActiveDietID
}

// Change is one write inside an atomic batch. Delete removes the key.
type Change struct {
	Key    string
	Value  string
	Delete bool
}

// KV is the durable key-value storage the slots live in.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	// Apply commits every change or none of them.
	Apply(changes ...Change) error
}

// Slots reads and writes typed values to a KV. Reads never fail: absent
// or unreadable data is reported as absent.
type Slots struct {
	kv  KV
	log hclog.Logger
}

func NewSlots(kv KV, logger hclog.Logger) *Slots {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Slots{kv: kv, log: logger.Named("slots")}
}

// Load decodes the slot into v and reports whether a usable value was found.
// Raw slots decode into a *string.
func (s *Slots) Load(slot Slot, v any) bool {
	if !slot.Valid() {
		s.log.Warn("load of unknown slot", "slot", slot)
		return false
	}
	text, ok, err := s.kv.Get(string(slot))
	if err != nil {
		s.log.Warn("slot read failed, using defaults", "slot", slot, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if slot.raw() {
		if p, isString := v.(*string); isString {
			*p = text
			return true
		}
	}
	target := reflect.ValueOf(v)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		s.log.Warn("load into a non-pointer", "slot", slot, "type", fmt.Sprintf("%T", v))
		return false
	}
	// Decode into a fresh value so a half-decoded slot never reaches v.
	fresh := reflect.New(target.Type().Elem())
	if err := json.Unmarshal([]byte(text), fresh.Interface()); err != nil {
		s.log.Warn("slot holds corrupt data, treating as absent", "slot", slot, "error", err)
		return false
	}
	target.Elem().Set(fresh.Elem())
	return true
}

// Entry is one slot write for Write. A Clear entry deletes the slot.
type Entry struct {
	Slot  Slot
	Value any
	Clear bool
}

func (s *Slots) encode(e Entry) (Change, error) {
	if !e.Slot.Valid() {
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownSlot, e.Slot)
	}
	if e.Clear {
		return Change{Key: string(e.Slot), Delete: true}, nil
	}
	if e.Slot.raw() {
		if text, ok := e.Value.(string); ok {
			return Change{Key: string(e.Slot), Value: text}, nil
		}
	}
	data, err := json.Marshal(e.Value)
	if err != nil {
		return Change{}, fmt.Errorf("failed to encode slot %s: %w", e.Slot, err)
	}
	return Change{Key: string(e.Slot), Value: string(data)}, nil
}

// Write encodes all entries and stores them in a single batch.
func (s *Slots) Write(entries ...Entry) error {
	changes := make([]Change, 0, len(entries))
	for _, e := range entries {
		c, err := s.encode(e)
		if err != nil {
			return err
		}
		changes = append(changes, c)
	}
	if err := s.kv.Apply(changes...); err != nil {
		return fmt.Errorf("failed to write %d slots: %w", len(changes), err)
	}
	return nil
}

func (s *Slots) Save(slot Slot, v any) error {
	return s.Write(Entry{Slot: slot, Value: v})
}

func (s *Slots) Clear(slot Slot) error {
	return s.Write(Entry{Slot: slot, Clear: true})
}
