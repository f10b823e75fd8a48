package item

import (
	"fmt"
	"maps"
	"math"

	"github.com/dm-vev/voxeltick/server/internal/nbtconv"
)

// Enchantment is the numeric identifier of an enchantment type.
type Enchantment int16

// SilkTouch makes blocks drop themselves instead of their usual drops.
const SilkTouch Enchantment = 16

// Stack represents a stack of items. The stack shares the same item type and has a count which specifies the
// size of the stack. Stack is a value type: every modifying method returns a new Stack.
type Stack struct {
	id    ID
	meta  int16
	count int

	customName   string
	enchantments map[Enchantment]int
	data         map[string]any
}

// NewStack returns a new stack for the item ID, meta and count passed. If count is smaller than 0, 0 is used.
func NewStack(id ID, meta int16, count int) Stack {
	if count < 0 {
		count = 0
	}
	return Stack{id: id, meta: meta, count: count}
}

// ID returns the item type of the stack.
func (s Stack) ID() ID {
	return s.id
}

// Meta returns the variant value of the stack.
func (s Stack) Meta() int16 {
	return s.meta
}

// Count returns the amount of items that is present on the stack.
func (s Stack) Count() int {
	return s.count
}

// MaxCount returns the maximum count that the stack is able to hold when added to an inventory.
func (s Stack) MaxCount() int {
	return s.id.MaxCount()
}

// Empty checks if the stack is empty (has a count of 0) or holds air.
func (s Stack) Empty() bool {
	return s.count == 0 || s.id == Air
}

// Grow grows the Stack's count by n, returning the resulting Stack. If a positive number is passed, the stack
// is grown, whereas if a negative size is passed, the resulting Stack will have a lower count. The count of
// the returned Stack will never be negative.
func (s Stack) Grow(n int) Stack {
	s.count += n
	if s.count < 0 {
		s.count = 0
	}
	return s
}

// CustomName returns the custom name set for the Stack. An empty string is returned if the Stack has no
// custom name set.
func (s Stack) CustomName() string {
	return s.customName
}

// WithCustomName returns a copy of the Stack with the custom name passed.
func (s Stack) WithCustomName(name string) Stack {
	s.customName = name
	return s
}

// Enchantment returns the level of the enchantment passed, or 0 if the stack does not carry it.
func (s Stack) Enchantment(e Enchantment) int {
	return s.enchantments[e]
}

// WithEnchantment returns a copy of the Stack with the enchantment added at the level passed.
func (s Stack) WithEnchantment(e Enchantment, level int) Stack {
	s.enchantments = maps.Clone(s.enchantments)
	if s.enchantments == nil {
		s.enchantments = make(map[Enchantment]int, 1)
	}
	s.enchantments[e] = level
	return s
}

// Value returns a value previously stored on the stack using WithValue.
func (s Stack) Value(key string) (any, bool) {
	v, ok := s.data[key]
	return v, ok
}

// WithValue returns a copy of the Stack with an arbitrary value stored under the key passed. Values are
// persisted in the tag of the item and must therefore be NBT-encodable.
func (s Stack) WithValue(key string, val any) Stack {
	s.data = maps.Clone(s.data)
	if s.data == nil {
		s.data = make(map[string]any, 1)
	}
	s.data[key] = val
	return s
}

// Comparable checks if two stacks can be considered comparable. True is returned if the two stacks have an
// equal item type, meta and custom name, regardless of their count.
func (s Stack) Comparable(s2 Stack) bool {
	if s.id != s2.id || s.meta != s2.meta || s.customName != s2.customName {
		return false
	}
	return maps.Equal(s.enchantments, s2.enchantments)
}

// Equal checks if the stacks are comparable and have the same count.
func (s Stack) Equal(s2 Stack) bool {
	return s.Comparable(s2) && s.count == s2.count
}

// String implements the fmt.Stringer interface.
func (s Stack) String() string {
	return fmt.Sprintf("Stack<%v:%v>(count=%v)", s.id, s.meta, s.count)
}

// EncodeNBT encodes the stack into its persisted compound form. A count above math.MaxUint8 is stored as
// math.MaxUint8.
func (s Stack) EncodeNBT() map[string]any {
	m := map[string]any{
		"id":     int16(s.id),
		"Damage": s.meta,
		"Count":  uint8(min(s.count, math.MaxUint8)),
	}
	tag := make(map[string]any)
	if s.customName != "" {
		tag["display"] = map[string]any{"Name": s.customName}
	}
	if len(s.enchantments) > 0 {
		ench := make([]map[string]any, 0, len(s.enchantments))
		for e, lvl := range s.enchantments {
			ench = append(ench, map[string]any{"id": int16(e), "lvl": int16(lvl)})
		}
		tag["ench"] = ench
	}
	for k, v := range s.data {
		tag[k] = v
	}
	if len(tag) > 0 {
		m["tag"] = tag
	}
	return m
}

// DecodeStack decodes a Stack from the compound passed. A compound without an "id" field decodes to an empty
// stack.
func DecodeStack(m map[string]any) Stack {
	if m == nil {
		return Stack{}
	}
	s := NewStack(ID(nbtconv.Int16(m, "id")), nbtconv.Int16(m, "Damage"), int(nbtconv.Uint8(m, "Count")))
	tag := nbtconv.Map(m, "tag")
	if tag == nil {
		return s
	}
	for k, v := range tag {
		switch k {
		case "display":
			s.customName = nbtconv.String(nbtconv.Map(tag, "display"), "Name")
		case "ench":
			for _, e := range nbtconv.Slice(tag, "ench") {
				if em, ok := e.(map[string]any); ok {
					s = s.WithEnchantment(Enchantment(nbtconv.Int16(em, "id")), int(nbtconv.Int16(em, "lvl")))
				}
			}
		default:
			s = s.WithValue(k, v)
		}
	}
	return s
}
