// Package dialog implements the slot-filling dialogue state machine for
// HydraCoach: slot validation, the first-missing-slot computation, and the
// turn-by-turn engine that drives collection through to prediction.
package dialog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/marufai/HydraCoach/internal/lexicon"
)

// Validation error taxonomy. Both are recovered locally by re-prompting the
// same slot; they never abort a turn.
var (
	// ErrInvalidNumber reports that a numeric slot had no extractable number.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrOutOfRange reports a humidity scale outside [1,5].
	ErrOutOfRange = errors.New("out of range")
	// ErrLookupMiss reports an enum value not found in its lexicon table.
	// Unlike the two above it is not surfaced to the user as an error; the
	// slot is simply still missing and gets asked again.
	ErrLookupMiss = errors.New("lexicon lookup miss")
)

// ValidateSlot checks a raw input against a slot's rules and returns the
// canonical form to store.
//
// Numeric slots store the extracted number; the humidity scale additionally
// truncates and must land in [1,5]. Enum slots store the lowercased text on
// a successful table lookup. The sub-activity slot keeps its display casing
// verbatim.
func ValidateSlot(slot, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	if lexicon.IsNumericSlot(slot) {
		num, ok := lexicon.ExtractNumber(trimmed)
		if !ok {
			return "", ErrInvalidNumber
		}
		if slot == lexicon.SlotHumidityScale {
			scale := int(num)
			if scale < 1 || scale > 5 {
				return "", ErrOutOfRange
			}
			return strconv.Itoa(scale), nil
		}
		return strconv.FormatFloat(num, 'f', -1, 64), nil
	}

	if slot == lexicon.SlotSubActivity {
		if trimmed == "" {
			return "", ErrLookupMiss
		}
		return trimmed, nil
	}

	if _, ok := lexicon.EnumCode(slot, trimmed); ok {
		return strings.ToLower(trimmed), nil
	}
	return "", ErrLookupMiss
}

// FirstMissing returns the earliest required slot whose value is absent,
// blank, or fails its type/enum check, and false when every slot is
// present and valid.
func FirstMissing(data map[string]string) (string, bool) {
	for _, slot := range lexicon.RequiredSlots {
		value, ok := data[slot]
		if !ok || strings.TrimSpace(value) == "" {
			return slot, true
		}
		if lexicon.IsNumericSlot(slot) {
			if _, ok := lexicon.ExtractNumber(value); !ok {
				return slot, true
			}
			continue
		}
		if slot == lexicon.SlotSubActivity {
			continue
		}
		if _, ok := lexicon.EnumCode(slot, value); !ok {
			return slot, true
		}
	}
	return "", false
}
