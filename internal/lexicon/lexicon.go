// Package lexicon holds the static vocabulary of the hydration dialogue:
// slot names, the required slot order, text<->code mappings for enum slots,
// per-slot defaults, and permissive numeric extraction from free text.
package lexicon

import (
	"regexp"
	"strconv"
	"strings"
)

// Slot name constants. These are the keys used in session data, in request
// user_data payloads, and in ask_<slot> intent tags.
const (
	SlotAge           = "age"
	SlotGender        = "gender"
	SlotWeight        = "weight"
	SlotActivity      = "activity"
	SlotSubActivity   = "sub_activity"
	SlotHumidityScale = "humidity_scale"
	SlotTemperature   = "temperature"
	SlotComplication  = "complication"
	SlotIndoors       = "is_indoors"
	SlotGroundWet     = "is_ground_wet"
	SlotWindyOrFanned = "is_windy_or_fanned"
	SlotDirectSun     = "is_direct_sun"
)

// SlotActivityLevelInt is the derived key storing the numeric activity tier
// alongside the textual activity slot.
const SlotActivityLevelInt = "activity_level_int"

// ComplicationSevere is the encoded value of a severe health complication.
const ComplicationSevere = 2

// RequiredSlots is the fixed collection order. The first entry whose value
// is absent, blank, or invalid is the next slot the dialogue asks for.
var RequiredSlots = []string{
	SlotAge,
	SlotGender,
	SlotWeight,
	SlotActivity,
	SlotSubActivity,
	SlotHumidityScale,
	SlotTemperature,
	SlotComplication,
	SlotIndoors,
	SlotGroundWet,
	SlotWindyOrFanned,
	SlotDirectSun,
}

// CoreSlots are the fields a caller must supply in one shot to take the
// fast path straight to prediction.
var CoreSlots = []string{
	SlotAge,
	SlotGender,
	SlotWeight,
	SlotActivity,
	SlotComplication,
	SlotHumidityScale,
	SlotTemperature,
}

// Forward mappings from lowercase text to small integer codes.
var (
	GenderMap       = map[string]int{"male": 1, "female": 0}
	ActivityMap     = map[string]int{"low": 0, "medium": 1, "high": 2}
	ComplicationMap = map[string]int{"none": 0, "mild": 1, "severe": ComplicationSevere}
	IndoorsMap      = map[string]int{"no": 0, "indoors": 1, "outdoors": 0}
	WetGroundMap    = map[string]int{"no": 0, "yes": 1}
	BinaryMap       = map[string]int{"no": 0, "yes": 1}
)

// Reverse mappings from integer codes back to display text.
var (
	GenderReverse       = reverse(GenderMap)
	ActivityReverse     = reverse(ActivityMap)
	ComplicationReverse = reverse(ComplicationMap)
)

// Default codes and values used when a stored slot value fails lookup at
// prediction time.
const (
	DefaultAge           = 23
	DefaultWeight        = 40.0
	DefaultGender        = 0
	DefaultActivity      = 1
	DefaultTemperature   = 30.0
	DefaultComplication  = 0
	DefaultIndoors       = 1
	DefaultGroundWet     = 0
	DefaultWindyOrFanned = 1
	DefaultDirectSun     = 0
	DefaultHumidityScale = 3
)

// DefaultSubActivity is used when no sub-activity was recorded.
const DefaultSubActivity = "Yoga/Stretching"

// enumTables maps each enum slot to its forward table.
var enumTables = map[string]map[string]int{
	SlotGender:        GenderMap,
	SlotActivity:      ActivityMap,
	SlotComplication:  ComplicationMap,
	SlotIndoors:       IndoorsMap,
	SlotGroundWet:     WetGroundMap,
	SlotWindyOrFanned: BinaryMap,
	SlotDirectSun:     BinaryMap,
}

// numericSlots are the slots whose value must contain an extractable number.
var numericSlots = map[string]bool{
	SlotAge:           true,
	SlotWeight:        true,
	SlotTemperature:   true,
	SlotHumidityScale: true,
}

// IsNumericSlot reports whether the slot expects a numeric value.
func IsNumericSlot(slot string) bool {
	return numericSlots[slot]
}

// TableFor returns the forward enum table for a slot, if it has one.
func TableFor(slot string) (map[string]int, bool) {
	table, ok := enumTables[slot]
	return table, ok
}

// EnumCode looks up a raw value in the slot's enum table, case-insensitively.
func EnumCode(slot, raw string) (int, bool) {
	table, ok := enumTables[slot]
	if !ok {
		return 0, false
	}
	code, ok := table[strings.ToLower(strings.TrimSpace(raw))]
	return code, ok
}

// Reverse display helper for code values outside the known range.
const unknownDisplay = "N/A"

// Display returns the display text for a code in a reverse table, or "N/A"
// when the code is unknown.
func Display(table map[int]string, code int) string {
	if text, ok := table[code]; ok {
		return Capitalize(text)
	}
	return unknownDisplay
}

var numberPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ExtractNumber scans a string for its first signed decimal token and
// returns it as a float. The scan is permissive: "about 72kg" yields 72.
func ExtractNumber(s string) (float64, bool) {
	match := numberPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Capitalize upper-cases the first byte of a string for display purposes.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func reverse(m map[string]int) map[int]string {
	out := make(map[int]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
