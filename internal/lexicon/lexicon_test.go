package lexicon

import "testing"

func TestExtractNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"I am 23 years old", 23, true},
		{"about 72.5 kg", 72.5, true},
		{"-3.5 degrees", -3.5, true},
		{"+10", 10, true},
		{".5", 0.5, true},
		{"no digits here", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ExtractNumber(c.in)
		if ok != c.ok {
			t.Errorf("ExtractNumber(%q): ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ExtractNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEnumCode(t *testing.T) {
	if code, ok := EnumCode(SlotGender, "Male"); !ok || code != 1 {
		t.Errorf("gender Male: got (%d, %v), want (1, true)", code, ok)
	}
	if code, ok := EnumCode(SlotIndoors, "outdoors"); !ok || code != 0 {
		t.Errorf("is_indoors outdoors: got (%d, %v), want (0, true)", code, ok)
	}
	if _, ok := EnumCode(SlotActivity, "extreme"); ok {
		t.Errorf("activity extreme: expected lookup miss")
	}
	if _, ok := EnumCode(SlotAge, "23"); ok {
		t.Errorf("age is not an enum slot, expected miss")
	}
	if code, ok := EnumCode(SlotComplication, "  SEVERE  "); !ok || code != 2 {
		t.Errorf("complication severe with whitespace: got (%d, %v), want (2, true)", code, ok)
	}
}

func TestRequiredSlotsOrder(t *testing.T) {
	if RequiredSlots[0] != SlotAge {
		t.Errorf("first required slot = %q, want age", RequiredSlots[0])
	}
	if RequiredSlots[len(RequiredSlots)-1] != SlotDirectSun {
		t.Errorf("last required slot = %q, want is_direct_sun", RequiredSlots[len(RequiredSlots)-1])
	}
	if len(RequiredSlots) != 12 {
		t.Errorf("required slot count = %d, want 12", len(RequiredSlots))
	}
}

func TestReverseTables(t *testing.T) {
	if GenderReverse[1] != "male" || GenderReverse[0] != "female" {
		t.Errorf("gender reverse table mismatch: %v", GenderReverse)
	}
	if ActivityReverse[2] != "high" {
		t.Errorf("activity reverse table mismatch: %v", ActivityReverse)
	}
	if got := Display(ComplicationReverse, 2); got != "Severe" {
		t.Errorf("Display(complication, 2) = %q, want Severe", got)
	}
	if got := Display(ActivityReverse, 9); got != "N/A" {
		t.Errorf("Display(activity, 9) = %q, want N/A", got)
	}
}

func TestIsNumericSlot(t *testing.T) {
	for _, slot := range []string{SlotAge, SlotWeight, SlotTemperature, SlotHumidityScale} {
		if !IsNumericSlot(slot) {
			t.Errorf("expected %s to be numeric", slot)
		}
	}
	if IsNumericSlot(SlotGender) {
		t.Errorf("gender should not be numeric")
	}
}
