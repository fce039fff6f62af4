package dialog

import (
	"errors"
	"testing"

	"github.com/marufai/HydraCoach/internal/lexicon"
)

func TestValidateSlotNumeric(t *testing.T) {
	got, err := ValidateSlot(lexicon.SlotAge, "I am 23 years old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "23" {
		t.Errorf("canonical age = %q, want 23", got)
	}

	got, err = ValidateSlot(lexicon.SlotWeight, "72.5kg")
	if err != nil || got != "72.5" {
		t.Errorf("weight = (%q, %v), want (72.5, nil)", got, err)
	}

	if _, err := ValidateSlot(lexicon.SlotTemperature, "pretty warm"); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("expected ErrInvalidNumber, got %v", err)
	}
}

func TestValidateSlotHumidityScaleRange(t *testing.T) {
	for _, raw := range []string{"1", "2", "3", "4", "5"} {
		if _, err := ValidateSlot(lexicon.SlotHumidityScale, raw); err != nil {
			t.Errorf("humidity %q: unexpected error %v", raw, err)
		}
	}
	for _, raw := range []string{"0", "6", "-1", "100"} {
		if _, err := ValidateSlot(lexicon.SlotHumidityScale, raw); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("humidity %q: expected ErrOutOfRange, got %v", raw, err)
		}
	}
	if _, err := ValidateSlot(lexicon.SlotHumidityScale, "humid"); !errors.Is(err, ErrInvalidNumber) {
		t.Errorf("non-numeric humidity: expected ErrInvalidNumber, got %v", err)
	}
	// Fractional input truncates before the range check.
	got, err := ValidateSlot(lexicon.SlotHumidityScale, "4.7")
	if err != nil || got != "4" {
		t.Errorf("humidity 4.7 = (%q, %v), want (4, nil)", got, err)
	}
}

func TestValidateSlotEnum(t *testing.T) {
	got, err := ValidateSlot(lexicon.SlotGender, "MALE")
	if err != nil || got != "male" {
		t.Errorf("gender = (%q, %v), want (male, nil)", got, err)
	}
	if _, err := ValidateSlot(lexicon.SlotActivity, "extreme"); !errors.Is(err, ErrLookupMiss) {
		t.Errorf("expected ErrLookupMiss, got %v", err)
	}
}

func TestValidateSlotSubActivityKeepsCasing(t *testing.T) {
	got, err := ValidateSlot(lexicon.SlotSubActivity, "Intense Sports")
	if err != nil || got != "Intense Sports" {
		t.Errorf("sub_activity = (%q, %v), want verbatim", got, err)
	}
	if _, err := ValidateSlot(lexicon.SlotSubActivity, "   "); !errors.Is(err, ErrLookupMiss) {
		t.Errorf("blank sub_activity: expected ErrLookupMiss, got %v", err)
	}
}

func TestFirstMissingOrder(t *testing.T) {
	data := map[string]string{}
	slot, missing := FirstMissing(data)
	if !missing || slot != lexicon.SlotAge {
		t.Errorf("empty data: first missing = (%q, %v), want age", slot, missing)
	}

	data[lexicon.SlotAge] = "23"
	slot, _ = FirstMissing(data)
	if slot != lexicon.SlotGender {
		t.Errorf("after age: first missing = %q, want gender", slot)
	}

	// Blank and invalid values count as missing.
	data[lexicon.SlotGender] = "  "
	slot, _ = FirstMissing(data)
	if slot != lexicon.SlotGender {
		t.Errorf("blank gender should still be missing, got %q", slot)
	}
	data[lexicon.SlotGender] = "robot"
	slot, _ = FirstMissing(data)
	if slot != lexicon.SlotGender {
		t.Errorf("invalid gender should still be missing, got %q", slot)
	}
}

func TestFirstMissingNoneWhenComplete(t *testing.T) {
	data := map[string]string{
		lexicon.SlotAge:           "30",
		lexicon.SlotGender:        "male",
		lexicon.SlotWeight:        "70",
		lexicon.SlotActivity:      "high",
		lexicon.SlotSubActivity:   "Intense Sports",
		lexicon.SlotHumidityScale: "3",
		lexicon.SlotTemperature:   "28",
		lexicon.SlotComplication:  "none",
		lexicon.SlotIndoors:       "outdoors",
		lexicon.SlotGroundWet:     "no",
		lexicon.SlotWindyOrFanned: "no",
		lexicon.SlotDirectSun:     "yes",
	}
	if slot, missing := FirstMissing(data); missing {
		t.Errorf("complete data reported %q missing", slot)
	}

	// Numeric slot with a non-numeric value reverts to missing.
	data[lexicon.SlotTemperature] = "warm"
	if slot, missing := FirstMissing(data); !missing || slot != lexicon.SlotTemperature {
		t.Errorf("expected temperature missing, got (%q, %v)", slot, missing)
	}
}
