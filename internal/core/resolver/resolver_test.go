package resolver

import (
	"regexp"
	"testing"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func fixedExtractor(amount float64, unit string) catalog.Extractor {
	return catalog.ExtractorFunc(func(string) (model.DoseAmount, bool) {
		return model.DoseAmount{Amount: amount, Unit: unit}, true
	})
}

func failingExtractor(calls *int) catalog.Extractor {
	return catalog.ExtractorFunc(func(string) (model.DoseAmount, bool) {
		if calls != nil {
			*calls++
		}
		return model.DoseAmount{}, false
	})
}

func entry(id, pattern string, extractor catalog.Extractor) *catalog.Entry {
	return &catalog.Entry{
		ID:        id,
		Patterns:  []*regexp.Regexp{regexp.MustCompile(pattern)},
		Extractor: extractor,
	}
}

func mustCatalog(t *testing.T, entries ...*catalog.Entry) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(entries)
	require.NoError(t, err)
	return c
}

func TestResolveMentionPercocet(t *testing.T) {
	r := New(catalog.MustDefault())

	dose := r.ResolveMention("e1", t0, "Percocet 5-325 (1 tablet)")

	assert.True(t, dose.IsConfigured)
	assert.Equal(t, "percocet", dose.MedicationID)
	assert.Equal(t, "Percocet", dose.DisplayName)
	require.NotNil(t, dose.Amount)
	assert.Equal(t, 5.0, *dose.Amount)
	assert.Equal(t, "mg oxy", dose.Unit)
	require.NotNil(t, dose.ActiveDurationHours)
	assert.Equal(t, 4.0, *dose.ActiveDurationHours)
	assert.Equal(t, "purple", dose.Theme)
	assert.Equal(t, t0, dose.Timestamp)
	assert.Equal(t, "e1", dose.EntryID)
}

func TestResolveMentionUnconfigured(t *testing.T) {
	r := New(catalog.MustDefault())

	// Matches the Tylenol pattern but carries no amount, so the cascade falls through
	dose := r.ResolveMention("e1", t0, "Tylenol Extra Strength")

	assert.False(t, dose.IsConfigured)
	assert.Equal(t, "unconfigured_tylenol_extra_strength", dose.MedicationID)
	assert.Equal(t, "Tylenol Extra Strength", dose.DisplayName)
	assert.Nil(t, dose.Amount)
	assert.Equal(t, "", dose.Unit)
	assert.Nil(t, dose.ActiveDurationHours)
	assert.Equal(t, model.DefaultTheme, dose.Theme)
}

func TestResolveMentionFirstSuccessWins(t *testing.T) {
	secondCalls := 0
	c := mustCatalog(t,
		entry("first", `(?i)pain`, fixedExtractor(1, "mg")),
		entry("second", `(?i)pain`, catalog.ExtractorFunc(func(string) (model.DoseAmount, bool) {
			secondCalls++
			return model.DoseAmount{Amount: 2, Unit: "mg"}, true
		})),
	)

	dose := New(c).ResolveMention("e", t0, "pain pill")

	assert.Equal(t, "first", dose.MedicationID)
	assert.Equal(t, 0, secondCalls, "scanning must stop at the first successful entry")
}

func TestResolveMentionContinuesAfterFailedExtraction(t *testing.T) {
	firstCalls := 0
	c := mustCatalog(t,
		entry("first", `(?i)pain`, failingExtractor(&firstCalls)),
		entry("unrelated", `(?i)cough`, fixedExtractor(9, "ml")),
		entry("second", `(?i)pain`, fixedExtractor(2, "mg")),
	)

	dose := New(c).ResolveMention("e", t0, "pain pill")

	assert.Equal(t, 1, firstCalls)
	assert.True(t, dose.IsConfigured)
	assert.Equal(t, "second", dose.MedicationID)
	assert.Equal(t, 2.0, *dose.Amount)
}

func TestResolveMentionAllExtractionsFail(t *testing.T) {
	c := mustCatalog(t,
		entry("first", `(?i)pain`, failingExtractor(nil)),
		entry("second", `(?i)pain`, failingExtractor(nil)),
	)

	dose := New(c).ResolveMention("e", t0, "  Pain Pill!  ")

	assert.False(t, dose.IsConfigured)
	assert.Equal(t, "unconfigured_pain_pill_", dose.MedicationID)
	assert.Equal(t, "Pain Pill!", dose.DisplayName)
}

func TestResolveMentionRecoversPanickingExtractor(t *testing.T) {
	c := mustCatalog(t,
		entry("broken", `(?i)pain`, catalog.ExtractorFunc(func(string) (model.DoseAmount, bool) {
			panic("bad rule")
		})),
		entry("working", `(?i)pain`, fixedExtractor(3, "mg")),
	)

	var dose model.ParsedDose
	require.NotPanics(t, func() {
		dose = New(c).ResolveMention("e", t0, "pain pill")
	})
	assert.Equal(t, "working", dose.MedicationID)
}

func TestResolveMentionRejectsNonFiniteAmount(t *testing.T) {
	c := mustCatalog(t,
		entry("nan", `(?i)pain`, catalog.ExtractorFunc(func(string) (model.DoseAmount, bool) {
			var zero float64
			return model.DoseAmount{Amount: zero / zero, Unit: "mg"}, true
		})),
	)

	dose := New(c).ResolveMention("e", t0, "pain")
	assert.False(t, dose.IsConfigured)
}

func TestResolveMentionDefaultDuration(t *testing.T) {
	c := mustCatalog(t, entry("plain", `(?i)plain`, fixedExtractor(1, "mg")))

	dose := New(c).ResolveMention("e", t0, "plain 1mg")

	require.NotNil(t, dose.ActiveDurationHours)
	assert.Equal(t, model.DefaultActiveDurationHours, *dose.ActiveDurationHours)
}

func TestResolveEntry(t *testing.T) {
	r := New(catalog.MustDefault())

	doses := r.ResolveEntry(model.LogEntry{
		ID:        "e1",
		Timestamp: t0,
		RawText:   "Tylenol 650mg + Advil 400mg, mystery tea",
	})

	require.Len(t, doses, 3)
	assert.Equal(t, "tylenol", doses[0].MedicationID)
	assert.Equal(t, 650.0, *doses[0].Amount)
	assert.Equal(t, "ibuprofen", doses[1].MedicationID)
	assert.Equal(t, 400.0, *doses[1].Amount)
	assert.Equal(t, "unconfigured_mystery_tea", doses[2].MedicationID)
	for _, d := range doses {
		assert.Equal(t, "e1", d.EntryID)
		assert.Equal(t, t0, d.Timestamp)
	}

	assert.Empty(t, r.ResolveEntry(model.LogEntry{ID: "e2", Timestamp: t0, RawText: "   "}))
}

func TestResolveAllKeepsOrder(t *testing.T) {
	r := New(catalog.MustDefault())

	doses := r.ResolveAll([]model.LogEntry{
		{ID: "a", Timestamp: t0, RawText: "Advil 200mg"},
		{ID: "b", Timestamp: t0.Add(time.Hour), RawText: ""},
		{ID: "c", Timestamp: t0.Add(2 * time.Hour), RawText: "Tylenol 325mg"},
	})

	require.Len(t, doses, 2)
	assert.Equal(t, "a", doses[0].EntryID)
	assert.Equal(t, "c", doses[1].EntryID)
}

func TestUnconfiguredID(t *testing.T) {
	tests := map[string]string{
		"Tylenol Extra Strength":  "unconfigured_tylenol_extra_strength",
		"  spaced   out  ":        "unconfigured_spaced_out",
		"Vit-D3 (2000 IU)":        "unconfigured_vit_d3_2000_iu_",
		"ALL CAPS":                "unconfigured_all_caps",
		"élan":                    "unconfigured__lan",
	}
	for in, want := range tests {
		assert.Equal(t, want, UnconfiguredID(in), in)
	}
}
