package safety

import (
	"strings"
	"testing"

	"github.com/sweetpotato0/krishigpt/farm"
)

func TestValidateChemicalName(t *testing.T) {
	tests := []struct {
		name     string
		chemical string
		state    string
		wantSafe bool
	}{
		{"nationally banned", "endosulfan", "", false},
		{"nationally banned any state", "monocrotophos", "Tamil Nadu", false},
		{"case insensitive", "ENDOSULFAN", "", false},
		{"surrounding whitespace", "  phorate  ", "", false},
		{"state ban", "triazophos", "Punjab", false},
		{"state ban case insensitive", "triazophos", "punjab", false},
		{"not banned in this state", "triazophos", "Karnataka", false}, // national list catches it
		{"safe chemical", "neem oil", "", true},
		{"safe chemical with state", "neem oil", "Kerala", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			safe, warning := ValidateChemicalName(tt.chemical, tt.state)
			if safe != tt.wantSafe {
				t.Errorf("ValidateChemicalName(%q, %q) safe = %v, want %v", tt.chemical, tt.state, safe, tt.wantSafe)
			}
			if !safe && warning == "" {
				t.Error("unsafe chemical must carry a warning")
			}
			if safe && warning != "" {
				t.Errorf("safe chemical should not warn, got %q", warning)
			}
		})
	}
}

func TestValidateChemicalNameWarningNamesState(t *testing.T) {
	// triazophos is also on the national list, so use a pair that is only
	// state-restricted relative to the ban tables.
	safe, warning := ValidateChemicalName("monocrotophos", "Punjab")
	if safe {
		t.Fatal("monocrotophos must be unsafe")
	}
	if !strings.Contains(warning, "BANNED") {
		t.Errorf("warning should say BANNED, got %q", warning)
	}
}

func TestValidateDosage(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		check := ValidateDosage("urea", 40)
		if !check.Safe {
			t.Errorf("40 kg/acre urea should be safe, warning: %q", check.Warning)
		}
		if check.CappedPerAcre != 40 {
			t.Errorf("safe dosage should pass through, got %g", check.CappedPerAcre)
		}
	})

	t.Run("at limit", func(t *testing.T) {
		check := ValidateDosage("urea", 50)
		if !check.Safe {
			t.Error("dosage equal to the limit is safe")
		}
	})

	t.Run("exceeds limit", func(t *testing.T) {
		check := ValidateDosage("urea", 80)
		if check.Safe {
			t.Error("80 kg/acre urea must be unsafe")
		}
		if !check.Known || check.CappedPerAcre != 50 {
			t.Errorf("excess dosage must be capped to 50, got known=%v cap=%g", check.Known, check.CappedPerAcre)
		}
		if check.Warning == "" {
			t.Error("excess dosage must warn")
		}
	})

	t.Run("unknown chemical", func(t *testing.T) {
		check := ValidateDosage("mystery_mix", 1)
		if check.Safe {
			t.Error("unknown chemical must be unsafe")
		}
		if check.Known {
			t.Error("unknown chemical has no cap")
		}
		if !strings.Contains(check.Warning, "Cannot verify") {
			t.Errorf("unexpected warning %q", check.Warning)
		}
	})

	t.Run("case and whitespace", func(t *testing.T) {
		check := ValidateDosage(" DAP ", 10)
		if !check.Safe {
			t.Error("10 kg/acre DAP should be safe")
		}
	})
}

func TestMaxConcentration(t *testing.T) {
	limit, ok := MaxConcentration("Imidacloprid")
	if !ok || limit != 0.5 {
		t.Errorf("MaxConcentration(imidacloprid) = %g, %v; want 0.5, true", limit, ok)
	}
	if _, ok := MaxConcentration("water"); ok {
		t.Error("water should have no tabulated limit")
	}
}

func TestValidateContextForTool(t *testing.T) {
	c := farm.Context{Crop: "wheat", Location: "Ludhiana, Punjab"}

	ok, missing := ValidateContextForTool(c, []farm.Field{farm.FieldCrop, farm.FieldLocation})
	if !ok || len(missing) != 0 {
		t.Errorf("complete context reported missing %v", missing)
	}

	ok, missing = ValidateContextForTool(c, []farm.Field{farm.FieldCrop, farm.FieldLandSize, farm.FieldCropStage})
	if ok {
		t.Error("incomplete context must not validate")
	}
	if len(missing) != 2 || missing[0] != farm.FieldLandSize || missing[1] != farm.FieldCropStage {
		t.Errorf("missing = %v, want [land_size_acres crop_stage] in required order", missing)
	}
}

func TestShouldBlockToolExecution(t *testing.T) {
	tests := []struct {
		confidence farm.ConfidenceLevel
		min        farm.ConfidenceLevel
		block      bool
	}{
		{farm.ConfidenceLow, farm.ConfidenceMedium, true},
		{farm.ConfidenceMedium, farm.ConfidenceMedium, false},
		{farm.ConfidenceHigh, farm.ConfidenceMedium, false},
		{farm.ConfidenceMedium, farm.ConfidenceHigh, true},
		{farm.ConfidenceLow, farm.ConfidenceLow, false},
	}
	for _, tt := range tests {
		if got := ShouldBlockToolExecution(tt.confidence, tt.min); got != tt.block {
			t.Errorf("ShouldBlockToolExecution(%s, %s) = %v, want %v", tt.confidence, tt.min, got, tt.block)
		}
	}
}

type fakeResult struct {
	disclaimer string
}

func (r *fakeResult) SetDisclaimer(text string) { r.disclaimer = text }

func TestAddMandatoryDisclaimer(t *testing.T) {
	var r fakeResult
	AddMandatoryDisclaimer("recommend_fertilizer", &r)
	if !strings.Contains(r.disclaimer, "Soil test recommended") {
		t.Errorf("fertilizer disclaimer missing, got %q", r.disclaimer)
	}

	var other fakeResult
	AddMandatoryDisclaimer("crop_price_lookup", &other)
	if other.disclaimer != "" {
		t.Errorf("price lookup should carry no disclaimer, got %q", other.disclaimer)
	}
}

func TestComputeConfidence(t *testing.T) {
	tests := []struct {
		name                               string
		crop, stage, location, land, dosage bool
		want                               farm.ConfidenceLevel
	}{
		{"everything known", true, true, true, true, false, farm.ConfidenceHigh},
		{"crop and stage plus location", true, true, true, false, false, farm.ConfidenceHigh},
		{"crop and stage only", true, true, false, false, false, farm.ConfidenceMedium},
		{"crop and location", true, false, true, false, false, farm.ConfidenceMedium},
		{"location only", false, false, true, false, false, farm.ConfidenceLow},
		{"nothing known", false, false, false, false, false, farm.ConfidenceLow},
		{"dosage advice without land size", true, true, true, false, true, farm.ConfidenceLow},
		{"dosage advice with land size", true, true, true, true, true, farm.ConfidenceHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeConfidence(tt.crop, tt.stage, tt.location, tt.land, tt.dosage)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputeConfidenceNeverRisesWhenFieldsDrop(t *testing.T) {
	// Removing any known field must never raise the confidence rank.
	type flags struct{ crop, stage, location, land bool }
	all := []flags{}
	for i := 0; i < 16; i++ {
		all = append(all, flags{i&1 != 0, i&2 != 0, i&4 != 0, i&8 != 0})
	}
	for _, f := range all {
		base := ComputeConfidence(f.crop, f.stage, f.location, f.land, false)
		drops := []flags{
			{false, f.stage, f.location, f.land},
			{f.crop, false, f.location, f.land},
			{f.crop, f.stage, false, f.land},
			{f.crop, f.stage, f.location, false},
		}
		for _, d := range drops {
			got := ComputeConfidence(d.crop, d.stage, d.location, d.land, false)
			if got.Rank() > base.Rank() {
				t.Errorf("dropping a field raised confidence: %+v=%s -> %+v=%s", f, base, d, got)
			}
		}
	}
}

func TestSanitizeResponse(t *testing.T) {
	t.Run("replaces banned names", func(t *testing.T) {
		got := SanitizeResponse("Spray endosulfan on the crop.")
		want := "Spray [BANNED: endosulfan] on the crop."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("preserves casing", func(t *testing.T) {
		got := SanitizeResponse("Endosulfan works well.")
		if !strings.Contains(got, "[BANNED: Endosulfan]") {
			t.Errorf("title case not preserved: %q", got)
		}
	})

	t.Run("multi word name", func(t *testing.T) {
		got := SanitizeResponse("use methyl parathion here")
		if !strings.Contains(got, "[BANNED: methyl parathion]") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("multiple occurrences", func(t *testing.T) {
		got := SanitizeResponse("phorate or phorate")
		want := "[BANNED: phorate] or [BANNED: phorate]"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		once := SanitizeResponse("Farmers still use monocrotophos and Dicofol.")
		twice := SanitizeResponse(once)
		if once != twice {
			t.Errorf("second pass changed text:\n once: %q\ntwice: %q", once, twice)
		}
	})

	t.Run("clean text untouched", func(t *testing.T) {
		clean := "Apply 25 kg urea per acre after the first irrigation."
		if got := SanitizeResponse(clean); got != clean {
			t.Errorf("clean text modified: %q", got)
		}
	})
}
