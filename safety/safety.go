// Package safety is the single place that may reject, cap, or annotate
// agricultural advice. Every function is a pure rule evaluation over its
// inputs and is safe for concurrent use.
package safety

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sweetpotato0/krishigpt/farm"
)

// Pesticides banned nationally. Partial list, expand as needed.
// Source: Central Insecticides Board & Registration Committee (CIB&RC).
var bannedChemicalsIndia = map[string]bool{
	"endosulfan":       true,
	"monocrotophos":    true,
	"phosphamidon":     true,
	"methyl parathion": true,
	"triazophos":       true,
	"dichlorvos":       true,
	"phorate":          true,
	"carbofuran":       true,
	"methomyl":         true,
	"alachlor":         true,
	"dicofol":          true,
	"mancozeb":         true, // restricted in some states
}

// State-specific restrictions, keyed by lowercase state name.
var bannedByState = map[string]map[string]bool{
	"kerala":    {"endosulfan": true, "monocrotophos": true},
	"karnataka": {"endosulfan": true},
	"punjab":    {"monocrotophos": true, "triazophos": true},
}

// Maximum safe dosages (kg/acre), conservative limits.
var maxDosageLimits = map[string]float64{
	"urea":          50,
	"dap":           25,
	"mop":           20,
	"npk":           30,
	"zinc_sulphate": 5,
	"borax":         2,
	"gypsum":        100,
}

// Pesticide concentration limits (ml or g per liter of water).
var maxPesticideConcentration = map[string]float64{
	"neem_oil":     5,
	"imidacloprid": 0.5,
	"chlorpyrifos": 2,
	"cypermethrin": 1,
	"mancozeb":     2.5,
}

// ValidateChemicalName checks a chemical against the national ban set and the
// optional state-specific set. When banned it returns a human-readable
// warning. The empty state skips the state check.
func ValidateChemicalName(chemical, state string) (bool, string) {
	name := strings.ToLower(strings.TrimSpace(chemical))

	if bannedChemicalsIndia[name] {
		return false, fmt.Sprintf("%s is BANNED in India. Do not use.", chemical)
	}

	if state != "" {
		stateBans := bannedByState[strings.ToLower(strings.TrimSpace(state))]
		if stateBans[name] {
			return false, fmt.Sprintf("%s is BANNED in %s. Do not use.", chemical, state)
		}
	}

	return true, ""
}

// DosageCheck is the outcome of a dosage validation.
type DosageCheck struct {
	Safe    bool
	Warning string
	// CappedPerAcre is the dosage advice may proceed with: the input when
	// safe, the table limit when the input exceeds it. Only meaningful when
	// Known is true; unknown chemicals have no cap and advice must not
	// proceed.
	CappedPerAcre float64
	Known         bool
}

// ValidateDosage validates a fertilizer/pesticide dosage against the
// maximum-safe-dosage table. Unknown chemical types are treated as unsafe.
func ValidateDosage(chemicalType string, kgPerAcre float64) DosageCheck {
	limit, ok := maxDosageLimits[strings.ToLower(strings.TrimSpace(chemicalType))]
	if !ok {
		return DosageCheck{
			Safe:    false,
			Warning: fmt.Sprintf("Cannot verify safe dosage for %s. Consult local agricultural officer.", chemicalType),
		}
	}

	if kgPerAcre > limit {
		return DosageCheck{
			Safe:          false,
			Warning:       fmt.Sprintf("Dosage %g kg/acre exceeds safe limit of %g kg/acre for %s.", kgPerAcre, limit, chemicalType),
			CappedPerAcre: limit,
			Known:         true,
		}
	}

	return DosageCheck{Safe: true, CappedPerAcre: kgPerAcre, Known: true}
}

// MaxConcentration returns the spray concentration limit (per liter of water)
// for a pesticide, if one is tabulated.
func MaxConcentration(pesticide string) (float64, bool) {
	limit, ok := maxPesticideConcentration[strings.ToLower(strings.TrimSpace(pesticide))]
	return limit, ok
}

// ValidateContextForTool checks that the context carries every required
// field, returning the missing ones.
func ValidateContextForTool(c farm.Context, required []farm.Field) (bool, []farm.Field) {
	var missing []farm.Field
	for _, field := range required {
		if !c.Has(field) {
			missing = append(missing, field)
		}
	}
	return len(missing) == 0, missing
}

// ShouldBlockToolExecution reports whether a tool run must be refused because
// confidence ranks strictly below the required minimum.
func ShouldBlockToolExecution(confidence, minRequired farm.ConfidenceLevel) bool {
	return confidence.Rank() < minRequired.Rank()
}

// Mandatory disclaimers for safety-critical tools.
var disclaimers = map[string]string{
	"recommend_fertilizer":   "Dosage is approximate. Soil test recommended for accurate application.",
	"pesticide_safety_check": "Always wear protective equipment. Follow label instructions.",
	"diagnose_crop_issue":    "Visual diagnosis has limitations. Consult agricultural officer for confirmation.",
}

// DisclaimerCarrier is implemented by results that can carry a safety
// disclaimer.
type DisclaimerCarrier interface {
	SetDisclaimer(text string)
}

// AddMandatoryDisclaimer attaches the fixed disclaimer for safety-critical
// tools. A no-op for tools without one.
func AddMandatoryDisclaimer(toolName string, result DisclaimerCarrier) {
	if text, ok := disclaimers[toolName]; ok && result != nil {
		result.SetDisclaimer(text)
	}
}

// ComputeConfidence scores response confidence from context completeness.
// Crop and crop stage weigh double; dosage advice without a known land size
// is always Low regardless of the score.
func ComputeConfidence(hasCrop, hasCropStage, hasLocation, hasLandSize, isDosageAdvice bool) farm.ConfidenceLevel {
	score := 0
	if hasCrop {
		score += 2
	}
	if hasCropStage {
		score += 2
	}
	if hasLocation {
		score++
	}
	if hasLandSize {
		score++
	}

	if isDosageAdvice && !hasLandSize {
		return farm.ConfidenceLow
	}

	switch {
	case score >= 5:
		return farm.ConfidenceHigh
	case score >= 3:
		return farm.ConfidenceMedium
	default:
		return farm.ConfidenceLow
	}
}

// bannedPatterns match either an already-marked occurrence or a bare banned
// chemical name. Matching the marker first keeps SanitizeResponse idempotent.
var bannedPatterns = buildBannedPatterns()

func buildBannedPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(bannedChemicalsIndia))
	for name := range bannedChemicalsIndia {
		quoted := regexp.QuoteMeta(name)
		patterns = append(patterns, regexp.MustCompile(`(?i)\[BANNED: `+quoted+`\]|`+quoted))
	}
	return patterns
}

// SanitizeResponse replaces banned chemical names found in generated text
// with a bracketed [BANNED: name] marker, preserving the original casing.
// This is a best-effort textual filter over externally generated content,
// not a guarantee of removal: substring matching can fire on partial words
// and misses paraphrases.
func SanitizeResponse(text string) string {
	for _, pattern := range bannedPatterns {
		text = pattern.ReplaceAllStringFunc(text, func(match string) string {
			if strings.HasPrefix(match, "[BANNED: ") {
				return match
			}
			return "[BANNED: " + match + "]"
		})
	}
	return text
}
