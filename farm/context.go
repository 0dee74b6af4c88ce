package farm

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfidenceLevel grades how much the system trusts a piece of advice.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// Rank returns the ordinal position of the level (Low=0, Medium=1, High=2).
// Unknown values rank below Low so they never satisfy a threshold.
func (c ConfidenceLevel) Rank() int {
	switch c {
	case ConfidenceLow:
		return 0
	case ConfidenceMedium:
		return 1
	case ConfidenceHigh:
		return 2
	default:
		return -1
	}
}

// Season is an Indian agricultural season.
type Season string

const (
	SeasonKharif Season = "kharif" // monsoon crops (June-October)
	SeasonRabi   Season = "rabi"   // winter crops (October-March)
	SeasonZaid   Season = "zaid"   // summer crops (March-June)
)

// ParseSeason converts a raw value into a Season.
func ParseSeason(s string) (Season, error) {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case SeasonKharif:
		return SeasonKharif, nil
	case SeasonRabi:
		return SeasonRabi, nil
	case SeasonZaid:
		return SeasonZaid, nil
	}
	return "", fmt.Errorf("unknown season %q", s)
}

// CropStage is a crop growth stage.
type CropStage string

const (
	StageSowing      CropStage = "sowing"
	StageGermination CropStage = "germination"
	StageVegetative  CropStage = "vegetative"
	StageFlowering   CropStage = "flowering"
	StageFruiting    CropStage = "fruiting"
	StageHarvest     CropStage = "harvest"
)

// ParseCropStage converts a raw value into a CropStage.
func ParseCropStage(s string) (CropStage, error) {
	switch CropStage(strings.ToLower(strings.TrimSpace(s))) {
	case StageSowing:
		return StageSowing, nil
	case StageGermination:
		return StageGermination, nil
	case StageVegetative:
		return StageVegetative, nil
	case StageFlowering:
		return StageFlowering, nil
	case StageFruiting:
		return StageFruiting, nil
	case StageHarvest:
		return StageHarvest, nil
	}
	return "", fmt.Errorf("unknown crop stage %q", s)
}

// SoilType is a common Indian soil type.
type SoilType string

const (
	SoilAlluvial SoilType = "alluvial"
	SoilBlack    SoilType = "black"
	SoilRed      SoilType = "red"
	SoilLaterite SoilType = "laterite"
	SoilSandy    SoilType = "sandy"
	SoilClay     SoilType = "clay"
	SoilLoamy    SoilType = "loamy"
)

// ParseSoilType converts a raw value into a SoilType.
func ParseSoilType(s string) (SoilType, error) {
	switch SoilType(strings.ToLower(strings.TrimSpace(s))) {
	case SoilAlluvial:
		return SoilAlluvial, nil
	case SoilBlack:
		return SoilBlack, nil
	case SoilRed:
		return SoilRed, nil
	case SoilLaterite:
		return SoilLaterite, nil
	case SoilSandy:
		return SoilSandy, nil
	case SoilClay:
		return SoilClay, nil
	case SoilLoamy:
		return SoilLoamy, nil
	}
	return "", fmt.Errorf("unknown soil type %q", s)
}

// Context is the accumulated structured knowledge about one conversation's
// farm. Every field is optional; the zero value means everything is unknown,
// and absence is meaningful: it triggers ask-farmer prompting and blocks
// dosage-specific advice.
type Context struct {
	Location         string    `json:"location,omitempty"`
	Crop             string    `json:"crop,omitempty"`
	CropStage        CropStage `json:"crop_stage,omitempty"`
	Season           Season    `json:"season,omitempty"`
	SoilType         SoilType  `json:"soil_type,omitempty"`
	LandSizeAcres    float64   `json:"land_size_acres,omitempty"`
	IrrigationMethod string    `json:"irrigation_method,omitempty"`
	WeatherSummary   string    `json:"weather_summary,omitempty"`
}

// Field names a Context attribute. The set is closed; tools declare their
// required context in terms of these values.
type Field string

const (
	FieldLocation   Field = "location"
	FieldCrop       Field = "crop"
	FieldCropStage  Field = "crop_stage"
	FieldSeason     Field = "season"
	FieldSoilType   Field = "soil_type"
	FieldLandSize   Field = "land_size_acres"
	FieldIrrigation Field = "irrigation_method"
	FieldWeather    Field = "weather_summary"
)

// fieldPresence maps each field to its presence check, replacing the
// name-based attribute lookup the rules engine would otherwise need.
var fieldPresence = map[Field]func(Context) bool{
	FieldLocation:   func(c Context) bool { return c.Location != "" },
	FieldCrop:       func(c Context) bool { return c.Crop != "" },
	FieldCropStage:  func(c Context) bool { return c.CropStage != "" },
	FieldSeason:     func(c Context) bool { return c.Season != "" },
	FieldSoilType:   func(c Context) bool { return c.SoilType != "" },
	FieldLandSize:   func(c Context) bool { return c.LandSizeAcres > 0 },
	FieldIrrigation: func(c Context) bool { return c.IrrigationMethod != "" },
	FieldWeather:    func(c Context) bool { return c.WeatherSummary != "" },
}

// Has reports whether the named field carries a value. Unknown field names
// report absent.
func (c Context) Has(f Field) bool {
	check, ok := fieldPresence[f]
	if !ok {
		return false
	}
	return check(c)
}

// SufficientForDiagnosis reports whether crop diagnosis has enough context.
func (c Context) SufficientForDiagnosis() bool {
	return c.Crop != "" && c.CropStage != ""
}

// SufficientForDosage reports whether fertilizer/pesticide dosage advice has
// enough context.
func (c Context) SufficientForDosage() bool {
	return c.Crop != "" && c.CropStage != "" && c.LandSizeAcres > 0
}

// MissingCriticalFields returns the critical fields still unknown.
func (c Context) MissingCriticalFields() []Field {
	var missing []Field
	if c.Crop == "" {
		missing = append(missing, FieldCrop)
	}
	if c.CropStage == "" {
		missing = append(missing, FieldCropStage)
	}
	if c.Location == "" {
		missing = append(missing, FieldLocation)
	}
	return missing
}

// Rejected records a form value that could not be applied to the context.
type Rejected struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// ApplyForm merges a form submission into the context. Only recognised,
// parseable fields are applied; a bad value never rejects the whole update.
// Dropped values are reported so callers can log or surface them.
func (c Context) ApplyForm(data map[string]any) (Context, []Rejected) {
	var rejected []Rejected

	if v, ok := data["crop"]; ok {
		if s, ok := v.(string); ok && s != "" {
			c.Crop = s
		} else {
			rejected = append(rejected, Rejected{Field: "crop", Value: v})
		}
	}

	if v, ok := data["crop_stage"]; ok {
		if stage, err := ParseCropStage(asString(v)); err == nil {
			c.CropStage = stage
		} else {
			rejected = append(rejected, Rejected{Field: "crop_stage", Value: v})
		}
	}

	if v, ok := data["land_size"]; ok {
		if acres, err := asFloat(v); err == nil && acres > 0 {
			c.LandSizeAcres = acres
		} else {
			rejected = append(rejected, Rejected{Field: "land_size", Value: v})
		}
	}

	if v, ok := data["state"]; ok {
		state := asString(v)
		if state == "" {
			rejected = append(rejected, Rejected{Field: "state", Value: v})
		} else {
			location := state
			if d, ok := data["district"]; ok {
				if district := asString(d); district != "" {
					location = district + ", " + state
				}
			}
			c.Location = location
		}
	}

	if v, ok := data["soil_type"]; ok {
		if soil, err := ParseSoilType(asString(v)); err == nil {
			c.SoilType = soil
		} else {
			rejected = append(rejected, Rejected{Field: "soil_type", Value: v})
		}
	}

	if v, ok := data["season"]; ok {
		if season, err := ParseSeason(asString(v)); err == nil {
			c.Season = season
		} else {
			rejected = append(rejected, Rejected{Field: "season", Value: v})
		}
	}

	if v, ok := data["irrigation_type"]; ok {
		if s := asString(v); s != "" {
			c.IrrigationMethod = s
		} else {
			rejected = append(rejected, Rejected{Field: "irrigation_type", Value: v})
		}
	}

	return c, rejected
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}
