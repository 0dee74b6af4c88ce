package tool

import (
	"context"

	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/form"
)

// MarketPriceLookup returns minimum support prices for crops.
type MarketPriceLookup struct{}

func (t *MarketPriceLookup) Definition() Definition {
	return Definition{
		Name:        "market_price_lookup",
		Description: "Get current market prices and MSP for crops",
		Parameters: []Parameter{
			{Name: "commodity", Type: "string", Description: "Crop/commodity name", Required: true},
		},
		RequiresContext: []farm.Field{farm.FieldLocation},
		MinConfidence:   farm.ConfidenceMedium,
		SafetyCritical:  false,
	}
}

func (t *MarketPriceLookup) ClarificationForm() *form.Schema { return nil }

type mspEntry struct {
	msp  int
	unit string
}

// MSP 2024-25. TODO: fetch live rates from the Agmarknet API once access
// is sorted out.
var mspData = map[string]mspEntry{
	"wheat":     {2275, "per quintal"},
	"rice":      {2300, "per quintal"},
	"cotton":    {7121, "per quintal (medium staple)"},
	"mustard":   {5650, "per quintal"},
	"sugarcane": {315, "per quintal (FRP)"},
	"maize":     {2225, "per quintal"},
	"soybean":   {4892, "per quintal"},
}

func (t *MarketPriceLookup) Execute(_ context.Context, _ farm.Context, params map[string]interface{}) (*Result, error) {
	commodity := "wheat"
	if s, ok := params["commodity"].(string); ok && s != "" {
		commodity = normalize(s)
	}

	entry, found := mspData[commodity]

	data := map[string]interface{}{
		"commodity": commodity,
		"note":      "MSP rates for 2024-25. Actual market prices may vary by location.",
		"tip":       "Check local mandi prices before selling",
	}
	if found {
		data["msp_rs"] = entry.msp
		data["unit"] = entry.unit
	} else {
		data["msp_rs"] = "Not available"
		data["unit"] = ""
	}

	confidence := farm.ConfidenceLow
	if found {
		confidence = farm.ConfidenceHigh
	}

	return &Result{
		Success:    true,
		Data:       data,
		Confidence: confidence,
	}, nil
}
