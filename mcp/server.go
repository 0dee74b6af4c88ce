// Package mcp exposes the krishi tool registry as a Model Context Protocol
// server. Each tool's arguments combine its own parameters with optional
// farm-context fields; results are the same execution envelope the API
// layer returns, including the requires-form shape on missing context.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sweetpotato0/krishigpt/controller"
	"github.com/sweetpotato0/krishigpt/farm"
)

// contextArgs carries the optional farm context accepted by every tool.
type contextArgs struct {
	Location         string  `json:"location,omitempty" jsonschema:"Farmer location as district and state, e.g. Ludhiana, Punjab"`
	Crop             string  `json:"crop,omitempty" jsonschema:"Crop being grown, e.g. wheat"`
	CropStage        string  `json:"crop_stage,omitempty" jsonschema:"Growth stage: sowing, germination, vegetative, flowering, fruiting or harvest"`
	Season           string  `json:"season,omitempty" jsonschema:"Season: kharif, rabi or zaid"`
	SoilType         string  `json:"soil_type,omitempty" jsonschema:"Soil type: alluvial, black, red, laterite, sandy, clay or loamy"`
	LandSizeAcres    float64 `json:"land_size_acres,omitempty" jsonschema:"Land size in acres"`
	IrrigationMethod string  `json:"irrigation_method,omitempty" jsonschema:"Irrigation method, e.g. drip, flood, sprinkler"`
}

// farmContext converts the raw argument fields into a typed context.
// Unparseable enum values are dropped, matching form-merge behaviour.
func (a contextArgs) farmContext() farm.Context {
	fc := farm.Context{
		Location:         a.Location,
		Crop:             a.Crop,
		LandSizeAcres:    a.LandSizeAcres,
		IrrigationMethod: a.IrrigationMethod,
	}
	if stage, err := farm.ParseCropStage(a.CropStage); err == nil {
		fc.CropStage = stage
	}
	if season, err := farm.ParseSeason(a.Season); err == nil {
		fc.Season = season
	}
	if soil, err := farm.ParseSoilType(a.SoilType); err == nil {
		fc.SoilType = soil
	}
	return fc
}

// NewServer builds an MCP server over the controller's tool registry.
func NewServer(name, version string, ctrl *controller.Controller) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    name,
		Version: version,
		Title:   "KrishiGPT farm advisory tools",
	}, nil)

	addDiagnoseTool(server, ctrl)
	addFertilizerTool(server, ctrl)
	addPesticideTool(server, ctrl)
	addIrrigationTool(server, ctrl)
	addWeatherTool(server, ctrl)
	addPriceTool(server, ctrl)
	addSoilTool(server, ctrl)

	return server
}

// run executes a registry tool and renders the envelope as a JSON text
// result. A requires-form envelope is a normal result, not a protocol error.
func run(ctx context.Context, ctrl *controller.Controller, toolName string, fc farm.Context, params map[string]any) (*sdkmcp.CallToolResult, any, error) {
	env, err := ctrl.ExecuteTool(ctx, toolName, fc, params)
	if err != nil {
		return nil, nil, fmt.Errorf("execute %s: %w", toolName, err)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s result: %w", toolName, err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func addDiagnoseTool(server *sdkmcp.Server, ctrl *controller.Controller) {
	type args struct {
		contextArgs
		Symptoms     []string `json:"symptoms" jsonschema:"Observed symptoms, e.g. yellow_leaves, brown_spots, wilting, insects"`
		AffectedArea string   `json:"affected_area,omitempty" jsonschema:"Which part of the plant is affected"`
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "diagnose_crop_issue",
		Description: "Diagnose crop problems from symptoms; requires crop and growth stage context",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, a args) (*sdkmcp.CallToolResult, any, error) {
		params := map[string]any{"symptoms": a.Symptoms}
		if a.AffectedArea != "" {
			params["affected_area"] = a.AffectedArea
		}
		return run(ctx, ctrl, "diagnose_crop_issue", a.farmContext(), params)
	})
}

func addFertilizerTool(server *sdkmcp.Server, ctrl *controller.Controller) {
	type args struct {
		contextArgs
		TargetNutrient string `json:"target_nutrient,omitempty" jsonschema:"N/P/K or specific nutrient"`
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recommend_fertilizer",
		Description: "Recommend fertilizer dosages scaled to land size, capped at safe limits; requires crop, stage and land size context",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, a args) (*sdkmcp.CallToolResult, any, error) {
		params := map[string]any{}
		if a.TargetNutrient != "" {
			params["target_nutrient"] = a.TargetNutrient
		}
		return run(ctx, ctrl, "recommend_fertilizer", a.farmContext(), params)
	})
}

func addPesticideTool(server *sdkmcp.Server, ctrl *controller.Controller) {
	type args struct {
		contextArgs
		PesticideName string `json:"pesticide_name" jsonschema:"Name of the pesticide to check"`
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "pesticide_safety_check",
		Description: "Check whether a pesticide is banned nationally or in the farmer's state; requires location context",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, a args) (*sdkmcp.CallToolResult, any, error) {
		return run(ctx, ctrl, "pesticide_safety_check", a.farmContext(), map[string]any{
			"pesticide_name": a.PesticideName,
		})
	})
}

func addIrrigationTool(server *sdkmcp.Server, ctrl *controller.Controller) {
	type args struct {
		contextArgs
		IrrigationType string `json:"irrigation_type,omitempty" jsonschema:"drip, flood or sprinkler"`
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "irrigation_schedule",
		Description: "Suggest an irrigation interval for the crop and stage; requires crop and stage context",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, a args) (*sdkmcp.CallToolResult, any, error) {
		params := map[string]any{}
		if a.IrrigationType != "" {
			params["irrigation_type"] = a.IrrigationType
		}
		return run(ctx, ctrl, "irrigation_schedule", a.farmContext(), params)
	})
}

func addWeatherTool(server *sdkmcp.Server, ctrl *controller.Controller) {
	type args struct {
		contextArgs
		WeatherEvent string `json:"weather_event,omitempty" jsonschema:"rain, heat, cold or storm"`
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "weather_based_advice",
		Description: "Give do/don't advice for a weather event; requires crop context",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, a args) (*sdkmcp.CallToolResult, any, error) {
		params := map[string]any{}
		if a.WeatherEvent != "" {
			params["weather_event"] = a.WeatherEvent
		}
		return run(ctx, ctrl, "weather_based_advice", a.farmContext(), params)
	})
}

func addPriceTool(server *sdkmcp.Server, ctrl *controller.Controller) {
	type args struct {
		contextArgs
		Commodity string `json:"commodity" jsonschema:"Crop or commodity name, e.g. wheat"`
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "market_price_lookup",
		Description: "Look up the minimum support price for a commodity; requires location context",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, a args) (*sdkmcp.CallToolResult, any, error) {
		return run(ctx, ctrl, "market_price_lookup", a.farmContext(), map[string]any{
			"commodity": a.Commodity,
		})
	})
}

func addSoilTool(server *sdkmcp.Server, ctrl *controller.Controller) {
	type args struct {
		contextArgs
		PHLevel       float64 `json:"ph_level,omitempty" jsonschema:"Soil pH if known"`
		OrganicMatter string  `json:"organic_matter,omitempty" jsonschema:"low, medium or high"`
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "soil_health_analysis",
		Description: "Analyze soil properties and suitable crops; requires soil type context",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, a args) (*sdkmcp.CallToolResult, any, error) {
		params := map[string]any{}
		if a.PHLevel > 0 {
			params["ph_level"] = a.PHLevel
		}
		if a.OrganicMatter != "" {
			params["organic_matter"] = a.OrganicMatter
		}
		return run(ctx, ctrl, "soil_health_analysis", a.farmContext(), params)
	})
}
