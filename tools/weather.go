package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aschepis/backscratcher/sparky/llm"
)

// RegisterInfoTools registers the weather and datetime tools.
func (r *Registry) RegisterInfoTools() {
	r.registerBuiltin("weather", weather(time.Now))
	r.registerBuiltin("datetime", datetime(time.Now))
}

// weather returns canned conditions for any location. It does not call a real service.
func weather(now func() time.Time) ToolHandler {
	return func(ctx context.Context, args json.RawMessage) (llm.ToolResult, error) {
		var payload struct {
			Location string `json:"location"`
			Units    string `json:"units"`
		}
		if err := decodeArgs(args, &payload); err != nil {
			return nil, err
		}

		if strings.TrimSpace(payload.Location) == "" {
			return llm.NewToolFailure("Location is required"), nil
		}
		units := payload.Units
		if units == "" {
			units = "celsius"
		}
		if units != "celsius" && units != "fahrenheit" {
			return llm.NewToolFailure("Unknown units: " + units), nil
		}

		temperature := 22
		if units == "fahrenheit" {
			temperature = 72
		}

		return llm.ToolResult{
			"success": true,
			"data": map[string]any{
				"location":    payload.Location,
				"temperature": temperature,
				"condition":   "Partly Cloudy",
				"humidity":    65,
				"windSpeed":   15,
				"units":       units,
				"timestamp":   now().UTC().Format(time.RFC3339),
			},
			"note": "This is mock data. Replace with actual weather API integration in production.",
		}, nil
	}
}
