package schemas

// InfoSchemas returns schemas for informational tools.
func InfoSchemas() map[string]ToolSchema {
	return map[string]ToolSchema{
		"weather": {
			Description: "Get current weather information for a specific location. Returns temperature, conditions, and other weather data.",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": `City name or location (e.g., "San Francisco", "New York, NY")`,
					},
					"units": map[string]any{
						"type":        "string",
						"enum":        []string{"celsius", "fahrenheit"},
						"default":     "celsius",
						"description": "Temperature units",
					},
				},
				"required": []string{"location"},
			},
		},
		"datetime": {
			Description: "Get the current date, time, or datetime information. Always includes the day of the week (e.g., 'Friday').",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"format": map[string]any{
						"type":        "string",
						"enum":        []string{"date", "time", "datetime", "iso", "timestamp", "mmddyyyy", "ddmmyyyy"},
						"default":     "datetime",
						"description": "Format to return: 'date' (like 'January 2, 2026'), 'time' (HH:MM:SS), 'datetime', 'iso' (ISO 8601), 'timestamp' (Unix seconds), 'mmddyyyy' (MM-DD-YYYY) or 'ddmmyyyy' (DD-MM-YYYY)",
					},
					"timezone": map[string]any{
						"type":        "string",
						"description": "IANA timezone (e.g., 'America/New_York', 'UTC', 'Europe/London'). Defaults to the server's timezone.",
					},
				},
			},
		},
	}
}
