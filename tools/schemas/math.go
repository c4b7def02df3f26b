package schemas

// MathSchemas returns schemas for arithmetic tools.
func MathSchemas() map[string]ToolSchema {
	return map[string]ToolSchema{
		"calculator": {
			Description: "Perform basic mathematical calculations including addition, subtraction, multiplication, division, and more advanced operations.",
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"operation": map[string]any{
						"type":        "string",
						"enum":        []string{"add", "subtract", "multiply", "divide", "power", "sqrt", "modulo"},
						"description": "The mathematical operation to perform",
					},
					"a": map[string]any{
						"type":        "number",
						"description": "First number (or base for power/sqrt)",
					},
					"b": map[string]any{
						"type":        "number",
						"description": "Second number (or exponent for power, optional for sqrt)",
					},
				},
				"required": []string{"operation", "a"},
			},
		},
	}
}
