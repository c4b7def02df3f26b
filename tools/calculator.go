package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/aschepis/backscratcher/sparky/llm"
)

// RegisterMathTools registers the calculator tool.
func (r *Registry) RegisterMathTools() {
	r.registerBuiltin("calculator", calculator)
}

func calculator(ctx context.Context, args json.RawMessage) (llm.ToolResult, error) {
	var payload struct {
		Operation string   `json:"operation"`
		A         *float64 `json:"a"`
		B         *float64 `json:"b"`
	}
	if err := decodeArgs(args, &payload); err != nil {
		return nil, err
	}

	if payload.A == nil {
		return llm.NewToolFailure("First number (a) is required"), nil
	}
	a := *payload.A

	var (
		result float64
		msg    string
	)
	missingB := func(what string) bool {
		if payload.B == nil {
			msg = "Second number (b) is required for " + what
			return true
		}
		return false
	}

	switch payload.Operation {
	case "add":
		if !missingB("addition") {
			result = a + *payload.B
		}
	case "subtract":
		if !missingB("subtraction") {
			result = a - *payload.B
		}
	case "multiply":
		if !missingB("multiplication") {
			result = a * *payload.B
		}
	case "divide":
		switch {
		case missingB("division"):
		case *payload.B == 0:
			msg = "Division by zero is not allowed"
		default:
			result = a / *payload.B
		}
	case "power":
		if payload.B == nil {
			msg = "Exponent (b) is required for power operation"
		} else {
			result = math.Pow(a, *payload.B)
		}
	case "sqrt":
		if a < 0 {
			msg = "Cannot calculate square root of negative number"
		} else {
			result = math.Sqrt(a)
		}
	case "modulo":
		switch {
		case missingB("modulo operation"):
		case *payload.B == 0:
			msg = "Modulo by zero is not allowed"
		default:
			result = math.Mod(a, *payload.B)
		}
	default:
		msg = "Unknown operation: " + payload.Operation
	}
	if msg != "" {
		return llm.NewToolFailure(msg), nil
	}

	b := payload.B
	if payload.Operation == "sqrt" {
		b = nil
	}
	return llm.ToolResult{
		"success":   true,
		"result":    result,
		"operation": describeOperation(payload.Operation, a, b),
	}, nil
}

// describeOperation renders e.g. "add(2, 3)" or "sqrt(16)".
func describeOperation(op string, a float64, b *float64) string {
	if b == nil {
		return fmt.Sprintf("%s(%s)", op, formatNumber(a))
	}
	return fmt.Sprintf("%s(%s, %s)", op, formatNumber(a), formatNumber(*b))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
