package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aschepis/backscratcher/sparky/agent"
	"github.com/aschepis/backscratcher/sparky/llm"
)

const separator = "----------------------------------------"

func printResult(out io.Writer, result *agent.QueryResult) {
	fmt.Fprintln(out, "\n=== AI Agent Response ===")
	fmt.Fprintln(out, result.Response)
	fmt.Fprintln(out, "\n=== Metadata ===")
	fmt.Fprintf(out, "Messages: %d, Tool Calls: %d\n", result.Messages, result.ToolCalls)
}

func printReplResult(out io.Writer, result *agent.QueryResult) {
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, "Response:")
	fmt.Fprintln(out, result.Response)
	if result.ToolCalls > 0 {
		fmt.Fprintf(out, "\nUsed %d tool(s)\n", result.ToolCalls)
	}
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out)
}

func printTools(out io.Writer, descriptors []llm.ToolDescriptor, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(descriptors)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	for _, d := range descriptors {
		fmt.Fprintf(w, "%s\t%s\n", d.Name, d.Description)
	}
	return w.Flush()
}

// remediation lists the steps printed for quota and authentication failures.
var remediation = map[llm.ErrorType]map[llm.ProviderKind][]string{
	llm.ErrorTypeQuotaExceeded: {
		llm.ProviderOpenAI:      {"Check your usage at https://platform.openai.com/usage", "Upgrade your plan if needed", "Wait for your quota to reset"},
		llm.ProviderGroq:        {"Check your limits at https://console.groq.com/settings/limits", "Wait for your quota to reset"},
		llm.ProviderHuggingFace: {"Check your usage at https://huggingface.co/settings/billing", "Wait for your quota to reset"},
		llm.ProviderAnthropic:   {"Check your usage at https://console.anthropic.com/settings/usage", "Wait for your quota to reset"},
	},
	llm.ErrorTypeAuthFailed: {
		llm.ProviderOpenAI:      {"Check your .env file has OPENAI_API_KEY set", "Verify your API key is correct", "Get a new key at https://platform.openai.com/api-keys"},
		llm.ProviderGroq:        {"Check your .env file has GROQ_API_KEY set", "Get a new key at https://console.groq.com/keys"},
		llm.ProviderHuggingFace: {"Check your .env file has HUGGINGFACE_API_KEY set", "Get a new token at https://huggingface.co/settings/tokens"},
		llm.ProviderAnthropic:   {"Check your .env file has ANTHROPIC_API_KEY set", "Get a new key at https://console.anthropic.com/settings/keys"},
	},
}

// printError prints err with a headline for its category and any
// remediation steps that apply.
func printError(out io.Writer, err error) {
	var llmErr *llm.Error
	if !errors.As(err, &llmErr) {
		fmt.Fprintf(out, "\nError: %v\n\n", err)
		return
	}

	fmt.Fprintf(out, "\n%s\n", headline(llmErr))
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, err.Error())

	steps := remediation[llmErr.Type][llmErr.Provider]
	if llmErr.Hint != "" {
		steps = append([]string{llmErr.Hint}, steps...)
	}
	if len(steps) > 0 {
		fmt.Fprintln(out, "\nTo resolve this:")
		for i, step := range steps {
			fmt.Fprintf(out, "   %d. %s\n", i+1, step)
		}
	}
	fmt.Fprintln(out)
}

func headline(e *llm.Error) string {
	name := e.Provider.DisplayName()
	switch e.Type {
	case llm.ErrorTypeQuotaExceeded:
		return name + " API Quota Exceeded"
	case llm.ErrorTypeAuthFailed:
		return name + " API Authentication Failed"
	case llm.ErrorTypeProviderUnavailable:
		return name + " Provider Unavailable"
	case llm.ErrorTypeConfiguration:
		return "Configuration Error"
	default:
		return strings.TrimSpace(name + " Error")
	}
}
