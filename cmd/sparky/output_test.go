package main

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/aschepis/backscratcher/sparky/llm"
)

func TestPrintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "quota",
			err:  llm.Classify(llm.ProviderOpenAI, llm.NewStatusError(llm.ProviderOpenAI, http.StatusTooManyRequests, "", errors.New("slow down"))),
			want: []string{"OPENAI API Quota Exceeded", "OPENAI API quota exceeded", "https://platform.openai.com/usage"},
		},
		{
			name: "auth",
			err:  llm.Classify(llm.ProviderGroq, llm.NewStatusError(llm.ProviderGroq, http.StatusUnauthorized, "", errors.New("who are you"))),
			want: []string{"GROQ API Authentication Failed", "GROQ_API_KEY"},
		},
		{
			name: "unavailable",
			err:  llm.NewUnavailableError(llm.ProviderOllama, "Ollama is not reachable", "start it with: ollama serve", nil),
			want: []string{"OLLAMA Provider Unavailable", "1. start it with: ollama serve"},
		},
		{
			name: "configuration",
			err:  llm.NewConfigurationError("unknown LLM provider \"mistral\""),
			want: []string{"Configuration Error", "mistral"},
		},
		{
			name: "plain",
			err:  errors.New("something odd"),
			want: []string{"Error: something odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printError(&out, tt.err)
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestPrintTools(t *testing.T) {
	descriptors := []llm.ToolDescriptor{
		{Name: "calculator", Description: "Do math", InputSchema: map[string]any{"type": "object"}},
	}

	var table bytes.Buffer
	if err := printTools(&table, descriptors, false); err != nil {
		t.Fatalf("printTools() error = %v", err)
	}
	if !strings.Contains(table.String(), "calculator") || !strings.Contains(table.String(), "Do math") {
		t.Errorf("table output = %s", table.String())
	}

	var js bytes.Buffer
	if err := printTools(&js, descriptors, true); err != nil {
		t.Fatalf("printTools() error = %v", err)
	}
	if !strings.Contains(js.String(), `"inputSchema"`) {
		t.Errorf("json output = %s", js.String())
	}
}
