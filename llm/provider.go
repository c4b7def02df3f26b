package llm

import (
	"fmt"
	"strings"
)

// ProviderKind identifies one of the supported back-ends.
type ProviderKind string

const (
	ProviderOpenAI      ProviderKind = "openai"
	ProviderOllama      ProviderKind = "ollama"
	ProviderGroq        ProviderKind = "groq"
	ProviderHuggingFace ProviderKind = "huggingface"
	ProviderAnthropic   ProviderKind = "anthropic"
)

// ProviderKinds lists every supported back-end.
var ProviderKinds = []ProviderKind{
	ProviderOpenAI,
	ProviderOllama,
	ProviderGroq,
	ProviderHuggingFace,
	ProviderAnthropic,
}

// ParseProviderKind resolves a configured provider name. Matching is
// case-insensitive and "hf" is accepted for huggingface.
func ParseProviderKind(name string) (ProviderKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "hf" {
		return ProviderHuggingFace, nil
	}
	if kind := ProviderKind(normalized); kind.Valid() {
		return kind, nil
	}
	return "", NewConfigurationError(fmt.Sprintf("unknown LLM provider %q (supported: %s)", name, supportedList()))
}

// Valid reports whether k is one of the supported back-ends.
func (k ProviderKind) Valid() bool {
	for _, kind := range ProviderKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (k ProviderKind) String() string {
	return string(k)
}

// DisplayName is the upper-case name used in operator-facing messages.
func (k ProviderKind) DisplayName() string {
	return strings.ToUpper(string(k))
}

func supportedList() string {
	names := make([]string, len(ProviderKinds))
	for i, kind := range ProviderKinds {
		names[i] = string(kind)
	}
	return strings.Join(names, ", ")
}
