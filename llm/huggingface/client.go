// Package huggingface talks to the Hugging Face hosted inference API.
//
// The API has no native tool calling, so the tool catalogue is written into the
// system prompt and tool requests are recovered from the generated text.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aschepis/backscratcher/sparky/llm"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL      = "https://api-inference.huggingface.co/models"
	DefaultModel        = "meta-llama/Meta-Llama-3-8B-Instruct"
	defaultMaxNewTokens = 500
)

// HuggingFaceClient implements llm.Provider for the hosted inference API.
type HuggingFaceClient struct {
	BaseURL    string
	HTTPClient *http.Client

	apiKey string
	model  string
	logger zerolog.Logger
}

// NewHuggingFaceClient creates a new HuggingFaceClient. Empty baseURL and model select the defaults.
func NewHuggingFaceClient(apiKey, baseURL, model string, logger zerolog.Logger) *HuggingFaceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &HuggingFaceClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey: apiKey,
		model:  model,
		logger: logger.With().Str("component", "llm").Str("provider", string(llm.ProviderHuggingFace)).Logger(),
	}
}

// Kind implements llm.Provider.
func (c *HuggingFaceClient) Kind() llm.ProviderKind {
	return llm.ProviderHuggingFace
}

// Initialize implements llm.Provider.
func (c *HuggingFaceClient) Initialize(ctx context.Context) error {
	if c.apiKey == "" {
		return llm.NewUnavailableError(llm.ProviderHuggingFace,
			"Hugging Face API key is not configured",
			"get a token at https://huggingface.co/settings/tokens and set HUGGINGFACE_API_KEY",
			nil)
	}
	c.logger.Info().Str("model", c.model).Msg("Hugging Face provider initialized")
	return nil
}

// FormatTools implements llm.Provider. The descriptors themselves are the
// native form since they are rendered into the prompt.
func (c *HuggingFaceClient) FormatTools(tools []llm.ToolDescriptor) any {
	if len(tools) == 0 {
		return nil
	}
	return tools
}

type generateRequest struct {
	Inputs     generateInputs     `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateInputs struct {
	Text         string `json:"text"`
	SystemPrompt string `json:"system_prompt"`
}

type generateParameters struct {
	ReturnFullText bool `json:"return_full_text"`
	MaxNewTokens   int  `json:"max_new_tokens"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

// ChatCompletion implements llm.Provider.
func (c *HuggingFaceClient) ChatCompletion(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	payload := generateRequest{
		Inputs: generateInputs{
			Text:         ConversationText(req.Messages),
			SystemPrompt: SystemPrompt(req.Messages, req.Tools),
		},
		Parameters: generateParameters{
			ReturnFullText: false,
			MaxNewTokens:   defaultMaxNewTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", c.BaseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().Str("url", url).Int("tools", len(req.Tools)).Msg("Sending generation request")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, llm.NewProviderError(llm.ProviderHuggingFace, "huggingface request failed", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Body close error can be ignored

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.NewProviderError(llm.ProviderHuggingFace, "failed to read huggingface response", err)
	}

	if resp.StatusCode >= 400 {
		return nil, llm.NewStatusError(llm.ProviderHuggingFace, resp.StatusCode,
			fmt.Sprintf("Hugging Face API error (%d): %s", resp.StatusCode, errorMessage(respBytes, resp.Status)),
			nil)
	}

	content, err := ExtractContent(respBytes)
	if err != nil {
		return nil, llm.NewProviderError(llm.ProviderHuggingFace, "failed to decode huggingface response", err)
	}

	return &llm.Response{
		Content:   content,
		ToolCalls: ExtractToolCalls(content),
	}, nil
}

// errorMessage pulls the "error" field out of an error body, falling back to the status text.
func errorMessage(body []byte, status string) string {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return status
}

// ExtractContent reads generated text from either response shape the API
// uses: a list of generations or a single object.
func ExtractContent(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", nil
	}

	if trimmed[0] == '[' {
		var gens []generation
		if err := json.Unmarshal(trimmed, &gens); err != nil {
			return "", err
		}
		if len(gens) == 0 {
			return "", nil
		}
		return gens[0].GeneratedText, nil
	}

	var gen generation
	if err := json.Unmarshal(trimmed, &gen); err != nil {
		return "", err
	}
	return gen.GeneratedText, nil
}

// Ensure HuggingFaceClient implements llm.Provider
var _ llm.Provider = (*HuggingFaceClient)(nil)
