package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/geffen-cloud/vintner/internal/domain"
	"github.com/geffen-cloud/vintner/internal/metrics"
	searchuc "github.com/geffen-cloud/vintner/internal/usecase/search"
)

// extractorPrompt instructs the model to emit machine-readable filters.
// The pipeline treats the output as untrusted enrichment, never as a
// replacement for deterministic matches.
const extractorPrompt = `You extract structured retail filters from free-text product queries.
Queries may mix English and Hebrew. Respond with a single JSON object:
{
  "types": [],        // product class: wine, whiskey, vodka, gin, beer, liqueur
  "categories": [],   // color/sub-class: red, white, rose, sparkling
  "countries": [],    // English country names, lowercase
  "regions": [],
  "grapes": [],       // English grape variety names, lowercase
  "sweetness": [],    // dry, semi-dry, sweet, semi-sweet, brut
  "soft_tags": [],    // other preferences: fruity, oak, light, organic...
  "kosher": null,     // true, false, or null when unmentioned
  "min_price": null,
  "max_price": null,
  "confidence": 0.0,  // 0..1
  "language": ""      // dominant query language, ISO 639-1
}
Omit nothing; use empty arrays and nulls. No text outside the JSON object.`

// Extractor is the NER fallback backed by the chat completions API.
type Extractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// ExtractorConfig holds the NER provider settings.
type ExtractorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewExtractor creates an OpenAI-compatible entity extractor.
func NewExtractor(cfg *ExtractorConfig) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Extractor{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// nerResponse mirrors the JSON contract in extractorPrompt.
type nerResponse struct {
	Types      []string `json:"types"`
	Categories []string `json:"categories"`
	Countries  []string `json:"countries"`
	Regions    []string `json:"regions"`
	Grapes     []string `json:"grapes"`
	Sweetness  []string `json:"sweetness"`
	SoftTags   []string `json:"soft_tags"`
	Kosher     *bool    `json:"kosher"`
	MinPrice   *float64 `json:"min_price"`
	MaxPrice   *float64 `json:"max_price"`
	Confidence float64  `json:"confidence"`
	Language   string   `json:"language"`
}

// Extract implements search.EntityExtractor.
func (e *Extractor) Extract(ctx context.Context, text string) (searchuc.Extraction, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractorPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ExtractorRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
		return searchuc.Extraction{}, fmt.Errorf("ner completion: %w: %w", domain.ErrExtractorError, err)
	}

	if len(resp.Choices) == 0 {
		metrics.ExtractorRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
		return searchuc.Extraction{}, fmt.Errorf("empty ner response: %w", domain.ErrExtractorError)
	}

	var parsed nerResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		metrics.ExtractorRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
		return searchuc.Extraction{}, fmt.Errorf("parse ner response: %w: %w", domain.ErrExtractorError, err)
	}

	metrics.ExtractorRequestsTotal.WithLabelValues(providerName, e.model, "success").Inc()
	metrics.ExtractorRequestDuration.WithLabelValues(providerName, e.model).Observe(duration.Seconds())

	return searchuc.Extraction{
		Filters: domain.Filters{
			Types:      parsed.Types,
			Categories: parsed.Categories,
			Countries:  parsed.Countries,
			Regions:    parsed.Regions,
			Grapes:     parsed.Grapes,
			Sweetness:  parsed.Sweetness,
			SoftTags:   parsed.SoftTags,
			Kosher:     parsed.Kosher,
			MinPrice:   parsed.MinPrice,
			MaxPrice:   parsed.MaxPrice,
		},
		Confidence: parsed.Confidence,
		Language:   parsed.Language,
	}, nil
}
