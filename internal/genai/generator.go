// Package genai implements the generation adapter: it turns a validated
// product idea into a structured specification by prompting an Ollama-hosted
// model for a JSON-only response and validating what comes back.
//
// Generation is deliberately best-effort: one model call, no retry, no
// fallback model, no caching. Any invocation or output failure surfaces as
// the single opaque spec.ErrGeneration; the cause is logged, never exposed.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specd/internal/spec"
)

// Generation uses a low temperature for consistent structure.
const generationTemperature = 0.2

// Generator produces a validated specification document from a request.
type Generator interface {
	Generate(ctx context.Context, req *spec.GenerateRequest) (*spec.AIOutput, error)
}

// Config holds generation adapter configuration.
type Config struct {
	// Host is the Ollama server URL, e.g. http://localhost:11434.
	Host string
	// Model is the model name passed to Ollama.
	Model string
	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// OllamaGenerator implements Generator against an Ollama server.
type OllamaGenerator struct {
	llm     llms.Model
	timeout time.Duration
	logger  *zap.Logger
}

// NewOllamaGenerator creates a generator for the configured Ollama server.
func NewOllamaGenerator(cfg Config, logger *zap.Logger) (*OllamaGenerator, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("ollama host is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.Host),
		ollama.WithModel(cfg.Model),
		ollama.WithFormat("json"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	return &OllamaGenerator{
		llm:     llm,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Generate prompts the model once and validates the response. Identical
// inputs always produce a fresh call; the model is non-deterministic and
// caching by input would hide that.
func (g *OllamaGenerator) Generate(ctx context.Context, req *spec.GenerateRequest) (*spec.AIOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := llms.GenerateFromSinglePrompt(ctx, g.llm, buildPrompt(req),
		llms.WithTemperature(generationTemperature))
	if err != nil {
		g.logger.Error("model invocation failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, spec.ErrGeneration
	}

	out, err := parseOutput(raw)
	if err != nil {
		g.logger.Error("model output rejected",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, spec.ErrGeneration
	}

	g.logger.Info("specification generated",
		zap.Int("stories", len(out.Stories)),
		zap.Int("milestones", len(out.Milestones)),
		zap.Duration("duration", time.Since(start)))
	return out, nil
}

// parseOutput parses and validates a raw model response. Models sometimes
// wrap JSON in markdown fences even in JSON mode; fences are stripped before
// parsing, but nothing else is repaired.
func parseOutput(raw string) (*spec.AIOutput, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var out spec.AIOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("model output failed validation: %w", err)
	}
	return &out, nil
}

var _ Generator = (*OllamaGenerator)(nil)
