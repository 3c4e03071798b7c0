// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/poiesic/askit/ai"
	"github.com/poiesic/askit/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// jsonObjectPattern finds an embedded JSON object in free-form model output.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Generator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	logger      *slog.Logger
}

// structuredAnswer matches the optional JSON shape a model may embed in its
// response. Absent fields keep their plain-text defaults.
type structuredAnswer struct {
	Answer     string   `json:"answer"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	token := config.Token
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newGenerator(config)
}

// GenerateAnswer asks the chat model to answer the query from the supplied
// context chunks. An empty context set short-circuits to the canonical
// "insufficient information" answer without calling the model. The final
// confidence is capped at the mean retrieval score plus 0.3 so that weak
// context cannot produce a confident answer.
func (g *Generator) GenerateAnswer(ctx context.Context, query string, contextChunks []*core.ScoredChunk) (*ai.Answer, error) {
	if len(contextChunks) == 0 {
		return ai.Degraded("No relevant context found in processed documents."), nil
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(answerSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(query, contextChunks)),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens))
	if err != nil {
		g.logger.Error("failed to generate content", "err", err)
		return nil, err
	}
	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return ai.Degraded("Model returned no answer."), nil
	}

	answerText := strings.TrimSpace(response.Choices[0].Content)
	confidence := 0.8
	reasoning := "Answer generated based on document context."

	// Models sometimes wrap their answer in a JSON object; honor it when
	// present but never fail on malformed output.
	if match := jsonObjectPattern.FindString(answerText); match != "" {
		var structured structuredAnswer
		if err := json.Unmarshal([]byte(repairJSON(match)), &structured); err == nil {
			if structured.Answer != "" {
				answerText = structured.Answer
			}
			if structured.Confidence != nil {
				confidence = *structured.Confidence
			}
			if structured.Reasoning != "" {
				reasoning = structured.Reasoning
			}
		}
	}

	avgScore := 0.0
	for _, sc := range contextChunks {
		avgScore += sc.Score
	}
	avgScore /= float64(len(contextChunks))

	adjusted := math.Min(confidence, avgScore+0.3)

	g.logger.Debug("generated answer",
		"chunks", len(contextChunks),
		"confidence", adjusted,
		"context_quality", avgScore)

	return &ai.Answer{
		Text:           answerText,
		Confidence:     math.Round(adjusted*100) / 100,
		Reasoning:      reasoning,
		Sources:        ai.SourcesFromChunks(contextChunks),
		ContextQuality: math.Round(avgScore*1000) / 1000,
	}, nil
}
