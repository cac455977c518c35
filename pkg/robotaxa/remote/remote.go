// Package remote classifies entities through an OpenAI-compatible chat
// completion endpoint. It is the model-backed implementation of the same
// capability the rule classifier provides: one entity in, a structured
// classification or a structured failure out. It never returns a Go error
// per entity, so a batch never aborts on one bad record.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/robotaxa/robotaxa/pkg/robotaxa"
	"github.com/robotaxa/robotaxa/pkg/robotaxa/taxonomy"
)

// Missing is the sentinel filled into any required response field the model
// left out.
const Missing = "MISSING"

// temperature keeps the model's label choices near-deterministic.
const temperature = 0.2

const systemPrompt = "You are a robotic classification assistant. " +
	"Classify the robot described by the user into the taxonomy fields requested. " +
	"Respond with a single JSON object and nothing else."

// Classification is the exact ten-field single-label schema the endpoint
// must return. Every field carries one chosen label except
// application_species, which is a list.
type Classification struct {
	Name               string   `json:"name"`
	URL                string   `json:"url"`
	Domain             string   `json:"domain"`
	Kingdom            string   `json:"kingdom"`
	MorphoMotionClass  string   `json:"morpho_motion_class"`
	Order              string   `json:"order"`
	SensingFamily      string   `json:"sensing_family"`
	ActuationGenus     string   `json:"actuation_genus"`
	CognitionClass     string   `json:"cognition_class"`
	ApplicationSpecies []string `json:"application_species"`
}

// Failure captures a per-entity classification failure: the error
// description plus, when one exists, the raw unparsed response.
type Failure struct {
	Message     string `json:"error"`
	RawResponse string `json:"raw_response,omitempty"`
}

// Result pairs one entity with its outcome: exactly one of Classification or
// Failure is set.
type Result struct {
	Entity         robotaxa.Entity `json:"entity"`
	Classification *Classification `json:"classification,omitempty"`
	Failure        *Failure        `json:"failure,omitempty"`
}

// Config holds the endpoint settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// Classifier calls the endpoint. Construct with New.
type Classifier struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// New creates a remote classifier. BaseURL is optional; when empty the
// client talks to the default OpenAI endpoint.
func New(cfg Config) *Classifier {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Classify classifies one entity. Network, API and parse failures come back
// as a structured Failure, never as a Go error. Required fields the model
// omitted are force-filled with the Missing sentinel.
func (c *Classifier) Classify(ctx context.Context, e robotaxa.Entity) Result {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(e)},
		},
	})
	if err != nil {
		return Result{Entity: e, Failure: &Failure{Message: apiErrorMessage(err)}}
	}
	if len(resp.Choices) == 0 {
		return Result{Entity: e, Failure: &Failure{Message: "empty completion response"}}
	}

	raw := resp.Choices[0].Message.Content
	var parsed Classification
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return Result{Entity: e, Failure: &Failure{
			Message:     fmt.Sprintf("malformed response: %v", err),
			RawResponse: raw,
		}}
	}

	fillMissing(&parsed, e)
	return Result{Entity: e, Classification: &parsed}
}

// ClassifyAll classifies a batch in input order. Per-entity failures are
// logged and carried in the results; the batch always completes.
func (c *Classifier) ClassifyAll(ctx context.Context, entities []robotaxa.Entity) []Result {
	results := make([]Result, len(entities))
	for i, e := range entities {
		results[i] = c.Classify(ctx, e)
		if results[i].Failure != nil {
			c.logger.Warn("remote classification failed",
				zap.Int("position", i),
				zap.String("name", e.Name),
				zap.String("error", results[i].Failure.Message))
		}
	}
	return results
}

// Profile implements robotaxa.Profiler: the chosen labels are lifted onto
// the taxonomy levels at confidence 1.0 — a single-label choice, not
// keyword evidence, so it sits outside the rule scorer's {0.8, 0.5} range.
func (c *Classifier) Profile(ctx context.Context, e robotaxa.Entity) robotaxa.ProfileResult {
	result := c.Classify(ctx, e)
	if result.Failure != nil {
		return robotaxa.ProfileResult{Failure: &robotaxa.ProfileFailure{
			Message:     result.Failure.Message,
			RawResponse: result.Failure.RawResponse,
		}}
	}
	return robotaxa.ProfileResult{Levels: result.Classification.Levels()}
}

// Levels maps the ten-field schema onto the eight taxonomy levels. Fields
// still holding the Missing sentinel are skipped; the engine completes the
// absent levels with their per-level fallback categories.
func (r *Classification) Levels() robotaxa.Classification {
	levels := make(robotaxa.Classification)
	lift := func(level, label string) {
		if label == "" || label == Missing {
			return
		}
		levels[level] = map[string]float64{label: 1.0}
	}
	lift(taxonomy.LevelDomain, r.Domain)
	lift(taxonomy.LevelKingdom, r.Kingdom)
	lift(taxonomy.LevelPhylum, r.MorphoMotionClass)
	lift(taxonomy.LevelClass, r.CognitionClass)
	lift(taxonomy.LevelOrder, r.Order)
	lift(taxonomy.LevelFamily, r.SensingFamily)
	lift(taxonomy.LevelGenus, r.ActuationGenus)

	species := make(map[string]float64, len(r.ApplicationSpecies))
	for _, label := range r.ApplicationSpecies {
		if label != "" && label != Missing {
			species[label] = 1.0
		}
	}
	if len(species) > 0 {
		levels[taxonomy.LevelSpecies] = species
	}
	return levels
}

func buildPrompt(e robotaxa.Entity) string {
	var b strings.Builder
	b.WriteString("Classify this robot and return JSON with exactly these fields: ")
	b.WriteString(`name, url, domain, kingdom, morpho_motion_class, order, ` +
		`sensing_family, actuation_genus, cognition_class, application_species (a list).`)
	b.WriteString("\n\nRobot:\n")
	writeField(&b, "name", e.Name)
	writeField(&b, "url", e.URL)
	writeField(&b, "description", e.Description)
	writeField(&b, "category", e.Category)
	writeField(&b, "manufacturer", e.Manufacturer)
	if len(e.Applications) > 0 {
		writeField(&b, "applications", strings.Join(e.Applications, ", "))
	}
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", name, value)
}

// stripFences removes a markdown code fence wrapper, with or without a
// language tag, so the JSON underneath decodes.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// fillMissing force-fills required fields the model left out. Name and URL
// fall back to the entity's own values before the sentinel.
func fillMissing(r *Classification, e robotaxa.Entity) {
	fill := func(field *string, fallback string) {
		if *field != "" {
			return
		}
		if fallback != "" {
			*field = fallback
			return
		}
		*field = Missing
	}
	fill(&r.Name, e.Name)
	fill(&r.URL, e.URL)
	fill(&r.Domain, "")
	fill(&r.Kingdom, "")
	fill(&r.MorphoMotionClass, "")
	fill(&r.Order, "")
	fill(&r.SensingFamily, "")
	fill(&r.ActuationGenus, "")
	fill(&r.CognitionClass, "")
	if r.ApplicationSpecies == nil {
		r.ApplicationSpecies = []string{}
	}
}

// apiErrorMessage extracts a readable message from go-openai errors.
func apiErrorMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("request error %d: %s", reqErr.HTTPStatusCode, string(reqErr.Body))
	}
	return err.Error()
}
