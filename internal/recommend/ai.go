package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gridmend/gridmend/internal/model"
)

// AIGenerator asks a chat-completions model to propose cleaning actions.
// The model answers with a JSON array of recommendation objects whose
// transformation fields match the descriptor wire shape; anything the
// descriptor parser rejects is dropped rather than failing the whole batch.
type AIGenerator struct {
	client     *Client
	model      string
	simplified bool
	maxTokens  int
}

// NewAIGenerator builds the primary tier: full prompt with issue details and
// sample rows.
func NewAIGenerator(client *Client, model string) *AIGenerator {
	return &AIGenerator{client: client, model: model, maxTokens: 2048}
}

// NewSimplifiedGenerator builds the middle tier: a compact prompt without
// sample rows and a smaller response budget, for when the full request
// fails or times out.
func NewSimplifiedGenerator(client *Client, model string) *AIGenerator {
	return &AIGenerator{client: client, model: model, simplified: true, maxTokens: 768}
}

func (g *AIGenerator) Name() string {
	if g.simplified {
		return "ai-simplified"
	}
	return "ai"
}

// Generate sends the prompt and parses the reply into recommendations.
func (g *AIGenerator) Generate(ctx context.Context, in Input) ([]model.Recommendation, error) {
	if len(in.Issues) == 0 {
		return nil, nil
	}
	content, err := g.client.Complete(ctx, g.model, g.prompt(in), g.maxTokens)
	if err != nil {
		return nil, err
	}
	recs, err := parseRecommendations(content, in)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("model returned no usable recommendations")
	}
	return recs, nil
}

func (g *AIGenerator) prompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are a spreadsheet data-cleaning assistant. ")
	b.WriteString("Given the data-quality issues below, propose transformations as a JSON array. ")
	b.WriteString(`Each element: {"title":string,"rationale":string,"can_process_in_parallel":bool,` +
		`"transformation":{"type":string,"sheet":string,"column":string,...}}. `)
	b.WriteString("Valid transformation types: fill_missing (method: median|mean|mode|fixed), " +
		"remove_duplicates, remove_duplicates_global, standardize_format " +
		"(format: lowercase|uppercase|title_case|email|phone), fix_data_types " +
		"(target_type: number|date|string), trim_whitespace, split_multi_value, " +
		"create_lookup_table (columns: [string]). Answer with JSON only.\n\nIssues:\n")
	issueJSON, _ := json.Marshal(in.Issues)
	b.Write(issueJSON)
	if !g.simplified && len(in.Samples) > 0 {
		b.WriteString("\n\nSample rows per sheet:\n")
		sampleJSON, _ := json.Marshal(in.Samples)
		b.Write(sampleJSON)
	}
	return b.String()
}

type wireRecommendation struct {
	Title                string                 `json:"title"`
	Rationale            string                 `json:"rationale"`
	CanProcessInParallel *bool                  `json:"can_process_in_parallel"`
	Transformation       model.DescriptorFields `json:"transformation"`
}

// parseRecommendations tolerates the usual model framing: code fences and
// leading prose around the JSON array.
func parseRecommendations(content string, in Input) ([]model.Recommendation, error) {
	raw := extractJSONArray(content)
	if raw == "" {
		return nil, fmt.Errorf("no JSON array in model response")
	}
	var wire []wireRecommendation
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	var recs []model.Recommendation
	for _, w := range wire {
		tr, err := model.DescriptorFromFields(w.Transformation)
		if err != nil {
			continue // skip malformed items, keep the rest
		}
		parallel := !tr.RequiresCoordination()
		if w.CanProcessInParallel != nil && !*w.CanProcessInParallel {
			parallel = false
		}
		title := w.Title
		if title == "" {
			title = tr.Type()
		}
		recs = append(recs, model.Recommendation{
			ID:                   uuid.NewString(),
			Title:                title,
			Rationale:            w.Rationale,
			Transformation:       tr,
			CanProcessInParallel: parallel,
		})
	}
	return recs, nil
}

func extractJSONArray(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
