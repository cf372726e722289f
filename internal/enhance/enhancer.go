package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/Readiness/internal/config"
	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

const defaultAdvice = "No specific advice generated."

const systemPrompt = "You are an expert automation consultant. Always respond with valid JSON only."

// Request carries the deterministic score that an Enhancer explains.
type Request struct {
	Task       scoring.Task
	Criteria   scoring.CriteriaScores
	FinalScore int
	Category   scoring.Category
}

// RequestFor builds a Request from a task and its computed score.
func RequestFor(t scoring.Task, s scoring.TaskScore) Request {
	return Request{Task: t, Criteria: s.CriteriaScores, FinalScore: s.FinalScore, Category: s.Category}
}

// Insight is the enrichment an Enhancer returns. It never changes the numbers.
type Insight struct {
	Reasoning        string                   `json:"reasoning"`
	AutomationAdvice string                   `json:"automationAdvice"`
	SuggestedTools   []scoring.ToolSuggestion `json:"suggestedTools"`
}

// Enhancer produces narrative reasoning and tool advice for an already-scored task.
type Enhancer interface {
	Enhance(ctx context.Context, req Request) (*Insight, error)
	Name() string
}

// New returns the configured provider, or nil when no API key is set.
func New(cfg config.EnhancerConfig) (Enhancer, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "groq":
		return NewOpenAIEnhancer("groq", cfg.APIKey, orDefault(cfg.BaseURL, GroqBaseURL), orDefault(cfg.Model, GroqModel)), nil
	case "openai":
		return NewOpenAIEnhancer("openai", cfg.APIKey, cfg.BaseURL, orDefault(cfg.Model, OpenAIModel)), nil
	case "gemini", "google":
		g, err := NewGeminiEnhancer(context.Background(), cfg.APIKey, cfg.BaseURL, orDefault(cfg.Model, GeminiModel))
		if err != nil {
			return nil, err
		}
		return g, nil
	case "anthropic":
		return NewAnthropicEnhancer(cfg.APIKey, cfg.BaseURL, orDefault(cfg.Model, AnthropicModel)), nil
	default:
		return nil, fmt.Errorf("unknown enhancer provider %q", cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// BuildPrompt renders the user prompt for a request.
func BuildPrompt(req Request) string {
	t := req.Task
	var b strings.Builder
	b.WriteString("You are an automation consultant. Analyze this task and provide a JSON response.\n\n")
	b.WriteString("Task Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", t.Name)
	fmt.Fprintf(&b, "- Description: %s\n", t.Description)
	fmt.Fprintf(&b, "- Department: %s\n", t.Department)
	fmt.Fprintf(&b, "- Frequency: %s\n", t.Frequency)
	fmt.Fprintf(&b, "- Data Inputs: %s\n", joinOrNone(t.Inputs))
	fmt.Fprintf(&b, "- Data Outputs: %s\n", joinOrNone(t.Outputs))
	fmt.Fprintf(&b, "- Automation Score: %d/100\n", req.FinalScore)
	fmt.Fprintf(&b, "- Category: %s\n", req.Category)
	b.WriteString("- Criteria Scores:\n")
	fmt.Fprintf(&b, "  * Frequency: %d\n", req.Criteria.Frequency)
	fmt.Fprintf(&b, "  * Repetitiveness: %d\n", req.Criteria.Repetitiveness)
	fmt.Fprintf(&b, "  * Data Dependency: %d\n", req.Criteria.DataDependency)
	fmt.Fprintf(&b, "  * Decision Variability: %d\n", req.Criteria.DecisionVariability)
	fmt.Fprintf(&b, "  * Complexity: %d\n", req.Criteria.Complexity)
	b.WriteString(`
Provide your analysis in this exact JSON format:
{
  "reasoning": "1-2 sentence explanation of why this task is/isn't suitable for automation",
  "automationAdvice": "2-3 sentence step-by-step guide on how to automate this using AI or other tools",
  "suggestedTools": [
    {
      "category": "tool category",
      "name": "specific tool name",
      "explanation": "one sentence explaining how this tool helps"
    }
  ]
}

Respond ONLY with valid JSON, no markdown formatting.`)
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

type rawInsight struct {
	Reasoning        json.RawMessage `json:"reasoning"`
	AutomationAdvice json.RawMessage `json:"automationAdvice"`
	SuggestedTools   []struct {
		Category    json.RawMessage `json:"category"`
		Name        json.RawMessage `json:"name"`
		Explanation json.RawMessage `json:"explanation"`
	} `json:"suggestedTools"`
}

// ParseInsight decodes a provider reply. Markdown code fences are tolerated,
// fields that are not strings are treated as missing, tools without a category
// or name are dropped and missing advice gets a default.
func ParseInsight(raw string) (*Insight, error) {
	body := stripFences(raw)
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}

	var parsed rawInsight
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("decode insight: %w", err)
	}

	in := &Insight{
		AutomationAdvice: defaultAdvice,
		SuggestedTools:   []scoring.ToolSuggestion{},
	}
	if v, ok := jsonString(parsed.Reasoning); ok {
		in.Reasoning = v
	}
	if v, ok := jsonString(parsed.AutomationAdvice); ok {
		in.AutomationAdvice = v
	}
	for _, t := range parsed.SuggestedTools {
		category, okCategory := jsonString(t.Category)
		name, okName := jsonString(t.Name)
		if !okCategory || !okName {
			continue
		}
		explanation, _ := jsonString(t.Explanation)
		in.SuggestedTools = append(in.SuggestedTools, scoring.ToolSuggestion{Category: category, Name: name, Explanation: explanation})
	}
	return in, nil
}

// jsonString reports the value of raw when it holds a JSON string.
func jsonString(raw json.RawMessage) (string, bool) {
	var s string
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
