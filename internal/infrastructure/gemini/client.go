package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const modelName = "gemini-1.5-flash"

// Person is what the model gets to know about one side of a match.
type Person struct {
	Name       string
	Profession string
	Location   string
	Hobbies    string
	Interests  string
}

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient returns nil without error when no API key is configured.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateIcebreakers asks the model for opening lines that from could send to to.
func (c *Client) GenerateIcebreakers(ctx context.Context, from, to Person) ([]string, error) {
	prompt := fmt.Sprintf(`
		Two people on a matrimony site have accepted each other's interest.
		Person A: %s
		Person B: %s

		Task: write 3 short, respectful opening messages Person A could send to Person B.
		Refer to shared hobbies or interests where possible.
		Output: JSON array of strings only. Example: ["Hello...", "Hi..."]
	`, describe(from), describe(to))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return ParseIcebreakers(sb.String())
}

// ParseIcebreakers accepts a JSON array, optionally fenced in markdown, or
// falls back to one suggestion per non-empty line.
func ParseIcebreakers(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out []string
	if err := json.Unmarshal([]byte(text), &out); err == nil {
		return compact(out), nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		if line == "" || line == "[" || line == "]" {
			continue
		}
		out = append(out, strings.Trim(line, `",`))
	}
	out = compact(out)
	if len(out) == 0 {
		return nil, fmt.Errorf("failed to parse icebreakers")
	}
	return out, nil
}

// Fallback builds suggestions without the model.
func Fallback(from, to Person) []string {
	name := to.Name
	if name == "" {
		name = "there"
	}

	suggestions := []string{
		fmt.Sprintf("Hi %s, thank you for accepting! I'd love to know more about your family and what you're looking for.", name),
	}
	if to.Hobbies != "" {
		suggestions = append(suggestions, fmt.Sprintf("I noticed you enjoy %s. How did you get into it?", to.Hobbies))
	}
	if to.Profession != "" {
		suggestions = append(suggestions, fmt.Sprintf("What do you enjoy most about working as %s?", to.Profession))
	}
	if to.Location != "" && to.Location != from.Location {
		suggestions = append(suggestions, fmt.Sprintf("What do you like most about living in %s?", to.Location))
	}
	if len(suggestions) < 3 {
		suggestions = append(suggestions, "How do you usually spend your weekends?")
	}
	return suggestions
}

func describe(p Person) string {
	parts := []string{"name: " + p.Name}
	if p.Profession != "" {
		parts = append(parts, "profession: "+p.Profession)
	}
	if p.Location != "" {
		parts = append(parts, "location: "+p.Location)
	}
	if p.Hobbies != "" {
		parts = append(parts, "hobbies: "+p.Hobbies)
	}
	if p.Interests != "" {
		parts = append(parts, "interests: "+p.Interests)
	}
	return strings.Join(parts, "; ")
}

func compact(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
