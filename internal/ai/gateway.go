package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"stockledger/internal/model"
)

// FallbackDescription is returned whenever description generation fails.
// Callers render it as-is; the gateway never surfaces an error.
const FallbackDescription = "Failed to generate description. Please try again."

// Insights is the structured analysis returned for a product set.
type Insights struct {
	Summary        string   `json:"summary"`
	Priorities     []string `json:"priorities"`
	RiskAssessment string   `json:"risk_assessment"`
}

// Client is the provider-agnostic interface for the AI collaborator.
// Both calls degrade on failure instead of erroring: GenerateDescription
// falls back to a fixed string, GetInsights to nil ("insights
// unavailable", not an error state).
type Client interface {
	GenerateDescription(ctx context.Context, name, category, department string) string
	GetInsights(ctx context.Context, products []model.Product, department string) *Insights
}

// NewClient returns the Gemini-backed client, or a disabled one when no
// API key is configured.
func NewClient(apiKey, baseURL string) Client {
	if apiKey == "" {
		return disabledClient{}
	}
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	return &geminiClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   "gemini-2.0-flash",
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// disabledClient degrades every call, same as a failing provider.
type disabledClient struct{}

func (disabledClient) GenerateDescription(context.Context, string, string, string) string {
	return FallbackDescription
}

func (disabledClient) GetInsights(context.Context, []model.Product, string) *Insights {
	return nil
}

type geminiClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai provider returned status %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("ai provider returned no candidates")
	}
	return decoded.Candidates[0].Content.Parts[0].Text, nil
}

func (c *geminiClient) GenerateDescription(ctx context.Context, name, category, department string) string {
	prompt := fmt.Sprintf(
		"Write a compelling, concise product description for %q in the %q category belonging to the %q department. "+
			"Focus on professional usage and technical specs relevant to this department. Limit to 2 sentences.",
		name, category, department,
	)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		log.Printf("ai: description generation failed: %v", err)
		return FallbackDescription
	}
	return strings.TrimSpace(text)
}

func (c *geminiClient) GetInsights(ctx context.Context, products []model.Product, department string) *Insights {
	scope := "global"
	if department != model.DepartmentAll {
		scope = fmt.Sprintf("the %s department", department)
	}

	data, err := json.Marshal(products)
	if err != nil {
		log.Printf("ai: failed to encode products: %v", err)
		return nil
	}

	prompt := fmt.Sprintf(
		"Analyze this inventory data for %s: %s\n"+
			"Respond with a JSON object only, no markdown, with keys: "+
			"summary (string, overall stock health), "+
			"priorities (array of up to 3 strings, top restock priorities), "+
			"risk_assessment (string, operational risk if stock falls further).",
		scope, data,
	)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		log.Printf("ai: insights generation failed: %v", err)
		return nil
	}

	// providers wrap JSON in code fences despite instruction
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var insights Insights
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &insights); err != nil {
		log.Printf("ai: failed to parse insights: %v", err)
		return nil
	}
	if len(insights.Priorities) > 3 {
		insights.Priorities = insights.Priorities[:3]
	}
	return &insights
}
