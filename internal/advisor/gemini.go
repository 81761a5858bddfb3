package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// contentGenerator is the slice of the genai client used here. Satisfied by
// *genai.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini asks a Gemini model for a price with a JSON response schema.
type Gemini struct {
	models contentGenerator
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGemini(client.Models, model), nil
}

func newGemini(models contentGenerator, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{models: models, model: model}
}

var adviceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"suggestedPrice":     {Type: genai.TypeNumber, Description: "Recommended selling price in IDR"},
		"marginPercentage":   {Type: genai.TypeNumber, Description: "The profit margin percentage based on suggested price"},
		"reasoning":          {Type: genai.TypeString, Description: "Short explanation of the price"},
		"competitorAnalysis": {Type: genai.TypeString, Description: "Brief comparison with typical market prices"},
	},
	Required: []string{"suggestedPrice", "marginPercentage", "reasoning", "competitorAnalysis"},
}

type geminiAdvice struct {
	SuggestedPrice     float64 `json:"suggestedPrice"`
	MarginPercentage   float64 `json:"marginPercentage"`
	Reasoning          string  `json:"reasoning"`
	CompetitorAnalysis string  `json:"competitorAnalysis"`
}

func (g *Gemini) Recommend(ctx context.Context, req AdviceRequest) (Advice, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(req)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   adviceSchema,
	})
	if err != nil {
		return Advice{}, fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return Advice{}, errors.New("empty response from model")
	}

	var out geminiAdvice
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return Advice{}, fmt.Errorf("decode advice: %w", err)
	}
	if out.SuggestedPrice <= 0 {
		return Advice{}, fmt.Errorf("model suggested non-positive price %v", out.SuggestedPrice)
	}

	return Advice{
		SuggestedPrice:     decimal.NewFromFloat(out.SuggestedPrice).Round(0).IntPart(),
		MarginPercentage:   decimal.NewFromFloat(out.MarginPercentage).Round(2),
		Reasoning:          out.Reasoning,
		CompetitorAnalysis: out.CompetitorAnalysis,
	}, nil
}

func buildPrompt(req AdviceRequest) string {
	return fmt.Sprintf(`I am running a Nasi Goreng / Fried Rice stall in Indonesia.
I want to add a new menu item: %q.
My ingredients are: %s.
My calculated HPP (Cost of Goods Sold) is IDR %d.

Please analyze this and provide a recommended selling price.
Target a healthy profit margin for a food stall (typically 40-60%% or more depending on market).

Provide the output in JSON format.`, req.ItemName, req.Ingredients, req.CostBasis)
}
