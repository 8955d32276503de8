package client

import (
	"context"
	"fmt"
	"strings"

	"cropyield/internal/domain/entity"

	"google.golang.org/genai"
)

const adviceInstruction = `You are an agronomist reviewing a crop yield forecast.
Write at most three short sentences of practical advice for the grower.
Refer to the inputs given. Do not repeat the numbers back. Plain text only.`

// GeminiAdvisor writes a short agronomy note for a prediction.
type GeminiAdvisor struct {
	client *genai.Client
	model  string
}

func NewGeminiAdvisor(ctx context.Context, projectID, location, model string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdvisor{client: client, model: model}, nil
}

func (a *GeminiAdvisor) Advise(ctx context.Context, p *entity.Prediction) (string, error) {
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(advicePrompt(p)), nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty advice from %s", a.model)
	}
	return text, nil
}

func advicePrompt(p *entity.Prediction) string {
	var b strings.Builder
	b.WriteString(adviceInstruction)
	fmt.Fprintf(&b, "\n\nCrop: %s\nArea: %s\nYear: %d\n", p.Input.Item, p.Input.Area, p.Input.Year)
	fmt.Fprintf(&b, "Average rainfall: %g mm/year\nPesticides: %g tonnes\nAverage temperature: %g C\n",
		p.Input.AverageRainfall, p.Input.Pesticides, p.Input.AvgTemp)
	fmt.Fprintf(&b, "Predicted yield: %.0f hg/ha (%s)\n", p.Value, p.Assessment.Category)
	for _, f := range p.Assessment.Factors {
		fmt.Fprintf(&b, "- %s: %s\n", f.Name, f.Impact)
	}
	return b.String()
}
