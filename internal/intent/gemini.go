package intent

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

const systemInstruction = "Você classifica perguntas sobre a programação de uma rede de cinemas. " +
	"Nunca invente filmes ou datas: use null quando a pergunta não informar um campo."

// GeminiGenerator is a Generator backed by the Gemini API.
type GeminiGenerator struct {
	models *genai.Models
	model  string
	config *genai.GenerateContentConfig
}

// NewGeminiGenerator creates the API client. The model is asked for JSON at
// temperature zero.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiGenerator{
		models: client.Models,
		model:  model,
		config: &genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](0),
			CandidateCount:    1,
			ResponseMIMEType:  "application/json",
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		},
	}, nil
}

// Generate sends prompt and returns the text of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", err
	}
	return responseText(resp)
}

// responseText reads only the first candidate; joining several would not
// be one JSON document.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini returned no response")
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}
