package llm

import (
	"context"
	"errors"
	"google.golang.org/genai"
)

type gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, errors.New("missing gemini api key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &gemini{client: client}, nil
}

func (g *gemini) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &Error{StatusCode: apiErr.Code, Status: apiErr.Status, Message: apiErr.Message}
		}
		var apiErrPtr *genai.APIError
		if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
			return "", &Error{StatusCode: apiErrPtr.Code, Status: apiErrPtr.Status, Message: apiErrPtr.Message}
		}
		return "", err
	}

	return resp.Text(), nil
}
