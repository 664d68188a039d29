package vision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

var ErrUnavailable = errors.New("image analysis unavailable")

// Analyzer inspects a captured selfie and returns a short note.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, contentType string) (string, error)
}

const defaultPrompt = "ตรวจสอบภาพเซลฟี่นี้สำหรับการลงเวลาทำงาน ตอบสั้นๆ ไม่เกิน 1 ประโยค ว่ามีใบหน้าบุคคลชัดเจนหรือไม่"

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Prompt  string
	Timeout time.Duration
}

// GeminiAnalyzer asks a Gemini model to describe the selfie.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
	prompt string
}

// NewAnalyzer returns a Gemini analyzer, or one that always reports
// ErrUnavailable when no API key is configured.
func NewAnalyzer(ctx context.Context, cfg GeminiConfig) (Analyzer, error) {
	if cfg.APIKey == "" {
		return unavailable{}, nil
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: cfg.Model, prompt: cfg.Prompt}, nil
}

// Analyze implements Analyzer.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, image []byte, contentType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrUnavailable)
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(g.prompt),
			genai.NewPartFromBytes(image, contentType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	note := strings.TrimSpace(resp.Text())
	if note == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	return note, nil
}

type unavailable struct{}

func (unavailable) Analyze(context.Context, []byte, string) (string, error) {
	return "", fmt.Errorf("%w: no api key configured", ErrUnavailable)
}
