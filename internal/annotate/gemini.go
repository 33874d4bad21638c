package annotate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/salemkamoundev/Snay3ia/internal/models"
)

// analysisSchema constrains the model's output to the diagnosis shape.
var analysisSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"recommended_tools": map[string]interface{}{
			"type":        "array",
			"description": "Tools needed for the repair.",
			"items":       map[string]interface{}{"type": "string"},
		},
		"estimated_price": map[string]interface{}{
			"type":        "string",
			"description": "Estimated repair price range in Tunisian Dinars (TND), e.g. 50 TND - 80 TND.",
		},
		"advice": map[string]interface{}{
			"type":        "string",
			"description": "Safety advice or first troubleshooting steps for the client.",
		},
	},
	"required": []string{"recommended_tools", "estimated_price", "advice"},
}

// Gemini calls the Generative Language API's generateContent endpoint with
// the breakdown photo inlined and a strict JSON response schema.
type Gemini struct {
	Client   *http.Client
	Endpoint string // e.g. https://generativelanguage.googleapis.com/v1beta
	Model    string // e.g. gemini-2.5-flash
	APIKey   string
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *geminiInline `json:"inline_data,omitempty"`
}

type geminiInline struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenConfig struct {
	ResponseMimeType string      `json:"response_mime_type"`
	ResponseSchema   interface{} `json:"response_schema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Annotate downloads the first media file, sends it to the vision model
// with the job description, and decodes the structured diagnosis.
func (g *Gemini) Annotate(ctx context.Context, description string, mediaURLs []string) (*models.AIAnalysis, error) {
	if len(mediaURLs) == 0 {
		return nil, fmt.Errorf("annotate: no media URL")
	}

	data, mimeType, err := g.fetchMedia(ctx, mediaURLs[0])
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"You are an expert Tunisian repair technician. Analyze this breakdown photo (description: %s). "+
			"List the specific tools needed for the repair and estimate a repair price range in "+
			"Tunisian Dinars (TND). Respond only in strict JSON.", description)

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInline{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(data),
				}},
			},
		}},
		GenerationConfig: geminiGenConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("annotate: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(g.Endpoint, "/"), g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("annotate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("annotate: call model: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("annotate: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotate: model returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("annotate: decode response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("annotate: empty model response")
	}

	var analysis models.AIAnalysis
	text := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, fmt.Errorf("annotate: decode analysis JSON: %w", err)
	}
	return &analysis, nil
}

// fetchMedia downloads a media file and reports its content type.
func (g *Gemini) fetchMedia(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("annotate: build media request: %w", err)
	}
	resp, err := g.client().Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("annotate: fetch media %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("annotate: fetch media %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return nil, "", fmt.Errorf("annotate: read media %s: %w", url, err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

func (g *Gemini) client() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}
