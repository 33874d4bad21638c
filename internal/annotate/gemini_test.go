package annotate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newMediaServer serves one fake photo.
func newMediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png bytes"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiAnnotate(t *testing.T) {
	media := newMediaServer(t)

	var captured geminiRequest
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{
						"text": `{"recommended_tools":["wrench"],"estimated_price":"50 TND - 80 TND","advice":"Shut off the water first."}`,
					}},
				},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer model.Close()

	g := &Gemini{Endpoint: model.URL, Model: "gemini-2.5-flash", APIKey: "test-key"}
	analysis, err := g.Annotate(context.Background(), "tap leaks", []string{media.URL + "/a.png"})
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	if len(analysis.RecommendedTools) != 1 || analysis.RecommendedTools[0] != "wrench" {
		t.Errorf("RecommendedTools = %v", analysis.RecommendedTools)
	}
	if analysis.EstimatedPrice != "50 TND - 80 TND" {
		t.Errorf("EstimatedPrice = %q", analysis.EstimatedPrice)
	}

	// The photo went up inline with its content type.
	if len(captured.Contents) != 1 || len(captured.Contents[0].Parts) != 2 {
		t.Fatalf("request shape = %+v", captured)
	}
	inline := captured.Contents[0].Parts[1].InlineData
	if inline == nil || inline.MimeType != "image/png" {
		t.Fatalf("inline data = %+v", inline)
	}
	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil || string(data) != "png bytes" {
		t.Errorf("inline payload = %q (%v)", data, err)
	}
	if !strings.Contains(captured.Contents[0].Parts[0].Text, "tap leaks") {
		t.Errorf("prompt missing description: %q", captured.Contents[0].Parts[0].Text)
	}
	if captured.GenerationConfig.ResponseMimeType != "application/json" {
		t.Errorf("ResponseMimeType = %q", captured.GenerationConfig.ResponseMimeType)
	}
}

func TestGeminiAnnotateModelError(t *testing.T) {
	media := newMediaServer(t)
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer model.Close()

	g := &Gemini{Endpoint: model.URL, Model: "gemini-2.5-flash", APIKey: "k"}
	_, err := g.Annotate(context.Background(), "x", []string{media.URL + "/a.png"})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v, want model status error", err)
	}
}

func TestGeminiAnnotateEmptyCandidates(t *testing.T) {
	media := newMediaServer(t)
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer model.Close()

	g := &Gemini{Endpoint: model.URL, Model: "m", APIKey: "k"}
	if _, err := g.Annotate(context.Background(), "x", []string{media.URL + "/a.png"}); err == nil {
		t.Error("expected error for empty candidates")
	}
}

func TestGeminiAnnotateNoMedia(t *testing.T) {
	g := &Gemini{Endpoint: "http://unused", Model: "m", APIKey: "k"}
	if _, err := g.Annotate(context.Background(), "x", nil); err == nil {
		t.Error("expected error for missing media")
	}
}

func TestGeminiFetchMediaFailure(t *testing.T) {
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer media.Close()

	g := &Gemini{Endpoint: "http://unused", Model: "m", APIKey: "k"}
	if _, err := g.Annotate(context.Background(), "x", []string{media.URL + "/gone.png"}); err == nil {
		t.Error("expected error for unfetchable media")
	}
}
