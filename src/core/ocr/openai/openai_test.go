package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/utils"
)

func newTestServer(t *testing.T, content string, captured *map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if captured != nil {
			_ = json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]interface{}{"role": "assistant", "content": content},
				},
			},
		})
	}))
}

func TestRecognizerRequiresAPIKey(t *testing.T) {
	config := configs.Default().OCR
	if _, err := NewRecognizer(&config, utils.NewNopLogger()); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestRecognize(t *testing.T) {
	var body map[string]interface{}
	server := newTestServer(t, "<think>hmm</think>Oferta especial\n\nDescuento 20%", &body)
	defer server.Close()

	config := configs.Default().OCR
	config.OpenAI.APIKey = "sk-test"
	config.OpenAI.BaseURL = server.URL + "/v1"

	r, err := ocr.Create(Name, &config, utils.NewNopLogger())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0}
	got, err := r.Recognize(context.Background(), ocr.Input{Image: png, Format: "png", Language: "spa+eng", Scale: true, Contrast: true})
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if got.Text != "Oferta especial\n\nDescuento 20%" {
		t.Errorf("Text = %q", got.Text)
	}
	if len(got.Lines) != 2 || got.HasConfidence {
		t.Errorf("unexpected recognition: %+v", got)
	}

	if body["model"] != defaultModel {
		t.Errorf("model = %v", body["model"])
	}
	raw, _ := json.Marshal(body["messages"])
	if !strings.Contains(string(raw), "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png)) {
		t.Errorf("request does not carry the unmodified png data URL: %s", raw)
	}
	if !strings.Contains(string(raw), "spa+eng") {
		t.Errorf("request does not mention the language: %s", raw)
	}
}

func TestRecognizeNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	config := configs.Default().OCR
	config.OpenAI.APIKey = "sk-test"
	config.OpenAI.BaseURL = server.URL

	r, err := NewRecognizer(&config, utils.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Recognize(context.Background(), ocr.Input{Image: []byte("x")}); err == nil {
		t.Error("expected error when no choices are returned")
	}
}
