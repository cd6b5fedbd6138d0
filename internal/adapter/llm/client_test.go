package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestClientCreateChatCompletion(t *testing.T) {
	var gotAuth string
	var gotReq ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "sk-test", time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("CreateChatCompletion failed: %v", err)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "hi" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" || len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "hello" {
		t.Fatalf("unexpected request payload: %+v", gotReq)
	}
}

func TestClientCreateChatCompletionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "gpt-4o-mini",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("unexpected error: %v", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected StatusError with 401, got %v", err)
	}
	if statusErr.API == nil || statusErr.API.Type != "invalid_request_error" {
		t.Fatalf("unexpected API error: %+v", statusErr.API)
	}
}

func TestMockClientEchoesLastUserMessage(t *testing.T) {
	resp, err := NewMockClient().CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model: "m",
		Messages: []ChatMessage{
			{Role: "user", Content: "first"},
			{Role: "assistant", Content: "ignored"},
			{Role: "user", Content: "second"},
		},
	})
	if err != nil {
		t.Fatalf("mock failed: %v", err)
	}
	if !strings.Contains(resp.Choices[0].Message.Content, `"second"`) {
		t.Fatalf("unexpected content: %q", resp.Choices[0].Message.Content)
	}
}

func TestMockClientTruncatesOnRuneBoundary(t *testing.T) {
	// 99 ASCII bytes put the first byte of a 3-byte rune at index 99.
	long := strings.Repeat("a", 99) + strings.Repeat("界", 10)

	resp, err := NewMockClient().CreateChatCompletion(context.Background(), &ChatCompletionRequest{
		Model:    "m",
		Messages: []ChatMessage{{Role: "user", Content: long}},
	})
	if err != nil {
		t.Fatalf("mock failed: %v", err)
	}
	content := resp.Choices[0].Message.Content
	if !utf8.ValidString(content) {
		t.Fatalf("reply is not valid UTF-8: %q", content)
	}

	got := truncate(long, 100)
	if got != strings.Repeat("a", 99)+"..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncate("界界", 4); got != "界..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestNewLLMClientMockMode(t *testing.T) {
	t.Setenv(EnvMode, ModeMock)
	if _, ok := NewLLMClient("http://unused", "", time.Second).(*MockClient); !ok {
		t.Fatalf("expected mock client in mock mode")
	}
}
