package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCanedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"reply":"Hi"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"reply":"Hi"}` {
		t.Fatalf("expected reply, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeEvaluate)
	if p := PurposeFrom(ctx); p != "evaluate" {
		t.Fatalf("expected 'evaluate', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "gemini without key",
			cfg:     Config{Provider: "gemini"},
			wantErr: true,
		},
		{
			name:    "openrouter with key",
			cfg:     Config{Provider: "openrouter", OpenRouter: OpenRouterConfig{APIKey: "sk-or"}},
			wantErr: false,
		},
		{
			name:    "default config",
			cfg:     DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeConversation(t *testing.T) {
	got := normalizeConversation([]Message{
		{Role: RoleAssistant, Content: "Welcome to the interview."},
		{Role: RoleUser, Content: "   "},
		{Role: RoleUser, Content: "I build APIs."},
		{Role: RoleUser, Content: "Mostly in Go."},
		{Role: RoleAssistant, Content: "Why Go?"},
	})

	want := []Message{
		{Role: RoleUser, Content: interviewOpener},
		{Role: RoleAssistant, Content: "Welcome to the interview."},
		{Role: RoleUser, Content: "I build APIs.\n\nMostly in Go."},
		{Role: RoleAssistant, Content: "Why Go?"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNormalizeConversation_Empty(t *testing.T) {
	if got := normalizeConversation(nil); len(got) != 0 {
		t.Fatalf("expected no messages, got %+v", got)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SEEKJOB_LLM_PROVIDER", "anthropic")
	t.Setenv("SEEKJOB_ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("SEEKJOB_ANTHROPIC_MODEL", "claude-sonnet")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "sk-ant" || cfg.Anthropic.Model != "claude-sonnet" {
		t.Fatalf("unexpected config: %+v", cfg.Anthropic)
	}
	if cfg.OpenAI.Model != "gpt-mini" {
		t.Fatalf("expected default OpenAI model, got %q", cfg.OpenAI.Model)
	}
}

func TestDiscoverConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected a provider to be discovered")
	}
	if cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "gm-key" {
		t.Fatalf("expected gemini, got %q", cfg.Provider)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "scripted" {
		t.Fatalf("expected scripted model, got %q", p.ModelID())
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("claude-haiku-4-5", 1_000_000, 1_000_000)
	if !ok || cost != 6 {
		t.Fatalf("expected 6 USD, got %v (%v)", cost, ok)
	}
	if _, ok := EstimateCost("unknown-model", 1, 1); ok {
		t.Fatal("expected unknown model to have no price")
	}
}

func TestShapeRequest_PurposeDefaults(t *testing.T) {
	tests := []struct {
		purpose   string
		maxTokens int
		temp      float64
	}{
		{PurposeInterview, 1024, 0.7},
		{PurposeEvaluate, 1024, 0.2},
		{PurposeResume, 4096, 0.4},
		{"", defaultMaxTokens, 0},
	}

	for _, tt := range tests {
		t.Run(tt.purpose, func(t *testing.T) {
			ctx := context.Background()
			if tt.purpose != "" {
				ctx = WithPurpose(ctx, tt.purpose)
			}
			got := shapeRequest(ctx, Request{})
			if got.MaxTokens != tt.maxTokens {
				t.Errorf("MaxTokens = %d, want %d", got.MaxTokens, tt.maxTokens)
			}
			if got.Temperature != tt.temp {
				t.Errorf("Temperature = %v, want %v", got.Temperature, tt.temp)
			}
		})
	}
}

func TestShapeRequest_KeepsExplicitValues(t *testing.T) {
	ctx := WithPurpose(context.Background(), PurposeResume)
	got := shapeRequest(ctx, Request{
		MaxTokens:   300,
		Temperature: 0.9,
		Messages:    []Message{{Role: RoleAssistant, Content: "Welcome."}},
	})
	if got.MaxTokens != 300 || got.Temperature != 0.9 {
		t.Fatalf("explicit sampling overridden: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Content != interviewOpener {
		t.Fatalf("history not normalized: %+v", got.Messages)
	}
}
