package ai

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// ollamaServer answers the /api/tags ping.
func ollamaServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type stubPrompts struct{}

func (stubPrompts) Load(string) (string, error) { return "", errors.New("none") }
func (stubPrompts) Reload()                     {}

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "openai without key is not configured",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantNil: true,
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			} else if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
			}
			if !tt.wantNil && svc == nil {
				t.Error("expected non-nil service, got nil")
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		model    string
	}{
		{name: "nil settings returns nil", wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.LLMSettings{}, wantNil: true},
		{
			name:     "ollama provider creates service",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3:instruct"},
			model:    "llama3:instruct",
		},
		{
			name:     "openai provider creates service",
			settings: &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "gpt-4o-mini"},
			model:    "gpt-4o-mini",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if svc != nil {
					t.Error("expected nil service, got non-nil")
				}
				return
			}
			if svc == nil {
				t.Fatal("expected non-nil service, got nil")
			}
			if svc.ModelName() != tt.model {
				t.Errorf("expected model %q, got %q", tt.model, svc.ModelName())
			}
			svc.Close()
		})
	}
}

func TestCreateOllamaEmbedding_Dimensions(t *testing.T) {
	svc := createOllamaEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "mxbai-embed-large"})
	if svc.Dimensions() != 1024 {
		t.Errorf("expected 1024 dimensions, got %d", svc.Dimensions())
	}

	svc = createOllamaEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "custom", Dimensions: 42})
	if svc.Dimensions() != 42 {
		t.Errorf("expected 42 dimensions, got %d", svc.Dimensions())
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusOK)
		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc == nil {
			t.Fatal("expected service")
		}
		svc.Close()
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := ollamaServer(t, http.StatusServiceUnavailable)
		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  srv.URL,
		})
		if svc != nil {
			t.Error("expected nil service")
		}
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		svc, err := CreateAndValidateEmbeddingService(nil)
		if svc != nil || err != nil {
			t.Errorf("expected nil, nil; got %v, %v", svc, err)
		}
	})
}

func TestCreateAndValidateLLMService(t *testing.T) {
	srv := ollamaServer(t, http.StatusOK)
	svc, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
	if err != nil || svc == nil {
		t.Fatalf("expected service, got %v, %v", svc, err)
	}

	down := ollamaServer(t, http.StatusInternalServerError)
	svc, err = CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: down.URL})
	if svc != nil {
		t.Error("expected nil service")
	}
	if !errors.Is(err, domain.ErrLLMUnavailable) {
		t.Errorf("expected ErrLLMUnavailable, got %v", err)
	}
}

func TestInit(t *testing.T) {
	up := ollamaServer(t, http.StatusOK)
	down := ollamaServer(t, http.StatusServiceUnavailable)

	result := Init(
		&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: up.URL},
		&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: down.URL},
		stubPrompts{},
	)
	defer result.Close()

	if result.EmbeddingService == nil {
		t.Error("expected embedding service")
	}
	if result.LLMService != nil {
		t.Error("expected LLM to be disabled")
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "ollama") {
		t.Errorf("unexpected warnings %v", result.Warnings)
	}
}

func TestInit_NothingConfigured(t *testing.T) {
	result := Init(nil, nil, nil)
	if result.EmbeddingService != nil || result.LLMService != nil || len(result.Warnings) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestValidateConfig_NotConfigured(t *testing.T) {
	if err := ValidateEmbeddingConfig(nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateLLMConfig(&domain.LLMSettings{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateConfig_Reachable(t *testing.T) {
	srv := ollamaServer(t, http.StatusOK)
	if err := ValidateEmbeddingConfig(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
