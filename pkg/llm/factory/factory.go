package factory

import (
	"fmt"

	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm/gemini"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm/huggingface"
	"github.com/Auropro-da-team/Claims-Agent-Chatbot-Accelerator/pkg/llm/ollama"
)

// Params carries every backend's knobs; each provider picks what it needs,
// so a key for one backend is never mistaken for another's.
type Params struct {
	Provider       string
	Model          string
	OllamaBaseURL  string
	GeminiAPIKey   string
	HuggingFaceKey string
}

func NewLLMProvider(p Params) (llm.LLMProvider, error) {
	switch p.Provider {
	case "gemini":
		if p.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(p.GeminiAPIKey, p.Model), nil
	case "ollama":
		baseURL := p.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, p.Model), nil
	case "huggingface":
		if p.HuggingFaceKey == "" {
			return nil, fmt.Errorf("huggingface provider requires HUGGINGFACE_API_KEY")
		}
		return huggingface.NewHuggingFaceProvider(p.HuggingFaceKey, "", p.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
}
