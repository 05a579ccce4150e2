package factory

import (
	"fmt"

	"bejo-chatbot-be/pkg/llm"
	"bejo-chatbot-be/pkg/llm/gemini"
	"bejo-chatbot-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured LLM backend. Construction failure is
// fatal at startup, not per-request.
func NewLLMProvider(providerName, modelName, ollamaBaseURL, geminiApiKey string) (llm.LLMProvider, error) {
	switch providerName {
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(geminiApiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", providerName)
	}
}
