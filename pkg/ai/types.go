package ai

// Provider names an OpenAI-compatible chat completion backend.
type Provider string

// Supported providers. Gemini and Anthropic are reached through their OpenAI-compatible endpoints.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

var providerDefaults = map[Provider]struct {
	baseURL string
	model   string
}{
	ProviderOpenAI:    {baseURL: "", model: "gpt-4o-mini"},
	ProviderGemini:    {baseURL: "https://generativelanguage.googleapis.com/v1beta/openai", model: "gemini-2.0-flash"},
	ProviderAnthropic: {baseURL: "https://api.anthropic.com/v1", model: "claude-3-5-haiku-latest"},
}
