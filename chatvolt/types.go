package chatvolt

import (
	"fmt"
	"time"
)

// Endpoint is the provider path every feature posts to
const Endpoint = "/api/chat"

// AppName tags every outbound payload
const AppName = "apostila_ai"

// UserAgent is sent with every provider request
const UserAgent = "Apostila_AI/1.0"

// TimestampLayout renders timestamps as UTC ISO-8601 with milliseconds
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Payload is the JSON body posted to the provider.
// The simple chat sends Context, the parameterized proxy sends Metadata.
type Payload struct {
	Message   string         `json:"message"`
	UserID    string         `json:"userId"`
	SessionID string         `json:"sessionId"`
	Context   map[string]any `json:"context,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Reply is a decoded 2xx provider answer
type Reply struct {
	StatusCode int
	Data       map[string]any
}

// Text resolves the reply text from the provider's variable schema
func (r *Reply) Text() string {
	return ResolveText(r.Data)
}

// UpstreamError is a non-2xx provider answer
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("chatvolt API error: %d", e.StatusCode)
}

// Timestamp formats t the way the provider and the web client expect
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Preset is a per-feature system prompt
type Preset struct {
	Name         string
	SystemPrompt string
}

// Presets keyed by feature type
var Presets = map[string]Preset{
	"chat": {
		Name: "chat",
		SystemPrompt: `Você é um assistente educacional especializado em ajudar estudantes brasileiros.
Responda de forma clara, didática e motivadora.
Use exemplos práticos quando possível.
Mantenha um tom encorajador e profissional.`,
	},
	"exercises": {
		Name: "exercises",
		SystemPrompt: `Você é um gerador de exercícios educacionais.
Crie exercícios de múltipla escolha precisos e educativos.
Sempre forneça explicações detalhadas para as respostas.
Use o formato JSON solicitado.`,
	},
	"apostilas": {
		Name: "apostilas",
		SystemPrompt: `Você é um analisador de conteúdo educacional.
Ajude os estudantes a compreender melhor o material de estudo.
Forneça resumos, explicações e insights relevantes.`,
	},
}

// PresetFor returns the preset for a feature type
func PresetFor(kind string) (Preset, bool) {
	p, ok := Presets[kind]
	return p, ok
}
