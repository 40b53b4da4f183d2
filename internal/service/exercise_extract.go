package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"apostila-ai/backend/internal/models"
)

// fallbackExplanationRunes caps how much of the raw reply is echoed in a fallback explanation
const fallbackExplanationRunes = 200

var fallbackOptions = []string{
	"Primeira opção relacionada ao tópico",
	"Segunda opção relacionada ao tópico",
	"Terceira opção relacionada ao tópico",
	"Quarta opção relacionada ao tópico",
}

// ExercisePrompt is the prompt sent to the provider for one topic
func ExercisePrompt(topic, difficulty string) string {
	return fmt.Sprintf(`
Gere 5 exercícios de múltipla escolha sobre o tópico: "%s"
Dificuldade: %s

Para cada exercício, forneça:
1. Uma pergunta clara
2. 4 alternativas (A, B, C, D)
3. A resposta correta
4. Uma explicação detalhada

Formato de resposta em JSON:
{
  "exercises": [
    {
      "question": "Pergunta aqui",
      "options": ["Opção A", "Opção B", "Opção C", "Opção D"],
      "correctAnswer": 0,
      "explanation": "Explicação detalhada"
    }
  ]
}
`, topic, difficulty)
}

// ExtractExercises takes the span from the first '{' to the last '}' of text
// and returns it compacted when it is a valid JSON object.
// Key order is kept; nested braces in prose around the object defeat the match.
func ExtractExercises(text string) (json.RawMessage, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, false
	}

	span := []byte(text[start : end+1])
	if !json.Valid(span) {
		return nil, false
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, span); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

// FallbackExercises builds the single placeholder exercise returned when
// the reply holds no parseable JSON
func FallbackExercises(topic, reply string) models.ExerciseSet {
	excerpt := []rune(reply)
	if len(excerpt) > fallbackExplanationRunes {
		excerpt = excerpt[:fallbackExplanationRunes]
	}

	options := make([]string, len(fallbackOptions))
	copy(options, fallbackOptions)

	return models.ExerciseSet{
		Exercises: []models.Exercise{
			{
				Question:           fmt.Sprintf("Sobre %s, qual das alternativas está correta?", topic),
				Options:            options,
				CorrectAnswerIndex: 1,
				Explanation:        "A resposta correta é a segunda opção. " + string(excerpt) + "...",
			},
		},
	}
}
