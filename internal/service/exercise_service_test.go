package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"apostila-ai/backend/chatvolt"
	"apostila-ai/backend/internal/models"
	apperrors "apostila-ai/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validExercises = `{"exercises":[{"question":"Quanto é 2x=4?","options":["1","2","3","4"],"correctAnswer":1,"explanation":"x=2"}]}`

func TestExtractExercises(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"bare object", validExercises, validExercises, true},
		{"surrounded by prose", "Aqui estão:\n```json\n" + validExercises + "\n```\nBons estudos!", validExercises, true},
		{"whitespace compacted, key order kept", "{\n  \"z\": 1,\n  \"a\": [ 1, 2 ]\n}", `{"z":1,"a":[1,2]}`, true},
		{"no braces", "Não consegui gerar exercícios.", "", false},
		{"only closing brace", "} antes {", "", false},
		{"greedy span over two objects", `{"a":1} e {"b":2}`, "", false},
		{"invalid json", "{exercises: []}", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractExercises(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, string(got))
			}
		})
	}
}

func TestFallbackExercises(t *testing.T) {
	reply := strings.Repeat("á", 250)
	set := FallbackExercises("Frações", reply)

	require.Len(t, set.Exercises, 1)
	ex := set.Exercises[0]
	assert.Equal(t, "Sobre Frações, qual das alternativas está correta?", ex.Question)
	assert.Len(t, ex.Options, 4)
	assert.Equal(t, "Segunda opção relacionada ao tópico", ex.Options[1])
	assert.Equal(t, 1, ex.CorrectAnswerIndex)
	assert.Equal(t, "A resposta correta é a segunda opção. "+strings.Repeat("á", 200)+"...", ex.Explanation)

	short := FallbackExercises("X", "curto")
	assert.Equal(t, "A resposta correta é a segunda opção. curto...", short.Exercises[0].Explanation)
}

func TestValidateExerciseSet(t *testing.T) {
	violations, err := ValidateExerciseSet(json.RawMessage(validExercises))
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = ValidateExerciseSet(json.RawMessage(`{"exercises":[{"question":"q","options":["a"]}]}`))
	require.NoError(t, err)
	assert.NotEmpty(t, violations)
}

func TestGenerateReturnsEmbeddedJSONVerbatim(t *testing.T) {
	sender := &fakeSender{reply: map[string]any{
		"response": "Claro! " + validExercises + " Espero ter ajudado.",
	}}
	s := newTestExerciseService(sender, testCreds)

	result, err := s.Generate(context.Background(), models.ExerciseRequest{Topic: "Equações", Difficulty: "medio"})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, validExercises, string(result.Body))

	require.Len(t, sender.payloads, 1)
	p := sender.payloads[0]
	assert.Equal(t, AnonymousUser, p.UserID)
	assert.Equal(t, "exercises_1715348730250", p.SessionID)
	assert.Contains(t, p.Message, `sobre o tópico: "Equações"`)
	assert.Contains(t, p.Message, "Dificuldade: medio")
	assert.Equal(t, map[string]any{
		"app":        "apostila_ai",
		"feature":    "exercise_generator",
		"topic":      "Equações",
		"difficulty": "medio",
	}, p.Context)
}

func TestGenerateKeepsSchemaMismatch(t *testing.T) {
	sender := &fakeSender{reply: map[string]any{"message": `{"itens":[1,2]}`}}
	s := newTestExerciseService(sender, testCreds)

	result, err := s.Generate(context.Background(), models.ExerciseRequest{Topic: "t", Difficulty: "easy", UserID: "u7"})
	require.NoError(t, err)
	assert.Equal(t, `{"itens":[1,2]}`, string(result.Body))
	assert.Equal(t, "u7", sender.payloads[0].UserID)
}

func TestGenerateFallback(t *testing.T) {
	sender := &fakeSender{reply: map[string]any{"answer": "Sem JSON aqui"}}
	s := newTestExerciseService(sender, testCreds)

	result, err := s.Generate(context.Background(), models.ExerciseRequest{Topic: "Frações", Difficulty: "hard"})
	require.NoError(t, err)
	assert.True(t, result.Fallback)

	var set models.ExerciseSet
	require.NoError(t, json.Unmarshal(result.Body, &set))
	require.Len(t, set.Exercises, 1)
	assert.Equal(t, 1, set.Exercises[0].CorrectAnswerIndex)
	assert.Equal(t, "A resposta correta é a segunda opção. Sem JSON aqui...", set.Exercises[0].Explanation)
}

func TestGenerateMissingFields(t *testing.T) {
	sender := &fakeSender{}
	s := newTestExerciseService(sender, testCreds)

	for _, req := range []models.ExerciseRequest{{Topic: "t"}, {Difficulty: "easy"}} {
		_, err := s.Generate(context.Background(), req)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		assert.Equal(t, MsgExerciseFieldsRequired, appErr.Message)
	}
	assert.Empty(t, sender.payloads)
}

func TestGenerateNotConfigured(t *testing.T) {
	s := newTestExerciseService(&fakeSender{}, chatvolt.StaticResolver{BaseURL: "http://x"})

	_, err := s.Generate(context.Background(), models.ExerciseRequest{Topic: "t", Difficulty: "easy"})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgConfigMissing, appErr.Message)
}

func TestGenerateUpstreamErrorHidesDetails(t *testing.T) {
	for _, sendErr := range []error{&chatvolt.UpstreamError{StatusCode: 502, Body: "bad gateway"}, errNetwork} {
		s := newTestExerciseService(&fakeSender{err: sendErr}, testCreds)

		_, err := s.Generate(context.Background(), models.ExerciseRequest{Topic: "t", Difficulty: "easy"})
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
		assert.Equal(t, MsgExerciseFailure, appErr.Message)
		assert.Empty(t, appErr.Details)
		assert.Empty(t, appErr.Upstream)
	}
}
