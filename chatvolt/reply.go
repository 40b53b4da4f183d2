package chatvolt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// ReplyFields are probed in order; the provider schema varies between deployments
var ReplyFields = []string{"response", "message", "answer", "text"}

// NotFoundPlaceholder is returned when no reply field carries a value
const NotFoundPlaceholder = "Resposta não encontrada"

// ResolveText returns the first truthy value among ReplyFields.
// Empty strings, false, zero and null are skipped. Non-string values are rendered as JSON.
func ResolveText(data map[string]any) string {
	for _, field := range ReplyFields {
		if text, ok := truthyText(data[field]); ok {
			return text
		}
	}
	return NotFoundPlaceholder
}

func truthyText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case bool:
		if !t {
			return "", false
		}
		return "true", true
	case float64:
		if t == 0 || math.IsNaN(t) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// ChatSessionID groups the simple chat exchanges of one user
func ChatSessionID(userID string) string {
	return AppName + "_" + userID
}

// FeatureSessionID identifies one parameterized exchange
func FeatureSessionID(feature, userID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%d", AppName, feature, userID, at.UnixMilli())
}

// ExerciseSessionID identifies one exercise generation
func ExerciseSessionID(at time.Time) string {
	return fmt.Sprintf("exercises_%d", at.UnixMilli())
}

// ComposeMessage prepends the system prompt to the user's message
func ComposeMessage(systemPrompt, message string) string {
	if systemPrompt == "" {
		return message
	}
	return systemPrompt + "\n\nUsuário: " + message
}
