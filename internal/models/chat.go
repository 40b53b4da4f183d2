package models

// ChatRequest is the body of the simple chat route
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
}

// ProxyRequest is the body of the parameterized chat route.
// Nothing is bound as required here; the route has no client-input failure.
type ProxyRequest struct {
	Message      string         `json:"message"`
	UserID       string         `json:"userId"`
	Type         string         `json:"type"`
	SystemPrompt string         `json:"systemPrompt,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
}

// ChatResponse is returned by the simple chat route
type ChatResponse struct {
	Response  string `json:"response"`
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
}

// ProxyMetadata describes the exchange behind a proxied reply
type ProxyMetadata struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	// ChatvoltData is the raw provider object; nil when raw exposure is disabled
	ChatvoltData any `json:"chatvoltData,omitempty"`
}

// ProxyResponse is returned by the parameterized chat and tutor routes
type ProxyResponse struct {
	Response  string        `json:"response"`
	Success   bool          `json:"success"`
	Timestamp string        `json:"timestamp"`
	Metadata  ProxyMetadata `json:"metadata"`
}

// TutorRequest is a question asked on the study page
type TutorRequest struct {
	Message string         `json:"message" binding:"required"`
	Type    string         `json:"type,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}
