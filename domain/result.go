package domain

// Chunk is a retrieval fragment the backend may attach to an answer.
type Chunk struct {
	Source string  `json:"source,omitempty"`
	Text   string  `json:"text,omitempty"`
	Score  float64 `json:"score,omitempty"`
}

// AskResult is the backend's answer to a question.
type AskResult struct {
	Answer string  `json:"answer"`
	Chunks []Chunk `json:"chunks,omitempty"`
}

// Classification is the domain classifier's verdict on a message.
// Message carries the rejection explanation and is set only when Valid is false.
type Classification struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ChatResult is the outcome of handling one incoming message. Rejected means
// the classifier turned the message away and Answer holds the rejection text.
type ChatResult struct {
	Answer   string  `json:"answer"`
	Rejected bool    `json:"rejected,omitempty"`
	Chunks   []Chunk `json:"chunks,omitempty"`
}
