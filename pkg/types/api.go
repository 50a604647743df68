package types

// Model represents a discoverable GGUF model on disk.
type Model struct {
	// Stable identifier for the model (the filename).
	// example: qwen2.5-0.5b-instruct-q8_0.gguf
	ID string `json:"id" example:"qwen2.5-0.5b-instruct-q8_0.gguf"`
	// Human-friendly name.
	// example: qwen2.5-0.5b-instruct-q8_0.gguf
	Name string `json:"name" example:"qwen2.5-0.5b-instruct-q8_0.gguf"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/qwen2.5-0.5b-instruct-q8_0.gguf
	Path string `json:"path" example:"/home/user/models/qwen2.5-0.5b-instruct-q8_0.gguf"`
	// Model family detected from the filename (qwen, gemma, llama, phi).
	// example: qwen
	Family string `json:"family,omitempty" example:"qwen"`
}

// InferRequest represents a single-turn completion request.
type InferRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: qwen2.5-0.5b-instruct-q8_0.gguf
	Model string `json:"model,omitempty" example:"qwen2.5-0.5b-instruct-q8_0.gguf"`
	// Required prompt text. Inserted verbatim into the chat template.
	// example: peanuts, milk, wheat flour
	Prompt string `json:"prompt" example:"peanuts, milk, wheat flour"`
	// Chat template kind: 0=ChatML, 1=Gemma, 2=Llama3, 3=Phi.
	// Out-of-range values fall back to ChatML. Omitted (nil) lets the
	// server pick from the model family.
	// example: 0
	Template *int `json:"template,omitempty" example:"0"`
	// Maximum number of new tokens to generate. Defaults to 32.
	// example: 32
	MaxTokens int `json:"max_tokens,omitempty" example:"32"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model not found: missing.gguf
	Error string `json:"error" example:"model not found: missing.gguf"`
	// HTTP status code.
	// example: 404
	Code int `json:"code" example:"404"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Whether the native runtime is available in this build.
	// example: true
	RuntimeAvailable bool `json:"runtime_available" example:"true"`
	// Number of discovered models.
	// example: 3
	ModelCount int `json:"model_count" example:"3"`
	// Default model id used when a request omits the model.
	DefaultModel string `json:"default_model,omitempty"`
	// Requests currently being generated, across all models.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Requests waiting in admission queues.
	// example: 0
	Queued int `json:"queued" example:"0"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
