package contract

import "encoding/json"

const DefaultModel = "gpt-3.5-turbo"

type ChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// ToolRequest is one invocation the model asked for. ID echoes the model's call id so the
// result can be matched back to it.
type ToolRequest struct {
	ID   string         `json:"id"`
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
	// ArgsError is set when the model's argument JSON could not be decoded.
	ArgsError string `json:"-"`
}

type ToolResult struct {
	ID     string `json:"id"`
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Content renders the result as the JSON body returned to the model.
func (r ToolResult) Content() string {
	var payload any = r.Result
	if r.Error != "" {
		payload = map[string]string{"error": r.Error}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		raw, _ = json.Marshal(map[string]string{"error": "unencodable tool result"})
	}
	return string(raw)
}
