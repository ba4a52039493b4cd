package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/assistant.txt
	assistantRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	// Assistant is an FString template; {today} is filled per conversation.
	Assistant string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Assistant: strings.TrimSpace(assistantRaw),
	}
}
