package protocol

// ToolDefinition describes a tool available to the model, in the flattened
// realtime function format (name at the top level, not nested).
type ToolDefinition struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// NewToolDefinition creates a ToolDefinition in realtime function format.
func NewToolDefinition(name, description string, parameters map[string]any) ToolDefinition {
	return ToolDefinition{
		Type:        "function",
		Name:        name,
		Description: description,
		Parameters:  parameters,
	}
}
