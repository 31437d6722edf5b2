package protocol

import "encoding/json"

// Server event types emitted by the realtime service.
const (
	EventTypeSessionCreated = "session.created"
	EventTypeSessionUpdated = "session.updated"
	EventTypeResponseDone   = "response.done"
	EventTypeOutputItemDone = "response.output_item.done"
	EventTypeError          = "error"
)

// Client event types sent to the realtime service.
const (
	EventTypeSessionUpdate  = "session.update"
	EventTypeItemCreate     = "conversation.item.create"
	EventTypeResponseCreate = "response.create"
)

// Conversation item types.
const (
	ItemTypeMessage            = "message"
	ItemTypeFunctionCall       = "function_call"
	ItemTypeFunctionCallOutput = "function_call_output"
)

// ServerEvent is a decoded event received from the realtime service.
// Only the fields relevant to the event's type are populated.
type ServerEvent struct {
	Type     string            `json:"type"`
	EventID  string            `json:"event_id,omitempty"`
	Item     *ConversationItem `json:"item,omitempty"`
	Response *Response         `json:"response,omitempty"`
	Error    *EventError       `json:"error,omitempty"`
}

// ClientEvent is an event sent to the realtime service.
type ClientEvent struct {
	Type    string            `json:"type"`
	EventID string            `json:"event_id,omitempty"`
	Item    *ConversationItem `json:"item,omitempty"`
	Session *SessionConfig    `json:"session,omitempty"`
}

// Response is the service's view of one model turn.
type Response struct {
	ID     string             `json:"id,omitempty"`
	Status string             `json:"status,omitempty"`
	Output []ConversationItem `json:"output,omitempty"`
}

// ConversationItem is a single item in the conversation: a message, a
// function call issued by the model, or a function call output sent back.
type ConversationItem struct {
	ID        string        `json:"id,omitempty"`
	Type      string        `json:"type"`
	Role      string        `json:"role,omitempty"`
	CallID    string        `json:"call_id,omitempty"`
	Name      string        `json:"name,omitempty"`
	Arguments string        `json:"arguments,omitempty"`
	Output    string        `json:"output,omitempty"`
	Content   []ContentPart `json:"content,omitempty"`
}

// ContentPart is one chunk of message content.
type ContentPart struct {
	Type       string `json:"type"`
	Text       string `json:"text,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// EventError carries service-reported error details.
type EventError struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// SessionConfig is the session payload for session.update events.
type SessionConfig struct {
	Instructions string           `json:"instructions,omitempty"`
	Modalities   []string         `json:"modalities,omitempty"`
	Voice        string           `json:"voice,omitempty"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	ToolChoice   string           `json:"tool_choice,omitempty"`
}

// FunctionCall is a model-issued function call extracted from a server event.
type FunctionCall struct {
	CallID    string
	Name      string
	Arguments string // raw JSON; may be empty
}

// FunctionCalls extracts all function-call requests carried by the event.
// Both response.output_item.done (single item) and response.done (full
// output list) may deliver them; the transport forwards each once.
func (e *ServerEvent) FunctionCalls() []FunctionCall {
	var calls []FunctionCall
	collect := func(item *ConversationItem) {
		if item != nil && item.Type == ItemTypeFunctionCall && item.CallID != "" {
			calls = append(calls, FunctionCall{
				CallID:    item.CallID,
				Name:      item.Name,
				Arguments: item.Arguments,
			})
		}
	}
	switch e.Type {
	case EventTypeOutputItemDone:
		collect(e.Item)
	case EventTypeResponseDone:
		if e.Response != nil {
			for i := range e.Response.Output {
				collect(&e.Response.Output[i])
			}
		}
	}
	return calls
}

// ParseServerEvent decodes a raw websocket frame into a ServerEvent.
func ParseServerEvent(data []byte) (*ServerEvent, error) {
	var e ServerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// NewFunctionOutputEvent builds the conversation.item.create event carrying
// a function call result. The output is always a string on the wire.
func NewFunctionOutputEvent(callID, output string) ClientEvent {
	return ClientEvent{
		Type: EventTypeItemCreate,
		Item: &ConversationItem{
			Type:   ItemTypeFunctionCallOutput,
			CallID: callID,
			Output: output,
		},
	}
}

// NewResponseCreateEvent builds the continuation trigger that follows every
// function call output.
func NewResponseCreateEvent() ClientEvent {
	return ClientEvent{Type: EventTypeResponseCreate}
}

// NewSessionUpdateEvent builds a session.update event.
func NewSessionUpdateEvent(session SessionConfig) ClientEvent {
	return ClientEvent{Type: EventTypeSessionUpdate, Session: &session}
}
