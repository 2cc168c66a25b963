package interaction

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindPing               Kind = 1
	KindApplicationCommand Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindPing:
		return "ping"
	case KindApplicationCommand:
		return "application_command"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type AckType int

const (
	AckPong     AckType = 1
	AckDeferred AckType = 5
)

// Interaction is one inbound event as delivered by the platform. The token
// authorizes exactly one follow-up and expires after a platform-defined window.
type Interaction struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Kind  Kind   `json:"type"`
	Data  Data   `json:"data"`
}

type Data struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

type Option struct {
	Name  string `json:"name,omitempty"`
	Type  int    `json:"type,omitempty"`
	Value any    `json:"value"`
}

// Prompt returns the first option value as text. Options after the first are
// ignored.
func (in Interaction) Prompt() (string, bool) {
	if len(in.Data.Options) == 0 {
		return "", false
	}
	switch v := in.Data.Options[0].Value.(type) {
	case nil:
		return "", false
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

type Acknowledgment struct {
	Type AckType `json:"type"`
}

type FollowUpMessage struct {
	Content string `json:"content"`
}

// NewFollowUp joins the prompt and the generated text the way the chat
// client renders them: prompt, a colon, then the answer on its own line.
func NewFollowUp(prompt, generated string) FollowUpMessage {
	return FollowUpMessage{Content: prompt + ":\r" + generated}
}

const (
	CommandTypeChatInput = 1
	OptionTypeString     = 3
)

type CommandDescriptor struct {
	Name        string          `json:"name"`
	Type        int             `json:"type"`
	Description string          `json:"description"`
	Options     []CommandOption `json:"options"`
}

type CommandOption struct {
	Name        string `json:"name"`
	Type        int    `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

func DefaultChatCommand() CommandDescriptor {
	return CommandDescriptor{
		Name:        "chat",
		Type:        CommandTypeChatInput,
		Description: "Ask the AI Bot something",
		Options: []CommandOption{
			{Name: "text", Type: OptionTypeString, Description: "Type your request for ChatGPT", Required: true},
		},
	}
}

func (d CommandDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: command name is required", ErrInvalidDescriptor)
	}
	if strings.TrimSpace(d.Description) == "" {
		return fmt.Errorf("%w: command %q has no description", ErrInvalidDescriptor, d.Name)
	}
	for i, opt := range d.Options {
		if strings.TrimSpace(opt.Name) == "" {
			return fmt.Errorf("%w: option %d of %q has no name", ErrInvalidDescriptor, i, d.Name)
		}
	}
	return nil
}
