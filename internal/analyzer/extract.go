package analyzer

import (
	"encoding/json"
	"strings"

	"github.com/talkstream/convosync/internal/platform"
)

const launchMarker = "Conversation started"

// ConversationText flattens a turn sequence into the text sent to the
// analysis service. Turns yielding no text are skipped; an empty result
// means there is nothing worth analyzing.
func ConversationText(turns []platform.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		if text := TurnText(turn); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// TurnText extracts human-readable text from one turn. The dispatch is
// total: an unrecognized payload shape yields an empty string, never an
// error.
func TurnText(turn platform.Turn) string {
	switch turn.Type {
	case platform.TurnTypeText:
		return textTurnText(turn.Payload)
	case platform.TurnTypeRequest:
		return requestTurnText(turn.Payload)
	default:
		return genericText(turn.Payload)
	}
}

type slateNode struct {
	Type     string      `json:"type"`
	Text     string      `json:"text"`
	Children []slateNode `json:"children"`
}

type textTurnPayload struct {
	Message string `json:"message"`
	Slate   *struct {
		Content []slateNode `json:"content"`
	} `json:"slate"`
}

// textTurnText flattens rich slate content depth-first, one line per
// top-level block. Link nodes contribute their first child's text, plain
// nodes their own text.
func textTurnText(raw json.RawMessage) string {
	var p textTurnPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}
	if p.Slate != nil && len(p.Slate.Content) > 0 {
		lines := make([]string, 0, len(p.Slate.Content))
		for _, block := range p.Slate.Content {
			if line := strings.TrimSpace(flattenNode(block)); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}
	return strings.TrimSpace(p.Message)
}

func flattenNode(node slateNode) string {
	if node.Type == "link" {
		if len(node.Children) > 0 {
			return node.Children[0].Text
		}
		return ""
	}
	if node.Text != "" {
		return node.Text
	}
	var b strings.Builder
	for _, child := range node.Children {
		b.WriteString(flattenNode(child))
	}
	return b.String()
}

type requestTurnPayload struct {
	Type    string `json:"type"`
	Query   string `json:"query"`
	Label   string `json:"label"`
	Payload *struct {
		Query string `json:"query"`
		Label string `json:"label"`
	} `json:"payload"`
}

func requestTurnText(raw json.RawMessage) string {
	var p requestTurnPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}
	if p.Payload != nil {
		if p.Payload.Query != "" {
			return p.Payload.Query
		}
	}
	if p.Query != "" {
		return p.Query
	}
	if p.Payload != nil && p.Payload.Label != "" {
		return p.Payload.Label
	}
	if p.Label != "" {
		return p.Label
	}
	if p.Type == "launch" {
		return launchMarker
	}
	return ""
}

type genericPayload struct {
	Message string `json:"message"`
	Text    string `json:"text"`
	Payload *struct {
		Message string `json:"message"`
		Text    string `json:"text"`
	} `json:"payload"`
}

// genericText falls through a fixed priority of message/text fields at
// decreasing nesting depth.
func genericText(raw json.RawMessage) string {
	var p genericPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ""
	}
	if p.Payload != nil {
		if p.Payload.Message != "" {
			return p.Payload.Message
		}
		if p.Payload.Text != "" {
			return p.Payload.Text
		}
	}
	if p.Message != "" {
		return p.Message
	}
	return p.Text
}
