package ccsessions

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ContentKind identifies which shape a message content payload had on disk
type ContentKind int

const (
	// ContentEmpty covers missing, null, or unrecognized payloads
	ContentEmpty ContentKind = iota
	// ContentText is a bare string payload
	ContentText
	// ContentBlocks is an ordered list of typed blocks
	ContentBlocks
)

// BlockKind identifies a content block
type BlockKind int

const (
	BlockOther BlockKind = iota
	BlockText
	BlockThinking
	BlockToolUse
	BlockToolResult
)

// Content is the decoded "message.content" field of a user or assistant record.
// Decoding never fails: shapes it does not recognize decode to ContentEmpty.
type Content struct {
	Kind   ContentKind
	Text   string
	Blocks []Block
}

// Block is one element of a block-list payload. Only the fields matching Kind are set.
type Block struct {
	Kind       BlockKind
	Text       string // text or thinking
	ToolUse    ToolUse
	ToolResult ToolResult
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Content) UnmarshalJSON(data []byte) error {
	*c = Content{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			c.Kind = ContentText
			c.Text = s
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err == nil {
			c.Kind = ContentBlocks
			c.Blocks = make([]Block, 0, len(items))
			for _, item := range items {
				c.Blocks = append(c.Blocks, decodeBlock(item))
			}
		}
	}

	return nil
}

// PlainText joins text and thinking blocks with newlines. A bare string is returned as-is.
func (c Content) PlainText() string {
	switch c.Kind {
	case ContentText:
		return c.Text
	case ContentBlocks:
		var texts []string
		for _, b := range c.Blocks {
			switch b.Kind {
			case BlockText, BlockThinking:
				texts = append(texts, b.Text)
			}
		}
		return strings.Join(texts, "\n")
	default:
		return ""
	}
}

// ToolUses returns the tool_use blocks in order
func (c Content) ToolUses() []ToolUse {
	var uses []ToolUse
	for _, b := range c.Blocks {
		if b.Kind == BlockToolUse {
			uses = append(uses, b.ToolUse)
		}
	}
	return uses
}

// ToolResults returns the tool_result blocks in order
func (c Content) ToolResults() []ToolResult {
	var results []ToolResult
	for _, b := range c.Blocks {
		if b.Kind == BlockToolResult {
			results = append(results, b.ToolResult)
		}
	}
	return results
}

func decodeBlock(raw json.RawMessage) Block {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Block{Kind: BlockOther}
	}

	switch stringField(fields, "type") {
	case "text":
		return Block{Kind: BlockText, Text: stringField(fields, "text")}
	case "thinking":
		return Block{Kind: BlockThinking, Text: stringField(fields, "thinking")}
	case "tool_use":
		return Block{
			Kind: BlockToolUse,
			ToolUse: ToolUse{
				Name:  stringField(fields, "name"),
				Input: objectField(fields, "input"),
			},
		}
	case "tool_result":
		text, ok := toolResultText(fields["content"])
		if !ok {
			return Block{Kind: BlockOther}
		}
		return Block{Kind: BlockToolResult, ToolResult: ToolResult{Content: text}}
	}

	return Block{Kind: BlockOther}
}

// toolResultText flattens a tool_result payload. A missing payload counts as an
// empty string result; anything other than a string or a list is dropped.
func toolResultText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", true
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return "", false
		}
		var parts []string
		for _, item := range items {
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(item, &fields); err != nil {
				continue
			}
			if stringField(fields, "type") == "text" {
				parts = append(parts, stringField(fields, "text"))
			}
		}
		return strings.Join(parts, "\n"), true
	}

	return "", false
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func objectField(fields map[string]json.RawMessage, key string) map[string]any {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}
