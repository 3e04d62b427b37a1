package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/connoction/outreach-cli/internal/model"
)

// DraftTemplates overrides the built-in drafting prompts. All fields
// are optional; empty values fall back to the defaults.
type DraftTemplates struct {
	// System replaces the drafting system prompt.
	System string `yaml:"system"`
	// Hints maps a channel name to its output format hint.
	Hints map[string]string `yaml:"hints"`
	// Asks are named ask presets selectable from the CLI.
	Asks map[string]string `yaml:"asks"`
}

// LoadDraftTemplates reads drafting templates from a YAML file.
func LoadDraftTemplates(path string) (*DraftTemplates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read templates %s", path)
	}

	// The YAML has a top-level "draft" key.
	var wrapper struct {
		Draft DraftTemplates `yaml:"draft"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "pipeline: parse templates")
	}

	return &wrapper.Draft, nil
}

// systemText returns the system prompt, template override first.
func (t *DraftTemplates) systemText() string {
	if t != nil && t.System != "" {
		return t.System
	}
	return draftSystemText
}

// hint returns the output format hint for a channel, template override
// first.
func (t *DraftTemplates) hint(channel model.Channel) string {
	if t != nil {
		if h, ok := t.Hints[string(channel)]; ok && h != "" {
			return h
		}
	}
	if channel == model.ChannelEmail {
		return emailFormatHint
	}
	return linkedinFormatHint
}

// Ask resolves a named ask preset; unknown names return "".
func (t *DraftTemplates) Ask(name string) string {
	if t == nil {
		return ""
	}
	return t.Asks[name]
}
