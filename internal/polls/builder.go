package polls

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Build assembles the sendPoll payload. Delay and quoted are left out entirely when unset.
func Build(p PollSpec) RequestBody {
	body := RequestBody{
		Number:          p.Number,
		Name:            p.Name,
		SelectableCount: p.SelectableCount,
		Values:          p.Options,
	}
	if p.Delay != 0 {
		body.Delay = p.Delay
	}
	if p.QuotedMessageID != "" {
		body.Quoted = &Quoted{Key: QuotedKey{ID: p.QuotedMessageID}}
	}
	return body
}

// Spec merges validated answers with the recipient, title and modifiers.
func (m Modifiers) Spec(number, name string, selectableCount int, options []string) PollSpec {
	return PollSpec{
		Number:          number,
		Name:            name,
		SelectableCount: selectableCount,
		Options:         options,
		Delay:           m.Delay,
		QuotedMessageID: m.Quoted.MessageQuoted.MessageID,
	}
}

// DecodeModifiers reads the options_message parameter.
func DecodeModifiers(raw any) (Modifiers, error) {
	var m Modifiers
	if err := mapstructure.WeakDecode(raw, &m); err != nil {
		return Modifiers{}, fmt.Errorf("invalid options_message: %w", err)
	}
	return m, nil
}
