package polls

// OptionsInputMode selects how poll answers are read from the caller's parameters.
type OptionsInputMode string

const (
	// InputArray reads answers from a single field: a list, a JSON array string or a comma-separated string.
	InputArray OptionsInputMode = "array"
	// InputManual reads answers from a list of {optionValue} records.
	InputManual OptionsInputMode = "manual"
)

// ParseInputMode maps the optionsInputType parameter to a mode. Anything but "array" reads manual records.
func ParseInputMode(s string) OptionsInputMode {
	if OptionsInputMode(s) == InputArray {
		return InputArray
	}
	return InputManual
}

const (
	MinOptions = 2
	MaxOptions = 12
)

// PollSpec is a validated poll ready to be turned into a request body.
type PollSpec struct {
	Number          string
	Name            string
	SelectableCount int
	Options         []string
	Delay           int
	QuotedMessageID string
}

// Modifiers are the optional delivery settings from options_message.
type Modifiers struct {
	Delay  int `mapstructure:"delay"`
	Quoted struct {
		MessageQuoted struct {
			MessageID string `mapstructure:"messageId"`
		} `mapstructure:"messageQuoted"`
	} `mapstructure:"quoted"`
}

// RequestBody is the JSON payload of POST /message/sendPoll/{instance}.
type RequestBody struct {
	Number          string   `json:"number"`
	Name            string   `json:"name"`
	SelectableCount int      `json:"selectableCount"`
	Values          []string `json:"values"`
	Delay           int      `json:"delay,omitempty"`
	Quoted          *Quoted  `json:"quoted,omitempty"`
}

type Quoted struct {
	Key QuotedKey `json:"key"`
}

type QuotedKey struct {
	ID string `json:"id"`
}

type manualOption struct {
	OptionValue string `mapstructure:"optionValue"`
}
