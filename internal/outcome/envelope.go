package outcome

import (
	"encoding/json"
	"time"

	"github.com/nikitkaralius/evopoll/internal/utils"
)

const CodeUnknown = "UNKNOWN_ERROR"

// Envelope is the single result of a poll-send invocation.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   *Failure `json:"error,omitempty"`
}

type Failure struct {
	Message   string `json:"message"`
	Details   string `json:"details"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

// MarshalJSON always writes data on success, null included, and only error on failure.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Success {
		return json.Marshal(struct {
			Success bool `json:"success"`
			Data    any  `json:"data"`
		}{true, e.Data})
	}
	return json.Marshal(struct {
		Success bool     `json:"success"`
		Error   *Failure `json:"error,omitempty"`
	}{false, e.Error})
}

func Success(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func Failed(f Failure) Envelope {
	return Envelope{Success: false, Error: &f}
}

// NewFailure stamps a failure with the given time.
func NewFailure(message, details, code string, at time.Time) Failure {
	if code == "" {
		code = CodeUnknown
	}
	return Failure{
		Message:   message,
		Details:   details,
		Code:      code,
		Timestamp: utils.FormatISO(at),
	}
}
