package outcome

import (
	"errors"
	"strings"
	"time"

	"github.com/nikitkaralius/evopoll/internal/params"
)

const (
	msgInvalidParams     = "Parâmetros inválidos ou ausentes"
	detailsInvalidParams = "Verifique se todos os campos obrigatórios foram preenchidos corretamente"
	msgSendFailed        = "Erro ao enviar enquete"

	missingParamMarker = "Could not get parameter"
)

// Coder is implemented by faults that carry a machine-readable code.
type Coder interface {
	Code() string
}

// Classify turns a parameter or transport fault into a Failure stamped with at.
func Classify(err error, at time.Time) Failure {
	message, details := msgSendFailed, err.Error()
	if isParameterFault(err) {
		message, details = msgInvalidParams, detailsInvalidParams
	}

	var code string
	var c Coder
	if errors.As(err, &c) {
		code = c.Code()
	}
	return NewFailure(message, details, code, at)
}

func isParameterFault(err error) bool {
	return errors.Is(err, params.ErrNotFound) || strings.Contains(err.Error(), missingParamMarker)
}

// OperationError ends an invocation that did not opt into continue-on-failure.
// It carries the curated message and description, never the raw fault text as its message.
type OperationError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
	Code        string `json:"code"`
	cause       error
}

func NewOperationError(f Failure, cause error) *OperationError {
	return &OperationError{Message: f.Message, Description: f.Details, Code: f.Code, cause: cause}
}

func (e *OperationError) Error() string {
	return e.Message + ": " + e.Description
}

func (e *OperationError) Unwrap() error {
	return e.cause
}
