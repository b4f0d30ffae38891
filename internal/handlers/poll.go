package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/nikitkaralius/evopoll/internal/outcome"
	"github.com/nikitkaralius/evopoll/internal/params"
)

type errorResponse struct {
	Error string `json:"error"`
}

type PollService interface {
	Send(ctx context.Context, p params.Accessor, continueOnFail bool) (outcome.Envelope, error)
}

// HandleSendPoll accepts the poll parameters as a JSON object. The envelope is returned with 200;
// an invocation that ended abnormally answers 502 with its message and description.
func HandleSendPoll(svc PollService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p params.Map
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object of poll parameters"})
			return
		}

		env, err := svc.Send(r.Context(), p, params.Bool(p, "continueOnFail", false))
		if err != nil {
			var opErr *outcome.OperationError
			if errors.As(err, &opErr) {
				writeJSON(w, http.StatusBadGateway, opErr)
				return
			}
			log.Error("send poll handler", "err", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
			return
		}
		writeJSON(w, http.StatusOK, env)
	}
}

func HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}
