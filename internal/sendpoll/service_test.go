package sendpoll

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitkaralius/evopoll/internal/outcome"
	"github.com/nikitkaralius/evopoll/internal/params"
	"github.com/nikitkaralius/evopoll/internal/polls"
)

type fakeSender struct {
	calls    int
	instance string
	body     polls.RequestBody
	resp     any
	err      error
}

func (f *fakeSender) SendPoll(_ context.Context, instance string, body polls.RequestBody) (any, error) {
	f.calls++
	f.instance = instance
	f.body = body
	return f.resp, f.err
}

type transportErr struct{}

func (transportErr) Error() string { return "socket hang up" }
func (transportErr) Code() string  { return "ECONNRESET" }

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newService(s Sender) *Service {
	return NewService(s, WithLogger(log.New(io.Discard)), WithClock(func() time.Time { return fixedNow }))
}

func baseParams() params.Map {
	return params.Map{
		"instanceName":     "main",
		"remoteJid":        "5511999999999",
		"caption":          "Lunch?",
		"selectableCount":  float64(999),
		"optionsInputType": "array",
		"optionsArray":     "a, b, b, c, d, e",
	}
}

func TestService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("Should build the body and wrap the response", func(t *testing.T) {
		sender := &fakeSender{resp: map[string]any{"status": "PENDING"}}
		p := baseParams()
		p["options_message"] = map[string]any{
			"delay":  float64(500),
			"quoted": map[string]any{"messageQuoted": map[string]any{"messageId": "Q1"}},
		}

		env, err := newService(sender).Send(ctx, p, false)
		require.NoError(t, err)
		assert.Equal(t, outcome.Success(map[string]any{"status": "PENDING"}), env)
		assert.Equal(t, "main", sender.instance)
		assert.Equal(t, polls.RequestBody{
			Number:          "5511999999999",
			Name:            "Lunch?",
			SelectableCount: 5,
			Values:          []string{"a", "b", "c", "d", "e"},
			Delay:           500,
			Quoted:          &polls.Quoted{Key: polls.QuotedKey{ID: "Q1"}},
		}, sender.body)
	})

	t.Run("Should read manual records", func(t *testing.T) {
		sender := &fakeSender{}
		p := baseParams()
		p["optionsInputType"] = "manual"
		p["selectableCount"] = float64(1)
		p["options_display"] = map[string]any{"metadataValues": []any{
			map[string]any{"optionValue": "yes"},
			map[string]any{"optionValue": "no"},
			map[string]any{"optionValue": "yes"},
		}}

		env, err := newService(sender).Send(ctx, p, false)
		require.NoError(t, err)
		assert.True(t, env.Success)
		assert.Equal(t, []string{"yes", "no"}, sender.body.Values)
		assert.Nil(t, sender.body.Quoted)
	})

	t.Run("Should treat a missing manual options list as a parameter fault", func(t *testing.T) {
		sender := &fakeSender{}
		p := baseParams()
		p["optionsInputType"] = "manual"

		_, err := newService(sender).Send(ctx, p, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, params.ErrNotFound))

		env, err := newService(sender).Send(ctx, p, true)
		require.NoError(t, err)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Parâmetros inválidos ou ausentes", env.Error.Message)
		assert.Equal(t, "Verifique se todos os campos obrigatórios foram preenchidos corretamente", env.Error.Details)
		assert.Equal(t, 0, sender.calls)
	})

	t.Run("Should read manual records for unknown input types", func(t *testing.T) {
		sender := &fakeSender{}
		p := baseParams()
		p["optionsInputType"] = "fixedCollection"
		p["options_display"] = map[string]any{"metadataValues": []any{
			map[string]any{"optionValue": "yes"},
			map[string]any{"optionValue": "no"},
		}}

		_, err := newService(sender).Send(ctx, p, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"yes", "no"}, sender.body.Values)
	})

	t.Run("Should return invalid options as a failure without sending", func(t *testing.T) {
		for _, continueOnFail := range []bool{true, false} {
			sender := &fakeSender{}
			p := baseParams()
			p["optionsArray"] = "same, same"

			env, err := newService(sender).Send(ctx, p, continueOnFail)
			require.NoError(t, err)
			assert.Equal(t, 0, sender.calls)
			assert.Equal(t, outcome.Envelope{Error: &outcome.Failure{
				Message:   "Invalid poll options",
				Details:   "Poll must have at least 2 options",
				Code:      polls.CodeInvalidOptions,
				Timestamp: "2024-05-01T12:00:00.000Z",
			}}, env)
		}
	})

	t.Run("Should report too many options with the count", func(t *testing.T) {
		sender := &fakeSender{}
		opts := make([]any, 13)
		for i := range opts {
			opts[i] = fmt.Sprintf("o%d", i)
		}
		p := baseParams()
		p["optionsArray"] = opts

		env, err := newService(sender).Send(ctx, p, false)
		require.NoError(t, err)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "13")
		assert.Equal(t, 0, sender.calls)
	})

	t.Run("Should return transport faults when continuing on failure", func(t *testing.T) {
		sender := &fakeSender{err: transportErr{}}
		env, err := newService(sender).Send(ctx, baseParams(), true)
		require.NoError(t, err)
		assert.False(t, env.Success)
		assert.Equal(t, &outcome.Failure{
			Message:   "Erro ao enviar enquete",
			Details:   "socket hang up",
			Code:      "ECONNRESET",
			Timestamp: "2024-05-01T12:00:00.000Z",
		}, env.Error)
	})

	t.Run("Should terminate with an OperationError otherwise", func(t *testing.T) {
		sender := &fakeSender{err: transportErr{}}
		env, err := newService(sender).Send(ctx, baseParams(), false)
		assert.Equal(t, outcome.Envelope{}, env)
		var opErr *outcome.OperationError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "Erro ao enviar enquete", opErr.Message)
		assert.Equal(t, "socket hang up", opErr.Description)
		assert.ErrorIs(t, err, transportErr{})
	})

	t.Run("Should classify missing parameters", func(t *testing.T) {
		sender := &fakeSender{}
		p := baseParams()
		delete(p, "remoteJid")

		env, err := newService(sender).Send(ctx, p, true)
		require.NoError(t, err)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Parâmetros inválidos ou ausentes", env.Error.Message)
		assert.Equal(t, "Verifique se todos os campos obrigatórios foram preenchidos corretamente", env.Error.Details)
		assert.Equal(t, outcome.CodeUnknown, env.Error.Code)
		assert.Equal(t, 0, sender.calls)

		_, err = newService(sender).Send(ctx, p, false)
		assert.True(t, errors.Is(err, params.ErrNotFound))
	})
}
