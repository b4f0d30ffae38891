package sendpoll

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nikitkaralius/evopoll/internal/outcome"
	"github.com/nikitkaralius/evopoll/internal/params"
	"github.com/nikitkaralius/evopoll/internal/polls"
	"github.com/nikitkaralius/evopoll/internal/utils"
)

// Sender delivers a built poll. Evolution API and Telegram both implement it.
type Sender interface {
	SendPoll(ctx context.Context, instance string, body polls.RequestBody) (any, error)
}

// Service runs the poll-send pipeline: normalize, validate, build, send, classify.
// It keeps no state between invocations.
type Service struct {
	sender Sender
	logger *log.Logger
	clock  utils.Clock
}

type Option func(*Service)

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(c utils.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(sender Sender, opts ...Option) *Service {
	s := &Service{sender: sender, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send runs one invocation. Invalid options always come back as a failure envelope with a nil
// error. Parameter and transport faults come back as an envelope when continueOnFail is set,
// otherwise as an *outcome.OperationError.
func (s *Service) Send(ctx context.Context, p params.Accessor, continueOnFail bool) (outcome.Envelope, error) {
	logger := s.logger.With("invocation", uuid.NewString())

	env, err := s.send(ctx, p, logger)
	if err == nil {
		return env, nil
	}

	failure := outcome.Classify(err, s.clock.Now())
	logger.Error("send poll failed", "code", failure.Code, "err", err)
	if !continueOnFail {
		return outcome.Envelope{}, outcome.NewOperationError(failure, err)
	}
	return outcome.Failed(failure), nil
}

func (s *Service) send(ctx context.Context, p params.Accessor, logger *log.Logger) (outcome.Envelope, error) {
	req, err := readRequest(p)
	if err != nil {
		return outcome.Envelope{}, err
	}

	options, selectable, violation := polls.Validate(req.options, req.selectableCount)
	if violation != nil {
		logger.Warn("poll rejected", "details", violation.Details)
		return outcome.Failed(outcome.NewFailure(violation.Message, violation.Details, violation.Code, s.clock.Now())), nil
	}

	body := polls.Build(req.modifiers.Spec(req.remoteJid, req.caption, selectable, options))
	resp, err := s.sender.SendPoll(ctx, req.instance, body)
	if err != nil {
		return outcome.Envelope{}, err
	}

	logger.Info("poll sent", "instance", req.instance, "number", body.Number, "options", len(body.Values))
	return outcome.Success(resp), nil
}

type request struct {
	instance        string
	remoteJid       string
	caption         string
	selectableCount int
	options         []string
	modifiers       polls.Modifiers
}

func readRequest(p params.Accessor) (request, error) {
	var req request
	var err error
	if req.instance, err = params.String(p, "instanceName"); err != nil {
		return request{}, err
	}
	if req.remoteJid, err = params.String(p, "remoteJid"); err != nil {
		return request{}, err
	}
	if req.caption, err = params.String(p, "caption"); err != nil {
		return request{}, err
	}
	if req.selectableCount, err = params.Int(p, "selectableCount"); err != nil {
		return request{}, err
	}
	mode, err := params.String(p, "optionsInputType")
	if err != nil {
		return request{}, err
	}
	if req.modifiers, err = polls.DecodeModifiers(p.GetOr("options_message", map[string]any{})); err != nil {
		return request{}, err
	}

	var raw any
	switch polls.ParseInputMode(mode) {
	case polls.InputArray:
		if raw, err = p.Get("optionsArray"); err != nil {
			return request{}, err
		}
		req.options = polls.NormalizeArray(raw)
	case polls.InputManual:
		if raw, err = p.Get("options_display.metadataValues"); err != nil {
			return request{}, err
		}
		req.options = polls.NormalizeManual(raw)
	}
	return req, nil
}
