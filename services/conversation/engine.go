package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medibook/models"
	"medibook/services/booking"
	"medibook/services/schedule"
	"medibook/utils"

	"go.uber.org/zap"
)

// Event is one message from one client.
type Event struct {
	ClientID string
	Text     string
}

// step advances a conversation by one client reply. It returns the record to
// keep; a reply marked Done ends the conversation and the record is dropped.
type step func(ctx context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error)

// Engine routes dialogue events through the booking, provider, cancellation and
// roster flows. Answers are only written back after a step succeeds.
type Engine struct {
	sessions  SessionStore
	bookings  booking.BookingService
	schedules schedule.ScheduleService
	gate      ProviderGate
	locations []string
	window    int
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger

	steps map[string]step
}

// Options holds the engine's tunables.
type Options struct {
	Locations         []string
	BookingWindowDays int
	Location          *time.Location
	Now               func() time.Time
	Logger            *zap.Logger
}

func NewEngine(
	sessions SessionStore,
	bookings booking.BookingService,
	schedules schedule.ScheduleService,
	gate ProviderGate,
	opts Options,
) *Engine {
	e := &Engine{
		sessions:  sessions,
		bookings:  bookings,
		schedules: schedules,
		gate:      gate,
		locations: opts.Locations,
		window:    opts.BookingWindowDays,
		loc:       opts.Location,
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if e.window < 1 {
		e.window = 7
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}

	e.steps = map[string]step{
		StateName:             e.stepName,
		StateAge:              e.stepAge,
		StateSex:              e.stepSex,
		StateReason:           e.stepReason,
		StatePhone:            e.stepPhone,
		StateHospital:         e.stepHospital,
		StateSelectDay:        e.stepSelectDay,
		StateSelectSession:    e.stepSelectSession,
		StateProviderHospital: e.stepProviderHospital,
		StateProviderDay:      e.stepProviderDay,
		StateConfirmOverwrite: e.stepConfirmOverwrite,
		StateProviderSession:  e.stepProviderSession,
		StateSelectBooking:    e.stepSelectBooking,
		StateRosterDay:        e.stepRosterDay,
	}
	return e
}

// Handle processes one event. Events of one client run one at a time. Only
// storage failures are returned as errors; every other outcome is a reply.
func (e *Engine) Handle(ctx context.Context, ev Event) (models.DialogueReply, error) {
	release, err := e.sessions.Acquire(ctx, ev.ClientID)
	if err != nil {
		return models.DialogueReply{}, err
	}
	defer release()

	logger := e.logger.With(zap.String("clientId", ev.ClientID))
	text := strings.TrimSpace(ev.Text)

	rec, err := e.sessions.Get(ctx, ev.ClientID)
	if err != nil {
		return models.DialogueReply{}, fmt.Errorf("load conversation: %w", err)
	}

	if strings.HasPrefix(text, "/") {
		return e.command(ctx, logger, ev.ClientID, rec, text)
	}
	if rec == nil {
		return done(msgIdle), nil
	}

	fn, ok := e.steps[rec.State]
	if !ok {
		logger.Warn("Dropping conversation in unknown state", zap.String("state", rec.State))
		if err := e.sessions.Clear(ctx, ev.ClientID); err != nil {
			return models.DialogueReply{}, err
		}
		return done(msgIdle), nil
	}

	next, reply, err := fn(ctx, *rec, text)
	if err != nil {
		logger.Error("Dialogue step failed", zap.String("state", rec.State), zap.Error(err))
		return models.DialogueReply{}, err
	}
	return e.commit(ctx, next, reply)
}

func (e *Engine) command(ctx context.Context, logger *zap.Logger, clientID string, rec *models.DialogueSession, text string) (models.DialogueReply, error) {
	cmd := strings.ToLower(strings.Fields(text)[0])

	switch cmd {
	case CmdCancel:
		if err := e.sessions.Clear(ctx, clientID); err != nil {
			return models.DialogueReply{}, err
		}
		if rec == nil {
			return done(msgNothingToCancel), nil
		}
		logger.Info("Conversation cancelled", zap.String("flow", rec.Flow), zap.String("state", rec.State))
		return done(msgCancelled), nil

	case CmdStart:
		if e.gate.Authorize(clientID) == nil {
			if err := e.sessions.Clear(ctx, clientID); err != nil {
				return models.DialogueReply{}, err
			}
			return done(msgProviderWelcome), nil
		}
		next := models.DialogueSession{ClientID: clientID, Flow: FlowBooking, State: StateName}
		return e.commit(ctx, next, prompt(msgAskName))

	case CmdMyAppointment:
		return e.startCancellation(ctx, clientID)

	case CmdSchedule, CmdViewPatients:
		if err := e.gate.Authorize(clientID); err != nil {
			logger.Warn("Provider command refused", zap.String("command", cmd))
			reply := prompt(msgUnauthorized)
			if rec != nil {
				reply.State = rec.State
			}
			return reply, nil
		}
		if cmd == CmdSchedule {
			next := models.DialogueSession{ClientID: clientID, Flow: FlowProvider, State: StateProviderHospital}
			return e.commit(ctx, next, prompt(msgAskHospital, e.locations...))
		}
		next := models.DialogueSession{ClientID: clientID, Flow: FlowRoster, State: StateRosterDay}
		return e.commit(ctx, next, prompt(msgAskRosterDay, utils.Weekdays...))
	}

	reply := prompt(msgUnknownCommand)
	if rec != nil {
		reply.State = rec.State
	}
	return reply, nil
}

// commit stores next, or drops the conversation when the reply ends it.
func (e *Engine) commit(ctx context.Context, next models.DialogueSession, reply models.DialogueReply) (models.DialogueReply, error) {
	if reply.Done {
		if err := e.sessions.Clear(ctx, next.ClientID); err != nil {
			return models.DialogueReply{}, err
		}
		reply.State = ""
		return reply, nil
	}
	if err := e.sessions.Save(ctx, &next); err != nil {
		return models.DialogueReply{}, fmt.Errorf("save conversation: %w", err)
	}
	reply.State = next.State
	return reply, nil
}

func (e *Engine) today() time.Time {
	return e.now().In(e.loc)
}

func prompt(text string, choices ...string) models.DialogueReply {
	return models.DialogueReply{Text: text, Choices: choices}
}

func done(text string) models.DialogueReply {
	return models.DialogueReply{Text: text, Done: true}
}

// matchChoice returns the offered choice equal to input ignoring case.
func matchChoice(input string, choices []string) (string, bool) {
	for _, c := range choices {
		if strings.EqualFold(strings.TrimSpace(input), c) {
			return c, true
		}
	}
	return "", false
}
