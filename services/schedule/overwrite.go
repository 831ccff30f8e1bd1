package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ExistingOn returns the schedule already stored for date at any location, or nil.
// The provider works at one location per day.
func (s *DefaultScheduleService) ExistingOn(ctx context.Context, date string) (*models.Schedule, error) {
	onDate, err := s.Repo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("schedule lookup for %s: %w", date, err)
	}
	if len(onDate) == 0 {
		return nil, nil
	}
	return &onDate[0], nil
}

// DefineSchedule stores a fresh slot grid for the day. An existing schedule is
// only replaced when req.ConfirmedExistingID names it; every client who held a
// slot in it is then told their appointment was cancelled.
func (s *DefaultScheduleService) DefineSchedule(ctx context.Context, req DefineRequest) (DefineResult, error) {
	sessions, err := BuildSessions(req.Selection, s.Windows, s.SlotsPerSession)
	if err != nil {
		return DefineResult{}, err
	}
	next := &models.Schedule{
		ID:        uuid.New().String(),
		Location:  req.Location,
		Date:      req.Date,
		Sessions:  sessions,
		CreatedAt: time.Now(),
	}
	logger := s.Logger.With(zap.String("location", req.Location), zap.String("date", req.Date))

	existing, err := s.ExistingOn(ctx, req.Date)
	if err != nil {
		return DefineResult{}, err
	}
	if existing == nil {
		if err := s.Repo.Insert(ctx, next); err != nil {
			if errors.Is(err, scheduleRepo.ErrConflict) {
				// Someone stored a schedule for this day after we looked.
				if raced, lookupErr := s.ExistingOn(ctx, req.Date); lookupErr == nil && raced != nil {
					return DefineResult{}, &OverwriteRequiredError{Existing: *raced}
				}
			}
			return DefineResult{}, err
		}
		logger.Info("Schedule created", zap.String("scheduleId", next.ID))
		return DefineResult{Schedule: *next}, nil
	}

	if req.ConfirmedExistingID != existing.ID {
		return DefineResult{}, &OverwriteRequiredError{Existing: *existing}
	}

	// Who to tell is decided before anything changes.
	affected := uniqueClients(existing.AssignedClients())

	if err := s.Repo.Replace(ctx, existing.ID, next); err != nil {
		return DefineResult{}, fmt.Errorf("replace schedule %s: %w", existing.ID, err)
	}
	logger.Info("Schedule replaced",
		zap.String("oldScheduleId", existing.ID),
		zap.String("scheduleId", next.ID),
		zap.Int("affectedClients", len(affected)))

	failures := s.notifyCancelled(ctx, *existing, affected)
	return DefineResult{
		Schedule:       *next,
		Replaced:       true,
		Notified:       len(affected) - failures,
		NotifyFailures: failures,
	}, nil
}

// notifyCancelled tells every affected client in parallel and waits for all of
// them. Failures are logged and counted, never returned.
func (s *DefaultScheduleService) notifyCancelled(ctx context.Context, old models.Schedule, clients []string) int {
	if len(clients) == 0 || s.Notifier == nil {
		return 0
	}
	text := fmt.Sprintf("Your appointment on %s at %s was cancelled because the doctor's schedule changed. Please book again.",
		old.Date, old.Location)

	var failures atomic.Int32
	p := pool.New().WithMaxGoroutines(s.NotifyConcurrency)
	for _, clientID := range clients {
		p.Go(func() {
			if err := s.Notifier.Notify(ctx, clientID, text); err != nil {
				failures.Add(1)
				s.Logger.Warn("Failed to notify client of cancelled appointment",
					zap.String("clientId", clientID),
					zap.String("scheduleId", old.ID),
					zap.Error(err))
			}
		})
	}
	p.Wait()
	return int(failures.Load())
}

func uniqueClients(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
