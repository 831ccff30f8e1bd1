// File: database/repository/schedule/memory.go
package scheduleRepo

import (
	"context"
	"sort"
	"sync"

	"medibook/models"

	"github.com/google/uuid"
)

// memoryScheduleRepo keeps schedules in process. Every read returns a copy, so
// callers never observe a later write through a value they already hold.
type memoryScheduleRepo struct {
	mu        sync.Mutex
	schedules map[string]models.Schedule
}

// NewMemoryScheduleRepo returns a ScheduleRepository that lives for the process lifetime.
func NewMemoryScheduleRepo() ScheduleRepository {
	return &memoryScheduleRepo{schedules: make(map[string]models.Schedule)}
}

func (r *memoryScheduleRepo) FindByID(_ context.Context, id string) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sched, ok := r.schedules[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneSchedule(sched)
	return &out, nil
}

func (r *memoryScheduleRepo) FindByLocationAndDate(_ context.Context, location, date string) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sched := range r.schedules {
		if sched.Location == location && sched.Date == date {
			out := cloneSchedule(sched)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryScheduleRepo) FindByDate(_ context.Context, date string) ([]models.Schedule, error) {
	return r.filter(func(s models.Schedule) bool { return s.Date == date }), nil
}

func (r *memoryScheduleRepo) FindInRange(_ context.Context, location, from, to string) ([]models.Schedule, error) {
	return r.filter(func(s models.Schedule) bool {
		if location != "" && s.Location != location {
			return false
		}
		return inRange(s.Date, from, to)
	}), nil
}

func (r *memoryScheduleRepo) FindByClient(_ context.Context, clientID, from, to string) ([]models.Schedule, error) {
	return r.filter(func(s models.Schedule) bool {
		if !inRange(s.Date, from, to) {
			return false
		}
		for _, holder := range s.AssignedClients() {
			if holder == clientID {
				return true
			}
		}
		return false
	}), nil
}

func (r *memoryScheduleRepo) Insert(_ context.Context, schedule *models.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(schedule)
}

func (r *memoryScheduleRepo) insertLocked(schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	if _, ok := r.schedules[schedule.ID]; ok {
		return ErrConflict
	}
	for _, sched := range r.schedules {
		if sched.Location == schedule.Location && sched.Date == schedule.Date {
			return ErrConflict
		}
	}
	r.schedules[schedule.ID] = cloneSchedule(*schedule)
	return nil
}

func (r *memoryScheduleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schedules[id]; !ok {
		return ErrNotFound
	}
	delete(r.schedules, id)
	return nil
}

func (r *memoryScheduleRepo) Replace(_ context.Context, oldID string, next *models.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, hadOld := r.schedules[oldID]
	delete(r.schedules, oldID)
	if err := r.insertLocked(next); err != nil {
		if hadOld {
			r.schedules[oldID] = old
		}
		return err
	}
	return nil
}

func (r *memoryScheduleRepo) ClaimSlot(
	_ context.Context,
	scheduleID, session string,
	index int,
	slotTime, clientID string,
	details models.BookingDetails,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, err := r.slotLocked(scheduleID, session, index)
	if err != nil {
		return err
	}
	if slot.Time != slotTime || !slot.Available {
		return ErrConflict
	}
	d := details
	slot.Available = false
	slot.ClientID = clientID
	slot.Details = &d
	return nil
}

func (r *memoryScheduleRepo) ReleaseSlot(
	_ context.Context,
	scheduleID, session string,
	index int,
	slotTime, clientID string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, err := r.slotLocked(scheduleID, session, index)
	if err != nil {
		return err
	}
	if slot.Time != slotTime || slot.Available || slot.ClientID != clientID {
		return ErrConflict
	}
	slot.Available = true
	slot.ClientID = ""
	slot.Details = nil
	return nil
}

func (r *memoryScheduleRepo) EnsureIndexes(context.Context) error { return nil }

// slotLocked returns a pointer into the stored slot slice. Callers hold r.mu.
func (r *memoryScheduleRepo) slotLocked(scheduleID, session string, index int) (*models.Slot, error) {
	sched, ok := r.schedules[scheduleID]
	if !ok {
		return nil, ErrNotFound
	}
	sess, ok := sched.Sessions[session]
	if !ok || index < 0 || index >= len(sess.Slots) {
		return nil, ErrNotFound
	}
	return &sess.Slots[index], nil
}

func (r *memoryScheduleRepo) filter(keep func(models.Schedule) bool) []models.Schedule {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Schedule
	for _, sched := range r.schedules {
		if keep(sched) {
			out = append(out, cloneSchedule(sched))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Location < out[j].Location
	})
	return out
}

func inRange(date, from, to string) bool {
	if date < from {
		return false
	}
	return to == "" || date <= to
}

func cloneSchedule(s models.Schedule) models.Schedule {
	out := s
	out.Sessions = make(map[string]models.Session, len(s.Sessions))
	for name, sess := range s.Sessions {
		slots := make([]models.Slot, len(sess.Slots))
		for i, slot := range sess.Slots {
			slots[i] = slot
			if slot.Details != nil {
				d := *slot.Details
				slots[i].Details = &d
			}
		}
		sess.Slots = slots
		out.Sessions[name] = sess
	}
	return out
}
