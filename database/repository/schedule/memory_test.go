package scheduleRepo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"medibook/models"
)

func newTestSchedule(location, date string, times ...string) *models.Schedule {
	slots := make([]models.Slot, len(times))
	for i, tm := range times {
		slots[i] = models.Slot{Time: tm, Available: true}
	}
	return &models.Schedule{
		Location: location,
		Date:     date,
		Sessions: map[string]models.Session{
			models.SessionMorning: {StartTime: "08:30", EndTime: "12:00", Slots: slots},
		},
	}
}

func TestMemoryInsertRejectsSecondScheduleForSameDay(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryScheduleRepo()

	if err := repo.Insert(ctx, newTestSchedule("Abet Hospital", "2025-05-05", "08:30")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	err := repo.Insert(ctx, newTestSchedule("Abet Hospital", "2025-05-05", "09:00"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second Insert() error = %v, want ErrConflict", err)
	}
	if err := repo.Insert(ctx, newTestSchedule("Girum Hospital", "2025-05-05", "09:00")); err != nil {
		t.Fatalf("Insert() other location error = %v", err)
	}
}

func TestMemoryReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryScheduleRepo()
	sched := newTestSchedule("Abet Hospital", "2025-05-05", "08:30")
	if err := repo.Insert(ctx, sched); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := repo.FindByID(ctx, sched.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	got.Sessions[models.SessionMorning].Slots[0].Available = false

	again, _ := repo.FindByID(ctx, sched.ID)
	if !again.Sessions[models.SessionMorning].Slots[0].Available {
		t.Fatal("mutating a read result changed the stored schedule")
	}
}

func TestMemoryClaimAndRelease(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryScheduleRepo()
	sched := newTestSchedule("Abet Hospital", "2025-05-05", "08:30", "08:51")
	if err := repo.Insert(ctx, sched); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	details := models.BookingDetails{Name: "Abebe", Age: "34", Sex: "Male", Reason: "checkup", Phone: "0911"}

	if err := repo.ClaimSlot(ctx, sched.ID, models.SessionMorning, 0, "08:30", "c1", details); err != nil {
		t.Fatalf("ClaimSlot() error = %v", err)
	}
	if err := repo.ClaimSlot(ctx, sched.ID, models.SessionMorning, 0, "08:30", "c2", details); !errors.Is(err, ErrConflict) {
		t.Fatalf("second ClaimSlot() error = %v, want ErrConflict", err)
	}
	if err := repo.ClaimSlot(ctx, sched.ID, models.SessionMorning, 1, "09:12", "c2", details); !errors.Is(err, ErrConflict) {
		t.Fatalf("ClaimSlot() with stale time error = %v, want ErrConflict", err)
	}
	if err := repo.ClaimSlot(ctx, sched.ID, models.SessionAfternoon, 0, "14:00", "c2", details); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ClaimSlot() on missing session error = %v, want ErrNotFound", err)
	}

	got, _ := repo.FindByID(ctx, sched.ID)
	slot := got.Sessions[models.SessionMorning].Slots[0]
	if slot.Available || slot.ClientID != "c1" || slot.Details == nil || slot.Details.Name != "Abebe" {
		t.Fatalf("claimed slot = %+v", slot)
	}

	if err := repo.ReleaseSlot(ctx, sched.ID, models.SessionMorning, 0, "08:30", "c2"); !errors.Is(err, ErrConflict) {
		t.Fatalf("ReleaseSlot() by non-holder error = %v, want ErrConflict", err)
	}
	if err := repo.ReleaseSlot(ctx, sched.ID, models.SessionMorning, 0, "08:30", "c1"); err != nil {
		t.Fatalf("ReleaseSlot() error = %v", err)
	}
	got, _ = repo.FindByID(ctx, sched.ID)
	slot = got.Sessions[models.SessionMorning].Slots[0]
	if !slot.Available || slot.ClientID != "" || slot.Details != nil {
		t.Fatalf("released slot = %+v", slot)
	}
}

func TestMemoryConcurrentClaimHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryScheduleRepo()
	sched := newTestSchedule("Abet Hospital", "2025-05-05", "08:30")
	if err := repo.Insert(ctx, sched); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	const workers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.ClaimSlot(ctx, sched.ID, models.SessionMorning, 0, "08:30", string(rune('a'+i)), models.BookingDetails{})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else if !errors.Is(err, ErrConflict) {
				t.Errorf("ClaimSlot() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("winners = %d, want 1", wins)
	}
}

func TestMemoryQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryScheduleRepo()
	for _, s := range []*models.Schedule{
		newTestSchedule("Girum Hospital", "2025-05-07", "08:30"),
		newTestSchedule("Abet Hospital", "2025-05-05", "08:30"),
		newTestSchedule("Abet Hospital", "2025-05-12", "08:30"),
		newTestSchedule("Girum Hospital", "2025-05-05", "08:30"),
	} {
		if err := repo.Insert(ctx, s); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	all, _ := repo.FindInRange(ctx, "", "2025-05-05", "2025-05-11")
	if len(all) != 3 {
		t.Fatalf("FindInRange() len = %d, want 3", len(all))
	}
	if all[0].Location != "Abet Hospital" || all[1].Location != "Girum Hospital" || all[2].Date != "2025-05-07" {
		t.Fatalf("FindInRange() order = %+v", all)
	}

	abet, _ := repo.FindInRange(ctx, "Abet Hospital", "2025-05-05", "")
	if len(abet) != 2 {
		t.Fatalf("FindInRange(open-ended) len = %d, want 2", len(abet))
	}

	sameDay, _ := repo.FindByDate(ctx, "2025-05-05")
	if len(sameDay) != 2 {
		t.Fatalf("FindByDate() len = %d, want 2", len(sameDay))
	}

	if err := repo.ClaimSlot(ctx, abet[1].ID, models.SessionMorning, 0, "08:30", "c1", models.BookingDetails{}); err != nil {
		t.Fatalf("ClaimSlot() error = %v", err)
	}
	held, _ := repo.FindByClient(ctx, "c1", "2025-05-01", "")
	if len(held) != 1 || held[0].Date != "2025-05-12" {
		t.Fatalf("FindByClient() = %+v", held)
	}
	held, _ = repo.FindByClient(ctx, "c1", "2025-05-13", "")
	if len(held) != 0 {
		t.Fatalf("FindByClient() after window = %+v", held)
	}
}

func TestMemoryReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryScheduleRepo()
	old := newTestSchedule("Abet Hospital", "2025-05-05", "08:30")
	if err := repo.Insert(ctx, old); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	next := newTestSchedule("Abet Hospital", "2025-05-05", "14:00")
	if err := repo.Replace(ctx, old.ID, next); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if _, err := repo.FindByID(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old schedule still present, err = %v", err)
	}
	got, err := repo.FindByLocationAndDate(ctx, "Abet Hospital", "2025-05-05")
	if err != nil || got.ID != next.ID {
		t.Fatalf("FindByLocationAndDate() = %+v, %v", got, err)
	}

	// Re-running with an already removed old schedule is not an error.
	other := newTestSchedule("Girum Hospital", "2025-05-06", "08:30")
	if err := repo.Replace(ctx, old.ID, other); err != nil {
		t.Fatalf("Replace() with missing old error = %v", err)
	}
}
