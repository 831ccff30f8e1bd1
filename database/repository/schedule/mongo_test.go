package scheduleRepo

import (
	"context"
	"errors"
	"testing"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func scheduleDoc(t *mtest.T, s *models.Schedule) bson.D {
	raw, err := bson.Marshal(s)
	if err != nil {
		t.Fatalf("marshal schedule: %v", err)
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal schedule: %v", err)
	}
	return doc
}

func TestMongoScheduleRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by id decodes the schedule", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		want := newTestSchedule("Abet Hospital", "2025-05-05", "08:30", "08:51")
		want.ID = "s1"
		ns := mt.DB.Name() + ".schedules"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, scheduleDoc(mt, want)))

		got, err := repo.FindByID(context.Background(), "s1")
		if err != nil {
			mt.Fatalf("FindByID() error = %v", err)
		}
		if got.Location != want.Location || len(got.Sessions[models.SessionMorning].Slots) != 2 {
			mt.Fatalf("FindByID() = %+v", got)
		}
	})

	mt.Run("find by id maps empty result to ErrNotFound", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		ns := mt.DB.Name() + ".schedules"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("FindByID() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("insert maps duplicate key to ErrConflict", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Insert(context.Background(), newTestSchedule("Abet Hospital", "2025-05-05", "08:30"))
		if !errors.Is(err, ErrConflict) {
			mt.Fatalf("Insert() error = %v, want ErrConflict", err)
		}
	})

	mt.Run("claim succeeds when the slot matched", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := repo.ClaimSlot(context.Background(), "s1", models.SessionMorning, 0, "08:30", "c1", models.BookingDetails{Name: "Abebe"})
		if err != nil {
			mt.Fatalf("ClaimSlot() error = %v", err)
		}
	})

	mt.Run("claim loses when nothing matched", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.ClaimSlot(context.Background(), "s1", models.SessionMorning, 0, "08:30", "c1", models.BookingDetails{})
		if !errors.Is(err, ErrConflict) {
			mt.Fatalf("ClaimSlot() error = %v, want ErrConflict", err)
		}
	})

	mt.Run("claim rejects unknown session without a round trip", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)

		err := repo.ClaimSlot(context.Background(), "s1", "evening", 0, "18:00", "c1", models.BookingDetails{})
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("ClaimSlot() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("release by a non-holder conflicts", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.ReleaseSlot(context.Background(), "s1", models.SessionMorning, 0, "08:30", "c2")
		if !errors.Is(err, ErrConflict) {
			mt.Fatalf("ReleaseSlot() error = %v, want ErrConflict", err)
		}
	})

	mt.Run("delete of a missing schedule is ErrNotFound", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := repo.Delete(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("Delete() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("find by client returns every holding schedule", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		first := newTestSchedule("Abet Hospital", "2025-05-05", "08:30")
		first.ID = "s1"
		first.Sessions[models.SessionMorning].Slots[0] = models.Slot{Time: "08:30", ClientID: "c1"}
		second := newTestSchedule("Girum Hospital", "2025-05-12", "08:30")
		second.ID = "s2"
		second.Sessions[models.SessionMorning].Slots[0] = models.Slot{Time: "08:30", ClientID: "c1"}
		ns := mt.DB.Name() + ".schedules"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, scheduleDoc(mt, first), scheduleDoc(mt, second)))

		got, err := repo.FindByClient(context.Background(), "c1", "2025-05-01", "")
		if err != nil {
			mt.Fatalf("FindByClient() error = %v", err)
		}
		bookings := models.BookingsForClient(got, "c1")
		if len(bookings) != 2 || bookings[1].ScheduleID != "s2" {
			mt.Fatalf("bookings = %+v", bookings)
		}
	})

	mt.Run("replace commits delete and insert together", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(),
		)

		next := newTestSchedule("Girum Hospital", "2025-05-05", "14:00")
		if err := repo.Replace(context.Background(), "old", next); err != nil {
			mt.Fatalf("Replace() error = %v", err)
		}
		if next.ID == "" {
			mt.Fatal("Replace() left the new schedule without an id")
		}
	})

	mt.Run("replace falls back to delete then insert without transactions", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(
			// standalone servers refuse the transactional delete
			mtest.CreateCommandErrorResponse(mtest.CommandError{
				Code:    20,
				Name:    "IllegalOperation",
				Message: "Transaction numbers are only allowed on a replica set member or mongos",
			}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		next := newTestSchedule("Girum Hospital", "2025-05-05", "14:00")
		if err := repo.Replace(context.Background(), "old", next); err != nil {
			mt.Fatalf("Replace() error = %v, want the sequential path to succeed", err)
		}
	})

	mt.Run("replace surfaces other command errors", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    8000,
			Name:    "AtlasError",
			Message: "quota exceeded",
		}))

		err := repo.Replace(context.Background(), "old", newTestSchedule("Girum Hospital", "2025-05-05", "14:00"))
		if err == nil || errors.Is(err, ErrConflict) {
			mt.Fatalf("Replace() error = %v, want the command error", err)
		}
	})

	mt.Run("replace maps duplicate key to ErrConflict", func(mt *mtest.T) {
		repo := NewMongoScheduleRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{
				Index:   0,
				Code:    11000,
				Message: "duplicate key error",
			}),
		)

		err := repo.Replace(context.Background(), "old", newTestSchedule("Girum Hospital", "2025-05-05", "14:00"))
		if !errors.Is(err, ErrConflict) {
			mt.Fatalf("Replace() error = %v, want ErrConflict", err)
		}
	})
}
