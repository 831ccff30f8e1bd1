// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"

	"medibook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleRepository is the availability store. Slot writes are conditional:
// ClaimSlot and ReleaseSlot succeed for exactly one concurrent writer and
// return ErrConflict for every other.
type ScheduleRepository interface {
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	FindByLocationAndDate(ctx context.Context, location, date string) (*models.Schedule, error)
	FindByDate(ctx context.Context, date string) ([]models.Schedule, error)
	// FindInRange returns schedules dated from..to inclusive, date ascending.
	// An empty location matches every location.
	FindInRange(ctx context.Context, location, from, to string) ([]models.Schedule, error)
	// FindByClient returns schedules holding a slot assigned to clientID, dated
	// from..to inclusive (empty to is open-ended), date ascending.
	FindByClient(ctx context.Context, clientID, from, to string) ([]models.Schedule, error)

	Insert(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id string) error
	// Replace removes oldID and stores next. A missing oldID is not an error.
	Replace(ctx context.Context, oldID string, next *models.Schedule) error

	ClaimSlot(ctx context.Context, scheduleID, session string, index int, slotTime, clientID string, details models.BookingDetails) error
	ReleaseSlot(ctx context.Context, scheduleID, session string, index int, slotTime, clientID string) error

	EnsureIndexes(ctx context.Context) error
}

type mongoScheduleRepo struct {
	coll *mongo.Collection
}

// NewMongoScheduleRepo constructs a MongoDB-backed ScheduleRepository.
func NewMongoScheduleRepo(db *mongo.Database) ScheduleRepository {
	return &mongoScheduleRepo{
		coll: db.Collection("schedules"),
	}
}
