// File: database/repository/schedule/crud.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medibook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoScheduleRepo) Insert(ctx context.Context, schedule *models.Schedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, schedule); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("schedule for %s on %s: %w", schedule.Location, schedule.Date, ErrConflict)
		}
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete schedule %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoScheduleRepo) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoScheduleRepo) FindByLocationAndDate(ctx context.Context, location, date string) (*models.Schedule, error) {
	return r.findOne(ctx, bson.M{"location": location, "date": date})
}

func (r *mongoScheduleRepo) findOne(ctx context.Context, filter bson.M) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var schedule models.Schedule
	if err := r.coll.FindOne(ctx, filter).Decode(&schedule); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find error: %w", err)
	}
	return &schedule, nil
}
