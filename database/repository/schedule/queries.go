// File: database/repository/schedule/queries.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoScheduleRepo) FindByDate(ctx context.Context, date string) ([]models.Schedule, error) {
	return r.find(ctx, bson.M{"date": date})
}

func (r *mongoScheduleRepo) FindInRange(ctx context.Context, location, from, to string) ([]models.Schedule, error) {
	filter := bson.M{"date": dateRange(from, to)}
	if location != "" {
		filter["location"] = location
	}
	return r.find(ctx, filter)
}

func (r *mongoScheduleRepo) FindByClient(ctx context.Context, clientID, from, to string) ([]models.Schedule, error) {
	holders := make(bson.A, 0, len(models.SessionNames))
	for _, name := range models.SessionNames {
		holders = append(holders, bson.M{"sessions." + name + ".slots.clientId": clientID})
	}
	filter := bson.M{
		"date": dateRange(from, to),
		"$or":  holders,
	}
	return r.find(ctx, filter)
}

func (r *mongoScheduleRepo) find(ctx context.Context, filter bson.M) ([]models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "location", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", err)
	}
	return schedules, nil
}

func dateRange(from, to string) bson.M {
	window := bson.M{"$gte": from}
	if to != "" {
		window["$lte"] = to
	}
	return window
}
