// File: database/repository/schedule/slots.go
package scheduleRepo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// slotPath addresses one slot inside one session of a schedule document.
func slotPath(session string, index int) (string, error) {
	if !slices.Contains(models.SessionNames, session) || index < 0 {
		return "", ErrNotFound
	}
	return fmt.Sprintf("sessions.%s.slots.%d", session, index), nil
}

// ClaimSlot assigns the slot only if it still carries slotTime and is still open.
func (r *mongoScheduleRepo) ClaimSlot(
	ctx context.Context,
	scheduleID, session string,
	index int,
	slotTime, clientID string,
	details models.BookingDetails,
) error {
	path, err := slotPath(session, index)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":                 scheduleID,
		path + ".time":      slotTime,
		path + ".available": true,
	}
	update := bson.M{
		"$set": bson.M{
			path + ".available": false,
			path + ".clientId":  clientID,
			path + ".details":   details,
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to claim slot %s %s: %w", session, slotTime, err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}

// ReleaseSlot reopens the slot only if clientID still holds it.
func (r *mongoScheduleRepo) ReleaseSlot(
	ctx context.Context,
	scheduleID, session string,
	index int,
	slotTime, clientID string,
) error {
	path, err := slotPath(session, index)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":                scheduleID,
		path + ".time":      slotTime,
		path + ".clientId":  clientID,
		path + ".available": false,
	}
	update := bson.M{
		"$set":   bson.M{path + ".available": true},
		"$unset": bson.M{path + ".clientId": "", path + ".details": ""},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to release slot %s %s: %w", session, slotTime, err)
	}
	if res.MatchedCount == 0 {
		return ErrConflict
	}
	return nil
}
