// File: database/repository/schedule/transaction.go
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

// Server code returned by standalone deployments, which cannot run transactions.
const illegalOperationCode = 20

// Replace swaps oldID for next inside a transaction when the deployment supports
// one, otherwise it deletes then inserts. A missing oldID is not an error, so a
// crash between the two steps leaves an empty day that the next define fills.
func (r *mongoScheduleRepo) Replace(ctx context.Context, oldID string, next *models.Schedule) error {
	if next.ID == "" {
		next.ID = uuid.New().String()
	}

	err := r.replaceTransactionally(ctx, oldID, next)
	if err == nil {
		return nil
	}
	if !transactionsUnsupported(err) {
		return err
	}
	return r.replaceSequentially(ctx, oldID, next)
}

func (r *mongoScheduleRepo) replaceTransactionally(ctx context.Context, oldID string, next *models.Schedule) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.coll.DeleteOne(sc, bson.M{"id": oldID}); err != nil {
			return fmt.Errorf("delete old schedule failed: %w", err)
		}
		if _, err := r.coll.InsertOne(sc, next); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert new schedule failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrConflict) {
			return err
		}
		return fmt.Errorf("replace transaction failed: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) replaceSequentially(ctx context.Context, oldID string, next *models.Schedule) error {
	if err := r.Delete(ctx, oldID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.Insert(ctx, next)
}

func transactionsUnsupported(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) && serverErr.HasErrorCode(illegalOperationCode) {
		return true
	}
	return false
}
