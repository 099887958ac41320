// Package mongo persists the settlement attempt journal: one document per
// settlement attempt, kept outside the transactional store so the audit
// trail of retries survives independently of queue state.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ewallet-settlement/internal/settlement"
)

const (
	// JournalCollectionName is the name of the attempt journal collection
	JournalCollectionName = "settlement_attempts"
)

// JournalRepository implements settlement.AttemptJournal for MongoDB
type JournalRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewJournalRepository creates a new MongoDB attempt journal
func NewJournalRepository(logger *slog.Logger, db *mongo.Database) settlement.AttemptJournal {
	return &JournalRepository{
		db:     db,
		logger: logger,
	}
}

// Record appends one attempt document. Attempts are never updated: a
// transfer settled on its third try has three documents.
func (r *JournalRepository) Record(ctx context.Context, record *settlement.AttemptRecord) error {
	collection := r.db.Collection(JournalCollectionName)

	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		r.logger.Error("Failed to record settlement attempt",
			"transfer_id", record.TransferID.String(),
			"error", err)
		return fmt.Errorf("failed to record settlement attempt: %w", err)
	}

	return nil
}

// GetByTransferID returns all attempts for one transfer, oldest first
func (r *JournalRepository) GetByTransferID(ctx context.Context, transferID uuid.UUID) ([]*settlement.AttemptRecord, error) {
	collection := r.db.Collection(JournalCollectionName)

	filter := bson.M{"transfer_id": transferID}
	opts := options.Find().SetSort(bson.D{{Key: "attempted_at", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to query settlement attempts",
			"transfer_id", transferID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to query settlement attempts: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*settlement.AttemptRecord
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode settlement attempts",
			"transfer_id", transferID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode settlement attempts: %w", err)
	}

	return records, nil
}
