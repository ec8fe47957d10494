package recordsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"massobook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrRecordNotFound = errors.New("booking record not found")

// Insert stores a new booking record. Records are never updated afterwards.
func (r *mongoRecordRepo) Insert(ctx context.Context, record models.BookingRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("insert booking record: %w", err)
	}
	return nil
}

// GetByID returns a booking record by its ID.
func (r *mongoRecordRepo) GetByID(ctx context.Context, id string) (*models.BookingRecord, error) {
	var record models.BookingRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByDate returns the bookings for a provider-local "YYYY-MM-DD" date, earliest first.
func (r *mongoRecordRepo) ListByDate(ctx context.Context, date string) ([]models.BookingRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_utc", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.BookingRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
