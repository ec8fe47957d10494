package recordsRepo

import (
	"context"

	"massobook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

const collectionName = "booking_records"

// BookingRecordRepository is an insert-only archive of created bookings.
type BookingRecordRepository interface {
	Insert(ctx context.Context, record models.BookingRecord) error
	GetByID(ctx context.Context, id string) (*models.BookingRecord, error)
	ListByDate(ctx context.Context, date string) ([]models.BookingRecord, error)
}

var _ BookingRecordRepository = (*mongoRecordRepo)(nil)

type mongoRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoRecordRepo returns a BookingRecordRepository backed by db.
func NewMongoRecordRepo(db *mongo.Database) *mongoRecordRepo {
	return &mongoRecordRepo{
		coll: db.Collection(collectionName),
	}
}
