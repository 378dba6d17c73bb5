package model

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewEvent adalah 1 dokumen jejak keputusan review di MongoDB
// (collection: review_events). Ditulis best-effort setiap mentor mengambil
// keputusan Verified/Fail; kegagalan tulis tidak menggagalkan operasi
// karena sumber kebenaran status tetap di Postgres.
type ReviewEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecordID   uuid.UUID          `bson:"recordId" json:"record_id"`
	PeriodID   uuid.UUID          `bson:"periodId" json:"period_id"`
	ReviewerID uuid.UUID          `bson:"reviewerId" json:"reviewer_id"`
	Status     RecordStatus       `bson:"status" json:"status"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
}
