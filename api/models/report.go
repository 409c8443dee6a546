package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReportStatus is the terminal phase of a form submission.
type ReportStatus string

const (
	ReportStatusSuccess ReportStatus = "success"
	ReportStatusError   ReportStatus = "error"
)

// Report is one form submission made by a signed-in user.
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"          json:"id"`
	OperationID string             `bson:"operation_id"           json:"operation_id"`
	OwnerID     primitive.ObjectID `bson:"ownerId"                json:"ownerId"`
	Form        string             `bson:"form"                   json:"form"` // rainfall | crop-yield | satellite | historical
	FieldID     string             `bson:"fieldId,omitempty"      json:"fieldId,omitempty"`
	Request     map[string]any     `bson:"request,omitempty"      json:"request,omitempty"`
	Status      ReportStatus       `bson:"status"                 json:"status"`
	Value       string             `bson:"value,omitempty"        json:"value,omitempty"` // response field as raw JSON
	Display     string             `bson:"display,omitempty"      json:"display,omitempty"`
	Error       string             `bson:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"             json:"created_at"`
}
