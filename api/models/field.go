package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field is a saved farm plot. Forms can reference one by id instead of
// repeating its coordinates and crop.
type Field struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"ownerId"       json:"ownerId"`
	Name      string             `bson:"name"          json:"name"`
	Latitude  float64            `bson:"latitude"      json:"latitude"`
	Longitude float64            `bson:"longitude"     json:"longitude"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`

	Meta *FieldMeta `bson:"meta,omitempty" json:"meta,omitempty"`
}

type FieldMeta struct {
	AreaHa *float64 `bson:"areaHa,omitempty" json:"areaHa,omitempty"` // area in hectares
	Notes  string   `bson:"notes,omitempty"  json:"notes,omitempty"`
	Crop   string   `bson:"crop,omitempty"   json:"crop,omitempty"` // Rice | Wheat | Maize | ...
}

// Coordinates returns latitude and longitude as the text a form would send.
func (f Field) Coordinates() (string, string) {
	return strconv.FormatFloat(f.Latitude, 'f', -1, 64), strconv.FormatFloat(f.Longitude, 'f', -1, 64)
}

// Crop is the saved crop type, if any.
func (f Field) Crop() string {
	if f.Meta == nil {
		return ""
	}
	return f.Meta.Crop
}
