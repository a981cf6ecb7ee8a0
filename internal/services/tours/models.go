package tours

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Location is a GeoJSON point with tour-specific annotations.
type Location struct {
	Type        string    `bson:"type" json:"type" validate:"omitempty,oneof=Point" example:"Point"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates" validate:"omitempty,len=2"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty"`
}

// Tour represents a tour in the system. JSON names stay camelCase for wire
// compatibility with the consuming clients; bson names follow the collection
// convention. Most fields carry omitempty so projected reads only echo the
// selected fields.
type Tour struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	Name            string        `bson:"name,omitempty" json:"name,omitempty" example:"The Forest Hiker"`
	Slug            string        `bson:"slug,omitempty" json:"slug,omitempty" example:"the-forest-hiker"`
	Duration        int           `bson:"duration,omitempty" json:"duration,omitempty" example:"5"`
	Difficulty      string        `bson:"difficulty,omitempty" json:"difficulty,omitempty" example:"easy"`
	Price           float64       `bson:"price,omitempty" json:"price,omitempty" example:"397"`
	MaxGroupSize    int           `bson:"max_group_size,omitempty" json:"maxGroupSize,omitempty" example:"25"`
	Summary         string        `bson:"summary,omitempty" json:"summary,omitempty" example:"Breathtaking hike through the Canadian Banff National Park"`
	Description     string        `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string        `bson:"image_cover,omitempty" json:"imageCover,omitempty" example:"tour-1-cover.jpg"`
	RatingsAverage  float64       `bson:"ratings_average,omitempty" json:"ratingsAverage,omitempty" example:"4.5"`
	RatingsQuantity int           `bson:"ratings_quantity,omitempty" json:"ratingsQuantity,omitempty" example:"37"`
	Images          []string      `bson:"images,omitempty" json:"images,omitempty"`
	StartDates      []time.Time   `bson:"start_dates,omitempty" json:"startDates,omitempty"`
	StartLocation   *Location     `bson:"start_location,omitempty" json:"startLocation,omitempty"`
	Locations       []Location    `bson:"locations,omitempty" json:"locations,omitempty"`
	Guides          []string      `bson:"guides,omitempty" json:"guides,omitempty"`
	CreatedAt       time.Time     `bson:"created_at,omitempty" json:"createdAt,omitzero"`
	UpdatedAt       time.Time     `bson:"updated_at,omitempty" json:"updatedAt,omitzero"`
}

// CreateTourRequest represents a tour creation request
type CreateTourRequest struct {
	Name            string      `json:"name" validate:"required,min=10,max=50" example:"Forest Hiker Adventure"`
	Duration        int         `json:"duration" validate:"required,gt=0" example:"5"`
	Difficulty      string      `json:"difficulty" validate:"required,oneof=easy medium difficult" example:"easy"`
	Price           float64     `json:"price" validate:"required,gt=0" example:"397"`
	MaxGroupSize    int         `json:"maxGroupSize" validate:"required,gt=0" example:"10"`
	Summary         string      `json:"summary" validate:"required,min=10,max=85" example:"Breathtaking hike"`
	Description     string      `json:"description" validate:"omitempty"`
	ImageCover      string      `json:"imageCover" validate:"required" example:"cover.jpg"`
	RatingsAverage  float64     `json:"ratingsAverage" validate:"omitempty,min=1,max=5"`
	RatingsQuantity int         `json:"ratingsQuantity" validate:"omitempty,gte=0"`
	Images          []string    `json:"images" validate:"omitempty,dive,min=1"`
	StartDates      []time.Time `json:"startDates"`
	StartLocation   *Location   `json:"startLocation"`
	Locations       []Location  `json:"locations" validate:"omitempty,dive"`
	Guides          []string    `json:"guides"`
}

// UpdateTourRequest represents a partial tour update. Only non-nil fields
// are written; each provided field is re-validated against the same bounds
// as on create.
type UpdateTourRequest struct {
	Name            *string     `json:"name,omitempty" validate:"omitempty,min=10,max=50"`
	Duration        *int        `json:"duration,omitempty" validate:"omitempty,gt=0"`
	Difficulty      *string     `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium difficult"`
	Price           *float64    `json:"price,omitempty" validate:"omitempty,gt=0"`
	MaxGroupSize    *int        `json:"maxGroupSize,omitempty" validate:"omitempty,gt=0"`
	Summary         *string     `json:"summary,omitempty" validate:"omitempty,min=10,max=85"`
	Description     *string     `json:"description,omitempty"`
	ImageCover      *string     `json:"imageCover,omitempty" validate:"omitempty,min=1"`
	RatingsAverage  *float64    `json:"ratingsAverage,omitempty" validate:"omitempty,min=1,max=5"`
	RatingsQuantity *int        `json:"ratingsQuantity,omitempty" validate:"omitempty,gte=0"`
	Images          []string    `json:"images,omitempty" validate:"omitempty,dive,min=1"`
	StartDates      []time.Time `json:"startDates,omitempty"`
	StartLocation   *Location   `json:"startLocation,omitempty"`
	Locations       []Location  `json:"locations,omitempty" validate:"omitempty,dive"`
	Guides          []string    `json:"guides,omitempty"`
}

// TourStats is one group of the fixed per-difficulty price report.
type TourStats struct {
	Difficulty string  `bson:"_id" json:"_id" example:"EASY"`
	NumTours   int64   `bson:"num_tours" json:"numTours" example:"4"`
	MinPrice   float64 `bson:"min_price" json:"minPrice" example:"397"`
	MaxPrice   float64 `bson:"max_price" json:"maxPrice" example:"1497"`
	AvgPrice   float64 `bson:"avg_price" json:"avgPrice" example:"1147"`
}
