package model

type Hotel struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name    string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	City    string `json:"city" bson:"city" validate:"required,min=2,max=100"`
	Country string `json:"country" bson:"country" validate:"required,min=2,max=100"`
}

type HotelUpdate struct {
	Name    string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	City    string `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	Country string `json:"country,omitempty" validate:"omitempty,min=2,max=100"`
}
