package model

// ImageOwner distinguishes which entity an image record belongs to.
type ImageOwner string

const (
	ImageOwnerRoom  ImageOwner = "room"
	ImageOwnerHotel ImageOwner = "hotel"
)

// Image is stored metadata only; upload and file storage live outside
// this system.
type Image struct {
	ID           string     `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID      string     `json:"-" bson:"owner_id"`
	Owner        ImageOwner `json:"-" bson:"owner"`
	Filename     string     `json:"filename" bson:"filename"`
	OriginalName string     `json:"original_name" bson:"original_name"`
	URL          string     `json:"url" bson:"-"`
}
