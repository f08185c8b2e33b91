package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Drink is the slice of a catalog entry the order subsystem cares about. The
// full menu document (descriptions, images, categories) belongs to the menu
// service and is not modelled here.
type Drink struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Available bool               `bson:"available" json:"available"`
}
