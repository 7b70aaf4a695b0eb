package mongo

import "go.mongodb.org/mongo-driver/mongo"

// NewStoreForTest creates a Store on an existing database handle (e.g. from mtest).
func NewStoreForTest(database *mongo.Database) *Store {
	return &Store{client: database.Client(), database: database}
}
