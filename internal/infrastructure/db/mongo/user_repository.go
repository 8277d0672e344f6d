package mongo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shieldagency/backend/internal/core/domain"
	"github.com/shieldagency/backend/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	principalCollection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{principalCollection{coll: db.Collection(collectionUsers), role: domain.RoleUser}}
}

var _ ports.UserRepository = (*UserRepository)(nil)
