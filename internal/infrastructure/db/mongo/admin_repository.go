package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shieldagency/backend/internal/core/domain"
	"github.com/shieldagency/backend/internal/core/ports"
)

const collectionAdmins = "admins"

// AdminRepository implements ports.AdminRepository using MongoDB.
type AdminRepository struct {
	principalCollection
}

func NewAdminRepository(db *mongo.Database) *AdminRepository {
	return &AdminRepository{principalCollection{coll: db.Collection(collectionAdmins), role: domain.RoleAdmin}}
}

// UpdatePassword replaces the stored hash in a single write. Concurrent
// changes are last-writer-wins.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPrincipalNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"password": passwordHash}},
	)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}

var _ ports.AdminRepository = (*AdminRepository)(nil)
