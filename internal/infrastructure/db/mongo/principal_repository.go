package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shieldagency/backend/internal/core/domain"
)

// principalDoc is the stored shape shared by the admins and users
// collections. Field names match documents written by the seed scripts.
type principalDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// principalCollection holds one kind of principal. The collection decides
// the role; the stored role field is written but never trusted on read.
type principalCollection struct {
	coll *mongo.Collection
	role domain.Role
}

func newDoc(p *domain.Principal, role domain.Role) principalDoc {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return principalDoc{
		Name:      p.Name,
		Email:     p.Email,
		Password:  p.PasswordHash,
		Role:      role.String(),
		CreatedAt: createdAt.UTC(),
	}
}

func (d principalDoc) toDomain(role domain.Role) *domain.Principal {
	return &domain.Principal{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         role,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func (c *principalCollection) findOne(ctx context.Context, filter bson.M) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc principalDoc
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("find %s: %w", c.role, err)
	}
	return doc.toDomain(c.role), nil
}

func (c *principalCollection) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	return c.findOne(ctx, bson.M{"email": email})
}

// FindByID treats a malformed id as a missing principal.
func (c *principalCollection) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPrincipalNotFound
	}
	return c.findOne(ctx, bson.M{"_id": oid})
}

// Create inserts p and returns it with its new id. A duplicate email in the
// same collection is domain.ErrEmailTaken.
func (c *principalCollection) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := newDoc(p, c.role)
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert %s: %w", c.role, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert %s: unexpected id type %T", c.role, res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(c.role), nil
}

// EnsureIndexes creates the unique email index. Uniqueness is per
// collection; the same email may exist as both an admin and a user.
func (c *principalCollection) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("ensure %s indexes: %w", c.role, err)
	}
	return nil
}
