package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sefazor/photoview-backend/internal/models"
	"github.com/sefazor/photoview-backend/internal/storage"
	"github.com/sefazor/photoview-backend/pkg/bcrypt"
)

type UserRepository struct {
	coll *storage.Collection[models.User]
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		coll: storage.NewCollection[models.User](db, "user",
			storage.WithOnSave(func(u *models.User) {
				u.CreatedAt = time.Now().UTC()
			}),
		),
	}
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	return r.coll.Save(ctx, user)
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.coll.GetByID(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.coll.Get(ctx, bson.M{"email": email})
}

// EmailExists reports whether a user is already registered under email.
// Uniqueness is enforced here at the application layer, not by the store,
// so concurrent signups have a known race window.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CheckPassword verifies plaintext against the stored hash of the user.
// A missing user yields storage.ErrNotFound.
func (r *UserRepository) CheckPassword(ctx context.Context, id primitive.ObjectID, password string) (bool, error) {
	user, err := r.coll.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err := bcrypt.ComparePassword(user.Password, password); err != nil {
		return false, nil
	}
	return true, nil
}

// SetHashPassword stores a fresh hash of password on the user.
func (r *UserRepository) SetHashPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := bcrypt.HashPassword(password)
	if err != nil {
		return err
	}
	return r.coll.UpdateByID(ctx, id, bson.M{"password": hash})
}
