package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sefazor/photoview-backend/internal/models"
	"github.com/sefazor/photoview-backend/internal/storage"
)

type LikeRepository struct {
	coll *storage.Collection[models.Like]
}

func NewLikeRepository(db *mongo.Database) *LikeRepository {
	return &LikeRepository{
		coll: storage.NewCollection[models.Like](db, "like",
			storage.WithOnSave(func(l *models.Like) {
				l.CreatedAt = time.Now().UTC()
			}),
		),
	}
}

func (r *LikeRepository) Save(ctx context.Context, like *models.Like) (*models.Like, error) {
	return r.coll.Save(ctx, like)
}
