package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sefazor/photoview-backend/internal/models"
	"github.com/sefazor/photoview-backend/internal/storage"
)

type CommentRepository struct {
	coll *storage.Collection[models.Comment]
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		coll: storage.NewCollection[models.Comment](db, "comment",
			storage.WithOnSave(func(c *models.Comment) {
				c.CreatedAt = time.Now().UTC()
			}),
		),
	}
}

func (r *CommentRepository) Save(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	return r.coll.Save(ctx, comment)
}
