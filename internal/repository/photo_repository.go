package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sefazor/photoview-backend/internal/models"
	"github.com/sefazor/photoview-backend/internal/storage"
)

type PhotoRepository struct {
	coll *storage.Collection[models.Photo]
}

func NewPhotoRepository(db *mongo.Database) *PhotoRepository {
	return &PhotoRepository{
		coll: storage.NewCollection[models.Photo](db, "photo",
			storage.WithOnSave(func(p *models.Photo) {
				p.CreatedAt = time.Now().UTC()
			}),
		),
	}
}

func (r *PhotoRepository) Save(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	return r.coll.Save(ctx, photo)
}

func (r *PhotoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	return r.coll.GetByID(ctx, id)
}

// GetVisiblePhotos returns the count of all visible photos and one page of
// them. Limit and skip are pushed into the store so the total never
// undercounts large collections.
func (r *PhotoRepository) GetVisiblePhotos(ctx context.Context, offset, perPage int64) (int64, []models.PhotoView, error) {
	filter := bson.M{"visible": true}

	total, err := r.coll.Count(ctx, filter)
	if err != nil {
		return 0, nil, err
	}

	photos, err := r.coll.Find(ctx, filter,
		storage.WithSkip(offset),
		storage.WithLimit(perPage),
	)
	if err != nil {
		return 0, nil, err
	}

	return total, toViews(photos), nil
}

// GetPendentPhotos returns every photo still awaiting moderation.
func (r *PhotoRepository) GetPendentPhotos(ctx context.Context) ([]models.PhotoView, error) {
	photos, err := r.coll.Find(ctx, bson.M{"visible": false},
		storage.WithLimit(storage.NoLimit),
	)
	if err != nil {
		return nil, err
	}
	return toViews(photos), nil
}

// Authorize flips visibility to true. The transition is one-way: nothing
// ever sets it back to false.
func (r *PhotoRepository) Authorize(ctx context.Context, id primitive.ObjectID) error {
	return r.coll.UpdateByID(ctx, id, bson.M{"visible": true})
}

func toViews(photos []models.Photo) []models.PhotoView {
	views := make([]models.PhotoView, 0, len(photos))
	for _, p := range photos {
		views = append(views, models.PhotoView{ID: p.ID.Hex(), URI: p.URI})
	}
	return views
}
