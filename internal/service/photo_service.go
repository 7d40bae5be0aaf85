package service

import (
	"context"
	"mime/multipart"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sefazor/photoview-backend/internal/models"
	blob "github.com/sefazor/photoview-backend/pkg/storage"
)

type PhotoStore interface {
	Save(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
	GetVisiblePhotos(ctx context.Context, offset, perPage int64) (int64, []models.PhotoView, error)
	GetPendentPhotos(ctx context.Context) ([]models.PhotoView, error)
	Authorize(ctx context.Context, id primitive.ObjectID) error
}

type CommentStore interface {
	Save(ctx context.Context, comment *models.Comment) (*models.Comment, error)
}

type LikeStore interface {
	Save(ctx context.Context, like *models.Like) (*models.Like, error)
}

type PhotoService struct {
	photos   PhotoStore
	comments CommentStore
	likes    LikeStore
	blob     blob.BlobStorage
}

func NewPhotoService(photos PhotoStore, comments CommentStore, likes LikeStore, blobStorage blob.BlobStorage) *PhotoService {
	return &PhotoService{
		photos:   photos,
		comments: comments,
		likes:    likes,
		blob:     blobStorage,
	}
}

// Upload pushes the file to blob storage and records the photo as pending
// moderation (invisible).
func (s *PhotoService) Upload(ctx context.Context, userID primitive.ObjectID, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	uri, err := s.blob.Upload(ctx, file.Filename, src, file.Size)
	if err != nil {
		return "", err
	}

	photo := &models.Photo{
		ID:     primitive.NewObjectID(),
		URI:    uri,
		UserID: userID,
	}
	saved, err := s.photos.Save(ctx, photo)
	if err != nil {
		return "", err
	}
	return saved.ID.Hex(), nil
}

func (s *PhotoService) ListVisible(ctx context.Context, offset, perPage int64) (int64, []models.PhotoView, error) {
	return s.photos.GetVisiblePhotos(ctx, offset, perPage)
}

func (s *PhotoService) ListPendent(ctx context.Context) ([]models.PhotoView, error) {
	return s.photos.GetPendentPhotos(ctx)
}

// Authorize approves a pending photo. Missing photos surface
// storage.ErrNotFound from the lookup.
func (s *PhotoService) Authorize(ctx context.Context, photoID primitive.ObjectID) error {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return err
	}
	return s.photos.Authorize(ctx, photoID)
}

// Like records a like. Likes are not unique per user: repeat likes
// accumulate.
func (s *PhotoService) Like(ctx context.Context, photoID, userID primitive.ObjectID) (*models.Like, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return nil, err
	}
	return s.likes.Save(ctx, &models.Like{
		ID:      primitive.NewObjectID(),
		PhotoID: photoID,
		UserID:  userID,
	})
}

func (s *PhotoService) Comment(ctx context.Context, photoID, userID primitive.ObjectID, text string) (*models.Comment, error) {
	if _, err := s.photos.GetByID(ctx, photoID); err != nil {
		return nil, err
	}
	return s.comments.Save(ctx, &models.Comment{
		ID:      primitive.NewObjectID(),
		PhotoID: photoID,
		UserID:  userID,
		Text:    text,
	})
}
