package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sefazor/photoview-backend/internal/models"
	"github.com/sefazor/photoview-backend/internal/storage"
	"github.com/sefazor/photoview-backend/pkg/bcrypt"
	jwtPkg "github.com/sefazor/photoview-backend/pkg/jwt"
)

var (
	// ErrEmailTaken is returned when the signup email is already registered.
	ErrEmailTaken = errors.New("email invalid")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so a caller cannot tell which case occurred.
	ErrInvalidCredentials = errors.New("Email or password invalid")
)

// UserStore is the slice of the user repository the auth flow needs.
type UserStore interface {
	Save(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CheckPassword(ctx context.Context, id primitive.ObjectID, password string) (bool, error)
}

type AuthService struct {
	users     UserStore
	jwtSecret []byte
}

func NewAuthService(users UserStore, jwtSecret []byte) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Signup creates a user with a freshly hashed password. The email
// uniqueness check is a lookup-before-insert with a known race window.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	hash, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return "", err
	}

	user := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	}
	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return "", err
	}
	return saved.ID.Hex(), nil
}

// Signin verifies credentials and issues a bearer token bound to the user
// identifier, valid for seven days.
func (s *AuthService) Signin(ctx context.Context, req models.SigninRequest) (string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := s.users.CheckPassword(ctx, user.ID, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return jwtPkg.GenerateToken(user.ID.Hex(), s.jwtSecret)
}
