package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sefazor/photoview-backend/internal/handler"
	"github.com/sefazor/photoview-backend/internal/models"
	"github.com/sefazor/photoview-backend/internal/service"
	"github.com/sefazor/photoview-backend/internal/storage"
	"github.com/sefazor/photoview-backend/pkg/bcrypt"
	jwtPkg "github.com/sefazor/photoview-backend/pkg/jwt"
	"github.com/sefazor/photoview-backend/pkg/utils"
)

var testSecret = []byte("test-secret")

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUserStore) Save(_ context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now().UTC()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) CheckPassword(ctx context.Context, id primitive.ObjectID, password string) (bool, error) {
	user, err := f.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if err := bcrypt.ComparePassword(user.Password, password); err != nil {
		return false, nil
	}
	return true, nil
}

type fakePhotoStore struct {
	photos map[primitive.ObjectID]*models.Photo
}

func (f *fakePhotoStore) Save(_ context.Context, photo *models.Photo) (*models.Photo, error) {
	photo.CreatedAt = time.Now().UTC()
	f.photos[photo.ID] = photo
	return photo, nil
}

func (f *fakePhotoStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Photo, error) {
	photo, ok := f.photos[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return photo, nil
}

func (f *fakePhotoStore) GetVisiblePhotos(_ context.Context, offset, perPage int64) (int64, []models.PhotoView, error) {
	var views []models.PhotoView
	for _, p := range f.photos {
		if p.Visible {
			views = append(views, models.PhotoView{ID: p.ID.Hex(), URI: p.URI})
		}
	}
	total := int64(len(views))
	if offset > total {
		offset = total
	}
	end := offset + perPage
	if end > total {
		end = total
	}
	return total, views[offset:end], nil
}

func (f *fakePhotoStore) GetPendentPhotos(_ context.Context) ([]models.PhotoView, error) {
	views := []models.PhotoView{}
	for _, p := range f.photos {
		if !p.Visible {
			views = append(views, models.PhotoView{ID: p.ID.Hex(), URI: p.URI})
		}
	}
	return views, nil
}

func (f *fakePhotoStore) Authorize(_ context.Context, id primitive.ObjectID) error {
	if photo, ok := f.photos[id]; ok {
		photo.Visible = true
	}
	return nil
}

type fakeCommentStore struct{}

func (fakeCommentStore) Save(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	comment.CreatedAt = time.Now().UTC()
	return comment, nil
}

type fakeLikeStore struct{}

func (fakeLikeStore) Save(_ context.Context, like *models.Like) (*models.Like, error) {
	like.CreatedAt = time.Now().UTC()
	return like, nil
}

type fakeBlob struct{}

func (fakeBlob) Upload(_ context.Context, fileName string, _ io.Reader, _ int64) (string, error) {
	return "https://s3.test/photos/" + fileName, nil
}

type fixtures struct {
	users  *fakeUserStore
	photos *fakePhotoStore
}

func newTestApp(t *testing.T) (*fiber.App, *fixtures) {
	t.Helper()

	f := &fixtures{
		users:  &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)},
		photos: &fakePhotoStore{photos: make(map[primitive.ObjectID]*models.Photo)},
	}

	authService := service.NewAuthService(f.users, testSecret)
	photoService := service.NewPhotoService(f.photos, fakeCommentStore{}, fakeLikeStore{}, fakeBlob{})
	validator := utils.NewValidator()

	app := fiber.New()
	handler.SetupRoutes(app,
		handler.NewAuthHandler(authService, validator),
		handler.NewPhotoHandler(photoService, validator),
		f.users,
		testSecret,
	)
	return app, f
}

func (f *fixtures) addUser(t *testing.T, admin bool) (*models.User, string) {
	t.Helper()

	id := primitive.NewObjectID()
	user := &models.User{
		ID:        id,
		Name:      "Test User",
		Email:     id.Hex() + "@example.com",
		Password:  "irrelevant",
		Admin:     admin,
		CreatedAt: time.Now().UTC(),
	}
	f.users.users[id] = user

	token, err := jwtPkg.GenerateToken(id.Hex(), testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return user, token
}

func (f *fixtures) addPhoto(visible bool) *models.Photo {
	photo := &models.Photo{
		ID:      primitive.NewObjectID(),
		URI:     "https://s3.test/photos/" + primitive.NewObjectID().Hex(),
		UserID:  primitive.NewObjectID(),
		Visible: visible,
	}
	f.photos.photos[photo.ID] = photo
	return photo
}

func jsonRequest(method, path string, payload interface{}, token string) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["message"] != "healthy" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestSignupAndDuplicate(t *testing.T) {
	app, _ := newTestApp(t)

	payload := map[string]string{"name": "Jo", "email": "jo@example.com", "password": "secret"}

	resp, err := app.Test(jsonRequest(http.MethodPost, "/signup", payload, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	inner, ok := body["body"].(map[string]interface{})
	if !ok || inner["user_id"] == "" {
		t.Fatalf("expected user_id in body, got %v", body)
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/signup", payload, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate signup, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["error"] != "email invalid" {
		t.Errorf("unexpected error body: %v", body)
	}
}

func TestSigninRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)

	signup := map[string]string{"name": "Jo", "email": "jo@example.com", "password": "secret"}
	if _, err := app.Test(jsonRequest(http.MethodPost, "/signup", signup, ""), -1); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(jsonRequest(http.MethodPost, "/signin",
		map[string]string{"email": "jo@example.com", "password": "secret"}, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}
	if _, err := jwtPkg.ValidateToken(token, testSecret); err != nil {
		t.Errorf("expected issued token to validate: %v", err)
	}

	resp, err = app.Test(jsonRequest(http.MethodPost, "/signin",
		map[string]string{"email": "jo@example.com", "password": "wrong"}, ""), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", resp.StatusCode)
	}
}

func TestListPhotosRequiresToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/photos", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestListPhotosReturnsOnlyVisible(t *testing.T) {
	app, f := newTestApp(t)

	_, token := f.addUser(t, false)
	visible := f.addPhoto(true)
	f.addPhoto(false)

	resp, err := app.Test(jsonRequest(http.MethodGet, "/photos", nil, token), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["total"] != float64(1) {
		t.Errorf("expected total 1, got %v", body["total"])
	}
	photos, ok := body["photos"].([]interface{})
	if !ok || len(photos) != 1 {
		t.Fatalf("expected one photo, got %v", body["photos"])
	}
	entry := photos[0].(map[string]interface{})
	if entry["uri"] != visible.URI || entry["id"] != visible.ID.Hex() {
		t.Errorf("unexpected photo entry: %v", entry)
	}
}

func TestAuthorizeForbiddenForNonAdmin(t *testing.T) {
	app, f := newTestApp(t)

	_, token := f.addUser(t, false)
	pending := f.addPhoto(false)

	path := fmt.Sprintf("/photos/%s/authorized", pending.ID.Hex())
	resp, err := app.Test(jsonRequest(http.MethodPut, path, nil, token), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if pending.Visible {
		t.Error("expected visibility to be unchanged")
	}
}

func TestAuthorizeAsAdmin(t *testing.T) {
	app, f := newTestApp(t)

	_, token := f.addUser(t, true)
	pending := f.addPhoto(false)

	path := fmt.Sprintf("/photos/%s/authorized", pending.ID.Hex())
	resp, err := app.Test(jsonRequest(http.MethodPut, path, nil, token), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["photo_id"] != pending.ID.Hex() || body["status"] != "authorized" {
		t.Errorf("unexpected body: %v", body)
	}
	if !pending.Visible {
		t.Error("expected photo to become visible")
	}
}

func TestAuthorizeUnknownPhoto(t *testing.T) {
	app, f := newTestApp(t)

	_, token := f.addUser(t, true)

	for _, id := range []string{"not-a-hex-id", primitive.NewObjectID().Hex()} {
		resp, err := app.Test(jsonRequest(http.MethodPut, "/photos/"+id+"/authorized", nil, token), -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404 for %q, got %d", id, resp.StatusCode)
		}
	}
}

func TestPendentPhotosAdminOnly(t *testing.T) {
	app, f := newTestApp(t)

	pending := f.addPhoto(false)
	f.addPhoto(true)

	_, userToken := f.addUser(t, false)
	resp, err := app.Test(jsonRequest(http.MethodGet, "/photos/pendent", nil, userToken), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	_, adminToken := f.addUser(t, true)
	resp, err = app.Test(jsonRequest(http.MethodGet, "/photos/pendent", nil, adminToken), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	photos, ok := body["photos"].([]interface{})
	if !ok || len(photos) != 1 {
		t.Fatalf("expected one pendent photo, got %v", body["photos"])
	}
	entry := photos[0].(map[string]interface{})
	if entry["id"] != pending.ID.Hex() {
		t.Errorf("unexpected pendent photo: %v", entry)
	}
}

func TestCommentEchoesEntity(t *testing.T) {
	app, f := newTestApp(t)

	user, token := f.addUser(t, false)
	photo := f.addPhoto(true)

	path := fmt.Sprintf("/photos/%s/comment", photo.ID.Hex())
	resp, err := app.Test(jsonRequest(http.MethodPost, path, map[string]string{"text": "hi"}, token), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["photo_id"] != photo.ID.Hex() || body["user_id"] != user.ID.Hex() || body["text"] != "hi" {
		t.Errorf("unexpected comment: %v", body)
	}
	if created, _ := body["created_at"].(string); created == "" {
		t.Error("expected non-null created_at")
	}
}

func TestLikeUnknownPhoto(t *testing.T) {
	app, f := newTestApp(t)

	_, token := f.addUser(t, false)

	path := fmt.Sprintf("/photos/%s/liked", primitive.NewObjectID().Hex())
	resp, err := app.Test(jsonRequest(http.MethodPost, path, nil, token), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLikePhoto(t *testing.T) {
	app, f := newTestApp(t)

	user, token := f.addUser(t, false)
	photo := f.addPhoto(true)

	path := fmt.Sprintf("/photos/%s/liked", photo.ID.Hex())
	resp, err := app.Test(jsonRequest(http.MethodPost, path, nil, token), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["photo_id"] != photo.ID.Hex() || body["user_id"] != user.ID.Hex() {
		t.Errorf("unexpected like: %v", body)
	}
}

func multipartRequest(t *testing.T, path, token string, withFile bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if withFile {
		part, err := writer.CreateFormFile("file", "cat.jpg")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.Copy(part, strings.NewReader("fake image bytes")); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadPhoto(t *testing.T) {
	app, f := newTestApp(t)

	admin, token := f.addUser(t, true)

	resp, err := app.Test(multipartRequest(t, "/photos", token, true), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	inner, ok := body["body"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected body envelope, got %v", body)
	}
	photoID, err := primitive.ObjectIDFromHex(inner["photo_id"].(string))
	if err != nil {
		t.Fatalf("expected valid photo id, got %v", inner["photo_id"])
	}

	photo := f.photos.photos[photoID]
	if photo == nil {
		t.Fatal("expected photo to be stored")
	}
	if photo.Visible {
		t.Error("expected uploaded photo to be pending moderation")
	}
	if photo.UserID != admin.ID {
		t.Errorf("expected photo owned by uploader, got %s", photo.UserID.Hex())
	}
	if photo.URI != "https://s3.test/photos/cat.jpg" {
		t.Errorf("unexpected URI: %s", photo.URI)
	}
}

func TestUploadWithoutFile(t *testing.T) {
	app, f := newTestApp(t)

	_, token := f.addUser(t, true)

	resp, err := app.Test(multipartRequest(t, "/photos", token, false), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body := decodeBody(t, resp); body["error"] != "No file in request" {
		t.Errorf("unexpected error body: %v", body)
	}
}

func TestUploadForbiddenForNonAdmin(t *testing.T) {
	app, f := newTestApp(t)

	_, token := f.addUser(t, false)

	resp, err := app.Test(multipartRequest(t, "/photos", token, true), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	if len(f.photos.photos) != 0 {
		t.Error("expected no photo to be stored")
	}
}
