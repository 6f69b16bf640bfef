package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/raffreitas/blog/internal/domain"
	"github.com/raffreitas/blog/internal/repository"
	"github.com/raffreitas/blog/internal/service"
)

type mockUserRepo struct {
	nextID       int64
	usersByID    map[int64]domain.User
	usersByEmail map[string]int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[int64]domain.User),
		usersByEmail: make(map[string]int64),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, exists := m.usersByEmail[user.Email]; exists {
		return domain.User{}, repository.ErrDuplicateEmail
	}
	m.nextID++
	user.ID = m.nextID
	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user.ID
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) GetByEmailWithRoles(ctx context.Context, email string) (domain.User, error) {
	return m.GetByEmail(ctx, email)
}

func (m *mockUserRepo) UpdateImage(_ context.Context, userID int64, imageURL string) error {
	user, ok := m.usersByID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.Image = imageURL
	m.usersByID[userID] = user
	return nil
}

type recordingSender struct {
	body string
}

func (s *recordingSender) Send(_ context.Context, _, _, _, htmlBody string) error {
	s.body = htmlBody
	return nil
}

type stubUploader struct {
	url string
}

func (u *stubUploader) Upload(_ context.Context, _, _ string) (string, error) {
	return u.url, nil
}

type testEnv struct {
	router *gin.Engine
	sender *recordingSender
	tokens *service.TokenService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	tokens := service.NewTokenService("secret", 2*time.Hour)
	sender := &recordingSender{}
	uploader := &stubUploader{url: "https://cdn.example.com/user-images/pic.jpg"}
	accountSvc := service.NewAccountService(logger, newMockUserRepo(), sender, tokens, uploader, nil)
	accountH := NewAccountHandler(logger, accountSvc)

	r := gin.New()
	r.POST("/v1/accounts", accountH.Register)
	r.POST("/v1/accounts/login", accountH.Login)
	r.POST("/v1/accounts/upload-image", JWTAuthMiddleware(tokens), accountH.UploadImage)

	return testEnv{router: r, sender: sender, tokens: tokens}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) Result {
	t.Helper()
	var res Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result envelope: %v (%s)", err, rec.Body.String())
	}
	return res
}

func emailedPassword(t *testing.T, body string) string {
	t.Helper()
	const openTag, closeTag = "<strong>", "</strong>"
	start := strings.Index(body, openTag)
	end := strings.Index(body, closeTag)
	if start < 0 || end <= start {
		t.Fatalf("no password in email body %q", body)
	}
	return body[start+len(openTag) : end]
}

func TestAccountHandler_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/accounts", gin.H{
		"name":  "Ana",
		"email": "ana@example.com",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	res := decodeResult(t, rec)
	if len(res.Errors) != 0 {
		t.Fatalf("expected empty errors on success, got %+v", res.Errors)
	}

	password := emailedPassword(t, env.sender.body)
	rec = doJSON(t, env.router, http.MethodPost, "/v1/accounts/login", gin.H{
		"email":    "ana@example.com",
		"password": password,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	res = decodeResult(t, rec)
	token, ok := res.Data.(string)
	if !ok || token == "" {
		t.Fatalf("expected token string in data, got %+v", res.Data)
	}
	claims, err := env.tokens.Parse(token)
	if err != nil {
		t.Fatalf("token must be decodable: %v", err)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAccountHandler_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	payload := gin.H{"name": "Ana", "email": "ana@example.com"}
	if rec := doJSON(t, env.router, http.MethodPost, "/v1/accounts", payload, nil); rec.Code != http.StatusCreated {
		t.Fatalf("first register: %d", rec.Code)
	}

	rec := doJSON(t, env.router, http.MethodPost, "/v1/accounts", payload, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", rec.Code)
	}
	res := decodeResult(t, rec)
	if res.Data != nil || len(res.Errors) == 0 {
		t.Fatalf("expected error envelope, got %+v", res)
	}
}

func TestAccountHandler_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/accounts", gin.H{
		"name":  "Ana",
		"email": "not-an-email",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", rec.Code)
	}
}

func TestAccountHandler_LoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/accounts/login", gin.H{
		"email":    "nobody@example.com",
		"password": "whatever",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAccountHandler_UploadImageRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/accounts/upload-image", gin.H{
		"base64_image": "aGVsbG8=",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestAccountHandler_UploadImageWithToken(t *testing.T) {
	env := newTestEnv(t)

	if rec := doJSON(t, env.router, http.MethodPost, "/v1/accounts", gin.H{
		"name":  "Ana",
		"email": "ana@example.com",
	}, nil); rec.Code != http.StatusCreated {
		t.Fatalf("register: %d", rec.Code)
	}
	password := emailedPassword(t, env.sender.body)

	rec := doJSON(t, env.router, http.MethodPost, "/v1/accounts/login", gin.H{
		"email":    "ana@example.com",
		"password": password,
	}, nil)
	token := decodeResult(t, rec).Data.(string)

	rec = doJSON(t, env.router, http.MethodPost, "/v1/accounts/upload-image", gin.H{
		"base64_image": "aGVsbG8=",
	}, map[string]string{"Authorization": "Bearer " + token})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}
