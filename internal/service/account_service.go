package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/raffreitas/blog/internal/domain"
	"github.com/raffreitas/blog/internal/email"
	"github.com/raffreitas/blog/internal/repository"
	"github.com/raffreitas/blog/internal/storage"
)

// AccountService coordina registro, login y actualizacion de imagen.
type AccountService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
	tokens      *TokenService
	uploader    storage.Uploader
	limiter     RateLimiter
}

func NewAccountService(
	logger *zap.Logger,
	users repository.UserRepository,
	emailSender email.Sender,
	tokens *TokenService,
	uploader storage.Uploader,
	limiter RateLimiter,
) *AccountService {
	if limiter == nil {
		limiter = NewLoginRateLimiter(loginWindow, loginMaxAttempts)
	}
	return &AccountService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
		tokens:      tokens,
		uploader:    uploader,
		limiter:     limiter,
	}
}

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limited")
)

const (
	generatedPasswordLength = 25
	loginWindow             = 10 * time.Minute
	loginMaxAttempts        = 10
	imageContainer          = "user-images"
)

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// Register crea la cuenta con una contraseña generada y la envia por
// correo. El duplicado de email lo decide el constraint unico de la
// base, nunca un pre-chequeo.
func (s *AccountService) Register(ctx context.Context, name, emailAddr string) (domain.User, error) {
	name = strings.TrimSpace(name)
	emailAddr = strings.TrimSpace(emailAddr)
	if name == "" || emailAddr == "" {
		return domain.User{}, ErrInvalidInput
	}

	password, err := GeneratePassword(generatedPasswordLength)
	if err != nil {
		return domain.User{}, err
	}
	passwordHash, err := HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Name:         name,
		Email:        emailAddr,
		Slug:         slugify(emailAddr),
		PasswordHash: passwordHash,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrDuplicateEmail
		}
		return domain.User{}, err
	}

	// Envio best-effort: la cuenta ya quedo persistida y un fallo del
	// correo no la revierte.
	if s.emailSender != nil {
		body := fmt.Sprintf("<h1>Welcome to the blog!</h1><p>Your password is <strong>%s</strong></p>", password)
		if err := s.emailSender.Send(ctx, created.Name, created.Email, "Welcome to the blog!", body); err != nil {
			if s.logger != nil {
				s.logger.Warn("welcome email failed", zap.Error(err), zap.String("email", created.Email))
			}
		}
	}

	return created, nil
}

// Login verifica credenciales y emite el token de identidad. Email
// desconocido y contraseña equivocada responden igual.
func (s *AccountService) Login(ctx context.Context, emailAddr, password string) (domain.User, string, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if s.limiter != nil && !s.limiter.Allow(emailAddr) {
		return domain.User{}, "", ErrRateLimited
	}

	user, err := s.users.GetByEmailWithRoles(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	ok, err := VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return domain.User{}, "", err
	}
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// UploadImage sube la imagen al blob storage y guarda la URL resultante
// en el usuario.
func (s *AccountService) UploadImage(ctx context.Context, userID int64, base64Image string) (string, error) {
	if strings.TrimSpace(base64Image) == "" {
		return "", ErrInvalidInput
	}
	if s.uploader == nil {
		return "", errors.New("blob storage not configured")
	}

	imageURL, err := s.uploader.Upload(ctx, base64Image, imageContainer)
	if err != nil {
		return "", err
	}

	if err := s.users.UpdateImage(ctx, userID, imageURL); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return imageURL, nil
}

// slugify normaliza el email a un slug apto para URL: minusculas y
// cualquier corrida de no-alfanumericos colapsa a un solo guion.
func slugify(emailAddr string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(emailAddr), "-")
	return strings.Trim(slug, "-")
}
