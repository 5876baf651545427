package services

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"foodies-backend/internal/auth"
	"foodies-backend/internal/domain"
	"foodies-backend/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type UserService struct {
	repo        repository.UserRepository
	tokens      *auth.TokenManager
	logger      *zap.Logger
	redisClient *redis.Client
}

func NewUserService(r repository.UserRepository, tokens *auth.TokenManager, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   r,
		tokens: tokens,
		logger: logger,
	}
}

func (s *UserService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
	}
	if err := s.repo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Generate(user.Email)
}

// ResolveUserID maps a token subject to the stable account id. Hits are
// cached briefly so the auth middleware does not query the database on every
// request.
func (s *UserService) ResolveUserID(ctx context.Context, email string) (string, error) {
	cacheKey := "user:email:" + email

	if s.redisClient != nil {
		if id, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil && id != "" {
			return id, nil
		}
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", auth.ErrPrincipalNotFound
	}

	if s.redisClient != nil {
		s.redisClient.Set(ctx, cacheKey, user.ID, time.Minute)
	}
	return user.ID, nil
}
