package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/trailtrack/apiserver/internal/store"
	"github.com/trailtrack/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserService is the credential store: registration, lookup and
// password verification.
type UserService struct {
	repo     UserRepository
	hashCost int
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewUserService(repo UserRepository) *UserService {
	return newUserService(repo, bcrypt.DefaultCost)
}

func newUserService(repo UserRepository, cost int) *UserService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("trailtrack-dummy-password"), cost)
	return &UserService{repo: repo, hashCost: cost, dummyHash: dummy}
}

// Register stores a new user with a bcrypt hash of the password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	if strings.TrimSpace(in.Email) == "" {
		return types.User{}, required("email")
	}
	if strings.TrimSpace(in.Name) == "" {
		return types.User{}, required("name")
	}
	if in.Password == "" {
		return types.User{}, required("password")
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return types.User{}, ErrDuplicateIdentity
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = types.DefaultUserRole
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        in.Email,
		Name:         in.Name,
		Role:         role,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrDuplicateIdentity
		}
		return types.User{}, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByEmail returns store.ErrNotFound when no user has that exact email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// VerifyCredentials returns the user when password matches the stored
// hash. Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}
