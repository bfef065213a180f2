package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/domain"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type ProfilePatch struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	PostalCode *string `json:"postalCode"`
	Phone      *string `json:"phone"`
}

type UserService struct {
	users repository.UserRepository
	cost  int
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users, cost: bcrypt.DefaultCost}
}

// Register creates a customer account. Accounts created here are never admins.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	switch {
	case username == "":
		return nil, domain.Invalidf("username is required")
	case !validEmail(email):
		return nil, domain.Invalidf("a valid email is required")
	case len(in.Password) < minPasswordLength:
		return nil, domain.Invalidf("password must be at least %d characters", minPasswordLength)
	}

	if existing, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.Conflictf("username %q is taken", username)
	}
	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.Conflictf("email %q is already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Uint64("user_id", user.ID).Str("username", username).Msg("user registered")
	return user, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords fail the
// same way.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, ident domain.Identity) (*domain.User, error) {
	if err := ident.RequireUser(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFoundf("user %d", ident.UserID)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, ident domain.Identity, patch ProfilePatch) (*domain.User, error) {
	user, err := s.Get(ctx, ident)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !validEmail(email) {
			return nil, domain.Invalidf("a valid email is required")
		}
		if email != user.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.Conflictf("email %q is already registered", email)
			}
			user.Email = email
		}
	}
	setTrimmed(&user.FirstName, patch.FirstName)
	setTrimmed(&user.LastName, patch.LastName)
	setTrimmed(&user.Address, patch.Address)
	setTrimmed(&user.City, patch.City)
	setTrimmed(&user.PostalCode, patch.PostalCode)
	setTrimmed(&user.Phone, patch.Phone)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, ident domain.Identity, current, next string) error {
	user, err := s.Get(ctx, ident)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.Invalidf("current password is incorrect")
	}
	if len(next) < minPasswordLength {
		return domain.Invalidf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}

// HashPassword is exposed for seeding.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
