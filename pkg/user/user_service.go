package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/entities"
	"github.com/m2-berezin/safedine-app/internal/utils/mailing"
	"github.com/m2-berezin/safedine-app/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.MeResponse, error)
		SyncPreferences(ctx context.Context, userID string, prefs domain.Preferences) error
		SendOrderConfirmation(ctx context.Context, userID string, order *entities.Order) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{userRepository: userRepository, jwtService: jwtService}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepository.GetUserByEmail(ctx, email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     email,
		Password:  string(hashed),
		Role:      domain.RoleUser,
		Allergens: pq.StringArray{},
		Diets:     pq.StringArray{},
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	go func() {
		body := fmt.Sprintf("<p>Hi %s,</p><p>Welcome to SafeDine! Save your allergen and dietary preferences once and every menu you browse will be filtered for you.</p>", user.Name)
		if err := mailing.SendMail(user.Email, "Welcome to SafeDine", body); err != nil {
			log.Printf("failed to send welcome mail to %s: %v", user.Email, err)
		}
	}()

	return domain.RegisterResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	return domain.LoginResponse{
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
		Role:  user.Role,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.MeResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MeResponse{}, domain.ErrUserNotFound
		}
		return domain.MeResponse{}, err
	}

	return domain.MeResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Allergens: user.Allergens,
		Diets:     user.Diets,
	}, nil
}

// SyncPreferences mirrors a session preference save onto the profile row so
// a signed-in diner keeps their restrictions across devices.
func (s *userService) SyncPreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	return s.userRepository.UpdatePreferences(ctx, userID, prefs.Allergens, prefs.Diets)
}

func (s *userService) SendOrderConfirmation(ctx context.Context, userID string, order *entities.Order) error {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	var lines strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&lines, "<li>%d x %s</li>", item.Quantity, item.Name)
	}
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order at table %s is in:</p><ul>%s</ul><p>Total: %.2f</p>",
		user.Name, order.TableCode, lines.String(), order.TotalAmount,
	)
	return mailing.SendMail(user.Email, "Your SafeDine order confirmation", body)
}
