package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Go-Recipe-Backend/domain"
	"Go-Recipe-Backend/entities"
	"Go-Recipe-Backend/internal/utils"
	"Go-Recipe-Backend/internal/utils/mailing"
	"Go-Recipe-Backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserProfile, error)
		GetProfile(ctx context.Context, viewerID, targetID string) (domain.UserProfile, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (domain.UserProfile, error)
		SendVerificationEmail(ctx context.Context, req domain.SendVerificationEmailRequest) error
		VerifyEmail(ctx context.Context, token string) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return domain.RegisterResponse{}, domain.ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := entities.User{
		ID:        uuid.New(),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
		Role:      entities.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, &user); err != nil {
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), string(user.Role))
	return domain.LoginResponse{
		Token: token,
		Role:  string(user.Role),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserProfile, error) {
	return s.GetProfile(ctx, userID, userID)
}

func (s *userService) GetProfile(ctx context.Context, viewerID, targetID string) (domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfile{}, domain.ErrUserNotFound
		}
		return domain.UserProfile{}, err
	}

	count, err := s.userRepository.CountRecipes(ctx, targetID)
	if err != nil {
		return domain.UserProfile{}, err
	}

	isSubscribed := false
	if viewerID != "" && viewerID != targetID {
		isSubscribed, err = s.userRepository.IsSubscribed(ctx, viewerID, targetID)
		if err != nil {
			return domain.UserProfile{}, err
		}
	}

	return domain.UserProfile{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
		RecipesCount: count,
	}, nil
}

func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (domain.UserProfile, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfile{}, domain.ErrUserNotFound
		}
		return domain.UserProfile{}, err
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
			return domain.UserProfile{}, domain.ErrUsernameAlreadyExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserProfile{}, err
		}
		user.Username = req.Username
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserProfile{}, err
	}

	return s.GetProfile(ctx, userID, userID)
}

func (s *userService) SendVerificationEmail(ctx context.Context, req domain.SendVerificationEmailRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenVerifyEmail(user.Email, time.Hour*24)
	if err != nil {
		return err
	}

	verifyLink := fmt.Sprintf("%s/api/v1/users/verify?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Confirm your email address by following <a href=%q>this link</a>.</p>",
		user.Username, verifyLink,
	)

	return mailing.SendMail(user.Email, "Verify your email", body)
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	email, err := s.jwtService.ValidateTokenVerifyEmail(token)
	if err != nil {
		return err
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	user.Verified = true
	return s.userRepository.UpdateUser(ctx, user)
}
