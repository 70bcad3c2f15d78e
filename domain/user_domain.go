package domain

import (
	"errors"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetMe            = "success get user detail"
	MessageSuccessGetProfile       = "success get user profile"
	MessageSuccessUpdateUser       = "user updated successfully"
	MessageSuccessSendVerification = "verification email sent"
	MessageSuccessVerifyEmail      = "email verified successfully"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetMe            = "failed to get user detail"
	MessageFailedGetProfile       = "failed to get user profile"
	MessageFailedUpdateUser       = "failed to update user"
	MessageFailedSendVerification = "failed to send verification email"
	MessageFailedVerifyEmail      = "failed to verify email"

	ErrUserNotFound       = errors.New("user not found")
	ErrCredentialsInvalid = errors.New("invalid email or password")

	ErrEmailAlreadyExists    = ValidationError{Field: "email", Message: "email already registered"}
	ErrUsernameAlreadyExists = ValidationError{Field: "username", Message: "username already taken"}
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UpdateUserRequest struct {
		Username  string `json:"username" validate:"omitempty,max=150"`
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
	}

	SendVerificationEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	UserProfile struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
		RecipesCount int64  `json:"recipes_count"`
	}
)
