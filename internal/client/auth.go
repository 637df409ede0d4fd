package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alumnet-dev/alumnet/internal/models"
)

// Register creates an alumni account. On success the backend also sets the
// session cookie.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates with email and password. The session cookie is stored
// in the jar; the body carries the alumni record.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile asks the backend who the session cookie belongs to. The record is
// normalized with models.ExtractAlumni; an empty payload is an error.
func (c *Client) Profile(ctx context.Context) (*models.Alumni, error) {
	data, err := c.do(ctx, http.MethodGet, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}

	alumni, err := models.ExtractAlumni(data)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return alumni, nil
}

// Logout asks the backend to invalidate the session and clear the cookie
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}

// ChangePassword changes the password of the signed-in account
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.doJSON(ctx, http.MethodPut, "/auth/change-password", models.ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil)
}

// ForgotPassword triggers OTP dispatch to the given email
func (c *Client) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	return c.message(ctx, "/auth/forgot-password", models.ForgotPasswordRequest{Email: email})
}

// VerifyOTP confirms a one-time code
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*models.MessageResponse, error) {
	return c.message(ctx, "/auth/verify-otp", models.VerifyOTPRequest{Email: email, OTP: otp})
}

// ResetPassword sets a new password with a verified one-time code
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (*models.MessageResponse, error) {
	return c.message(ctx, "/auth/reset-password", models.ResetPasswordRequest{
		Email:       email,
		OTP:         otp,
		NewPassword: newPassword,
	})
}

func (c *Client) message(ctx context.Context, path string, body any) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// IsEmptyProfile reports whether err came from a profile response without a
// record
func IsEmptyProfile(err error) bool {
	return errors.Is(err, models.ErrEmptyRecord)
}
