package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agrovista/authgate"
	"github.com/agrovista/authgate/policy"
)

var (
	// ErrInvalidCredentials means the backend refused the email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrExchangeFailed wraps transport and protocol failures during a
	// credential exchange.
	ErrExchangeFailed = errors.New("credential exchange failed")
)

// Credentials is the result of a successful exchange: the raw bearer token
// and the profile the backend delivered with it.
type Credentials struct {
	Token     string
	Principal authgate.Principal
}

// Client talks to the backend identity API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the API at baseURL. A nil httpClient gets a
// 10-second timeout default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role,omitempty"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Login exchanges an email/password pair for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	var resp loginResponse
	status, err := c.post(ctx, "/Auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return Credentials{}, err
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusBadRequest:
		return Credentials{}, ErrInvalidCredentials
	case status != http.StatusOK:
		return Credentials{}, fmt.Errorf("%w: status %d", ErrExchangeFailed, status)
	}
	if resp.Token == "" {
		return Credentials{}, fmt.Errorf("%w: empty token", ErrExchangeFailed)
	}

	return Credentials{
		Token: resp.Token,
		Principal: authgate.Principal{
			ID:          resp.UserID,
			Email:       resp.Email,
			DisplayName: resp.FullName,
			Role:        roleFromWire(resp.Role),
		},
	}, nil
}

// Register creates an account and then logs in with the same credentials,
// so a successful registration always yields a usable session.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (Credentials, error) {
	status, err := c.post(ctx, "/Auth/register", registerRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	}, nil)
	if err != nil {
		return Credentials{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return Credentials{}, fmt.Errorf("%w: status %d", ErrExchangeFailed, status)
	}
	return c.Login(ctx, email, password)
}

// RequestPasswordReset asks the backend to mail a reset link. The backend
// answers identically whether or not the account exists.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	status, err := c.post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusAccepted {
		return fmt.Errorf("%w: status %d", ErrExchangeFailed, status)
	}
	return nil
}

// ResetPassword completes a reset flow with the token from the mailed link.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	status, err := c.post(ctx, "/auth/reset-password", map[string]string{
		"token":    resetToken,
		"password": newPassword,
	}, nil)
	if err != nil {
		return err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrExchangeFailed, status)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
		}
	}
	return resp.StatusCode, nil
}

// roleFromWire maps the backend's role string onto the policy vocabulary.
// Unknown values pass through as-is; the policy denies them everywhere.
func roleFromWire(role string) policy.Role {
	switch strings.ToLower(role) {
	case "superadmin", "super_admin":
		return policy.RoleSuperAdmin
	case "farmowner", "farm_owner", "owner":
		return policy.RoleFarmOwner
	case "veterinarian", "vet":
		return policy.RoleVeterinarian
	case "worker":
		return policy.RoleWorker
	case "":
		return policy.RoleGuest
	default:
		return policy.Role(role)
	}
}
