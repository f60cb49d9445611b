package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"firebase.google.com/go/v4/auth"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// FirebaseProvider implements Provider on top of Firebase. Password
// sign-in goes through the Identity Toolkit REST API (the Admin SDK
// has no password verification); everything else uses the Admin SDK.
type FirebaseProvider struct {
	authClient *auth.Client
	apiKey     string
	httpClient *http.Client

	mu        sync.Mutex
	listeners []Listener
}

func NewFirebaseProvider(authClient *auth.Client, apiKey string) *FirebaseProvider {
	return &FirebaseProvider{
		authClient: authClient,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	body, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sign-in request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", signInEndpoint, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, ErrProviderUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, mapSignInError(apiErr.Error.Message)
	}

	var result struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}

	u := &User{UID: result.LocalID, Email: result.Email, DisplayName: result.DisplayName}
	p.notify(u)
	return u, nil
}

func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password string) (*User, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)

	record, err := p.authClient.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	u := &User{UID: record.UID, Email: record.Email, DisplayName: record.DisplayName}
	p.notify(u)
	return u, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	if err := p.authClient.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	p.notify(nil)
	return nil
}

func (p *FirebaseProvider) UpdateDisplayName(ctx context.Context, uid, name string) error {
	params := (&auth.UserToUpdate{}).DisplayName(name)
	if _, err := p.authClient.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	return nil
}

func (p *FirebaseProvider) OnSessionChange(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

func (p *FirebaseProvider) notify(u *User) {
	p.mu.Lock()
	listeners := make([]Listener, len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, l := range listeners {
		l(u)
	}
}

// mapSignInError converts Identity Toolkit error codes into the
// provider error taxonomy.
func mapSignInError(code string) error {
	switch {
	case strings.Contains(code, "EMAIL_NOT_FOUND"),
		strings.Contains(code, "INVALID_PASSWORD"),
		strings.Contains(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.Contains(code, "USER_DISABLED"):
		return ErrInvalidCredentials
	case code == "":
		return ErrProviderUnavailable
	default:
		return fmt.Errorf("sign-in rejected: %s", code)
	}
}
