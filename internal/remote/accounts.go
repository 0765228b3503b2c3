package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nutiai.com/nutiai-server/internal/auth"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrProfileCreation means the account exists but its profile row does not.
	ErrProfileCreation = errors.New("account created without profile")
)

// SignUp creates the account and then its profile. The two writes are not
// atomic: when the profile insert fails the account is still returned
// together with ErrProfileCreation.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Account, *Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, nil, wrap("sign up", errors.New("email and password are required"))
	}

	var existing int64
	if err := c.db.WithContext(ctx).Model(&Account{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, nil, wrap("sign up", err)
	}
	if existing > 0 {
		return nil, nil, wrap("sign up", ErrEmailTaken)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, wrap("sign up", err)
	}
	account := Account{Email: email, PasswordHash: hash}
	if err := c.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, nil, wrap("sign up", err)
	}

	if name == "" {
		name = emailPrefix(email)
	}
	profile, err := c.Profiles.Insert(ctx, NewProfile{ID: account.ID, Name: name, Email: email})
	if err != nil {
		c.log.Warn("profile creation failed after sign up", "user", account.ID, "error", err)
		return &account, nil, fmt.Errorf("%w: %v", ErrProfileCreation, err)
	}
	return &account, profile, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	var account Account
	if err := c.db.WithContext(ctx).First(&account, "email = ?", email).Error; err != nil {
		err = wrap("sign in", err)
		if errors.Is(err, ErrNotFound) {
			return nil, wrap("sign in", ErrInvalidCredentials)
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, account.PasswordHash) {
		return nil, wrap("sign in", ErrInvalidCredentials)
	}
	return &account, nil
}

// Account returns the account behind a session.
func (c *Client) Account(ctx context.Context, userID string) (*Account, error) {
	var account Account
	if err := c.db.WithContext(ctx).First(&account, "id = ?", userID).Error; err != nil {
		return nil, wrap("get account", err)
	}
	return &account, nil
}

// ProfileOrDefault returns the stored profile, or one derived from the
// account's email when the profile row is missing.
func (c *Client) ProfileOrDefault(ctx context.Context, account *Account) (*Profile, error) {
	p, err := c.Profiles.Get(ctx, account.ID)
	if errors.Is(err, ErrNotFound) {
		return &Profile{ID: account.ID, Name: emailPrefix(account.Email), Email: account.Email}, nil
	}
	return p, err
}

func emailPrefix(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
