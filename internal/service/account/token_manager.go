package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"petmarket/internal/domain"
	tokenrepo "petmarket/internal/repository/token"
	"github.com/google/uuid"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
	kindGuest   = "guest"
)

type tokenMeta struct {
	UserID    string
	GuestID   string
	ExpiresAt time.Time
}

type tokenManager struct {
	repo tokenrepo.Repository
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{repo: repo}
}

func (m *tokenManager) IssueUser(ctx context.Context, userID, kind string, ttl time.Duration) (string, error) {
	return m.issue(ctx, tokenrepo.Token{UserID: &userID, Kind: kind}, ttl)
}

func (m *tokenManager) IssueGuest(ctx context.Context, ttl time.Duration) (token, guestID string, err error) {
	guestID = "guest-" + uuid.NewString()
	token, err = m.issue(ctx, tokenrepo.Token{GuestID: &guestID, Kind: kindGuest}, ttl)
	if err != nil {
		return "", "", err
	}
	return token, guestID, nil
}

func (m *tokenManager) issue(ctx context.Context, t tokenrepo.Token, ttl time.Duration) (string, error) {
	t.ExpiresAt = time.Now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		t.Token = token
		err = m.repo.Create(ctx, t)
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

// Redeem exchanges a live refresh token for its user id. The token is
// consumed: a stolen refresh token works at most once.
func (m *tokenManager) Redeem(ctx context.Context, token string) (string, bool) {
	meta, err := m.repo.Get(ctx, token)
	if err != nil {
		return "", false
	}
	if meta.Kind != kindRefresh || meta.UserID == nil {
		return "", false
	}
	if time.Now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return "", false
	}
	if err := m.repo.Delete(ctx, token); err != nil {
		return "", false
	}
	return *meta.UserID, true
}

// Validate accepts access and guest tokens; refresh tokens are only good for
// re-issuing.
func (m *tokenManager) Validate(ctx context.Context, token string) (tokenMeta, bool) {
	meta, err := m.repo.Get(ctx, token)
	if err != nil {
		return tokenMeta{}, false
	}
	if meta.Kind != kindAccess && meta.Kind != kindGuest {
		return tokenMeta{}, false
	}
	if time.Now().After(meta.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return tokenMeta{}, false
	}
	out := tokenMeta{ExpiresAt: meta.ExpiresAt}
	if meta.UserID != nil {
		out.UserID = *meta.UserID
	}
	if meta.GuestID != nil {
		out.GuestID = *meta.GuestID
	}
	return out, true
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
