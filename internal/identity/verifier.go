// Package identity verifies sign-in credentials issued by the external
// identity provider.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"alumni-directory-backend/internal/config"
	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
)

var (
	ErrInvalidIDToken = errors.New("invalid id token")
	ErrMissingEmail   = errors.New("id token carries no verified email")
)

// Verifier turns a provider ID token into an identity. Only Subject, Email,
// Name and Picture are filled in.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*domain.Identity, error)
}

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type FirebaseVerifier struct {
	client tokenVerifier
}

// NewFirebaseVerifier builds a verifier for Google sign-in tokens issued to
// the configured Firebase project. Without a credentials file the default
// application credentials are used.
func NewFirebaseVerifier(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*domain.Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, ErrInvalidIDToken
	}

	logger.ExternalServiceCall("firebase", "VerifyIDToken")
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	logger.ExternalServiceResult("firebase", "VerifyIDToken", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	return identityFromToken(tok)
}

func identityFromToken(tok *auth.Token) (*domain.Identity, error) {
	if tok == nil || tok.UID == "" {
		return nil, ErrInvalidIDToken
	}

	email := domain.NormalizeEmail(claimString(tok.Claims, "email"))
	if email == "" {
		return nil, ErrMissingEmail
	}
	if verified, ok := tok.Claims["email_verified"].(bool); ok && !verified {
		return nil, ErrMissingEmail
	}

	id := &domain.Identity{
		Subject: tok.UID,
		Email:   email,
	}
	if name := claimString(tok.Claims, "name"); name != "" {
		id.Name = &name
	}
	if picture := claimString(tok.Claims, "picture"); picture != "" {
		id.Picture = &picture
	}
	return id, nil
}

func claimString(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return strings.TrimSpace(v)
}
