package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	e := newEnv(t)
	actor := e.user(t, "login@example.com")
	ctx := context.Background()

	tests := []struct {
		name    string
		input   LoginInput
		wantErr error
	}{
		{
			name:  "valid credentials",
			input: LoginInput{Email: "login@example.com", Password: "pw12345"},
		},
		{
			name:  "email is case insensitive",
			input: LoginInput{Email: "  LOGIN@example.com ", Password: "pw12345"},
		},
		{
			name:    "wrong password",
			input:   LoginInput{Email: "login@example.com", Password: "wrong"},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			input:   LoginInput{Email: "nobody@example.com", Password: "pw12345"},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := e.services.Auth.Login(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, actor.ID, result.User.ID)
			assert.NotEmpty(t, result.Token)

			subject, err := e.services.Auth.ValidateToken(result.Token)
			require.NoError(t, err)
			assert.Equal(t, actor.ID, subject)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	e := newEnv(t)
	auth := e.services.Auth

	sign := func(secret string, claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	id := uuid.New()
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:  "valid",
			token: sign(e.cfg.JWTSecret, jwt.MapClaims{"sub": id.String(), "exp": future}),
		},
		{
			name:    "expired",
			token:   sign(e.cfg.JWTSecret, jwt.MapClaims{"sub": id.String(), "exp": time.Now().Add(-time.Minute).Unix()}),
			wantErr: true,
		},
		{
			name:    "no expiry",
			token:   sign(e.cfg.JWTSecret, jwt.MapClaims{"sub": id.String()}),
			wantErr: true,
		},
		{
			name:    "wrong secret",
			token:   sign("other-secret", jwt.MapClaims{"sub": id.String(), "exp": future}),
			wantErr: true,
		},
		{
			name:    "subject is not a uuid",
			token:   sign(e.cfg.JWTSecret, jwt.MapClaims{"sub": "42", "exp": future}),
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "not.a.token",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ValidateToken(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, Page{Size: 10, Number: 1}.Offset())
	assert.Equal(t, 20, Page{Size: 10, Number: 3}.Offset())
	assert.Equal(t, 0, Page{Size: 10, Number: 0}.Offset())
	assert.Equal(t, math.MaxInt, Page{Size: 2, Number: math.MaxInt}.Offset())
	assert.Equal(t, math.MaxInt, Page{Size: math.MaxInt, Number: 3}.Offset())
	assert.Equal(t, math.MaxInt-1, Page{Size: 1, Number: math.MaxInt}.Offset())
}
