package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dtroode/recipai/internal/model"
	"github.com/stretchr/testify/assert"
)

func authErr(status int, code, reason string) error {
	return fmt.Errorf("%w: %w", model.ErrAuth, &model.RemoteError{Status: status, Code: code, Reason: reason})
}

func TestTranslate_Auth(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantKey string
	}{
		{name: "invalid email text", err: authErr(400, "", "Invalid email"), wantKey: KeyInvalidEmail},
		{name: "user not found text", err: authErr(404, "", "User not found"), wantKey: KeyUserNotFound},
		{name: "invalid password text", err: authErr(401, "", "Invalid password"), wantKey: KeyInvalidPassword},
		{name: "invalid credentials text", err: authErr(401, "", "Invalid credentials supplied"), wantKey: KeyInvalidCredentials},
		{name: "weak password text", err: authErr(400, "", "Weak password"), wantKey: KeyWeakPassword},
		{name: "email exists text", err: authErr(409, "", "Email already exists"), wantKey: KeyEmailExists},
		{name: "code wins over text", err: authErr(409, "EMAIL_ALREADY_EXISTS", "Invalid email"), wantKey: KeyEmailExists},
		{name: "lowercase code", err: authErr(400, "weak_password", ""), wantKey: KeyWeakPassword},
		{name: "unknown code falls back to text", err: authErr(400, "SOMETHING", "User not found"), wantKey: KeyUserNotFound},
		{name: "unmatched reason", err: authErr(500, "", "Database exploded"), wantKey: KeyAuthFailed},
		{name: "transport failure", err: fmt.Errorf("%w: %w", model.ErrAuth, &model.RemoteError{Err: stderrors.New("dial tcp")}), wantKey: KeyAuthFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			assert.Equal(t, tt.wantKey, got.Key)
			assert.NotEmpty(t, got.Text)
		})
	}
}

func TestTranslate_ReasonPassthrough(t *testing.T) {
	err := fmt.Errorf("%w: %w", model.ErrDealLookup, &model.RemoteError{Status: http.StatusBadGateway, Reason: "Deal provider unavailable"})
	assert.Equal(t, Message{Key: KeyDealLookupFailed, Text: "Deal provider unavailable"}, Translate(err))

	err = fmt.Errorf("%w: %w", model.ErrGeneration, &model.RemoteError{Err: stderrors.New("timeout")})
	assert.Equal(t, Message{Key: KeyGenerationFailed, Text: "Failed to generate recipes."}, Translate(err))
}

func TestTranslate_Kinds(t *testing.T) {
	tests := []struct {
		err     error
		wantKey string
	}{
		{err: model.ErrNotAuthenticated, wantKey: KeyNotAuthenticated},
		{err: fmt.Errorf("%w: pantry is empty", model.ErrValidation), wantKey: KeyValidation},
		{err: model.ErrDerivation, wantKey: KeyDerivationFailed},
		{err: model.ErrFavorite, wantKey: KeyFavoriteFailed},
		{err: model.ErrRating, wantKey: KeyRatingFailed},
		{err: stderrors.New("other"), wantKey: KeyUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.wantKey, func(t *testing.T) {
			assert.Equal(t, tt.wantKey, Translate(tt.err).Key)
		})
	}
}

func TestTranslate_Validation(t *testing.T) {
	got := Translate(fmt.Errorf("generate: %w: pantry is empty", model.ErrValidation))
	assert.Equal(t, "pantry is empty", got.Text)
}

func TestTranslate_Suppressed(t *testing.T) {
	assert.True(t, Translate(nil).IsZero())
	assert.True(t, Translate(model.ErrCancelled).IsZero())
	assert.True(t, Translate(fmt.Errorf("%w: %w", model.ErrDealLookup, model.ErrCancelled)).IsZero())
	assert.True(t, Translate(model.ErrSuperseded).IsZero())
}
