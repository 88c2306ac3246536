package errors

import (
	stderrors "errors"
	"strings"

	"github.com/dtroode/recipai/internal/model"
)

// Message keys.
const (
	KeyInvalidEmail       = "invalid_email"
	KeyUserNotFound       = "user_not_found"
	KeyInvalidPassword    = "invalid_password"
	KeyInvalidCredentials = "invalid_credentials"
	KeyWeakPassword       = "weak_password"
	KeyEmailExists        = "email_exists"
	KeyAuthFailed         = "auth_failed"
	KeyNotAuthenticated   = "not_authenticated"
	KeyValidation         = "validation"
	KeyGenerationFailed   = "generation_failed"
	KeyDerivationFailed   = "derivation_failed"
	KeyDealLookupFailed   = "deal_lookup_failed"
	KeyFavoriteFailed     = "favorite_failed"
	KeyRatingFailed       = "rating_failed"
	KeyUnknown            = "unknown"
)

// Message is a user-facing rendering of an error. The zero Message means
// nothing should be shown.
type Message struct {
	Key  string
	Text string
}

// IsZero reports whether m carries nothing to show.
func (m Message) IsZero() bool {
	return m.Key == ""
}

type rule struct {
	code   string
	phrase string
	msg    Message
}

// authRules are tried in order. Structured codes win over text.
var authRules = []rule{
	{code: "INVALID_EMAIL", phrase: "Invalid email", msg: Message{KeyInvalidEmail, "The email address is invalid or does not exist."}},
	{code: "USER_NOT_FOUND", phrase: "User not found", msg: Message{KeyUserNotFound, "The email address is invalid or does not exist."}},
	{code: "INVALID_PASSWORD", phrase: "Invalid password", msg: Message{KeyInvalidPassword, "The password is incorrect."}},
	{code: "INVALID_CREDENTIALS", phrase: "Invalid credentials", msg: Message{KeyInvalidCredentials, "The username or password is incorrect."}},
	{code: "WEAK_PASSWORD", phrase: "Weak password", msg: Message{KeyWeakPassword, "The password is too weak."}},
	{code: "EMAIL_ALREADY_EXISTS", phrase: "Email already exists", msg: Message{KeyEmailExists, "This email is already registered."}},
}

type fallback struct {
	kind error
	key  string
	text string
	// useReason shows the server reason instead of text when present.
	useReason bool
}

var fallbacks = []fallback{
	{kind: model.ErrNotAuthenticated, key: KeyNotAuthenticated, text: "Please log in to continue."},
	{kind: model.ErrAuth, key: KeyAuthFailed, text: "Authentication failed."},
	{kind: model.ErrGeneration, key: KeyGenerationFailed, text: "Failed to generate recipes.", useReason: true},
	{kind: model.ErrDerivation, key: KeyDerivationFailed, text: "Failed to load the shopping list.", useReason: true},
	{kind: model.ErrDealLookup, key: KeyDealLookupFailed, text: "Failed to load deals.", useReason: true},
	{kind: model.ErrFavorite, key: KeyFavoriteFailed, text: "Failed to update favorites.", useReason: true},
	{kind: model.ErrRating, key: KeyRatingFailed, text: "Failed to save the rating.", useReason: true},
}

// Translate maps an error returned by the services to a user-facing message.
// Cancelled and superseded operations translate to the zero Message.
func Translate(err error) Message {
	if err == nil || model.IsCancelled(err) {
		return Message{}
	}

	if stderrors.Is(err, model.ErrValidation) {
		return Message{Key: KeyValidation, Text: validationText(err)}
	}

	code := strings.ToUpper(strings.TrimSpace(model.Code(err)))
	reason := model.Reason(err, "")

	if stderrors.Is(err, model.ErrAuth) {
		if code != "" {
			for _, r := range authRules {
				if r.code == code {
					return r.msg
				}
			}
		}
		for _, r := range authRules {
			if strings.Contains(reason, r.phrase) {
				return r.msg
			}
		}
	}

	for _, f := range fallbacks {
		if !stderrors.Is(err, f.kind) {
			continue
		}
		if f.useReason && reason != "" {
			return Message{Key: f.key, Text: reason}
		}
		return Message{Key: f.key, Text: f.text}
	}

	return Message{Key: KeyUnknown, Text: "Something went wrong."}
}

func validationText(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, model.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(model.ErrValidation.Error())+2:]
	}
	return "Some required input is missing."
}
