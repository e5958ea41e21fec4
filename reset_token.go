package identity

import (
	"crypto/rand"
	"encoding/base64"

	goerrors "github.com/goliatone/go-errors"
)

// MinResetTokenBytes is the floor for reset token entropy. 32 random bytes
// keeps guessing infeasible within any realistic expiry window.
const MinResetTokenBytes = 32

// GenerateResetToken returns a URL-safe random string built from byteLength
// bytes of the system CSPRNG.
func GenerateResetToken(byteLength int) (string, error) {
	if byteLength < MinResetTokenBytes {
		return "", goerrors.New(
			"reset token byte length below minimum",
			goerrors.CategoryValidation,
		).WithMetadata(map[string]any{
			"byte_length": byteLength,
			"minimum":     MinResetTokenBytes,
		})
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read system RNG")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
