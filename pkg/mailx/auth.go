package mailx

import "crypto/subtle"

// Secret is an opaque, write-once credential value. It never leaks through
// String, fmt verbs, or JSON marshaling; the value is only reachable through
// an explicit Reveal call.
type Secret struct {
	value string
}

// NewSecret wraps a secret value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the wrapped value. Callers outside the non-redacted
// serialization path and delivery backends have no business calling this.
func (s Secret) Reveal() string {
	return s.value
}

// IsZero reports whether the secret holds no value.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(other.value)) == 1
}

// String implements fmt.Stringer without exposing the value.
func (s Secret) String() string {
	return "<secret>"
}

// MarshalJSON writes a placeholder, never the value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"<secret>"`), nil
}

// Authentication is the credential an action presents to the delivery
// backend: a username plus a secret password. The password may be absent
// after a redacted round trip.
type Authentication struct {
	User     string
	Password *Secret
}

// NewAuthentication creates a credential with both parts set.
func NewAuthentication(user, password string) *Authentication {
	secret := NewSecret(password)
	return &Authentication{User: user, Password: &secret}
}

// Equal compares both fields. A nil password only equals a nil password.
func (a *Authentication) Equal(other *Authentication) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.User != other.User {
		return false
	}
	if a.Password == nil || other.Password == nil {
		return a.Password == other.Password
	}
	return a.Password.Equal(*other.Password)
}
