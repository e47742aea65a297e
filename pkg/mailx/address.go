package mailx

import (
	"net/mail"
	"strings"
)

// Address is a single email endpoint, either "user@domain" or
// "Name <user@domain>". Its string form is stable and re-parseable.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// ParseAddress parses a single address.
func ParseAddress(s string) (Address, error) {
	parsed, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return Address{}, mailxErrors.NewWithCause(ErrInvalidAddress, err).WithDetail("address", s)
	}
	return Address{Name: parsed.Name, Email: parsed.Address}, nil
}

// ParseAddressList parses a comma-separated list of addresses. Whitespace
// around entries is trimmed; any invalid entry fails the whole parse. A
// single entry with no comma yields a one-element list.
func ParseAddressList(s string) ([]Address, error) {
	parts := strings.Split(s, ",")
	addrs := make([]Address, 0, len(parts))
	for _, part := range parts {
		addr, err := ParseAddress(part)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// String returns the canonical address text.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// Equal reports whether two addresses are identical.
func (a Address) Equal(other Address) bool {
	return a.Name == other.Name && a.Email == other.Email
}
