package mailx

import (
	"context"
	"time"
)

// Account is a named delivery configuration referenced by actions. The
// account decides sender defaults and provider-side settings; credentials
// travel separately on the action itself.
type Account struct {
	Name             string    `json:"name" db:"name"`
	DefaultFrom      string    `json:"default_from" db:"default_from"`
	ReplyTo          string    `json:"reply_to,omitempty" db:"reply_to"`
	ConfigurationSet string    `json:"configuration_set,omitempty" db:"configuration_set"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// AccountStore persists named delivery accounts.
type AccountStore interface {
	Save(ctx context.Context, account Account) error
	Get(ctx context.Context, name string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	Delete(ctx context.Context, name string) error
}
