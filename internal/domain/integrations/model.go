package integrations

import (
	"encoding/json"
	"time"
)

// Kind names one third-party data source.
type Kind string

const (
	GoogleAnalytics Kind = "ga"
	SearchConsole   Kind = "gsc"
	PageSpeed       Kind = "pagespeed"
)

var tables = map[Kind]string{
	GoogleAnalytics: "user_ga_data",
	SearchConsole:   "user_gsc_data",
	PageSpeed:       "user_ps_data",
}

// Kinds lists every data source in a stable order.
func Kinds() []Kind {
	return []Kind{GoogleAnalytics, SearchConsole, PageSpeed}
}

// ParseKind accepts the route segment of /api/data/:kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := tables[k]
	return k, ok
}

// Table is the hosted store table holding rows of this kind.
func (k Kind) Table() string { return tables[k] }

// Row is one append-only data snapshot fetched for a user.
type Row struct {
	ID        string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string          `gorm:"type:uuid;not null;index" json:"user_id"`
	URL       string          `gorm:"column:url" json:"url,omitempty"`
	Payload   json.RawMessage `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
}

// Token holds the OAuth grant of one user for one provider. Secrets are
// stored encrypted.
type Token struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex:idx_integration_tokens_user_provider" json:"user_id"`
	Provider     string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_integration_tokens_user_provider" json:"provider"`
	AccessToken  string     `gorm:"not null" json:"-"`
	RefreshToken *string    `json:"-"`
	Expiry       *time.Time `json:"expiry"`
	Scope        string     `json:"scope"`
	AccountEmail *string    `json:"account_email"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Token) TableName() string { return "integration_tokens" }
