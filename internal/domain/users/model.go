package users

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the hosted store's users row. ID is the auth provider's
// opaque uuid, never generated here.
type User struct {
	ID       string  `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	FullName *string `gorm:"column:full_name" json:"full_name"`
	Role     string  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	Plan               string  `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	SubscriptionID     *string `gorm:"column:subscription_id;uniqueIndex:idx_users_subscription_id" json:"subscription_id"`
	SubscriptionStatus string  `gorm:"column:subscription_status;type:varchar(20);not null;default:'none'" json:"subscription_status"`
	WebsiteLimit       int     `gorm:"column:website_limit;not null;default:1" json:"website_limit"`
	KeywordLimit       int     `gorm:"column:keyword_limit;not null;default:10" json:"keyword_limit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionUpdate is the set of columns written when billing state changes.
type SubscriptionUpdate struct {
	Plan           string
	SubscriptionID *string
	Status         string
	WebsiteLimit   int
	KeywordLimit   int
}
