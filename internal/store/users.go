package store

import (
	"context"
	"fmt"
	"time"

	"seo-dashboard/internal/domain/users"

	"gorm.io/gorm"
)

type Users struct {
	DB *gorm.DB
}

func NewUsers(db *gorm.DB) *Users { return &Users{DB: db} }

func (s *Users) Get(ctx context.Context, id string) (*users.User, error) {
	if !validID(id) {
		return nil, fmt.Errorf("get user %s: %w", id, ErrNotFound)
	}
	var u users.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, translate(err))
	}
	return &u, nil
}

func (s *Users) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*users.User, error) {
	var u users.User
	if err := s.DB.WithContext(ctx).Where("subscription_id = ?", subscriptionID).First(&u).Error; err != nil {
		return nil, fmt.Errorf("find user by subscription %s: %w", subscriptionID, translate(err))
	}
	return &u, nil
}

func (s *Users) Create(ctx context.Context, u *users.User) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user %s: %w", u.ID, translate(err))
	}
	return nil
}

// UpdateSubscription overwrites the billing columns of one user and returns
// the updated row.
func (s *Users) UpdateSubscription(ctx context.Context, id string, upd users.SubscriptionUpdate) (*users.User, error) {
	if !validID(id) {
		return nil, fmt.Errorf("update subscription of %s: %w", id, ErrNotFound)
	}
	updates := map[string]interface{}{
		"plan":                upd.Plan,
		"subscription_status": upd.Status,
		"website_limit":       upd.WebsiteLimit,
		"keyword_limit":       upd.KeywordLimit,
		"updated_at":          time.Now(),
	}
	if upd.SubscriptionID != nil {
		updates["subscription_id"] = *upd.SubscriptionID
	}

	res := s.DB.WithContext(ctx).Model(&users.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update subscription of %s: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update subscription of %s: %w", id, ErrNotFound)
	}
	return s.Get(ctx, id)
}

// UpdateStatus changes only subscription_status.
func (s *Users) UpdateStatus(ctx context.Context, id, status string) error {
	if !validID(id) {
		return fmt.Errorf("update status of %s: %w", id, ErrNotFound)
	}
	res := s.DB.WithContext(ctx).Model(&users.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"subscription_status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("update status of %s: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update status of %s: %w", id, ErrNotFound)
	}
	return nil
}

// List returns users newest first in the inclusive row range [from, to]
// together with the exact total count.
func (s *Users) List(ctx context.Context, from, to int) ([]users.User, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&users.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var out []users.User
	if err := rangeQuery(s.DB.WithContext(ctx).Model(&users.User{}), from, to).Find(&out).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return out, total, nil
}

// CountByPlan returns the number of users on each plan key.
func (s *Users) CountByPlan(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Plan  string
		Count int64
	}
	if err := planCountQuery(s.DB.WithContext(ctx)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count users by plan: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Plan] = r.Count
	}
	return out, nil
}
