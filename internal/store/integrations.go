package store

import (
	"context"
	"fmt"

	"seo-dashboard/internal/domain/integrations"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Integrations struct {
	DB *gorm.DB
}

func NewIntegrations(db *gorm.DB) *Integrations { return &Integrations{DB: db} }

// Page returns one window of a user's rows of the given kind plus the exact
// number of rows the user has. A malformed user id owns no rows.
func (s *Integrations) Page(ctx context.Context, kind integrations.Kind, userID string, from, to int) ([]integrations.Row, int64, error) {
	if !validID(userID) {
		return nil, 0, nil
	}
	db := s.DB.WithContext(ctx)

	var total int64
	if err := userRowsQuery(db, kind, userID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s rows: %w", kind, err)
	}

	var rows []integrations.Row
	if err := rangeQuery(userRowsQuery(db, kind, userID), from, to).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("query %s rows: %w", kind, err)
	}
	return rows, total, nil
}

// SaveToken inserts or replaces the token of (user, provider).
func (s *Integrations) SaveToken(ctx context.Context, tok *integrations.Token) error {
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "expiry", "scope", "account_email", "updated_at",
		}),
	}).Create(tok).Error
	if err != nil {
		return fmt.Errorf("save %s token for %s: %w", tok.Provider, tok.UserID, translate(err))
	}
	return nil
}
