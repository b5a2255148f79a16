package store

import (
	"seo-dashboard/internal/domain/integrations"
	"seo-dashboard/internal/domain/users"

	"gorm.io/gorm"
)

// rangeQuery applies an inclusive [from, to] row window, newest first.
func rangeQuery(db *gorm.DB, from, to int) *gorm.DB {
	return db.Order("created_at DESC").Offset(from).Limit(to - from + 1)
}

func userRowsQuery(db *gorm.DB, kind integrations.Kind, userID string) *gorm.DB {
	return db.Table(kind.Table()).Where("user_id = ?", userID)
}

func planCountQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&users.User{}).Select("plan, count(*) AS count").Group("plan")
}
