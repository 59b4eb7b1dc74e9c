package database

import (
	"strings"

	"gorm.io/gorm"
)

// likeEscape is the LIKE escape character. '!' behaves the same on MySQL,
// PostgreSQL and SQLite, unlike backslash.
const likeEscape = "!"

// ContainsPattern builds a lower-cased %term% pattern with LIKE wildcards escaped.
func ContainsPattern(term string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// ColumnContains matches rows whose column contains term, ignoring case.
func ColumnContains(column, term string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER("+column+") LIKE ? ESCAPE '"+likeEscape+"'", ContainsPattern(term))
	}
}

// NewestFirst orders by creation time, newest first, with id as tie-break.
func NewestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id DESC")
	}
}
