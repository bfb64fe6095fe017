package db

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Paginate applies LIMIT/OFFSET for 1-based pages. Non-positive values leave the query unbounded.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 || pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// LikeEscape is the escape character used by ContainsPattern.
const LikeEscape = "!"

var likeEscaper = strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")

// ContainsPattern turns free text into a "%term%" LIKE pattern with the
// wildcards of the term escaped. Pair it with ESCAPE '!'.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// OrderBy orders by a whitelisted column. Unknown columns fall back to
// fallback and any direction other than ASC becomes DESC.
func OrderBy(column, direction string, allowed map[string]string, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		col, ok := allowed[strings.ToLower(column)]
		if !ok {
			col = fallback
		}
		dir := "DESC"
		if strings.EqualFold(direction, "asc") {
			dir = "ASC"
		}
		return db.Order(col + " " + dir)
	}
}

// CreatedBetween filters rows on a created_at style column; zero bounds are ignored.
func CreatedBetween(column string, from, to time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !from.IsZero() {
			db = db.Where(column+" >= ?", from.UTC())
		}
		if !to.IsZero() {
			db = db.Where(column+" <= ?", to.UTC())
		}
		return db
	}
}
