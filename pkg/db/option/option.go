package option

import "gorm.io/gorm"

// QuerySortBy describes an ORDER BY clause applied to a repository query.
type QuerySortBy struct {
	SortBy  string
	OrderBy string
}

// QueryOption mutates a gorm query before execution.
type QueryOption func(*gorm.DB) *gorm.DB

func WithLimit(limit int) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return tx
		}
		return tx.Limit(limit)
	}
}

func WithOffset(offset int) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		if offset <= 0 {
			return tx
		}
		return tx.Offset(offset)
	}
}

func WithSortBy(sort QuerySortBy) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		column := sort.SortBy
		if column == "" {
			column = "created_at"
		}
		order := sort.OrderBy
		if order != "ASC" && order != "DESC" {
			order = "ASC"
		}
		return tx.Order(column + " " + order)
	}
}

// WithWhere adds a raw condition for filters that do not fit the struct query.
func WithWhere(query interface{}, args ...interface{}) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(query, args...)
	}
}
