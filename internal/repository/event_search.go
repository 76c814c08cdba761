package repository

import (
	"context"
	"strings"

	"github.com/giorgimart/cityvibe/internal/model"
)

// EventSearchQuery defines filters & pagination for searching events.
type EventSearchQuery struct {
	Title      string
	Category   string
	Location   string
	TimeFilter string // "upcoming" (default) or "any"
	Page       int
	PageSize   int
}

// Search returns events matching the query plus the total match count for
// pagination. Filters combine with AND; text filters are case-insensitive
// substring matches.
func (r *EventRepo) Search(ctx context.Context, q EventSearchQuery) ([]model.Event, int64, error) {
	where := []string{}
	args := []any{}

	switch strings.ToLower(q.TimeFilter) {
	case "any":
	default:
		where = append(where, "time >= NOW()")
	}

	if q.Title != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Category != "" {
		where = append(where, "LOWER(category) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Category)+"%")
	}
	if q.Location != "" {
		where = append(where, "LOWER(location_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Location)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*) FROM events WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT ` + eventColumns + ` FROM events WHERE ` + cond + `
		ORDER BY time ASC
		LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	events, err := r.queryEvents(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
