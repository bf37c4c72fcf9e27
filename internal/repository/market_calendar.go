package repository

import (
	"context"
	"database/sql"
	"fmt"

	"KLineTime/internal/kline"
)

// MarketCalendarRepo reads the trading calendar, session windows and
// segment windows from ClickHouse. It implements the engine's three
// source interfaces.
type MarketCalendarRepo struct {
	db       *sql.DB
	database string
}

// NewMarketCalendarRepo creates a calendar repository over a database.
func NewMarketCalendarRepo(db *sql.DB, database string) *MarketCalendarRepo {
	return &MarketCalendarRepo{db: db, database: database}
}

func (r *MarketCalendarRepo) CalendarRows(ctx context.Context) ([]kline.CalendarRow, error) {
	q := fmt.Sprintf(
		"SELECT trading_day, next_trading_day, has_night FROM %s.trading_calendar ORDER BY trading_day",
		r.database)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query trading_calendar: %w", err)
	}
	defer rows.Close()

	var out []kline.CalendarRow
	for rows.Next() {
		var row kline.CalendarRow
		var hasNight uint8
		if err := rows.Scan(&row.TradingDay, &row.NextTradingDay, &hasNight); err != nil {
			return nil, fmt.Errorf("scan trading_calendar: %w", err)
		}
		row.HasNight = hasNight != 0
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *MarketCalendarRepo) SessionRows(ctx context.Context) ([]kline.SessionRow, error) {
	q := fmt.Sprintf("SELECT breed, range_list FROM %s.trading_sessions", r.database)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query trading_sessions: %w", err)
	}
	defer rows.Close()

	var out []kline.SessionRow
	for rows.Next() {
		var row kline.SessionRow
		if err := rows.Scan(&row.Breed, &row.RangeList); err != nil {
			return nil, fmt.Errorf("scan trading_sessions: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *MarketCalendarRepo) SegmentRows(ctx context.Context) ([]kline.SegmentRow, error) {
	q := fmt.Sprintf("SELECT breed, period, range_list FROM %s.kline_segments", r.database)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query kline_segments: %w", err)
	}
	defer rows.Close()

	var out []kline.SegmentRow
	for rows.Next() {
		var row kline.SegmentRow
		if err := rows.Scan(&row.Breed, &row.Period, &row.RangeList); err != nil {
			return nil, fmt.Errorf("scan kline_segments: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

var (
	_ kline.CalendarSource = (*MarketCalendarRepo)(nil)
	_ kline.SessionSource  = (*MarketCalendarRepo)(nil)
	_ kline.SegmentSource  = (*MarketCalendarRepo)(nil)
)
