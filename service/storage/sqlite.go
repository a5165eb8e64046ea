package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultDBPath = "~/.cerebro/history.db"

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

func (s *service) SaveRun(ctx context.Context, input SaveRunInput) (int64, error) {
	res := input.Result
	if res == nil {
		return 0, errors.New("run result is required")
	}
	if res.Strategy == "" {
		return 0, errors.New("strategy name is required")
	}
	uuid := res.RunID
	if uuid == "" {
		uuid = fmt.Sprintf("run-%d", time.Now().UnixNano())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_uuid, strategy, data_name, params, duration_ms,
			start_cash, end_cash, end_value, pnl, pnl_pct,
			total_bars, total_trades, win_rate, sharpe_ratio, max_drawdown,
			cli_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid, res.Strategy, res.DataName, res.Params.String(), res.Duration.Milliseconds(),
		res.StartCash, res.EndCash, res.EndValue, res.PnL, res.PnLPct,
		res.TotalBars, res.TotalTrades, res.Analysis["win_rate"],
		res.Analysis["sharpe_ratio"], res.Analysis["max_drawdown"],
		input.Version)
	if err != nil {
		return 0, err
	}
	runID, err := row.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, tr := range res.Trades {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_trades (
				run_id, entry_time, exit_time, size, entry_price, exit_price,
				pnl, pnl_comm, commission, bars_held
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, tr.EntryTime.UTC().Format(time.RFC3339), tr.ExitTime.UTC().Format(time.RFC3339),
			tr.Size, tr.EntryPrice, tr.ExitPrice, tr.PnL, tr.PnLComm, tr.Commission, tr.BarsHeld)
		if err != nil {
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return runID, nil
}

func (s *service) GetRecentRuns(strategy string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT run_id, run_uuid, strategy, data_name, params, run_timestamp,
			start_cash, end_value, pnl, pnl_pct, total_trades, win_rate,
			sharpe_ratio, max_drawdown, cli_version
		FROM runs
	`
	args := []any{}
	if strategy != "" {
		query += " WHERE strategy=?"
		args = append(args, strategy)
	}
	query += " ORDER BY run_timestamp DESC, run_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.RunUUID, &r.Strategy, &r.DataName, &r.Params,
			&r.Timestamp, &r.StartCash, &r.EndValue, &r.PnL, &r.PnLPct, &r.TotalTrades,
			&r.WinRate, &r.Sharpe, &r.MaxDrawdown, &r.Version); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *service) GetTrends(strategy string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	query := `
		SELECT
			strategy,
			DATE(run_timestamp) as day,
			COUNT(*),
			MAX(pnl_pct),
			MIN(pnl_pct),
			AVG(pnl_pct),
			AVG(sharpe_ratio)
		FROM runs
		WHERE run_timestamp >= DATETIME('now', ?)
	`
	args := []any{fmt.Sprintf("-%d day", days)}
	if strategy != "" {
		query += " AND strategy=?"
		args = append(args, strategy)
	}
	query += " GROUP BY strategy, DATE(run_timestamp) ORDER BY day ASC, strategy ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []TrendPoint{}
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Strategy, &p.Date, &p.Runs, &p.BestPnL, &p.WorstPnL, &p.AvgPnL, &p.AvgSharpe); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *service) GetRunComparison(runID1, runID2 int64) (*RunComparison, error) {
	first, err := s.runByID(runID1)
	if err != nil {
		return nil, err
	}
	second, err := s.runByID(runID2)
	if err != nil {
		return nil, err
	}
	return &RunComparison{
		First:       first,
		Second:      second,
		PnLDelta:    second.PnL - first.PnL,
		PnLPctDelta: second.PnLPct - first.PnLPct,
		TradeDelta:  second.TotalTrades - first.TotalTrades,
		SharpeDelta: second.Sharpe - first.Sharpe,
	}, nil
}

// GetRun fetches one stored run by its numeric id.
func (s *service) GetRun(runID int64) (RunSummary, error) {
	return s.runByID(runID)
}

func (s *service) runByID(runID int64) (RunSummary, error) {
	var r RunSummary
	err := s.db.QueryRow(`
		SELECT run_id, run_uuid, strategy, data_name, params, run_timestamp,
			start_cash, end_value, pnl, pnl_pct, total_trades, win_rate,
			sharpe_ratio, max_drawdown, cli_version
		FROM runs WHERE run_id=?
	`, runID).Scan(&r.RunID, &r.RunUUID, &r.Strategy, &r.DataName, &r.Params,
		&r.Timestamp, &r.StartCash, &r.EndValue, &r.PnL, &r.PnLPct, &r.TotalTrades,
		&r.WinRate, &r.Sharpe, &r.MaxDrawdown, &r.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("run %d not found", runID)
	}
	return r, err
}

func (s *service) ListTrades(runID int64) ([]TradeRow, error) {
	rows, err := s.db.Query(`
		SELECT entry_time, exit_time, size, entry_price, exit_price,
			pnl, pnl_comm, commission, bars_held
		FROM run_trades WHERE run_id=? ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trades := []TradeRow{}
	for rows.Next() {
		var tr TradeRow
		if err := rows.Scan(&tr.EntryTime, &tr.ExitTime, &tr.Size, &tr.EntryPrice,
			&tr.ExitPrice, &tr.PnL, &tr.PnLComm, &tr.Commission, &tr.BarsHeld); err != nil {
			return nil, err
		}
		trades = append(trades, tr)
	}
	return trades, rows.Err()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) Reindex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "REINDEX")
	return err
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be > 0")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE run_timestamp < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Close() error {
	return s.db.Close()
}
