package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    run_id         INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid       TEXT UNIQUE NOT NULL,
    strategy       TEXT NOT NULL,
    data_name      TEXT NOT NULL,
    params         TEXT,
    run_timestamp  DATETIME DEFAULT CURRENT_TIMESTAMP,
    duration_ms    INTEGER,
    start_cash     REAL NOT NULL,
    end_cash       REAL NOT NULL,
    end_value      REAL NOT NULL,
    pnl            REAL NOT NULL,
    pnl_pct        REAL NOT NULL,
    total_bars     INTEGER DEFAULT 0,
    total_trades   INTEGER DEFAULT 0,
    win_rate       REAL DEFAULT 0,
    sharpe_ratio   REAL DEFAULT 0,
    max_drawdown   REAL DEFAULT 0,
    cli_version    TEXT,
    created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_strategy_timestamp
    ON runs(strategy, run_timestamp);
CREATE INDEX IF NOT EXISTS idx_runs_timestamp
    ON runs(run_timestamp DESC);

CREATE TABLE IF NOT EXISTS run_trades (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id       INTEGER NOT NULL,
    entry_time   DATETIME NOT NULL,
    exit_time    DATETIME NOT NULL,
    size         REAL NOT NULL,
    entry_price  REAL NOT NULL,
    exit_price   REAL NOT NULL,
    pnl          REAL NOT NULL,
    pnl_comm     REAL NOT NULL,
    commission   REAL NOT NULL,
    bars_held    INTEGER DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_trades_run ON run_trades(run_id);
`
