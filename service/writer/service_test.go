package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/series"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return rows
}

func TestWriteTrades(t *testing.T) {
	entry := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	trades := []model.TradeRecord{
		{EntryTime: entry, ExitTime: entry.AddDate(0, 0, 3), Size: 10, EntryPrice: 100.5, ExitPrice: 104, PnL: 35, PnLComm: 33, Commission: 2, BarsHeld: 3},
	}

	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := NewService().WriteTrades(path, trades); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	if rows[0][0] != "entry_time" || rows[0][8] != "bars_held" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "2024-03-04T00:00:00Z" || rows[1][3] != "100.5" || rows[1][8] != "3" {
		t.Errorf("unexpected trade row: %v", rows[1])
	}
}

func TestWriteEquity(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	points := []model.EquityPoint{
		{Time: day, Cash: 100000, Value: 100000},
		{Time: day.AddDate(0, 0, 1), Cash: 99000, Value: 100250.75},
	}

	path := filepath.Join(t.TempDir(), "equity.csv")
	if err := NewService().WriteEquity(path, points); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header plus two rows, got %d rows", len(rows))
	}
	if rows[2][2] != "100250.75" {
		t.Errorf("unexpected value cell: %v", rows[2])
	}
}

func TestWriteEquityWithObserverColumns(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	points := []model.EquityPoint{
		{Time: day, Cash: 100000, Value: 100000},
		{Time: day.AddDate(0, 0, 1), Cash: 99000, Value: 98500},
	}
	dd := series.NewLine("drawdown")
	dd.Append(0)
	dd.Append(1.5)

	path := filepath.Join(t.TempDir(), "equity.csv")
	if err := NewService().WriteEquity(path, points, dd); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	rows := readCSV(t, path)
	if rows[0][3] != "drawdown" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][3] != "0" || rows[2][3] != "1.5" {
		t.Errorf("unexpected drawdown cells: %v / %v", rows[1][3], rows[2][3])
	}
}

func TestWriteTradesBadPath(t *testing.T) {
	err := NewService().WriteTrades(filepath.Join(t.TempDir(), "missing", "trades.csv"), nil)
	if err == nil {
		t.Error("expected an error for an unwritable path")
	}
}
