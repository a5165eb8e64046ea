package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/series"
)

// Service exports run artifacts to CSV files.
type Service interface {
	WriteTrades(path string, trades []model.TradeRecord) error
	WriteEquity(path string, points []model.EquityPoint, extras ...*series.Line) error
}

type service struct{}

// NewService creates a CSV export service.
func NewService() Service {
	return &service{}
}

func (s *service) WriteTrades(path string, trades []model.TradeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trades file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"entry_time", "exit_time", "size", "entry_price", "exit_price",
		"pnl", "pnl_comm", "commission", "bars_held",
	}); err != nil {
		return err
	}
	for _, tr := range trades {
		row := []string{
			tr.EntryTime.UTC().Format(time.RFC3339),
			tr.ExitTime.UTC().Format(time.RFC3339),
			formatFloat(tr.Size),
			formatFloat(tr.EntryPrice),
			formatFloat(tr.ExitPrice),
			formatFloat(tr.PnL),
			formatFloat(tr.PnLComm),
			formatFloat(tr.Commission),
			strconv.Itoa(tr.BarsHeld),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write trades csv: %w", err)
	}
	return nil
}

// WriteEquity writes the equity curve. Observer lines passed as extras
// become additional columns named after the line, one value per point.
func (s *service) WriteEquity(path string, points []model.EquityPoint, extras ...*series.Line) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create equity file: %w", err)
	}
	defer f.Close()

	header := []string{"time", "cash", "value"}
	columns := make([][]float64, len(extras))
	for i, line := range extras {
		header = append(header, line.Name())
		columns[i] = line.Values()
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, p := range points {
		row := []string{
			p.Time.UTC().Format(time.RFC3339),
			formatFloat(p.Cash),
			formatFloat(p.Value),
		}
		for _, col := range columns {
			cell := ""
			if i < len(col) {
				cell = formatFloat(col[i])
			}
			row = append(row, cell)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write equity csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
