package desk

import (
	"context"
	"database/sql"

	"github.com/elee1766/bookdesk/src/storage"
)

// LowStockItem is a title at or below LowStockThreshold.
type LowStockItem struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
	Stock int    `json:"stock"`
}

// InventoryReport summarizes the catalog.
type InventoryReport struct {
	TotalTitles int            `json:"total_titles"`
	TotalStock  int            `json:"total_stock"`
	LowStock    []LowStockItem `json:"low_stock"`
}

// InventorySummary counts titles and units and lists titles at or below LowStockThreshold.
func (s *Service) InventorySummary(ctx context.Context) (*InventoryReport, error) {
	report := &InventoryReport{LowStock: []LowStockItem{}}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		totals, err := storage.GetInventoryTotals(ctx, conn)
		if err != nil {
			return err
		}
		report.TotalTitles = totals.Titles
		report.TotalStock = totals.Stock

		low, err := storage.ListLowStockBooks(ctx, conn, LowStockThreshold)
		if err != nil {
			return err
		}
		for _, b := range low {
			report.LowStock = append(report.LowStock, LowStockItem{ISBN: b.ISBN, Title: b.Title, Stock: b.Stock})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
