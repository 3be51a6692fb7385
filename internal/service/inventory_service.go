package service

import (
	"context"
	"strings"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
)

// InventoryOverview is the stock screen payload: the full snapshot plus the
// alert buckets already split out.
type InventoryOverview struct {
	Items      []*model.InventoryItem `json:"items"`
	Total      int                    `json:"total"`
	LowStock   []*model.InventoryItem `json:"stock_bajo"`
	OutOfStock int64                  `json:"agotados"`
}

// InventoryService reads the snapshot table written by the external
// ingestion job. Everything here is read-only.
type InventoryService struct {
	inventory         repository.InventoryRepository
	lowStockThreshold int64
}

func NewInventoryService(inventory repository.InventoryRepository, lowStockThreshold int64) *InventoryService {
	return &InventoryService{inventory: inventory, lowStockThreshold: lowStockThreshold}
}

func (s *InventoryService) Overview(ctx context.Context) (*InventoryOverview, error) {
	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, err
	}

	out := &InventoryOverview{Items: items, Total: len(items)}
	for _, it := range items {
		if it.Stock == 0 {
			out.OutOfStock++
		} else if it.Stock <= s.lowStockThreshold {
			out.LowStock = append(out.LowStock, it)
		}
	}
	return out, nil
}

// Search matches tire sizes loosely: "205 55 16", "205/55R16" and
// "205-55-16" all hit the same rows.
func (s *InventoryService) Search(ctx context.Context, query string, limit int) ([]*model.InventoryItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.inventory.Search(ctx, query, limit)
}

func (s *InventoryService) List(ctx context.Context) ([]*model.InventoryItem, error) {
	return s.inventory.List(ctx)
}
