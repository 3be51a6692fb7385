package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
)

type InventoryRepository interface {
	List(ctx context.Context) ([]*model.InventoryItem, error)
	// Search filters by description, tag or size. Size matching is flexible:
	// "205/55R16", "205 55 16" and "2055516" all hit the same rows.
	Search(ctx context.Context, query string, limit int) ([]*model.InventoryItem, error)
	// LowStock returns in-stock items at or below the threshold, scarcest
	// first.
	LowStock(ctx context.Context, threshold int64, limit int) ([]*model.InventoryItem, error)
	OutOfStock(ctx context.Context, limit int) ([]*model.InventoryItem, int64, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) List(ctx context.Context) ([]*model.InventoryItem, error) {
	var items []*model.InventoryItem
	err := r.db.WithContext(ctx).Order("descripcion").Find(&items).Error
	return items, err
}

// NormalizeSize folds a tire size to a comparable form: lowercase, with
// spaces, separators and the R radial marker stripped.
func NormalizeSize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '/', '-', '.', 'r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (r *inventoryRepository) Search(ctx context.Context, query string, limit int) ([]*model.InventoryItem, error) {
	if limit <= 0 {
		limit = 20
	}
	query = strings.TrimSpace(query)
	if query == "" {
		var items []*model.InventoryItem
		err := r.db.WithContext(ctx).Order("descripcion").Limit(limit).Find(&items).Error
		return items, err
	}

	// Broad fetch on the plain query, flexible size match in memory. The
	// snapshot table is small (a few thousand rows) so this stays cheap.
	like := "%" + strings.ToLower(query) + "%"
	var candidates []*model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("LOWER(descripcion) LIKE ? OR LOWER(tag) LIKE ? OR LOWER(medida) LIKE ?", like, like, like).
		Limit(limit).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	if len(candidates) >= limit {
		return candidates, nil
	}

	normalized := NormalizeSize(query)
	if normalized == "" {
		return candidates, nil
	}
	seen := make(map[string]bool, len(candidates))
	for _, it := range candidates {
		seen[it.SnapshotID] = true
	}

	var all []*model.InventoryItem
	if err := r.db.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, err
	}
	for _, it := range all {
		if seen[it.SnapshotID] {
			continue
		}
		if strings.Contains(NormalizeSize(it.Size), normalized) {
			candidates = append(candidates, it)
			if len(candidates) >= limit {
				break
			}
		}
	}
	return candidates, nil
}

func (r *inventoryRepository) LowStock(ctx context.Context, threshold int64, limit int) ([]*model.InventoryItem, error) {
	if limit <= 0 {
		limit = 5
	}
	var items []*model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("existencia > 0 AND existencia <= ?", threshold).
		Order("existencia").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *inventoryRepository) OutOfStock(ctx context.Context, limit int) ([]*model.InventoryItem, int64, error) {
	if limit <= 0 {
		limit = 5
	}
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.InventoryItem{}).
		Where("existencia = 0").
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []*model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("existencia = 0").
		Limit(limit).
		Find(&items).Error
	return items, total, err
}
