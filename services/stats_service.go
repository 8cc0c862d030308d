package services

import (
	"context"
	"modfy_server/storage"
	"modfy_server/structs/tables"
	"sort"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// LowStockThreshold marks active products with this many units or fewer.
const LowStockThreshold = 5

type LowStockProduct struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	StockQuantity int       `json:"stockQuantity"`
}

type DashboardStats struct {
	TotalProducts  int                        `json:"totalProducts"`
	ActiveProducts int                        `json:"activeProducts"`
	TotalOrders    int                        `json:"totalOrders"`
	TotalUsers     int                        `json:"totalUsers"`
	TotalRevenue   uint64                     `json:"totalRevenue"`
	OrdersByStatus map[tables.OrderStatus]int `json:"ordersByStatus"`
	LowStock       []LowStockProduct          `json:"lowStock"`
}

type StatsService struct {
	logger *gecho.Logger
	store  storage.Storage
}

func NewStatsService(logger *gecho.Logger, store storage.Storage) *StatsService {
	return &StatsService{
		logger: logger,
		store:  store,
	}
}

func (ss *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	products, err := ss.store.ListProducts(ctx, storage.ProductFilter{})
	if err != nil {
		return nil, err
	}
	orders, err := ss.store.ListOrders(ctx, storage.OrderFilter{})
	if err != nil {
		return nil, err
	}
	users, err := ss.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	return Aggregate(products, orders, len(users)), nil
}

// Aggregate computes the dashboard figures. Cancelled orders do not count towards revenue.
func Aggregate(products []*tables.Product, orders []*tables.Order, userCount int) *DashboardStats {
	stats := &DashboardStats{
		TotalProducts:  len(products),
		TotalOrders:    len(orders),
		TotalUsers:     userCount,
		OrdersByStatus: map[tables.OrderStatus]int{},
		LowStock:       []LowStockProduct{},
	}

	for _, p := range products {
		if !p.IsActive {
			continue
		}
		stats.ActiveProducts++
		if p.StockQuantity <= LowStockThreshold {
			stats.LowStock = append(stats.LowStock, LowStockProduct{
				ID:            p.ID,
				Name:          p.Name,
				Slug:          p.Slug,
				StockQuantity: p.StockQuantity,
			})
		}
	}
	sort.SliceStable(stats.LowStock, func(i, j int) bool {
		return stats.LowStock[i].StockQuantity < stats.LowStock[j].StockQuantity
	})

	for _, o := range orders {
		stats.OrdersByStatus[o.Status]++
		if o.Status != tables.OrderStatusCancelled {
			stats.TotalRevenue += o.TotalAmount
		}
	}
	return stats
}
