package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

const dashboardMonths = 6

// DashboardUseCase calcula los indicadores del tablero a partir del almacén.
type DashboardUseCase struct {
	products   repository.ProductRepository
	deliveries repository.DeliveryRepository
	now        func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(products repository.ProductRepository, deliveries repository.DeliveryRepository) *DashboardUseCase {
	return &DashboardUseCase{products: products, deliveries: deliveries, now: time.Now}
}

// Summary totales, contadores del mes en curso y la serie de los últimos seis meses.
func (uc *DashboardUseCase) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	products, err := uc.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	deliveries, err := uc.deliveries.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return buildSummary(uc.now().UTC(), products, deliveries), nil
}

func buildSummary(now time.Time, products []*entity.Product, deliveries []*entity.Delivery) *dto.DashboardSummary {
	out := &dto.DashboardSummary{TotalProducts: len(products)}
	current := monthStart(now)

	for _, p := range products {
		out.TotalUnits += p.Quantity
		if p.IsLowStock() {
			out.LowStockCount++
		}
		if p.IsOutOfStock() {
			out.OutOfStockCount++
		}
		if monthStart(p.EntryDate).Equal(current) {
			out.ProductsAddedThisMonth++
		}
	}
	for _, d := range deliveries {
		if d.Status == entity.DeliveryStatusPending {
			out.PendingDeliveries++
		}
		if monthStart(d.Date).Equal(current) {
			out.DeliveriesThisMonth++
		}
	}

	out.Monthly = make([]dto.MonthlyPoint, 0, dashboardMonths)
	for i := dashboardMonths - 1; i >= 0; i-- {
		m := current.AddDate(0, -i, 0)
		point := dto.MonthlyPoint{Month: m.Format("2006-01"), TotalProducts: len(products)}
		for _, p := range products {
			if monthStart(p.EntryDate).Equal(m) {
				point.ProductsAdded++
			}
		}
		for _, d := range deliveries {
			if monthStart(d.Date).Equal(m) {
				point.Deliveries++
			}
		}
		out.Monthly = append(out.Monthly, point)
	}
	return out
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
