package dto

// MonthlyPoint punto de la serie mensual del tablero.
type MonthlyPoint struct {
	Month         string `json:"month"` // YYYY-MM
	Deliveries    int    `json:"deliveries"`
	ProductsAdded int    `json:"productsAdded"`
	TotalProducts int    `json:"totalProducts"`
}

// DashboardSummary indicadores del tablero principal.
type DashboardSummary struct {
	TotalProducts          int            `json:"totalProducts"`
	TotalUnits             int            `json:"totalUnits"`
	LowStockCount          int            `json:"lowStockCount"`
	OutOfStockCount        int            `json:"outOfStockCount"`
	PendingDeliveries      int            `json:"pendingDeliveries"`
	DeliveriesThisMonth    int            `json:"deliveriesThisMonth"`
	ProductsAddedThisMonth int            `json:"productsAddedThisMonth"`
	Monthly                []MonthlyPoint `json:"monthly"`
}
