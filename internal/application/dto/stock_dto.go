package dto

// Filtros y órdenes de la vista de stock.
const (
	StockFilterAll       = "all"
	StockFilterLow       = "low"
	StockFilterOut       = "out"
	StockFilterAvailable = "available"

	StockSortName     = "name"
	StockSortQuantity = "quantity"
	StockSortDate     = "date"
)

// StockQuery parámetros de la vista de stock.
type StockQuery struct {
	Search string `query:"search"`
	Filter string `query:"filter"`
	Sort   string `query:"sort"`
}

// StockView resultado de la consulta de stock.
type StockView struct {
	Products []ProductRecord `json:"products"`
	Total    int             `json:"total"`
}
