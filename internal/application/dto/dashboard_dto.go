package dto

// ProductMetrics métricas del stock actual. Los montos van formateados según la configuración regional.
type ProductMetrics struct {
	TotalProducts  int64  `json:"total_products"`
	TotalCostPrice string `json:"total_cost_price"`
	TotalSellPrice string `json:"total_sell_price"`
	TotalProfit    string `json:"total_profit"`
}

// SalesMetrics métricas acumuladas de salidas.
type SalesMetrics struct {
	TotalSales       int64  `json:"total_sales"`
	TotalProductSold int64  `json:"total_product_sold"`
	TotalCostPrice   string `json:"total_cost_price"`
	TotalSellPrice   string `json:"total_sell_price"`
	TotalProfit      string `json:"total_profit"`
}

// DailySeries serie diaria alineada: Dates[i] ↔ Values[i], de la más antigua a hoy.
type DailySeries struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// DashboardResponse todas las métricas del dashboard.
type DashboardResponse struct {
	ProductMetrics      ProductMetrics   `json:"product_metrics"`
	SalesMetrics        SalesMetrics     `json:"sales_metrics"`
	DailySales          DailySeries      `json:"daily_sales_data"`
	DailySalesQuantity  DailySeries      `json:"daily_sales_quantity_data"`
	ProductsByCategory  map[string]int64 `json:"products_by_category"`
	ProductsByBrand     map[string]int64 `json:"products_by_brand"`
}
