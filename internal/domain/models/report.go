package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport represents the aggregated daily sales stored in MongoDB.
type DailyReport struct {
	Date            time.Time                 `bson:"date" json:"date"`
	Transactions    int                       `bson:"transactions" json:"transactions"`
	ItemsSold       int                       `bson:"items_sold" json:"items_sold"`
	Revenue         float64                   `bson:"revenue" json:"revenue"`
	Tax             float64                   `bson:"tax" json:"tax"`
	CostOfGoods     float64                   `bson:"cost_of_goods" json:"cost_of_goods"`
	GrossProfit     float64                   `bson:"gross_profit" json:"gross_profit"`
	ByPaymentMethod map[PaymentMethod]float64 `bson:"by_payment_method" json:"by_payment_method"`
	LowStockCount   int                       `bson:"low_stock_count" json:"low_stock_count"`
	CreatedAt       time.Time                 `bson:"created_at" json:"created_at"`
}

// SalesSummary aggregates a reporting period.
type SalesSummary struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Revenue       decimal.Decimal `json:"revenue"`
	Tax           decimal.Decimal `json:"tax"`
	Transactions  int             `json:"transactions"`
	ItemsSold     int             `json:"items_sold"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
	RevenueChange float64         `json:"revenue_change_pct"`
}

// PaymentMethodSales is the revenue settled through one payment method.
type PaymentMethodSales struct {
	Method       PaymentMethod   `json:"payment_method"`
	Transactions int             `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailySales is one day bucket of a sales chart.
type DailySales struct {
	Date         string          `json:"date"`
	Transactions int             `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ProductPerformance captures how a product sold within a period.
type ProductPerformance struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
}
