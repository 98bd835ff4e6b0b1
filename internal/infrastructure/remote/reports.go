package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// SalesReport is the head-office sales summary for a date range.
type SalesReport struct {
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	OrderCount  int64           `json:"order_count"`
	GrossSales  decimal.Decimal `json:"gross_sales"`
	TaxTotal    decimal.Decimal `json:"tax_total"`
	Discounts   decimal.Decimal `json:"discounts"`
	NetSales    decimal.Decimal `json:"net_sales"`
	TopProducts []ProductSales  `json:"top_products"`
}

// ProductSales is one line of the sales report's product breakdown.
type ProductSales struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// InventoryReport is the head-office stock position snapshot.
type InventoryReport struct {
	GeneratedAt time.Time       `json:"generated_at"`
	StockValue  decimal.Decimal `json:"stock_value"`
	LowStock    []StockLine     `json:"low_stock"`
	OutOfStock  []StockLine     `json:"out_of_stock"`
}

// StockLine is one product's position in the inventory report.
type StockLine struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Stock     decimal.Decimal `json:"stock"`
}

// DashboardStats is the head-office dashboard summary.
type DashboardStats struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayOrders   int64           `json:"today_orders"`
	CustomerCount int64           `json:"customer_count"`
	ProductCount  int64           `json:"product_count"`
}

// FetchSalesReport retrieves the sales summary between from and to.
func (c *Client) FetchSalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	query := url.Values{}
	query.Set("from", from.Format(time.RFC3339))
	query.Set("to", to.Format(time.RFC3339))

	var report SalesReport
	if err := c.get(ctx, "/reports/sales", query, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// FetchInventoryReport retrieves the current stock position report.
func (c *Client) FetchInventoryReport(ctx context.Context) (*InventoryReport, error) {
	var report InventoryReport
	if err := c.get(ctx, "/reports/inventory", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// FetchDashboardStats retrieves the dashboard summary.
func (c *Client) FetchDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.get(ctx, "/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("remote: GET %s: read body: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote: GET %s returned %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("remote: GET %s: decode: %w", path, err)
	}
	return nil
}
