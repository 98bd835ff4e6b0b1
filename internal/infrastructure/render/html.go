package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/receipt"
	"github.com/shopspring/decimal"
)

// HTMLRenderer renders the receipt email body.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer creates an HTML renderer with the built-in template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("receipt").Funcs(template.FuncMap{
		"money": func(symbol string, v decimal.Decimal) string {
			return symbol + v.StringFixed(2)
		},
		"formatDate": func(t time.Time) string {
			return t.Format("02 Jan 2006 15:04")
		},
	}).Parse(receiptEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("render: parse receipt template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

// Render produces the receipt email HTML.
func (r *HTMLRenderer) Render(s *receipt.SaleSnapshot) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("render: execute receipt template: %w", err)
	}
	return buf.String(), nil
}

const receiptEmailTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222; max-width: 480px; margin: 0 auto;">
  <h2 style="text-align: center; margin-bottom: 4px;">{{.Store.Name}}</h2>
  {{if .Store.Address}}<p style="text-align: center; margin: 0;">{{.Store.Address}}</p>{{end}}
  {{if .Store.Phone}}<p style="text-align: center; margin: 0;">{{.Store.Phone}}</p>{{end}}
  <p style="text-align: center; color: #666;">{{.OrderNumber}} &middot; {{formatDate .Date}}</p>
  <table style="width: 100%; border-collapse: collapse;">
    <thead>
      <tr style="border-bottom: 1px solid #ddd;">
        <th style="text-align: left; padding: 6px 0;">Item</th>
        <th style="text-align: right; padding: 6px 0;">Qty</th>
        <th style="text-align: right; padding: 6px 0;">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td style="padding: 4px 0;">{{.Name}}</td>
        <td style="text-align: right;">{{.Quantity}}</td>
        <td style="text-align: right;">{{money $.CurrencySymbol .Total}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <hr style="border: none; border-top: 1px solid #ddd;">
  <table style="width: 100%;">
    <tr><td>Subtotal</td><td style="text-align: right;">{{money .CurrencySymbol .Subtotal}}</td></tr>
    <tr><td>Tax ({{.TaxRate}}%)</td><td style="text-align: right;">{{money .CurrencySymbol .TaxAmount}}</td></tr>
    {{if .Discount.IsPositive}}
    <tr><td>Loyalty discount</td><td style="text-align: right;">-{{money .CurrencySymbol .Discount}}</td></tr>
    {{end}}
    <tr style="font-weight: bold;"><td>Total</td><td style="text-align: right;">{{money .CurrencySymbol .Total}}</td></tr>
    {{if .HasTender}}
    <tr><td>Tendered</td><td style="text-align: right;">{{money .CurrencySymbol .Tendered}}</td></tr>
    <tr><td>Change</td><td style="text-align: right;">{{money .CurrencySymbol .Change}}</td></tr>
    {{end}}
  </table>
  {{if .HasLoyalty}}
  <hr style="border: none; border-top: 1px solid #ddd;">
  <table style="width: 100%;">
    {{if gt .Loyalty.PointsRedeemed 0}}<tr><td>Points redeemed</td><td style="text-align: right;">{{.Loyalty.PointsRedeemed}}</td></tr>{{end}}
    {{if gt .Loyalty.PointsEarned 0}}<tr><td>Points earned</td><td style="text-align: right;">{{.Loyalty.PointsEarned}}</td></tr>{{end}}
    <tr><td>Points balance</td><td style="text-align: right;">{{.Loyalty.BalanceAfter}}</td></tr>
  </table>
  {{end}}
  {{if .Store.FooterNote}}<p style="text-align: center; color: #666;">{{.Store.FooterNote}}</p>{{end}}
  <p style="text-align: center; color: #666;">Thank you!</p>
</body>
</html>`
