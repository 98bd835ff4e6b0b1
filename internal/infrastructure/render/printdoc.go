// Package render implements the receipt renderers shared by the
// dispatch channels: a fixed-width document for the thermal printer, a
// compact text body for SMS and push, and an HTML body for email. All
// three consume the same sale snapshot.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/receipt"
	"github.com/shopspring/decimal"
)

// defaultWidth is used when the snapshot carries no printer width.
const defaultWidth = 42

// PrintDocRenderer renders the monospace document sent to the thermal
// printer.
type PrintDocRenderer struct{}

// NewPrintDocRenderer creates a print document renderer.
func NewPrintDocRenderer() *PrintDocRenderer {
	return &PrintDocRenderer{}
}

// Render produces the full fixed-width receipt.
func (r *PrintDocRenderer) Render(s *receipt.SaleSnapshot) (string, error) {
	w := s.ReceiptWidth
	if w <= 0 {
		w = defaultWidth
	}

	var b strings.Builder
	divider := strings.Repeat("-", w)

	writeCentered(&b, w, s.Store.Name)
	if s.Store.Address != "" {
		writeCentered(&b, w, s.Store.Address)
	}
	if s.Store.Phone != "" {
		writeCentered(&b, w, s.Store.Phone)
	}
	b.WriteString(divider + "\n")
	writeColumns(&b, w, s.OrderNumber, s.Date.Format("02 Jan 2006 15:04"))
	b.WriteString(divider + "\n")

	for _, line := range s.Lines {
		b.WriteString(truncate(line.Name, w) + "\n")
		qty := fmt.Sprintf("  %s x %s", line.Quantity.String(), money(s.CurrencySymbol, line.UnitPrice))
		writeColumns(&b, w, qty, money(s.CurrencySymbol, line.Total))
	}

	b.WriteString(divider + "\n")
	writeColumns(&b, w, "Subtotal", money(s.CurrencySymbol, s.Subtotal))
	if s.TaxAmount.GreaterThan(decimal.Zero) {
		writeColumns(&b, w, fmt.Sprintf("Tax (%s%%)", s.TaxRate.String()), money(s.CurrencySymbol, s.TaxAmount))
	}
	if s.Discount.GreaterThan(decimal.Zero) {
		writeColumns(&b, w, "Loyalty discount", "-"+money(s.CurrencySymbol, s.Discount))
	}
	writeColumns(&b, w, "TOTAL", money(s.CurrencySymbol, s.Total))
	if s.HasTender() {
		writeColumns(&b, w, "Tendered", money(s.CurrencySymbol, s.Tendered))
		writeColumns(&b, w, "Change", money(s.CurrencySymbol, s.Change))
	}

	if s.HasLoyalty() {
		b.WriteString(divider + "\n")
		if s.Loyalty.PointsRedeemed > 0 {
			writeColumns(&b, w, "Points redeemed", fmt.Sprintf("%d", s.Loyalty.PointsRedeemed))
		}
		if s.Loyalty.PointsEarned > 0 {
			writeColumns(&b, w, "Points earned", fmt.Sprintf("%d", s.Loyalty.PointsEarned))
		}
		writeColumns(&b, w, "Points balance", fmt.Sprintf("%d", s.Loyalty.BalanceAfter))
	}

	b.WriteString(divider + "\n")
	if s.Store.FooterNote != "" {
		writeCentered(&b, w, s.Store.FooterNote)
	}
	writeCentered(&b, w, "Thank you!")

	return b.String(), nil
}

func money(symbol string, v decimal.Decimal) string {
	return symbol + v.StringFixed(2)
}

// widths are measured in runes so multibyte names keep the columns aligned
func truncate(s string, w int) string {
	if utf8.RuneCountInString(s) <= w {
		return s
	}
	return string([]rune(s)[:w])
}

func writeCentered(b *strings.Builder, w int, s string) {
	s = truncate(s, w)
	pad := (w - utf8.RuneCountInString(s)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(s + "\n")
}

// writeColumns writes left and right aligned to the edges of one line.
func writeColumns(b *strings.Builder, w int, left, right string) {
	gap := w - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
}
