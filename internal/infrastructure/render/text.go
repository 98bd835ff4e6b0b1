package render

import (
	"fmt"
	"strings"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/receipt"
)

// TextRenderer renders the compact receipt summary used as the SMS and
// push notification body. SMS segments are expensive, so this stays to a
// few lines.
type TextRenderer struct{}

// NewTextRenderer creates a text renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render produces the short receipt summary.
func (r *TextRenderer) Render(s *receipt.SaleSnapshot) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s receipt %s: %d item(s), total %s%s.",
		s.Store.Name, s.OrderNumber, len(s.Lines), s.CurrencySymbol, s.Total.StringFixed(2))

	if s.HasLoyalty() {
		if s.Loyalty.PointsRedeemed > 0 {
			fmt.Fprintf(&b, " Redeemed %d pts.", s.Loyalty.PointsRedeemed)
		}
		if s.Loyalty.PointsEarned > 0 {
			fmt.Fprintf(&b, " Earned %d pts.", s.Loyalty.PointsEarned)
		}
		fmt.Fprintf(&b, " Balance %d pts.", s.Loyalty.BalanceAfter)
	}

	if s.Store.FooterNote != "" {
		b.WriteString(" " + s.Store.FooterNote)
	}

	return b.String(), nil
}
