package checkout

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/inblognet/OmniPOS-sub000/internal/application/dispatch"
	"github.com/inblognet/OmniPOS-sub000/internal/application/inventory"
	appsync "github.com/inblognet/OmniPOS-sub000/internal/application/sync"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/catalog"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/loyalty"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/partner"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/receipt"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/shared"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LineInput is one cart line at checkout.
type LineInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// Input describes one checkout.
type Input struct {
	Lines        []LineInput
	CustomerID   *uuid.UUID
	RedeemPoints bool
	Tendered     decimal.Decimal
	Receipts     dispatch.Request
}

// Result is the outcome of a completed sale. DispatchResults may contain
// failed channels; the order is committed regardless.
type Result struct {
	Order           *trade.SalesOrder
	Snapshot        *receipt.SaleSnapshot
	DispatchResults map[receipt.Channel]receipt.DispatchResult
}

// Service implements the checkout use case: stock validation, loyalty
// settlement, atomic persistence and best-effort receipt dispatch.
type Service struct {
	products    catalog.Repository
	customers   partner.Repository
	orders      trade.Repository
	settings    settings.Repository
	replay      *appsync.ReplayService
	coordinator *dispatch.Coordinator
	online      inventory.OnlineChecker
	tx          inventory.TransactionScope
	logger      *zap.Logger
}

// NewService creates a checkout service.
func NewService(
	products catalog.Repository,
	customers partner.Repository,
	orders trade.Repository,
	settingsRepo settings.Repository,
	replay *appsync.ReplayService,
	coordinator *dispatch.Coordinator,
	online inventory.OnlineChecker,
	tx inventory.TransactionScope,
	logger *zap.Logger,
) *Service {
	return &Service{
		products:    products,
		customers:   customers,
		orders:      orders,
		settings:    settingsRepo,
		replay:      replay,
		coordinator: coordinator,
		online:      online,
		tx:          tx,
		logger:      logger,
	}
}

// CompleteSale validates the cart, settles loyalty, persists the order,
// customer and stock levels in one transaction, queues the order for
// remote replay while offline, and dispatches receipts. Receipt failures
// never roll the order back.
func (s *Service) CompleteSale(ctx context.Context, in Input) (*Result, error) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]*catalog.Product, len(in.Lines))
	lines := make([]trade.OrderLine, len(in.Lines))
	for i, li := range in.Lines {
		p, err := s.products.FindByID(ctx, li.ProductID)
		if err != nil {
			return nil, err
		}
		if li.Quantity.GreaterThan(p.Stock) {
			return nil, shared.ErrInsufficientStock
		}
		products[i] = p
		lines[i] = trade.OrderLine{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  li.Quantity,
			UnitPrice: p.Price,
		}
	}

	var customer *partner.Customer
	if in.CustomerID != nil {
		customer, err = s.customers.FindByID(ctx, *in.CustomerID)
		if err != nil {
			return nil, err
		}
	}

	// redemption is computed against the taxed total before any discount
	redemption := loyalty.Redemption{Value: decimal.Zero}
	if customer != nil && in.RedeemPoints {
		redemption = loyalty.ComputeRedemption(
			customer.Loyalty.Balance,
			cfg.Loyalty.RedemptionRate,
			taxedTotal(lines, cfg.TaxRate),
		)
	}

	order, err := trade.NewSalesOrder(lines, cfg.TaxRate, redemption.Value)
	if err != nil {
		return nil, err
	}
	if err := order.RecordPayment(in.Tendered); err != nil {
		return nil, err
	}

	var balanceAfter int64
	if customer != nil {
		earned := loyalty.ComputeEarn(order.Total, cfg.Loyalty.EarnThreshold, cfg.Loyalty.EarnRate)
		if err := customer.SettleLoyalty(redemption.Points, earned); err != nil {
			return nil, err
		}
		order.AttachLoyalty(customer.ID, earned, redemption.Points)
		balanceAfter = customer.Loyalty.Balance
	}

	err = s.tx.Execute(ctx, func(ctx context.Context) error {
		for i, p := range products {
			if err := p.Sell(in.Lines[i].Quantity); err != nil {
				return err
			}
			if err := s.products.Save(ctx, p); err != nil {
				return err
			}
		}
		if customer != nil {
			if err := s.customers.Save(ctx, customer); err != nil {
				return err
			}
		}
		return s.orders.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale completed",
		zap.String("order", order.OrderNumber),
		zap.String("total", order.Total.String()),
		zap.Int("lines", len(order.Lines)),
	)

	if !s.online.IsOnline() {
		if body, mErr := json.Marshal(orderPayload(order)); mErr != nil {
			s.logger.Error("failed to encode order for replay",
				zap.String("order", order.OrderNumber), zap.Error(mErr))
		} else if _, qErr := s.replay.Enqueue(ctx, "POST", "/orders", body); qErr != nil {
			s.logger.Error("failed to queue order for replay", zap.Error(qErr))
		}
	}

	snap := order.Snapshot(receipt.StoreIdentity{
		Name:       cfg.StoreName,
		Address:    cfg.StoreAddress,
		Phone:      cfg.StorePhone,
		FooterNote: cfg.FooterNote,
	}, cfg.CurrencySymbol, cfg.Print.Width, balanceAfter)
	if customer != nil {
		snap.CustomerName = customer.Name
		snap.CustomerPhone = customer.Phone
		snap.CustomerEmail = customer.Email
	}

	results := s.coordinator.Dispatch(ctx, snap, in.Receipts, cfg)

	return &Result{Order: order, Snapshot: snap, DispatchResults: results}, nil
}

// taxedTotal computes subtotal plus tax for the redemption clamp, before
// the order itself exists.
func taxedTotal(lines []trade.OrderLine, taxRate decimal.Decimal) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(l.Quantity))
	}
	tax := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	return subtotal.Add(tax)
}

// orderPayload is the wire shape queued for remote replay.
func orderPayload(o *trade.SalesOrder) map[string]any {
	lines := make([]map[string]any, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = map[string]any{
			"productId": l.ProductID,
			"name":      l.Name,
			"quantity":  l.Quantity,
			"unitPrice": l.UnitPrice,
			"total":     l.Total,
		}
	}
	return map[string]any{
		"orderNumber":     o.OrderNumber,
		"customerId":      o.CustomerID,
		"lines":           lines,
		"subtotal":        o.Subtotal,
		"taxAmount":       o.TaxAmount,
		"loyaltyDiscount": o.LoyaltyDiscount,
		"total":           o.Total,
		"pointsEarned":    o.PointsEarned,
		"pointsRedeemed":  o.PointsRedeemed,
		"createdAt":       o.CreatedAt,
	}
}
