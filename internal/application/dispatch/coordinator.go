package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/inblognet/OmniPOS-sub000/internal/domain/receipt"
	"github.com/inblognet/OmniPOS-sub000/internal/domain/settings"
	"go.uber.org/zap"
)

// Printer delivers a rendered print document to the receipt printer.
type Printer interface {
	Print(ctx context.Context, document string) error
}

// PushGateway delivers a push message.
type PushGateway interface {
	Send(ctx context.Context, cfg settings.PushSettings, to, title, body string) error
}

// EmailGateway delivers a transactional email.
type EmailGateway interface {
	Send(ctx context.Context, cfg settings.EmailSettings, to, subject, htmlBody string) error
}

// SMSGateway delivers a text message through the configured provider.
type SMSGateway interface {
	Send(ctx context.Context, cfg settings.SMSSettings, to, text string) error
}

// Renderers bundles the per-channel receipt renderers. Print gets the
// structured document; push and SMS get the condensed plain text; email
// gets HTML.
type Renderers struct {
	PrintDoc receipt.Renderer
	Text     receipt.Renderer
	HTML     receipt.Renderer
}

// Request names the channels to attempt for one sale. A channel runs only
// when requested here and enabled in settings.
type Request struct {
	Print   bool
	PushTo  string
	EmailTo string
	SMSTo   string
}

// Coordinator attempts receipt delivery across the configured channels.
// Channels execute concurrently and independently: one channel's failure
// never blocks or alters another's result, and no failure ever propagates
// as an error from Dispatch since the sale is already committed.
type Coordinator struct {
	renderers Renderers
	printer   Printer
	push      PushGateway
	email     EmailGateway
	sms       SMSGateway
	logger    *zap.Logger
}

// NewCoordinator creates a dispatch coordinator.
func NewCoordinator(renderers Renderers, printer Printer, push PushGateway, email EmailGateway, sms SMSGateway, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		renderers: renderers,
		printer:   printer,
		push:      push,
		email:     email,
		sms:       sms,
		logger:    logger,
	}
}

// Dispatch runs every requested channel and returns one result per
// attempted channel, keyed by channel id.
func (c *Coordinator) Dispatch(ctx context.Context, snap *receipt.SaleSnapshot, req Request, cfg *settings.StoreSettings) map[receipt.Channel]receipt.DispatchResult {
	type task struct {
		channel receipt.Channel
		run     func(ctx context.Context) error
	}

	tasks := make([]task, 0, 4)
	if req.Print {
		tasks = append(tasks, task{receipt.ChannelPrint, func(ctx context.Context) error {
			return c.dispatchPrint(ctx, snap, cfg)
		}})
	}
	if req.PushTo != "" {
		to := req.PushTo
		tasks = append(tasks, task{receipt.ChannelPush, func(ctx context.Context) error {
			return c.dispatchPush(ctx, snap, to, cfg)
		}})
	}
	if req.EmailTo != "" {
		to := req.EmailTo
		tasks = append(tasks, task{receipt.ChannelEmail, func(ctx context.Context) error {
			return c.dispatchEmail(ctx, snap, to, cfg)
		}})
	}
	if req.SMSTo != "" {
		to := req.SMSTo
		tasks = append(tasks, task{receipt.ChannelSMS, func(ctx context.Context) error {
			return c.dispatchSMS(ctx, snap, to, cfg)
		}})
	}

	results := make(map[receipt.Channel]receipt.DispatchResult, len(tasks))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, tk := range tasks {
		wg.Add(1)
		go func(tk task) {
			defer wg.Done()
			result := receipt.DispatchResult{Channel: tk.channel, Status: receipt.StatusSending}

			err := c.runSafely(ctx, tk.run)
			if err != nil {
				result.Status = receipt.StatusError
				result.Error = err.Error()
				c.logger.Warn("receipt channel failed",
					zap.String("channel", string(tk.channel)),
					zap.String("order", snap.OrderNumber),
					zap.Error(err),
				)
			} else {
				result.Status = receipt.StatusSuccess
				c.logger.Debug("receipt channel delivered",
					zap.String("channel", string(tk.channel)),
					zap.String("order", snap.OrderNumber),
				)
			}

			mu.Lock()
			results[tk.channel] = result
			mu.Unlock()
		}(tk)
	}

	wg.Wait()
	return results
}

// runSafely converts a channel panic into an ordinary per-channel error so
// a misbehaving gateway cannot take down the checkout flow.
func (c *Coordinator) runSafely(ctx context.Context, run func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panicked: %v", r)
		}
	}()
	return run(ctx)
}

func (c *Coordinator) dispatchPrint(ctx context.Context, snap *receipt.SaleSnapshot, cfg *settings.StoreSettings) error {
	if !cfg.Print.Enabled {
		return fmt.Errorf("print channel is disabled")
	}
	doc, err := c.renderers.PrintDoc.Render(snap)
	if err != nil {
		return fmt.Errorf("render print document: %w", err)
	}
	return c.printer.Print(ctx, doc)
}

func (c *Coordinator) dispatchPush(ctx context.Context, snap *receipt.SaleSnapshot, to string, cfg *settings.StoreSettings) error {
	if !cfg.Push.Enabled {
		return fmt.Errorf("push channel is disabled")
	}
	// short-circuit before any network I/O
	if cfg.Push.Endpoint == "" || cfg.Push.Token == "" {
		return fmt.Errorf("push channel is missing endpoint or bearer token")
	}
	body, err := c.renderers.Text.Render(snap)
	if err != nil {
		return fmt.Errorf("render push body: %w", err)
	}
	title := fmt.Sprintf("Receipt %s from %s", snap.OrderNumber, snap.Store.Name)
	return c.push.Send(ctx, cfg.Push, to, title, body)
}

func (c *Coordinator) dispatchEmail(ctx context.Context, snap *receipt.SaleSnapshot, to string, cfg *settings.StoreSettings) error {
	if !cfg.Email.Enabled {
		return fmt.Errorf("email channel is disabled")
	}
	if cfg.Email.APIKey == "" || cfg.Email.FromEmail == "" {
		return fmt.Errorf("email channel is missing API key or sender address")
	}
	html, err := c.renderers.HTML.Render(snap)
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}
	subject := fmt.Sprintf("Your receipt from %s (%s)", snap.Store.Name, snap.OrderNumber)
	return c.email.Send(ctx, cfg.Email, to, subject, html)
}

func (c *Coordinator) dispatchSMS(ctx context.Context, snap *receipt.SaleSnapshot, to string, cfg *settings.StoreSettings) error {
	if !cfg.SMS.Enabled {
		return fmt.Errorf("sms channel is disabled")
	}
	if cfg.SMS.APIKey == "" {
		return fmt.Errorf("sms channel is missing the %s API key", cfg.SMS.Provider)
	}
	text, err := c.renderers.Text.Render(snap)
	if err != nil {
		return fmt.Errorf("render sms body: %w", err)
	}
	return c.sms.Send(ctx, cfg.SMS, to, text)
}
