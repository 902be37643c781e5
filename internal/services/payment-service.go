package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/dto"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/interfaces"
	"github.com/TajwarSaiyeed/laptop-zone-server/internal/repository"
	"github.com/tealeg/xlsx"
)

// MaxSettlementAttempts bounds how often a failed settlement is replayed from
// the event stream.
const MaxSettlementAttempts = 5

const (
	settlementBackoff    = 2 * time.Second
	maxSettlementBackoff = time.Minute
)

// settlementDelay doubles per attempt: 2s, 4s, 8s, 16s, capped at a minute.
func settlementDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := settlementBackoff << attempt
	if d <= 0 || d > maxSettlementBackoff {
		return maxSettlementBackoff
	}
	return d
}

// settlementError marks a failure after the payment was recorded, when the
// product, order or payment is left part way settled.
type settlementError struct {
	payment *domain.Payment
	step    string
	err     error
}

func (e *settlementError) Error() string {
	return fmt.Sprintf("settle payment %s at %s: %v", e.payment.TransactionID, e.step, e.err)
}

func (e *settlementError) Unwrap() error { return e.err }

type PaymentService interface {
	CreateIntent(ctx context.Context, buyer, productID string) (*dto.PaymentIntentResponse, error)
	Pay(ctx context.Context, buyer string, input dto.PaymentRequest) (*domain.Payment, error)
	ExportPayments(ctx context.Context, w io.Writer) error

	// HandleMessage replays settlements that failed part way.
	HandleMessage(ctx context.Context, message []byte) error
}

type paymentService struct {
	store    *repository.Store
	gateway  interfaces.PaymentGateway
	currency string

	events publisher
	log    *slog.Logger

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error
}

func NewPaymentService(
	store *repository.Store,
	gateway interfaces.PaymentGateway,
	currency string,
	producer interfaces.ProducerHandler,
	logger *slog.Logger,
) PaymentService {
	if currency == "" {
		currency = "usd"
	}
	log := resolveLogger(logger).With("service", "payment")
	return &paymentService{
		store:    store,
		gateway:  gateway,
		currency: currency,
		events:   publisher{producer: producer, log: log},
		log:      log,
		now:      time.Now,
		wait:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CreateIntent prices the intent from the stored resale price, never from
// the request.
func (s *paymentService) CreateIntent(ctx context.Context, buyer, productID string) (*dto.PaymentIntentResponse, error) {
	if s.gateway == nil {
		return nil, fmt.Errorf("%w: payment gateway not configured", domain.ErrUnavailable)
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, fmt.Errorf("%w: productId is required", domain.ErrInvalidInput)
	}

	product, err := s.store.Products.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Sold {
		return nil, domain.ErrAlreadySold
	}
	if err := s.checkOrderOwner(ctx, buyer, product.ID); err != nil {
		return nil, err
	}

	amount := int64(math.Round(product.ResalePrice * 100))
	secret, err := s.gateway.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentIntentResponse{ClientSecret: secret, Amount: amount, Currency: s.currency}, nil
}

func (s *paymentService) Pay(ctx context.Context, buyer string, input dto.PaymentRequest) (*domain.Payment, error) {
	payment, err := s.pay(ctx, buyer, input, 0)
	var settleErr *settlementError
	if errors.As(err, &settleErr) {
		p := settleErr.payment
		s.scheduleReplay(ctx, dto.PaymentEvent{
			ProductID:     p.ProductID,
			TransactionID: p.TransactionID,
			Email:         p.Email,
			Amount:        p.Amount,
		}, settleErr.step, 0, err)
	}
	return payment, err
}

// pay runs the settlement saga keyed by transaction id: record the payment,
// move the product and order to paid, then mark the payment settled. A
// replay with the same transaction id resumes where the last run stopped.
func (s *paymentService) pay(ctx context.Context, buyer string, input dto.PaymentRequest, attempt int) (*domain.Payment, error) {
	productID := strings.TrimSpace(input.ProductID)
	txn := strings.TrimSpace(input.TransactionID)
	if productID == "" || txn == "" {
		return nil, fmt.Errorf("%w: productId and transactionId are required", domain.ErrInvalidInput)
	}

	product, err := s.store.Products.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Sold && (product.TransactionID == nil || *product.TransactionID != txn) {
		return nil, domain.ErrAlreadySold
	}
	if err := s.checkOrderOwner(ctx, buyer, product.ID); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ProductID:     product.ID,
		Email:         buyer,
		TransactionID: txn,
		Amount:        product.ResalePrice,
		Currency:      s.currency,
	}
	err = s.store.Payments.CreatePayment(ctx, payment)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		existing, ferr := s.store.Payments.FindPaymentByTransaction(ctx, txn)
		if ferr != nil {
			return nil, fmt.Errorf("load payment %s: %w", txn, ferr)
		}
		if existing.ProductID != product.ID || !strings.EqualFold(existing.Email, buyer) {
			return nil, fmt.Errorf("%w: transaction %s belongs to another payment", domain.ErrConflict, txn)
		}
		if existing.Settled {
			return existing, nil
		}
		payment = existing
	case err != nil:
		return nil, fmt.Errorf("record payment: %w", err)
	}

	if err := s.settle(ctx, payment, attempt); err != nil {
		return nil, err
	}

	s.log.Info("payment settled", "transaction_id", txn, "product_id", product.ID, "attempt", attempt)
	s.events.publish(ctx, txn, dto.PaymentEvent{
		Event:         dto.EventPaymentCompleted,
		ProductID:     product.ID,
		TransactionID: txn,
		Email:         buyer,
		Amount:        payment.Amount,
	})
	return payment, nil
}

func (s *paymentService) settle(ctx context.Context, payment *domain.Payment, attempt int) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{"product", func() error {
			return s.store.Products.UpdateProduct(ctx, payment.ProductID, domain.ProductPatch{
				Paid:          domain.Bool(true),
				Sold:          domain.Bool(true),
				Advertise:     domain.Bool(false),
				TransactionID: domain.String(payment.TransactionID),
			})
		}},
		{"order", func() error {
			return s.store.Orders.MarkOrderPaid(ctx, payment.ProductID, payment.Email, payment.TransactionID)
		}},
		{"payment", func() error {
			return s.store.Payments.MarkSettled(ctx, payment.TransactionID)
		}},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			s.log.Error("payment settlement failed",
				"transaction_id", payment.TransactionID,
				"product_id", payment.ProductID,
				"step", step.name,
				"attempt", attempt,
				"err", err,
			)
			return &settlementError{payment: payment, step: step.name, err: err}
		}
	}
	payment.Settled = true
	return nil
}

// checkOrderOwner rejects paying for a product someone else has booked.
func (s *paymentService) checkOrderOwner(ctx context.Context, buyer, productID string) error {
	order, err := s.store.Orders.FindOrderByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if !strings.EqualFold(order.Email, buyer) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *paymentService) HandleMessage(ctx context.Context, message []byte) error {
	var envelope dto.EventEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		s.log.Warn("drop undecodable event", "err", err)
		return nil
	}
	if envelope.Event != dto.EventPaymentSettlementFailed {
		return nil
	}

	var event dto.PaymentEvent
	if err := json.Unmarshal(message, &event); err != nil {
		s.log.Warn("drop undecodable settlement event", "err", err)
		return nil
	}

	if !event.RetryAt.IsZero() {
		if d := event.RetryAt.Sub(s.now()); d > 0 {
			if err := s.wait(ctx, d); err != nil {
				return err
			}
		}
	}

	attempt := event.Attempt + 1
	_, err := s.pay(ctx, event.Email, dto.PaymentRequest{
		ProductID:     event.ProductID,
		TransactionID: event.TransactionID,
	}, attempt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		s.log.Warn("settlement replay rejected", "transaction_id", event.TransactionID, "err", err)
		return nil
	default:
		// Any other failure, including one before the settle steps ran,
		// keeps the chain alive.
		step := "replay"
		var settleErr *settlementError
		if errors.As(err, &settleErr) {
			step = settleErr.step
		}
		s.scheduleReplay(ctx, event, step, attempt, err)
		return err
	}
}

// scheduleReplay publishes the settlement for another run after a backoff,
// unless attempt already used the last allowed try.
func (s *paymentService) scheduleReplay(ctx context.Context, event dto.PaymentEvent, step string, attempt int, cause error) {
	if attempt >= MaxSettlementAttempts {
		s.log.Error("payment settlement abandoned",
			"transaction_id", event.TransactionID,
			"attempt", attempt,
			"err", cause,
		)
		return
	}
	event.Event = dto.EventPaymentSettlementFailed
	event.Step = step
	event.Reason = cause.Error()
	event.Attempt = attempt
	event.RetryAt = s.now().Add(settlementDelay(attempt))
	s.events.publish(ctx, event.TransactionID, event)
}

var paymentExportHeaders = []string{
	"Transaction ID", "Product ID", "Buyer Email", "Amount", "Currency", "Settled", "Created At",
}

// ExportPayments writes every payment as one xlsx sheet.
func (s *paymentService) ExportPayments(ctx context.Context, w io.Writer) error {
	payments, err := s.store.Payments.ListPayments(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Payments")
	if err != nil {
		return fmt.Errorf("create payments sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range paymentExportHeaders {
		header.AddCell().SetValue(h)
	}
	for _, p := range payments {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.TransactionID)
		row.AddCell().SetValue(p.ProductID)
		row.AddCell().SetValue(p.Email)
		row.AddCell().SetValue(p.Amount)
		row.AddCell().SetValue(strings.ToUpper(p.Currency))
		row.AddCell().SetValue(p.Settled)
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write payments xlsx: %w", err)
	}
	return nil
}
