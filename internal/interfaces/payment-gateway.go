package interfaces

import "context"

// PaymentGateway mints a client secret the browser uses to confirm a card
// payment. Confirmation itself never reaches this server.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error)
}
