package stripepay

import (
	"context"
	"errors"
	"fmt"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/domain"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Client struct {
	api *client.API
}

// New returns a gateway bound to one secret key. A nil *Client is valid and
// reports ErrUnavailable, which is how a server without STRIPE_SECRET_KEY runs.
func New(secretKey string) *Client {
	if secretKey == "" {
		return nil
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Client{api: sc}
}

// CreateIntent creates a card PaymentIntent for amount minor units and returns
// its client secret.
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if c == nil || c.api == nil {
		return "", fmt.Errorf("%w: payment gateway not configured", domain.ErrUnavailable)
	}
	if amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode >= 400 && se.HTTPStatusCode < 500 {
			return "", fmt.Errorf("%w: %s", domain.ErrInvalidInput, se.Msg)
		}
		return "", fmt.Errorf("%w: stripe: %v", domain.ErrUnavailable, err)
	}
	return pi.ClientSecret, nil
}
