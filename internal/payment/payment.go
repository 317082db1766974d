// Package payment wraps the card gateway behind a small interface.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/braintree-go/braintree-go"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/config"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
)

var ErrNotConfigured = errors.New("payment gateway is not configured")

type Gateway interface {
	ClientToken(ctx context.Context) (string, error)
	// Sale charges amount against the nonce and submits it for settlement.
	Sale(ctx context.Context, nonce string, amount float64) (*models.Payment, error)
}

// ToCents rounds a currency amount to whole cents.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type Braintree struct {
	bt *braintree.Braintree
}

func NewBraintree(cfg config.Braintree) (*Braintree, error) {
	var env braintree.Environment
	switch strings.ToLower(cfg.Environment) {
	case "", "sandbox":
		env = braintree.Sandbox
	case "production":
		env = braintree.Production
	default:
		return nil, fmt.Errorf("unknown braintree environment %q", cfg.Environment)
	}
	return &Braintree{bt: braintree.New(env, cfg.MerchantID, cfg.PublicKey, cfg.PrivateKey)}, nil
}

func (b *Braintree) ClientToken(ctx context.Context) (string, error) {
	return b.bt.ClientToken().Generate(ctx)
}

func (b *Braintree) Sale(ctx context.Context, nonce string, amount float64) (*models.Payment, error) {
	tx, err := b.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(ToCents(amount), 2),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		return nil, err
	}
	return &models.Payment{
		TransactionID: tx.Id,
		Status:        string(tx.Status),
		Amount:        amount,
		Success:       true,
	}, nil
}

// Unconfigured fails every call; it stands in when no credentials are set.
type Unconfigured struct{}

func (Unconfigured) ClientToken(context.Context) (string, error) { return "", ErrNotConfigured }

func (Unconfigured) Sale(context.Context, string, float64) (*models.Payment, error) {
	return nil, ErrNotConfigured
}
