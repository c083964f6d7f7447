package services

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/Garciabraganca/COSTABURGUER-sub001/config"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// Preference is a hosted payment page created for one order.
type Preference struct {
	Reference   string `json:"reference"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Notification is the asynchronous status callback sent by the provider.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

// PaymentProvider is the payment gateway seen by the order flow.
type PaymentProvider interface {
	Name() string
	Enabled() bool
	CreatePreference(ctx context.Context, order *models.Order, reference string) (*Preference, error)
	// LookupStatus returns one of the models.PaymentStatus values.
	LookupStatus(ctx context.Context, reference string) (string, error)
	// VerifyNotification checks the signature and returns the mapped status.
	VerifyNotification(n Notification) (string, error)
}

// MidtransProvider talks to Midtrans Snap for payment pages and to the Core
// API for status checks.
type MidtransProvider struct {
	cfg  config.MidtransConfig
	snap snap.Client
	core coreapi.Client
}

func NewMidtransProvider(cfg config.MidtransConfig) *MidtransProvider {
	env := midtrans.Sandbox
	if cfg.IsProduction {
		env = midtrans.Production
	}
	p := &MidtransProvider{cfg: cfg}
	if cfg.Enabled() {
		p.snap.New(cfg.ServerKey, env)
		p.core.New(cfg.ServerKey, env)
	}
	return p
}

func (p *MidtransProvider) Name() string { return "midtrans" }

func (p *MidtransProvider) Enabled() bool {
	return p.cfg.Enabled()
}

func (p *MidtransProvider) CreatePreference(_ context.Context, order *models.Order, reference string) (*Preference, error) {
	if !p.Enabled() {
		return nil, ErrPaymentDisabled
	}
	gross := GrossAmount(order.Total)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  reference,
			GrossAmt: gross,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    strconv.FormatUint(uint64(order.ID), 10),
			Name:  fmt.Sprintf("Pedido #%d", order.ID),
			Price: gross,
			Qty:   1,
		}},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.CustomerName,
			Phone: order.Phone,
		},
	}

	resp, merr := p.snap.CreateTransaction(req)
	if merr != nil {
		return nil, fmt.Errorf("midtrans create transaction: %s", merr.Message)
	}
	utils.InfoLogger.Printf("Midtrans transaction created for %s", reference)
	return &Preference{Reference: reference, Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

func (p *MidtransProvider) LookupStatus(_ context.Context, reference string) (string, error) {
	if !p.Enabled() {
		return "", ErrPaymentDisabled
	}
	resp, merr := p.core.CheckTransaction(reference)
	if merr != nil {
		return "", fmt.Errorf("midtrans check transaction %s: %s", reference, merr.Message)
	}
	return MapTransactionStatus(resp.TransactionStatus), nil
}

func (p *MidtransProvider) VerifyNotification(n Notification) (string, error) {
	if !p.Enabled() {
		return "", ErrPaymentDisabled
	}
	if !ValidateSignature(p.cfg.ServerKey, n.OrderID, n.StatusCode, n.GrossAmount, n.SignatureKey) {
		return "", ErrInvalidSignature
	}
	return MapTransactionStatus(n.TransactionStatus), nil
}

// ValidateSignature checks a Midtrans notification signature:
// SHA-512 over order_id + status_code + gross_amount + server key.
func ValidateSignature(serverKey, orderID, statusCode, grossAmount, signature string) bool {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// MapTransactionStatus maps a Midtrans transaction status to a payment status.
func MapTransactionStatus(status string) string {
	switch status {
	case "capture", "settlement":
		return models.PaymentStatusSuccess
	case "pending", "authorize":
		return models.PaymentStatusPending
	case "expire":
		return models.PaymentStatusExpired
	case "deny", "cancel", "failure":
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPending
	}
}

// GrossAmount converts centavos to the whole units the gateway accepts,
// rounding half up.
func GrossAmount(cents int64) int64 {
	return (cents + 50) / 100
}
