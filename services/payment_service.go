package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/events"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"gorm.io/gorm"
)

// DefaultPaymentExpiry is how long a payment page stays valid.
const DefaultPaymentExpiry = time.Hour

// PaymentStatusView is what the checkout page polls.
type PaymentStatusView struct {
	OrderID       uint   `json:"order_id"`
	OrderStatus   string `json:"order_status"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	Reference     string `json:"reference,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
}

type PaymentService struct {
	db        *gorm.DB
	provider  PaymentProvider
	publisher events.Publisher
	expiry    time.Duration
	now       func() time.Time
}

func NewPaymentService(db *gorm.DB, provider PaymentProvider, publisher events.Publisher, expiry time.Duration) *PaymentService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if expiry <= 0 {
		expiry = DefaultPaymentExpiry
	}
	return &PaymentService{db: db, provider: provider, publisher: publisher, expiry: expiry, now: time.Now}
}

func (s *PaymentService) Enabled() bool {
	return s.provider != nil && s.provider.Enabled()
}

// StartCheckout returns the payment page for an online order, creating one
// when there is no valid pending page.
func (s *PaymentService) StartCheckout(ctx context.Context, orderID uint) (*models.Payment, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	if !s.Enabled() {
		return nil, ErrPaymentDisabled
	}
	db := s.db.WithContext(ctx)

	order, err := s.findOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	switch {
	case order.PaymentMethod != models.PaymentOnline:
		return nil, utils.NewError(utils.KindValidation, "order %d is not paid online", order.ID)
	case order.PaymentStatus == models.PaymentStatusSuccess:
		return nil, utils.NewError(utils.KindConflict, "order %d is already paid", order.ID)
	case order.Terminal():
		return nil, utils.NewError(utils.KindConflict, "order %d is %s", order.ID, order.Status)
	}

	now := s.now()
	var existing models.Payment
	err = db.Where("order_id = ? AND status = ?", order.ID, models.PaymentStatusPending).
		Order("id desc").First(&existing).Error
	if err == nil && existing.RedirectURL != "" && (existing.ExpiresAt == nil || existing.ExpiresAt.After(now)) {
		return &existing, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var attempts int64
	if err := db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&attempts).Error; err != nil {
		return nil, err
	}
	reference := order.PaymentReference(int(attempts) + 1)

	pref, err := s.provider.CreatePreference(ctx, order, reference)
	if err != nil {
		return nil, utils.Wrap(utils.KindUnavailable, err, "payment provider unavailable")
	}

	expiresAt := now.Add(s.expiry)
	payment := models.Payment{
		OrderID:     order.ID,
		Provider:    s.provider.Name(),
		Reference:   pref.Reference,
		Amount:      order.Total,
		Status:      models.PaymentStatusPending,
		Token:       pref.Token,
		RedirectURL: pref.RedirectURL,
		ExpiresAt:   &expiresAt,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(order).Updates(map[string]interface{}{
			"payment_ref":    payment.Reference,
			"payment_url":    payment.RedirectURL,
			"payment_status": models.PaymentStatusPending,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Payment %s created for order %d", payment.Reference, order.ID)
	events.Emit(ctx, s.publisher, events.New(events.PaymentUpdated, order.ID, payment))
	return &payment, nil
}

// RefreshStatus reports the payment status of an order, asking the provider
// first when the latest payment is still pending.
func (s *PaymentService) RefreshStatus(ctx context.Context, orderID uint) (*PaymentStatusView, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	db := s.db.WithContext(ctx)

	order, err := s.findOrder(db, orderID)
	if err != nil {
		return nil, err
	}

	var payment models.Payment
	err = db.Where("order_id = ?", order.ID).Order("id desc").First(&payment).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return statusView(order, nil), nil
	case err != nil:
		return nil, err
	}

	if payment.Status == models.PaymentStatusPending && s.Enabled() {
		status, err := s.provider.LookupStatus(ctx, payment.Reference)
		if err != nil {
			// keep answering with the stored status
			utils.ErrorLogger.WithError(err).Warnf("lookup payment %s", payment.Reference)
		} else if err := s.applyStatus(ctx, &payment, status); err != nil {
			return nil, err
		}
		if order, err = s.findOrder(db, orderID); err != nil {
			return nil, err
		}
	}
	return statusView(order, &payment), nil
}

// HandleNotification applies a signed status callback from the provider.
func (s *PaymentService) HandleNotification(ctx context.Context, n Notification) error {
	if s.db == nil {
		return utils.ErrServiceUnavailable
	}
	if !s.Enabled() {
		return ErrPaymentDisabled
	}
	status, err := s.provider.VerifyNotification(n)
	if err != nil {
		return err
	}

	var payment models.Payment
	if err := s.db.WithContext(ctx).Where("reference = ?", n.OrderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}

	gross, err := strconv.ParseFloat(n.GrossAmount, 64)
	if err != nil || int64(gross) != GrossAmount(payment.Amount) {
		return utils.NewError(utils.KindValidation, "gross amount %q does not match payment %s", n.GrossAmount, payment.Reference)
	}
	return s.applyStatus(ctx, &payment, status)
}

// applyStatus records a provider status on the payment and its order. A
// successful payment is final.
func (s *PaymentService) applyStatus(ctx context.Context, payment *models.Payment, status string) error {
	if payment.Status == status || payment.Status == models.PaymentStatusSuccess {
		return nil
	}

	now := s.now()
	cancelled := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if status == models.PaymentStatusSuccess {
			updates["paid_at"] = now
			payment.PaidAt = &now
		}
		if err := tx.Model(payment).Updates(updates).Error; err != nil {
			return err
		}
		payment.Status = status

		orderUpdates := map[string]interface{}{"payment_status": status}
		if status == models.PaymentStatusExpired {
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", payment.OrderID, models.OrderPending).
				Update("status", models.OrderCancelled)
			if res.Error != nil {
				return res.Error
			}
			cancelled = res.RowsAffected > 0
		}
		return tx.Model(&models.Order{}).Where("id = ?", payment.OrderID).Updates(orderUpdates).Error
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("Payment %s is now %s", payment.Reference, status)
	events.Emit(ctx, s.publisher, events.New(events.PaymentUpdated, payment.OrderID, payment))
	if cancelled {
		events.Emit(ctx, s.publisher, events.New(events.OrderStatusChanged, payment.OrderID,
			map[string]string{"status": models.OrderCancelled}))
	}
	return nil
}

// reconcile brings one pending payment up to date: the provider status wins,
// and a payment still pending after its expiry is expired.
func (s *PaymentService) reconcile(ctx context.Context, payment *models.Payment) (string, error) {
	status := payment.Status
	if s.Enabled() {
		looked, err := s.provider.LookupStatus(ctx, payment.Reference)
		if err != nil {
			utils.ErrorLogger.WithError(err).Warnf("lookup payment %s", payment.Reference)
		} else {
			status = looked
		}
	}
	if status == models.PaymentStatusPending && payment.ExpiresAt != nil && s.now().After(*payment.ExpiresAt) {
		status = models.PaymentStatusExpired
	}
	if err := s.applyStatus(ctx, payment, status); err != nil {
		return "", err
	}
	return status, nil
}

func (s *PaymentService) pendingPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Where("status = ?", models.PaymentStatusPending).
		Order("id asc").
		Find(&payments).Error
	return payments, err
}

func (s *PaymentService) findOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func statusView(order *models.Order, payment *models.Payment) *PaymentStatusView {
	v := &PaymentStatusView{
		OrderID:       order.ID,
		OrderStatus:   order.Status,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
	}
	if payment != nil {
		v.Reference = payment.Reference
		v.RedirectURL = payment.RedirectURL
	}
	return v
}
