package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/builder"
	"github.com/Garciabraganca/COSTABURGUER-sub001/database"
	"github.com/Garciabraganca/COSTABURGUER-sub001/events"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"gorm.io/gorm"
)

// BurgerRequest is one burger as chosen in the builder: an option per step.
type BurgerRequest struct {
	Selections map[builder.StepID]string `json:"selections"`
}

type CheckoutRequest struct {
	CustomerName  string          `json:"customer_name"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	DeliveryType  string          `json:"delivery_type"`
	Notes         string          `json:"notes"`
	PaymentMethod string          `json:"payment_method"`
	Burgers       []BurgerRequest `json:"burgers"`
	Extras        []string        `json:"extras"`
	// ExpectedTotal is the total shown to the customer, in centavos. When set,
	// checkout fails if the server-side price differs.
	ExpectedTotal *int64 `json:"expected_total,omitempty"`
}

// orderTransitions lists the statuses each order status may move to.
var orderTransitions = map[string][]string{
	models.OrderPending:    {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing:  {models.OrderReady, models.OrderCancelled},
	models.OrderReady:      {models.OrderInDelivery, models.OrderDelivered, models.OrderCancelled},
	models.OrderInDelivery: {models.OrderDelivered, models.OrderCancelled},
}

type OrderService struct {
	db        *gorm.DB
	publisher events.Publisher
	now       func() time.Time
}

func NewOrderService(db *gorm.DB, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderService{db: db, publisher: publisher, now: time.Now}
}

// Catalog returns the catalog customers build from.
func (s *OrderService) Catalog(ctx context.Context) (builder.Catalog, error) {
	return database.LoadCatalog(ctx, s.db)
}

// Quote prices a request against the current catalog without persisting it.
func (s *OrderService) Quote(ctx context.Context, req CheckoutRequest) (*builder.Cart, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return buildCart(catalog, req)
}

// buildCart replays every burger through the wizard, so the server applies the
// same rules as the builder UI.
func buildCart(catalog builder.Catalog, req CheckoutRequest) (*builder.Cart, error) {
	if len(req.Burgers) == 0 {
		return nil, utils.NewError(utils.KindValidation, "order has no burgers")
	}

	cart := builder.NewCart(catalog)
	for i, b := range req.Burgers {
		burger, err := composeBurger(catalog, b.Selections)
		if err != nil {
			return nil, utils.Wrap(utils.KindValidation, err, fmt.Sprintf("burger %d", i+1))
		}
		cart.AddBurger(*burger)
	}
	for _, id := range req.Extras {
		if cart.HasExtra(id) {
			return nil, utils.NewError(utils.KindValidation, "extra %s listed more than once", id)
		}
		if _, err := cart.ToggleExtra(id); err != nil {
			return nil, utils.Wrap(utils.KindValidation, err, "extras")
		}
	}
	return cart, nil
}

func composeBurger(catalog builder.Catalog, sel map[builder.StepID]string) (*builder.ComposedBurger, error) {
	for stepID := range sel {
		if _, _, ok := catalog.Step(stepID); !ok {
			return nil, fmt.Errorf("%w: %s", builder.ErrUnknownStep, stepID)
		}
	}

	w := builder.NewWizard(catalog)
	for _, step := range catalog.Steps {
		if optionID, ok := sel[step.ID]; ok {
			if err := w.SelectOption(step.ID, optionID); err != nil {
				return nil, err
			}
		}
		burger, err := w.Advance()
		if err != nil {
			return nil, err
		}
		if burger != nil {
			return burger, nil
		}
	}
	return nil, builder.ErrIncompleteStep
}

func (req *CheckoutRequest) normalize() error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	req.DeliveryType = strings.ToUpper(strings.TrimSpace(req.DeliveryType))
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))

	if req.DeliveryType == "" {
		req.DeliveryType = models.DeliveryTypeDelivery
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = models.PaymentCash
	}

	switch {
	case req.CustomerName == "":
		return utils.NewError(utils.KindValidation, "customer name is required")
	case req.Phone == "":
		return utils.NewError(utils.KindValidation, "phone is required")
	case req.DeliveryType != models.DeliveryTypeDelivery && req.DeliveryType != models.DeliveryTypePickup:
		return utils.NewError(utils.KindValidation, "invalid delivery type %q", req.DeliveryType)
	case req.DeliveryType == models.DeliveryTypeDelivery && req.Address == "":
		return utils.NewError(utils.KindValidation, "address is required for delivery")
	case !models.ValidPaymentMethod(req.PaymentMethod):
		return utils.NewError(utils.KindValidation, "invalid payment method %q", req.PaymentMethod)
	}
	return nil
}

// Checkout prices the request on the server and stores the order with its
// burgers and extras.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}
	cart, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	if req.ExpectedTotal != nil && *req.ExpectedTotal != int64(cart.Total()) {
		return nil, utils.NewError(utils.KindConflict, "prices changed: total is %s", cart.Total())
	}

	order := models.Order{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address,
		DeliveryType:  req.DeliveryType,
		Notes:         strings.TrimSpace(req.Notes),
		Status:        models.OrderPending,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
		Total:         int64(cart.Total()),
	}
	for i, b := range cart.Burgers() {
		order.Items = append(order.Items, models.OrderItem{
			Position: i,
			Layers:   b.Layers,
			Subtotal: int64(b.Subtotal),
		})
	}
	for _, e := range cart.Extras() {
		order.Extras = append(order.Extras, models.OrderExtra{
			ExtraSlug: e.ID,
			Name:      e.Name,
			Price:     int64(e.Price),
		})
	}

	// Create saves the associations in the same transaction
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d created: %d burger(s), total %s", order.ID, len(order.Items), cart.Total())
	events.Emit(ctx, s.publisher, events.New(events.OrderCreated, order.ID, order))
	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Extras").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, status string) ([]models.Order, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	query := s.db.WithContext(ctx).Preload("Items").Preload("Extras").Order("created_at desc, id desc")
	if status != "" {
		status = strings.ToUpper(status)
		if !models.ValidOrderStatus(status) {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", status)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// KitchenQueue returns the orders the kitchen still has to work on, oldest first.
func (s *OrderService) KitchenQueue(ctx context.Context) ([]models.Order, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Extras").
		Where("status IN ?", []string{models.OrderPending, models.OrderPreparing, models.OrderReady}).
		Order("created_at asc, id asc").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus moves an order along the kitchen flow. Repeating the current
// status is a no-op.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	next := strings.ToUpper(strings.TrimSpace(status))
	if !models.ValidOrderStatus(next) {
		return nil, ErrInvalidStatus
	}

	var order models.Order
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == next {
			return nil
		}
		if !canTransition(&order, next) {
			return utils.Wrap(utils.KindConflict, ErrInvalidTransition, fmt.Sprintf("%s -> %s", order.Status, next))
		}
		if err := tx.Model(&order).Update("status", next).Error; err != nil {
			return err
		}
		order.Status = next
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		utils.InfoLogger.Printf("Order %d is now %s", order.ID, order.Status)
		events.Emit(ctx, s.publisher, events.New(events.OrderStatusChanged, order.ID, map[string]string{"status": order.Status}))
	}
	return &order, nil
}

func canTransition(order *models.Order, next string) bool {
	// pickup orders never go out for delivery; delivery orders are only
	// delivered by a rider
	if order.Status == models.OrderReady {
		if next == models.OrderInDelivery && order.DeliveryType == models.DeliveryTypePickup {
			return false
		}
		if next == models.OrderDelivered && order.DeliveryType != models.DeliveryTypePickup {
			return false
		}
	}
	for _, allowed := range orderTransitions[order.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

type DashboardStats struct {
	TotalOrders      int64            `json:"total_orders"`
	TodayOrders      int64            `json:"today_orders"`
	TodayRevenue     int64            `json:"today_revenue"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	ActiveDeliveries int64            `json:"active_deliveries"`
	PendingPayments  int64            `json:"pending_payments"`
}

// Stats summarizes orders for the staff dashboard. Revenue excludes cancelled orders.
func (s *OrderService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	db := s.db.WithContext(ctx)
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := DashboardStats{OrdersByStatus: make(map[string]int64)}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("created_at >= ?", startOfDay).Count(&stats.TodayOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND status <> ?", startOfDay, models.OrderCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.TodayRevenue).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.OrdersByStatus[r.Status] = r.Count
	}

	if err := db.Model(&models.Delivery{}).Where("status <> ?", models.DeliveryDelivered).Count(&stats.ActiveDeliveries).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Payment{}).Where("status = ?", models.PaymentStatusPending).Count(&stats.PendingPayments).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
