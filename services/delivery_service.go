package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/events"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackingSampleLimit is the number of recent samples returned to the tracking page.
const TrackingSampleLimit = 20

// LocationInput is one position report from the rider's device.
type LocationInput struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
}

func (in LocationInput) valid() bool {
	if math.IsNaN(in.Latitude) || math.IsInf(in.Latitude, 0) ||
		math.IsNaN(in.Longitude) || math.IsInf(in.Longitude, 0) {
		return false
	}
	return in.Latitude >= -90 && in.Latitude <= 90 &&
		in.Longitude >= -180 && in.Longitude <= 180
}

// TrackingOrder is the part of the order shown on the tracking page.
type TrackingOrder struct {
	ID           uint   `json:"id"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	DeliveryType string `json:"delivery_type"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

type TrackingView struct {
	Delivery models.Delivery         `json:"delivery"`
	Samples  []models.LocationSample `json:"samples"`
	Order    TrackingOrder           `json:"order"`
}

// DeliveryService owns the delivery state machine and location ingestion.
type DeliveryService struct {
	db        *gorm.DB
	limiter   LocationLimiter
	publisher events.Publisher
	now       func() time.Time
}

func NewDeliveryService(db *gorm.DB, limiter LocationLimiter, publisher events.Publisher) *DeliveryService {
	if limiter == nil {
		limiter = NewMemoryLimiter(DefaultLocationCooldown)
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &DeliveryService{db: db, limiter: limiter, publisher: publisher, now: time.Now}
}

// Dispatch assigns a rider to the order. An existing delivery keeps its token
// and only gets the rider fields updated; otherwise a new delivery is created
// in AGUARDANDO. The order moves to EM_ENTREGA unless it is already there or
// delivered. Cancelled and pickup orders are refused.
func (s *DeliveryService) Dispatch(ctx context.Context, orderID uint, riderName, riderPhone string) (*models.Delivery, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}

	var delivery models.Delivery
	var order models.Order
	created := false
	statusChanged := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == models.OrderCancelled || order.DeliveryType == models.DeliveryTypePickup {
			return ErrNotDispatchable
		}

		err := tx.Where("order_id = ?", orderID).First(&delivery).Error
		switch {
		case err == nil:
			if err := s.assignRider(tx, &delivery, riderName, riderPhone); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			delivery = models.Delivery{
				Token:      uuid.NewString(),
				OrderID:    orderID,
				Status:     models.DeliveryAwaiting,
				RiderName:  riderName,
				RiderPhone: riderPhone,
			}
			// savepoint so a duplicate key does not abort the outer transaction
			err := tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(&delivery).Error
			})
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				// a concurrent dispatch created it first
				if err := tx.Where("order_id = ?", orderID).First(&delivery).Error; err != nil {
					return err
				}
				if err := s.assignRider(tx, &delivery, riderName, riderPhone); err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				created = true
			}
		default:
			return err
		}

		if order.Status != models.OrderInDelivery && order.Status != models.OrderDelivered {
			if err := tx.Model(&order).Update("status", models.OrderInDelivery).Error; err != nil {
				return err
			}
			order.Status = models.OrderInDelivery
			statusChanged = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d dispatched to %s (new delivery: %v)", orderID, riderName, created)
	events.Emit(ctx, s.publisher, events.New(events.DeliveryDispatched, orderID, delivery).ForDelivery(delivery.Token))
	if statusChanged {
		events.Emit(ctx, s.publisher, events.New(events.OrderStatusChanged, orderID, map[string]string{"status": order.Status}))
	}
	return &delivery, nil
}

func (s *DeliveryService) assignRider(tx *gorm.DB, d *models.Delivery, riderName, riderPhone string) error {
	d.RiderName = riderName
	d.RiderPhone = riderPhone
	return tx.Model(d).Updates(map[string]interface{}{
		"rider_name":  riderName,
		"rider_phone": riderPhone,
	}).Error
}

// UpdateStatus advances a delivery. Moving backwards is refused and repeating
// the current status changes nothing. Reaching ENTREGUE marks the order as
// delivered exactly once.
func (s *DeliveryService) UpdateStatus(ctx context.Context, token, status string) (*models.Delivery, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	next, ok := models.ParseDeliveryStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	var delivery models.Delivery
	changed := false
	orderDelivered := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.lockByToken(tx, token, &delivery); err != nil {
			return err
		}
		current := models.DeliveryRank(delivery.Status)
		target := models.DeliveryRank(next)
		if target == current {
			return nil
		}
		if target < current {
			return ErrInvalidTransition
		}

		now := s.now()
		updates := map[string]interface{}{"status": next}
		if target >= models.DeliveryRank(models.DeliveryEnRoute) && delivery.StartedAt == nil {
			updates["started_at"] = now
			delivery.StartedAt = &now
		}
		if next == models.DeliveryDelivered {
			updates["finished_at"] = now
			delivery.FinishedAt = &now
		}
		if err := tx.Model(&delivery).Updates(updates).Error; err != nil {
			return err
		}
		delivery.Status = next
		changed = true

		if next == models.DeliveryDelivered {
			res := tx.Model(&models.Order{}).
				Where("id = ? AND status <> ?", delivery.OrderID, models.OrderDelivered).
				Update("status", models.OrderDelivered)
			if res.Error != nil {
				return res.Error
			}
			orderDelivered = res.RowsAffected > 0
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		utils.InfoLogger.Printf("Delivery %d is now %s", delivery.ID, delivery.Status)
		events.Emit(ctx, s.publisher, events.New(events.DeliveryStatus, delivery.OrderID, delivery).ForDelivery(delivery.Token))
	}
	if orderDelivered {
		events.Emit(ctx, s.publisher, events.New(events.OrderStatusChanged, delivery.OrderID,
			map[string]string{"status": models.OrderDelivered}).ForDelivery(delivery.Token))
	}
	return &delivery, nil
}

// IngestLocation stores a rider position. Checks run in order: coordinates,
// delivery lookup, finished delivery, rate limit. A sample that fails to
// persist gives its cooldown slot back.
func (s *DeliveryService) IngestLocation(ctx context.Context, token string, in LocationInput) (*models.LocationSample, error) {
	if !in.valid() {
		return nil, ErrInvalidCoordinates
	}
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}

	var delivery models.Delivery
	if err := s.findByToken(s.db.WithContext(ctx), token, &delivery); err != nil {
		return nil, err
	}
	if delivery.Finished() {
		return nil, ErrDeliveryFinished
	}

	allowed, err := s.limiter.Allow(ctx, token)
	if err != nil {
		return nil, utils.Wrap(utils.KindInternal, err, "location limiter")
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	now := s.now()
	sample := models.LocationSample{
		DeliveryID: delivery.ID,
		Latitude:   in.Latitude,
		Longitude:  in.Longitude,
		Accuracy:   in.Accuracy,
		Speed:      in.Speed,
		Heading:    in.Heading,
		CreatedAt:  now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sample).Error; err != nil {
			return err
		}
		return tx.Model(&delivery).Updates(map[string]interface{}{
			"last_latitude":    in.Latitude,
			"last_longitude":   in.Longitude,
			"last_location_at": now,
		}).Error
	})
	if err != nil {
		// the sample was not stored, so it must not hold the cooldown
		if rerr := s.limiter.Release(ctx, token); rerr != nil {
			utils.ErrorLogger.WithError(rerr).Warn("release location limiter")
		}
		return nil, err
	}

	events.Emit(ctx, s.publisher, events.New(events.DeliveryLocation, delivery.OrderID, sample).ForDelivery(token))
	return &sample, nil
}

// TrackingView returns the delivery, its latest samples newest first and the
// customer-facing order fields.
func (s *DeliveryService) TrackingView(ctx context.Context, token string) (*TrackingView, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	db := s.db.WithContext(ctx)

	var view TrackingView
	if err := db.Preload("Order").Where("token = ?", token).First(&view.Delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryNotFound
		}
		return nil, err
	}
	if err := db.Where("delivery_id = ?", view.Delivery.ID).
		Order("created_at desc, id desc").
		Limit(TrackingSampleLimit).
		Find(&view.Samples).Error; err != nil {
		return nil, err
	}
	if o := view.Delivery.Order; o != nil {
		view.Order = TrackingOrder{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Phone:        o.Phone,
			Address:      o.Address,
			DeliveryType: o.DeliveryType,
			Status:       o.Status,
			Notes:        o.Notes,
		}
		view.Delivery.Order = nil
	}
	return &view, nil
}

// ActiveDeliveries lists deliveries not yet delivered, oldest first.
func (s *DeliveryService) ActiveDeliveries(ctx context.Context) ([]models.Delivery, error) {
	if s.db == nil {
		return nil, utils.ErrServiceUnavailable
	}
	var deliveries []models.Delivery
	err := s.db.WithContext(ctx).
		Preload("Order").
		Where("status <> ?", models.DeliveryDelivered).
		Order("created_at asc").
		Find(&deliveries).Error
	return deliveries, err
}

func (s *DeliveryService) findByToken(db *gorm.DB, token string, d *models.Delivery) error {
	if token == "" {
		return ErrDeliveryNotFound
	}
	if err := db.Where("token = ?", token).First(d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeliveryNotFound
		}
		return err
	}
	return nil
}

func (s *DeliveryService) lockByToken(tx *gorm.DB, token string, d *models.Delivery) error {
	// SQLite ignores the locking clause
	return s.findByToken(tx.Clauses(clause.Locking{Strength: "UPDATE"}), token, d)
}
