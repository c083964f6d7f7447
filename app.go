package main

import (
	"context"
	"io"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/config"
	"github.com/Garciabraganca/COSTABURGUER-sub001/events"
	"github.com/Garciabraganca/COSTABURGUER-sub001/kds"
	"github.com/Garciabraganca/COSTABURGUER-sub001/router"
	"github.com/Garciabraganca/COSTABURGUER-sub001/services"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type app struct {
	router   *gin.Engine
	hub      *kds.Hub
	monitor  *services.PaymentMonitor
	limiter  *services.MemoryLimiter
	closers  []io.Closer
	payments *services.PaymentService
}

// newApp wires services, publishers and routes. db may be nil.
func newApp(cfg *config.Config, db *gorm.DB) (*app, error) {
	a := &app{hub: kds.NewHub()}

	publishers := events.Multi{events.LogPublisher{}, a.hub}
	if cfg.RabbitMQ.URL != "" {
		p, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			a.Close()
			return nil, err
		}
		publishers = append(publishers, p)
		a.closers = append(a.closers, p)
	}
	if len(cfg.Kafka.Brokers) > 0 {
		p, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			a.Close()
			return nil, err
		}
		publishers = append(publishers, p)
		a.closers = append(a.closers, p)
	}

	dispatcher := events.NewAsync(publishers, cfg.Events.QueueSize, cfg.Events.Timeout)
	a.closers = append(a.closers, dispatcher)

	var limiter services.LocationLimiter
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client)
		limiter = services.NewRedisLimiter(client, cfg.Tracking.LocationCooldown)
		utils.InfoLogger.Printf("Location limiter backed by redis at %s", cfg.Redis.Addr)
	} else {
		a.limiter = services.NewMemoryLimiter(cfg.Tracking.LocationCooldown)
		limiter = a.limiter
	}

	orders := services.NewOrderService(db, dispatcher)
	deliveries := services.NewDeliveryService(db, limiter, dispatcher)
	a.payments = services.NewPaymentService(db, services.NewMidtransProvider(cfg.Midtrans), dispatcher, cfg.Payment.Expiry)
	a.monitor = services.NewPaymentMonitor(a.payments, cfg.Payment.PollInterval)

	a.router = router.SetupRouter(router.Dependencies{
		DB:             db,
		Hub:            a.hub,
		Orders:         orders,
		Deliveries:     deliveries,
		Payments:       a.payments,
		PaymentMonitor: a.monitor,
		CORSOrigin:     cfg.Server.CORSOrigin,
		SecureCookie:   cfg.JWT.CookieSecure,
	})
	return a, nil
}

// Start runs the background workers until ctx is cancelled.
func (a *app) Start(ctx context.Context) {
	if a.limiter != nil {
		a.limiter.Start(ctx, time.Minute)
	}
	if a.payments.Enabled() {
		a.monitor.Start(ctx)
	}
}

// Close releases dependencies in reverse order, so queued events are flushed
// before the brokers they go to are closed.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			utils.ErrorLogger.WithError(err).Warn("closing dependency")
		}
	}
}
