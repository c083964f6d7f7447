package services

import (
	"context"
	"sync"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
)

// PaymentMetrics counts the outcomes seen by the monitor.
type PaymentMetrics struct {
	Checked   int64 `json:"checked"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Expired   int64 `json:"expired"`
}

// PaymentMonitor periodically reconciles pending online payments with the
// provider and expires the stale ones.
type PaymentMonitor struct {
	payments *PaymentService
	interval time.Duration

	mutex   sync.Mutex
	metrics PaymentMetrics
}

func NewPaymentMonitor(payments *PaymentService, interval time.Duration) *PaymentMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PaymentMonitor{payments: payments, interval: interval}
}

// Start runs the monitor until ctx is done.
func (pm *PaymentMonitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(pm.interval)
		defer ticker.Stop()
		utils.InfoLogger.Printf("Payment monitor started (every %s)", pm.interval)
		for {
			select {
			case <-ctx.Done():
				utils.InfoLogger.Println("Payment monitor stopped")
				return
			case <-ticker.C:
				if err := pm.Poll(ctx); err != nil {
					utils.ErrorLogger.WithError(err).Error("payment monitor poll")
				}
			}
		}
	}()
}

// Poll reconciles every pending payment once.
func (pm *PaymentMonitor) Poll(ctx context.Context) error {
	if pm.payments.db == nil {
		return nil
	}
	pending, err := pm.payments.pendingPayments(ctx)
	if err != nil {
		return err
	}
	for i := range pending {
		status, err := pm.payments.reconcile(ctx, &pending[i])
		if err != nil {
			utils.ErrorLogger.WithError(err).Errorf("reconcile payment %s", pending[i].Reference)
			continue
		}
		pm.record(status)
	}
	return nil
}

func (pm *PaymentMonitor) record(status string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.metrics.Checked++
	switch status {
	case models.PaymentStatusSuccess:
		pm.metrics.Succeeded++
	case models.PaymentStatusFailed:
		pm.metrics.Failed++
	case models.PaymentStatusExpired:
		pm.metrics.Expired++
	}
}

func (pm *PaymentMonitor) Metrics() PaymentMetrics {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	return pm.metrics
}
