package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/gateway"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/model"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/logger"
)

// NotificationSender is the slice of the gateway the notifier needs.
type NotificationSender interface {
	NotifyOrderStatus(ctx context.Context, orderID string, status model.OrderStatus, tracking *gateway.TrackingInfo) (bool, error)
}

type notifyJob struct {
	orderID  string
	status   model.OrderStatus
	tracking *gateway.TrackingInfo
	enqAt    time.Time
}

// Notifier delivers customer WhatsApp notifications asynchronously. It is
// strictly best-effort: the triggering mutation is already committed, so
// failures and overflows are logged and dropped, never retried or surfaced.
type Notifier struct {
	sender NotificationSender
	ch     chan notifyJob
}

func NewNotifier(sender NotificationSender, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Notifier{sender: sender, ch: make(chan notifyJob, queueSize)}
}

// Start launches the delivery workers and returns a stop function that
// waits briefly for the queue to drain.
func (n *Notifier) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-n.ch:
					n.deliver(job)
				case <-stopCh:
					// Drain what is already queued before exiting.
					for {
						select {
						case job := <-n.ch:
							n.deliver(job)
						default:
							return
						}
					}
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-time.After(2 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (n *Notifier) deliver(job notifyJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sent, err := n.sender.NotifyOrderStatus(ctx, job.orderID, job.status, job.tracking)
	if err != nil {
		logger.Warn("order notification failed",
			zap.String("order", job.orderID),
			zap.String("status", string(job.status)),
			zap.Error(err))
		return
	}
	logger.Info("order notification processed",
		zap.String("order", job.orderID),
		zap.String("status", string(job.status)),
		zap.Bool("sent", sent),
		zap.Duration("queued", time.Since(job.enqAt)))
}

// Enqueue schedules one notification. Non-blocking; a full queue drops the
// job with a warning.
func (n *Notifier) Enqueue(orderID string, status model.OrderStatus, tracking *gateway.TrackingInfo) {
	select {
	case n.ch <- notifyJob{orderID: orderID, status: status, tracking: tracking, enqAt: time.Now()}:
	default:
		logger.Warn("notifier queue full, drop", zap.String("order", orderID), zap.String("status", string(status)))
	}
}

// QueueLen returns the current queue length (sampled).
func (n *Notifier) QueueLen() int { return len(n.ch) }
