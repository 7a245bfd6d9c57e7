package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/guonaihong/gout"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/openmallhq/openmall/internal/app"
	"github.com/openmallhq/openmall/internal/domain"
	"github.com/openmallhq/openmall/pkg/common"
)

// Event topics
const (
	TopicOrderCreated   = "order.created"
	TopicOrderCancelled = "order.cancelled"
	TopicReviewCreated  = "review.created"
)

// Service dispatches store events to email, webhook and the denormalized
// rating refresh. Handlers run on a bounded worker pool; a full pool drops
// the event with a log line rather than blocking the request path.
type Service struct {
	appCtx app.AppContext
	bus    EventBus.Bus
	pool   *ants.Pool
}

var (
	defaultService *Service
	initOnce       sync.Once
)

// Init wires the default notification service. Safe to call once at
// startup before any Publish.
func Init(appCtx app.AppContext) *Service {
	initOnce.Do(func() {
		pool, err := ants.NewPool(16, ants.WithNonblocking(true))
		if err != nil {
			zap.L().Error("notify pool init failed", zap.Error(err))
			return
		}
		svc := &Service{
			appCtx: appCtx,
			bus:    EventBus.New(),
			pool:   pool,
		}
		svc.subscribe()
		defaultService = svc
	})
	return defaultService
}

// Stop releases the worker pool
func Stop() {
	if defaultService != nil && defaultService.pool != nil {
		defaultService.pool.Release()
	}
}

func (s *Service) subscribe() {
	_ = s.bus.Subscribe(TopicOrderCreated, func(order *domain.Order) {
		s.submit(func() { s.handleOrderCreated(order) })
	})
	_ = s.bus.Subscribe(TopicOrderCancelled, func(order *domain.Order) {
		s.submit(func() { s.handleOrderCancelled(order) })
	})
	_ = s.bus.Subscribe(TopicReviewCreated, func(review *domain.Review) {
		s.submit(func() { s.handleReviewCreated(review) })
	})
}

func (s *Service) submit(task func()) {
	if err := s.pool.Submit(task); err != nil {
		zap.L().Warn("notify task dropped", zap.Error(err))
	}
}

// PublishOrderCreated emits an order.created event
func PublishOrderCreated(order *domain.Order) {
	if defaultService != nil {
		defaultService.bus.Publish(TopicOrderCreated, order)
	}
}

// PublishOrderCancelled emits an order.cancelled event
func PublishOrderCancelled(order *domain.Order) {
	if defaultService != nil {
		defaultService.bus.Publish(TopicOrderCancelled, order)
	}
}

// PublishReviewCreated emits a review.created event
func PublishReviewCreated(review *domain.Review) {
	if defaultService != nil {
		defaultService.bus.Publish(TopicReviewCreated, review)
	}
}

func (s *Service) notificationSettings() app.NotificationSettings {
	var settings app.NotificationSettings
	if err := s.appCtx.DecodeSettings(app.SettingsNotification, &settings); err != nil {
		zap.L().Error("notification settings decode failed", zap.Error(err))
	}
	return settings
}

func (s *Service) handleOrderCreated(order *domain.Order) {
	settings := s.notificationSettings()
	s.sendOrderMail(settings, order, "Order received",
		fmt.Sprintf("Order %s received, total %.2f.", order.OrderNo, order.Total))
	s.postWebhook(settings, TopicOrderCreated, order)
}

func (s *Service) handleOrderCancelled(order *domain.Order) {
	settings := s.notificationSettings()
	s.sendOrderMail(settings, order, "Order cancelled",
		fmt.Sprintf("Order %s was cancelled.", order.OrderNo))
	s.postWebhook(settings, TopicOrderCancelled, order)
}

// handleReviewCreated refreshes the denormalized rating columns on the
// reviewed product
func (s *Service) handleReviewCreated(review *domain.Review) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := s.appCtx.Reviews().Stats(ctx, review.ProductId)
	if err != nil {
		zap.L().Error("review stats failed", zap.Int64("product_id", review.ProductId), zap.Error(err))
		return
	}
	if err := s.appCtx.Products().UpdateRating(ctx, review.ProductId, stats.Average, int(stats.Total)); err != nil {
		zap.L().Error("rating refresh failed", zap.Int64("product_id", review.ProductId), zap.Error(err))
		return
	}
	zap.L().Info("product rating refreshed",
		zap.Int64("product_id", review.ProductId),
		zap.Float64("average", stats.Average),
		zap.Int64("reviews", stats.Total))
}

func (s *Service) sendOrderMail(settings app.NotificationSettings, order *domain.Order, subject, body string) {
	if !settings.MailEnable || settings.SmtpHost == "" || settings.AdminEmails == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", settings.MailFrom)
	m.SetHeader("To", settings.AdminEmails)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(settings.SmtpHost, settings.SmtpPort, settings.SmtpUser, settings.SmtpPasswd)
	if err := d.DialAndSend(m); err != nil {
		zap.L().Error("order mail failed", zap.String("order_no", order.OrderNo), zap.Error(err))
		return
	}
	zap.L().Info("order mail sent", zap.String("order_no", order.OrderNo), zap.String("subject", subject))
}

// webhookSignature signs a webhook payload so receivers can verify origin
func webhookSignature(orderNo string, ts int64) string {
	return common.Sha256HashWithSalt(fmt.Sprintf("%s%d", orderNo, ts), common.GetSecretSalt())
}

func (s *Service) postWebhook(settings app.NotificationSettings, topic string, order *domain.Order) {
	if settings.WebhookURL == "" {
		return
	}

	ts := time.Now().Unix()
	var statusCode int
	err := gout.POST(settings.WebhookURL).
		SetTimeout(10 * time.Second).
		SetJSON(gout.H{
			"event_id":  common.UUID(),
			"event":     topic,
			"order_no":  order.OrderNo,
			"status":    order.Status,
			"total":     order.Total,
			"timestamp": ts,
			"sign":      webhookSignature(order.OrderNo, ts),
		}).
		Code(&statusCode).
		Do()
	if err != nil {
		zap.L().Error("webhook post failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	zap.L().Debug("webhook posted", zap.String("topic", topic), zap.Int("status", statusCode))
}
