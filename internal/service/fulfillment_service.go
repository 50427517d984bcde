package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"eshop-order/internal/cart"
	"eshop-order/internal/events"
	"eshop-order/internal/model"
	"eshop-order/internal/notify"
	"eshop-order/internal/payment"
	"eshop-order/internal/repository"
	"eshop-order/internal/session"
)

// sideEffectTimeout bounds every best-effort side effect so webhook handling
// stays inside the processor's delivery budget.
const sideEffectTimeout = 3 * time.Second

// fulfillmentService implements FulfillmentService.
type fulfillmentService struct {
	store         session.Store
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	notifications repository.NotificationRepository
	analytics     repository.AnalyticsRepository
	gateway       payment.Gateway
	mailer        notify.Mailer
	publisher     events.Publisher
	trackingBase  string
	logger        zerolog.Logger
}

// NewFulfillmentService creates a new order fulfillment service.
func NewFulfillmentService(
	store session.Store,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notifications repository.NotificationRepository,
	analytics repository.AnalyticsRepository,
	gateway payment.Gateway,
	mailer notify.Mailer,
	publisher events.Publisher,
	trackingBase string,
	logger zerolog.Logger,
) FulfillmentService {
	return &fulfillmentService{
		store:         store,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		notifications: notifications,
		analytics:     analytics,
		gateway:       gateway,
		mailer:        mailer,
		publisher:     publisher,
		trackingBase:  trackingBase,
		logger:        logger.With().Str("service", "fulfillment").Logger(),
	}
}

// ProcessPaymentSucceeded claims the session atomically, splits the cart by
// shop and persists one order per shop group. The session is the single
// source of truth for what was purchased; nothing is read from the event
// payload beyond the correlation ids.
func (s *fulfillmentService) ProcessPaymentSucceeded(ctx context.Context, sessionID, userID string) error {
	// Atomic claim: under concurrent redeliveries exactly one caller
	// observes the session, so orders are created at most once.
	sess, err := s.store.GetDelete(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		s.logger.Warn().
			Str("session_id", sessionID).
			Msg("session missing or already fulfilled, skipping order creation")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to claim session: %w", err)
	}

	buyer := s.lookupBuyer(ctx, userID)
	trackingURL := fmt.Sprintf("%s/order/%s", s.trackingBase, sessionID)

	sellersByShop := make(map[string]model.SessionSeller, len(sess.Sellers))
	for _, seller := range sess.Sellers {
		sellersByShop[seller.ShopID] = seller
	}

	groups := cart.GroupByShop(sess.Cart)
	var fatal []error

	for _, group := range groups {
		discount := group.Discount(sess.Coupon)
		orderTotal := group.Total() - discount

		order, err := s.persistOrder(ctx, sess, group, userID, orderTotal, discount)
		if err != nil {
			// The charge already succeeded; record the failure loudly
			// but keep the remaining groups independent.
			s.logger.Error().
				Err(err).
				Str("session_id", sessionID).
				Str("shop_id", group.ShopID).
				Msg("order persistence failed after captured payment")
			fatal = append(fatal, err)
			continue
		}

		s.recordPurchases(ctx, userID, group)
		s.sendConfirmation(ctx, buyer, sess, trackingURL)
		s.transferFunds(ctx, sessionID, sellersByShop[group.ShopID], orderTotal)
		s.publishOrderCreated(ctx, sessionID, order)
	}

	s.notifySellers(ctx, sessionID, userID, buyer.Name, groups, sellersByShop, trackingURL)

	return errors.Join(fatal...)
}

// persistOrder writes one order and its items in a single transaction.
func (s *fulfillmentService) persistOrder(
	ctx context.Context,
	sess *model.CheckoutSession,
	group cart.ShopGroup,
	userID string,
	orderTotal, discount float64,
) (order *model.Order, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	order = &model.Order{
		ID:                uuid.New(),
		UserID:            userID,
		ShopID:            group.ShopID,
		Total:             orderTotal,
		Status:            model.OrderStatusPaid,
		ShippingAddressID: sess.ShippingAddressID,
		DiscountAmount:    discount,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if discount > 0 && sess.Coupon != nil {
		order.CouponCode = &sess.Coupon.Code
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, len(group.Lines))
	for i, line := range group.Lines {
		items[i] = model.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			Price:           line.SalePrice,
			SelectedOptions: line.SelectedOptions,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("shop_id", group.ShopID).
		Float64("total", orderTotal).
		Int("item_count", len(items)).
		Msg("order created")

	return order, nil
}

// recordPurchases applies stock decrements and analytics appends for every
// line of a committed group. A missing or deleted product must not roll back
// an already-paid order, so failures are logged and skipped.
func (s *fulfillmentService) recordPurchases(ctx context.Context, userID string, group cart.ShopGroup) {
	for _, line := range group.Lines {
		lineCtx, cancel := context.WithTimeout(ctx, sideEffectTimeout)

		if err := s.productRepo.RecordPurchase(lineCtx, line.ProductID, line.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Str("product_id", line.ProductID).
				Msg("stock update failed, continuing")
		}

		action := model.PurchaseAction{
			ProductID: line.ProductID,
			ShopID:    line.ShopID,
			Action:    "purchase",
			Timestamp: time.Now().UnixMilli(),
		}
		if err := s.analytics.RecordPurchase(lineCtx, userID, action); err != nil {
			s.logger.Warn().
				Err(err).
				Str("product_id", line.ProductID).
				Msg("analytics update failed, continuing")
		}

		cancel()
	}
}

func (s *fulfillmentService) sendConfirmation(ctx context.Context, buyer model.User, sess *model.CheckoutSession, trackingURL string) {
	total := sess.TotalAmount
	if sess.Coupon != nil {
		total -= sess.Coupon.DiscountAmount
	}

	mailCtx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()

	err := s.mailer.SendOrderConfirmation(mailCtx, buyer.Email, notify.OrderConfirmation{
		Name:        buyer.Name,
		Cart:        sess.Cart,
		TotalAmount: total,
		TrackingURL: trackingURL,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("to", buyer.Email).Msg("confirmation email failed, continuing")
	}
}

// transferFunds forwards a seller's share of the captured charge to their
// payout account. Sellers without a connected account are skipped; the
// platform operator reconciles those manually.
func (s *fulfillmentService) transferFunds(ctx context.Context, sessionID string, seller model.SessionSeller, orderTotal float64) {
	if seller.StripeAccountID == "" {
		s.logger.Warn().
			Str("session_id", sessionID).
			Str("shop_id", seller.ShopID).
			Msg("no payout account for shop, skipping transfer")
		return
	}

	transferCtx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()

	err := s.gateway.Transfer(transferCtx, payment.TransferRequest{
		AmountMinor: payment.MinorUnits(orderTotal),
		Currency:    payment.DefaultCurrency,
		Destination: seller.StripeAccountID,
		SessionID:   sessionID,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("session_id", sessionID).
			Str("shop_id", seller.ShopID).
			Msg("seller transfer failed, continuing")
	}
}

func (s *fulfillmentService) publishOrderCreated(ctx context.Context, sessionID string, order *model.Order) {
	pubCtx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()

	err := s.publisher.OrderCreated(pubCtx, events.OrderCreated{
		OrderID:   order.ID.String(),
		SessionID: sessionID,
		UserID:    order.UserID,
		ShopID:    order.ShopID,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order event publish failed, continuing")
	}
}

// notifySellers creates one notification per distinct seller shop plus a
// single platform-wide alert for the administrator.
func (s *fulfillmentService) notifySellers(
	ctx context.Context,
	sessionID, userID, buyerName string,
	groups []cart.ShopGroup,
	sellersByShop map[string]model.SessionSeller,
	trackingURL string,
) {
	notifyCtx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()

	for _, group := range groups {
		seller, ok := sellersByShop[group.ShopID]
		if !ok || seller.SellerID == "" {
			s.logger.Warn().Str("shop_id", group.ShopID).Msg("no seller for shop, skipping notification")
			continue
		}

		notification := &model.Notification{
			ID:           uuid.New(),
			Title:        "New order received",
			Message:      fmt.Sprintf("A customer just ordered %s from your shop.", group.Lines[0].ProductID),
			CreatorID:    userID,
			ReceiverID:   seller.SellerID,
			RedirectLink: trackingURL,
			CreatedAt:    time.Now(),
		}
		if err := s.notifications.Create(notifyCtx, notification); err != nil {
			s.logger.Warn().Err(err).Str("shop_id", group.ShopID).Msg("seller notification failed, continuing")
		}
	}

	admin := &model.Notification{
		ID:           uuid.New(),
		Title:        "Platform order alert",
		Message:      fmt.Sprintf("A new order was placed by %s", buyerName),
		CreatorID:    userID,
		ReceiverID:   model.AdminReceiverID,
		RedirectLink: trackingURL,
		CreatedAt:    time.Now(),
	}
	if err := s.notifications.Create(notifyCtx, admin); err != nil {
		s.logger.Warn().Err(err).Msg("admin notification failed, continuing")
	}
}

// lookupBuyer resolves the purchasing user for email delivery and
// notification copy, falling back to a guest identity when the lookup fails.
func (s *fulfillmentService) lookupBuyer(ctx context.Context, userID string) model.User {
	lookupCtx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(lookupCtx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("user lookup failed, using guest identity")
	}
	if user == nil {
		return model.User{ID: userID, Name: "Guest", Email: "guest@example.com"}
	}
	return *user
}
