package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"foodies-backend/internal/domain"
	"foodies-backend/internal/infra"
	rabbit "foodies-backend/internal/infra/rabbitmq"
	"foodies-backend/internal/repository"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidOrder marks an order that cannot be sent to the gateway.
	// The first save has already happened when this is raised, so the bad
	// order remains stored without a payment reference.
	ErrInvalidOrder = errors.New("order needs a payment email and a positive amount")
	// ErrPaymentNotSuccessful means the gateway answered the verify call and
	// reported a non-success transaction status. Distinct from a gateway
	// transport failure.
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
)

type CreateOrderInput struct {
	UserAddress  string
	PhoneNumber  string
	Email        string
	Amount       float64
	OrderStatus  string
	OrderedItems []domain.OrderItem
}

type CreateOrderResult struct {
	Order            *domain.Order
	AuthorizationURL string
}

type OrderService struct {
	repo      repository.OrderRepository
	carts     repository.CartRepository
	payments  infra.PaymentClientInterface
	publisher rabbit.PublisherInterface
	logger    *zap.Logger
}

func NewOrderService(r repository.OrderRepository, carts repository.CartRepository, payments infra.PaymentClientInterface, pub rabbit.PublisherInterface, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:      r,
		carts:     carts,
		payments:  payments,
		publisher: pub,
		logger:    logger,
	}
}

// CreateOrderWithPayment persists a new order for the caller and initializes
// a gateway transaction for it. The order is saved before the gateway call so
// that an initialization failure cannot lose it; such an order stays stored
// without a payment reference until the customer retries.
func (s *OrderService) CreateOrderWithPayment(ctx context.Context, userID string, in CreateOrderInput) (*CreateOrderResult, error) {
	order := &domain.Order{
		UserID:        userID,
		UserAddress:   in.UserAddress,
		PhoneNumber:   in.PhoneNumber,
		Email:         in.Email,
		Amount:        in.Amount,
		OrderedItems:  in.OrderedItems,
		OrderStatus:   in.OrderStatus,
		PaymentStatus: domain.PaymentUnpaid,
		CreatedAt:     time.Now(),
	}
	if order.OrderStatus == "" {
		order.OrderStatus = domain.OrderStatusPending
	}

	if err := s.repo.Save(order); err != nil {
		return nil, err
	}

	if order.Email == "" || order.Amount <= 0 {
		return nil, ErrInvalidOrder
	}

	// Paystack expects the amount in kobo, the minor currency unit.
	init, err := s.payments.InitializeTransaction(ctx, order.Email, int64(order.Amount*100))
	if err != nil {
		s.logger.Error("payment initialization failed",
			zap.String("orderId", order.ID),
			zap.Error(err))
		return nil, err
	}

	order.PaymentReference = init.Reference
	if err := s.repo.Save(order); err != nil {
		return nil, err
	}

	go s.publishEvent("order.created", domain.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Amount:    order.Amount,
		Reference: order.PaymentReference,
		CreatedAt: order.CreatedAt,
	})

	return &CreateOrderResult{Order: order, AuthorizationURL: init.AuthorizationURL}, nil
}

// VerifyPayment reconciles an order against the gateway's view of its
// transaction. On success the order becomes paid/preparing and the owner's
// cart is cleared. Verifying an already-paid order is a no-op, so concurrent
// or repeated verify calls cannot apply the transition twice.
func (s *OrderService) VerifyPayment(ctx context.Context, reference string) error {
	order, err := s.repo.FindByPaymentReference(reference)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	if order.PaymentStatus == domain.PaymentPaid {
		return nil
	}

	status, err := s.payments.VerifyTransaction(ctx, reference)
	if err != nil {
		s.logger.Error("payment verification failed",
			zap.String("reference", reference),
			zap.Error(err))
		return err
	}
	if !strings.EqualFold(status, infra.GatewayStatusSuccess) {
		return fmt.Errorf("%w: gateway status %q", ErrPaymentNotSuccessful, status)
	}

	order.PaymentStatus = domain.PaymentPaid
	order.OrderStatus = domain.OrderStatusPreparing
	if err := s.repo.Save(order); err != nil {
		return err
	}

	// Clearing an absent cart is a no-op, so this step is retry-safe. If it
	// fails after the paid transition was persisted, the order stays paid and
	// the stale cart needs operator attention; the error below is the signal.
	if err := s.carts.DeleteByUserID(order.UserID); err != nil {
		s.logger.Error("cart clear after payment failed",
			zap.String("orderId", order.ID),
			zap.String("userId", order.UserID),
			zap.Error(err))
		return err
	}

	go s.publishEvent("order.paid", domain.OrderPaidEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Reference: order.PaymentReference,
		PaidAt:    time.Now(),
	})

	return nil
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.FindByUserID(userID)
}

// GetAllOrders returns every order irrespective of owner. Admin surface; the
// caller only has to be authenticated.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.FindAll()
}

// RemoveOrder deletes an order by id without an ownership check.
func (s *OrderService) RemoveOrder(ctx context.Context, orderID string) error {
	deleted, err := s.repo.DeleteByID(orderID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrOrderNotFound
	}
	return nil
}

// UpdateOrderStatus overwrites the order status with any caller-supplied
// value. No transition legality check; admin surface.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status string) (*domain.Order, error) {
	order, err := s.repo.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	order.OrderStatus = status
	if err := s.repo.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publishEvent(routingKey string, data any) {
	if err := s.publisher.Publish(context.Background(), routingKey, data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("routingKey", routingKey),
			zap.Error(err))
	}
}
