package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"foodies-backend/internal/domain"
	"foodies-backend/internal/infra"
	"foodies-backend/internal/mocks"
)

func newOrderService(repo *mocks.MockOrderRepository, carts *mocks.MockCartRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) *OrderService {
	return NewOrderService(repo, carts, pay, pub, zap.NewNop())
}

func validCreateInput() CreateOrderInput {
	return CreateOrderInput{
		UserAddress: "12 Allen Avenue, Ikeja",
		PhoneNumber: "+2348012345678",
		Email:       TestEmail,
		Amount:      TestAmount,
		OrderedItems: []domain.OrderItem{
			{FoodID: "food-1", Quantity: 2, Price: 750},
		},
	}
}

func TestOrderService_CreateOrderWithPayment(t *testing.T) {
	tests := []struct {
		name            string
		input           CreateOrderInput
		setupMocks      func(*mocks.MockOrderRepository, *mocks.MockPaymentClient, *mocks.MockPublisher)
		expectedErr     error
		wantSaves       int
		wantInitCalls   int
		wantReference   string
		wantAuthURL     string
		wantOrderStatus string
	}{
		{
			name:  "successful creation binds reference",
			input: validCreateInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
					order := args.Get(0).(*domain.Order)
					if order.ID == "" {
						order.ID = TestOrderID
					}
				})
				pay.On("InitializeTransaction", mock.Anything, TestEmail, int64(150000)).Return(&infra.InitializeResult{
					AuthorizationURL: "https://checkout.paystack.com/abc123",
					Reference:        TestReference,
				}, nil)
				pub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()
			},
			wantSaves:       2,
			wantInitCalls:   1,
			wantReference:   TestReference,
			wantAuthURL:     "https://checkout.paystack.com/abc123",
			wantOrderStatus: domain.OrderStatusPending,
		},
		{
			name: "caller-supplied status is kept",
			input: func() CreateOrderInput {
				in := validCreateInput()
				in.OrderStatus = "awaiting payment"
				return in
			}(),
			setupMocks: func(repo *mocks.MockOrderRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil)
				pay.On("InitializeTransaction", mock.Anything, TestEmail, int64(150000)).Return(&infra.InitializeResult{
					AuthorizationURL: "https://checkout.paystack.com/abc123",
					Reference:        TestReference,
				}, nil)
				pub.On("Publish", mock.Anything, "order.created", mock.Anything).Return(nil).Maybe()
			},
			wantSaves:       2,
			wantInitCalls:   1,
			wantReference:   TestReference,
			wantAuthURL:     "https://checkout.paystack.com/abc123",
			wantOrderStatus: "awaiting payment",
		},
		{
			name: "zero amount rejected after the first save",
			input: func() CreateOrderInput {
				in := validCreateInput()
				in.Amount = 0
				return in
			}(),
			setupMocks: func(repo *mocks.MockOrderRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
			expectedErr:   ErrInvalidOrder,
			wantSaves:     1,
			wantInitCalls: 0,
		},
		{
			name: "missing email rejected after the first save",
			input: func() CreateOrderInput {
				in := validCreateInput()
				in.Email = ""
				return in
			}(),
			setupMocks: func(repo *mocks.MockOrderRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
			expectedErr:   ErrInvalidOrder,
			wantSaves:     1,
			wantInitCalls: 0,
		},
		{
			name:  "gateway init failure leaves the order without a reference",
			input: validCreateInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil)
				pay.On("InitializeTransaction", mock.Anything, TestEmail, int64(150000)).Return(nil, infra.ErrGatewayInit)
			},
			expectedErr:   infra.ErrGatewayInit,
			wantSaves:     1,
			wantInitCalls: 1,
		},
		{
			name:  "first save failure aborts before the gateway",
			input: validCreateInput(),
			setupMocks: func(repo *mocks.MockOrderRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(errors.New("database error"))
			},
			expectedErr:   errors.New("database error"),
			wantSaves:     1,
			wantInitCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			carts := new(mocks.MockCartRepository)
			pay := new(mocks.MockPaymentClient)
			pub := new(mocks.MockPublisher)
			tt.setupMocks(repo, pay, pub)

			service := newOrderService(repo, carts, pay, pub)
			result, err := service.CreateOrderWithPayment(context.Background(), TestUserID, tt.input)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.expectedErr, ErrInvalidOrder) || errors.Is(tt.expectedErr, infra.ErrGatewayInit) {
					assert.ErrorIs(t, err, tt.expectedErr)
				} else {
					assert.Contains(t, err.Error(), tt.expectedErr.Error())
				}
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, TestUserID, result.Order.UserID)
				assert.Equal(t, tt.input.Amount, result.Order.Amount)
				assert.Equal(t, tt.wantReference, result.Order.PaymentReference)
				assert.Equal(t, domain.PaymentUnpaid, result.Order.PaymentStatus)
				assert.Equal(t, tt.wantOrderStatus, result.Order.OrderStatus)
				assert.Equal(t, tt.wantAuthURL, result.AuthorizationURL)
				assert.WithinDuration(t, time.Now(), result.Order.CreatedAt, time.Second)
			}

			time.Sleep(100 * time.Millisecond)

			repo.AssertNumberOfCalls(t, "Save", tt.wantSaves)
			pay.AssertNumberOfCalls(t, "InitializeTransaction", tt.wantInitCalls)
			repo.AssertExpectations(t)
			pay.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestOrderService_VerifyPayment(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockOrderRepository, *mocks.MockCartRepository, *mocks.MockPaymentClient, *mocks.MockPublisher)
		expectedErr    error
		wantVerifies   int
		wantSaves      int
		wantCartClears int
	}{
		{
			name: "successful verification transitions the order and clears the cart",
			setupMocks: func(repo *mocks.MockOrderRepository, carts *mocks.MockCartRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				order := CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentUnpaid, domain.OrderStatusPending, TestReference)
				repo.On("FindByPaymentReference", TestReference).Return(order, nil)
				pay.On("VerifyTransaction", mock.Anything, TestReference).Return("success", nil)
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
					saved := args.Get(0).(*domain.Order)
					assert.Equal(t, domain.PaymentPaid, saved.PaymentStatus)
					assert.Equal(t, domain.OrderStatusPreparing, saved.OrderStatus)
					assert.Equal(t, TestReference, saved.PaymentReference)
				})
				carts.On("DeleteByUserID", TestUserID).Return(nil)
				pub.On("Publish", mock.Anything, "order.paid", mock.Anything).Return(nil).Maybe()
			},
			wantVerifies:   1,
			wantSaves:      1,
			wantCartClears: 1,
		},
		{
			name: "gateway status comparison is case-insensitive",
			setupMocks: func(repo *mocks.MockOrderRepository, carts *mocks.MockCartRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				order := CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentUnpaid, domain.OrderStatusPending, TestReference)
				repo.On("FindByPaymentReference", TestReference).Return(order, nil)
				pay.On("VerifyTransaction", mock.Anything, TestReference).Return("SUCCESS", nil)
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil)
				carts.On("DeleteByUserID", TestUserID).Return(nil)
				pub.On("Publish", mock.Anything, "order.paid", mock.Anything).Return(nil).Maybe()
			},
			wantVerifies:   1,
			wantSaves:      1,
			wantCartClears: 1,
		},
		{
			name: "unknown reference fails without touching the store",
			setupMocks: func(repo *mocks.MockOrderRepository, carts *mocks.MockCartRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				repo.On("FindByPaymentReference", TestReference).Return(nil, nil)
			},
			expectedErr: ErrOrderNotFound,
		},
		{
			name: "non-success gateway status leaves the order unchanged",
			setupMocks: func(repo *mocks.MockOrderRepository, carts *mocks.MockCartRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				order := CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentUnpaid, domain.OrderStatusPending, TestReference)
				repo.On("FindByPaymentReference", TestReference).Return(order, nil)
				pay.On("VerifyTransaction", mock.Anything, TestReference).Return("abandoned", nil)
			},
			expectedErr:  ErrPaymentNotSuccessful,
			wantVerifies: 1,
		},
		{
			name: "gateway transport failure leaves the order unchanged",
			setupMocks: func(repo *mocks.MockOrderRepository, carts *mocks.MockCartRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				order := CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentUnpaid, domain.OrderStatusPending, TestReference)
				repo.On("FindByPaymentReference", TestReference).Return(order, nil)
				pay.On("VerifyTransaction", mock.Anything, TestReference).Return("", infra.ErrGatewayVerify)
			},
			expectedErr:  infra.ErrGatewayVerify,
			wantVerifies: 1,
		},
		{
			name: "already-paid order short-circuits without a gateway call",
			setupMocks: func(repo *mocks.MockOrderRepository, carts *mocks.MockCartRepository, pay *mocks.MockPaymentClient, pub *mocks.MockPublisher) {
				order := CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentPaid, domain.OrderStatusPreparing, TestReference)
				repo.On("FindByPaymentReference", TestReference).Return(order, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			carts := new(mocks.MockCartRepository)
			pay := new(mocks.MockPaymentClient)
			pub := new(mocks.MockPublisher)
			tt.setupMocks(repo, carts, pay, pub)

			service := newOrderService(repo, carts, pay, pub)
			err := service.VerifyPayment(context.Background(), TestReference)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}

			time.Sleep(100 * time.Millisecond)

			pay.AssertNumberOfCalls(t, "VerifyTransaction", tt.wantVerifies)
			repo.AssertNumberOfCalls(t, "Save", tt.wantSaves)
			carts.AssertNumberOfCalls(t, "DeleteByUserID", tt.wantCartClears)
			repo.AssertExpectations(t)
			carts.AssertExpectations(t)
			pay.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

// Verifying the same reference twice must confirm the payment exactly once:
// one gateway call, one paid transition, one cart clear.
func TestOrderService_VerifyPayment_Idempotent(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	carts := new(mocks.MockCartRepository)
	pay := new(mocks.MockPaymentClient)
	pub := new(mocks.MockPublisher)

	order := CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentUnpaid, domain.OrderStatusPending, TestReference)
	repo.On("FindByPaymentReference", TestReference).Return(order, nil)
	pay.On("VerifyTransaction", mock.Anything, TestReference).Return("success", nil).Once()
	repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	carts.On("DeleteByUserID", TestUserID).Return(nil).Once()
	pub.On("Publish", mock.Anything, "order.paid", mock.Anything).Return(nil).Maybe()

	service := newOrderService(repo, carts, pay, pub)

	assert.NoError(t, service.VerifyPayment(context.Background(), TestReference))
	assert.NoError(t, service.VerifyPayment(context.Background(), TestReference))

	time.Sleep(100 * time.Millisecond)

	pay.AssertNumberOfCalls(t, "VerifyTransaction", 1)
	repo.AssertNumberOfCalls(t, "Save", 1)
	carts.AssertNumberOfCalls(t, "DeleteByUserID", 1)
	repo.AssertExpectations(t)
	carts.AssertExpectations(t)
	pay.AssertExpectations(t)
}

// Full lifecycle: create with payment, then verify the gateway callback.
func TestOrderService_CreateThenVerify(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	carts := new(mocks.MockCartRepository)
	pay := new(mocks.MockPaymentClient)
	pub := new(mocks.MockPublisher)

	var stored *domain.Order
	repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil).Run(func(args mock.Arguments) {
		stored = args.Get(0).(*domain.Order)
		if stored.ID == "" {
			stored.ID = TestOrderID
		}
	})
	pay.On("InitializeTransaction", mock.Anything, TestEmail, int64(150000)).Return(&infra.InitializeResult{
		AuthorizationURL: "https://checkout.paystack.com/abc123",
		Reference:        TestReference,
	}, nil)
	pay.On("VerifyTransaction", mock.Anything, TestReference).Return("success", nil)
	carts.On("DeleteByUserID", TestUserID).Return(nil)
	pub.On("Publish", mock.Anything, mock.AnythingOfType("string"), mock.Anything).Return(nil).Maybe()

	service := newOrderService(repo, carts, pay, pub)

	result, err := service.CreateOrderWithPayment(context.Background(), TestUserID, validCreateInput())
	assert.NoError(t, err)
	assert.Equal(t, TestReference, result.Order.PaymentReference)
	assert.Equal(t, domain.PaymentUnpaid, result.Order.PaymentStatus)

	repo.On("FindByPaymentReference", TestReference).Return(stored, nil)

	assert.NoError(t, service.VerifyPayment(context.Background(), TestReference))
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, domain.OrderStatusPreparing, stored.OrderStatus)

	time.Sleep(100 * time.Millisecond)
	carts.AssertNumberOfCalls(t, "DeleteByUserID", 1)
	repo.AssertExpectations(t)
	carts.AssertExpectations(t)
	pay.AssertExpectations(t)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	expected := []domain.Order{
		*CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentPaid, domain.OrderStatusPreparing, TestReference),
		*CreateMockOrder("order-2", TestUserID, 800, domain.PaymentUnpaid, domain.OrderStatusPending, ""),
	}
	repo.On("FindByUserID", TestUserID).Return(expected, nil)

	service := newOrderService(repo, new(mocks.MockCartRepository), new(mocks.MockPaymentClient), new(mocks.MockPublisher))
	result, err := service.GetUserOrders(context.Background(), TestUserID)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	for _, o := range result {
		assert.Equal(t, TestUserID, o.UserID)
	}
	repo.AssertExpectations(t)
}

func TestOrderService_GetAllOrders(t *testing.T) {
	repo := new(mocks.MockOrderRepository)
	expected := []domain.Order{
		*CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentPaid, domain.OrderStatusPreparing, TestReference),
		*CreateMockOrder("order-2", "user-2", 800, domain.PaymentUnpaid, domain.OrderStatusPending, ""),
	}
	repo.On("FindAll").Return(expected, nil)

	service := newOrderService(repo, new(mocks.MockCartRepository), new(mocks.MockPaymentClient), new(mocks.MockPublisher))
	result, err := service.GetAllOrders(context.Background())

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	repo.AssertExpectations(t)
}

func TestOrderService_RemoveOrder(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(*mocks.MockOrderRepository)
		expectedErr error
	}{
		{
			name: "existing order removed",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("DeleteByID", TestOrderID).Return(true, nil)
			},
		},
		{
			name: "missing order reported",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("DeleteByID", TestOrderID).Return(false, nil)
			},
			expectedErr: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			tt.setupMocks(repo)

			service := newOrderService(repo, new(mocks.MockCartRepository), new(mocks.MockPaymentClient), new(mocks.MockPublisher))
			err := service.RemoveOrder(context.Background(), TestOrderID)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		setupMocks  func(*mocks.MockOrderRepository)
		expectedErr error
	}{
		{
			name:   "overwrites to a known status",
			status: domain.OrderStatusDelivered,
			setupMocks: func(repo *mocks.MockOrderRepository) {
				order := CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentPaid, domain.OrderStatusPreparing, TestReference)
				repo.On("FindByID", TestOrderID).Return(order, nil)
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
		},
		{
			name:   "accepts an arbitrary status string",
			status: "out for delivery",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				order := CreateMockOrder(TestOrderID, TestUserID, TestAmount, domain.PaymentPaid, domain.OrderStatusPreparing, TestReference)
				repo.On("FindByID", TestOrderID).Return(order, nil)
				repo.On("Save", mock.AnythingOfType("*domain.Order")).Return(nil)
			},
		},
		{
			name:   "missing order reported",
			status: domain.OrderStatusCancelled,
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("FindByID", TestOrderID).Return(nil, nil)
			},
			expectedErr: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			tt.setupMocks(repo)

			service := newOrderService(repo, new(mocks.MockCartRepository), new(mocks.MockPaymentClient), new(mocks.MockPublisher))
			order, err := service.UpdateOrderStatus(context.Background(), TestOrderID, tt.status)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.status, order.OrderStatus)
				// amount and payment state are untouched by an admin overwrite
				assert.Equal(t, TestAmount, order.Amount)
				assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
			}
			repo.AssertExpectations(t)
		})
	}
}
