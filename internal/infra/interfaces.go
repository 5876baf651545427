package infra

import "context"

type PaymentClientInterface interface {
	InitializeTransaction(ctx context.Context, email string, amount int64) (*InitializeResult, error)
	VerifyTransaction(ctx context.Context, reference string) (string, error)
}

var _ PaymentClientInterface = (*PaystackClient)(nil)
