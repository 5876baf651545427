package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrGatewayInit wraps any failure to start a transaction: transport
	// errors, non-2xx responses and a false envelope status.
	ErrGatewayInit = errors.New("payment initialization failed")
	// ErrGatewayVerify wraps transport and protocol failures of the verify
	// call. A reachable gateway reporting a non-success transaction status
	// is NOT this error; that status is returned to the caller as data.
	ErrGatewayVerify = errors.New("payment verification failed")
)

// GatewayStatusSuccess is the transaction status Paystack reports for a
// completed payment. Comparison is case-insensitive.
const GatewayStatusSuccess = "success"

type InitializeResult struct {
	AuthorizationURL string
	Reference        string
}

type PaystackClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewPaystackClient(baseURL, secretKey string, timeout time.Duration) *PaystackClient {
	return &PaystackClient{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type paystackEnvelope struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    paystackData `json:"data"`
}

type paystackData struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
	Status           string `json:"status"`
}

// InitializeTransaction starts a Paystack transaction for the given payer.
// The amount must already be converted to the minor currency unit (kobo).
func (c *PaystackClient) InitializeTransaction(ctx context.Context, email string, amount int64) (*InitializeResult, error) {
	payload, err := json.Marshal(map[string]any{
		"email":  email,
		"amount": amount,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayInit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned status %d", ErrGatewayInit, resp.StatusCode)
	}

	var env paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayInit, err)
	}
	if !env.Status {
		return nil, fmt.Errorf("%w: %s", ErrGatewayInit, env.Message)
	}

	return &InitializeResult{
		AuthorizationURL: env.Data.AuthorizationURL,
		Reference:        env.Data.Reference,
	}, nil
}

// VerifyTransaction asks Paystack for the status of a transaction and returns
// it as reported, e.g. "success", "failed" or "abandoned".
func (c *PaystackClient) VerifyTransaction(ctx context.Context, reference string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayVerify, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gateway returned status %d", ErrGatewayVerify, resp.StatusCode)
	}

	var env paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayVerify, err)
	}

	return env.Data.Status, nil
}
