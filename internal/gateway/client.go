package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"storefront/internal/metrics"
)

// PaymentRequest describes a hosted-checkout session to create. ProductRef
// is set only for single-line carts whose product carries an external
// catalog identifier; otherwise Description carries a synthesized summary.
type PaymentRequest struct {
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	ProductRef    string  `json:"productRef,omitempty"`
	Quantity      int     `json:"quantity,omitempty"`
	Description   string  `json:"description,omitempty"`
	SuccessURL    string  `json:"successUrl"`
	FailURL       string  `json:"failUrl"`
}

// PaymentSession is the gateway's answer: a hosted payment page the
// customer must be redirected to.
type PaymentSession struct {
	PaymentURL string `json:"paymentUrl"`
	SessionID  string `json:"sessionId"`
}

// Client is what the checkout orchestrator calls to start a gateway payment.
type Client interface {
	CreatePaymentRequest(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
}

type sessionResponse struct {
	Status       string `json:"status"`
	FailedReason string `json:"failedReason"`
	PaymentURL   string `json:"paymentUrl"`
	SessionID    string `json:"sessionId"`
}

// HostedClient talks to the external payment processor over HTTP with a
// bounded timeout and a circuit breaker. A timeout counts as a failure like
// any other; the orchestrator compensates identically.
type HostedClient struct {
	client    *resty.Client
	breaker   *gobreaker.CircuitBreaker
	baseURL   string
	storeID   string
	storePass string
}

type Options struct {
	BaseURL   string
	StoreID   string
	StorePass string
	Timeout   time.Duration
}

func NewHostedClient(opts Options) *HostedClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "PaymentGateway",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.GatewayBreakerState.Set(state)
			log.WithFields(log.Fields{
				"circuit": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("circuit breaker state changed")
		},
	})
	metrics.GatewayBreakerState.Set(0)

	return &HostedClient{
		client:    resty.New().SetTimeout(opts.Timeout).SetRetryCount(0),
		breaker:   cb,
		baseURL:   opts.BaseURL,
		storeID:   opts.StoreID,
		storePass: opts.StorePass,
	}
}

// CreatePaymentRequest opens a hosted payment session and returns its URL.
func (g *HostedClient) CreatePaymentRequest(ctx context.Context, req PaymentRequest) (*PaymentSession, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		resp, httpErr := g.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeader("X-Store-Id", g.storeID).
			SetHeader("X-Store-Pass", g.storePass).
			SetBody(req).
			Post(g.baseURL + "/v1/payment/session")
		if httpErr != nil {
			return nil, fmt.Errorf("gateway request: %w", httpErr)
		}
		if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
			return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode(), resp.String())
		}

		var body sessionResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return nil, fmt.Errorf("gateway response parse: %w", err)
		}
		if body.Status != "success" {
			return nil, fmt.Errorf("gateway rejected request: %s", body.FailedReason)
		}
		if body.PaymentURL == "" {
			return nil, fmt.Errorf("gateway returned empty payment url")
		}
		return &PaymentSession{PaymentURL: body.PaymentURL, SessionID: body.SessionID}, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("payment gateway unavailable: %w", err)
		}
		return nil, err
	}
	return result.(*PaymentSession), nil
}
