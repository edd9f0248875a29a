package webpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/divinobizcochito/storefront-backend/pkg/config"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
)

const (
	integrationEnv = "integration"
	productionEnv  = "production"

	transactionsPath = "/rswebpaytransaction/api/webpay/v1.2/transactions"

	headerAPIKeyID     = "Tbk-Api-Key-Id"
	headerAPIKeySecret = "Tbk-Api-Key-Secret"
)

var (
	errCommerceCodeRequired = errors.New("webpay commerce code is required")
	errAPIKeyRequired       = errors.New("webpay api key is required")
	errReturnURLRequired    = errors.New("webpay return url is required")
	errLoggerRequired       = errors.New("webpay logger is required")
	errInvalidWebpayEnv     = fmt.Errorf("webpay environment must be %q or %q", integrationEnv, productionEnv)
)

var baseURLs = map[string]string{
	integrationEnv: "https://webpay3gint.transbank.cl",
	productionEnv:  "https://webpay3g.transbank.cl",
}

// CreateRequest carries the data needed to open a Webpay Plus transaction.
type CreateRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int64  `json:"amount"`
	ReturnURL string `json:"return_url"`
}

// CreateResponse is Webpay's answer to a transaction create.
type CreateResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// CommitResponse is Webpay's answer to a transaction commit.
// ResponseCode 0 with status AUTHORIZED means the payment went through.
type CommitResponse struct {
	VCI               string  `json:"vci"`
	Amount            float64 `json:"amount"`
	Status            string  `json:"status"`
	BuyOrder          string  `json:"buy_order"`
	SessionID         string  `json:"session_id"`
	CardNumber        string  `json:"card_detail,omitempty"`
	AuthorizationCode string  `json:"authorization_code"`
	ResponseCode      int     `json:"response_code"`
	TransactionDate   string  `json:"transaction_date"`
}

// Approved reports whether the commit authorized the payment.
func (c CommitResponse) Approved() bool {
	return c.ResponseCode == 0 && strings.EqualFold(c.Status, "AUTHORIZED")
}

// Client talks to the Webpay Plus REST API with centralized auth,
// logging, and error mapping.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	commerceCode string
	apiKey       string
	returnURL    string
	environment  string
	logger       *logger.Logger
}

// NewClient initializes the Webpay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.WebpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	commerceCode := strings.TrimSpace(cfg.CommerceCode)
	if commerceCode == "" {
		return nil, errCommerceCodeRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	returnURL := strings.TrimSpace(cfg.ReturnURL)
	if returnURL == "" {
		return nil, errReturnURLRequired
	}

	c := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      baseURLs[env],
		commerceCode: commerceCode,
		apiKey:       apiKey,
		returnURL:    returnURL,
		environment:  env,
		logger:       logg,
	}

	logg.Info(ctx, fmt.Sprintf("webpay client initialized (%s)", env))
	return c, nil
}

// Environment reports the normalized Webpay environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// ReturnURL returns the configured browser return URL.
func (c *Client) ReturnURL() string {
	if c == nil {
		return ""
	}
	return c.returnURL
}

// Create opens a Webpay Plus transaction and returns its token and redirect URL.
func (c *Client) Create(ctx context.Context, buyOrder, sessionID string, amount int64) (*CreateResponse, error) {
	if strings.TrimSpace(buyOrder) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buy order is required")
	}
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	body := CreateRequest{
		BuyOrder:  buyOrder,
		SessionID: sessionID,
		Amount:    amount,
		ReturnURL: c.returnURL,
	}

	ctx = c.logger.WithFields(ctx, map[string]any{"buy_order": buyOrder, "amount": amount})
	c.logger.Info(ctx, "webpay create transaction")

	var out CreateResponse
	if err := c.do(ctx, http.MethodPost, transactionsPath, body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.URL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "webpay returned an incomplete create response")
	}
	return &out, nil
}

// Commit confirms the transaction identified by token. Webpay allows a
// single commit per token; repeated calls fail on their side as well.
func (c *Client) Commit(ctx context.Context, token string) (*CommitResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	ctx = c.logger.WithPaymentToken(ctx, token)
	c.logger.Info(ctx, "webpay commit transaction")

	var out CommitResponse
	if err := c.do(ctx, http.MethodPut, transactionsPath+"/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status fetches the current state of the transaction without committing it.
func (c *Client) Status(ctx context.Context, token string) (*CommitResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}

	var out CommitResponse
	if err := c.do(ctx, http.MethodGet, transactionsPath+"/"+token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding webpay request")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building webpay request")
	}
	req.Header.Set(headerAPIKeyID, c.commerceCode)
	req.Header.Set(headerAPIKeySecret, c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling webpay")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading webpay response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapAPIError(ctx, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding webpay response")
		}
	}
	return nil
}

type apiError struct {
	ErrorMessage string `json:"error_message"`
	Description  string `json:"description"`
}

func (c *Client) mapAPIError(ctx context.Context, status int, raw []byte) error {
	var decoded apiError
	_ = json.Unmarshal(raw, &decoded)
	message := decoded.ErrorMessage
	if message == "" {
		message = decoded.Description
	}
	if message == "" {
		message = fmt.Sprintf("webpay returned status %d", status)
	}

	c.logger.Warn(c.logger.WithField(ctx, "webpay_status", status), "webpay request rejected: "+message)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeDependency, "webpay rejected the configured credentials")
	case status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "webpay transaction not found")
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return pkgerrors.New(pkgerrors.CodeStateConflict, message)
	case status >= 500:
		return pkgerrors.New(pkgerrors.CodeDependency, "webpay is unavailable")
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	}
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = integrationEnv
	}
	switch env {
	case integrationEnv, productionEnv:
		return env, nil
	default:
		return "", errInvalidWebpayEnv
	}
}
