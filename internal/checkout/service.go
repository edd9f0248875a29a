package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/divinobizcochito/storefront-backend/internal/cart"
	"github.com/divinobizcochito/storefront-backend/internal/catalog"
	"github.com/divinobizcochito/storefront-backend/internal/orders"
	"github.com/divinobizcochito/storefront-backend/pkg/config"
	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
	"github.com/divinobizcochito/storefront-backend/pkg/metrics"
	"github.com/divinobizcochito/storefront-backend/pkg/webpay"
)

// Service drives the Webpay checkout: session creation before the
// redirect and the single commit afterwards.
type Service interface {
	CreateSession(ctx context.Context, userID uuid.UUID, req CreateSessionRequest) (*CreateSessionResponse, error)
	Commit(ctx context.Context, token string) (*CommitResult, error)
}

type cartService interface {
	QuoteFor(ctx context.Context, owner uuid.UUID, mode enums.DeliveryMode) (*cart.Quote, error)
	Clear(ctx context.Context, owner uuid.UUID) error
}

type paymentGateway interface {
	Create(ctx context.Context, buyOrder, sessionID string, amount int64) (*webpay.CreateResponse, error)
	Commit(ctx context.Context, token string) (*webpay.CommitResponse, error)
}

type commitGuard interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CommitGuardKey(token string) string
}

// ServiceParams bundles the dependencies required to build the checkout
// service.
type ServiceParams struct {
	DB       *gorm.DB
	Sessions *Repository
	Orders   *orders.Repository
	Catalog  *catalog.Repository
	Cart     cartService
	Gateway  paymentGateway
	Guard    commitGuard
	Metrics  *metrics.CheckoutMetrics
	Config   config.CartConfig
	Logger   *logger.Logger
}

type service struct {
	db       *gorm.DB
	sessions *Repository
	orders   *orders.Repository
	catalog  *catalog.Repository
	cart     cartService
	gateway  paymentGateway
	guard    commitGuard
	metrics  *metrics.CheckoutMetrics
	guardTTL time.Duration
	logg     *logger.Logger
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("payment session repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("commit guard store required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	guardTTL := params.Config.GuardTTL
	if guardTTL <= 0 {
		guardTTL = time.Hour
	}
	return &service{
		db:       params.DB,
		sessions: params.Sessions,
		orders:   params.Orders,
		catalog:  params.Catalog,
		cart:     params.Cart,
		gateway:  params.Gateway,
		guard:    params.Guard,
		metrics:  params.Metrics,
		guardTTL: guardTTL,
		logg:     params.Logger,
	}, nil
}

// CreateSession snapshots the cart, computes the total server-side, opens
// the Webpay transaction, and persists the session in the created state.
func (s *service) CreateSession(ctx context.Context, userID uuid.UUID, req CreateSessionRequest) (*CreateSessionResponse, error) {
	mode, err := enums.ParseDeliveryMode(req.DeliveryMode)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery mode")
	}

	recipient := strings.TrimSpace(req.Recipient)
	address := strings.TrimSpace(req.Address)
	email := strings.TrimSpace(req.ContactEmail)
	if mode == enums.DeliveryModeShipping {
		if recipient == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "destinatario is required for envio")
		}
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "direccion is required for envio")
		}
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required for envio")
		}
	}

	quote, err := s.cart.QuoteFor(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	if len(quote.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el carrito está vacío")
	}

	buyOrder := newBuyOrder()
	created, err := s.gateway.Create(ctx, buyOrder, userID.String(), quote.Total)
	if err != nil {
		return nil, err
	}

	session := &models.PaymentSession{
		Token:         created.Token,
		BuyOrder:      buyOrder,
		UserID:        userID,
		Status:        enums.PaymentSessionStatusCreated,
		AmountCLP:     quote.Total,
		DeliveryMode:  mode,
		RecipientName: recipient,
		Address:       address,
		ContactEmail:  email,
		Comments:      strings.TrimSpace(req.Comments),
		CartSnapshot:  quote.Items,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting payment session")
	}

	ctx = s.logg.WithPaymentToken(s.logg.WithUserID(ctx, userID.String()), created.Token)
	s.logg.Info(ctx, "payment session created")

	return &CreateSessionResponse{URL: created.URL, Token: created.Token}, nil
}

// Commit finalizes a Webpay transaction at most once. The first request
// claims the guard and talks to Webpay; every later request for the same
// token gets the recorded outcome without a second commit.
func (s *service) Commit(ctx context.Context, token string) (*CommitResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token_ws is required")
	}
	ctx = s.logg.WithPaymentToken(ctx, token)

	claimed, err := s.guard.SetNX(ctx, s.guard.CommitGuardKey(token), "1", s.guardTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claiming commit guard")
	}
	if !claimed {
		return s.recordedOutcome(ctx, token)
	}

	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// unknown token never held a claim worth keeping
			if delErr := s.guard.Del(ctx, s.guard.CommitGuardKey(token)); delErr != nil {
				s.logg.Warn(ctx, "releasing commit guard for unknown token failed")
			}
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment session")
	}

	// the guard key can expire while the database keeps the final state
	if session.Status.IsTerminal() {
		return s.resultFor(session), nil
	}
	if session.Status == enums.PaymentSessionStatusCommitting {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment commit already in progress")
	}

	ok, err := s.sessions.MarkCommitting(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claiming payment session")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment commit already in progress")
	}

	return s.commitOnce(ctx, session)
}

// commitOnce performs the single commit against Webpay. Failures are
// terminal: the session is marked failed and never retried.
func (s *service) commitOnce(ctx context.Context, session *models.PaymentSession) (*CommitResult, error) {
	now := time.Now().UTC()

	committed, err := s.gateway.Commit(ctx, session.Token)
	if err != nil {
		s.logg.Error(ctx, "webpay commit failed", err)
		if markErr := s.sessions.MarkFailed(ctx, session.Token, nil, now); markErr != nil {
			s.logg.Error(ctx, "marking payment session failed", markErr)
		}
		s.metrics.IncCommit("failed")
		return &CommitResult{Success: false}, nil
	}

	if !committed.Approved() {
		responseCode := committed.ResponseCode
		if err := s.sessions.MarkFailed(ctx, session.Token, &responseCode, now); err != nil {
			s.logg.Error(ctx, "marking payment session failed", err)
		}
		s.metrics.IncCommit("rejected")
		s.logg.Warn(ctx, "webpay commit not authorized")
		return &CommitResult{Success: false}, nil
	}

	order := &models.Order{
		ID:                uuid.New(),
		UserID:            session.UserID,
		Status:            enums.OrderStatusPaid,
		DeliveryMode:      session.DeliveryMode,
		RecipientName:     session.RecipientName,
		Address:           session.Address,
		ContactEmail:      session.ContactEmail,
		Comments:          session.Comments,
		Items:             session.CartSnapshot,
		SubtotalCLP:       session.AmountCLP - shippingFor(session),
		ShippingCLP:       shippingFor(session),
		TotalCLP:          session.AmountCLP,
		BuyOrder:          session.BuyOrder,
		AuthorizationCode: &committed.AuthorizationCode,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		catalogTx := s.catalog.WithTx(tx)
		for _, line := range session.CartSnapshot {
			if err := catalogTx.IncrementSales(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return s.sessions.WithTx(tx).MarkApproved(ctx, session.Token, order.ID, committed.AuthorizationCode, committed.ResponseCode, now)
	})
	if err != nil {
		// the money moved; surface loudly instead of pretending failure
		s.logg.Error(ctx, "recording approved payment failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording approved payment")
	}

	if err := s.cart.Clear(ctx, session.UserID); err != nil {
		s.logg.Error(ctx, "clearing cart after payment failed", err)
	}

	s.metrics.IncCommit("approved")
	s.logg.Info(s.logg.WithUserID(ctx, session.UserID.String()), "payment approved")
	return &CommitResult{Success: true, OrderID: &order.ID}, nil
}

// recordedOutcome answers a duplicate commit request from the stored
// session state.
func (s *service) recordedOutcome(ctx context.Context, token string) (*CommitResult, error) {
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment session")
	}
	if !session.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment commit already in progress")
	}
	s.metrics.IncCommit("duplicate")
	return s.resultFor(session), nil
}

func (s *service) resultFor(session *models.PaymentSession) *CommitResult {
	if session.Status == enums.PaymentSessionStatusApproved {
		return &CommitResult{Success: true, OrderID: session.OrderID}
	}
	return &CommitResult{Success: false}
}

func shippingFor(session *models.PaymentSession) int64 {
	if session.DeliveryMode == enums.DeliveryModeShipping {
		return session.AmountCLP - session.CartSnapshot.Subtotal()
	}
	return 0
}

func newBuyOrder() string {
	// Webpay caps buy_order at 26 characters
	compact := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "bz" + compact[:24]
}
