package checkout

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/divinobizcochito/storefront-backend/internal/cart"
	"github.com/divinobizcochito/storefront-backend/internal/catalog"
	"github.com/divinobizcochito/storefront-backend/internal/orders"
	"github.com/divinobizcochito/storefront-backend/pkg/config"
	"github.com/divinobizcochito/storefront-backend/pkg/db/models"
	"github.com/divinobizcochito/storefront-backend/pkg/enums"
	pkgerrors "github.com/divinobizcochito/storefront-backend/pkg/errors"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
	"github.com/divinobizcochito/storefront-backend/pkg/types"
	"github.com/divinobizcochito/storefront-backend/pkg/webpay"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS payment_sessions (
  token TEXT PRIMARY KEY,
  buy_order TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'created',
  amount_clp INTEGER NOT NULL,
  delivery_mode TEXT NOT NULL,
  recipient_name TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  contact_email TEXT NOT NULL DEFAULT '',
  comments TEXT NOT NULL DEFAULT '',
  cart_snapshot TEXT NOT NULL DEFAULT '[]',
  order_id TEXT,
  authorization_code TEXT,
  response_code INTEGER,
  committed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS pedidos (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pagado',
  delivery_mode TEXT NOT NULL,
  recipient_name TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  contact_email TEXT NOT NULL DEFAULT '',
  comments TEXT NOT NULL DEFAULT '',
  items TEXT NOT NULL DEFAULT '[]',
  subtotal_clp INTEGER NOT NULL,
  shipping_clp INTEGER NOT NULL DEFAULT 0,
  total_clp INTEGER NOT NULL,
  buy_order TEXT NOT NULL UNIQUE,
  authorization_code TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS productos (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nombre TEXT NOT NULL,
  descripcion TEXT NOT NULL DEFAULT '',
  precio INTEGER NOT NULL,
  imagen TEXT NOT NULL DEFAULT '',
  categoria_id INTEGER,
  ventas INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type fakeGuard struct {
	mu     sync.Mutex
	claims map[string]struct{}
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{claims: make(map[string]struct{})}
}

func (g *fakeGuard) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.claims[key]; held {
		return false, nil
	}
	g.claims[key] = struct{}{}
	return true, nil
}

func (g *fakeGuard) Del(ctx context.Context, keys ...string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, key := range keys {
		delete(g.claims, key)
	}
	return nil
}

func (g *fakeGuard) CommitGuardKey(token string) string {
	return "bz:webpay_commit:" + token
}

type fakeGateway struct {
	createCalls int
	commitCalls int
	commitResp  *webpay.CommitResponse
	commitErr   error
}

func (g *fakeGateway) Create(ctx context.Context, buyOrder, sessionID string, amount int64) (*webpay.CreateResponse, error) {
	g.createCalls++
	return &webpay.CreateResponse{
		Token: "tok-" + buyOrder,
		URL:   "https://webpay3gint.transbank.cl/webpayserver/initTransaction",
	}, nil
}

func (g *fakeGateway) Commit(ctx context.Context, token string) (*webpay.CommitResponse, error) {
	g.commitCalls++
	if g.commitErr != nil {
		return nil, g.commitErr
	}
	return g.commitResp, nil
}

type fakeCart struct {
	quote      *cart.Quote
	quoteErr   error
	clearCalls int
}

func (c *fakeCart) QuoteFor(ctx context.Context, owner uuid.UUID, mode enums.DeliveryMode) (*cart.Quote, error) {
	if c.quoteErr != nil {
		return nil, c.quoteErr
	}
	return c.quote, nil
}

func (c *fakeCart) Clear(ctx context.Context, owner uuid.UUID) error {
	c.clearCalls++
	return nil
}

type checkoutFixture struct {
	svc      Service
	db       *gorm.DB
	sessions *Repository
	gateway  *fakeGateway
	cart     *fakeCart
	guard    *fakeGuard
}

func newCheckoutFixture(t *testing.T, gateway *fakeGateway, cartSvc *fakeCart) *checkoutFixture {
	t.Helper()

	db := setupCheckoutTestDB(t)
	sessions := NewRepository(db)
	guard := newFakeGuard()
	svc, err := NewService(ServiceParams{
		DB:       db,
		Sessions: sessions,
		Orders:   orders.NewRepository(db),
		Catalog:  catalog.NewRepository(db),
		Cart:     cartSvc,
		Gateway:  gateway,
		Guard:    guard,
		Config:   config.CartConfig{ShippingSurcharge: 2000, GuardTTL: time.Hour},
		Logger:   logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return &checkoutFixture{svc: svc, db: db, sessions: sessions, gateway: gateway, cart: cartSvc, guard: guard}
}

func sampleQuote(mode enums.DeliveryMode) *cart.Quote {
	lines := types.CartLines{{
		LineID:    uuid.New(),
		ProductID: 1,
		Name:      "Bizcochito clásico",
		Quantity:  2,
		UnitPrice: 4990,
		Topping:   "chocolate",
		Filling:   "manjar",
	}}
	quote := &cart.Quote{
		Items:        lines,
		Subtotal:     lines.Subtotal(),
		Total:        lines.Subtotal(),
		DeliveryMode: mode,
	}
	if mode == enums.DeliveryModeShipping {
		quote.Shipping = 2000
		quote.Total += 2000
	}
	return quote
}

func mustCreateSession(t *testing.T, fixture *checkoutFixture, userID uuid.UUID) *CreateSessionResponse {
	t.Helper()
	resp, err := fixture.svc.CreateSession(context.Background(), userID, CreateSessionRequest{
		DeliveryMode: "retiro",
		Recipient:    "Clienta Feliz",
	})
	require.NoError(t, err)
	return resp
}

func TestCreateSessionEnvioRequiresAddress(t *testing.T) {
	gateway := &fakeGateway{}
	fixture := newCheckoutFixture(t, gateway, &fakeCart{quote: sampleQuote(enums.DeliveryModeShipping)})

	_, err := fixture.svc.CreateSession(context.Background(), uuid.New(), CreateSessionRequest{
		DeliveryMode: "envio",
		Recipient:    "Clienta Feliz",
		ContactEmail: "clienta@example.com",
	})
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeValidation, domainErr.Code())
	assert.Zero(t, gateway.createCalls)
}

func TestCreateSessionEmptyCartRejected(t *testing.T) {
	gateway := &fakeGateway{}
	fixture := newCheckoutFixture(t, gateway, &fakeCart{quote: &cart.Quote{DeliveryMode: enums.DeliveryModePickup}})

	_, err := fixture.svc.CreateSession(context.Background(), uuid.New(), CreateSessionRequest{DeliveryMode: "retiro"})
	require.Error(t, err)
	assert.Zero(t, gateway.createCalls)
}

func TestCreateSessionPersistsSnapshot(t *testing.T) {
	gateway := &fakeGateway{}
	fixture := newCheckoutFixture(t, gateway, &fakeCart{quote: sampleQuote(enums.DeliveryModeShipping)})
	userID := uuid.New()

	resp, err := fixture.svc.CreateSession(context.Background(), userID, CreateSessionRequest{
		DeliveryMode: "envio",
		Recipient:    "Clienta Feliz",
		Address:      "Av. Siempre Dulce 742",
		ContactEmail: "clienta@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.URL)

	session, err := fixture.sessions.FindByToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentSessionStatusCreated, session.Status)
	assert.Equal(t, int64(11980), session.AmountCLP)
	assert.Equal(t, userID, session.UserID)
	require.Len(t, session.CartSnapshot, 1)
	assert.LessOrEqual(t, len(session.BuyOrder), 26)
}

func seedProduct(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{
		ID:       1,
		Name:     "Bizcochito clásico",
		Price:    4990,
		Sales:    10,
		IsActive: true,
	}).Error)
}

func approvedResponse() *webpay.CommitResponse {
	return &webpay.CommitResponse{
		Status:            "AUTHORIZED",
		ResponseCode:      0,
		AuthorizationCode: "1213",
	}
}

func TestCommitApprovedCreatesOrderAndClearsCart(t *testing.T) {
	gateway := &fakeGateway{commitResp: approvedResponse()}
	cartSvc := &fakeCart{quote: sampleQuote(enums.DeliveryModePickup)}
	fixture := newCheckoutFixture(t, gateway, cartSvc)
	seedProduct(t, fixture.db)
	userID := uuid.New()
	created := mustCreateSession(t, fixture, userID)

	result, err := fixture.svc.Commit(context.Background(), created.Token)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.OrderID)

	order, err := orders.NewRepository(fixture.db).FindByID(context.Background(), *result.OrderID)
	require.NoError(t, err)
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, int64(9980), order.TotalCLP)
	assert.Equal(t, int64(0), order.ShippingCLP)

	var product models.Product
	require.NoError(t, fixture.db.First(&product, "id = ?", 1).Error)
	assert.Equal(t, int64(12), product.Sales)

	session, err := fixture.sessions.FindByToken(context.Background(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentSessionStatusApproved, session.Status)
	require.NotNil(t, session.OrderID)
	assert.Equal(t, *result.OrderID, *session.OrderID)

	assert.Equal(t, 1, cartSvc.clearCalls)
}

func TestCommitDuplicateReturnsRecordedOutcomeWithoutSecondCommit(t *testing.T) {
	gateway := &fakeGateway{commitResp: approvedResponse()}
	fixture := newCheckoutFixture(t, gateway, &fakeCart{quote: sampleQuote(enums.DeliveryModePickup)})
	seedProduct(t, fixture.db)
	created := mustCreateSession(t, fixture, uuid.New())

	first, err := fixture.svc.Commit(context.Background(), created.Token)
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := fixture.svc.Commit(context.Background(), created.Token)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, *first.OrderID, *second.OrderID)
	assert.Equal(t, 1, gateway.commitCalls)
}

func TestCommitRejectedMarksSessionFailed(t *testing.T) {
	gateway := &fakeGateway{commitResp: &webpay.CommitResponse{Status: "FAILED", ResponseCode: -1}}
	cartSvc := &fakeCart{quote: sampleQuote(enums.DeliveryModePickup)}
	fixture := newCheckoutFixture(t, gateway, cartSvc)
	created := mustCreateSession(t, fixture, uuid.New())

	result, err := fixture.svc.Commit(context.Background(), created.Token)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Nil(t, result.OrderID)

	session, err := fixture.sessions.FindByToken(context.Background(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentSessionStatusFailed, session.Status)
	require.NotNil(t, session.ResponseCode)
	assert.Equal(t, -1, *session.ResponseCode)
	assert.Zero(t, cartSvc.clearCalls)
}

func TestCommitGatewayErrorFailsWithoutRetry(t *testing.T) {
	gateway := &fakeGateway{commitErr: fmt.Errorf("connection reset")}
	fixture := newCheckoutFixture(t, gateway, &fakeCart{quote: sampleQuote(enums.DeliveryModePickup)})
	created := mustCreateSession(t, fixture, uuid.New())

	result, err := fixture.svc.Commit(context.Background(), created.Token)
	require.NoError(t, err)
	assert.False(t, result.Success)

	// replay sees the recorded failure, no second attempt
	second, err := fixture.svc.Commit(context.Background(), created.Token)
	require.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, 1, gateway.commitCalls)
}

func TestCommitWhileCommittingConflicts(t *testing.T) {
	gateway := &fakeGateway{commitResp: approvedResponse()}
	fixture := newCheckoutFixture(t, gateway, &fakeCart{quote: sampleQuote(enums.DeliveryModePickup)})
	created := mustCreateSession(t, fixture, uuid.New())

	claimed, err := fixture.sessions.MarkCommitting(context.Background(), created.Token)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = fixture.svc.Commit(context.Background(), created.Token)
	domainErr := pkgerrors.As(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, pkgerrors.CodeStateConflict, domainErr.Code())
	assert.Zero(t, gateway.commitCalls)
}

func TestCommitUnknownTokenReleasesGuard(t *testing.T) {
	gateway := &fakeGateway{}
	fixture := newCheckoutFixture(t, gateway, &fakeCart{quote: sampleQuote(enums.DeliveryModePickup)})

	for i := 0; i < 2; i++ {
		_, err := fixture.svc.Commit(context.Background(), "tok-desconocido")
		domainErr := pkgerrors.As(err)
		require.NotNil(t, domainErr)
		assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())
	}
	assert.Zero(t, gateway.commitCalls)
}

func TestMarkCommittingClaimsOnlyOnce(t *testing.T) {
	fixture := newCheckoutFixture(t, &fakeGateway{}, &fakeCart{quote: sampleQuote(enums.DeliveryModePickup)})
	created := mustCreateSession(t, fixture, uuid.New())

	first, err := fixture.sessions.MarkCommitting(context.Background(), created.Token)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := fixture.sessions.MarkCommitting(context.Background(), created.Token)
	require.NoError(t, err)
	assert.False(t, second)
}
