package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eshop-order/internal/middleware"
	"eshop-order/internal/model"
	"eshop-order/internal/payment"
	"eshop-order/internal/session"
)

// MockShopRepository is a mock implementation of repository.ShopRepository.
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Shop, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shop), args.Error(1)
}

// MockGateway is a mock implementation of payment.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateIntent(ctx context.Context, req payment.IntentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) Transfer(ctx context.Context, req payment.TransferRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type paymentFixture struct {
	handler *PaymentHandler
	shops   *MockShopRepository
	gateway *MockGateway
	manager *session.Manager
}

func setupPaymentHandler(t *testing.T) *paymentFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := session.NewRedisStore(client, zerolog.Nop())
	shops := new(MockShopRepository)
	gateway := new(MockGateway)
	manager := session.NewManager(store, shops, zerolog.Nop())
	intents := payment.NewIntentAdapter(manager, gateway, zerolog.Nop())

	return &paymentFixture{
		handler: NewPaymentHandler(manager, intents, zerolog.Nop()),
		shops:   shops,
		gateway: gateway,
		manager: manager,
	}
}

// authedRequest builds a request carrying the user identity the auth
// middleware would have attached.
func authedRequest(method, target, userID string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

func validSessionRequest() *model.PaymentSessionRequest {
	return &model.PaymentSessionRequest{
		Cart: []model.CartLine{
			{ProductID: "P001", Quantity: 1, SalePrice: 12.50, ShopID: "S1"},
		},
	}
}

func TestPaymentHandler_CreateSession(t *testing.T) {
	f := setupPaymentHandler(t)
	f.shops.On("GetByIDs", mock.Anything, []string{"S1"}).Return([]model.Shop{
		{ID: "S1", SellerID: "seller-1", Name: "Shop One"},
	}, nil)

	w := httptest.NewRecorder()
	f.handler.CreateSession(w, authedRequest(http.MethodPost, "/order/api/create-payment-session", "user-1", validSessionRequest()))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp model.PaymentSessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.SessionID)
}

func TestPaymentHandler_CreateSession_Unauthenticated(t *testing.T) {
	f := setupPaymentHandler(t)

	w := httptest.NewRecorder()
	f.handler.CreateSession(w, authedRequest(http.MethodPost, "/order/api/create-payment-session", "", validSessionRequest()))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPaymentHandler_CreateSession_InvalidBody(t *testing.T) {
	f := setupPaymentHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/order/api/create-payment-session", bytes.NewBufferString("{not json"))
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))

	w := httptest.NewRecorder()
	f.handler.CreateSession(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_CreateSession_EmptyCart(t *testing.T) {
	f := setupPaymentHandler(t)

	w := httptest.NewRecorder()
	f.handler.CreateSession(w, authedRequest(http.MethodPost, "/order/api/create-payment-session", "user-1", &model.PaymentSessionRequest{}))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCartEmpty.Message, resp.Error)
}

func TestPaymentHandler_CreateSession_MethodNotAllowed(t *testing.T) {
	f := setupPaymentHandler(t)

	w := httptest.NewRecorder()
	f.handler.CreateSession(w, authedRequest(http.MethodGet, "/order/api/create-payment-session", "user-1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestPaymentHandler_VerifySession(t *testing.T) {
	f := setupPaymentHandler(t)
	f.shops.On("GetByIDs", mock.Anything, mock.Anything).Return([]model.Shop{
		{ID: "S1", SellerID: "seller-1", Name: "Shop One"},
	}, nil)

	sessionID, err := f.manager.CreateOrReuse(context.Background(), "user-1", validSessionRequest())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.handler.VerifySession(w, authedRequest(http.MethodGet, "/order/api/verifying-payment-session?sessionId="+sessionID, "user-1", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.VerifySessionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Session)
	assert.Equal(t, "user-1", resp.Session.UserID)
	assert.Equal(t, 12.50, resp.Session.TotalAmount)
}

func TestPaymentHandler_VerifySession_MissingID(t *testing.T) {
	f := setupPaymentHandler(t)

	w := httptest.NewRecorder()
	f.handler.VerifySession(w, authedRequest(http.MethodGet, "/order/api/verifying-payment-session", "user-1", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_VerifySession_NotFound(t *testing.T) {
	f := setupPaymentHandler(t)

	w := httptest.NewRecorder()
	f.handler.VerifySession(w, authedRequest(http.MethodGet, "/order/api/verifying-payment-session?sessionId=gone", "user-1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentHandler_CreateIntent(t *testing.T) {
	f := setupPaymentHandler(t)
	f.shops.On("GetByIDs", mock.Anything, mock.Anything).Return([]model.Shop{
		{ID: "S1", SellerID: "seller-1", Name: "Shop One"},
	}, nil)
	f.gateway.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req payment.IntentRequest) bool {
		return req.AmountMinor == 1250 && req.UserID == "user-1"
	})).Return("pi_secret_xyz", nil)

	sessionID, err := f.manager.CreateOrReuse(context.Background(), "user-1", validSessionRequest())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.handler.CreateIntent(w, authedRequest(http.MethodPost, "/order/api/create-payment-intent", "user-1", &model.PaymentIntentRequest{SessionID: sessionID}))

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.PaymentIntentResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "pi_secret_xyz", resp.ClientSecret)
	f.gateway.AssertExpectations(t)
}

func TestPaymentHandler_CreateIntent_MissingSessionID(t *testing.T) {
	f := setupPaymentHandler(t)

	w := httptest.NewRecorder()
	f.handler.CreateIntent(w, authedRequest(http.MethodPost, "/order/api/create-payment-intent", "user-1", &model.PaymentIntentRequest{}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_CreateIntent_SessionExpired(t *testing.T) {
	f := setupPaymentHandler(t)

	w := httptest.NewRecorder()
	f.handler.CreateIntent(w, authedRequest(http.MethodPost, "/order/api/create-payment-intent", "user-1", &model.PaymentIntentRequest{SessionID: "expired"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	f.gateway.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}
