package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"onlinemart-be/internal/auth"
	"onlinemart-be/internal/order"
	"onlinemart-be/internal/product"
	"onlinemart-be/internal/user"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"
)

// --- Service mocks ---

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) RegisterBuyer(ctx context.Context, username, email, password string) (user.User, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, usernameOrEmail, password string) (user.User, error) {
	args := m.Called(ctx, usernameOrEmail, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) CreateAdminIfMissing(ctx context.Context, username, email, password string) (user.User, error) {
	args := m.Called(ctx, username, email, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListAvailable(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) GetForBuyer(ctx context.Context, id int64) (product.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductService) ListAll(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) GetForAdmin(ctx context.Context, id int64) (product.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.CreateInput) (product.Product, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int64, input product.UpdateInput) (product.Product, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(product.Product), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Create(ctx context.Context, buyerID int64, items []order.ItemInput) (*order.Order, error) {
	args := m.Called(ctx, buyerID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListForBuyer(ctx context.Context, buyerID int64) ([]order.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) GetForBuyer(ctx context.Context, buyerID, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, buyerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) CancelForBuyer(ctx context.Context, buyerID, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, buyerID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListForAdmin(ctx context.Context, page int) ([]order.Order, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) GetForAdmin(ctx context.Context, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) Complete(ctx context.Context, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) CancelForAdmin(ctx context.Context, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) MostProfitableProduct(ctx context.Context) (*order.ProductProfit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ProductProfit), args.Error(1)
}

func (m *MockOrderService) TopPopularProducts(ctx context.Context) ([]order.ProductQuantity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ProductQuantity), args.Error(1)
}

func (m *MockOrderService) TotalItemsSold(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderService) TopPurchasedItems(ctx context.Context, buyerID int64) ([]order.ProductQuantity, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ProductQuantity), args.Error(1)
}

func (m *MockOrderService) RecentPurchasedItems(ctx context.Context, buyerID int64) ([]order.RecentPurchase, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.RecentPurchase), args.Error(1)
}

type MockWatchlistService struct {
	mock.Mock
}

func (m *MockWatchlistService) Add(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockWatchlistService) Remove(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockWatchlistService) List(ctx context.Context, userID int64) ([]product.Product, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

// --- Harness ---

type testEnv struct {
	router    *mux.Router
	tokens    *auth.TokenService
	users     *MockUserService
	products  *MockProductService
	orders    *MockOrderService
	watchlist *MockWatchlistService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tokens:    auth.NewTokenService("test-secret", "onlinemart", time.Hour),
		users:     new(MockUserService),
		products:  new(MockProductService),
		orders:    new(MockOrderService),
		watchlist: new(MockWatchlistService),
	}
	env.router = NewRouter(Handlers{
		Auth:      NewAuthHandler(env.users, env.tokens),
		Products:  NewProductHandler(env.products),
		Orders:    NewOrderHandler(env.orders),
		Watchlist: NewWatchlistHandler(env.watchlist),
	}, env.tokens)
	return env
}

func (e *testEnv) bearerFor(userID int64, username, role string) string {
	token, err := e.tokens.Issue(userID, username, role)
	if err != nil {
		panic(err)
	}
	return "Bearer " + token
}

// do routes a request through the full middleware chain. addr is the client
// address the rate limiter sees for unauthenticated requests.
func (e *testEnv) do(req *http.Request, addr string) *httptest.ResponseRecorder {
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
