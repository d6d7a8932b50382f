package service

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/umedzhan/agromarket/internal/api"
	"github.com/umedzhan/agromarket/internal/constants"
	"github.com/umedzhan/agromarket/internal/mockapi"
	"github.com/umedzhan/agromarket/internal/models"
	"github.com/umedzhan/agromarket/internal/notify"
	"github.com/umedzhan/agromarket/internal/state"
	"github.com/umedzhan/agromarket/internal/store"
)

type orderServiceFixture struct {
	backend  *mockapi.Server
	store    *store.SQLiteStore
	session  *state.Session
	cart     *state.Cart
	checkout *state.Checkout
	recorder *notify.Recorder
	service  *OrderService
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	t.Helper()
	backend := mockapi.NewServer()
	backend.AddUser("Dana", "dana@x.dev", "pass1234", false, false)
	backend.AddProduct(models.Product{ID: "p1", Name: "Tomatoes", Price: models.NewMoneyFromFloat(30), CountInStock: 40})
	backend.AddProduct(models.Product{ID: "p2", Name: "Honey", Price: models.NewMoneyFromFloat(25), CountInStock: 15})

	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 0)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	kv, err := store.Open(dsn)
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}

	recorder := notify.NewRecorder()
	session := state.NewSession(kv, client, recorder)
	session.Initialize()
	cart := state.NewCart(kv, recorder)
	checkout := state.NewCheckout(kv)

	return &orderServiceFixture{
		backend:  backend,
		store:    kv,
		session:  session,
		cart:     cart,
		checkout: checkout,
		recorder: recorder,
		service:  NewOrderService(session, cart, checkout, client, recorder),
	}
}

func (f *orderServiceFixture) fillCart(t *testing.T) {
	t.Helper()
	f.cart.AddToCart(models.Product{ID: "p1", Name: "Tomatoes", Price: models.NewMoneyFromFloat(30), CountInStock: 40}, 2)
	f.cart.AddToCart(models.Product{ID: "p2", Name: "Honey", Price: models.NewMoneyFromFloat(25), CountInStock: 15}, 1)
}

func (f *orderServiceFixture) saveAddress(t *testing.T) {
	t.Helper()
	err := f.checkout.SaveShippingAddress(models.ShippingAddress{
		Address:    "12 Orchard Lane",
		City:       "Almaty",
		PostalCode: "050000",
		Country:    "Kazakhstan",
	})
	if err != nil {
		t.Fatalf("save address failed: %v", err)
	}
}

func TestGateOrderAndNoBackendContact(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	if step := f.service.NextStep(); step != constants.CheckoutStepLogin {
		t.Fatalf("want login step, got %s", step)
	}
	if _, err := f.service.PlaceOrder(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}

	if !f.session.Login(ctx, "dana@x.dev", "pass1234") {
		t.Fatalf("login failed")
	}
	if step := f.service.NextStep(); step != constants.CheckoutStepCart {
		t.Fatalf("want cart step, got %s", step)
	}
	if _, err := f.service.PlaceOrder(ctx); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("want ErrCartEmpty, got %v", err)
	}

	f.fillCart(t)
	if step := f.service.NextStep(); step != constants.CheckoutStepShipping {
		t.Fatalf("want shipping step, got %s", step)
	}
	if _, err := f.service.PlaceOrder(ctx); !errors.Is(err, ErrNoShippingAddress) {
		t.Fatalf("want ErrNoShippingAddress, got %v", err)
	}

	f.saveAddress(t)
	if step := f.service.NextStep(); step != constants.CheckoutStepPayment {
		t.Fatalf("want payment step, got %s", step)
	}
	if _, err := f.service.PlaceOrder(ctx); !errors.Is(err, ErrNoPaymentMethod) {
		t.Fatalf("want ErrNoPaymentMethod, got %v", err)
	}

	// 闸口未全部通过时，订单端点从未被触达
	if calls := f.backend.CreateOrderCalls(); calls != 0 {
		t.Fatalf("backend contacted %d times before gates passed", calls)
	}

	if err := f.checkout.SavePaymentMethod(constants.PaymentMethodPayPal); err != nil {
		t.Fatalf("save method failed: %v", err)
	}
	if step := f.service.NextStep(); step != constants.CheckoutStepReady {
		t.Fatalf("want ready step, got %s", step)
	}
}

func TestPlaceOrderSuccessClearsCart(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	if !f.session.Login(ctx, "dana@x.dev", "pass1234") {
		t.Fatalf("login failed")
	}
	f.fillCart(t)
	f.saveAddress(t)
	if err := f.checkout.SavePaymentMethod(constants.PaymentMethodCashOnDelivery); err != nil {
		t.Fatalf("save method failed: %v", err)
	}

	order, err := f.service.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.ID == "" {
		t.Fatalf("order must carry a persisted identity")
	}
	// 提交时重新计算的分项价格原样传给后端
	if order.ItemsPrice.String() != "85.00" || order.ShippingPrice.String() != "10.00" ||
		order.TaxPrice.String() != "12.75" || order.TotalPrice.String() != "107.75" {
		t.Fatalf("unexpected pricing on created order: %s %s %s %s",
			order.ItemsPrice.String(), order.ShippingPrice.String(), order.TaxPrice.String(), order.TotalPrice.String())
	}

	if !f.cart.IsEmpty() {
		t.Fatalf("cart must clear after successful submission")
	}
	var leftover []models.CartLine
	if f.store.Get(constants.StorageKeyCartItems, &leftover) {
		t.Fatalf("persisted cart record must be removed")
	}
	found := false
	for _, message := range f.recorder.Successes {
		if message == "Order Placed Successfully" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing success notification: %v", f.recorder.Successes)
	}

	// 结算状态保留，供下一单复用
	if _, ok := f.checkout.ShippingAddress(); !ok {
		t.Fatalf("shipping address must survive submission")
	}
}

func TestPlaceOrderFailureLeavesStateUntouched(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()

	if !f.session.Login(ctx, "dana@x.dev", "pass1234") {
		t.Fatalf("login failed")
	}
	f.fillCart(t)
	f.saveAddress(t)
	if err := f.checkout.SavePaymentMethod(constants.PaymentMethodStripe); err != nil {
		t.Fatalf("save method failed: %v", err)
	}

	// 指向不可达的后端模拟传输失败
	deadClient := api.NewClient("http://127.0.0.1:1", 0)
	failing := NewOrderService(f.session, f.cart, f.checkout, deadClient, f.recorder)

	if _, err := failing.PlaceOrder(ctx); err == nil {
		t.Fatalf("expected transport failure")
	}
	if f.cart.IsEmpty() {
		t.Fatalf("failed submission must leave the cart intact")
	}
	if f.checkout.PaymentMethod() != constants.PaymentMethodStripe {
		t.Fatalf("failed submission must leave checkout state intact")
	}
	if len(f.recorder.Errors) == 0 {
		t.Fatalf("transport failure must surface a notification")
	}
}

func TestBreakdownMatchesLiveCart(t *testing.T) {
	f := setupOrderServiceTest(t)
	f.fillCart(t)
	breakdown := f.service.Breakdown()
	if breakdown.TotalPrice.String() != "107.75" {
		t.Fatalf("live breakdown total want 107.75, got %s", breakdown.TotalPrice.String())
	}
}

func TestMyOrdersRequiresAuth(t *testing.T) {
	f := setupOrderServiceTest(t)
	if _, err := f.service.MyOrders(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
}

func TestOrderRetrievableAfterSubmission(t *testing.T) {
	f := setupOrderServiceTest(t)
	ctx := context.Background()
	if !f.session.Login(ctx, "dana@x.dev", "pass1234") {
		t.Fatalf("login failed")
	}
	f.fillCart(t)
	f.saveAddress(t)
	if err := f.checkout.SavePaymentMethod(constants.PaymentMethodPayPal); err != nil {
		t.Fatalf("save method failed: %v", err)
	}
	order, err := f.service.PlaceOrder(ctx)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	fetched, err := f.service.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if fetched.ID != order.ID || fetched.TotalPrice.String() != order.TotalPrice.String() {
		t.Fatalf("fetched order mismatch: %+v", fetched)
	}

	orders, err := f.service.MyOrders(ctx)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("order history mismatch: %+v", orders)
	}
}
