package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/umedzhan/agromarket/internal/mockapi"
	"github.com/umedzhan/agromarket/internal/models"
)

func setupClientTest(t *testing.T) (*Client, *mockapi.Server, models.Principal) {
	t.Helper()
	backend := mockapi.NewServer()
	principal := backend.AddUser("Dana", "dana@x.dev", "pass1234", false, false)
	backend.AddProduct(models.Product{ID: "p1", Name: "Organic Tomatoes", Category: "Vegetables", Price: models.NewMoneyFromFloat(4.50), CountInStock: 40})
	backend.AddProduct(models.Product{ID: "p2", Name: "Fresh Apples", Category: "Fruits", Price: models.NewMoneyFromFloat(3.20), CountInStock: 80})

	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 0), backend, principal
}

func TestBackendMessagePassedVerbatim(t *testing.T) {
	client, _, _ := setupClientTest(t)

	_, err := client.Login(context.Background(), "dana@x.dev", "wrong")
	if err == nil {
		t.Fatalf("expected login failure")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("want BackendError, got %T", err)
	}
	if backendErr.Message != "Invalid email or password" {
		t.Fatalf("backend message altered: %q", backendErr.Message)
	}
	if Message(err) != "Invalid email or password" {
		t.Fatalf("Message() must return backend text, got %q", Message(err))
	}
}

func TestTransportFailureMessage(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 0)
	_, err := client.GetProduct(context.Background(), "p1")
	if err == nil {
		t.Fatalf("expected transport failure")
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("transport failure must wrap ErrRequestFailed, got %v", err)
	}
	if Message(err) == "" {
		t.Fatalf("transport failure must carry a message")
	}
}

func TestBearerTokenRequired(t *testing.T) {
	client, _, principal := setupClientTest(t)
	ctx := context.Background()

	if _, err := client.GetWishlist(ctx, ""); err == nil {
		t.Fatalf("wishlist without token must be rejected")
	} else if Message(err) != "Not authorized, no token" {
		t.Fatalf("unexpected message: %q", Message(err))
	}

	wishlist, err := client.GetWishlist(ctx, principal.Token)
	if err != nil {
		t.Fatalf("wishlist with token failed: %v", err)
	}
	if len(wishlist) != 0 {
		t.Fatalf("fresh wishlist should be empty, got %+v", wishlist)
	}
}

func TestListProductsFilters(t *testing.T) {
	client, _, _ := setupClientTest(t)
	ctx := context.Background()

	page, err := client.ListProducts(ctx, ListProductsInput{Keyword: "tomatoes"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Products) != 1 || page.Products[0].ID != "p1" {
		t.Fatalf("keyword filter mismatch: %+v", page.Products)
	}

	page, err = client.ListProducts(ctx, ListProductsInput{Category: "Fruits"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Products) != 1 || page.Products[0].ID != "p2" {
		t.Fatalf("category filter mismatch: %+v", page.Products)
	}
}

func TestGetProductNotFound(t *testing.T) {
	client, _, _ := setupClientTest(t)
	_, err := client.GetProduct(context.Background(), "missing")
	if err == nil || Message(err) != "Product not found" {
		t.Fatalf("want not-found message, got %v", err)
	}
}

func TestCreateOrderIdempotencyKeyDeduplicates(t *testing.T) {
	client, backend, principal := setupClientTest(t)
	ctx := context.Background()

	draft := models.OrderDraft{
		OrderItems: []models.OrderItem{
			{Product: "p1", Name: "Organic Tomatoes", Price: models.NewMoneyFromFloat(4.50), Qty: 2},
		},
		ShippingAddress: models.ShippingAddress{Address: "12 Orchard Lane", City: "Almaty", PostalCode: "050000", Country: "Kazakhstan"},
		PaymentMethod:   "PayPal",
		ItemsPrice:      models.NewMoneyFromFloat(9.00),
		ShippingPrice:   models.NewMoneyFromFloat(10.00),
		TaxPrice:        models.NewMoneyFromFloat(1.35),
		TotalPrice:      models.NewMoneyFromFloat(20.35),
		IdempotencyKey:  "draft-key-1",
	}

	first, err := client.CreateOrder(ctx, principal.Token, draft)
	if err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	// 网络假失败后的重试：同一幂等键拿回同一订单
	second, err := client.CreateOrder(ctx, principal.Token, draft)
	if err != nil {
		t.Fatalf("retried submission failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("retry with same key created a duplicate: %s vs %s", first.ID, second.ID)
	}
	if backend.CreateOrderCalls() != 2 {
		t.Fatalf("both attempts should hit the endpoint, got %d", backend.CreateOrderCalls())
	}
}

func TestAdminOrderOperations(t *testing.T) {
	client, backend, principal := setupClientTest(t)
	admin := backend.AddUser("Admin", "admin@x.dev", "admin1234", true, false)
	ctx := context.Background()

	draft := models.OrderDraft{
		OrderItems:    []models.OrderItem{{Product: "p1", Name: "Organic Tomatoes", Price: models.NewMoneyFromFloat(4.50), Qty: 1}},
		PaymentMethod: "CashOnDelivery",
	}
	order, err := client.CreateOrder(ctx, principal.Token, draft)
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// 普通用户无权标记支付
	if _, err := client.MarkOrderPaid(ctx, principal.Token, order.ID); err == nil {
		t.Fatalf("non-admin must not mark orders paid")
	}

	paid, err := client.MarkOrderPaid(ctx, admin.Token, order.ID)
	if err != nil {
		t.Fatalf("admin pay failed: %v", err)
	}
	if !paid.IsPaid || paid.PaidAt == nil {
		t.Fatalf("order not marked paid: %+v", paid)
	}

	delivered, err := client.MarkOrderDelivered(ctx, admin.Token, order.ID)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if !delivered.IsDelivered {
		t.Fatalf("order not marked delivered: %+v", delivered)
	}
}
