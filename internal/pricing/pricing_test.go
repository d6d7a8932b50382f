package pricing

import (
	"testing"

	"github.com/umedzhan/agromarket/internal/models"
)

func line(price float64, qty int) models.CartLine {
	return models.CartLine{
		ProductID: "p",
		Price:     models.NewMoneyFromFloat(price),
		Qty:       qty,
	}
}

func assertBreakdown(t *testing.T, got models.PricingBreakdown, items, shipping, tax, total string) {
	t.Helper()
	if got.ItemsPrice.String() != items {
		t.Fatalf("itemsPrice want %s, got %s", items, got.ItemsPrice.String())
	}
	if got.ShippingPrice.String() != shipping {
		t.Fatalf("shippingPrice want %s, got %s", shipping, got.ShippingPrice.String())
	}
	if got.TaxPrice.String() != tax {
		t.Fatalf("taxPrice want %s, got %s", tax, got.TaxPrice.String())
	}
	if got.TotalPrice.String() != total {
		t.Fatalf("totalPrice want %s, got %s", total, got.TotalPrice.String())
	}
}

func TestComputeWithShipping(t *testing.T) {
	got := Compute([]models.CartLine{line(30, 2), line(25, 1)})
	assertBreakdown(t, got, "85.00", "10.00", "12.75", "107.75")
}

func TestComputeFreeShipping(t *testing.T) {
	got := Compute([]models.CartLine{line(60, 2)})
	assertBreakdown(t, got, "120.00", "0.00", "18.00", "138.00")
}

func TestFreeShippingBoundary(t *testing.T) {
	// 恰好 100 仍收运费，100.01 起免运费
	got := Compute([]models.CartLine{line(100, 1)})
	assertBreakdown(t, got, "100.00", "10.00", "15.00", "125.00")

	got = Compute([]models.CartLine{line(100.01, 1)})
	if got.ShippingPrice.String() != "0.00" {
		t.Fatalf("shippingPrice want 0.00 above threshold, got %s", got.ShippingPrice.String())
	}
}

func TestComputeEmptyCart(t *testing.T) {
	got := Compute(nil)
	assertBreakdown(t, got, "0.00", "10.00", "0.00", "10.00")
}

func TestTotalEqualsSumOfComponents(t *testing.T) {
	carts := [][]models.CartLine{
		{line(33.33, 1)},
		{line(0.01, 3), line(9.99, 7)},
		{line(19.99, 5), line(0.35, 1)},
		{line(66.67, 2)},
	}
	for _, cart := range carts {
		got := Compute(cart)
		sum := got.ItemsPrice.Add(got.ShippingPrice.Decimal).Add(got.TaxPrice.Decimal)
		if !got.TotalPrice.Equal(sum) {
			t.Fatalf("total %s != items %s + shipping %s + tax %s",
				got.TotalPrice.String(), got.ItemsPrice.String(), got.ShippingPrice.String(), got.TaxPrice.String())
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	cart := []models.CartLine{line(33.33, 3), line(0.07, 11)}
	first := Compute(cart)
	for i := 0; i < 10; i++ {
		again := Compute(cart)
		if again.ItemsPrice.String() != first.ItemsPrice.String() ||
			again.ShippingPrice.String() != first.ShippingPrice.String() ||
			again.TaxPrice.String() != first.TaxPrice.String() ||
			again.TotalPrice.String() != first.TotalPrice.String() {
			t.Fatalf("run %d produced a different breakdown", i)
		}
	}
}
