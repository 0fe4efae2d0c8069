package core

import (
	"encoding/json"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
)

func TestSideString(t *testing.T) {
	if Buy.String() != "BUY" {
		t.Errorf("Expected BUY, got %s", Buy.String())
	}
	if Sell.String() != "SELL" {
		t.Errorf("Expected SELL, got %s", Sell.String())
	}
	if Side(42).String() != "UNKNOWN" {
		t.Errorf("Expected UNKNOWN, got %s", Side(42).String())
	}
}

func TestSideFromString(t *testing.T) {
	side, err := SideFromString("buy")
	if err != nil || side != Buy {
		t.Errorf("Expected Buy, got %v (err %v)", side, err)
	}
	side, err = SideFromString("SELL")
	if err != nil || side != Sell {
		t.Errorf("Expected Sell, got %v (err %v)", side, err)
	}
	if _, err = SideFromString("hold"); err == nil {
		t.Error("Expected error for unknown side")
	}
}

func TestSideOpposite(t *testing.T) {
	if Buy.Opposite() != Sell {
		t.Error("Expected opposite of Buy to be Sell")
	}
	if Sell.Opposite() != Buy {
		t.Error("Expected opposite of Sell to be Buy")
	}
}

func TestKindFromString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Kind
	}{
		{"limit", KindLimit},
		{"MARKET", KindMarket},
		{"ioc", KindIOC},
		{"Fok", KindFOK},
	} {
		kind, err := KindFromString(tc.in)
		if err != nil || kind != tc.want {
			t.Errorf("KindFromString(%q) = %v, %v; want %v", tc.in, kind, err, tc.want)
		}
	}
	if _, err := KindFromString("GTC"); err == nil {
		t.Error("Expected error for unknown kind")
	}
}

func TestNewOrder(t *testing.T) {
	price := fpdecimal.FromFloat(100.5)
	quantity := fpdecimal.FromFloat(10.0)

	order, err := NewOrder(1, "BTC/DOGE", price, quantity, KindLimit, Buy, 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if order.ID() != 1 {
		t.Errorf("Expected ID 1, got %d", order.ID())
	}
	if order.Symbol() != "BTC/DOGE" {
		t.Errorf("Expected symbol BTC/DOGE, got %s", order.Symbol())
	}
	if !order.Price().Equal(price) {
		t.Errorf("Expected price %v, got %v", price, order.Price())
	}
	if !order.Quantity().Equal(quantity) {
		t.Errorf("Expected quantity %v, got %v", quantity, order.Quantity())
	}
	if order.Kind() != KindLimit {
		t.Errorf("Expected kind LIMIT, got %s", order.Kind())
	}
	if order.Side() != Buy {
		t.Errorf("Expected side Buy, got %v", order.Side())
	}
	if order.Timestamp() != 1000 {
		t.Errorf("Expected timestamp 1000, got %d", order.Timestamp())
	}
	if order.IsFilled() {
		t.Error("Expected fresh order not to be filled")
	}
}

func TestNewOrderValidation(t *testing.T) {
	price := fpdecimal.FromFloat(100.0)
	quantity := fpdecimal.FromFloat(10.0)

	if _, err := NewOrder(1, "S", price, fpdecimal.Zero, KindLimit, Buy, 0); err != ErrInvalidQuantity {
		t.Errorf("Expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewOrder(1, "S", price, fpdecimal.FromFloat(-1.0), KindMarket, Buy, 0); err != ErrInvalidQuantity {
		t.Errorf("Expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewOrder(1, "S", fpdecimal.Zero, quantity, KindLimit, Buy, 0); err != ErrInvalidPrice {
		t.Errorf("Expected ErrInvalidPrice, got %v", err)
	}
	if _, err := NewOrder(1, "S", fpdecimal.FromFloat(-5.0), quantity, KindIOC, Sell, 0); err != ErrInvalidPrice {
		t.Errorf("Expected ErrInvalidPrice, got %v", err)
	}
	if _, err := NewOrder(1, "S", fpdecimal.Zero, quantity, KindFOK, Sell, 0); err != ErrInvalidPrice {
		t.Errorf("Expected ErrInvalidPrice, got %v", err)
	}
	if _, err := NewOrder(1, "S", price, quantity, Kind("GTC"), Buy, 0); err != ErrInvalidKind {
		t.Errorf("Expected ErrInvalidKind, got %v", err)
	}

	// market orders ignore price entirely
	if _, err := NewOrder(1, "S", fpdecimal.Zero, quantity, KindMarket, Buy, 0); err != nil {
		t.Errorf("Expected market order with zero price to be valid, got %v", err)
	}
}

func TestDecreaseQuantityAndIsFilled(t *testing.T) {
	order, err := NewOrder(1, "S", fpdecimal.FromFloat(100.0), fpdecimal.FromFloat(10.0), KindLimit, Sell, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	order.DecreaseQuantity(fpdecimal.FromFloat(4.0))
	if !order.Quantity().Equal(fpdecimal.FromFloat(6.0)) {
		t.Errorf("Expected remaining 6, got %v", order.Quantity())
	}
	if order.IsFilled() {
		t.Error("Expected partially filled order not to be filled")
	}

	order.DecreaseQuantity(fpdecimal.FromFloat(6.0))
	if !order.IsFilled() {
		t.Error("Expected order to be filled")
	}
}

func TestOrderJSON(t *testing.T) {
	order, err := NewOrder(7, "BTC/DOGE", fpdecimal.FromFloat(100.5), fpdecimal.FromFloat(2.0), KindLimit, Buy, 1234)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["id"].(float64) != 7 {
		t.Errorf("Expected id 7, got %v", decoded["id"])
	}
	if decoded["price"] != "100.500" {
		t.Errorf("Expected price string 100.500, got %v", decoded["price"])
	}
	if decoded["quantity"] != "2.000" {
		t.Errorf("Expected quantity string 2.000, got %v", decoded["quantity"])
	}
	if decoded["side"] != "BUY" {
		t.Errorf("Expected side BUY, got %v", decoded["side"])
	}
	if decoded["kind"] != "LIMIT" {
		t.Errorf("Expected kind LIMIT, got %v", decoded["kind"])
	}
}
