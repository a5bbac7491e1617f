package commerce

import "testing"

func TestItemKey(t *testing.T) {
	if got := ItemKey("prod_1", "var_2"); got != "prod_1/var_2" {
		t.Errorf("ItemKey() = %q, want %q", got, "prod_1/var_2")
	}
	if got := ItemKey("prod_1", ""); got != "prod_1" {
		t.Errorf("ItemKey() without variant = %q, want %q", got, "prod_1")
	}
}

func TestCartItemLookup(t *testing.T) {
	cart := &Cart{Items: []LineItem{
		{ProductID: "prod_1", VariantID: "var_a", Quantity: 2},
		{ProductID: "prod_1", VariantID: "var_b", Quantity: 1},
		{ProductID: "prod_2", Quantity: 3},
	}}

	// Same product, different variants resolve to different lines.
	a := cart.Item(ItemKey("prod_1", "var_a"))
	b := cart.Item(ItemKey("prod_1", "var_b"))
	if a == nil || b == nil {
		t.Fatal("variant lines not found")
	}
	if a.Quantity != 2 || b.Quantity != 1 {
		t.Errorf("wrong lines resolved: a.Quantity=%d b.Quantity=%d", a.Quantity, b.Quantity)
	}

	if cart.Item("prod_3") != nil {
		t.Error("lookup of absent key should return nil")
	}
}

func TestCartClone(t *testing.T) {
	original := &Cart{
		ID:    "cart_1",
		Items: []LineItem{{ProductID: "prod_1", Quantity: 1}},
		Total: "10.00",
	}

	clone := original.Clone()
	clone.Items[0].Quantity = 99
	clone.Total = "990.00"

	if original.Items[0].Quantity != 1 {
		t.Error("mutating clone items changed the original")
	}
	if original.Total != "10.00" {
		t.Error("mutating clone changed the original total")
	}

	var nilCart *Cart
	if nilCart.Clone() != nil {
		t.Error("cloning nil should return nil")
	}
}
