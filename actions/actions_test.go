package actions

import "testing"

func TestOrderPriorityThenDeclaration(t *testing.T) {
	r := NewRegistry()
	low := r.Register("low", 1)
	high := r.Register("high", 5)
	list := []Action{low, high}
	r.SortList(list)
	if list[0].Name != "high" || list[1].Name != "low" {
		t.Fatalf("expected high before low, got %v", list)
	}
}

func TestOrderTiesBreakOnDeclaration(t *testing.T) {
	r := NewRegistry()
	first := r.Register("first", 3)
	second := r.Register("second", 3)
	list := []Action{second, first}
	r.SortList(list)
	if list[0].Name != "first" || list[1].Name != "second" {
		t.Fatalf("expected first before second on tie, got %v", list)
	}
}

func TestMustLookupDefaultsToZeroPriority(t *testing.T) {
	r := NewRegistry()
	a := r.MustLookup("implicit")
	if a.Priority != 0 {
		t.Fatalf("expected default priority 0, got %d", a.Priority)
	}
}

func TestIsPrecondition(t *testing.T) {
	r := NewRegistry()
	r.RegisterPrecondition("guard")
	if !r.IsPrecondition("guard") {
		t.Fatal("expected guard to be a registered precondition")
	}
	if r.IsPrecondition("other") {
		t.Fatal("did not expect other to be a precondition")
	}
}
