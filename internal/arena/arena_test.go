package arena

import "testing"

func TestInsertGet(t *testing.T) {
	a := New[string]()

	h1 := a.Insert("alpha")
	h2 := a.Insert("beta")

	if a.Len() != 2 {
		t.Fatalf("expected 2 values, got %d", a.Len())
	}

	v, ok := a.Get(h1)
	if !ok || *v != "alpha" {
		t.Errorf("Get(h1) = %v, %v", v, ok)
	}
	v, ok = a.Get(h2)
	if !ok || *v != "beta" {
		t.Errorf("Get(h2) = %v, %v", v, ok)
	}
}

func TestZeroHandleNeverResolves(t *testing.T) {
	a := New[int]()
	a.Insert(1)

	var zero Handle
	if !zero.IsZero() {
		t.Error("zero Handle should report IsZero")
	}
	if _, ok := a.Get(zero); ok {
		t.Error("zero Handle resolved to a value")
	}
	if a.Contains(zero) {
		t.Error("Contains(zero) = true")
	}
}

func TestRemoveInvalidatesHandle(t *testing.T) {
	a := New[int]()
	h := a.Insert(7)

	v, ok := a.Remove(h)
	if !ok || v != 7 {
		t.Fatalf("Remove = %d, %v", v, ok)
	}
	if a.Len() != 0 {
		t.Errorf("Len after remove = %d", a.Len())
	}
	if _, ok := a.Get(h); ok {
		t.Error("removed handle still resolves")
	}
	if _, ok := a.Remove(h); ok {
		t.Error("double remove succeeded")
	}
}

func TestStaleHandleDoesNotAliasReusedSlot(t *testing.T) {
	a := New[string]()
	old := a.Insert("old")
	a.Remove(old)

	fresh := a.Insert("fresh")

	if _, ok := a.Get(old); ok {
		t.Fatal("stale handle resolved against the reused slot")
	}
	v, ok := a.Get(fresh)
	if !ok || *v != "fresh" {
		t.Fatalf("fresh handle broken after slot reuse: %v, %v", v, ok)
	}
	if old == fresh {
		t.Error("stale and fresh handles compare equal")
	}
}

func TestEachVisitsLiveValuesOnly(t *testing.T) {
	a := New[int]()
	a.Insert(1)
	dead := a.Insert(2)
	a.Insert(3)
	a.Remove(dead)

	sum := 0
	visits := 0
	a.Each(func(_ Handle, v *int) bool {
		sum += *v
		visits++
		return true
	})

	if visits != 2 || sum != 4 {
		t.Errorf("Each visited %d values summing %d, want 2 summing 4", visits, sum)
	}
}

func TestEachEarlyStop(t *testing.T) {
	a := New[int]()
	for i := 0; i < 5; i++ {
		a.Insert(i)
	}

	visits := 0
	a.Each(func(_ Handle, _ *int) bool {
		visits++
		return visits < 2
	})
	if visits != 2 {
		t.Errorf("early stop visited %d values, want 2", visits)
	}
}

func TestClear(t *testing.T) {
	a := New[int]()
	h1 := a.Insert(1)
	h2 := a.Insert(2)

	a.Clear()

	if a.Len() != 0 {
		t.Errorf("Len after Clear = %d", a.Len())
	}
	if a.Contains(h1) || a.Contains(h2) {
		t.Error("handles survived Clear")
	}

	h3 := a.Insert(3)
	if v, ok := a.Get(h3); !ok || *v != 3 {
		t.Errorf("arena unusable after Clear: %v, %v", v, ok)
	}
}

func TestHandlesOrder(t *testing.T) {
	a := New[int]()
	a.Insert(10)
	mid := a.Insert(20)
	a.Insert(30)
	a.Remove(mid)

	hs := a.Handles()
	if len(hs) != 2 {
		t.Fatalf("Handles returned %d entries, want 2", len(hs))
	}
	first, _ := a.Get(hs[0])
	second, _ := a.Get(hs[1])
	if *first != 10 || *second != 30 {
		t.Errorf("Handles order gave %d, %d", *first, *second)
	}
}

func TestHandleString(t *testing.T) {
	a := New[int]()
	h := a.Insert(1)
	if h.String() != "0.1" {
		t.Errorf("first handle formats as %s, want 0.1", h)
	}

	a.Remove(h)
	h2 := a.Insert(2)
	if h2.String() != "0.2" {
		t.Errorf("reused slot formats as %s, want 0.2", h2)
	}
}
