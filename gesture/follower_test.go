package gesture

import "testing"

func TestFollowerCoalescesUpdates(t *testing.T) {
	var f Follower

	if _, _, ok := f.Take(); ok {
		t.Fatal("empty follower reported a pending update")
	}

	f.Set(1, 2)
	f.Set(3, 4)
	f.Set(5, 6)

	x, y, ok := f.Take()
	if !ok {
		t.Fatal("expected a pending update")
	}
	if x != 5 || y != 6 {
		t.Errorf("got (%v, %v), want the latest position (5, 6)", x, y)
	}

	if _, _, ok := f.Take(); ok {
		t.Error("pending flag not cleared after Take")
	}
}
