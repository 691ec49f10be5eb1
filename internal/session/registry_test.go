package session

import "testing"

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New([]byte("A\n1\n"), "t.csv", Options{})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRegistryLRUEviction(t *testing.T) {
	r := NewRegistry(2)
	p1, p2, p3 := testPipeline(t), testPipeline(t), testPipeline(t)
	r.Put(p1)
	r.Put(p2)

	// Touch p1 so p2 becomes the eviction candidate.
	if _, ok := r.Get(p1.ID); !ok {
		t.Fatal("p1 missing")
	}
	r.Put(p3)

	if _, ok := r.Get(p2.ID); ok {
		t.Error("least recently used session should have been evicted")
	}
	if _, ok := r.Get(p1.ID); !ok {
		t.Error("recently used session evicted")
	}
	if _, ok := r.Get(p3.ID); !ok {
		t.Error("newest session missing")
	}
	if r.Len() != 2 {
		t.Errorf("len = %d, want 2", r.Len())
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry(4)
	p := testPipeline(t)
	r.Put(p)
	r.Remove(p.ID)
	if _, ok := r.Get(p.ID); ok {
		t.Error("removed session still present")
	}
	// Removing twice is a no-op.
	r.Remove(p.ID)
	if r.Len() != 0 {
		t.Errorf("len = %d, want 0", r.Len())
	}
}

func TestRegistryPutSameIDUpdates(t *testing.T) {
	r := NewRegistry(2)
	p := testPipeline(t)
	r.Put(p)
	r.Put(p)
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
}
