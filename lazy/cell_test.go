package lazy

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// resource stands in for a shared process-wide handle. Identity matters:
// tests compare pointers to verify all callers observe the same instance.
type resource struct {
	id int
}

func TestGet_ConstructsOnFirstUse(t *testing.T) {
	var cell Cell[*resource]
	var built atomic.Int64

	if built.Load() != 0 {
		t.Fatal("constructor ran before first Get")
	}
	if cell.Initialized() {
		t.Fatal("Initialized() = true before first Get")
	}

	r, err := cell.Get(func() (*resource, error) {
		built.Add(1)
		return &resource{id: 1}, nil
	})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r == nil || r.id != 1 {
		t.Fatalf("Get returned %+v, want resource with id 1", r)
	}
	if got := built.Load(); got != 1 {
		t.Fatalf("constructor ran %d times, want 1", got)
	}
}

func TestGet_ReturnsSameValueOnEveryCall(t *testing.T) {
	var cell Cell[*resource]

	first, err := cell.Get(func() (*resource, error) { return &resource{}, nil })
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}

	// Subsequent constructors must never run.
	second, err := cell.Get(func() (*resource, error) {
		t.Error("constructor ran after value was published")
		return &resource{}, nil
	})
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	if first != second {
		t.Fatalf("Get returned distinct instances: %p vs %p", first, second)
	}
}

// TestGet_ConcurrentFirstAccess is the race-safety scenario: many goroutines
// call Get with no prior call, the construction side effect must occur
// exactly once, and every caller must receive the identical instance.
// Run with -race.
func TestGet_ConcurrentFirstAccess(t *testing.T) {
	const callers = 100

	var cell Cell[*resource]
	var built atomic.Int64

	results := make([]*resource, callers)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start // maximize contention on the first access
			r, err := cell.Get(func() (*resource, error) {
				built.Add(1)
				return &resource{id: idx}, nil
			})
			if err != nil {
				t.Errorf("caller %d: %v", idx, err)
				return
			}
			results[idx] = r
		}(i)
	}

	close(start)
	wg.Wait()

	if got := built.Load(); got != 1 {
		t.Fatalf("constructor ran %d times, want exactly 1", got)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d received a different instance", i)
		}
	}
}

func TestGet_FailureLeavesCellEmptyAndRetries(t *testing.T) {
	var cell Cell[*resource]
	boom := errors.New("sink unavailable")

	if _, err := cell.Get(func() (*resource, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("Get returned %v, want %v", err, boom)
	}
	if cell.Initialized() {
		t.Fatal("cell published a value after failed construction")
	}
	if _, ok := cell.Peek(); ok {
		t.Fatal("Peek reported a value after failed construction")
	}

	// A later call must retry and may succeed.
	r, err := cell.Get(func() (*resource, error) { return &resource{id: 7}, nil })
	if err != nil {
		t.Fatalf("retry Get: %v", err)
	}
	if r.id != 7 {
		t.Fatalf("retry Get returned %+v, want id 7", r)
	}
}

// TestGet_ConcurrentFailureThenSuccess verifies that racing callers during a
// failing construction are all released (none left blocked) and that the
// cell recovers on a subsequent call.
func TestGet_ConcurrentFailureThenSuccess(t *testing.T) {
	const callers = 50

	var cell Cell[*resource]
	var attempts atomic.Int64
	boom := errors.New("transient failure")

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := cell.Get(func() (*resource, error) {
				attempts.Add(1)
				return nil, boom
			})
			if !errors.Is(err, boom) {
				t.Errorf("Get returned %v, want %v", err, boom)
			}
		}()
	}
	close(start)
	wg.Wait() // every caller returned; nobody is wedged on the guard

	if attempts.Load() < 1 {
		t.Fatal("no construction attempt observed")
	}
	if cell.Initialized() {
		t.Fatal("cell published a value despite all constructions failing")
	}

	r, err := cell.Get(func() (*resource, error) { return &resource{id: 3}, nil })
	if err != nil {
		t.Fatalf("recovery Get: %v", err)
	}
	if r.id != 3 {
		t.Fatalf("recovery Get returned %+v, want id 3", r)
	}
}

func TestGet_NilBuild(t *testing.T) {
	var cell Cell[int]

	if _, err := cell.Get(nil); !errors.Is(err, ErrNilBuild) {
		t.Fatalf("Get(nil) = %v, want ErrNilBuild", err)
	}

	// Once published, the build function is irrelevant.
	if _, err := cell.Get(func() (int, error) { return 42, nil }); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, err := cell.Get(nil); err != nil || v != 42 {
		t.Fatalf("Get(nil) after publish = %d, %v; want 42, nil", v, err)
	}
}

func TestMustGet_PanicsOnFailure(t *testing.T) {
	var cell Cell[int]

	defer func() {
		if recover() == nil {
			t.Fatal("MustGet did not panic on construction failure")
		}
	}()
	cell.MustGet(func() (int, error) { return 0, errors.New("nope") })
}

func TestPeek_DoesNotConstruct(t *testing.T) {
	var cell Cell[int]

	if _, ok := cell.Peek(); ok {
		t.Fatal("Peek reported a value on an empty cell")
	}
	if cell.Initialized() {
		t.Fatal("Initialized() = true on an empty cell")
	}

	if _, err := cell.Get(func() (int, error) { return 9, nil }); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v, ok := cell.Peek(); !ok || v != 9 {
		t.Fatalf("Peek = %d, %v; want 9, true", v, ok)
	}
}
