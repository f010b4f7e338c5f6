package store

import (
	"context"
	"os"
	"testing"

	"github.com/lennartvogel/foldview/pkg/layered"
)

// backends that can be exercised without external services.
func testStores(t *testing.T) map[string]Store {
	t.Helper()
	file, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			got, err := s.Get(ctx, "absent")
			if err != nil {
				t.Fatalf("Get(absent) error: %v", err)
			}
			if got != nil {
				t.Fatalf("Get(absent) = %+v, want nil", got)
			}

			cs := &ConstraintSet{ModelID: "m1"}
			cs.Apply(layered.SetLayerConstraintAction{ID: "n1", Layer: 2, LayerCons: 3})
			cs.Apply(layered.SetPositionConstraintAction{ID: "n2", Position: 1, PosCons: 1})
			if err := s.Put(ctx, cs); err != nil {
				t.Fatalf("Put() error: %v", err)
			}

			got, err = s.Get(ctx, "m1")
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got == nil {
				t.Fatal("Get() returned nil for stored set")
			}
			if len(got.Records) != 2 {
				t.Fatalf("got %d records, want 2", len(got.Records))
			}
			if got.Records[0].NodeID != "n1" || got.Records[0].Layer != 2 || got.Records[0].LayerCons != 3 {
				t.Errorf("record 0 = %+v", got.Records[0])
			}

			if err := s.Delete(ctx, "m1"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			got, err = s.Get(ctx, "m1")
			if err != nil || got != nil {
				t.Fatalf("Get after Delete = %+v, %v; want nil, nil", got, err)
			}

			// Deleting again must not error.
			if err := s.Delete(ctx, "m1"); err != nil {
				t.Fatalf("second Delete() error: %v", err)
			}
		})
	}
}

func TestApplyReplacesPerNode(t *testing.T) {
	cs := &ConstraintSet{ModelID: "m"}
	cs.Apply(layered.SetLayerConstraintAction{ID: "n", Layer: 1, LayerCons: 1})
	cs.Apply(layered.SetStaticConstraintAction{ID: "n", Layer: 2, LayerCons: 2, Position: 0, PosCons: 0})

	if len(cs.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(cs.Records))
	}
	rec := cs.Records[0]
	if rec.Kind != layered.KindSetStaticConstraint || rec.Layer != 2 {
		t.Errorf("record = %+v, want static constraint in layer 2", rec)
	}
}

func TestApplyIgnoresRefresh(t *testing.T) {
	cs := &ConstraintSet{ModelID: "m"}
	cs.Apply(layered.RefreshAction{})
	if len(cs.Records) != 0 {
		t.Errorf("refresh must not persist a record, got %+v", cs.Records)
	}
}

func TestPutValidatesModelID(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			if err := s.Put(ctx, &ConstraintSet{ModelID: "../escape"}); err == nil {
				t.Error("Put with traversal model ID should fail")
			}
			if err := s.Put(ctx, nil); err == nil {
				t.Error("Put(nil) should fail")
			}
		})
	}
}

func TestFileStoreCorruptFileIsMiss(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	ctx := context.Background()

	if err := s.Put(ctx, &ConstraintSet{ModelID: "m"}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	// Corrupt the stored file.
	path := s.path("m")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("corrupt write failed: %v", err)
	}

	got, err := s.Get(ctx, "m")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != nil {
		t.Errorf("corrupt file should read as a miss, got %+v", got)
	}
}
