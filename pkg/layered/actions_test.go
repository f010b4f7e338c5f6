package layered

import (
	"strings"
	"testing"
)

func TestActionMarshalRoundTrip(t *testing.T) {
	actions := []Action{
		SetLayerConstraintAction{ID: "a", Layer: 2, LayerCons: 3},
		SetPositionConstraintAction{ID: "b", Position: 1, PosCons: 1},
		SetStaticConstraintAction{ID: "c", Layer: 1, LayerCons: 1, Position: 0, PosCons: 0},
		RefreshAction{},
	}

	for _, want := range actions {
		t.Run(want.Kind(), func(t *testing.T) {
			data, err := MarshalAction(want)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), `"kind":"`+want.Kind()+`"`) {
				t.Errorf("encoded action lacks kind discriminator: %s", data)
			}
			got, err := UnmarshalAction(data)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("round trip: got %+v, want %+v", got, want)
			}
		})
	}
}

func TestUnmarshalActionUnknownKind(t *testing.T) {
	if _, err := UnmarshalAction([]byte(`{"kind":"teleport"}`)); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := UnmarshalAction([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestDirectionNames(t *testing.T) {
	for _, dir := range []Direction{Undefined, Right, Left, Down, Up} {
		if got := DirectionFromString(dir.String()); got != dir {
			t.Errorf("round trip of %v yielded %v", dir, got)
		}
	}
	if DirectionFromString("sideways") != Undefined {
		t.Error("unknown name should map to Undefined")
	}
	if !Right.Horizontal() || !Left.Horizontal() || Down.Horizontal() || Up.Horizontal() {
		t.Error("horizontal classification wrong")
	}
}
