package entities

import (
	"errors"
	"reflect"
	"testing"
)

func TestPersistedStateRoundTrip(t *testing.T) {
	b := NewBoard()
	for _, v := range []int{150, 2, 77} {
		b.Toggle(v)
	}

	data, err := b.State().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != `{"selected":[2,77,150],"total":229}` {
		t.Fatalf("Encode = %s", data)
	}

	state, err := DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	restored := state.Board()
	if !restored.Selected.Equal(b.Selected) {
		t.Errorf("restored set = %v, want %v", restored.Selected.Sorted(), b.Selected.Sorted())
	}
	if restored.Total != b.Total {
		t.Errorf("restored total = %v, want %v", restored.Total, b.Total)
	}
}

func TestEncodeEmptyState(t *testing.T) {
	data, err := NewBoard().State().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != `{"selected":[],"total":0}` {
		t.Fatalf("Encode = %s", data)
	}
}

func TestDecodeStateTrustsStoredTotal(t *testing.T) {
	state, err := DecodeState([]byte(`{"selected":[1,2],"total":999.5}`))
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if got := state.Board().Total; got != 999.5 {
		t.Fatalf("total = %v, want stored 999.5", got)
	}
}

func TestDecodeStateDeduplicates(t *testing.T) {
	state, err := DecodeState([]byte(`{"selected":[7,7,3],"total":17}`))
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	b := state.Board()
	if got := b.Selected.Sorted(); !reflect.DeepEqual(got, []int{3, 7}) {
		t.Fatalf("selected = %v", got)
	}
}

func TestDecodeStateDefaults(t *testing.T) {
	state, err := DecodeState([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if len(state.Selected) != 0 || state.Total != 0 {
		t.Fatalf("state = %+v, want empty", state)
	}
}

func TestDecodeStateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "null", data: "null"},
		{name: "garbage", data: "{not json"},
		{name: "array", data: "[1,2,3]"},
		{name: "selected wrong type", data: `{"selected":"5","total":5}`},
		{name: "total wrong type", data: `{"selected":[5],"total":"5"}`},
		{name: "fractional deposit", data: `{"selected":[1.5],"total":1.5}`},
		{name: "deposit out of range", data: `{"selected":[0, 201],"total":201}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState([]byte(tt.data))
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("DecodeState(%q) error = %v, want ErrInvalidState", tt.data, err)
			}
		})
	}
}
