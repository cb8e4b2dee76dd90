package serialize

import (
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Name  string `msgpack:"name"`
	Count int    `msgpack:"count"`
}

func TestMarshalRoundTrip(t *testing.T) {
	in := payload{Name: "scan", Count: 7}

	data, err := Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	var out payload
	if err := Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestUnmarshalEmpty(t *testing.T) {
	var out payload
	if err := Unmarshal(nil, &out); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestUnmarshalVersionMismatch(t *testing.T) {
	data, err := msgpack.Marshal(envelope{Version: Version + 1, Body: []byte{}})
	if err != nil {
		t.Fatal(err)
	}

	var out payload
	err = Unmarshal(data, &out)
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Errorf("err = %v, want version mismatch", err)
	}
}
