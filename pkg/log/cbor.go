package log

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Encoder and decoder modes shared by FileLogger and Reader. Canonical key
// sorting keeps encodings deterministic; RFC 3339 time encoding preserves
// nanosecond precision across a round trip.
var (
	logEncMode = mustEncMode()
	logDecMode = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	m, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic("log: building CBOR encoder mode: " + err.Error())
	}
	return m
}

func mustDecMode() cbor.DecMode {
	m, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic("log: building CBOR decoder mode: " + err.Error())
	}
	return m
}

// NewEncoder returns a CBOR encoder writing events to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return logEncMode.NewEncoder(w)
}

// NewDecoder returns a CBOR decoder reading events from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return logDecMode.NewDecoder(r)
}
