// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2). Same logical data always produces
// identical bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR.
// Unknown fields are silently ignored for forward compatibility.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Types implementing encoding.TextMarshaler (ref.ID in every event
	// payload) serialize as CBOR text strings via MarshalText. Without
	// this, a ref.ID would serialize as a 32-element byte array, and
	// observers would see two different encodings for the same identity
	// depending on the field type.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Event payloads only ever use string map keys. When the
		// decoder's target is any, pick map[string]any instead of the
		// CBOR default map[interface{}]interface{}, which nothing else
		// in Go interoperates with.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// Mirror of the TextMarshaler setting above for round-trip
		// correctness.
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// RawMessage is a raw encoded CBOR value. Use it to delay decoding or
// to splice pre-encoded CBOR into a payload.
type RawMessage = cbor.RawMessage

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for
// data. Used by the slog event emitter so payloads are readable in
// logs without a CBOR decoder at hand.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
