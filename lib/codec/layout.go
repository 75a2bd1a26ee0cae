// Copyright 2026 The Roster Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/binary"
	"fmt"
)

// Writer serializes a fixed-layout record into a buffer of exactly the
// declared size. Integers are little-endian. Variable-content byte
// fields are written zero-padded to their fixed width; the length
// prefix is a separate field written by the record encoder.
//
// Errors are sticky: the first failure is remembered and every later
// call is a no-op, so record encoders can write straight through and
// check once at [Writer.Bytes].
type Writer struct {
	buf []byte
	off int
	err error
}

// NewWriter returns a Writer for a record of exactly size bytes.
func NewWriter(size int) *Writer {
	return &Writer{buf: make([]byte, size)}
}

// Bytes returns the completed buffer. It is an error to finish with
// unwritten tail bytes — a short record would silently decode as
// zeroes on the way back in.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.off != len(w.buf) {
		return nil, fmt.Errorf("record layout: wrote %d of %d bytes", w.off, len(w.buf))
	}
	return w.buf, nil
}

func (w *Writer) reserve(n int) []byte {
	if w.err != nil {
		return nil
	}
	if w.off+n > len(w.buf) {
		w.err = fmt.Errorf("record layout: write of %d bytes overflows %d-byte record at offset %d", n, len(w.buf), w.off)
		return nil
	}
	out := w.buf[w.off : w.off+n]
	w.off += n
	return out
}

// U8 writes a single byte.
func (w *Writer) U8(v uint8) {
	if out := w.reserve(1); out != nil {
		out[0] = v
	}
}

// U32 writes a little-endian uint32.
func (w *Writer) U32(v uint32) {
	if out := w.reserve(4); out != nil {
		binary.LittleEndian.PutUint32(out, v)
	}
}

// U64 writes a little-endian uint64.
func (w *Writer) U64(v uint64) {
	if out := w.reserve(8); out != nil {
		binary.LittleEndian.PutUint64(out, v)
	}
}

// I64 writes a little-endian int64 (two's complement).
func (w *Writer) I64(v int64) {
	w.U64(uint64(v))
}

// Raw writes b verbatim. Used for fields whose width is the data
// itself: identities, content hashes, explicit padding.
func (w *Writer) Raw(b []byte) {
	if out := w.reserve(len(b)); out != nil {
		copy(out, b)
	}
}

// Padded writes b into a field of exactly width bytes, zero-filling
// the unused tail. Fails if b exceeds the width — truncation would
// corrupt the record silently.
func (w *Writer) Padded(b []byte, width int) {
	if len(b) > width {
		if w.err == nil {
			w.err = fmt.Errorf("record layout: %d bytes do not fit %d-byte field", len(b), width)
		}
		return
	}
	if out := w.reserve(width); out != nil {
		copy(out, b)
		// reserve hands out a slice of the zero-initialized buffer, so
		// the tail is already zero. clear() anyway: Writer buffers may
		// be pooled in the future.
		clear(out[len(b):])
	}
}

// Reader decodes a fixed-layout record. Errors are sticky; record
// decoders read straight through and check once at [Reader.Finish].
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader returns a Reader over data, which must be exactly the
// record's declared size (checked by Finish).
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Finish returns the first decode error, or an error if trailing bytes
// remain unread. A record with leftover bytes is a layout mismatch,
// not a longer record.
func (r *Reader) Finish() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("record layout: %d trailing bytes after decode", len(r.buf)-r.off)
	}
	return nil
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("record layout: read of %d bytes overruns %d-byte record at offset %d", n, len(r.buf), r.off)
		return nil
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out
}

// U8 reads a single byte.
func (r *Reader) U8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() uint64 {
	if b := r.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// I64 reads a little-endian int64.
func (r *Reader) I64() int64 {
	return int64(r.U64())
}

// Raw reads exactly n bytes into a fresh slice.
func (r *Reader) Raw(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// Padded reads a width-byte zero-padded field and returns the first
// length bytes of content. Fails if length exceeds the field width —
// a corrupt length prefix must not read past the field.
func (r *Reader) Padded(width, length int) []byte {
	if length > width {
		if r.err == nil {
			r.err = fmt.Errorf("record layout: length prefix %d exceeds %d-byte field", length, width)
		}
		r.take(width)
		return nil
	}
	b := r.take(width)
	if b == nil {
		return nil
	}
	return append([]byte(nil), b[:length]...)
}
