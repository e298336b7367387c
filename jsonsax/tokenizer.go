// Package jsonsax is the streaming SAX-style JSON tokenizer the generated
// parsers call into. It turns a byte stream into the ten-event callback
// sequence spec.md §6 describes (null, bool, integer, double, string,
// start_map, map_key, end_map, start_array, end_array), built on top of
// goccy/go-json's token Decoder the way reoring-goskema's gojson driver
// turns the same Decoder into its own token stream.
package jsonsax

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
)

// Callbacks receives one call per JSON token recognized by a Tokenizer.
// Every field is invoked; a generated parser sets all ten so it can reject
// an event its current parse-graph state doesn't expect.
type Callbacks struct {
	OnNull       func() error
	OnBool       func(v bool) error
	OnInteger    func(v int64) error
	OnDouble     func(v float64) error
	OnString     func(v string) error
	OnStartMap   func() error
	OnMapKey     func(key string) error
	OnEndMap     func() error
	OnStartArray func() error
	OnEndArray   func() error
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// Tokenizer drives Callbacks from JSON bytes delivered in one or more
// chunks. It re-creates its underlying decoder over whatever bytes remain
// unconsumed each time a chunk boundary lands mid-token, so the sequence of
// callbacks produced does not depend on how the input was chunked.
type Tokenizer struct {
	cb      Callbacks
	pending []byte
	dec     *json.Decoder
	stack   []frame
	closed  bool
}

// New returns a Tokenizer that reports recognized tokens to cb.
func New(cb Callbacks) *Tokenizer {
	return &Tokenizer{cb: cb}
}

// OnChunk feeds the next slice of input bytes. It does not retain data; the
// caller may reuse or discard chunk after this call returns.
func (t *Tokenizer) OnChunk(chunk []byte) error {
	if t.closed {
		return errors.New("jsonsax: OnChunk called after Complete")
	}
	t.pending = append(t.pending, chunk...)
	return t.drain()
}

// Complete signals end of input. It fails if a token was left half-read or
// a map/array was left open.
func (t *Tokenizer) Complete() error {
	if t.closed {
		return errors.New("jsonsax: Complete called twice")
	}
	t.closed = true
	if len(t.stack) != 0 {
		return &TruncatedInputError{Reason: "unclosed map or array at end of input"}
	}
	if len(bytes.TrimSpace(t.pending)) != 0 {
		return &TruncatedInputError{Reason: "trailing unparsed bytes at end of input"}
	}
	return nil
}

func (t *Tokenizer) drain() error {
	for {
		if t.dec == nil {
			if len(t.pending) == 0 {
				return nil
			}
			t.dec = json.NewDecoder(bytes.NewReader(t.pending))
			t.dec.UseNumber()
		}

		tok, err := t.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// Ran out of buffered bytes mid-token. Keep pending as-is
				// and wait for the next chunk.
				t.dec = nil
				return nil
			}
			return &MalformedJSONError{Err: err}
		}

		if err := t.dispatch(tok); err != nil {
			return err
		}

		consumed := t.dec.InputOffset()
		t.pending = t.pending[consumed:]
		t.dec = nil
	}
}

func (t *Tokenizer) dispatch(tok json.Token) error {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			t.stack = append(t.stack, frame{kind: kindObject, expectingKey: true})
			return t.cb.OnStartMap()
		case '}':
			t.popFrame()
			return t.cb.OnEndMap()
		case '[':
			t.stack = append(t.stack, frame{kind: kindArray})
			return t.cb.OnStartArray()
		case ']':
			t.popFrame()
			return t.cb.OnEndArray()
		}
		return nil
	case string:
		if t.atObjectKey() {
			t.markValueConsumed()
			return t.cb.OnMapKey(v)
		}
		t.markValueConsumed()
		return t.cb.OnString(v)
	case bool:
		t.markValueConsumed()
		return t.cb.OnBool(v)
	case json.Number:
		t.markValueConsumed()
		return t.dispatchNumber(string(v))
	case nil:
		t.markValueConsumed()
		return t.cb.OnNull()
	default:
		return &MalformedJSONError{Err: errors.New("unrecognized token type")}
	}
}

func (t *Tokenizer) dispatchNumber(s string) error {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return t.cb.OnInteger(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return &MalformedJSONError{Err: err}
	}
	return t.cb.OnDouble(f)
}

func (t *Tokenizer) atObjectKey() bool {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		return top.kind == kindObject && top.expectingKey
	}
	return false
}

func (t *Tokenizer) markValueConsumed() {
	if n := len(t.stack); n > 0 {
		top := &t.stack[n-1]
		if top.kind == kindObject {
			top.expectingKey = !top.expectingKey
		}
	}
}

func (t *Tokenizer) popFrame() {
	if n := len(t.stack); n > 0 {
		t.stack = t.stack[:n-1]
	}
	t.markValueConsumed()
}
