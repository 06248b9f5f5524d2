// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"

	"github.com/ValsGeorge/pdxtree"
)

// Parse parses the save-file text in src and returns the top-level object.
// Every scalar is typed by Infer, and repeated keys within an object are
// merged as by Object.Add. In case of error, no tree is returned.
func Parse(src []byte) (*Object, error) { return ParseStream(pdxtree.NewStream(src)) }

// ParseString parses the save-file text in src, as Parse.
func ParseString(src string) (*Object, error) { return Parse([]byte(src)) }

// ParseReader reads r to completion and parses its contents, as Parse.
func ParseReader(r io.Reader) (*Object, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return Parse(src)
}

// ParseTokens parses a sequence of lexemes previously produced by
// pdxtree.Tokenize, as Parse.
func ParseTokens(toks []pdxtree.Lexeme) (*Object, error) {
	return ParseStream(pdxtree.NewTokenStream(toks))
}

// ParseStream parses the input of s, as Parse. Use this to parse with
// options set on the stream, such as a depth limit.
func ParseStream(s *pdxtree.Stream) (*Object, error) {
	h := &parseHandler{root: new(Object)}
	h.push(frame{obj: h.root})
	if err := s.Parse(h); err != nil {
		return nil, err
	}
	return h.root, nil
}

// maxInterned bounds the number of distinct keys retained for interning
// during a single parse.
const maxInterned = 1 << 16

// A parseHandler implements the pdxtree.Handler interface to construct a
// tree for a document.
type parseHandler struct {
	root *Object
	stk  []frame

	key  string            // key of the member being parsed
	keys map[string]string // interned keys
}

// A frame is an open block on the handler stack.
type frame struct {
	obj *Object // non-nil if the block is an object
	arr Array   // accumulated elements, if the block is an array
	key string  // member key, if the block is a member value
}

// intern returns a string with the contents of text, sharing storage with
// previous keys of the same text. Save files repeat a small vocabulary of
// keys many times over.
func (h *parseHandler) intern(text []byte) string {
	if s, ok := h.keys[string(text)]; ok {
		return s
	}
	s := string(text)
	if h.keys == nil {
		h.keys = make(map[string]string)
	}
	if len(h.keys) < maxInterned {
		h.keys[s] = s
	}
	return s
}

func (h *parseHandler) top() *frame { return &h.stk[len(h.stk)-1] }

func (h *parseHandler) push(f frame) { h.stk = append(h.stk, f) }

func (h *parseHandler) pop() frame {
	last := *h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

// reduceValue adds v to the innermost open block: as a member under the
// given key if the block is an object, otherwise as an array element.
func (h *parseHandler) reduceValue(key string, v Value) {
	if top := h.top(); top.obj != nil {
		top.obj.Add(key, v)
	} else {
		top.arr = append(top.arr, v)
	}
}

func (h *parseHandler) BeginObject(loc pdxtree.Anchor) error {
	h.push(frame{obj: new(Object), key: h.key})
	return nil
}

func (h *parseHandler) EndObject(loc pdxtree.Anchor) error {
	f := h.pop()
	h.reduceValue(f.key, f.obj)
	return nil
}

func (h *parseHandler) BeginArray(loc pdxtree.Anchor) error {
	h.push(frame{arr: Array{}, key: h.key})
	return nil
}

func (h *parseHandler) EndArray(loc pdxtree.Anchor) error {
	f := h.pop()
	h.reduceValue(f.key, f.arr)
	return nil
}

func (h *parseHandler) BeginMember(loc pdxtree.Anchor) error {
	h.key = h.intern(loc.Text())
	return nil
}

func (h *parseHandler) EndMember(loc pdxtree.Anchor) error { return nil }

func (h *parseHandler) Value(loc pdxtree.Anchor) error {
	h.reduceValue(h.key, InferBytes(loc.Text()))
	return nil
}

func (h *parseHandler) EndOfInput(loc pdxtree.Anchor) {}
