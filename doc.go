// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package pdxtree implements a scanner and parser for the text form of
// Clausewitz engine save files.
//
// A save file is a sequence of key=value members. A value is either a scalar
// identifier or a block in braces, and a block holds either key=value
// members (an object) or bare values (an array):
//
//	date=1936.1.1
//	player="GER"
//	production={
//		steel={ 10.0 0.0 }
//		equipment={ id={ id=1 type=66 } }
//	}
//
// # Scanning
//
// The Scanner type implements a lexical scanner over an in-memory input. Call
// its Next method to iterate over the tokens. Scanning never fails: text the
// scanner does not recognize is reported as an identifier.
//
//	s := pdxtree.NewScanner(input)
//	for s.Next() {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Tokenize returns all the tokens of an input at once.
//
// # Streaming
//
// The Stream type implements an event-driven parser. The parser works by
// calling methods on a Handler value to report the structure of the input.
// In case of error, parsing is terminated and an error of concrete type
// *pdxtree.SyntaxError is returned.
//
//	s := pdxtree.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// Whether a block is an object or an array is decided by its first interior
// tokens: an identifier followed by "=" begins an object, anything else
// begins an array. An empty block is an object unless EmptyBlockAsArray is
// set. The parser keeps open blocks on an explicit stack, so deeply nested
// input does not exhaust the goroutine stack.
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream:
//
//	Syntax     | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { key=value ... }
//	array      | BeginArray, EndArray      | { value ... }
//	member     | BeginMember, EndMember    | key=value
//	value      | Value                     | identifier
//	--         | EndOfInput                | end of input
//
// The top level of the input is an implicit object, whose members are
// reported without a surrounding BeginObject and EndObject.
//
// Each method is passed an Anchor value that can be used to retrieve location
// and type information. The Anchor passed to a handler method is only valid
// for the duration of that method call; the handler must copy any data it
// needs to retain beyond the lifetime of the call.
//
// The parser ensures that corresponding Begin and End methods are correctly
// paired, or that a SyntaxError is reported.
package pdxtree
