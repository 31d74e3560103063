package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	ferrors "github.com/structasic/fabgen/pkg/errors"
)

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// jsonError wraps a decoder error as PARSE_ERROR with a line and column
// when the decoder reports an offset into data.
func jsonError(name string, data []byte, err error) error {
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syn):
		// Offset counts the offending byte.
		line, col := position(data, max(syn.Offset-1, 0))
		return ferrors.Wrap(ferrors.ErrCodeParse, err, "%s:%d:%d", name, line, col)
	case errors.As(err, &typ):
		line, col := position(data, typ.Offset)
		if typ.Field != "" {
			return ferrors.Wrap(ferrors.ErrCodeParse, err, "%s:%d:%d: field %s", name, line, col, typ.Field)
		}
		return ferrors.Wrap(ferrors.ErrCodeParse, err, "%s:%d:%d", name, line, col)
	}
	return ferrors.Wrap(ferrors.ErrCodeParse, err, "%s", name)
}

// nestedError reports a failure inside a sub-document whose offsets are
// not relative to the whole file.
func nestedError(name, path string, err error) error {
	return ferrors.Wrap(ferrors.ErrCodeParse, err, "%s: %s", name, path)
}

func missing(name, field string) error {
	return ferrors.New(ferrors.ErrCodeParse, "%s: missing required field %s", name, field)
}

// walkObject calls fn for every member of a JSON object in document
// order. An absent or null value is an empty object.
func walkObject(raw json.RawMessage, fn func(key string, value json.RawMessage) error) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected an object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func notFound(path string, err error) error {
	return ferrors.Wrap(ferrors.ErrCodeFileNotFound, err, "open %s", path)
}
