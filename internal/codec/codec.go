// Package codec converts assessment documents to and from their interchange
// text (JSON) and exports risk rows as flat delimited text.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/example/riskmap/internal/document"
)

// ParseError reports interchange text that cannot be turned into a document.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid assessment file: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid assessment file: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Defaults supplies the values used when a loaded file omits a section.
type Defaults struct {
	Metadata document.Metadata
	Settings document.Settings
}

// Loaded is the result of Deserialize: the repaired document plus a note for
// every repair that was applied.
type Loaded struct {
	Document document.Document
	Repairs  []string
}

// Serialize dumps the whole document, derived display width included.
func Serialize(doc document.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

// Deserialize parses interchange text permissively. Only a non-object top
// level value (or malformed text) is an error; every section that is missing
// or has the wrong shape is replaced by its default.
func Deserialize(data []byte, defaults Defaults) (*Loaded, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, &ParseError{Reason: "malformed JSON", Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{Reason: "unexpected data after the top-level value"}
	}

	root, ok := tree.(map[string]any)
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("top-level value is %s, not an object", kindOf(tree))}
	}

	r := &repairer{}
	doc := r.document(root, defaults)
	return &Loaded{Document: doc, Repairs: r.notes}, nil
}
