// Package toolsutil holds helpers shared by the desk agent tools.
package toolsutil

import (
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/swaggest/jsonschema-go"
)

// Package-level logger for tools
var logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

// SetLogger allows setting a custom logger for the tools package
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// GetLogger returns the package logger
func GetLogger() *slog.Logger {
	return logger
}

// Quantity is a whole number of units as sent by the model. It accepts JSON integers,
// integral floats such as 2.0, and numeric strings such as "2". Anything else leaves
// it invalid rather than failing the whole argument decode.
type Quantity struct {
	value int
	valid bool
}

// NewQuantity returns a valid Quantity of n.
func NewQuantity(n int) Quantity {
	return Quantity{value: n, valid: true}
}

// Int returns the quantity and whether it was a whole number.
func (q Quantity) Int() (int, bool) {
	return q.value, q.valid
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = Quantity{}
	s := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	if n, err := strconv.Atoi(s); err == nil {
		*q = NewQuantity(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		*q = NewQuantity(int(f))
	}
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(q.value)), nil
}

// JSONSchema describes a Quantity as an integer.
func (Quantity) JSONSchema() (jsonschema.Schema, error) {
	s := jsonschema.Schema{}
	s.AddType(jsonschema.Integer)
	s.WithDescription("Number of copies")
	return s, nil
}
