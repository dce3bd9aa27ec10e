package field

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/veloxdoc/wire"
)

// ValueConverter translates between a field's Go representation and its
// wire primitive. Converters run after structural extraction: FromWire
// receives the already-typed wire member of the field, never null.
type ValueConverter interface {
	// ToWire encodes a model value into its wire form.
	ToWire(v any) (wire.Value, error)
	// FromWire decodes a wire value into the model form.
	FromWire(w wire.Value) (any, error)
}

// TimeConverter stores time.Time as RFC 3339 text with nanosecond
// precision. It is installed by field.Time.
type TimeConverter struct{}

// ToWire implements ValueConverter.
func (TimeConverter) ToWire(v any) (wire.Value, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("field: TimeConverter: unexpected type %T", v)
	}
	return wire.String(t.Format(time.RFC3339Nano)), nil
}

// FromWire implements ValueConverter.
func (TimeConverter) FromWire(w wire.Value) (any, error) {
	s, ok := w.(wire.String)
	if !ok {
		return nil, fmt.Errorf("field: TimeConverter: unexpected wire kind %s", w.Kind())
	}
	t, err := time.Parse(time.RFC3339Nano, string(s))
	if err != nil {
		return nil, fmt.Errorf("field: parsing %q as RFC 3339 time: %w", string(s), err)
	}
	return t, nil
}

// UUIDConverter stores uuid.UUID in its canonical hyphenated string
// form. It is installed by field.UUID.
type UUIDConverter struct{}

// ToWire implements ValueConverter.
func (UUIDConverter) ToWire(v any) (wire.Value, error) {
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("field: UUIDConverter: unexpected type %T", v)
	}
	return wire.String(id.String()), nil
}

// FromWire implements ValueConverter.
func (UUIDConverter) FromWire(w wire.Value) (any, error) {
	s, ok := w.(wire.String)
	if !ok {
		return nil, fmt.Errorf("field: UUIDConverter: unexpected wire kind %s", w.Kind())
	}
	id, err := uuid.Parse(string(s))
	if err != nil {
		return nil, fmt.Errorf("field: parsing %q as UUID: %w", string(s), err)
	}
	return id, nil
}
