package wire

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Numeric parsing is invariant: decimal text is interpreted the same way
// regardless of process locale. Integers parse in integer mode and reject
// fractional text; floating-point and decimal values parse in point mode.

// Int64 parses the number as a signed integer.
func (n Number) Int64() (int64, error) {
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("wire: parsing %q as int64: %w", string(n), err)
	}
	return v, nil
}

// Uint64 parses the number as an unsigned integer.
func (n Number) Uint64() (uint64, error) {
	v, err := strconv.ParseUint(string(n), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("wire: parsing %q as uint64: %w", string(n), err)
	}
	return v, nil
}

// Float64 parses the number as a binary floating-point value.
func (n Number) Float64() (float64, error) {
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0, fmt.Errorf("wire: parsing %q as float64: %w", string(n), err)
	}
	return v, nil
}

// Decimal parses the number losslessly as an arbitrary-precision decimal.
func (n Number) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("wire: parsing %q as decimal: %w", string(n), err)
	}
	return d, nil
}

// Int formats a signed integer as a Number.
func Int(v int64) Number { return Number(strconv.FormatInt(v, 10)) }

// Uint formats an unsigned integer as a Number.
func Uint(v uint64) Number { return Number(strconv.FormatUint(v, 10)) }

// Float formats a float as a Number using the shortest round-trippable
// decimal text.
func Float(v float64) Number { return Number(strconv.FormatFloat(v, 'g', -1, 64)) }

// Decimal formats an arbitrary-precision decimal as a Number.
func Decimal(d decimal.Decimal) Number { return Number(d.String()) }
