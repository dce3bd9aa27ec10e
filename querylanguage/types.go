package querylanguage

import (
	"time"

	"github.com/shopspring/decimal"
)

// A Fielder is a typed predicate waiting to be bound to a field name.
// The typed families below (StringP, IntP, ...) implement it; schema
// code generated for a model binds them to the model's field names.
type Fielder interface {
	Field(name string) P
}

type pending func(name string) P

func cmp[T any](op Op, v T) pending {
	return func(name string) P {
		return &BinaryExpr{Op: op, X: F(name), Y: V(v)}
	}
}

func nility(op Op) pending {
	return func(name string) P {
		return &BinaryExpr{Op: op, X: F(name), Y: V(nil)}
	}
}

func group[F ~func(string) P](op Op, x, y F, z []F) pending {
	return func(name string) P {
		ps := make([]P, 0, 2+len(z))
		ps = append(ps, x(name), y(name))
		for _, p := range z {
			ps = append(ps, p(name))
		}
		return &NaryExpr{Op: op, Ps: ps}
	}
}

func negate[F ~func(string) P](x F) pending {
	return func(name string) P {
		return Not(x(name))
	}
}

// StringP is a predicate on a string field.
type StringP pending

// Field binds the predicate to a field name.
func (p StringP) Field(name string) P { return p(name) }

// StringEQ returns a predicate asserting equality with v.
func StringEQ(v string) StringP { return StringP(cmp(OpEQ, v)) }

// StringNEQ returns a predicate asserting inequality with v.
func StringNEQ(v string) StringP { return StringP(cmp(OpNEQ, v)) }

// StringGT returns a predicate asserting the field is greater than v.
func StringGT(v string) StringP { return StringP(cmp(OpGT, v)) }

// StringGTE returns a predicate asserting the field is greater than or equal to v.
func StringGTE(v string) StringP { return StringP(cmp(OpGTE, v)) }

// StringLT returns a predicate asserting the field is less than v.
func StringLT(v string) StringP { return StringP(cmp(OpLT, v)) }

// StringLTE returns a predicate asserting the field is less than or equal to v.
func StringLTE(v string) StringP { return StringP(cmp(OpLTE, v)) }

// StringNil returns a predicate asserting the field is null.
func StringNil() StringP { return StringP(nility(OpEQ)) }

// StringNotNil returns a predicate asserting the field is not null.
func StringNotNil() StringP { return StringP(nility(OpNEQ)) }

// StringAnd returns the conjunction of the given predicates.
func StringAnd(x, y StringP, z ...StringP) StringP { return StringP(group(OpAnd, x, y, z)) }

// StringOr returns the disjunction of the given predicates.
func StringOr(x, y StringP, z ...StringP) StringP { return StringP(group(OpOr, x, y, z)) }

// StringNot returns the negation of the given predicate.
func StringNot(x StringP) StringP { return StringP(negate(x)) }

// BoolP is a predicate on a boolean field.
type BoolP pending

// Field binds the predicate to a field name.
func (p BoolP) Field(name string) P { return p(name) }

// BoolEQ returns a predicate asserting equality with v.
func BoolEQ(v bool) BoolP { return BoolP(cmp(OpEQ, v)) }

// BoolNEQ returns a predicate asserting inequality with v.
func BoolNEQ(v bool) BoolP { return BoolP(cmp(OpNEQ, v)) }

// BoolNil returns a predicate asserting the field is null.
func BoolNil() BoolP { return BoolP(nility(OpEQ)) }

// BoolNotNil returns a predicate asserting the field is not null.
func BoolNotNil() BoolP { return BoolP(nility(OpNEQ)) }

// BoolAnd returns the conjunction of the given predicates.
func BoolAnd(x, y BoolP, z ...BoolP) BoolP { return BoolP(group(OpAnd, x, y, z)) }

// BoolOr returns the disjunction of the given predicates.
func BoolOr(x, y BoolP, z ...BoolP) BoolP { return BoolP(group(OpOr, x, y, z)) }

// BoolNot returns the negation of the given predicate.
func BoolNot(x BoolP) BoolP { return BoolP(negate(x)) }

// BytesP is a predicate on a binary field.
type BytesP pending

// Field binds the predicate to a field name.
func (p BytesP) Field(name string) P { return p(name) }

// BytesEQ returns a predicate asserting equality with v.
func BytesEQ(v []byte) BytesP { return BytesP(cmp(OpEQ, v)) }

// BytesNEQ returns a predicate asserting inequality with v.
func BytesNEQ(v []byte) BytesP { return BytesP(cmp(OpNEQ, v)) }

// BytesNil returns a predicate asserting the field is null.
func BytesNil() BytesP { return BytesP(nility(OpEQ)) }

// BytesNotNil returns a predicate asserting the field is not null.
func BytesNotNil() BytesP { return BytesP(nility(OpNEQ)) }

// BytesAnd returns the conjunction of the given predicates.
func BytesAnd(x, y BytesP, z ...BytesP) BytesP { return BytesP(group(OpAnd, x, y, z)) }

// BytesOr returns the disjunction of the given predicates.
func BytesOr(x, y BytesP, z ...BytesP) BytesP { return BytesP(group(OpOr, x, y, z)) }

// BytesNot returns the negation of the given predicate.
func BytesNot(x BytesP) BytesP { return BytesP(negate(x)) }

// IntP is a predicate on an int field.
type IntP pending

// Field binds the predicate to a field name.
func (p IntP) Field(name string) P { return p(name) }

// IntEQ returns a predicate asserting equality with v.
func IntEQ(v int) IntP { return IntP(cmp(OpEQ, v)) }

// IntNEQ returns a predicate asserting inequality with v.
func IntNEQ(v int) IntP { return IntP(cmp(OpNEQ, v)) }

// IntGT returns a predicate asserting the field is greater than v.
func IntGT(v int) IntP { return IntP(cmp(OpGT, v)) }

// IntGTE returns a predicate asserting the field is greater than or equal to v.
func IntGTE(v int) IntP { return IntP(cmp(OpGTE, v)) }

// IntLT returns a predicate asserting the field is less than v.
func IntLT(v int) IntP { return IntP(cmp(OpLT, v)) }

// IntLTE returns a predicate asserting the field is less than or equal to v.
func IntLTE(v int) IntP { return IntP(cmp(OpLTE, v)) }

// IntNil returns a predicate asserting the field is null.
func IntNil() IntP { return IntP(nility(OpEQ)) }

// IntNotNil returns a predicate asserting the field is not null.
func IntNotNil() IntP { return IntP(nility(OpNEQ)) }

// IntAnd returns the conjunction of the given predicates.
func IntAnd(x, y IntP, z ...IntP) IntP { return IntP(group(OpAnd, x, y, z)) }

// IntOr returns the disjunction of the given predicates.
func IntOr(x, y IntP, z ...IntP) IntP { return IntP(group(OpOr, x, y, z)) }

// IntNot returns the negation of the given predicate.
func IntNot(x IntP) IntP { return IntP(negate(x)) }

// Int64P is a predicate on an int64 field.
type Int64P pending

// Field binds the predicate to a field name.
func (p Int64P) Field(name string) P { return p(name) }

// Int64EQ returns a predicate asserting equality with v.
func Int64EQ(v int64) Int64P { return Int64P(cmp(OpEQ, v)) }

// Int64NEQ returns a predicate asserting inequality with v.
func Int64NEQ(v int64) Int64P { return Int64P(cmp(OpNEQ, v)) }

// Int64GT returns a predicate asserting the field is greater than v.
func Int64GT(v int64) Int64P { return Int64P(cmp(OpGT, v)) }

// Int64GTE returns a predicate asserting the field is greater than or equal to v.
func Int64GTE(v int64) Int64P { return Int64P(cmp(OpGTE, v)) }

// Int64LT returns a predicate asserting the field is less than v.
func Int64LT(v int64) Int64P { return Int64P(cmp(OpLT, v)) }

// Int64LTE returns a predicate asserting the field is less than or equal to v.
func Int64LTE(v int64) Int64P { return Int64P(cmp(OpLTE, v)) }

// Int64Nil returns a predicate asserting the field is null.
func Int64Nil() Int64P { return Int64P(nility(OpEQ)) }

// Int64NotNil returns a predicate asserting the field is not null.
func Int64NotNil() Int64P { return Int64P(nility(OpNEQ)) }

// Int64And returns the conjunction of the given predicates.
func Int64And(x, y Int64P, z ...Int64P) Int64P { return Int64P(group(OpAnd, x, y, z)) }

// Int64Or returns the disjunction of the given predicates.
func Int64Or(x, y Int64P, z ...Int64P) Int64P { return Int64P(group(OpOr, x, y, z)) }

// Int64Not returns the negation of the given predicate.
func Int64Not(x Int64P) Int64P { return Int64P(negate(x)) }

// Uint64P is a predicate on a uint64 field.
type Uint64P pending

// Field binds the predicate to a field name.
func (p Uint64P) Field(name string) P { return p(name) }

// Uint64EQ returns a predicate asserting equality with v.
func Uint64EQ(v uint64) Uint64P { return Uint64P(cmp(OpEQ, v)) }

// Uint64NEQ returns a predicate asserting inequality with v.
func Uint64NEQ(v uint64) Uint64P { return Uint64P(cmp(OpNEQ, v)) }

// Uint64GT returns a predicate asserting the field is greater than v.
func Uint64GT(v uint64) Uint64P { return Uint64P(cmp(OpGT, v)) }

// Uint64GTE returns a predicate asserting the field is greater than or equal to v.
func Uint64GTE(v uint64) Uint64P { return Uint64P(cmp(OpGTE, v)) }

// Uint64LT returns a predicate asserting the field is less than v.
func Uint64LT(v uint64) Uint64P { return Uint64P(cmp(OpLT, v)) }

// Uint64LTE returns a predicate asserting the field is less than or equal to v.
func Uint64LTE(v uint64) Uint64P { return Uint64P(cmp(OpLTE, v)) }

// Uint64Nil returns a predicate asserting the field is null.
func Uint64Nil() Uint64P { return Uint64P(nility(OpEQ)) }

// Uint64NotNil returns a predicate asserting the field is not null.
func Uint64NotNil() Uint64P { return Uint64P(nility(OpNEQ)) }

// Uint64And returns the conjunction of the given predicates.
func Uint64And(x, y Uint64P, z ...Uint64P) Uint64P { return Uint64P(group(OpAnd, x, y, z)) }

// Uint64Or returns the disjunction of the given predicates.
func Uint64Or(x, y Uint64P, z ...Uint64P) Uint64P { return Uint64P(group(OpOr, x, y, z)) }

// Uint64Not returns the negation of the given predicate.
func Uint64Not(x Uint64P) Uint64P { return Uint64P(negate(x)) }

// Float64P is a predicate on a float64 field.
type Float64P pending

// Field binds the predicate to a field name.
func (p Float64P) Field(name string) P { return p(name) }

// Float64EQ returns a predicate asserting equality with v.
func Float64EQ(v float64) Float64P { return Float64P(cmp(OpEQ, v)) }

// Float64NEQ returns a predicate asserting inequality with v.
func Float64NEQ(v float64) Float64P { return Float64P(cmp(OpNEQ, v)) }

// Float64GT returns a predicate asserting the field is greater than v.
func Float64GT(v float64) Float64P { return Float64P(cmp(OpGT, v)) }

// Float64GTE returns a predicate asserting the field is greater than or equal to v.
func Float64GTE(v float64) Float64P { return Float64P(cmp(OpGTE, v)) }

// Float64LT returns a predicate asserting the field is less than v.
func Float64LT(v float64) Float64P { return Float64P(cmp(OpLT, v)) }

// Float64LTE returns a predicate asserting the field is less than or equal to v.
func Float64LTE(v float64) Float64P { return Float64P(cmp(OpLTE, v)) }

// Float64Nil returns a predicate asserting the field is null.
func Float64Nil() Float64P { return Float64P(nility(OpEQ)) }

// Float64NotNil returns a predicate asserting the field is not null.
func Float64NotNil() Float64P { return Float64P(nility(OpNEQ)) }

// Float64And returns the conjunction of the given predicates.
func Float64And(x, y Float64P, z ...Float64P) Float64P { return Float64P(group(OpAnd, x, y, z)) }

// Float64Or returns the disjunction of the given predicates.
func Float64Or(x, y Float64P, z ...Float64P) Float64P { return Float64P(group(OpOr, x, y, z)) }

// Float64Not returns the negation of the given predicate.
func Float64Not(x Float64P) Float64P { return Float64P(negate(x)) }

// TimeP is a predicate on a time field.
type TimeP pending

// Field binds the predicate to a field name.
func (p TimeP) Field(name string) P { return p(name) }

// TimeEQ returns a predicate asserting equality with v.
func TimeEQ(v time.Time) TimeP { return TimeP(cmp(OpEQ, v)) }

// TimeNEQ returns a predicate asserting inequality with v.
func TimeNEQ(v time.Time) TimeP { return TimeP(cmp(OpNEQ, v)) }

// TimeGT returns a predicate asserting the field is after v.
func TimeGT(v time.Time) TimeP { return TimeP(cmp(OpGT, v)) }

// TimeGTE returns a predicate asserting the field is at or after v.
func TimeGTE(v time.Time) TimeP { return TimeP(cmp(OpGTE, v)) }

// TimeLT returns a predicate asserting the field is before v.
func TimeLT(v time.Time) TimeP { return TimeP(cmp(OpLT, v)) }

// TimeLTE returns a predicate asserting the field is at or before v.
func TimeLTE(v time.Time) TimeP { return TimeP(cmp(OpLTE, v)) }

// TimeNil returns a predicate asserting the field is null.
func TimeNil() TimeP { return TimeP(nility(OpEQ)) }

// TimeNotNil returns a predicate asserting the field is not null.
func TimeNotNil() TimeP { return TimeP(nility(OpNEQ)) }

// TimeAnd returns the conjunction of the given predicates.
func TimeAnd(x, y TimeP, z ...TimeP) TimeP { return TimeP(group(OpAnd, x, y, z)) }

// TimeOr returns the disjunction of the given predicates.
func TimeOr(x, y TimeP, z ...TimeP) TimeP { return TimeP(group(OpOr, x, y, z)) }

// TimeNot returns the negation of the given predicate.
func TimeNot(x TimeP) TimeP { return TimeP(negate(x)) }

// DecimalP is a predicate on a decimal field.
type DecimalP pending

// Field binds the predicate to a field name.
func (p DecimalP) Field(name string) P { return p(name) }

// DecimalEQ returns a predicate asserting equality with v.
func DecimalEQ(v decimal.Decimal) DecimalP { return DecimalP(cmp(OpEQ, v)) }

// DecimalNEQ returns a predicate asserting inequality with v.
func DecimalNEQ(v decimal.Decimal) DecimalP { return DecimalP(cmp(OpNEQ, v)) }

// DecimalGT returns a predicate asserting the field is greater than v.
func DecimalGT(v decimal.Decimal) DecimalP { return DecimalP(cmp(OpGT, v)) }

// DecimalGTE returns a predicate asserting the field is greater than or equal to v.
func DecimalGTE(v decimal.Decimal) DecimalP { return DecimalP(cmp(OpGTE, v)) }

// DecimalLT returns a predicate asserting the field is less than v.
func DecimalLT(v decimal.Decimal) DecimalP { return DecimalP(cmp(OpLT, v)) }

// DecimalLTE returns a predicate asserting the field is less than or equal to v.
func DecimalLTE(v decimal.Decimal) DecimalP { return DecimalP(cmp(OpLTE, v)) }

// DecimalNil returns a predicate asserting the field is null.
func DecimalNil() DecimalP { return DecimalP(nility(OpEQ)) }

// DecimalNotNil returns a predicate asserting the field is not null.
func DecimalNotNil() DecimalP { return DecimalP(nility(OpNEQ)) }

// DecimalAnd returns the conjunction of the given predicates.
func DecimalAnd(x, y DecimalP, z ...DecimalP) DecimalP { return DecimalP(group(OpAnd, x, y, z)) }

// DecimalOr returns the disjunction of the given predicates.
func DecimalOr(x, y DecimalP, z ...DecimalP) DecimalP { return DecimalP(group(OpOr, x, y, z)) }

// DecimalNot returns the negation of the given predicate.
func DecimalNot(x DecimalP) DecimalP { return DecimalP(negate(x)) }

// ValueP is a predicate on a field of any type.
type ValueP pending

// Field binds the predicate to a field name.
func (p ValueP) Field(name string) P { return p(name) }

// ValueEQ returns a predicate asserting equality with v.
func ValueEQ(v any) ValueP { return ValueP(cmp(OpEQ, v)) }

// ValueNEQ returns a predicate asserting inequality with v.
func ValueNEQ(v any) ValueP { return ValueP(cmp(OpNEQ, v)) }

// ValueNil returns a predicate asserting the field is null.
func ValueNil() ValueP { return ValueP(nility(OpEQ)) }

// ValueNotNil returns a predicate asserting the field is not null.
func ValueNotNil() ValueP { return ValueP(nility(OpNEQ)) }

// ValueAnd returns the conjunction of the given predicates.
func ValueAnd(x, y ValueP, z ...ValueP) ValueP { return ValueP(group(OpAnd, x, y, z)) }

// ValueOr returns the disjunction of the given predicates.
func ValueOr(x, y ValueP, z ...ValueP) ValueP { return ValueP(group(OpOr, x, y, z)) }

// ValueNot returns the negation of the given predicate.
func ValueNot(x ValueP) ValueP { return ValueP(negate(x)) }
