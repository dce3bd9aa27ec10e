package veloxdoc

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/syssam/veloxdoc/decode"
)

// planCache memoizes compiled decoders per projected shape, so that
// recompiling a query for new parameters never recompiles its decoder.
// Concurrent compilations of the same shape collapse into one.
type planCache struct {
	group singleflight.Group
	dec   sync.Map // planKey -> *decode.Decoder
}

// A planKey identifies one decoding plan. The output type is part of
// the key by identity, not by name, so same-named types from different
// packages never share a decoder. The signature distinguishes column
// sets and computed expressions over the same type.
type planKey struct {
	model string
	typ   reflect.Type
	sig   string
}

func (c *planCache) decoder(model string, shape *decode.Shape) (*decode.Decoder, error) {
	key := planKey{model: model, typ: shape.Type, sig: shapeSignature(shape)}
	if d, ok := c.dec.Load(key); ok {
		return d.(*decode.Decoder), nil
	}
	flight := fmt.Sprintf("%s|%s|%s", key.model, key.typ, key.sig)
	v, err, _ := c.group.Do(flight, func() (any, error) {
		if d, ok := c.dec.Load(key); ok {
			return d, nil
		}
		d, err := decode.Compile(shape)
		if err != nil {
			return nil, err
		}
		c.dec.Store(key, d)
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*decode.Decoder), nil
}

func shapeSignature(shape *decode.Shape) string {
	var b strings.Builder
	for i, m := range shape.Members {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%v:", m.Index)
		switch {
		case m.Column != nil:
			b.WriteString(m.Column.Key)
		case m.Expr != nil:
			evalSignature(&b, m.Expr)
		}
	}
	return b.String()
}

func evalSignature(b *strings.Builder, e *decode.Eval) {
	switch {
	case e.Col != nil:
		b.WriteString(e.Col.Key)
	case e.X != nil:
		b.WriteByte('(')
		evalSignature(b, e.X)
		b.WriteString(e.Op.String())
		evalSignature(b, e.Y)
		b.WriteByte(')')
	default:
		b.WriteString(e.Lit.String())
	}
}
