package decode_test

import (
	"reflect"
	"testing"

	"github.com/syssam/veloxdoc/wire"
)

func BenchmarkDecode_Scalars(b *testing.B) {
	d := mustDecoder(b, shapeOf(b, itemModel, "name", "count", "ratio", "active"))
	rec := wire.Record{
		"Name":   wire.String("beacon"),
		"Count":  wire.Int(42),
		"Ratio":  wire.Float(0.5),
		"Active": wire.Bool(true),
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var v Item
		if err := d.Decode(rec, reflect.ValueOf(&v).Elem()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode_Entity(b *testing.B) {
	d := mustDecoder(b, shapeOf(b, itemModel))
	rec := loadRecords(b)["item_full"]
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v Item
		if err := d.Decode(rec, reflect.ValueOf(&v).Elem()); err != nil {
			b.Fatal(err)
		}
	}
}
