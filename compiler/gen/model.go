package gen

import (
	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/veloxdoc/compiler/load"
)

const (
	decimalPkg = "github.com/shopspring/decimal"
	uuidPkg    = "github.com/google/uuid"
)

// fieldBuilders maps manifest field types to their schema/field
// constructors. Enum and json take arguments beyond the name and are
// rendered apart.
var fieldBuilders = map[string]string{
	"string":     "String",
	"bool":       "Bool",
	"bytes":      "Bytes",
	"int":        "Int",
	"int64":      "Int64",
	"uint64":     "Uint64",
	"float":      "Float",
	"decimal":    "Decimal",
	"time":       "Time",
	"uuid":       "UUID",
	"strings":    "Strings",
	"ints":       "Ints",
	"floats":     "Floats",
	"string_set": "StringSet",
	"int_set":    "IntSet",
	"bytes_set":  "BytesSet",
	"string_map": "StringMap",
}

// literalTypes spell the plain member types of each manifest type. The
// pointer forms prefix the literal with a star, which keeps jennifer
// from splitting the star off inside struct definitions.
var literalTypes = map[string]string{
	"string":     "string",
	"bool":       "bool",
	"bytes":      "[]byte",
	"int":        "int",
	"int64":      "int64",
	"uint64":     "uint64",
	"float":      "float64",
	"strings":    "[]string",
	"ints":       "[]int64",
	"floats":     "[]float64",
	"string_set": "[]string",
	"int_set":    "[]int64",
	"bytes_set":  "[][]byte",
	"string_map": "map[string]string",
	"json":       "map[string]any",
}

// genModel renders the model package's main file: enum declarations,
// the document struct, the schema name constants and the compiled
// Model variable the query layer binds to.
func genModel(m *load.Manifest, md *load.Model) *jen.File {
	f := newFile(packageName(md.Name))
	name := structName(md.Name)

	for _, fd := range md.Fields {
		if fd.Type == "enum" {
			genEnum(f, md, fd)
		}
	}

	f.Commentf("%s is the %s document declared in the manifest.", name, md.Name)
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, fd := range md.Fields {
			if fd.Comment != "" {
				g.Comment(fd.Comment)
			}
			g.Id(memberName(fd.Name)).Add(memberType(md, fd))
		}
		for _, nav := range md.Owns {
			g.Id(memberName(nav.Name)).Add(navType(m, nav))
		}
	})

	f.Commentf("Table is the backing table of %s documents.", name)
	f.Const().Id("Table").Op("=").Lit(tableName(md))

	f.Comment("Schema names of the declared fields.")
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, fd := range md.Fields {
			g.Id(fieldConst(fd.Name)).Op("=").Lit(fd.Name)
		}
	})

	if len(md.Owns) > 0 {
		f.Comment("Schema names of the owned navigations.")
		f.Const().DefsFunc(func(g *jen.Group) {
			for _, nav := range md.Owns {
				g.Id(navConst(nav.Name)).Op("=").Lit(nav.Name)
			}
		})
	}

	decl := jen.Qual(schemaPkg, "New").CallFunc(func(g *jen.Group) {
		g.Lit(md.Name)
		for _, fd := range md.Fields {
			g.Add(builderExpr(md, fd))
		}
	})
	if md.Table != "" {
		decl.Dot("Table").Call(jen.Lit(md.Table))
	}
	if len(md.Owns) > 0 {
		decl.Dot("Owns").CallFunc(func(g *jen.Group) {
			for _, nav := range md.Owns {
				g.Add(navExpr(m, nav))
			}
		})
	}
	decl.Dot("MustCompile").Call(jen.Id(name).Values())

	f.Commentf("Model is the compiled schema %s queries run against.", name)
	f.Var().Id("Model").Op("=").Add(decl)
	return f
}

// genEnum renders the named string type and the value constants of an
// enum field.
func genEnum(f *jen.File, md *load.Model, fd *load.Field) {
	typ := enumTypeName(md, fd)
	f.Commentf("%s enumerates the allowed values of the %q field.", typ, fd.Name)
	f.Type().Id(typ).String()
	f.Commentf("%s values.", typ)
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, v := range fd.Values {
			g.Id(enumConstName(typ, v)).Id(typ).Op("=").Lit(v)
		}
	})
}

func tableName(md *load.Model) string {
	if md.Table != "" {
		return md.Table
	}
	return inflect.Camelize(inflect.Pluralize(md.Name))
}

func memberType(md *load.Model, fd *load.Field) jen.Code {
	if fd.Nillable {
		return pointerType(md, fd)
	}
	return baseType(md, fd)
}

func baseType(md *load.Model, fd *load.Field) *jen.Statement {
	switch fd.Type {
	case "string":
		return jen.String()
	case "bool":
		return jen.Bool()
	case "bytes":
		return jen.Index().Byte()
	case "int":
		return jen.Int()
	case "int64":
		return jen.Int64()
	case "uint64":
		return jen.Uint64()
	case "float":
		return jen.Float64()
	case "decimal":
		return jen.Qual(decimalPkg, "Decimal")
	case "time":
		return jen.Qual("time", "Time")
	case "uuid":
		return jen.Qual(uuidPkg, "UUID")
	case "enum":
		return jen.Id(enumTypeName(md, fd))
	case "strings", "string_set":
		return jen.Index().String()
	case "ints", "int_set":
		return jen.Index().Int64()
	case "floats":
		return jen.Index().Float64()
	case "bytes_set":
		return jen.Index().Index().Byte()
	case "string_map":
		return jen.Map(jen.String()).String()
	case "json":
		return jen.Map(jen.String()).Id("any")
	}
	// Unreachable: the loader rejects unknown field types.
	return jen.Id("any")
}

func pointerType(md *load.Model, fd *load.Field) jen.Code {
	switch fd.Type {
	case "decimal":
		return jen.Op("*").Qual(decimalPkg, "Decimal")
	case "time":
		return jen.Op("*").Qual("time", "Time")
	case "uuid":
		return jen.Op("*").Qual(uuidPkg, "UUID")
	case "enum":
		return jen.Op("*").Id(enumTypeName(md, fd))
	}
	return jen.Id("*" + literalTypes[fd.Type])
}

// navType returns the struct member type of an owned navigation: the
// target document for singles, a pointer when nillable, a slice for
// collections.
func navType(m *load.Manifest, nav *load.Navigation) jen.Code {
	target := jen.Qual(modelPkgPath(m, nav.Model), structName(nav.Model))
	switch {
	case nav.Many:
		return jen.Index().Add(target)
	case nav.Nillable:
		return jen.Op("*").Add(target)
	default:
		return target
	}
}

func builderExpr(md *load.Model, fd *load.Field) *jen.Statement {
	var s *jen.Statement
	switch fd.Type {
	case "enum":
		typ := enumTypeName(md, fd)
		s = jen.Qual(fieldPkg, "Enum").Call(jen.Lit(fd.Name))
		s.Dot("Values").CallFunc(func(g *jen.Group) {
			for _, v := range fd.Values {
				g.Lit(v)
			}
		})
		s.Dot("GoType").Call(jen.Id(typ).Call(jen.Lit("")))
	case "json":
		s = jen.Qual(fieldPkg, "JSON").Call(jen.Lit(fd.Name), jen.Map(jen.String()).Id("any").Values())
	default:
		s = jen.Qual(fieldPkg, fieldBuilders[fd.Type]).Call(jen.Lit(fd.Name))
	}
	if fd.Optional {
		s.Dot("Optional").Call()
	}
	if fd.Nillable {
		s.Dot("Nillable").Call()
	}
	if fd.StorageKey != "" {
		s.Dot("StorageKey").Call(jen.Lit(fd.StorageKey))
	}
	if fd.Comment != "" {
		s.Dot("Comment").Call(jen.Lit(fd.Comment))
	}
	return s
}

// navExpr renders the schema navigation declaration. One is required
// and Many optional by default, so only deviations are spelled.
func navExpr(m *load.Manifest, nav *load.Navigation) *jen.Statement {
	kind := "One"
	if nav.Many {
		kind = "Many"
	}
	s := jen.Qual(schemaPkg, kind).Call(jen.Lit(nav.Name), jen.Qual(modelPkgPath(m, nav.Model), "Model"))
	switch {
	case nav.Many && nav.Required:
		s.Dot("Required").Call()
	case !nav.Many && nav.Optional:
		s.Dot("Optional").Call()
	}
	if nav.Nillable {
		s.Dot("Nillable").Call()
	}
	return s
}
