package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/veloxdoc/compiler/load"
)

// predicateFamilies maps scalar manifest types to the typed predicate
// family the generated binder anchors. Container fields have no family
// and get no binder.
var predicateFamilies = map[string]string{
	"string":  "StringP",
	"bool":    "BoolP",
	"bytes":   "BytesP",
	"int":     "IntP",
	"int64":   "Int64P",
	"uint64":  "Uint64P",
	"float":   "Float64P",
	"decimal": "DecimalP",
	"time":    "TimeP",
	"uuid":    "ValueP",
	"enum":    "ValueP",
}

// genWhere renders the model package's predicate binders, one per
// scalar field, so queries spell conditions without bare field names:
//
//	customer.Name(ql.StringEQ("ana"))
//
// Returns nil when the model declares no scalar fields.
func genWhere(md *load.Model) *jen.File {
	var binders []*load.Field
	for _, fd := range md.Fields {
		if _, ok := predicateFamilies[fd.Type]; ok {
			binders = append(binders, fd)
		}
	}
	if len(binders) == 0 {
		return nil
	}
	f := newFile(packageName(md.Name))
	taken := takenNames(md)
	for _, fd := range binders {
		name := memberName(fd.Name)
		if taken[name] {
			name += "Pred"
		}
		f.Commentf("%s anchors a typed predicate to the %q field.", name, fd.Name)
		f.Func().Id(name).Params(
			jen.Id("p").Qual(qlPkg, predicateFamilies[fd.Type]),
		).Qual(qlPkg, "P").Block(
			jen.Return(jen.Id("p").Dot("Field").Call(jen.Id(fieldConst(fd.Name)))),
		)
	}
	return f
}

// takenNames collects the package-level identifiers the model file
// declares. Binders that would collide take a Pred suffix instead,
// which notably renames every enum binder: the enum type already
// claims the camelized field name.
func takenNames(md *load.Model) map[string]bool {
	taken := map[string]bool{"Model": true, "Table": true}
	taken[structName(md.Name)] = true
	for _, fd := range md.Fields {
		taken[fieldConst(fd.Name)] = true
		if fd.Type == "enum" {
			typ := enumTypeName(md, fd)
			taken[typ] = true
			for _, v := range fd.Values {
				taken[enumConstName(typ, v)] = true
			}
		}
	}
	for _, nav := range md.Owns {
		taken[navConst(nav.Name)] = true
	}
	return taken
}
