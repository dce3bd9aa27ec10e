package gen

import (
	"path"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/veloxdoc/compiler/load"
)

// genRegistry renders the file at the root of the target directory
// collecting every generated model in one shared registry.
func genRegistry(m *load.Manifest) *jen.File {
	f := newFile(rootPackageName(m))
	f.Comment("Registry indexes every generated model by name and bound Go type.")
	f.Var().Id("Registry").Op("=").Id("newRegistry").Call()
	f.Func().Id("newRegistry").Params().Op("*").Qual(schemaPkg, "Registry").BlockFunc(func(g *jen.Group) {
		g.Id("r").Op(":=").Qual(schemaPkg, "NewRegistry").Call()
		g.If(
			jen.Err().Op(":=").Id("r").Dot("Add").CallFunc(func(args *jen.Group) {
				for _, md := range m.Models {
					args.Qual(modelPkgPath(m, md.Name), "Model")
				}
			}),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Panic(jen.Err()))
		g.Return(jen.Id("r"))
	})
	return f
}

// rootPackageName returns the package name of the manifest's import
// path. Hyphens are legal in a path element but not in an identifier.
func rootPackageName(m *load.Manifest) string {
	return packageName(strings.ReplaceAll(path.Base(m.Package), "-", ""))
}
