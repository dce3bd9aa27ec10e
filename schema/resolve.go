package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
)

// TagName is the struct tag that pins a field declaration to a struct
// member, overriding name-based resolution.
const TagName = "veloxdoc"

var foldCaser = cases.Fold()

// resolveMember finds the exported struct member a declared field binds
// to. Resolution order: the veloxdoc struct tag, then a member named
// exactly like the camelized field name, then a case-folded match with
// the field name's underscores ignored. The folded step errors when two
// members match.
func resolveMember(typ reflect.Type, name string) (reflect.StructField, error) {
	visible := reflect.VisibleFields(typ)
	for _, sf := range visible {
		if sf.PkgPath != "" {
			continue
		}
		if tag, ok := sf.Tag.Lookup(TagName); ok && tagName(tag) == name {
			return sf, nil
		}
	}
	camel := inflect.Camelize(name)
	for _, sf := range visible {
		if sf.PkgPath != "" || sf.Name != camel {
			continue
		}
		if _, ok := sf.Tag.Lookup(TagName); ok {
			continue
		}
		return sf, nil
	}
	folded := foldCaser.String(strings.ReplaceAll(name, "_", ""))
	var matches []reflect.StructField
	for _, sf := range visible {
		if sf.PkgPath != "" {
			continue
		}
		if _, ok := sf.Tag.Lookup(TagName); ok {
			continue
		}
		if foldCaser.String(sf.Name) == folded {
			matches = append(matches, sf)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return reflect.StructField{}, fmt.Errorf("struct %s has no member for %s (looked for %s)", typ, name, camel)
	default:
		names := make([]string, len(matches))
		for i, sf := range matches {
			names[i] = sf.Name
		}
		return reflect.StructField{}, fmt.Errorf("struct %s members %s all match %s; bind one with a %s tag",
			typ, strings.Join(names, ", "), name, TagName)
	}
}

// tagName extracts the name part of a veloxdoc tag, ignoring options
// after the first comma.
func tagName(tag string) string {
	if i := strings.IndexByte(tag, ','); i >= 0 {
		return tag[:i]
	}
	return tag
}
