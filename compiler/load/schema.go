// Package load reads and validates generator manifests. A manifest
// declares the models of one document schema in YAML; the gen package
// turns a loaded manifest into Go bindings.
package load

import (
	"fmt"
	"go/token"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"
)

// A Manifest declares the models the generator emits bindings for.
type Manifest struct {
	// Package is the import path of the directory the bindings are
	// generated into. Each model becomes a package below it.
	Package string   `yaml:"package"`
	Models  []*Model `yaml:"models"`
}

// A Model declares one document type.
type Model struct {
	Name   string        `yaml:"name"`
	Table  string        `yaml:"table"` // overrides the derived table name
	Fields []*Field      `yaml:"fields"`
	Owns   []*Navigation `yaml:"owns"`
}

// A Field declares one stored property of a model.
type Field struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type"`
	Optional   bool     `yaml:"optional"`
	Nillable   bool     `yaml:"nillable"`
	StorageKey string   `yaml:"storage_key"`
	Comment    string   `yaml:"comment"`
	Values     []string `yaml:"values"` // enum variants
}

// A Navigation declares a document or document list owned by a model
// and stored inside its record.
type Navigation struct {
	Name     string `yaml:"nav"`
	Model    string `yaml:"model"`
	Many     bool   `yaml:"many"`
	Optional bool   `yaml:"optional"`
	Required bool   `yaml:"required"`
	Nillable bool   `yaml:"nillable"`
}

// fieldTypes are the manifest field types the generator understands,
// named after the schema/field constructors they map to.
var fieldTypes = map[string]bool{
	"string":     true,
	"bool":       true,
	"bytes":      true,
	"int":        true,
	"int64":      true,
	"uint64":     true,
	"float":      true,
	"decimal":    true,
	"time":       true,
	"uuid":       true,
	"enum":       true,
	"strings":    true,
	"ints":       true,
	"floats":     true,
	"string_set": true,
	"int_set":    true,
	"bytes_set":  true,
	"string_map": true,
	"json":       true,
}

// Parse reads a manifest and validates it. Unknown YAML keys are
// errors, so a typo in a manifest fails loudly instead of silently
// dropping a setting.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("load: decoding manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseFile reads and validates the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Model returns the declared model with the given name.
func (m *Manifest) Model(name string) (*Model, bool) {
	for _, md := range m.Models {
		if md.Name == name {
			return md, true
		}
	}
	return nil, false
}

func (m *Manifest) validate() error {
	if m.Package == "" {
		return fmt.Errorf("load: manifest has no package import path")
	}
	if len(m.Models) == 0 {
		return fmt.Errorf("load: manifest declares no models")
	}
	seen := make(map[string]bool, len(m.Models))
	for _, md := range m.Models {
		if err := checkName(md.Name, "model"); err != nil {
			return err
		}
		if seen[md.Name] {
			return fmt.Errorf("load: model %s declared twice", md.Name)
		}
		seen[md.Name] = true
		if err := md.validate(); err != nil {
			return err
		}
	}
	for _, md := range m.Models {
		for _, nav := range md.Owns {
			if _, ok := m.Model(nav.Model); !ok {
				return fmt.Errorf("load: navigation %s.%s targets unknown model %q", md.Name, nav.Name, nav.Model)
			}
		}
	}
	return m.checkCycles()
}

func (md *Model) validate() error {
	if len(md.Fields) == 0 {
		return fmt.Errorf("load: model %s has no fields", md.Name)
	}
	names := make(map[string]bool, len(md.Fields)+len(md.Owns))
	attrs := make(map[string]string, len(md.Fields)+len(md.Owns))
	claim := func(name, attr string) error {
		if names[name] {
			return fmt.Errorf("load: model %s declares %s twice", md.Name, name)
		}
		names[name] = true
		if prev, ok := attrs[attr]; ok {
			return fmt.Errorf("load: model %s stores %s and %s under the same attribute %q", md.Name, prev, name, attr)
		}
		attrs[attr] = name
		return nil
	}
	for _, f := range md.Fields {
		if err := f.validate(md.Name); err != nil {
			return err
		}
		attr := f.StorageKey
		if attr == "" {
			attr = inflect.Camelize(f.Name)
		}
		if err := claim(f.Name, attr); err != nil {
			return err
		}
	}
	for _, nav := range md.Owns {
		if err := nav.validate(md.Name); err != nil {
			return err
		}
		if err := claim(nav.Name, inflect.Camelize(nav.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Field) validate(model string) error {
	if err := checkName(f.Name, "field"); err != nil {
		return err
	}
	if !fieldTypes[f.Type] {
		return fmt.Errorf("load: field %s.%s has unknown type %q (known: %s)", model, f.Name, f.Type, knownTypes())
	}
	if f.Type == "enum" && len(f.Values) == 0 {
		return fmt.Errorf("load: enum field %s.%s declares no values", model, f.Name)
	}
	if f.Type != "enum" && len(f.Values) > 0 {
		return fmt.Errorf("load: field %s.%s is not an enum but declares values", model, f.Name)
	}
	seen := make(map[string]bool, len(f.Values))
	for _, v := range f.Values {
		if v == "" {
			return fmt.Errorf("load: enum field %s.%s declares an empty value", model, f.Name)
		}
		if seen[v] {
			return fmt.Errorf("load: enum field %s.%s declares value %q twice", model, f.Name, v)
		}
		seen[v] = true
	}
	return nil
}

func (nav *Navigation) validate(model string) error {
	if err := checkName(nav.Name, "navigation"); err != nil {
		return err
	}
	if nav.Model == "" {
		return fmt.Errorf("load: navigation %s.%s names no model", model, nav.Name)
	}
	if nav.Optional && nav.Required {
		return fmt.Errorf("load: navigation %s.%s is both optional and required", model, nav.Name)
	}
	if nav.Nillable && nav.Many {
		return fmt.Errorf("load: navigation %s.%s: nillable applies to single navigations", model, nav.Name)
	}
	return nil
}

// checkCycles rejects ownership loops. An owned document is stored
// inside its owner's record, so a cycle would mean a record of
// unbounded depth.
func (m *Manifest) checkCycles() error {
	const inStack, settled = 1, 2
	state := make(map[string]int, len(m.Models))
	var path []string
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case inStack:
			i := slices.Index(path, name)
			return fmt.Errorf("load: ownership cycle: %s", strings.Join(append(path[i:], name), " -> "))
		case settled:
			return nil
		}
		state[name] = inStack
		path = append(path, name)
		md, _ := m.Model(name)
		for _, nav := range md.Owns {
			if err := visit(nav.Model); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = settled
		return nil
	}
	for _, md := range m.Models {
		if err := visit(md.Name); err != nil {
			return err
		}
	}
	return nil
}

// checkName enforces the schema naming rule: declared names are
// snake_case, and they must not be Go keywords since they become
// package and identifier names in generated code.
func checkName(name, what string) error {
	if name == "" {
		return fmt.Errorf("load: %s with an empty name", what)
	}
	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case (c >= '0' && c <= '9' || c == '_') && i > 0:
		default:
			return fmt.Errorf("load: %s name %q is not snake_case", what, name)
		}
	}
	if token.IsKeyword(name) {
		return fmt.Errorf("load: %s name %q is a Go keyword", what, name)
	}
	return nil
}

func knownTypes() string {
	names := make([]string, 0, len(fieldTypes))
	for name := range fieldTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
