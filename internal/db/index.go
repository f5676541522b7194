package db

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IndexFieldType enumerates the FT schema field types listings use.
type IndexFieldType int

const (
	// IndexFieldNumeric is a numeric range field.
	IndexFieldNumeric IndexFieldType = iota
	// IndexFieldTag is an exact-match tag field.
	IndexFieldTag
	// IndexFieldText is a full-text field.
	IndexFieldText
	// IndexFieldGeo is a "lon,lat" geo point field.
	IndexFieldGeo
)

var fieldTypeNames = map[IndexFieldType]string{
	IndexFieldNumeric: "NUMERIC",
	IndexFieldTag:     "TAG",
	IndexFieldText:    "TEXT",
	IndexFieldGeo:     "GEO",
}

func (t IndexFieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "IndexFieldType(" + strconv.Itoa(int(t)) + ")"
}

// IndexField is one JSONPath projected into the index schema.
type IndexField struct {
	Path  string // JSONPath into the stored document
	Alias string // name used in queries
	Type  IndexFieldType

	Sortable bool

	TagSeparator     string
	TagCaseSensitive bool

	TextWeight float64 // 0 keeps the engine default of 1
}

// name is the identifier queries use for the field.
func (f *IndexField) name() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Path
}

// IndexDefinition is an FT index over JSON documents sharing a key prefix.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the definition can be turned into FT.CREATE arguments.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Path == "" {
			return fmt.Errorf("field %d: path is required", i)
		}
		if _, ok := fieldTypeNames[f.Type]; !ok {
			return fmt.Errorf("field %s: unknown type %s", f.name(), f.Type)
		}
		if _, dup := seen[f.name()]; dup {
			return errors.New("duplicate field name: " + f.name())
		}
		seen[f.name()] = struct{}{}

		if f.TextWeight < 0 {
			return errors.New("text weight must not be negative: " + f.name())
		}
	}
	return nil
}

// Args renders the FT.CREATE arguments that follow the command name.
func (idx *IndexDefinition) Args() ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}

	args := []string{idx.Name, "ON", "JSON"}
	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}
	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		f := &idx.Fields[i]
		args = append(args, f.Path)
		if f.Alias != "" {
			args = append(args, "AS", f.Alias)
		}
		args = append(args, f.Type.String())

		switch f.Type {
		case IndexFieldText:
			if f.TextWeight > 0 {
				args = append(args, "WEIGHT", strconv.FormatFloat(f.TextWeight, 'g', -1, 64))
			}
		case IndexFieldTag:
			if f.TagSeparator != "" {
				args = append(args, "SEPARATOR", f.TagSeparator)
			}
			if f.TagCaseSensitive {
				args = append(args, "CASESENSITIVE")
			}
		}

		if f.Sortable {
			args = append(args, "SORTABLE")
		}
	}
	return args, nil
}

// String renders the FT.CREATE command for logs.
func (idx *IndexDefinition) String() string {
	args, err := idx.Args()
	if err != nil {
		return "FT.CREATE <invalid: " + err.Error() + ">"
	}
	return "FT.CREATE " + strings.Join(args, " ")
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
