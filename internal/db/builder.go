package db

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a JSON index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix restricts the index to keys with the given prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Numeric adds a NUMERIC field.
func (b *IndexBuilder) Numeric(path, alias string) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: IndexFieldNumeric})
}

// Tag adds a TAG field.
func (b *IndexBuilder) Tag(path, alias string) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: IndexFieldTag})
}

// SortableTag adds a SORTABLE TAG field, usable as a SORTBY key.
func (b *IndexBuilder) SortableTag(path, alias string) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: IndexFieldTag, Sortable: true})
}

// TagWithOpts adds a TAG field with a custom separator and case sensitivity.
func (b *IndexBuilder) TagWithOpts(path, alias, separator string, caseSensitive bool) *IndexBuilder {
	return b.add(IndexField{
		Path:             path,
		Alias:            alias,
		Type:             IndexFieldTag,
		TagSeparator:     separator,
		TagCaseSensitive: caseSensitive,
	})
}

// Text adds a TEXT field.
func (b *IndexBuilder) Text(path, alias string) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: IndexFieldText})
}

// WeightedText adds a TEXT field with a relevance WEIGHT.
func (b *IndexBuilder) WeightedText(path, alias string, weight float64) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: IndexFieldText, TextWeight: weight})
}

// Geo adds a GEO field.
func (b *IndexBuilder) Geo(path, alias string) *IndexBuilder {
	return b.add(IndexField{Path: path, Alias: alias, Type: IndexFieldGeo})
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}
