// Package catalog turns declarative type configuration into indexed types
// and the PostgreSQL tables that back them.
package catalog

import (
	"fmt"
	"maps"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/searchsync/internal/config"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
	"github.com/kailas-cloud/searchsync/store/postgres"
)

// Catalog is the result of Build.
type Catalog struct {
	Registry *schema.Registry
	Tables   []postgres.Table
}

// Build declares one type per entry, in order. Field values are read by
// name from rows, so extractors are left nil. A child table inherits its
// parent's column mappings.
func Build(types []config.TypeConfig) (*Catalog, error) {
	byName := make(map[string]*schema.Type, len(types))
	columns := make(map[string]map[string]string, len(types))
	built := make([]*schema.Type, 0, len(types))
	tables := make([]postgres.Table, 0, len(types))

	for _, tc := range types {
		var parent *schema.Type
		cols := map[string]string{}
		if tc.Parent != "" {
			p, ok := byName[tc.Parent]
			if !ok {
				return nil, fmt.Errorf("type %s: unknown parent %q", tc.QualifiedName(), tc.Parent)
			}
			parent = p
			maps.Copy(cols, columns[tc.Parent])
		}

		fields, err := buildFields(tc.Fields)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", tc.QualifiedName(), err)
		}
		typ, err := schema.NewType(tc.Namespace, tc.Name, parent, fields...)
		if err != nil {
			return nil, fmt.Errorf("declare %s: %w", tc.QualifiedName(), err)
		}

		for _, fc := range tc.Fields {
			switch {
			case fc.Expr != "":
				cols[fc.Name] = fc.Expr
			case fc.Column != "":
				cols[fc.Name] = pgx.Identifier{fc.Column}.Sanitize()
			default:
				delete(cols, fc.Name)
			}
		}

		byName[tc.QualifiedName()] = typ
		columns[tc.QualifiedName()] = cols
		built = append(built, typ)
		tables = append(tables, postgres.Table{
			Type:           typ,
			Name:           tc.Table,
			IDColumn:       tc.IDColumn,
			IDType:         tc.IDType,
			LocaleColumn:   tc.LocaleColumn,
			RootCondition:  tc.RootCondition,
			ExactCondition: tc.ExactCondition,
			Columns:        cols,
		})
	}

	reg, err := schema.NewRegistry(built...)
	if err != nil {
		return nil, fmt.Errorf("register types: %w", err)
	}
	return &Catalog{Registry: reg, Tables: tables}, nil
}

func buildFields(cfgs []config.FieldConfig) ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(cfgs))
	for _, fc := range cfgs {
		kind, err := schema.ParseKind(fc.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fc.Name, err)
		}
		switch kind {
		case schema.Text:
			fields = append(fields, schema.NewText(fc.Name, nil))
		case schema.Autocomplete:
			fields = append(fields, schema.NewAutocomplete(fc.Name, nil))
		case schema.Filter:
			fields = append(fields, schema.NewFilter(fc.Name, nil))
		case schema.Related:
			nested, err := buildFields(fc.Fields)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", fc.Name, err)
			}
			fields = append(fields, schema.NewRelated(fc.Name, nil, nested...))
		}
	}
	return fields, nil
}
