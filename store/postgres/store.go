// Package postgres loads indexed objects from PostgreSQL tables or views,
// one table per indexed type, without Go model code.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgxmock.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Table maps an indexed type onto a table or view.
type Table struct {
	Type *schema.Type
	// Name is the table, optionally schema-qualified ("cms.pages").
	Name string
	// IDColumn defaults to "id".
	IDColumn string
	// IDType is the SQL type of IDColumn, defaults to "bigint". Ids are
	// cast to it so lookups can use the key index.
	IDType string
	// LocaleColumn holds the locale code. Optional.
	LocaleColumn string
	// RootCondition is a SQL expression true for the hierarchy root. Optional.
	RootCondition string
	// ExactCondition restricts All to rows whose most specific type is Type. Optional.
	ExactCondition string
	// Columns maps field names to column expressions; unmapped fields read
	// the column of the same name.
	Columns map[string]string
}

// DefaultIDType matches Django's AutoField primary keys.
const DefaultIDType = "bigint"

// Where is a SQL predicate for a collection. Placeholders start at $2.
type Where struct {
	SQL  string
	Args []any
}

// Store implements the object store over PostgreSQL.
type Store struct {
	db     Querier
	tables map[*schema.Type]Table
}

// New validates the table mappings and creates a Store.
func New(db Querier, tables ...Table) (*Store, error) {
	s := &Store{db: db, tables: make(map[*schema.Type]Table, len(tables))}
	for _, tb := range tables {
		if tb.Type == nil {
			return nil, fmt.Errorf("table %q: type is required", tb.Name)
		}
		if tb.Name == "" {
			return nil, fmt.Errorf("type %s: table name is required", tb.Type)
		}
		if _, ok := s.tables[tb.Type]; ok {
			return nil, fmt.Errorf("type %s: duplicate table mapping", tb.Type)
		}
		if tb.IDColumn == "" {
			tb.IDColumn = "id"
		}
		if tb.IDType == "" {
			tb.IDType = DefaultIDType
		}
		if !validTypeName(tb.IDType) {
			return nil, fmt.Errorf("type %s: invalid id type %q", tb.Type, tb.IDType)
		}
		s.tables[tb.Type] = tb
	}
	return s, nil
}

// FetchOrdered loads rows of c.Type with the given ids, in id order.
// c.Predicate must be nil, Where, *Where or a SQL string.
func (s *Store) FetchOrdered(ctx context.Context, c schema.Collection, ids []string) ([]schema.Instance, error) {
	tb, err := s.table(c.Type)
	if err != nil {
		return nil, err
	}
	where, err := whereOf(c.Predicate)
	if err != nil {
		return nil, err
	}

	sql := selectSQL(tb) + " WHERE " + ident(tb.IDColumn) + " = ANY(" + idArray(tb.IDType) + ")"
	args := []any{ids}
	if where.SQL != "" {
		sql += " AND (" + where.SQL + ")"
		args = append(args, where.Args...)
	}

	rows, err := s.query(ctx, tb, sql, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*Row, len(rows))
	for _, r := range rows {
		byID[r.id] = r
	}
	out := make([]schema.Instance, 0, len(rows))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
			delete(byID, id)
		}
	}
	return out, nil
}

// All loads every row of t, ordered by id.
func (s *Store) All(ctx context.Context, t *schema.Type) ([]schema.Instance, error) {
	tb, err := s.table(t)
	if err != nil {
		return nil, err
	}
	sql := selectSQL(tb)
	if tb.ExactCondition != "" {
		sql += " WHERE (" + tb.ExactCondition + ")"
	}
	sql += " ORDER BY " + ident(tb.IDColumn)

	rows, err := s.query(ctx, tb, sql)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Instance, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}

func (s *Store) table(t *schema.Type) (Table, error) {
	if t == nil {
		return Table{}, fmt.Errorf("collection type is required")
	}
	tb, ok := s.tables[t]
	if !ok {
		return Table{}, fmt.Errorf("no table mapped for type %s", t)
	}
	return tb, nil
}

func (s *Store) query(ctx context.Context, tb Table, sql string, args ...any) ([]*Row, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tb.Name, err)
	}
	defer rows.Close()

	fields := tb.Type.SearchFields()
	var out []*Row
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", tb.Name, err)
		}
		out = append(out, newRow(tb.Type, fields, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", tb.Name, err)
	}
	return out, nil
}

func selectSQL(tb Table) string {
	cols := []string{ident(tb.IDColumn) + "::text"}
	if tb.LocaleColumn != "" {
		cols = append(cols, ident(tb.LocaleColumn))
	} else {
		cols = append(cols, "NULL")
	}
	if tb.RootCondition != "" {
		cols = append(cols, "("+tb.RootCondition+")")
	} else {
		cols = append(cols, "false")
	}
	for _, f := range tb.Type.SearchFields() {
		if expr, ok := tb.Columns[f.Name()]; ok {
			cols = append(cols, expr)
			continue
		}
		cols = append(cols, ident(f.Name()))
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM " + pgx.Identifier(strings.Split(tb.Name, ".")).Sanitize()
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func whereOf(p any) (Where, error) {
	switch w := p.(type) {
	case nil:
		return Where{}, nil
	case Where:
		return w, nil
	case *Where:
		if w == nil {
			return Where{}, nil
		}
		return *w, nil
	case string:
		return Where{SQL: w}, nil
	default:
		return Where{}, fmt.Errorf("postgres store: unsupported predicate %T", p)
	}
}

// idArray casts the text[] id parameter to the key column's type.
func idArray(typ string) string {
	if strings.EqualFold(typ, "text") {
		return "$1::text[]"
	}
	return "$1::text[]::" + typ + "[]"
}

// validTypeName accepts plain SQL type names such as "uuid" or "double precision".
func validTypeName(typ string) bool {
	for _, r := range typ {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == ' ':
		default:
			return false
		}
	}
	return strings.TrimSpace(typ) != ""
}
