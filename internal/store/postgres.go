package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres implements Store on a Postgres database. Every statement returns
// the affected rows with RETURNING *, so the caller always sees what the
// database stored, defaults included.
type Postgres struct {
	db db
}

// NewPostgres constructs a Postgres store. In production pass *pgxpool.Pool.
func NewPostgres(db db) *Postgres {
	return &Postgres{db: db}
}

// Select implements Store.
func (p *Postgres) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	args := pgx.NamedArgs{}
	sql := "SELECT * FROM " + ident(table) + whereClause(q.Filters, args)
	if q.OrderBy != "" {
		sql += " ORDER BY " + ident(q.OrderBy) + " ASC NULLS LAST"
	}

	rows, err := p.query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("store.Postgres.Select %s: %w", table, err)
	}
	return rows, nil
}

// Insert implements Store.
func (p *Postgres) Insert(ctx context.Context, table string, row Row) ([]Row, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("store.Postgres.Insert %s: %w: empty row", table, domain.ErrStore)
	}

	args := pgx.NamedArgs{}
	cols := sortedColumns(row)
	names := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		key := fmt.Sprintf("v%d", i)
		names[i] = ident(c)
		params[i] = "@" + key
		args[key] = row[c]
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(table), strings.Join(names, ", "), strings.Join(params, ", "))

	rows, err := p.query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("store.Postgres.Insert %s: %w", table, err)
	}
	return rows, nil
}

// Update implements Store.
func (p *Postgres) Update(ctx context.Context, table string, patch Row, filters []Filter) ([]Row, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("store.Postgres.Update %s: %w: refusing unfiltered update", table, domain.ErrStore)
	}
	if len(patch) == 0 {
		return nil, fmt.Errorf("store.Postgres.Update %s: %w: empty patch", table, domain.ErrStore)
	}

	args := pgx.NamedArgs{}
	cols := sortedColumns(patch)
	sets := make([]string, len(cols))
	for i, c := range cols {
		key := fmt.Sprintf("s%d", i)
		sets[i] = ident(c) + " = @" + key
		args[key] = patch[c]
	}

	sql := "UPDATE " + ident(table) + " SET " + strings.Join(sets, ", ") +
		whereClause(filters, args) + " RETURNING *"

	rows, err := p.query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("store.Postgres.Update %s: %w", table, err)
	}
	return rows, nil
}

// query runs sql and collects every returned row as a normalised Row.
func (p *Postgres) query(ctx context.Context, sql string, args pgx.NamedArgs) ([]Row, error) {
	rows, err := p.db.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}

	out := make([]Row, len(maps))
	for i, m := range maps {
		out[i] = normalizeRow(m)
	}
	return out, nil
}

// whereClause renders filters as a conjunction of equality predicates and
// records their values in args. NULL filters become IS NULL.
func whereClause(filters []Filter, args pgx.NamedArgs) string {
	if len(filters) == 0 {
		return ""
	}
	parts := make([]string, len(filters))
	for i, f := range filters {
		if normalize(f.Value) == nil {
			parts[i] = ident(f.Column) + " IS NULL"
			continue
		}
		key := fmt.Sprintf("f%d", i)
		parts[i] = ident(f.Column) + " = @" + key
		args[key] = f.Value
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

// ident quotes a table or column name.
func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedColumns(r Row) []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
