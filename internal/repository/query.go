package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// where accumulates ANDed equality filters with positional arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// eqFilter adds "column = value" when value is non-nil.
func eqFilter[T any](w *where, column string, value *T) {
	if value == nil {
		return
	}
	w.clauses = append(w.clauses, column+" = "+w.arg(*value))
}

// ilike adds a case-insensitive substring match when value is non-nil.
func (w *where) ilike(column string, value *string) {
	if value == nil {
		return
	}
	w.clauses = append(w.clauses, column+" ILIKE "+w.arg("%"+escapeLike(*value)+"%"))
}

// build renders the full statement. Rows are ordered by creation time with id
// as tie-breaker; limit and offset apply only when positive.
func (w *where) build(selectFrom string, limit, offset int) string {
	var b strings.Builder
	b.WriteString(selectFrom)
	if len(w.clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(w.clauses, " AND "))
	}
	b.WriteString(" ORDER BY created_at ASC, id ASC")
	if limit > 0 {
		b.WriteString(" LIMIT " + w.arg(limit))
	}
	if offset > 0 {
		b.WriteString(" OFFSET " + w.arg(offset))
	}
	return b.String()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// uuidArray encodes ids for a "$n::text[]::uuid[]" parameter. A nil slice
// becomes an empty array.
func uuidArray(ids []uuid.UUID) any {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return pq.Array(out)
}

// optionalUUIDArray is uuidArray for partial updates; nil keeps the column.
func optionalUUIDArray(ids *[]uuid.UUID) any {
	if ids == nil {
		return nil
	}
	return uuidArray(*ids)
}

// uuidArrayScanner reads a "col::text[]" result into ids.
type uuidArrayScanner struct {
	dst *[]uuid.UUID
	raw []string
}

func scanUUIDs(dst *[]uuid.UUID) *uuidArrayScanner {
	return &uuidArrayScanner{dst: dst}
}

func (s *uuidArrayScanner) Scan(src any) error {
	if err := pq.Array(&s.raw).Scan(src); err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(s.raw))
	for _, raw := range s.raw {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse uuid array element %q: %w", raw, err)
		}
		ids = append(ids, id)
	}
	*s.dst = ids
	return nil
}
