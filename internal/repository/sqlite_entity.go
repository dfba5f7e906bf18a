package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/opsboard/internal/db"
	"github.com/alexanderramin/opsboard/internal/domain"
)

// SQLiteEntityRepo implements EntityRepo using a SQLite database.
// Writes spanning entities, sub_items and entity_tags are not atomic on
// their own; run them inside a UnitOfWork for that.
type SQLiteEntityRepo struct {
	db db.DBTX
}

// NewSQLiteEntityRepo creates a new SQLiteEntityRepo.
func NewSQLiteEntityRepo(conn db.DBTX) *SQLiteEntityRepo {
	return &SQLiteEntityRepo{db: conn}
}

const entityColumns = `id, title, start_date, end_date, status, owner_id, owner_name, client, progress, sort_order, updated_at`

const scopeClause = `(? = '' OR LOWER(owner_id) = LOWER(?) OR LOWER(owner_name) = LOWER(?) OR LOWER(client) = LOWER(?))`

func (r *SQLiteEntityRepo) Create(ctx context.Context, e *domain.Entity) error {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = nowUTC()
	}
	if e.SortOrder == 0 {
		if err := r.db.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(sort_order), 0) + 1 FROM entities`).Scan(&e.SortOrder); err != nil {
			return fmt.Errorf("allocating sort order: %w", err)
		}
	}
	query := `INSERT INTO entities (id, title, start_date, end_date, status, owner_id, owner_name, client, progress, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Title,
		nullableTimeToString(e.StartDate, dateLayout),
		nullableTimeToString(e.EndDate, dateLayout),
		string(e.Status),
		e.Owner.ID,
		e.Owner.Name,
		e.Client,
		e.Progress,
		e.SortOrder,
		e.UpdatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting entity: %w", err)
	}
	if err := r.replaceSubItems(ctx, e.ID, e.SubItems); err != nil {
		return err
	}
	return r.replaceTags(ctx, e.ID, e.Tags)
}

func (r *SQLiteEntityRepo) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE id = ?`
	e, err := scanEntity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("getting entity %s: %w", id, ErrEntityNotFound)
		}
		return nil, fmt.Errorf("scanning entity: %w", err)
	}
	byEntity := map[string]*domain.Entity{e.ID: e}
	if err := r.loadSubItems(ctx, `WHERE s.entity_id = ?`, []any{id}, byEntity); err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, `WHERE t.entity_id = ?`, []any{id}, byEntity); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *SQLiteEntityRepo) List(ctx context.Context, scope string) ([]*domain.Entity, error) {
	scope = strings.TrimSpace(scope)
	args := []any{scope, scope, scope, scope}
	query := `SELECT ` + entityColumns + ` FROM entities WHERE ` + scopeClause + ` ORDER BY sort_order, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var entities []*domain.Entity
	byEntity := make(map[string]*domain.Entity)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		entities = append(entities, e)
		byEntity[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	if len(entities) == 0 {
		return nil, nil
	}

	join := `JOIN entities e ON e.id = %s.entity_id WHERE ` + strings.ReplaceAll(scopeClause, "owner", "e.owner")
	join = strings.ReplaceAll(join, "LOWER(client)", "LOWER(e.client)")
	if err := r.loadSubItems(ctx, fmt.Sprintf(join, "s"), args, byEntity); err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, fmt.Sprintf(join, "t"), args, byEntity); err != nil {
		return nil, err
	}
	return entities, nil
}

// Patch validates p against the stored entity, then writes only the
// patched columns.
func (r *SQLiteEntityRepo) Patch(ctx context.Context, id string, p domain.Patch) error {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := cur.Apply(p); err != nil {
		return fmt.Errorf("patching entity %s: %w", id, err)
	}

	setClauses := []string{"updated_at = ?"}
	args := []any{nowUTC().Format(time.RFC3339)}
	for _, f := range p.Fields() {
		switch f {
		case domain.FieldOwner:
			setClauses = append(setClauses, "owner_id = ?", "owner_name = ?")
			args = append(args, cur.Owner.ID, cur.Owner.Name)
		case domain.FieldStartDate:
			setClauses = append(setClauses, "start_date = ?")
			args = append(args, nullableTimeToString(cur.StartDate, dateLayout))
		case domain.FieldEndDate:
			setClauses = append(setClauses, "end_date = ?")
			args = append(args, nullableTimeToString(cur.EndDate, dateLayout))
		case domain.FieldStatus:
			setClauses = append(setClauses, "status = ?")
			args = append(args, string(cur.Status))
		case domain.FieldTitle, domain.FieldClient, domain.FieldProgress, domain.FieldSortOrder:
			setClauses = append(setClauses, patchColumn[f]+" = ?")
			args = append(args, cur.Get(f))
		}
	}
	args = append(args, id)
	query := `UPDATE entities SET ` + strings.Join(setClauses, ", ") + ` WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("patching entity %s: %w", id, err)
	}

	if _, ok := p[domain.FieldSubItems]; ok {
		if err := r.replaceSubItems(ctx, id, cur.SubItems); err != nil {
			return err
		}
	}
	if _, ok := p[domain.FieldTags]; ok {
		if err := r.replaceTags(ctx, id, cur.Tags); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteEntityRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entity: %w", err)
	}
	return requireAffected(res, id)
}

func (r *SQLiteEntityRepo) replaceSubItems(ctx context.Context, entityID string, items []domain.SubItem) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sub_items WHERE entity_id = ?`, entityID); err != nil {
		return fmt.Errorf("clearing sub-items: %w", err)
	}
	for i, s := range items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO sub_items (id, entity_id, name, completed, kind, order_index) VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, entityID, s.Name, boolToInt(s.Completed), s.Kind, i)
		if err != nil {
			return fmt.Errorf("inserting sub-item: %w", err)
		}
	}
	return nil
}

func (r *SQLiteEntityRepo) replaceTags(ctx context.Context, entityID string, tags []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entity_tags WHERE entity_id = ?`, entityID); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	for _, t := range domain.NormalizeTags(tags) {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO entity_tags (entity_id, tag) VALUES (?, ?)`, entityID, t); err != nil {
			return fmt.Errorf("inserting tag: %w", err)
		}
	}
	return nil
}

func (r *SQLiteEntityRepo) loadSubItems(ctx context.Context, where string, args []any, into map[string]*domain.Entity) error {
	query := `SELECT s.id, s.entity_id, s.name, s.completed, s.kind FROM sub_items s ` + where + ` ORDER BY s.entity_id, s.order_index`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("listing sub-items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.SubItem
		var entityID string
		var completed int
		if err := rows.Scan(&s.ID, &entityID, &s.Name, &completed, &s.Kind); err != nil {
			return fmt.Errorf("scanning sub-item: %w", err)
		}
		s.Completed = intToBool(completed)
		if e, ok := into[entityID]; ok {
			e.SubItems = append(e.SubItems, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating sub-items: %w", err)
	}
	return nil
}

func (r *SQLiteEntityRepo) loadTags(ctx context.Context, where string, args []any, into map[string]*domain.Entity) error {
	query := `SELECT t.entity_id, t.tag FROM entity_tags t ` + where + ` ORDER BY t.entity_id, t.tag`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var entityID, tag string
		if err := rows.Scan(&entityID, &tag); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}
		if e, ok := into[entityID]; ok {
			e.Tags = append(e.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating tags: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (*domain.Entity, error) {
	var e domain.Entity
	var startStr, endStr sql.NullString
	var statusStr, updatedAtStr string
	err := row.Scan(
		&e.ID, &e.Title, &startStr, &endStr, &statusStr,
		&e.Owner.ID, &e.Owner.Name, &e.Client, &e.Progress, &e.SortOrder, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}
	e.StartDate = parseNullableDate(startStr)
	e.EndDate = parseNullableDate(endStr)
	e.Status = domain.ParseStatus(statusStr)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
	return &e, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entity %s: %w", id, ErrEntityNotFound)
	}
	return nil
}
