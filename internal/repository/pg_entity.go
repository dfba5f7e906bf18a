package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgNotifyChannel is the LISTEN/NOTIFY channel the entities trigger
// signals on. The payload is the changed entity id.
const PgNotifyChannel = "opsboard_entities"

// PgEntityRepo is a PostgreSQL-backed EntityRepo. Tags are stored as a
// TEXT[] column and sub-items as a JSONB array on the entity row, so every
// write is a single statement.
type PgEntityRepo struct {
	pool *pgxpool.Pool
}

// NewPgEntityRepo creates a PgEntityRepo.
func NewPgEntityRepo(pool *pgxpool.Pool) *PgEntityRepo {
	return &PgEntityRepo{pool: pool}
}

type pgSubItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Kind      string `json:"kind,omitempty"`
}

// EnsureSchema creates the entities table and its change-notify trigger.
func (r *PgEntityRepo) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entities (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			start_date  DATE,
			end_date    DATE,
			status      TEXT NOT NULL DEFAULT 'unscheduled',
			owner_id    TEXT NOT NULL DEFAULT '',
			owner_name  TEXT NOT NULL DEFAULT '',
			client      TEXT NOT NULL DEFAULT '',
			progress    DOUBLE PRECISION NOT NULL DEFAULT 0
			            CHECK (progress >= 0 AND progress <= 100),
			tags        TEXT[] NOT NULL DEFAULT '{}',
			sub_items   JSONB NOT NULL DEFAULT '[]',
			sort_order  INTEGER NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_owner ON entities(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entities_client ON entities(client)`,
		`CREATE OR REPLACE FUNCTION opsboard_notify_entity() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('` + PgNotifyChannel + `', COALESCE(NEW.id, OLD.id));
			RETURN NULL;
		END;
		$$ LANGUAGE plpgsql`,
		`DROP TRIGGER IF EXISTS entities_notify ON entities`,
		`CREATE TRIGGER entities_notify AFTER INSERT OR UPDATE OR DELETE ON entities
			FOR EACH ROW EXECUTE FUNCTION opsboard_notify_entity()`,
	}
	for i, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema (step %d): %w", i, err)
		}
	}
	return nil
}

const pgEntityColumns = `id, title, start_date, end_date, status, owner_id, owner_name, client, progress, tags, sub_items, sort_order, updated_at`

func (r *PgEntityRepo) Create(ctx context.Context, e *domain.Entity) error {
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	subJSON, err := marshalSubItems(e.SubItems)
	if err != nil {
		return err
	}
	if e.SortOrder == 0 {
		if err := r.pool.QueryRow(ctx,
			`SELECT COALESCE(MAX(sort_order), 0) + 1 FROM entities`).Scan(&e.SortOrder); err != nil {
			return fmt.Errorf("allocating sort order: %w", err)
		}
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO entities (id, title, start_date, end_date, status, owner_id, owner_name, client, progress, tags, sub_items, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13, $13)`,
		e.ID, e.Title, e.StartDate, e.EndDate, string(e.Status), e.Owner.ID, e.Owner.Name, e.Client,
		e.Progress, nonNilTags(e.Tags), subJSON, e.SortOrder, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting entity: %w", err)
	}
	return nil
}

func (r *PgEntityRepo) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+pgEntityColumns+` FROM entities WHERE id = $1`, id)
	e, err := scanPgEntity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("getting entity %s: %w", id, ErrEntityNotFound)
		}
		return nil, fmt.Errorf("getting entity %s: %w", id, err)
	}
	return e, nil
}

func (r *PgEntityRepo) List(ctx context.Context, scope string) ([]*domain.Entity, error) {
	scope = strings.TrimSpace(scope)
	rows, err := r.pool.Query(ctx, `SELECT `+pgEntityColumns+` FROM entities
		WHERE $1 = '' OR LOWER(owner_id) = LOWER($1) OR LOWER(owner_name) = LOWER($1) OR LOWER(client) = LOWER($1)
		ORDER BY sort_order, id`, scope)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	defer rows.Close()

	var out []*domain.Entity
	for rows.Next() {
		e, err := scanPgEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entities: %w", err)
	}
	return out, nil
}

// Patch validates p against the stored row and updates only the patched
// columns in one statement.
func (r *PgEntityRepo) Patch(ctx context.Context, id string, p domain.Patch) error {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := cur.Apply(p); err != nil {
		return fmt.Errorf("patching entity %s: %w", id, err)
	}

	setClauses := "updated_at = $1"
	args := []any{time.Now().UTC().Truncate(time.Microsecond)}
	argIdx := 2
	set := func(col string, v any, cast string) {
		setClauses += fmt.Sprintf(", %s = $%d%s", col, argIdx, cast)
		args = append(args, v)
		argIdx++
	}

	for _, f := range p.Fields() {
		switch f {
		case domain.FieldOwner:
			set("owner_id", cur.Owner.ID, "")
			set("owner_name", cur.Owner.Name, "")
		case domain.FieldStartDate:
			set("start_date", cur.StartDate, "")
		case domain.FieldEndDate:
			set("end_date", cur.EndDate, "")
		case domain.FieldStatus:
			set("status", string(cur.Status), "")
		case domain.FieldTags:
			set("tags", nonNilTags(cur.Tags), "")
		case domain.FieldSubItems:
			subJSON, err := marshalSubItems(cur.SubItems)
			if err != nil {
				return err
			}
			set("sub_items", subJSON, "::jsonb")
		case domain.FieldTitle, domain.FieldClient, domain.FieldProgress, domain.FieldSortOrder:
			set(patchColumn[f], cur.Get(f), "")
		}
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE entities SET %s WHERE id = $%d", setClauses, argIdx)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("patching entity %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entity %s: %w", id, ErrEntityNotFound)
	}
	return nil
}

func (r *PgEntityRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entity %s: %w", id, ErrEntityNotFound)
	}
	return nil
}

func scanPgEntity(row pgx.Row) (*domain.Entity, error) {
	var e domain.Entity
	var status string
	var subJSON []byte
	err := row.Scan(&e.ID, &e.Title, &e.StartDate, &e.EndDate, &status, &e.Owner.ID, &e.Owner.Name,
		&e.Client, &e.Progress, &e.Tags, &subJSON, &e.SortOrder, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = domain.ParseStatus(status)
	e.Tags = domain.NormalizeTags(e.Tags)
	if e.StartDate != nil {
		d := domain.DateOnly(*e.StartDate)
		e.StartDate = &d
	}
	if e.EndDate != nil {
		d := domain.DateOnly(*e.EndDate)
		e.EndDate = &d
	}
	var items []pgSubItem
	if err := json.Unmarshal(subJSON, &items); err != nil {
		return nil, fmt.Errorf("decoding sub-items: %w", err)
	}
	for _, s := range items {
		e.SubItems = append(e.SubItems, domain.SubItem{ID: s.ID, Name: s.Name, Completed: s.Completed, Kind: s.Kind})
	}
	return &e, nil
}

func marshalSubItems(items []domain.SubItem) (string, error) {
	out := make([]pgSubItem, 0, len(items))
	for _, s := range items {
		out = append(out, pgSubItem{ID: s.ID, Name: s.Name, Completed: s.Completed, Kind: s.Kind})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal sub-items: %w", err)
	}
	return string(b), nil
}

func nonNilTags(tags []string) []string {
	if t := domain.NormalizeTags(tags); t != nil {
		return t
	}
	return []string{}
}
