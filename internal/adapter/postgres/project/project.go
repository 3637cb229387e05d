package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"

	domainproject "github.com/portfolio/projects-api/internal/domain/project"
	portproject "github.com/portfolio/projects-api/internal/port/project"
)

var _ portproject.Repository = (*Repository)(nil)

const columns = `id, title, description, tech_stack, created_at, updated_at`

// Sort columns are whitelisted here; user input never reaches the SQL text.
var sortColumns = map[domainproject.SortField]string{
	domainproject.SortID:           "id",
	domainproject.SortTitle:        "title",
	domainproject.SortDescription:  "description",
	domainproject.SortTechnologies: "tech_stack",
	domainproject.SortCreatedAt:    "created_at",
	domainproject.SortUpdatedAt:    "updated_at",
}

type Repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, now: time.Now}
}

func (r *Repository) List(ctx context.Context, q domainproject.ListQuery) ([]domainproject.Project, int64, error) {
	where, args := whereClause(q)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting projects: %w", err)
	}

	query := `SELECT ` + columns + ` FROM projects` + where + orderBy(q.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Skip())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []domainproject.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating projects: %w", err)
	}
	return out, total, nil
}

func (r *Repository) Create(ctx context.Context, in domainproject.Input) (domainproject.Project, error) {
	now := r.now().UTC().Truncate(time.Microsecond)
	row := r.pool.QueryRow(ctx,
		`INSERT INTO projects (`+columns+`)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING `+columns,
		primitive.NewObjectID().Hex(), in.Title, in.Description, in.Technologies, now,
	)

	p, err := scanProject(row)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return p, nil
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, patch domainproject.Patch) (domainproject.Project, error) {
	sets := []string{"updated_at = $2"}
	args := []interface{}{id.Hex(), r.now().UTC().Truncate(time.Microsecond)}

	if patch.Title != nil {
		args = append(args, *patch.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if patch.Technologies != nil {
		args = append(args, *patch.Technologies)
		sets = append(sets, fmt.Sprintf("tech_stack = $%d", len(args)))
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE projects SET `+strings.Join(sets, ", ")+` WHERE id = $1 RETURNING `+columns,
		args...,
	)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainproject.Project{}, domainproject.ErrNotFound
		}
		return domainproject.Project{}, fmt.Errorf("updating project: %w", err)
	}
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id.Hex())
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainproject.ErrNotFound
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func whereClause(q domainproject.ListQuery) (string, []interface{}) {
	if q.Search == "" {
		return "", nil
	}
	return ` WHERE strpos(lower(title), lower($1)) > 0`, []interface{}{q.Search}
}

// orderBy falls back to insertion order so pages are stable without a sort.
func orderBy(s *domainproject.Sort) string {
	if s == nil {
		return " ORDER BY created_at, id"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id", sortColumns[s.Field], dir)
}

func scanProject(row pgx.Row) (domainproject.Project, error) {
	var (
		p     domainproject.Project
		rawID string
	)
	if err := row.Scan(&rawID, &p.Title, &p.Description, &p.Technologies, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domainproject.Project{}, err
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return domainproject.Project{}, fmt.Errorf("stored id %q: %w", rawID, err)
	}
	p.ID = id
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	return p, nil
}
