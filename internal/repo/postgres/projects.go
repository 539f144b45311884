package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roomvana/designhub/internal/domain/project"
	"github.com/roomvana/designhub/internal/observability"
)

type ProjectsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProjectsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProjectsRepo {
	return &ProjectsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProjectsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ProjectsRepo) Create(ctx context.Context, ownerID string, req project.CreateProjectRequest) (project.Project, error) {
	p := project.NewFromCreateRequest(ownerID, req)

	err := r.observe("projects.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO projects (id, owner_id, name, original_image, generated_image, prompt, style, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.OwnerID, p.Name, p.OriginalImage, p.GeneratedImage, p.Prompt, p.Style, p.CreatedAt,
		)
		return err
	})

	if err != nil {
		return project.Project{}, err
	}

	return p, nil
}

// ListByOwner returns the caller's projects, newest first. Other users'
// projects are never visible.
func (r *ProjectsRepo) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	output := make([]project.Project, 0)

	err := r.observe("projects.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, owner_id, name, original_image, generated_image, prompt, style, created_at
			 FROM projects
			 WHERE owner_id = $1
			 ORDER BY created_at DESC, id DESC`,
			ownerID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var p project.Project

			err = rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.OriginalImage, &p.GeneratedImage, &p.Prompt, &p.Style, &p.CreatedAt)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// DeleteByOwner deletes a project only if it belongs to ownerID. A
// missing or foreign-owned id matches zero rows, which is a no-op, not
// an error. The bool reports whether a row was actually removed.
func (r *ProjectsRepo) DeleteByOwner(ctx context.Context, ownerID, id string) (bool, error) {
	var removed bool

	err := r.observe("projects.delete_by_owner", func() error {
		tag, err := r.pool.Exec(ctx, `
			DELETE FROM projects WHERE id = $1 AND owner_id = $2
		`, id, ownerID)

		if err != nil {
			return err
		}

		removed = tag.RowsAffected() > 0
		return nil
	})

	if err != nil {
		return false, err
	}

	return removed, nil
}
