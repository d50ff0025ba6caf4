package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realview/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListApproved(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, int64, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*models.Property, error)
	UpdateByOwner(ctx context.Context, id, agentID uuid.UUID, update *models.PropertyUpdate) error
	DeleteByOwner(ctx context.Context, id, agentID uuid.UUID) error
	SubmitByOwner(ctx context.Context, id, agentID uuid.UUID) error
	Review(ctx context.Context, id uuid.UUID, action string, reason *string) error
	ListStaleDrafts(ctx context.Context, olderThan time.Time) ([]*models.Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type propertyRepo struct {
	db DB
}

func NewPropertyRepo(db DB) PropertyRepository {
	return &propertyRepo{db: db}
}

const propertyColumns = `id, agent_id, title, description, price, location, dimensions, images, status, rejection_reason, created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(&p.ID, &p.AgentID, &p.Title, &p.Description, &p.Price, &p.Location, &p.Dimensions, &p.Images, &p.Status, &p.RejectionReason, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (id, agent_id, title, description, price, location, dimensions, images, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, property.ID, property.AgentID, property.Title, property.Description, property.Price, property.Location, property.Dimensions, property.Images, property.Status)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *propertyRepo) ListApproved(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, int64, error) {
	args := []any{models.PropertyStatusApproved}
	where := `WHERE status = $1`
	if filter.Query != "" {
		where += ` AND (title ILIKE '%' || $2 || '%' OR location ILIKE '%' || $2 || '%')`
		args = append(args, filter.Query)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM properties ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM properties %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		propertyColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		properties = append(properties, p)
	}
	return properties, total, rows.Err()
}

func (r *propertyRepo) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*models.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE agent_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, agentID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// UpdateByOwner mutates listing fields in a single conditional statement
// filtered by both id and agent_id. Zero rows affected means "absent or not
// yours", reported uniformly as ErrNotFound.
func (r *propertyRepo) UpdateByOwner(ctx context.Context, id, agentID uuid.UUID, update *models.PropertyUpdate) error {
	query := `
		UPDATE properties
		SET title = COALESCE($1, title),
		    description = COALESCE($2, description),
		    price = COALESCE($3, price),
		    location = COALESCE($4, location),
		    dimensions = COALESCE($5, dimensions),
		    updated_at = NOW()
		WHERE id = $6 AND agent_id = $7
	`
	tag, err := r.db.Exec(ctx, query, update.Title, update.Description, update.Price, update.Location, update.Dimensions, id, agentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *propertyRepo) DeleteByOwner(ctx context.Context, id, agentID uuid.UUID) error {
	query := `DELETE FROM properties WHERE id = $1 AND agent_id = $2`
	tag, err := r.db.Exec(ctx, query, id, agentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SubmitByOwner moves a DRAFT or REJECTED listing back to PENDING and clears
// any stored rejection reason.
func (r *propertyRepo) SubmitByOwner(ctx context.Context, id, agentID uuid.UUID) error {
	query := `
		UPDATE properties
		SET status = $1, rejection_reason = NULL, updated_at = NOW()
		WHERE id = $2 AND agent_id = $3 AND status IN ($4, $5)
	`
	tag, err := r.db.Exec(ctx, query, models.PropertyStatusPending, id, agentID, models.PropertyStatusDraft, models.PropertyStatusRejected)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoTransition
	}
	return nil
}

// Review transitions PENDING to APPROVED or REJECTED. The status condition
// in the statement is what keeps two concurrent reviews from both applying.
func (r *propertyRepo) Review(ctx context.Context, id uuid.UUID, action string, reason *string) error {
	query := `
		UPDATE properties
		SET status = $1, rejection_reason = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	tag, err := r.db.Exec(ctx, query, action, reason, id, models.PropertyStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoTransition
	}
	return nil
}

func (r *propertyRepo) ListStaleDrafts(ctx context.Context, olderThan time.Time) ([]*models.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE status = $1 AND updated_at < $2
	`
	rows, err := r.db.Query(ctx, query, models.PropertyStatusDraft, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Delete removes a listing without an ownership filter. Only internal
// callers (the stale-draft reaper) use it.
func (r *propertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	return err
}

func (r *propertyRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM properties`).Scan(&count)
	return count, err
}
