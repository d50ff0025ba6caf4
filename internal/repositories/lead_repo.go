package repositories

import (
	"context"

	"realview/internal/models"

	"github.com/google/uuid"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	ListAll(ctx context.Context, limit, offset int) ([]*models.Lead, int64, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*models.Lead, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateStatusByAgent(ctx context.Context, id, agentID uuid.UUID, status string) error
	Count(ctx context.Context) (int64, error)
}

type leadRepo struct {
	db DB
}

func NewLeadRepo(db DB) LeadRepository {
	return &leadRepo{db: db}
}

func (r *leadRepo) Create(ctx context.Context, lead *models.Lead) error {
	query := `
		INSERT INTO leads (id, property_id, name, email, phone, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, lead.ID, lead.PropertyID, lead.Name, lead.Email, lead.Phone, lead.Message, lead.Status)
	if err != nil {
		// FK violation: the referenced property does not exist.
		if pgErrCode(err) == pgForeignKeyViolation {
			return ErrNotFound
		}
		return err
	}
	return nil
}

const leadColumns = `l.id, l.property_id, l.name, l.email, l.phone, l.message, l.status, l.created_at`

func (r *leadRepo) ListAll(ctx context.Context, limit, offset int) ([]*models.Lead, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + leadColumns + `
		FROM leads l
		ORDER BY l.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead := &models.Lead{}
		if err := rows.Scan(&lead.ID, &lead.PropertyID, &lead.Name, &lead.Email, &lead.Phone, &lead.Message, &lead.Status, &lead.CreatedAt); err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	return leads, total, rows.Err()
}

// ListByAgent filters by ownership in the join itself, never by discarding
// rows after the fact.
func (r *leadRepo) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*models.Lead, int64, error) {
	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM leads l
		JOIN properties p ON p.id = l.property_id
		WHERE p.agent_id = $1
	`
	if err := r.db.QueryRow(ctx, countQuery, agentID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + leadColumns + `
		FROM leads l
		JOIN properties p ON p.id = l.property_id
		WHERE p.agent_id = $1
		ORDER BY l.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, agentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead := &models.Lead{}
		if err := rows.Scan(&lead.ID, &lead.PropertyID, &lead.Name, &lead.Email, &lead.Phone, &lead.Message, &lead.Status, &lead.CreatedAt); err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	return leads, total, rows.Err()
}

func (r *leadRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE leads SET status = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatusByAgent applies the ownership filter inside the UPDATE, so a
// lead on another agent's property reads as absent.
func (r *leadRepo) UpdateStatusByAgent(ctx context.Context, id, agentID uuid.UUID, status string) error {
	query := `
		UPDATE leads l
		SET status = $1
		FROM properties p
		WHERE l.id = $2 AND p.id = l.property_id AND p.agent_id = $3
	`
	tag, err := r.db.Exec(ctx, query, status, id, agentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *leadRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&count)
	return count, err
}
