package repositories

import (
	"context"
	"testing"
	"time"

	"realview/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PropertyRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       PropertyRepository
	propertyID uuid.UUID
	agentID    uuid.UUID
	context    context.Context
}

func (suite *PropertyRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPropertyRepo(mock)
	suite.propertyID = uuid.New()
	suite.agentID = uuid.New()
	suite.context = context.Background()
}

func (suite *PropertyRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPropertyRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PropertyRepoTestSuite))
}

func propertyRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "agent_id", "title", "description", "price", "location", "dimensions", "images", "status", "rejection_reason", "created_at", "updated_at"})
}

func (suite *PropertyRepoTestSuite) TestCreate_Success() {
	desc := "Three bedroom house"
	property := &models.Property{
		ID:          suite.propertyID,
		AgentID:     suite.agentID,
		Title:       "East Legon House",
		Description: &desc,
		Price:       450000,
		Location:    "East Legon, Accra",
		Images:      []string{"http://minio/properties/x/0-front.jpg"},
		Status:      models.PropertyStatusPending,
	}

	suite.mock.ExpectExec(`
		INSERT INTO properties \(id, agent_id, title, description, price, location, dimensions, images, status, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, NOW\(\), NOW\(\)\)
	`).WithArgs(property.ID, property.AgentID, property.Title, property.Description, property.Price, property.Location, property.Dimensions, property.Images, property.Status).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, property)
	assert.NoError(suite.T(), err)
}

func (suite *PropertyRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM properties WHERE id = \$1`).
		WithArgs(suite.propertyID).
		WillReturnError(pgx.ErrNoRows)

	property, err := suite.repo.GetByID(suite.context, suite.propertyID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), property)
}

func (suite *PropertyRepoTestSuite) TestListApproved_WithSearch() {
	now := time.Now()

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE status = \$1 AND \(title ILIKE '%' \|\| \$2 \|\| '%' OR location ILIKE '%' \|\| \$2 \|\| '%'\)`).
		WithArgs(models.PropertyStatusApproved, "Accra").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	suite.mock.ExpectQuery(`SELECT .+ FROM properties WHERE status = \$1 AND \(title ILIKE '%' \|\| \$2 \|\| '%' OR location ILIKE '%' \|\| \$2 \|\| '%'\) ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs(models.PropertyStatusApproved, "Accra", 20, 0).
		WillReturnRows(propertyRows().
			AddRow(suite.propertyID, suite.agentID, "Accra Apartment", nil, float64(250000), "Osu, Accra", nil, []string{}, models.PropertyStatusApproved, nil, now, now))

	properties, total, err := suite.repo.ListApproved(suite.context, &models.PropertySearchFilter{Query: "Accra", Limit: 20, Offset: 0})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Len(suite.T(), properties, 1)
	assert.Equal(suite.T(), "Accra Apartment", properties[0].Title)
}

func (suite *PropertyRepoTestSuite) TestListApproved_NoSearch() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE status = \$1`).
		WithArgs(models.PropertyStatusApproved).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	suite.mock.ExpectQuery(`SELECT .+ FROM properties WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(models.PropertyStatusApproved, 20, 0).
		WillReturnRows(propertyRows())

	properties, total, err := suite.repo.ListApproved(suite.context, &models.PropertySearchFilter{Limit: 20, Offset: 0})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), total)
	assert.Empty(suite.T(), properties)
}

func (suite *PropertyRepoTestSuite) TestUpdateByOwner_Success() {
	title := "Updated Title"
	price := 500000.0

	suite.mock.ExpectExec(`
		UPDATE properties
		SET title = COALESCE\(\$1, title\),
		    description = COALESCE\(\$2, description\),
		    price = COALESCE\(\$3, price\),
		    location = COALESCE\(\$4, location\),
		    dimensions = COALESCE\(\$5, dimensions\),
		    updated_at = NOW\(\)
		WHERE id = \$6 AND agent_id = \$7
	`).WithArgs(&title, (*string)(nil), &price, (*string)(nil), (*string)(nil), suite.propertyID, suite.agentID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateByOwner(suite.context, suite.propertyID, suite.agentID, &models.PropertyUpdate{Title: &title, Price: &price})
	assert.NoError(suite.T(), err)
}

func (suite *PropertyRepoTestSuite) TestUpdateByOwner_WrongOwner() {
	title := "Updated Title"

	suite.mock.ExpectExec(`
		UPDATE properties
		SET title = COALESCE\(\$1, title\),
		    description = COALESCE\(\$2, description\),
		    price = COALESCE\(\$3, price\),
		    location = COALESCE\(\$4, location\),
		    dimensions = COALESCE\(\$5, dimensions\),
		    updated_at = NOW\(\)
		WHERE id = \$6 AND agent_id = \$7
	`).WithArgs(&title, (*string)(nil), (*float64)(nil), (*string)(nil), (*string)(nil), suite.propertyID, suite.agentID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateByOwner(suite.context, suite.propertyID, suite.agentID, &models.PropertyUpdate{Title: &title})
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PropertyRepoTestSuite) TestDeleteByOwner_WrongOwner() {
	suite.mock.ExpectExec(`DELETE FROM properties WHERE id = \$1 AND agent_id = \$2`).
		WithArgs(suite.propertyID, suite.agentID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.DeleteByOwner(suite.context, suite.propertyID, suite.agentID)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *PropertyRepoTestSuite) TestSubmitByOwner_Success() {
	suite.mock.ExpectExec(`
		UPDATE properties
		SET status = \$1, rejection_reason = NULL, updated_at = NOW\(\)
		WHERE id = \$2 AND agent_id = \$3 AND status IN \(\$4, \$5\)
	`).WithArgs(models.PropertyStatusPending, suite.propertyID, suite.agentID, models.PropertyStatusDraft, models.PropertyStatusRejected).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.SubmitByOwner(suite.context, suite.propertyID, suite.agentID)
	assert.NoError(suite.T(), err)
}

func (suite *PropertyRepoTestSuite) TestSubmitByOwner_AlreadyPending() {
	suite.mock.ExpectExec(`
		UPDATE properties
		SET status = \$1, rejection_reason = NULL, updated_at = NOW\(\)
		WHERE id = \$2 AND agent_id = \$3 AND status IN \(\$4, \$5\)
	`).WithArgs(models.PropertyStatusPending, suite.propertyID, suite.agentID, models.PropertyStatusDraft, models.PropertyStatusRejected).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SubmitByOwner(suite.context, suite.propertyID, suite.agentID)
	assert.ErrorIs(suite.T(), err, ErrNoTransition)
}

func (suite *PropertyRepoTestSuite) TestReview_Approve() {
	suite.mock.ExpectExec(`
		UPDATE properties
		SET status = \$1, rejection_reason = \$2, updated_at = NOW\(\)
		WHERE id = \$3 AND status = \$4
	`).WithArgs(models.ReviewActionApprove, (*string)(nil), suite.propertyID, models.PropertyStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Review(suite.context, suite.propertyID, models.ReviewActionApprove, nil)
	assert.NoError(suite.T(), err)
}

func (suite *PropertyRepoTestSuite) TestReview_NotPending() {
	reason := "Images too dark"

	suite.mock.ExpectExec(`
		UPDATE properties
		SET status = \$1, rejection_reason = \$2, updated_at = NOW\(\)
		WHERE id = \$3 AND status = \$4
	`).WithArgs(models.ReviewActionReject, &reason, suite.propertyID, models.PropertyStatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Review(suite.context, suite.propertyID, models.ReviewActionReject, &reason)
	assert.ErrorIs(suite.T(), err, ErrNoTransition)
}

func (suite *PropertyRepoTestSuite) TestListStaleDrafts() {
	now := time.Now()
	cutoff := now.Add(-30 * 24 * time.Hour)

	suite.mock.ExpectQuery(`
		SELECT .+
		FROM properties
		WHERE status = \$1 AND updated_at < \$2
	`).WithArgs(models.PropertyStatusDraft, cutoff).
		WillReturnRows(propertyRows().
			AddRow(suite.propertyID, suite.agentID, "Abandoned Draft", nil, float64(100000), "Tema", nil, []string{}, models.PropertyStatusDraft, nil, now.Add(-40*24*time.Hour), now.Add(-40*24*time.Hour)))

	properties, err := suite.repo.ListStaleDrafts(suite.context, cutoff)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), properties, 1)
	assert.Equal(suite.T(), models.PropertyStatusDraft, properties[0].Status)
}
