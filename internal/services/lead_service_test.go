package services

import (
	"context"
	"testing"

	"realview/internal/models"
	"realview/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LeadServiceTestSuite struct {
	suite.Suite
	leadRepo *MockLeadRepository
	svc      LeadService
	leadID   uuid.UUID
	agentID  uuid.UUID
	context  context.Context
}

func (suite *LeadServiceTestSuite) SetupTest() {
	suite.leadRepo = new(MockLeadRepository)
	suite.svc = NewLeadService(suite.leadRepo)
	suite.leadID = uuid.New()
	suite.agentID = uuid.New()
	suite.context = context.Background()
}

func TestLeadServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LeadServiceTestSuite))
}

func (suite *LeadServiceTestSuite) validInput() *LeadInput {
	return &LeadInput{
		PropertyID: uuid.NewString(),
		Name:       "Yaw Boateng",
		Email:      "yaw@example.com",
		Phone:      "0244654321",
		Message:    "Is this still available?",
	}
}

func (suite *LeadServiceTestSuite) TestCreate_StartsAsNew() {
	suite.leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Lead")).Return(nil)

	lead, err := suite.svc.Create(suite.context, suite.validInput())
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.LeadStatusNew, lead.Status)
}

func (suite *LeadServiceTestSuite) TestCreate_BadPropertyID() {
	input := suite.validInput()
	input.PropertyID = "not-a-uuid"

	_, err := suite.svc.Create(suite.context, input)
	var vErr *ValidationError
	assert.ErrorAs(suite.T(), err, &vErr)
	assert.Equal(suite.T(), "property_id", vErr.Field)
	suite.leadRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *LeadServiceTestSuite) TestCreate_BadEmail() {
	input := suite.validInput()
	input.Email = "nope"

	_, err := suite.svc.Create(suite.context, input)
	var vErr *ValidationError
	assert.ErrorAs(suite.T(), err, &vErr)
	assert.Equal(suite.T(), "email", vErr.Field)
}

func (suite *LeadServiceTestSuite) TestCreate_UnknownPropertySurfacesNotFound() {
	suite.leadRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Lead")).Return(repositories.ErrNotFound)

	_, err := suite.svc.Create(suite.context, suite.validInput())
	assert.ErrorIs(suite.T(), err, repositories.ErrNotFound)
}

func (suite *LeadServiceTestSuite) TestList_AdminSeesAll() {
	suite.leadRepo.On("ListAll", mock.Anything, 20, 0).Return([]*models.Lead{}, int64(0), nil)

	_, _, err := suite.svc.List(suite.context, uuid.New(), models.RoleAdmin, 20, 0)
	assert.NoError(suite.T(), err)
	suite.leadRepo.AssertNotCalled(suite.T(), "ListByAgent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeadServiceTestSuite) TestList_AgentSeesOwnOnly() {
	suite.leadRepo.On("ListByAgent", mock.Anything, suite.agentID, 20, 0).Return([]*models.Lead{}, int64(0), nil)

	_, _, err := suite.svc.List(suite.context, suite.agentID, models.RoleAgent, 20, 0)
	assert.NoError(suite.T(), err)
	suite.leadRepo.AssertNotCalled(suite.T(), "ListAll", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeadServiceTestSuite) TestUpdateStatus_InvalidStatus() {
	err := suite.svc.UpdateStatus(suite.context, suite.leadID, suite.agentID, models.RoleAgent, "ARCHIVED")
	var vErr *ValidationError
	assert.ErrorAs(suite.T(), err, &vErr)
	assert.Equal(suite.T(), "status", vErr.Field)
}

func (suite *LeadServiceTestSuite) TestUpdateStatus_AgentOwnershipFilter() {
	suite.leadRepo.On("UpdateStatusByAgent", mock.Anything, suite.leadID, suite.agentID, models.LeadStatusContacted).Return(nil)

	err := suite.svc.UpdateStatus(suite.context, suite.leadID, suite.agentID, models.RoleAgent, "contacted")
	assert.NoError(suite.T(), err)
	suite.leadRepo.AssertNotCalled(suite.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LeadServiceTestSuite) TestUpdateStatus_AdminBypassesOwnership() {
	suite.leadRepo.On("UpdateStatus", mock.Anything, suite.leadID, models.LeadStatusLost).Return(nil)

	err := suite.svc.UpdateStatus(suite.context, suite.leadID, uuid.New(), models.RoleAdmin, models.LeadStatusLost)
	assert.NoError(suite.T(), err)
	suite.leadRepo.AssertNotCalled(suite.T(), "UpdateStatusByAgent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
