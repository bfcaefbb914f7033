package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portsrepo "github.com/brgyhub/barangay_records_app/internal/core/ports/repositories"
	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
	"github.com/brgyhub/barangay_records_app/internal/core/services"
	"github.com/brgyhub/barangay_records_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// fixedClock pins the service's notion of now for deterministic assertions.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// MockRequestRepository is a mock type for the RequestRepositoryFacade interface
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) SaveRequest(ctx context.Context, request domain.IssuanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.IssuanceRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IssuanceRequest), args.Error(1)
}

func (m *MockRequestRepository) ListRequests(ctx context.Context, status *domain.RequestStatus, limit int, nextToken *string) ([]domain.IssuanceRequest, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.IssuanceRequest), token, args.Error(2)
}

func (m *MockRequestRepository) ApplyTransition(ctx context.Context, requestID string, transition portsrepo.RequestTransition) (*domain.IssuanceRequest, error) {
	args := m.Called(ctx, requestID, transition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IssuanceRequest), args.Error(1)
}

// MockResidentReader is a mock type for the ResidentReader interface
type MockResidentReader struct {
	mock.Mock
}

func (m *MockResidentReader) FindResidentByID(ctx context.Context, residentID string) (*domain.Resident, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resident), args.Error(1)
}

// MockAuditSink is a mock type for the AuditSink interface
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Capture(actorUserID string, event string, properties map[string]any) {
	m.Called(actorUserID, event, properties)
}

// --- Test Suite Setup ---

type RequestServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockRequestRepository
	mockResidents *MockResidentReader
	mockAudit     *MockAuditSink
	clock         fixedClock
	service       portssvc.RequestSvcFacade
}

func (suite *RequestServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRequestRepository)
	suite.mockResidents = new(MockResidentReader)
	suite.mockAudit = new(MockAuditSink)
	suite.clock = fixedClock{now: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	suite.service = services.NewRequestService(suite.mockRepo, suite.mockResidents, suite.clock, suite.mockAudit)
}

func (suite *RequestServiceTestSuite) activeResident(residentID string) *domain.Resident {
	return &domain.Resident{
		ResidentID: residentID,
		FirstName:  "Juan",
		LastName:   "Dela Cruz",
		IsActive:   true,
	}
}

// --- Test Cases ---

func (suite *RequestServiceTestSuite) TestCreateRequest_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	residentID := uuid.NewString()
	req := dto.CreateRequestRequest{
		ResidentID:   residentID,
		DocumentType: domain.DocTypeClearance,
		Purpose:      "employment",
	}

	suite.mockResidents.On("FindResidentByID", ctx, residentID).Return(suite.activeResident(residentID), nil).Once()
	suite.mockRepo.On("SaveRequest", ctx, mock.AnythingOfType("domain.IssuanceRequest")).Return(nil).Once()
	suite.mockAudit.On("Capture", creatorUserID, "request.created", mock.Anything).Once()

	created, err := suite.service.CreateRequest(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.RequestID)
	suite.Equal(domain.RequestPending, created.Status)
	suite.Equal(residentID, created.ResidentID)
	suite.Equal(creatorUserID, created.RequestedByUserID)
	suite.Equal(suite.clock.now, created.RequestedAt)
	suite.Nil(created.ApprovedAt)
	suite.Nil(created.RejectedAt)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockResidents.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestCreateRequest_UnknownDocumentType() {
	ctx := context.Background()
	req := dto.CreateRequestRequest{
		ResidentID:   uuid.NewString(),
		DocumentType: domain.DocumentType("MARRIAGE_LICENSE"),
		Purpose:      "whatever",
	}

	created, err := suite.service.CreateRequest(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRequest", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestCreateRequest_BlankPurpose() {
	ctx := context.Background()
	req := dto.CreateRequestRequest{
		ResidentID:   uuid.NewString(),
		DocumentType: domain.DocTypeIndigency,
		Purpose:      "   ",
	}

	created, err := suite.service.CreateRequest(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RequestServiceTestSuite) TestCreateRequest_ResidentNotFound() {
	ctx := context.Background()
	residentID := uuid.NewString()
	req := dto.CreateRequestRequest{
		ResidentID:   residentID,
		DocumentType: domain.DocTypeResidency,
		Purpose:      "school enrollment",
	}

	suite.mockResidents.On("FindResidentByID", ctx, residentID).Return(nil, apperrors.ErrNotFound).Once()

	created, err := suite.service.CreateRequest(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveRequest", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestCreateRequest_InactiveResident() {
	ctx := context.Background()
	residentID := uuid.NewString()
	resident := suite.activeResident(residentID)
	resident.IsActive = false
	req := dto.CreateRequestRequest{
		ResidentID:   residentID,
		DocumentType: domain.DocTypeClearance,
		Purpose:      "employment",
	}

	suite.mockResidents.On("FindResidentByID", ctx, residentID).Return(resident, nil).Once()

	created, err := suite.service.CreateRequest(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RequestServiceTestSuite) TestApproveRequest_Success() {
	ctx := context.Background()
	requestID := uuid.NewString()
	actorUserID := uuid.NewString()
	approvedAt := suite.clock.now
	approved := &domain.IssuanceRequest{
		RequestID:    requestID,
		Status:       domain.RequestApproved,
		DocumentType: domain.DocTypeClearance,
		ApprovedAt:   &approvedAt,
	}

	suite.mockRepo.On("ApplyTransition", ctx, requestID, mock.MatchedBy(func(t portsrepo.RequestTransition) bool {
		return t.To == domain.RequestApproved &&
			len(t.From) == 1 && t.From[0] == domain.RequestPending &&
			t.TransitionedAt.Equal(suite.clock.now) &&
			t.ActorUserID == actorUserID
	})).Return(approved, nil).Once()
	suite.mockAudit.On("Capture", actorUserID, "request.approved", mock.Anything).Once()

	result, err := suite.service.ApproveRequest(ctx, requestID, nil, actorUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RequestApproved, result.Status)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestApproveRequest_ConflictFromTerminalStatus() {
	ctx := context.Background()
	requestID := uuid.NewString()

	suite.mockRepo.On("ApplyTransition", ctx, requestID, mock.Anything).Return(nil, apperrors.ErrConflict).Once()

	result, err := suite.service.ApproveRequest(ctx, requestID, nil, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAudit.AssertNotCalled(suite.T(), "Capture", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestRejectRequest_BlankRemarks() {
	ctx := context.Background()

	result, err := suite.service.RejectRequest(ctx, uuid.NewString(), "  ", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyTransition", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestRejectRequest_AllowedFromApproved() {
	ctx := context.Background()
	requestID := uuid.NewString()
	actorUserID := uuid.NewString()
	remarks := "incomplete supporting documents"
	rejected := &domain.IssuanceRequest{
		RequestID: requestID,
		Status:    domain.RequestRejected,
		Remarks:   &remarks,
	}

	suite.mockRepo.On("ApplyTransition", ctx, requestID, mock.MatchedBy(func(t portsrepo.RequestTransition) bool {
		return t.To == domain.RequestRejected &&
			len(t.From) == 2 &&
			t.From[0] == domain.RequestPending && t.From[1] == domain.RequestApproved &&
			t.Remarks != nil && *t.Remarks == remarks
	})).Return(rejected, nil).Once()
	suite.mockAudit.On("Capture", actorUserID, "request.rejected", mock.Anything).Once()

	result, err := suite.service.RejectRequest(ctx, requestID, remarks, actorUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RequestRejected, result.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestReleaseRequest_OnlyFromApproved() {
	ctx := context.Background()
	requestID := uuid.NewString()
	actorUserID := uuid.NewString()
	released := &domain.IssuanceRequest{
		RequestID: requestID,
		Status:    domain.RequestReleased,
	}

	suite.mockRepo.On("ApplyTransition", ctx, requestID, mock.MatchedBy(func(t portsrepo.RequestTransition) bool {
		return t.To == domain.RequestReleased &&
			len(t.From) == 1 && t.From[0] == domain.RequestApproved
	})).Return(released, nil).Once()
	suite.mockAudit.On("Capture", actorUserID, "request.released", mock.Anything).Once()

	result, err := suite.service.ReleaseRequest(ctx, requestID, nil, actorUserID)

	suite.Require().NoError(err)
	suite.Equal(domain.RequestReleased, result.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestGetRequestByID_NotFound() {
	ctx := context.Background()
	requestID := uuid.NewString()

	suite.mockRepo.On("FindRequestByID", ctx, requestID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.GetRequestByID(ctx, requestID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RequestServiceTestSuite) TestListRequests_UnknownStatusFilter() {
	ctx := context.Background()
	bogus := domain.RequestStatus("ARCHIVED")

	result, err := suite.service.ListRequests(ctx, dto.ListRequestsParams{Status: &bogus, Limit: 10})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListRequests", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestListRequests_PassesTokenThrough() {
	ctx := context.Background()
	token := "next-page"
	requests := []domain.IssuanceRequest{
		{RequestID: uuid.NewString(), Status: domain.RequestPending},
	}

	suite.mockRepo.On("ListRequests", ctx, (*domain.RequestStatus)(nil), 5, &token).Return(requests, (*string)(nil), nil).Once()

	result, err := suite.service.ListRequests(ctx, dto.ListRequestsParams{Limit: 5, NextToken: &token})

	suite.Require().NoError(err)
	suite.Len(result.Requests, 1)
	suite.Nil(result.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}
