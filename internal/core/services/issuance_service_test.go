package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/brgyhub/barangay_records_app/internal/apperrors"
	"github.com/brgyhub/barangay_records_app/internal/core/domain"
	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
	"github.com/brgyhub/barangay_records_app/internal/core/services"
	"github.com/brgyhub/barangay_records_app/internal/dto"
	"github.com/brgyhub/barangay_records_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Setup ---

type IssuanceServiceTestSuite struct {
	suite.Suite
	mockDocs      *MockDocumentRepository
	mockRequests  *MockRequestRepository
	mockResidents *MockResidentReader
	mockSequences *MockSequenceAllocator
	mockRenderer  *MockPDFRenderer
	mockAudit     *MockAuditSink
	clock         fixedClock
	service       portssvc.DocumentSvcFacade
}

func (suite *IssuanceServiceTestSuite) SetupTest() {
	suite.mockDocs = new(MockDocumentRepository)
	suite.mockRequests = new(MockRequestRepository)
	suite.mockResidents = new(MockResidentReader)
	suite.mockSequences = new(MockSequenceAllocator)
	suite.mockRenderer = new(MockPDFRenderer)
	suite.mockAudit = new(MockAuditSink)
	suite.clock = fixedClock{now: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	suite.service = services.NewDocumentService(
		suite.mockDocs,
		suite.mockRequests,
		suite.mockResidents,
		suite.mockSequences,
		suite.mockRenderer,
		suite.mockAudit,
		suite.clock,
		services.DocumentServiceConfig{QRSigningSecret: "test-secret", QRIssuer: "test-issuer"},
	)
}

func (suite *IssuanceServiceTestSuite) approvedRequest(docType domain.DocumentType) *domain.IssuanceRequest {
	return &domain.IssuanceRequest{
		RequestID:    uuid.NewString(),
		ResidentID:   uuid.NewString(),
		DocumentType: docType,
		Purpose:      "employment",
		Status:       domain.RequestApproved,
	}
}

func (suite *IssuanceServiceTestSuite) issuanceRequest(requestID string) dto.IssueDocumentRequest {
	return dto.IssueDocumentRequest{
		RequestID:   requestID,
		ValidFrom:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		ValidUntil:  time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC),
		SignerName:  "Maria Santos",
		SignerTitle: "Punong Barangay",
	}
}

func (suite *IssuanceServiceTestSuite) expectTx() {
	suite.mockDocs.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockDocs.On("Rollback", mock.Anything, mock.Anything).Return(nil)
}

// --- Test Cases ---

func (suite *IssuanceServiceTestSuite) TestIssueDocument_Success() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	request := suite.approvedRequest(domain.DocTypeClearance)
	resident := &domain.Resident{ResidentID: request.ResidentID, FirstName: "Juan", LastName: "Dela Cruz", IsActive: true}
	req := suite.issuanceRequest(request.RequestID)

	suite.mockRequests.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockResidents.On("FindResidentByID", ctx, request.ResidentID).Return(resident, nil).Once()
	suite.expectTx()
	suite.mockSequences.On("NextInTx", mock.Anything, mock.Anything, domain.DocTypeClearance, 2024).Return(int64(1), nil).Once()
	suite.mockDocs.On("CreateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.IssuedDocument")).Return(nil).Once()
	suite.mockDocs.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("Capture", actorUserID, "document.issued", mock.Anything).Once()

	doc, err := suite.service.IssueDocument(ctx, req, actorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal("2024-CLE-0001", doc.DocumentNumber)
	suite.Equal(request.ResidentID, doc.ResidentID)
	suite.Require().NotNil(doc.RequestID)
	suite.Equal(request.RequestID, *doc.RequestID)
	suite.True(doc.IsValid)
	suite.Equal(suite.clock.now, doc.SignedAt)

	claims, err := utils.ParseQRPayload(doc.QRPayload, "test-secret")
	suite.Require().NoError(err)
	suite.Equal("2024-CLE-0001", claims.DocumentNumber)
	suite.Equal("Juan Dela Cruz", claims.ResidentName)
	suite.Equal("CLEARANCE", claims.DocumentType)
	suite.Equal("2024-09-15", claims.ValidUntil)

	suite.mockDocs.AssertExpectations(suite.T())
	suite.mockSequences.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *IssuanceServiceTestSuite) TestIssueDocument_InvalidWindowTouchesNoSequence() {
	ctx := context.Background()
	req := suite.issuanceRequest(uuid.NewString())
	req.ValidUntil = req.ValidFrom.AddDate(0, -1, 0)

	doc, err := suite.service.IssueDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocs.AssertNotCalled(suite.T(), "Begin", mock.Anything)
	suite.mockSequences.AssertNotCalled(suite.T(), "NextInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *IssuanceServiceTestSuite) TestIssueDocument_PendingRequestIsConflict() {
	ctx := context.Background()
	request := suite.approvedRequest(domain.DocTypeIndigency)
	request.Status = domain.RequestPending
	req := suite.issuanceRequest(request.RequestID)

	suite.mockRequests.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()

	doc, err := suite.service.IssueDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockDocs.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *IssuanceServiceTestSuite) TestIssueDocument_RejectedRequestIsConflict() {
	ctx := context.Background()
	request := suite.approvedRequest(domain.DocTypeResidency)
	request.Status = domain.RequestRejected
	req := suite.issuanceRequest(request.RequestID)

	suite.mockRequests.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()

	doc, err := suite.service.IssueDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *IssuanceServiceTestSuite) TestIssueDocument_ReleasedRequestStillIssuable() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	request := suite.approvedRequest(domain.DocTypeIndigency)
	request.Status = domain.RequestReleased
	resident := &domain.Resident{ResidentID: request.ResidentID, FirstName: "Ana", LastName: "Reyes", IsActive: true}
	req := suite.issuanceRequest(request.RequestID)

	suite.mockRequests.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockResidents.On("FindResidentByID", ctx, request.ResidentID).Return(resident, nil).Once()
	suite.expectTx()
	suite.mockSequences.On("NextInTx", mock.Anything, mock.Anything, domain.DocTypeIndigency, 2024).Return(int64(7), nil).Once()
	suite.mockDocs.On("CreateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.IssuedDocument")).Return(nil).Once()
	suite.mockDocs.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("Capture", actorUserID, "document.issued", mock.Anything).Once()

	doc, err := suite.service.IssueDocument(ctx, req, actorUserID)

	suite.Require().NoError(err)
	suite.Equal("2024-IND-0007", doc.DocumentNumber)
}

func (suite *IssuanceServiceTestSuite) TestIssueDocument_RetriesOnNumberCollision() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	request := suite.approvedRequest(domain.DocTypeClearance)
	resident := &domain.Resident{ResidentID: request.ResidentID, FirstName: "Juan", LastName: "Dela Cruz", IsActive: true}
	req := suite.issuanceRequest(request.RequestID)

	suite.mockRequests.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockResidents.On("FindResidentByID", ctx, request.ResidentID).Return(resident, nil).Once()
	suite.expectTx()
	suite.mockSequences.On("NextInTx", mock.Anything, mock.Anything, domain.DocTypeClearance, 2024).Return(int64(1), nil).Once()
	suite.mockSequences.On("NextInTx", mock.Anything, mock.Anything, domain.DocTypeClearance, 2024).Return(int64(2), nil).Once()
	suite.mockDocs.On("CreateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.IssuedDocument")).Return(apperrors.ErrAllocationConflict).Once()
	suite.mockDocs.On("CreateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.IssuedDocument")).Return(nil).Once()
	suite.mockDocs.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("Capture", actorUserID, "document.issued", mock.Anything).Once()

	doc, err := suite.service.IssueDocument(ctx, req, actorUserID)

	suite.Require().NoError(err)
	suite.Equal("2024-CLE-0002", doc.DocumentNumber)
	suite.mockSequences.AssertNumberOfCalls(suite.T(), "NextInTx", 2)
}

func (suite *IssuanceServiceTestSuite) TestIssueDocument_DoubleIssuanceDoesNotRetry() {
	ctx := context.Background()
	request := suite.approvedRequest(domain.DocTypeClearance)
	resident := &domain.Resident{ResidentID: request.ResidentID, FirstName: "Juan", LastName: "Dela Cruz", IsActive: true}
	req := suite.issuanceRequest(request.RequestID)

	suite.mockRequests.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockResidents.On("FindResidentByID", ctx, request.ResidentID).Return(resident, nil).Once()
	suite.expectTx()
	suite.mockSequences.On("NextInTx", mock.Anything, mock.Anything, domain.DocTypeClearance, 2024).Return(int64(3), nil).Once()
	suite.mockDocs.On("CreateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.IssuedDocument")).Return(apperrors.ErrConflict).Once()

	doc, err := suite.service.IssueDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockSequences.AssertNumberOfCalls(suite.T(), "NextInTx", 1)
	suite.mockDocs.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *IssuanceServiceTestSuite) TestIssueDocument_ExhaustedRetriesSurfaceConflict() {
	ctx := context.Background()
	request := suite.approvedRequest(domain.DocTypeClearance)
	resident := &domain.Resident{ResidentID: request.ResidentID, FirstName: "Juan", LastName: "Dela Cruz", IsActive: true}
	req := suite.issuanceRequest(request.RequestID)

	suite.mockRequests.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockResidents.On("FindResidentByID", ctx, request.ResidentID).Return(resident, nil).Once()
	suite.expectTx()
	suite.mockSequences.On("NextInTx", mock.Anything, mock.Anything, domain.DocTypeClearance, 2024).Return(int64(0), apperrors.ErrAllocationConflict).Times(3)

	doc, err := suite.service.IssueDocument(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(doc)
	suite.ErrorIs(err, apperrors.ErrAllocationConflict)
	suite.mockSequences.AssertNumberOfCalls(suite.T(), "NextInTx", 3)
	suite.mockAudit.AssertNotCalled(suite.T(), "Capture", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *IssuanceServiceTestSuite) TestIssueDocument_YearPartitionFollowsValidFrom() {
	ctx := context.Background()
	actorUserID := uuid.NewString()
	request := suite.approvedRequest(domain.DocTypeBusinessPermitEndorsement)
	resident := &domain.Resident{ResidentID: request.ResidentID, FirstName: "Liza", LastName: "Mendoza", IsActive: true}
	req := suite.issuanceRequest(request.RequestID)
	req.ValidFrom = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	req.ValidUntil = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	suite.mockRequests.On("FindRequestByID", ctx, request.RequestID).Return(request, nil).Once()
	suite.mockResidents.On("FindResidentByID", ctx, request.ResidentID).Return(resident, nil).Once()
	suite.expectTx()
	suite.mockSequences.On("NextInTx", mock.Anything, mock.Anything, domain.DocTypeBusinessPermitEndorsement, 2025).Return(int64(1), nil).Once()
	suite.mockDocs.On("CreateDocumentInTx", mock.Anything, mock.Anything, mock.AnythingOfType("domain.IssuedDocument")).Return(nil).Once()
	suite.mockDocs.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockAudit.On("Capture", actorUserID, "document.issued", mock.Anything).Once()

	doc, err := suite.service.IssueDocument(ctx, req, actorUserID)

	suite.Require().NoError(err)
	suite.Equal("2025-BPE-0001", doc.DocumentNumber)
}

func TestIssuanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IssuanceServiceTestSuite))
}
