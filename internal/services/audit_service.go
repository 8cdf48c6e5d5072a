package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/events"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/logger"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/metrics"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/workflow"
)

var (
	ErrAuditNotFound    = errors.New("audit not found")
	ErrInvalidAuditType = errors.New("invalid audit type")
	ErrAuditNotEditable = errors.New("audit is not editable in its current status")
	ErrFindingTypeWrong = errors.New("invalid finding type")
	ErrReviewExists     = errors.New("audit already has a technical review")
	ErrUnknownNCStatus  = errors.New("invalid verification status")
	ErrFindingNotFound  = errors.New("finding not found")
	ErrNotNonconformity = errors.New("finding is not a nonconformity")
)

// validAuditTypes is the closed set accepted on creation.
var validAuditTypes = map[string]bool{
	models.AuditTypeStage1:          true,
	models.AuditTypeStage2:          true,
	models.AuditTypeSurveillance:    true,
	models.AuditTypeRecertification: true,
	models.AuditTypeTransfer:        true,
	models.AuditTypeSpecial:         true,
}

// AuditService owns audit lifecycle operations. Status transitions run
// through the workflow engine inside a single storage transaction so the
// status update and the log append commit together or not at all.
type AuditService struct {
	db        *gorm.DB
	roles     workflow.RoleProvider
	publisher events.Publisher
}

func NewAuditService(db *gorm.DB, roles workflow.RoleProvider, publisher events.Publisher) *AuditService {
	return &AuditService{db: db, roles: roles, publisher: publisher}
}

// Create stores a new audit in draft status.
func (s *AuditService) Create(audit *models.Audit) error {
	if !validAuditTypes[audit.AuditType] {
		return fmt.Errorf("%w: %q", ErrInvalidAuditType, audit.AuditType)
	}
	audit.UUID = uuid.New().String()
	if audit.Status == "" {
		audit.Status = workflow.StatusDraft
	}
	if audit.Reference == "" {
		audit.Reference = fmt.Sprintf("AUD-%s", audit.UUID[:8])
	}
	return s.db.Create(audit).Error
}

// List returns audits, optionally filtered by status and organization.
func (s *AuditService) List(status string, organizationID uint) ([]models.Audit, error) {
	q := s.db.Order("id desc")
	if status != "" {
		q = q.Where("status = ?", workflow.NormalizeStatus(status))
	}
	if organizationID != 0 {
		q = q.Where("organization_id = ?", organizationID)
	}
	var audits []models.Audit
	err := q.Find(&audits).Error
	return audits, err
}

// Get retrieves an audit with its findings and technical review.
func (s *AuditService) Get(id uint) (*models.Audit, error) {
	var audit models.Audit
	err := s.db.Preload("Findings").Preload("TechnicalReview").Preload("Organization").First(&audit, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAuditNotFound
	}
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// buildSnapshot aggregates the related records the guards need into an
// immutable view. Runs inside the caller's transaction so the snapshot
// and the subsequent status update see the same data.
func (s *AuditService) buildSnapshot(tx *gorm.DB, audit *models.Audit) (workflow.Snapshot, error) {
	snap := workflow.Snapshot{AuditID: audit.ID, AuditType: audit.AuditType}

	var count int64
	if err := tx.Model(&models.Finding{}).Where("audit_id = ?", audit.ID).Count(&count).Error; err != nil {
		return snap, err
	}
	snap.FindingCount = int(count)

	if err := tx.Model(&models.Finding{}).
		Where("audit_id = ? AND finding_type = ? AND category = ? AND verification_status = ?",
			audit.ID, models.FindingTypeNonconformity, models.NCCategoryMajor, models.NCStatusOpen).
		Count(&count).Error; err != nil {
		return snap, err
	}
	snap.MajorNCsAwaitingResponse = int(count)

	if err := tx.Model(&models.Finding{}).
		Where("audit_id = ? AND finding_type = ? AND verification_status IN ?",
			audit.ID, models.FindingTypeNonconformity, []string{models.NCStatusOpen, models.NCStatusClientResponded}).
		Count(&count).Error; err != nil {
		return snap, err
	}
	snap.UnresolvedNCs = int(count)

	var review models.TechnicalReview
	err := tx.Where("audit_id = ?", audit.ID).First(&review).Error
	if err == nil {
		snap.TechnicalReviewApproved = review.IsApproved()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return snap, err
	}

	if err := tx.Model(&models.Audit{}).
		Where("organization_id = ? AND audit_type = ? AND status IN ? AND id <> ?",
			audit.OrganizationID, models.AuditTypeStage1,
			[]string{workflow.StatusDecided, workflow.StatusClosed}, audit.ID).
		Count(&count).Error; err != nil {
		return snap, err
	}
	snap.CompletedStage1Exists = count > 0

	if err := tx.Model(&models.Certification{}).
		Where("organization_id = ? AND certificate_status = ?", audit.OrganizationID, models.CertStatusActive).
		Count(&count).Error; err != nil {
		return snap, err
	}
	snap.ActiveCertifications = int(count)

	return snap, nil
}

// actorFor resolves the acting user into a workflow actor. userID zero
// means an unauthenticated caller and yields a nil actor, which the
// engine always denies.
func (s *AuditService) actorFor(userID uint) (*workflow.Actor, error) {
	if userID == 0 {
		return nil, nil
	}
	return s.roles.ActorFor(userID)
}

// Transition moves the audit to the target status on behalf of the user.
// Legacy status codes are normalized on ingest. The returned audit
// carries the new status; on any rejection the stored record is
// untouched and the error unwraps to one of the workflow sentinels.
func (s *AuditService) Transition(auditID uint, target string, userID uint, notes string) (*models.Audit, error) {
	target = workflow.NormalizeStatus(target)

	actor, err := s.actorFor(userID)
	if err != nil {
		return nil, err
	}

	var audit models.Audit
	var oldStatus string
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&audit, auditID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAuditNotFound
			}
			return err
		}

		snap, err := s.buildSnapshot(tx, &audit)
		if err != nil {
			return err
		}

		wf := workflow.NewAuditWorkflow(&audit, snap)
		wf.OnApply(func(from, to string, actor *workflow.Actor, notes string) error {
			oldStatus = from
			if err := tx.Model(&models.Audit{}).Where("id = ?", audit.ID).Update("status", to).Error; err != nil {
				return err
			}
			entry := models.AuditStatusLog{
				UUID:       uuid.New().String(),
				AuditID:    audit.ID,
				FromStatus: from,
				ToStatus:   to,
				Notes:      notes,
				ChangedAt:  time.Now().UTC(),
			}
			if actor != nil {
				id := actor.ID
				entry.ChangedByID = &id
			}
			return tx.Create(&entry).Error
		})

		return wf.Transition(target, actor, notes)
	})

	if txErr != nil {
		s.recordRejection(auditID, audit.Status, target, txErr)
		return nil, txErr
	}

	metrics.IncTransition(audit.Status)
	if s.publisher != nil {
		e := events.Event{
			AuditID:    audit.ID,
			OldStatus:  oldStatus,
			NewStatus:  audit.Status,
			OccurredAt: time.Now().UTC(),
		}
		if actor != nil {
			e.ActorID = actor.ID
		}
		s.publisher.Publish(e)
	}
	return &audit, nil
}

func (s *AuditService) recordRejection(auditID uint, from, target string, err error) {
	switch {
	case errors.Is(err, workflow.ErrInvalidTransition):
		metrics.IncRejected("invalid_transition")
	case errors.Is(err, workflow.ErrPermissionDenied):
		metrics.IncRejected("permission_denied")
	case errors.Is(err, workflow.ErrGuardFailed):
		metrics.IncRejected("guard_failed")
		metrics.IncGuardFailure(from, target)
	default:
		return
	}
	logger.WithAudit(auditID).WithField("target", target).Info(err.Error())
}

// CanTransition reports whether the user could move the audit to target,
// with the refusing reason otherwise. Never mutates anything.
func (s *AuditService) CanTransition(auditID uint, target string, userID uint) (bool, string, error) {
	target = workflow.NormalizeStatus(target)

	actor, err := s.actorFor(userID)
	if err != nil {
		return false, "", err
	}

	audit, snap, err := s.loadForRead(auditID)
	if err != nil {
		return false, "", err
	}
	return workflow.NewAuditWorkflow(audit, snap).CanTransition(target, actor)
}

// AvailableTransitions lists the target statuses the user is authorized
// to attempt from the audit's current status.
func (s *AuditService) AvailableTransitions(auditID uint, userID uint) ([]workflow.StatusOption, error) {
	actor, err := s.actorFor(userID)
	if err != nil {
		return nil, err
	}

	audit, snap, err := s.loadForRead(auditID)
	if err != nil {
		return nil, err
	}
	return workflow.NewAuditWorkflow(audit, snap).AvailableTransitions(actor), nil
}

func (s *AuditService) loadForRead(auditID uint) (*models.Audit, workflow.Snapshot, error) {
	var audit models.Audit
	if err := s.db.First(&audit, auditID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workflow.Snapshot{}, ErrAuditNotFound
		}
		return nil, workflow.Snapshot{}, err
	}
	snap, err := s.buildSnapshot(s.db, &audit)
	if err != nil {
		return nil, workflow.Snapshot{}, err
	}
	return &audit, snap, nil
}

// StatusLog returns the audit's transition trail in chronological order.
func (s *AuditService) StatusLog(auditID uint) ([]models.AuditStatusLog, error) {
	var entries []models.AuditStatusLog
	err := s.db.Where("audit_id = ?", auditID).Order("id asc").Find(&entries).Error
	return entries, err
}

// AddFinding records a finding against an audit that is still being
// executed. Nonconformities open in status open; observations and OFIs
// carry no verification state.
func (s *AuditService) AddFinding(finding *models.Finding) error {
	switch finding.FindingType {
	case models.FindingTypeNonconformity:
		if finding.Category != models.NCCategoryMajor && finding.Category != models.NCCategoryMinor {
			return fmt.Errorf("%w: nonconformity category must be major or minor", ErrFindingTypeWrong)
		}
		if finding.VerificationStatus == "" {
			finding.VerificationStatus = models.NCStatusOpen
		}
	case models.FindingTypeObservation, models.FindingTypeOFI:
		finding.Category = ""
		finding.VerificationStatus = ""
	default:
		return fmt.Errorf("%w: %q", ErrFindingTypeWrong, finding.FindingType)
	}

	var audit models.Audit
	if err := s.db.First(&audit, finding.AuditID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuditNotFound
		}
		return err
	}
	if workflow.IsTerminalStatus(audit.Status) {
		return ErrAuditNotEditable
	}

	finding.UUID = uuid.New().String()
	return s.db.Create(finding).Error
}

// SetNCVerificationStatus advances a nonconformity through its response
// cycle (open, client_responded, accepted, closed).
func (s *AuditService) SetNCVerificationStatus(findingID uint, status string) error {
	switch status {
	case models.NCStatusOpen, models.NCStatusClientResponded, models.NCStatusAccepted, models.NCStatusClosed:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownNCStatus, status)
	}

	var finding models.Finding
	if err := s.db.First(&finding, findingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFindingNotFound
		}
		return err
	}
	if !finding.IsNonconformity() {
		return ErrNotNonconformity
	}
	return s.db.Model(&finding).Update("verification_status", status).Error
}

// SetTechnicalReview records the one-per-audit technical review outcome.
func (s *AuditService) SetTechnicalReview(review *models.TechnicalReview) error {
	var existing models.TechnicalReview
	err := s.db.Where("audit_id = ?", review.AuditID).First(&existing).Error
	if err == nil {
		return ErrReviewExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	review.UUID = uuid.New().String()
	now := time.Now().UTC()
	if review.ReviewedAt == nil {
		review.ReviewedAt = &now
	}
	return s.db.Create(review).Error
}
