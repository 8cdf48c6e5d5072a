package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/logger"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/workflow"
)

// certExpiryWarning is how far ahead the sweep warns about expiring
// certificates; IAF MD5 expects surveillance planning well before expiry.
const certExpiryWarning = 90 * 24 * time.Hour

// stalledAfter is how long an audit may sit in one non-terminal status
// before the sweep flags it.
const stalledAfter = 30 * 24 * time.Hour

// SchedulerService runs daily compliance sweeps: overdue audits, audits
// stalled mid-workflow, and certificates approaching expiry without a
// surveillance audit underway.
type SchedulerService struct {
	db            *gorm.DB
	notifications *NotificationService
	cron          *cron.Cron
}

func NewSchedulerService(db *gorm.DB, ns *NotificationService) *SchedulerService {
	return &SchedulerService{db: db, notifications: ns, cron: cron.New()}
}

// Start schedules the daily sweep at 06:00 and starts the cron loop.
func (s *SchedulerService) Start() error {
	if _, err := s.cron.AddFunc("0 6 * * *", s.RunDailySweep); err != nil {
		return fmt.Errorf("schedule daily sweep: %w", err)
	}
	s.cron.Start()
	logger.Log().Info("compliance scheduler started")
	return nil
}

// Stop halts the cron loop, waiting for a running sweep to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunDailySweep executes all checks once. Exported so an operator can
// trigger it on demand.
func (s *SchedulerService) RunDailySweep() {
	s.checkOverdueAudits()
	s.checkStalledAudits()
	s.checkExpiringCertifications()
}

func (s *SchedulerService) checkOverdueAudits() {
	var audits []models.Audit
	err := s.db.Where("scheduled_start < ? AND status IN ?",
		time.Now(), []string{workflow.StatusDraft, workflow.StatusScheduled}).
		Find(&audits).Error
	if err != nil {
		logger.Log().WithError(err).Warn("overdue audit sweep failed")
		return
	}

	for _, audit := range audits {
		s.notifications.SchedulerAlert(
			fmt.Sprintf("Audit %s overdue", audit.Reference),
			fmt.Sprintf("Audit %s was scheduled to start %s and is still %s.",
				audit.Reference, audit.ScheduledStart.Format("2006-01-02"), audit.Status),
		)
	}
}

func (s *SchedulerService) checkStalledAudits() {
	cutoff := time.Now().Add(-stalledAfter)
	var audits []models.Audit
	err := s.db.Where("updated_at < ? AND status NOT IN ?",
		cutoff, []string{workflow.StatusClosed, workflow.StatusCancelled}).
		Find(&audits).Error
	if err != nil {
		logger.Log().WithError(err).Warn("stalled audit sweep failed")
		return
	}

	for _, audit := range audits {
		s.notifications.SchedulerAlert(
			fmt.Sprintf("Audit %s stalled", audit.Reference),
			fmt.Sprintf("Audit %s has been in status %s since %s.",
				audit.Reference, audit.Status, audit.UpdatedAt.Format("2006-01-02")),
		)
	}
}

func (s *SchedulerService) checkExpiringCertifications() {
	horizon := time.Now().Add(certExpiryWarning)
	var certs []models.Certification
	err := s.db.Where("certificate_status = ? AND expires_at IS NOT NULL AND expires_at < ?",
		models.CertStatusActive, horizon).
		Find(&certs).Error
	if err != nil {
		logger.Log().WithError(err).Warn("certificate expiry sweep failed")
		return
	}

	for _, cert := range certs {
		s.notifications.SchedulerAlert(
			fmt.Sprintf("Certificate %s expiring", cert.CertificateNo),
			fmt.Sprintf("Certificate %s (%s) expires %s; plan the surveillance or recertification audit.",
				cert.CertificateNo, cert.StandardCode, cert.ExpiresAt.Format("2006-01-02")),
		)
	}
}
