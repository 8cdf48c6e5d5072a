package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/config"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/database"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/workflow"
)

// Seeds a development database with certification-body personnel, a
// client organization with sites and an active certificate, and one
// audit ready to be worked through the lifecycle.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := db.AutoMigrate(
		&models.Organization{},
		&models.Site{},
		&models.Certification{},
		&models.Audit{},
		&models.Finding{},
		&models.TechnicalReview{},
		&models.AuditStatusLog{},
		&models.User{},
		&models.Notification{},
		&models.NotificationProvider{},
	); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	fmt.Println("✓ Database migrated successfully")

	users := []struct {
		email string
		name  string
		role  string
	}{
		{"admin@cedrus.local", "CB Administrator", models.RoleCBAdmin},
		{"decisions@cedrus.local", "Dana Decision", models.RoleDecisionMaker},
		{"lead@cedrus.local", "Lena Lead", models.RoleLeadAuditor},
		{"auditor@cedrus.local", "Alex Auditor", models.RoleAuditor},
	}
	for _, u := range users {
		user := models.User{
			UUID:    uuid.NewString(),
			Email:   u.email,
			Name:    u.name,
			Role:    u.role,
			Enabled: true,
		}
		if err := user.SetPassword("changeme123"); err != nil {
			log.Fatal("Failed to hash password: ", err)
		}
		db.Where(models.User{Email: u.email}).FirstOrCreate(&user)
	}
	fmt.Println("✓ Seeded users (password: changeme123)")

	org := models.Organization{
		UUID:           uuid.NewString(),
		Name:           "Acme Manufacturing Ltd",
		RegistrationNo: "HE-123456",
		Industry:       "Metal fabrication",
		EmployeeCount:  120,
	}
	db.Where(models.Organization{Name: org.Name}).FirstOrCreate(&org)

	sites := []models.Site{
		{UUID: uuid.NewString(), OrganizationID: org.ID, Name: "Head Office", Address: "1 Factory Rd", IsHeadOffice: true, RiskLevel: models.SiteRiskLow, EmployeeCount: 40},
		{UUID: uuid.NewString(), OrganizationID: org.ID, Name: "Plant A", Address: "2 Factory Rd", RiskLevel: models.SiteRiskHigh, EmployeeCount: 60},
		{UUID: uuid.NewString(), OrganizationID: org.ID, Name: "Warehouse", Address: "3 Factory Rd", RiskLevel: models.SiteRiskLow, EmployeeCount: 20},
	}
	for i := range sites {
		db.Where(models.Site{OrganizationID: org.ID, Name: sites[i].Name}).FirstOrCreate(&sites[i])
	}

	expiry := time.Now().AddDate(2, 0, 0)
	cert := models.Certification{
		UUID:              uuid.NewString(),
		OrganizationID:    org.ID,
		StandardCode:      "ISO 9001",
		CertificateNo:     "CED-9001-0001",
		CertificateStatus: models.CertStatusActive,
		ExpiresAt:         &expiry,
	}
	db.Where(models.Certification{CertificateNo: cert.CertificateNo}).FirstOrCreate(&cert)
	fmt.Println("✓ Seeded organization, sites and certificate")

	var lead models.User
	db.Where("email = ?", "lead@cedrus.local").First(&lead)

	audit := models.Audit{
		UUID:                 uuid.NewString(),
		Reference:            "AUD-SEED-001",
		OrganizationID:       org.ID,
		LeadAuditorID:        &lead.ID,
		AuditType:            models.AuditTypeSurveillance,
		StandardCode:         "ISO 9001",
		Status:               workflow.StatusDraft,
		PlannedDurationHours: 16,
	}
	db.Where(models.Audit{Reference: audit.Reference}).FirstOrCreate(&audit)
	fmt.Println("✓ Seeded draft surveillance audit AUD-SEED-001")
}
