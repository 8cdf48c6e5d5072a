package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&Audit{}, &AuditStatusLog{})
	assert.NoError(t, err)

	return db
}

func TestAuditStatusLog_Immutable(t *testing.T) {
	db := setupModelDB(t)

	entry := AuditStatusLog{
		UUID:       "log-1",
		AuditID:    1,
		FromStatus: "draft",
		ToStatus:   "scheduled",
		ChangedAt:  time.Now(),
	}
	assert.NoError(t, db.Create(&entry).Error)

	t.Run("update is rejected", func(t *testing.T) {
		entry.Notes = "tampered"
		err := db.Save(&entry).Error
		assert.ErrorIs(t, err, ErrStatusLogImmutable)

		err = db.Model(&entry).Update("to_status", "closed").Error
		assert.ErrorIs(t, err, ErrStatusLogImmutable)
	})

	t.Run("delete is rejected", func(t *testing.T) {
		err := db.Delete(&entry).Error
		assert.ErrorIs(t, err, ErrStatusLogImmutable)

		var count int64
		assert.NoError(t, db.Model(&AuditStatusLog{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})
}

func TestFinding_Resolution(t *testing.T) {
	nc := Finding{FindingType: FindingTypeNonconformity, Category: NCCategoryMajor, VerificationStatus: NCStatusOpen}
	assert.True(t, nc.IsNonconformity())
	assert.False(t, nc.IsResolved())

	nc.VerificationStatus = NCStatusClientResponded
	assert.False(t, nc.IsResolved())

	nc.VerificationStatus = NCStatusAccepted
	assert.True(t, nc.IsResolved())

	obs := Finding{FindingType: FindingTypeObservation}
	assert.False(t, obs.IsNonconformity())
	assert.True(t, obs.IsResolved())
}

func TestUser_Password(t *testing.T) {
	u := User{Email: "lead@cb.example", Role: RoleLeadAuditor}
	assert.NoError(t, u.SetPassword("correct horse"))
	assert.NotEqual(t, "correct horse", u.PasswordHash)
	assert.True(t, u.CheckPassword("correct horse"))
	assert.False(t, u.CheckPassword("wrong"))
}
