package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ioannisioannides/00-cedrus-sub001/internal/models"
	"github.com/ioannisioannides/00-cedrus-sub001/internal/workflow"
)

// UserRoleProvider resolves workflow role tags from the users table. An
// unknown or disabled user yields a nil actor, which the engine denies;
// that keeps "no such user" indistinguishable from "no permission" at the
// workflow boundary.
type UserRoleProvider struct {
	db *gorm.DB
}

func NewUserRoleProvider(db *gorm.DB) *UserRoleProvider {
	return &UserRoleProvider{db: db}
}

// ActorFor loads the user and maps its role onto workflow role tags.
func (p *UserRoleProvider) ActorFor(userID uint) (*workflow.Actor, error) {
	var user models.User
	err := p.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, nil
	}
	return &workflow.Actor{ID: user.ID, Roles: []string{user.Role}}, nil
}
