package mappers

import (
	"fmt"

	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	vo "github.com/csc-helpdesk/csc/internal/domain/user/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/mapper"
)

// UserMapper converts between the user aggregate and its row.
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
	ToEntities(models []*models.UserModel) ([]*user.User, error)
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email value object: %w", err)
	}

	// An unknown stored role reconstructs with no permissions rather than failing the read.
	role := permission.Role(model.Role)

	return user.ReconstructUser(
		model.ID,
		email,
		model.Name,
		role,
		model.Department,
		model.Position,
		model.IsActive,
		model.LastLoginAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	return &models.UserModel{
		ID:          entity.ID(),
		Email:       entity.Email().String(),
		Name:        entity.Name(),
		Role:        entity.Role().String(),
		Department:  entity.Department(),
		Position:    entity.Position(),
		IsActive:    entity.IsActive(),
		LastLoginAt: entity.LastLoginAt(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *UserMapperImpl) ToEntities(rows []*models.UserModel) ([]*user.User, error) {
	return mapper.MapSliceWithError(rows, m.ToEntity)
}
