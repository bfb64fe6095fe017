package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/mappers"
	"github.com/csc-helpdesk/csc/internal/infrastructure/persistence/models"
	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/db"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) *UserRepository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return user.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"role":          model.Role,
			"department":    model.Department,
			"position":      model.Position,
			"is_active":     model.IsActive,
			"last_login_at": model.LastLoginAt,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) first(ctx context.Context, query string, arg any) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map user model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map user: %w", err)
	}
	return entity, nil
}

var userOrderColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
	"last_login": "last_login_at",
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := db.ContainsPattern(strings.ToLower(s))
		query = query.Where("(LOWER(name) LIKE ? ESCAPE '!' OR email LIKE ? ESCAPE '!')", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var rows []*models.UserModel
	if err := query.
		Scopes(db.OrderBy("created_at", "desc", userOrderColumns, "created_at"), db.Paginate(filter.Page, filter.PageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users, err := r.mapper.ToEntities(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Stats(ctx context.Context) (*user.Stats, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	stats := &user.Stats{ByRole: map[string]int64{}}

	if err := tx.Model(&models.UserModel{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := tx.Model(&models.UserModel{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	byRole, err := countBy(tx.Model(&models.UserModel{}), "role")
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	for _, row := range byRole {
		stats.ByRole[row.GroupKey] = row.Total
	}

	weekAgo := biztime.NowUTC().Add(-7 * 24 * time.Hour)
	if err := tx.Model(&models.UserModel{}).
		Where("last_login_at >= ?", weekAgo).
		Count(&stats.LoggedInWeek).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent logins: %w", err)
	}
	return stats, nil
}
