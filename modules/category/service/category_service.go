package service

import (
	"context"
	"strings"

	"calendar-api/core/constants"
	"calendar-api/core/database"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	accessEntity "calendar-api/modules/access/entity"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/category/dto"
	"calendar-api/modules/category/entity"
	"calendar-api/modules/category/mapper"
	"calendar-api/modules/category/repository"

	"github.com/google/uuid"
)

type CategoryService struct {
	repo   repository.CategoryRepository
	access accessService.AccessServiceInterface
}

func NewCategoryService(repo repository.CategoryRepository, access accessService.AccessServiceInterface) *CategoryService {
	return &CategoryService{repo: repo, access: access}
}

func (s *CategoryService) Create(ctx context.Context, userID, calendarID uuid.UUID, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionWriteCategories); appErr != nil {
		return nil, appErr
	}

	category := &entity.Category{
		CalendarID: calendarID,
		Name:       strings.TrimSpace(req.Name),
		Color:      constants.DefaultCalendarColor,
	}
	if req.Color != nil {
		category.Color = *req.Color
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create category failed", err)
	}
	return mapper.ToCategoryResponse(category), nil
}

func (s *CategoryService) List(ctx context.Context, userID, calendarID uuid.UUID) ([]*dto.CategoryResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionReadCategories); appErr != nil {
		return nil, appErr
	}

	categories, err := s.repo.ListByCalendar(ctx, calendarID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get categories failed", err)
	}
	return mapper.ToCategoryResponses(categories), nil
}

func (s *CategoryService) Update(ctx context.Context, userID, categoryID uuid.UUID, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.AuthorizeCategory(ctx, userID, categoryID, accessEntity.ActionWriteCategories); appErr != nil {
		return nil, appErr
	}

	category, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get category failed", err)
	}
	if category == nil {
		return nil, errors.NotFound("category not found")
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		category.Color = *req.Color
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update category failed", err)
	}
	return mapper.ToCategoryResponse(category), nil
}

// Delete refuses while any event references the category.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.AuthorizeCategory(ctx, userID, categoryID, accessEntity.ActionWriteCategories); appErr != nil {
		return appErr
	}

	count, err := s.repo.CountEvents(ctx, categoryID)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "count category events failed", err)
	}
	if count > 0 {
		return errors.Conflict("category is used by events and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, categoryID); err != nil {
		if database.IsForeignKeyViolation(err) {
			// An event was attached between the count and the delete.
			return errors.Conflict("category is used by events and cannot be deleted")
		}
		return errors.NewAppError(errors.ErrDeleteFailed, "delete category failed", err)
	}

	logger.Info("CategoryService:Delete:Success", "category_id", categoryID, "user_id", userID)
	return nil
}
