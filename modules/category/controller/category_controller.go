package controller

import (
	"calendar-api/core/controller"
	"calendar-api/core/errors"
	"calendar-api/modules/category/dto"
	"calendar-api/modules/category/service"
	"calendar-api/modules/category/validator"

	"github.com/labstack/echo/v4"
)

type CategoryController struct {
	controller.BaseController
	service *service.CategoryService
}

func NewCategoryController(service *service.CategoryService) *CategoryController {
	return &CategoryController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

func (c *CategoryController) Create(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.CreateCategoryRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateCreateCategoryRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.Create(ctx.Request().Context(), userID, calendarID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.CreatedResponse(ctx, resp, "Category created")
}

func (c *CategoryController) List(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	calendarID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	resp, appErr := c.service.List(ctx.Request().Context(), userID, calendarID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Categories retrieved")
}

func (c *CategoryController) Update(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	categoryID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	req := new(dto.UpdateCategoryRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}
	if result := validator.ValidateUpdateCategoryRequest(req); result.HasError() {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request data", result)
	}

	resp, appErr := c.service.Update(ctx.Request().Context(), userID, categoryID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, resp, "Category updated")
}

func (c *CategoryController) Delete(ctx echo.Context) error {
	userID, err := c.CurrentUserID(ctx)
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}
	categoryID, err := controller.ParseUUIDParam(ctx, "id")
	if err != nil {
		return c.ErrorResponse(ctx, err)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), userID, categoryID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Category deleted")
}
