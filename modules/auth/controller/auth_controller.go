package controller

import (
	"calendar-api/core/controller"
	"calendar-api/core/errors"
	"calendar-api/modules/auth/dto"
	"calendar-api/modules/auth/service"
	"calendar-api/modules/auth/validator"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(authService service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    authService,
	}
}

// Register creates an account and its main calendar
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account"
// @Router /auth/register [post]
func (controller *AuthController) Register(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.RegisterRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	validationResult := validator.ValidateRegisterRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	registerResponse, appErr := controller.AuthService.Register(ctx, requestData)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.CreatedResponse(c, registerResponse, "Register success")
}

// Login
// @Summary Login with email or username
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Router /auth/login [post]
func (controller *AuthController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.LoginRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	validationResult := validator.ValidateLoginRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	loginResponse, appErr := controller.AuthService.Login(ctx, requestData)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, loginResponse, "Login success")
}

func (controller *AuthController) RefreshToken(c echo.Context) error {
	requestData := new(dto.RefreshTokenRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	validationResult := validator.ValidateRefreshTokenRequest(requestData)
	if validationResult.HasError() {
		return controller.BadRequest(errors.ErrInvalidInput, "Invalid request data", validationResult)
	}

	resp, appErr := controller.AuthService.RefreshToken(c.Request().Context(), requestData)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, resp, "Token refreshed")
}

func (controller *AuthController) Logout(c echo.Context) error {
	claims, err := controller.CurrentClaims(c)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	// The body is optional; a missing refresh token only revokes the access token.
	requestData := new(dto.LogoutRequest)
	_ = c.Bind(requestData)

	if appErr := controller.AuthService.Logout(c.Request().Context(), claims, requestData.RefreshToken); appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, nil, "Logout success")
}

func (controller *AuthController) Me(c echo.Context) error {
	userID, err := controller.CurrentUserID(c)
	if err != nil {
		return controller.ErrorResponse(c, err)
	}

	user, appErr := controller.AuthService.Me(c.Request().Context(), userID)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, user, "Get profile success")
}
