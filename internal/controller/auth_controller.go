package controller

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/serverutils"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	ChangePassword(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	auth    fiber.Handler
}

func NewAuthController(service service.IAuthService, auth fiber.Handler) IAuthController {
	return &authController{service: service, auth: auth}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/refresh", c.Refresh)
	h.Post("/logout", c.auth, c.Logout)
	h.Post("/change-password", c.auth, c.ChangePassword)
}

func clientInfo(ctx *fiber.Ctx) dto.ClientInfo {
	return dto.ClientInfo{IpAddress: ctx.IP(), UserAgent: ctx.Get(fiber.HeaderUserAgent)}
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req, clientInfo(ctx))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req, clientInfo(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Refresh(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Refresh(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Token refreshed", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	if err := c.service.Logout(ctx.UserContext(), serverutils.CurrentUserId(ctx), req.RefreshToken); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out successfully", nil))
}

func (c *authController) ChangePassword(ctx *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ChangePassword(ctx.UserContext(), serverutils.CurrentUserId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Password changed, please log in again", res))
}
