package Controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"Mandi/Ledger"
	"Mandi/Models"
	"Mandi/Services"
	"Mandi/middleware"
)

type UserController struct {
	svc      *Services.LedgerService
	auth     *middleware.Auth
	validate *Validator
}

func NewUserController(svc *Services.LedgerService, auth *middleware.Auth, validate *Validator) *UserController {
	return &UserController{svc: svc, auth: auth, validate: validate}
}

// Login checks the credentials and issues a token, also set as a cookie
func (c *UserController) Login(ctx *fiber.Ctx) error {
	var req Models.LoginRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}

	user, err := c.svc.Store().GetUserByEmail(ctx.UserContext(), req.Email)
	if errors.Is(err, Ledger.ErrNotFound) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Incorrect email or password"})
	}
	if err != nil {
		return respondError(ctx, err)
	}
	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(req.Password)); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Incorrect email or password"})
	}

	token, expires, err := c.auth.Issue(user.ID, time.Now())
	if err != nil {
		return respondError(ctx, err)
	}
	ctx.Cookie(c.auth.Cookie(token, expires))
	return ctx.JSON(fiber.Map{
		"message": "success",
		"token":   token,
		"user":    user,
	})
}

// Logout expires the auth cookie
func (c *UserController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(c.auth.Cookie("", time.Now().Add(-time.Hour)))
	return ctx.JSON(fiber.Map{"message": "success"})
}

// Me returns the authenticated user
func (c *UserController) Me(ctx *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(ctx)
	return ctx.JSON(user)
}

// GetUsers retrieves all users
func (c *UserController) GetUsers(ctx *fiber.Ctx) error {
	users, err := c.svc.Store().ListUsers(ctx.UserContext())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(users)
}

// RegisterUser creates a user with a bcrypt hashed password
func (c *UserController) RegisterUser(ctx *fiber.Ctx) error {
	var req Models.RegisterUserRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(ctx, err)
	}
	user := Models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   hash,
		Permission: req.Permission,
	}
	if err := c.svc.Store().CreateUser(ctx.UserContext(), &user); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(user)
}

// UpdateFCMToken registers the caller's device for push notifications.
func (c *UserController) UpdateFCMToken(ctx *fiber.Ctx) error {
	var req Models.UpdateTokenRequest
	if err := c.validate.bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	if err := c.svc.Store().SaveFCMToken(ctx.UserContext(), middleware.UserID(ctx), req.Value); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "token saved"})
}
