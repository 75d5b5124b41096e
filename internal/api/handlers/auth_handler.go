package handlers

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	config "github.com/maheshrc27/threads-gateway/configs"
	"github.com/maheshrc27/threads-gateway/internal/api/middleware"
	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/service"
	"github.com/maheshrc27/threads-gateway/internal/transfer"
)

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

type exchangeRequest struct {
	Code string `json:"code"`
}

func (h *AuthHandler) Exchange(c *fiber.Ctx) error {
	var req exchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("code", "Authorization code missing")
	}

	res, err := h.s.Exchange(c.UserContext(), req.Code)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	token, err := h.s.Refresh(c.UserContext(), middleware.Credential(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(transfer.RefreshResponse{AccessToken: token})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	consentURL, err := h.s.LoginURL()
	if errors.Is(err, service.ErrLoginDisabled) {
		return fiber.NewError(fiber.StatusNotFound, "Login is disabled")
	}
	if err != nil {
		slog.Error("failed to build consent url", "error", err)
		return err
	}
	return c.Redirect(consentURL, fiber.StatusTemporaryRedirect)
}

// Callback completes the browser flow and hands the credential to the frontend.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing code")
	}

	if err := h.s.VerifyState(c.Query("state")); err != nil {
		slog.Info("oauth callback rejected", "reason", "state")
		return h.redirectError(c, err)
	}

	res, err := h.s.Exchange(c.UserContext(), code)
	if err != nil {
		return h.redirectError(c, err)
	}

	params := url.Values{}
	params.Set("token", res.AccessToken)
	params.Set("user", res.User.Username)
	return c.Redirect(h.frontendURL()+"/?"+params.Encode(), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) redirectError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.ExchangeFailed
	}
	params := url.Values{}
	params.Set("error", string(kind))
	return c.Redirect(h.frontendURL()+"/?"+params.Encode(), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) frontendURL() string {
	return strings.TrimRight(h.cfg.FrontendURL, "/")
}
