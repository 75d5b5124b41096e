package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"

	"github.com/maheshrc27/threads-gateway/internal/apperr"
	"github.com/maheshrc27/threads-gateway/internal/transfer"
)

// ErrorHandler renders every error as {"message","error"} with the status of its kind.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich != nil {
		status := rich.Code
		if status == 0 {
			status = apperr.Status(apperr.Kind(rich.TextCode))
		}
		if secs := apperr.RetryAfter(rich); secs > 0 && status == fiber.StatusTooManyRequests {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
		}
		if status >= fiber.StatusInternalServerError {
			slog.Error("request failed", "path", c.Path(), "error", err)
		}
		return c.Status(status).JSON(transfer.ErrorResponse{
			Message: rich.Message,
			Error:   rich.TextCode,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
			return c.Status(fiber.StatusBadRequest).JSON(transfer.ErrorResponse{
				Message: "Request body is too large",
				Error:   string(apperr.ValidationFailed),
			})
		}
		return c.Status(fiberErr.Code).JSON(transfer.ErrorResponse{
			Message: fiberErr.Message,
			Error:   statusTextCode(fiberErr.Code),
		})
	}

	slog.Error("unhandled error", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(transfer.ErrorResponse{
		Message: "Internal server error",
		Error:   "INTERNAL",
	})
}

func statusTextCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
