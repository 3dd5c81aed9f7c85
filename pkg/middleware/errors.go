package middleware

import (
	"errors"

	"github.com/fekuna/omnipos-dashboard/pkg/apperror"
	"github.com/fekuna/omnipos-dashboard/pkg/i18n"
	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler turns handler errors into localized JSON bodies. Errors
// outside the apperror taxonomy are logged and reported as internal.
func ErrorHandler(log logger.ZapLogger, tr *i18n.Translator) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		lang := c.Get(fiber.HeaderAcceptLanguage)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "bad_request"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "not_found"
			case fiber.StatusUnauthorized:
				code = "invalid_credential"
			}
			if fe.Code >= fiber.StatusInternalServerError {
				code = "internal_error"
				log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(fe.Code).JSON(ErrorBody{Error: ErrorDetail{
				Code:    code,
				Message: tr.Localize(code, fe.Message, nil, lang),
			}})
		}

		appErr, ok := apperror.As(err)
		if !ok || appErr.Kind == apperror.KindInternal {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: ErrorDetail{
				Code:    "internal_error",
				Message: tr.Localize("internal_error", "internal error", nil, lang),
			}})
		}

		if appErr.Kind == apperror.KindExternal {
			log.Error("upstream failure", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(appErr.Kind.HTTPStatus()).JSON(ErrorBody{Error: ErrorDetail{
			Code:    appErr.Code,
			Message: tr.Localize(appErr.Code, appErr.Message, appErr.Data, lang),
		}})
	}
}
