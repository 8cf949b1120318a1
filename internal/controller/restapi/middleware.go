package restapi

import (
	"errors"
	"time"

	"github.com/andreyxaxa/Photo-Storage/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func accessLog(l logger.Interface) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()

		err := ctx.Next()

		// ошибка ещё не отрендерена обработчиком ошибок
		status := ctx.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError

			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		l.Info("restapi - %s %s - %d - %s - request_id=%s",
			ctx.Method(), ctx.OriginalURL(), status, time.Since(start), ctx.GetRespHeader(fiber.HeaderXRequestID))

		return err
	}
}
