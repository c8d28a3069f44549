package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studorg/counter-system/internal/core/domain"
)

// newTestEcho builds an Echo instance wired like the production router:
// request validator plus the domain error mapping.
func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = testErrorHandler(zerolog.Nop())
	return e
}

// testErrorHandler mirrors the api package's error mapping for the codes the
// handler tests assert on. Kept local to avoid an import cycle with api.
func testErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = fmt.Sprintf("%v", he.Message)
		case errors.Is(err, domain.ErrValidation),
			errors.Is(err, domain.ErrProductArchived),
			errors.Is(err, domain.ErrProductNotAvailable):
			code = http.StatusUnprocessableEntity
			msg = err.Error()
		case errors.Is(err, domain.ErrCustomerNotFound),
			errors.Is(err, domain.ErrProductNotFound),
			errors.Is(err, domain.ErrCounterNotFound),
			errors.Is(err, domain.ErrNotLoggedIn),
			errors.Is(err, domain.ErrOperatorNotFound):
			code = http.StatusNotFound
			msg = err.Error()
		case errors.Is(err, domain.ErrEmptySession),
			errors.Is(err, domain.ErrAccountExists),
			errors.Is(err, domain.ErrOperatorExists):
			code = http.StatusConflict
			msg = err.Error()
		case errors.Is(err, domain.ErrInvalidCredentials):
			code = http.StatusUnauthorized
			msg = err.Error()
		case errors.Is(err, domain.ErrForbidden):
			code = http.StatusForbidden
			msg = err.Error()
		}

		_ = c.JSON(code, map[string]string{"error": msg})
	}
}
