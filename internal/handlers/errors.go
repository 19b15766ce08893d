package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/WillSeigler/Bookd/internal/apperr"
	"github.com/WillSeigler/Bookd/pkg/cloudinary"
	"github.com/labstack/echo/v4"
)

// httpError maps service errors onto HTTP statuses. Store errors keep their
// message.
func httpError(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	case errors.Is(err, apperr.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	switch cloudinary.KindOf(err) {
	case cloudinary.KindTimeout:
		return echo.NewHTTPError(http.StatusGatewayTimeout, err.Error())
	case cloudinary.KindNetwork, cloudinary.KindRejected, cloudinary.KindPresetNotFound, cloudinary.KindInvalidResponse:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	case cloudinary.KindNotConfigured:
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// bindAndValidate decodes the body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return httpError(err)
	}
	return nil
}

func success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    data,
	})
}

// page reads limit/offset query params; bad values fall back to zero and
// the services apply their defaults.
func page(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}
