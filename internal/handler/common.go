package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/middleware"
)

// pathID parses the :param path segment as a positive integer id.
func pathID(c echo.Context, param string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("Invalid " + param)
	}
	return id, nil
}

// currentUserID reads the authenticated user id stored by JWTAuth.
func currentUserID(c echo.Context) (uint64, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || id == 0 {
		return 0, apperr.Authentication("")
	}
	return id, nil
}
