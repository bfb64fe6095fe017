// Package common provides shared HTTP handler utilities.
package common

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcommon "github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/middleware"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

// RequirePrincipal returns the authenticated caller, answering 401 when
// there is none.
func RequirePrincipal(c *gin.Context) (appcommon.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized))
		return appcommon.Principal{}, false
	}
	return p, true
}

// ParseUintParam reads a positive numeric path parameter.
func ParseUintParam(c *gin.Context, name, label string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid " + label + " ID")
	}
	return uint(id), nil
}

// BindJSON binds the request body into req, answering 400 with per-field
// messages on failure.
func BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return false
	}
	return true
}

// BindQuery binds query parameters into req.
func BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return false
	}
	return true
}

// OptionalBool parses a "true"/"false" query value; anything else is nil.
func OptionalBool(c *gin.Context, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}
