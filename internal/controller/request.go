package controller

import (
	"course_progress_backend/internal/service"
	"course_progress_backend/internal/util"
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

func currentCaller(ctx *gin.Context) (service.Caller, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return service.Caller{}, false
	}
	return service.Caller{UserID: user.UserID, Role: user.Role}, true
}

// idParam parses a numeric path parameter and answers 400 on failure.
func idParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParseID(name, ctx.Param(name))
	if err != nil {
		util.RespondError(ctx, err)
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON body keeping numbers as json.Number, so integral
// answers are not silently turned into floats. An empty body decodes to the
// zero value.
func decodeBody(ctx *gin.Context, dst interface{}) bool {
	dec := json.NewDecoder(ctx.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		util.RespondError(ctx, util.NewInputError("body", "request body must be a JSON object"))
		return false
	}
	return true
}
