package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var errObjNotFoundInCtx = errors.New("object not found in echo.Context")

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Server errors are logged with the request.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := errorResponse(err, translator)

		if code >= http.StatusInternalServerError {
			req := ctx.Request()
			reqID := ctx.Response().Header().Get(echo.HeaderXRequestID)
			logger.Error(fmt.Sprintf("%s %s [%s]", req.Method, req.URL.Path, reqID), err, req)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

// errorResponse maps err to a status code and a response message.
func errorResponse(err error, translator ut.Translator) (int, interface{}) {
	var (
		bindErr *echo.BindingError
		httpErr *echo.HTTPError
		fldErrs validator.ValidationErrors
		vErr    *core.ValidationError
		nfErr   *core.NotFoundError
		pErr    *core.PartialFailure
		sErr    *core.StoreError
	)

	switch {
	case errors.As(err, &bindErr):
		return http.StatusBadRequest, map[string]string{bindErr.Field: fmt.Sprint(bindErr.Message)}
	case errors.As(err, &httpErr):
		if httpErr.Internal != nil {
			var herr *echo.HTTPError
			if errors.As(httpErr.Internal, &herr) {
				httpErr = herr
			}
		}
		return httpErr.Code, httpErr.Message
	case errors.As(err, &fldErrs):
		vErr = core.TranslateValidationErrors(fldErrs, translator).(*core.ValidationError)
		return http.StatusBadRequest, fieldErrors(vErr.Fields)
	case errors.As(err, &vErr):
		if len(vErr.Fields) > 0 {
			return http.StatusBadRequest, fieldErrors(vErr.Fields)
		}
		return http.StatusBadRequest, vErr.Error()
	case errors.As(err, &nfErr):
		return http.StatusNotFound, nfErr.Error()
	case errors.As(err, &pErr):
		return http.StatusUnprocessableEntity, echo.Map{"error": pErr.Message, "failed": pErr.Failed, "total": pErr.Total}
	case errors.As(err, &sErr):
		return http.StatusServiceUnavailable, sErr.Error()
	default: // any other error is a server error
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func fieldErrors(flds []core.FieldError) map[string]string {
	res := make(map[string]string, len(flds))
	for _, fErr := range flds {
		res[fErr.Field] = fErr.Error
	}
	return res
}
