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

const partialParam = "partial"

func pathID(ctx echo.Context) (int, error) {
	var id int
	err := echo.PathParamsBinder(ctx).MustInt("id", &id).BindError()
	return id, err
}

// batchOptions reads the ?partial=true query param, which asks for the written records of a partially failed batch.
func batchOptions(ctx echo.Context) ([]core.BatchOption, error) {
	var partial bool
	if err := echo.QueryParamsBinder(ctx).Bool(partialParam, &partial).BindError(); err != nil {
		return nil, err
	}
	if partial {
		return []core.BatchOption{core.AllowPartial()}, nil
	}
	return nil, nil
}

type validatable[T any] interface {
	*T
	Validate(validate *validator.Validate) error
}

// validateEach validates every item of a batch. Field errors are prefixed with the item index.
func validateEach[T any, PT validatable[T]](items []T, validate *validator.Validate, translator ut.Translator) error {
	if len(items) == 0 {
		return core.NewValidationError(errors.New("at least one record is required"))
	}
	for i := range items {
		err := core.TranslateValidationErrors(PT(&items[i]).Validate(validate), translator)
		if err == nil {
			continue
		}
		var vErr *core.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		flds := make([]core.FieldError, 0, len(vErr.Fields))
		for _, fld := range vErr.Fields {
			flds = append(flds, core.FieldError{Field: fmt.Sprintf("%d.%s", i, fld.Field), Error: fld.Error})
		}
		if len(flds) == 0 {
			flds = append(flds, core.FieldError{Field: fmt.Sprint(i), Error: vErr.Error()})
		}
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

type batchResponse struct {
	Created interface{} `json:"created"`
	Error   string      `json:"error,omitempty"`
	Failed  int         `json:"failed"`
	Total   int         `json:"total"`
}

// batchCreated responds to a batch write: 201 when every record was written,
// 207 with the written records and the first failure when a partial batch was requested.
func batchCreated(ctx echo.Context, created interface{}, total int, err error, opts []core.BatchOption) error {
	if err == nil {
		return ctx.JSON(http.StatusCreated, batchResponse{Created: created, Total: total})
	}
	var pErr *core.PartialFailure
	if !core.PartialAllowed(opts) || !errors.As(err, &pErr) {
		return err
	}
	return ctx.JSON(http.StatusMultiStatus, batchResponse{
		Created: created,
		Error:   pErr.Message,
		Failed:  pErr.Failed,
		Total:   pErr.Total,
	})
}
