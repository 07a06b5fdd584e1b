package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/mesapos/mesa/internal/order"
	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/promo"
	"github.com/mesapos/mesa/internal/transaction"
)

// writeError maps domain errors onto HTTP status codes. Everything in the
// pricing/order taxonomy is a recoverable operator-facing condition; only
// infrastructure failures become 500s.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var (
		magnitudeErr *pricing.InvalidMagnitudeError
		unknownErr   *pricing.UnknownItemError
		quantityErr  *order.InvalidQuantityError
		stockErr     *order.InsufficientStockError
		headroomErr  *order.NoHeadroomError
		dupErr       *order.DuplicatePromoError
		unapplErr    *order.UnapplicablePromoError
		rangeErr     *order.IndexOutOfRangeError
		paymentErr   *transaction.InvalidPaymentMethodError
	)
	switch {
	case errors.As(err, &magnitudeErr),
		errors.As(err, &quantityErr),
		errors.As(err, &paymentErr):
		status = http.StatusBadRequest
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, promo.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &dupErr):
		status = http.StatusConflict
	case errors.As(err, &unknownErr),
		errors.As(err, &stockErr),
		errors.As(err, &headroomErr),
		errors.As(err, &unapplErr),
		errors.As(err, &rangeErr):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		err = errors.New("internal error")
	}

	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(err.Error())
	e.ObjEnd()
	writeJSON(w, status, e)
}

// writeBadRequest reports malformed request payloads.
func writeBadRequest(w http.ResponseWriter, message string) {
	e := &jx.Encoder{}
	e.ObjStart()
	e.FieldStart("code")
	e.Int(http.StatusBadRequest)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, http.StatusBadRequest, e)
}
