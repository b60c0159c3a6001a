package takeoutserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	addressapp "github.com/Apurer/go-gin-takeout-api/internal/domains/addressbook/application"
	cartapp "github.com/Apurer/go-gin-takeout-api/internal/domains/cart/application"
	catalogapp "github.com/Apurer/go-gin-takeout-api/internal/domains/catalog/application"
	ordersapp "github.com/Apurer/go-gin-takeout-api/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-takeout-api/internal/shared/errors"
	"github.com/Apurer/go-gin-takeout-api/internal/shared/identity"
)

// problems translates application sentinels into RFC 7807 responses. The
// first matching mapper wins, so the more specific families come first.
var problems = apierrors.NewChainedResponder("",
	apierrors.Matching(apierrors.ErrUnauthorized,
		identity.ErrUnauthenticated,
		identity.ErrInvalidToken,
	),
	apierrors.Matching(apierrors.ErrUnprocessable,
		ordersapp.ErrEmptyCart,
		ordersapp.ErrAddressNotFound,
		ordersapp.ErrInvalidInput,
		cartapp.ErrInvalidSelection,
		cartapp.ErrItemNotFound,
		catalogapp.ErrInvalidInput,
		addressapp.ErrInvalidInput,
	),
	apierrors.Matching(apierrors.ErrConflict,
		ordersapp.ErrInvalidStatusForCancel,
		ordersapp.ErrInvalidStatusForReject,
		ordersapp.ErrInvalidStatusForPayment,
		catalogapp.ErrSetmealEnableFailed,
	),
	apierrors.Matching(apierrors.ErrNotFound,
		ordersapp.ErrOrderNotFound,
		catalogapp.ErrNotFound,
		addressapp.ErrNotFound,
	),
)

// respondServiceError renders any error returned by an application service.
func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problems.RespondError(c, err)
}

// respondError is used for transport failures the handler detects itself.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	case http.StatusTooManyRequests:
		problem = apierrors.ErrTooManyRequests.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	problems.Respond(c, problem)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errInvalidID(name))
		return 0, false
	}
	return id, true
}

type errInvalidID string

func (e errInvalidID) Error() string {
	return string(e) + " must be a positive integer"
}
