package delivery

import (
	"errors"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {

	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

func mapErrorToStatus(err error) int {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, domain.ErrInvalidPostalCode),
		errors.Is(err, domain.ErrAddressRequired),
		errors.Is(err, domain.ErrShippingRequired),
		errors.Is(err, domain.ErrUnknownShippingMethod),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidPaymentMethod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPostalCodeNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCheckoutClosed),
		errors.Is(err, domain.ErrCheckoutOpen),
		errors.Is(err, domain.ErrNothingToRefresh),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrShippingUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrLookupFailed),
		errors.Is(err, domain.ErrPaymentFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError logs err once and writes the envelope. Validation failures
// carry their field list in Data so the form can show inline messages.
func respondError(c *gin.Context, log *logrus.Logger, action string, err error) {
	statusCode := mapErrorToStatus(err)
	if statusCode >= http.StatusInternalServerError {
		log.Errorf("%s: %v", action, err)
	} else {
		log.Warnf("%s: %v", action, err)
	}

	var verrs domain.ValidationErrors
	var unavailable *domain.ShippingUnavailableError
	switch {
	case errors.As(err, &verrs):
		c.JSON(statusCode, Response{Status: "Fail", Message: action + ": validation failed", Data: verrs})
	case errors.As(err, &unavailable):
		c.JSON(statusCode, Response{Status: "Fail", Message: unavailable.Error(), Data: gin.H{"contact": unavailable.Contact}})
	case statusCode == http.StatusInternalServerError:
		ErrorResponse(c, statusCode, action+": internal error")
	default:
		ErrorResponse(c, statusCode, action+": "+err.Error())
	}
}
