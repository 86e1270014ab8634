package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const internalMessage = "internal error"

var httpStatus = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.NotFound:           http.StatusNotFound,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.FailedPrecondition: http.StatusConflict,
	codes.AlreadyExists:      http.StatusConflict,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DeadlineExceeded:   http.StatusServiceUnavailable,
	codes.Canceled:           499,
}

// StatusCode maps a service error to its HTTP status. Anything unclassified is a 500.
func StatusCode(err error) int {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if code, ok := httpStatus[st.Code()]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// WriteError writes {"error": msg}. Internal failures are logged and never shown to the client.
func WriteError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[lowerFirst(fe.Field())] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		log.WithError(err).WithField("rid", RID(c)).Error("[http] internal error")
		c.JSON(code, gin.H{"error": internalMessage})
		return
	}
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		msg = st.Message()
	}
	c.JSON(code, gin.H{"error": msg})
}

// BadRequest reports a malformed body or parameter.
func BadRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
