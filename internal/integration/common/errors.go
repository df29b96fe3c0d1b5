package common

import (
	"errors"

	"github.com/futig/medi-assistant/internal/entity"
	pkgHTTP "github.com/futig/medi-assistant/pkg/http"
)

// Classify wraps an error from pkg/http into an entity.ServiceError. Bodies that
// could not be decoded are malformed responses; everything else (network,
// timeouts, non-2xx, open breaker) is a transport failure.
func Classify(service string, err error) error {
	if err == nil {
		return nil
	}

	var se *entity.ServiceError
	if errors.As(err, &se) {
		return err
	}

	var decodeErr *pkgHTTP.DecodeError
	if errors.As(err, &decodeErr) {
		return entity.NewServiceError(service, entity.FailureMalformedResponse, err)
	}

	return entity.NewServiceError(service, entity.FailureTransport, err)
}

// Malformed reports a 2xx response that is unusable.
func Malformed(service string, err error) error {
	return entity.NewServiceError(service, entity.FailureMalformedResponse, err)
}
