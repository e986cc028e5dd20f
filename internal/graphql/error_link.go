package graphql

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrorLink logs the outcome of every operation without altering it.
// A transport failure produces one record; each application error produces
// one record carrying its message, location and path. Application errors in
// the body of a failed response (e.g. a 403) are logged as well.
func ErrorLink(logger logrus.FieldLogger) Link {
	return func(next Handler) Handler {
		return func(ctx context.Context, op *Operation) (*Response, error) {
			resp, err := next(ctx, op)

			entry := logger.WithFields(logrus.Fields{
				"operation_id":   op.ID,
				"operation_name": op.Name,
			})
			var gqlErrs Errors
			if resp != nil {
				gqlErrs = resp.Errors
			}
			var netErr *NetworkError
			if errors.As(err, &netErr) && netErr.Result != nil && len(gqlErrs) == 0 {
				gqlErrs = netErr.Result.Errors
			}

			for _, gqlErr := range gqlErrs {
				entry.Errorf("[GraphQL error]: Message: %s, Location: %s, Path: %s",
					gqlErr.Message, gqlErr.LocationString(), gqlErr.PathString())
			}
			if err != nil {
				entry.WithError(err).Errorf("[Network error]: %v", err)
			}
			return resp, err
		}
	}
}
