package store

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/TommySini/college-admissions-activities-verifier-sub000/internal/errs"
)

// readError maps a Firestore read failure to a typed error.
func readError(err error, what string) error {
	if status.Code(err) == codes.NotFound {
		return errs.NewNotFoundError(what + " not found")
	}
	return errs.NewDatabaseError("read", "failed to get "+what, err)
}
