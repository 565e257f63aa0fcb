package usecase

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo server error codes the hint mapping cares about.
const (
	codeUnauthorized         = 13
	codeNoQueryExecutionPlan = 291
)

// StoreErrorHint maps a persistence failure to the message shown to the user.
// Known failure classes get an actionable hint; anything else surfaces the
// store's raw message verbatim.
func StoreErrorHint(err error) string {
	if err == nil {
		return ""
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case codeUnauthorized:
			return "permission denied by the store: check that the access rules allow the signed-in user to read and write their own notes"
		case codeNoQueryExecutionPlan:
			return "the notes query has no usable index: create the uid/pinned/sortIndex index"
		}
	}

	return err.Error()
}
