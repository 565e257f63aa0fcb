package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestStoreErrorHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "permission denied maps to access rule hint",
			err:  mongo.CommandError{Code: 13, Message: "not authorized on notedeck"},
			want: "permission denied",
		},
		{
			name: "missing index maps to index hint",
			err:  mongo.CommandError{Code: 291, Message: "error processing query"},
			want: "no usable index",
		},
		{
			name: "wrapped command error still matches",
			err:  fmt.Errorf("apply updates: %w", mongo.CommandError{Code: 13}),
			want: "permission denied",
		},
		{
			name: "unknown error surfaces verbatim",
			err:  errors.New("connection reset by peer"),
			want: "connection reset by peer",
		},
		{
			name: "unknown command error surfaces verbatim",
			err:  mongo.CommandError{Code: 11000, Message: "duplicate key"},
			want: "duplicate key",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StoreErrorHint(tc.err)
			if tc.want == "" {
				if got != "" {
					t.Errorf("StoreErrorHint() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tc.want) {
				t.Errorf("StoreErrorHint() = %q, want substring %q", got, tc.want)
			}
		})
	}
}
