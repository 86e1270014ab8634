package apperr

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "deadline", err: errors.Wrap(context.DeadlineExceeded, "find"), want: codes.Unavailable},
		{name: "tagged unavailable", err: Unavailable(errors.New("dial tcp: refused")), want: codes.Unavailable},
		{name: "canceled", err: context.Canceled, want: codes.Canceled},
		{name: "other", err: errors.New("boom"), want: codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(FromStore("op", tt.err)))
		})
	}
	assert.NoError(t, FromStore("op", nil))
}
