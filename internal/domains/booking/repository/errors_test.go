package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/booking/model"
)

func TestClassifyInsertError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "code collision maps to retryable error",
			err:  &pq.Error{Code: "23505", Constraint: "bookings_code_key"},
			want: ErrCodeTaken,
		},
		{
			name: "other unique violation maps to room unavailable",
			err:  &pq.Error{Code: "23505", Constraint: "bookings_pkey"},
			want: model.ErrRoomUnavailable,
		},
		{
			name: "exclusion violation maps to room unavailable",
			err:  &pq.Error{Code: "23P01", Constraint: "bookings_room_no_overlap"},
			want: model.ErrRoomUnavailable,
		},
		{
			name: "serialization failure maps to room unavailable",
			err:  &pq.Error{Code: "40001"},
			want: model.ErrRoomUnavailable,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.ErrorIs(t, classifyInsertError(test.err), test.want)
		})
	}
}

func TestClassifyInsertErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("connection reset")

	err := classifyInsertError(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrCodeTaken)
	assert.NotErrorIs(t, err, model.ErrRoomUnavailable)
}

func TestClassifyInsertErrorWrappedPqError(t *testing.T) {
	// pq errors surface wrapped by the generic insert helper; errors.As must
	// still find them.
	cause := &pq.Error{Code: "23P01"}

	err := classifyInsertError(fmt.Errorf("failed to insert data (booking): %w", cause))

	assert.ErrorIs(t, err, model.ErrRoomUnavailable)
}
