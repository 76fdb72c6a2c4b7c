package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{err: nil, want: ""},
		{err: ErrSubmissionNotFound, want: KindNotFound},
		{err: fmt.Errorf("load: %w", ErrAssignmentNotFound), want: KindNotFound},
		{err: ErrNoReviewersAvailable, want: KindNoReviewersAvailable},
		{err: ErrNoPendingWork, want: KindNoPendingWork},
		{err: ErrDuplicateAssignment, want: KindDuplicateAssignment},
		{err: fmt.Errorf("%w: start time must be before end time", ErrInvalidSessionInput), want: KindValidation},
		{err: ErrInvalidEventWindow, want: KindValidation},
		{err: ErrGenerationConflict, want: KindConflict},
		{err: errors.New("connection reset"), want: KindInternal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.err), "%v", tc.err)
	}
}
