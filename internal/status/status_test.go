package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/circdesk/circdesk/internal/batch"
	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
)

func TestProject(t *testing.T) {
	gateway := &library.OperationError{Message: "SSN already exists", Kind: library.KindRejected, Status: 409}

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"gateway verbatim", gateway, "SSN already exists"},
		{"wrapped gateway", fmt.Errorf("borrowers: %w", gateway), "SSN already exists"},
		{"validation", &desk.ValidationError{Message: "Card number is required to pay fines."}, "Card number is required to pay fines."},
		{"structural", &batch.Error{Kind: batch.Structural, Sent: 3, Got: 2, Err: batch.ErrCountMismatch}, StructuralMessage},
		{"transport", &batch.Error{Kind: batch.Transport, Sent: 1, Err: gateway}, "SSN already exists"},
		{"empty selection", batch.ErrEmpty, "Nothing selected"},
		{"blank gateway message", &library.OperationError{}, GenericMessage},
		{"foreign", errors.New("dial tcp 127.0.0.1:5000: connect: connection refused"), GenericMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Project(tc.err))
		})
	}
}

func TestTracker_Lifecycle(t *testing.T) {
	var tr Tracker
	const act Action = "register"

	assert.Equal(t, Idle, tr.Line(act).State)

	tr.Start(act, "Creating borrower...")
	assert.Equal(t, Running, tr.Line(act).State)
	assert.True(t, tr.Busy())

	tr.Fail(act, &library.OperationError{Message: "SSN already exists"})
	line := tr.Line(act)
	assert.Equal(t, Failed, line.State)
	assert.Equal(t, "SSN already exists", line.Text)
	assert.False(t, tr.Busy())

	// Retrying passes through Running again.
	tr.Start(act, "Creating borrower...")
	assert.Equal(t, Running, tr.Line(act).State)
	tr.Succeed(act, "Created borrower ID000042.", "borrowers refresh failed: Request failed")
	line = tr.Line(act)
	assert.Equal(t, Succeeded, line.State)
	assert.Equal(t, "borrowers refresh failed: Request failed", line.Warning)

	tr.Reset(act)
	assert.Equal(t, Line{}, tr.Line(act))
}

func TestTracker_OverlappingInvocationsLastResolvedWins(t *testing.T) {
	var tr Tracker
	const act Action = "checkin"

	tr.Start(act, "Checking in...")
	tr.Start(act, "Checking in...")
	assert.Equal(t, 2, tr.Line(act).InFlight)

	tr.Succeed(act, "Checked in loan 1.")
	assert.True(t, tr.Busy())
	tr.Fail(act, errors.New("boom"))

	line := tr.Line(act)
	assert.Equal(t, Failed, line.State)
	assert.Equal(t, GenericMessage, line.Text)
	assert.Zero(t, line.InFlight)
}

func TestTracker_Partial(t *testing.T) {
	var tr Tracker
	tr.Start("batch", "Processing batch...")
	tr.Partial("batch", "2 succeeded, 1 failed", true, []string{"Y: Book is already on loan"})
	line := tr.Line("batch")
	assert.Equal(t, Succeeded, line.State)
	assert.Equal(t, "2 succeeded, 1 failed", line.Text)
	assert.Equal(t, []string{"Y: Book is already on loan"}, line.Details)

	tr.Start("batch", "Processing batch...")
	tr.Partial("batch", "0 succeeded, 2 failed", false, nil)
	assert.Equal(t, Failed, tr.Line("batch").State)
}
