package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_WorkedExample(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Colombo")
	require.NoError(t, err)
	start := time.Date(2025, 3, 10, 8, 10, 0, 0, loc)
	end := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)

	w := DefaultWindow
	assert.Equal(t, 20, w.MorningOvertime(start))
	assert.Equal(t, 30, w.EveningOvertime(end))
	assert.Equal(t, 540, w.RegularMinutes(start, end))

	totals := w.CloseDay(start, end, 20)
	assert.Equal(t, DayTotals{RegularMinutes: 540, MorningOTMinutes: 20, EveningOTMinutes: 30}, totals)
}

func TestWindow_NoOvertimeInsideWindow(t *testing.T) {
	w := DefaultWindow
	start := at(8, 30)
	end := at(17, 30)
	assert.Zero(t, w.MorningOvertime(start))
	assert.Zero(t, w.EveningOvertime(end))
	assert.Equal(t, 540, w.RegularMinutes(start, end))

	assert.Zero(t, w.MorningOvertime(at(9, 15)))
	assert.Equal(t, 315, w.RegularMinutes(at(9, 15), at(14, 30)))
}

func TestWindow_RegularMinutesOutsideWindow(t *testing.T) {
	w := DefaultWindow
	assert.Zero(t, w.RegularMinutes(at(18, 0), at(19, 0)))
	assert.Zero(t, w.RegularMinutes(at(6, 0), at(8, 0)))
	assert.Equal(t, 60, w.EveningOvertime(at(18, 30)))
	assert.Equal(t, 150, w.MorningOvertime(at(6, 0)))
}

func TestWindow_Validate(t *testing.T) {
	assert.NoError(t, DefaultWindow.Validate())
	assert.Error(t, Window{StartHour: 17, EndHour: 8}.Validate())
	assert.Error(t, Window{StartHour: 8, StartMinute: 60, EndHour: 17}.Validate())
}

func TestCheckDayClosable(t *testing.T) {
	assert.NoError(t, CheckDayClosable(nil))
	assert.NoError(t, CheckDayClosable([]OpenCard{
		{TicketNumber: "TKT-1", Status: StatusCompleted},
		{TicketNumber: "TKT-2", Status: StatusCancel},
	}))

	err := CheckDayClosable([]OpenCard{
		{TicketNumber: "TKT-1", Status: StatusCompleted},
		{TicketNumber: "TKT-2", Status: StatusPending},
		{TicketNumber: "TKT-3", Status: StatusOnHold},
		{TicketNumber: "TKT-2", Status: StatusTraveling},
	})
	require.ErrorIs(t, err, ErrOpenTicketsRemain)

	var open *OpenTicketsError
	require.ErrorAs(t, err, &open)
	assert.Equal(t, []string{"TKT-2", "TKT-3"}, open.TicketNumbers)
	assert.Equal(t, "TKT-2, TKT-3", open.Detail())
}

func TestCheckScorable_Order(t *testing.T) {
	end := at(10, 25)
	ok := ScoreCandidate{Status: StatusCompleted, Approved: true, EndTime: &end}
	assert.NoError(t, CheckScorable(ok))

	c := ok
	c.Status = StatusStarted
	c.Approved = false
	assert.ErrorIs(t, CheckScorable(c), ErrNotCompleted)

	c = ok
	c.Approved = false
	c.HasScore = true
	assert.ErrorIs(t, CheckScorable(c), ErrNotApproved)

	c = ok
	c.HasScore = true
	c.EndTime = nil
	assert.ErrorIs(t, CheckScorable(c), ErrAlreadyScored)

	c = ok
	c.EndTime = nil
	assert.ErrorIs(t, CheckScorable(c), ErrMissingEndTime)
}

func TestCheckApprovable(t *testing.T) {
	assert.NoError(t, CheckApprovable(StatusCompleted))
	assert.ErrorIs(t, CheckApprovable(StatusStarted), ErrNotCompleted)
}

func TestValidateWeight(t *testing.T) {
	assert.NoError(t, ValidateWeight(1))
	assert.NoError(t, ValidateWeight(5))
	assert.ErrorIs(t, ValidateWeight(0), ErrInvalidWeight)
	assert.ErrorIs(t, ValidateWeight(6), ErrInvalidWeight)
}
