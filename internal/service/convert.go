package service

import (
	"time"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
)

// ── model → dto ──
// Timestamps are rendered in the business zone.

func inZone(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.UserID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func userBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{ID: u.UserID, Username: u.Username, FullName: u.FullName}
}

func generatorBrief(g *model.Generator) *dto.GeneratorBrief {
	if g == nil {
		return nil
	}
	return &dto.GeneratorBrief{ID: g.GeneratorID, Name: g.Name, Model: g.Model, LocationName: g.LocationName}
}

func toGeneratorResponse(g *model.Generator) dto.GeneratorResponse {
	return dto.GeneratorResponse{
		ID:             g.GeneratorID,
		Model:          g.Model,
		Name:           g.Name,
		Capacity:       g.Capacity,
		LocationName:   g.LocationName,
		OwnerEmail:     g.OwnerEmail,
		WhatsAppNumber: g.WhatsAppNumber,
		LandlineNumber: g.LandlineNumber,
		Note:           g.Note,
		CreatedAt:      g.CreatedAt,
	}
}

func toTicketResponse(t *model.Ticket, loc *time.Location) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:            t.TicketID,
		TicketNumber:  t.TicketNumber,
		Generator:     generatorBrief(t.Generator),
		Title:         t.Title,
		Description:   t.Description,
		Category:      t.Category,
		Weight:        t.Weight,
		Status:        t.Status.String(),
		ScheduledDate: clock.FormatDate(t.ScheduledDate),
		ScheduledTime: t.ScheduledTime,
		CreatedBy:     deref(t.CreatedBy),
		CreatedAt:     t.CreatedAt.In(loc),
		Version:       t.Version,
	}
	for i := range t.JobCards {
		resp.JobCards = append(resp.JobCards, toJobCardResponse(&t.JobCards[i], loc))
	}
	return resp
}

func toJobCardResponse(c *model.JobCard, loc *time.Location) dto.JobCardResponse {
	resp := dto.JobCardResponse{
		ID:          c.JobCardID,
		TicketID:    c.TicketID,
		Worker:      userBrief(c.Worker),
		Status:      c.Status.String(),
		StartTime:   inZone(c.StartTime, loc),
		EndTime:     inZone(c.EndTime, loc),
		Approved:    c.Approved,
		WorkMinutes: c.WorkMinutes,
		ImageRef:    deref(c.ImageRef),
	}
	if t := c.Ticket; t != nil {
		resp.TicketNumber = t.TicketNumber
		resp.Title = t.Title
		resp.Weight = t.Weight
		resp.ScheduledDate = clock.FormatDate(t.ScheduledDate)
		resp.ScheduledTime = t.ScheduledTime
		resp.Generator = generatorBrief(t.Generator)
	}
	return resp
}

func toEventResponse(e *model.StatusEvent, loc *time.Location) dto.StatusEventResponse {
	resp := dto.StatusEventResponse{
		ID:         e.EventID,
		ActorID:    e.ActorID,
		PrevStatus: e.PrevStatus.String(),
		NewStatus:  e.NewStatus.String(),
		Latitude:   e.Latitude,
		Longitude:  e.Longitude,
		LoggedAt:   e.LoggedAt.In(loc),
	}
	if e.Latitude != nil && e.Longitude != nil {
		resp.MapsURL = lifecycle.MapsURL(*e.Latitude, *e.Longitude)
	}
	return resp
}

func toAttendanceResponse(a *model.AttendanceDay, loc *time.Location) *dto.AttendanceDayResponse {
	if a == nil {
		return nil
	}
	return &dto.AttendanceDayResponse{
		ID:               a.AttendanceID,
		Worker:           userBrief(a.Worker),
		WorkDate:         clock.FormatDate(a.WorkDate),
		DayStart:         a.DayStart.In(loc),
		DayEnd:           inZone(a.DayEnd, loc),
		RegularMinutes:   a.RegularMinutes,
		MorningOTMinutes: a.MorningOTMinutes,
		EveningOTMinutes: a.EveningOTMinutes,
		TotalOTMinutes:   a.TotalOTMinutes(),
	}
}

func toScoreResponse(s *model.Score, loc *time.Location) dto.ScoreResponse {
	resp := dto.ScoreResponse{
		ID:         s.ScoreID,
		JobCardID:  s.JobCardID,
		Worker:     userBrief(s.Worker),
		WorkerID:   s.WorkerID,
		WorkDate:   clock.FormatDate(s.WorkDate),
		Weight:     s.Weight,
		ApprovedBy: s.ApprovedBy,
		ApprovedAt: s.ApprovedAt.In(loc),
	}
	if s.JobCard != nil && s.JobCard.Ticket != nil {
		resp.TicketNumber = s.JobCard.Ticket.TicketNumber
	}
	return resp
}

func toActivityResponse(a *model.ActivityLog, loc *time.Location) dto.ActivityResponse {
	resp := dto.ActivityResponse{
		ID:          a.ActivityID,
		Type:        a.ActivityType,
		Performer:   userBrief(a.Performer),
		Worker:      userBrief(a.Worker),
		TicketID:    deref(a.TicketID),
		JobCardID:   deref(a.JobCardID),
		GeneratorID: deref(a.GeneratorID),
		OldStatus:   a.OldStatus,
		NewStatus:   a.NewStatus,
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
		Details:     a.Details,
		CreatedAt:   a.CreatedAt.In(loc),
	}
	if a.Latitude != nil && a.Longitude != nil {
		resp.MapsURL = lifecycle.MapsURL(*a.Latitude, *a.Longitude)
	}
	return resp
}

// ── request parsing ──

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := clock.ParseDate(s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &d, nil
}

// parseRange parses an inclusive date range. Missing ends are left nil.
func parseRange(from, to string) (*time.Time, *time.Time, error) {
	f, err := parseOptionalDate(from)
	if err != nil {
		return nil, nil, err
	}
	t, err := parseOptionalDate(to)
	if err != nil {
		return nil, nil, err
	}
	if f != nil && t != nil && f.After(*t) {
		return nil, nil, ErrInvalidDateRange
	}
	return f, t, nil
}

// dayBounds is the [start, end) instant range of a civil date in loc.
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
