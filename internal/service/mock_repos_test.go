package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/repository"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/clock"
	pkgerrors "github.com/isira-aw/Metropolitan-NEW-EMS/pkg/errors"
)

// memDB is the shared state behind every mock repository. Rows are stored
// by value and copied on the way out so services cannot mutate them
// without calling the repository.
type memDB struct {
	seq int

	users      map[string]model.User
	generators map[string]model.Generator
	tickets    map[string]model.Ticket
	cards      map[string]model.JobCard
	cardOrder  []string
	assigns    []model.TicketAssignment
	events     []model.StatusEvent
	days       map[string]model.AttendanceDay
	scores     map[string]model.Score
	activity   []model.ActivityLog
}

func newMemDB() *memDB {
	return &memDB{
		users:      make(map[string]model.User),
		generators: make(map[string]model.Generator),
		tickets:    make(map[string]model.Ticket),
		cards:      make(map[string]model.JobCard),
		days:       make(map[string]model.AttendanceDay),
		scores:     make(map[string]model.Score),
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%03d", prefix, db.seq)
}

// newMockRepository builds an aggregate without a database; Transaction
// runs its callback inline.
func newMockRepository() (*repository.Repository, *memDB) {
	db := newMemDB()
	return &repository.Repository{
		User:        &mockUserRepo{db},
		Generator:   &mockGeneratorRepo{db},
		Ticket:      &mockTicketRepo{db},
		Assignment:  &mockAssignmentRepo{db},
		JobCard:     &mockJobCardRepo{db},
		StatusEvent: &mockStatusEventRepo{db},
		Attendance:  &mockAttendanceRepo{db},
		Score:       &mockScoreRepo{db},
		Activity:    &mockActivityRepo{db},
	}, db
}

// ── preload helpers ──

func (db *memDB) userPtr(id string) *model.User {
	u, ok := db.users[id]
	if !ok {
		return nil
	}
	return &u
}

func (db *memDB) ticketWithGenerator(id string) *model.Ticket {
	t, ok := db.tickets[id]
	if !ok {
		return nil
	}
	if g, ok := db.generators[t.GeneratorID]; ok {
		t.Generator = &g
	}
	t.JobCards = nil
	return &t
}

func (db *memDB) loadedCard(c model.JobCard) model.JobCard {
	c.Ticket = db.ticketWithGenerator(c.TicketID)
	c.Worker = db.userPtr(c.WorkerID)
	return c
}

func (db *memDB) orderedCards() []model.JobCard {
	out := make([]model.JobCard, 0, len(db.cardOrder))
	for _, id := range db.cardOrder {
		if c, ok := db.cards[id]; ok {
			out = append(out, db.loadedCard(c))
		}
	}
	return out
}

func dayKey(workerID string, date time.Time) string {
	return workerID + "|" + clock.FormatDate(date)
}

// ── Mock UserRepository ──

type mockUserRepo struct{ db *memDB }

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.db.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.UserID == "" {
		u.UserID = m.db.nextID("user")
	}
	m.db.users[u.UserID] = *u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u := m.db.userPtr(id); u != nil {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.db.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) LockByID(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := m.db.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) List(_ context.Context, role string, _ repository.Page) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.db.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) SetActive(_ context.Context, id string, active bool, updatedBy string) error {
	u, ok := m.db.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsActive = active
	u.UpdatedBy = model.StringPtr(updatedBy)
	m.db.users[id] = u
	return nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string, activeOnly bool) (int64, error) {
	var n int64
	for _, u := range m.db.users {
		if u.Role == role && (!activeOnly || u.IsActive) {
			n++
		}
	}
	return n, nil
}

// ── Mock GeneratorRepository ──

type mockGeneratorRepo struct{ db *memDB }

func (m *mockGeneratorRepo) Create(_ context.Context, g *model.Generator) error {
	if g.GeneratorID == "" {
		g.GeneratorID = m.db.nextID("gen")
	}
	m.db.generators[g.GeneratorID] = *g
	return nil
}

func (m *mockGeneratorRepo) GetByID(_ context.Context, id string) (*model.Generator, error) {
	if g, ok := m.db.generators[id]; ok {
		return &g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGeneratorRepo) Update(_ context.Context, g *model.Generator) error {
	m.db.generators[g.GeneratorID] = *g
	return nil
}

func (m *mockGeneratorRepo) Delete(_ context.Context, id string) error {
	delete(m.db.generators, id)
	return nil
}

func (m *mockGeneratorRepo) List(_ context.Context, name string, _ repository.Page) ([]model.Generator, int64, error) {
	var out []model.Generator
	for _, g := range m.db.generators {
		if name == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(name)) {
			out = append(out, g)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockGeneratorRepo) ListByIDs(_ context.Context, ids []string) ([]model.Generator, error) {
	var out []model.Generator
	for _, id := range ids {
		if g, ok := m.db.generators[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// ── Mock TicketRepository ──

type mockTicketRepo struct{ db *memDB }

func (m *mockTicketRepo) Create(_ context.Context, t *model.Ticket) error {
	if t.TicketID == "" {
		t.TicketID = m.db.nextID("ticket")
	}
	row := *t
	row.Generator, row.JobCards = nil, nil
	m.db.tickets[t.TicketID] = row
	return nil
}

func (m *mockTicketRepo) GetByID(_ context.Context, id string) (*model.Ticket, error) {
	t := m.db.ticketWithGenerator(id)
	if t == nil {
		return nil, gorm.ErrRecordNotFound
	}
	for _, c := range m.db.orderedCards() {
		if c.TicketID == id {
			c.Ticket = nil
			t.JobCards = append(t.JobCards, c)
		}
	}
	return t, nil
}

func (m *mockTicketRepo) GetForUpdate(_ context.Context, id string) (*model.Ticket, error) {
	t, ok := m.db.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (m *mockTicketRepo) Update(_ context.Context, t *model.Ticket) error {
	cur, ok := m.db.tickets[t.TicketID]
	if !ok || cur.Version != t.Version {
		return pkgerrors.ErrOptimisticLock
	}
	t.Version++
	row := *t
	row.Status = cur.Status
	row.Generator, row.JobCards = nil, nil
	m.db.tickets[t.TicketID] = row
	return nil
}

func (m *mockTicketRepo) SetStatus(_ context.Context, id string, status lifecycle.Status, updatedBy string) error {
	t, ok := m.db.tickets[id]
	if !ok {
		return nil
	}
	t.Status = status
	t.Version++
	if updatedBy != "" {
		t.UpdatedBy = model.StringPtr(updatedBy)
	}
	m.db.tickets[id] = t
	return nil
}

// Delete cascades to assignments like the foreign key does.
func (m *mockTicketRepo) Delete(_ context.Context, id string) error {
	delete(m.db.tickets, id)
	kept := m.db.assigns[:0]
	for _, a := range m.db.assigns {
		if a.TicketID != id {
			kept = append(kept, a)
		}
	}
	m.db.assigns = kept
	return nil
}

func (m *mockTicketRepo) List(_ context.Context, f repository.TicketFilter, _ repository.Page) ([]model.Ticket, int64, error) {
	var out []model.Ticket
	for id, t := range m.db.tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.GeneratorID != "" && t.GeneratorID != f.GeneratorID {
			continue
		}
		if f.From != nil && t.ScheduledDate.Before(*f.From) {
			continue
		}
		if f.To != nil && t.ScheduledDate.After(*f.To) {
			continue
		}
		out = append(out, *m.db.ticketWithGenerator(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketNumber < out[j].TicketNumber })
	return out, int64(len(out)), nil
}

func (m *mockTicketRepo) ListByIDs(_ context.Context, ids []string) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, id := range ids {
		if t := m.db.ticketWithGenerator(id); t != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTicketRepo) CountByGenerator(_ context.Context, generatorID string) (int64, error) {
	var n int64
	for _, t := range m.db.tickets {
		if t.GeneratorID == generatorID {
			n++
		}
	}
	return n, nil
}

func (m *mockTicketRepo) CountByStatus(_ context.Context, from, to *time.Time) (map[lifecycle.Status]int64, error) {
	out := make(map[lifecycle.Status]int64)
	for _, t := range m.db.tickets {
		if from != nil && t.ScheduledDate.Before(*from) {
			continue
		}
		if to != nil && t.ScheduledDate.After(*to) {
			continue
		}
		out[t.Status]++
	}
	return out, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct{ db *memDB }

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.TicketAssignment) error {
	for _, existing := range m.db.assigns {
		if existing.TicketID == a.TicketID && existing.WorkerID == a.WorkerID {
			return gorm.ErrDuplicatedKey
		}
	}
	a.AssignmentID = m.db.nextID("assign")
	m.db.assigns = append(m.db.assigns, *a)
	return nil
}

func (m *mockAssignmentRepo) ListByTicket(_ context.Context, ticketID string) ([]model.TicketAssignment, error) {
	var out []model.TicketAssignment
	for _, a := range m.db.assigns {
		if a.TicketID == ticketID {
			a.Worker = m.db.userPtr(a.WorkerID)
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, ticketID, workerID string) error {
	kept := m.db.assigns[:0]
	for _, a := range m.db.assigns {
		if a.TicketID != ticketID || a.WorkerID != workerID {
			kept = append(kept, a)
		}
	}
	m.db.assigns = kept
	return nil
}

// ── Mock JobCardRepository ──

type mockJobCardRepo struct{ db *memDB }

func (m *mockJobCardRepo) Create(_ context.Context, c *model.JobCard) error {
	if c.JobCardID == "" {
		c.JobCardID = m.db.nextID("card")
	}
	row := *c
	row.Ticket, row.Worker = nil, nil
	m.db.cards[c.JobCardID] = row
	m.db.cardOrder = append(m.db.cardOrder, c.JobCardID)
	return nil
}

func (m *mockJobCardRepo) GetByID(_ context.Context, id string) (*model.JobCard, error) {
	c, ok := m.db.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	loaded := m.db.loadedCard(c)
	return &loaded, nil
}

func (m *mockJobCardRepo) GetForUpdate(ctx context.Context, id string) (*model.JobCard, error) {
	return m.GetByID(ctx, id)
}

func (m *mockJobCardRepo) GetByTicketAndWorker(_ context.Context, ticketID, workerID string) (*model.JobCard, error) {
	for _, c := range m.db.orderedCards() {
		if c.TicketID == ticketID && c.WorkerID == workerID {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockJobCardRepo) ListByTicket(_ context.Context, ticketID string) ([]model.JobCard, error) {
	var out []model.JobCard
	for _, c := range m.db.orderedCards() {
		if c.TicketID == ticketID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockJobCardRepo) ListForWorkerOnDate(_ context.Context, workerID string, date time.Time) ([]model.JobCard, error) {
	var out []model.JobCard
	for _, c := range m.db.orderedCards() {
		if c.WorkerID == workerID && c.Ticket != nil && clock.SameDate(c.Ticket.ScheduledDate, date) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockJobCardRepo) match(f repository.JobCardFilter) []model.JobCard {
	var out []model.JobCard
	for _, c := range m.db.orderedCards() {
		if f.WorkerID != "" && c.WorkerID != f.WorkerID {
			continue
		}
		if f.TicketID != "" && c.TicketID != f.TicketID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Approved != nil && c.Approved != *f.Approved {
			continue
		}
		if c.Ticket != nil {
			d := c.Ticket.ScheduledDate
			if f.Date != nil && !clock.SameDate(d, *f.Date) {
				continue
			}
			if f.From != nil && d.Before(*f.From) {
				continue
			}
			if f.To != nil && d.After(*f.To) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func (m *mockJobCardRepo) List(_ context.Context, f repository.JobCardFilter, _ repository.Page) ([]model.JobCard, int64, error) {
	out := m.match(f)
	return out, int64(len(out)), nil
}

func (m *mockJobCardRepo) Count(_ context.Context, f repository.JobCardFilter) (int64, error) {
	return int64(len(m.match(f))), nil
}

func (m *mockJobCardRepo) ListPendingApproval(_ context.Context, _ repository.Page) ([]model.JobCard, int64, error) {
	no := false
	out := m.match(repository.JobCardFilter{Status: lifecycle.StatusCompleted, Approved: &no})
	return out, int64(len(out)), nil
}

func (m *mockJobCardRepo) ListApprovedUnscored(_ context.Context) ([]model.JobCard, error) {
	yes := true
	var out []model.JobCard
	for _, c := range m.match(repository.JobCardFilter{Status: lifecycle.StatusCompleted, Approved: &yes}) {
		scored := false
		for _, s := range m.db.scores {
			if s.JobCardID == c.JobCardID {
				scored = true
			}
		}
		if !scored {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockJobCardRepo) ListByStatus(_ context.Context, status lifecycle.Status) ([]model.JobCard, error) {
	return m.match(repository.JobCardFilter{Status: status}), nil
}

func (m *mockJobCardRepo) ListStartedBetween(_ context.Context, workerID string, from, to time.Time) ([]model.JobCard, error) {
	var out []model.JobCard
	for _, c := range m.db.orderedCards() {
		if workerID != "" && c.WorkerID != workerID {
			continue
		}
		if c.StartTime == nil || c.StartTime.Before(from) || !c.StartTime.Before(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockJobCardRepo) Update(_ context.Context, c *model.JobCard) error {
	row, ok := m.db.cards[c.JobCardID]
	if !ok {
		return nil
	}
	row.Status = c.Status
	row.StartTime = c.StartTime
	row.EndTime = c.EndTime
	row.Approved = c.Approved
	row.WorkMinutes = c.WorkMinutes
	row.UpdatedBy = c.UpdatedBy
	m.db.cards[c.JobCardID] = row
	return nil
}

func (m *mockJobCardRepo) SetImage(_ context.Context, id, ref, updatedBy string) error {
	row := m.db.cards[id]
	row.ImageRef = &ref
	row.UpdatedBy = model.StringPtr(updatedBy)
	m.db.cards[id] = row
	return nil
}

func (m *mockJobCardRepo) SetWorkMinutes(_ context.Context, id string, minutes int) error {
	row := m.db.cards[id]
	row.WorkMinutes = minutes
	m.db.cards[id] = row
	return nil
}

func (m *mockJobCardRepo) Delete(_ context.Context, id string) error {
	delete(m.db.cards, id)
	return nil
}

// ── Mock StatusEventRepository ──

type mockStatusEventRepo struct{ db *memDB }

func (m *mockStatusEventRepo) Append(_ context.Context, e *model.StatusEvent) error {
	e.EventID = int64(len(m.db.events) + 1)
	m.db.events = append(m.db.events, *e)
	return nil
}

func (m *mockStatusEventRepo) ListByJobCard(_ context.Context, jobCardID string) ([]model.StatusEvent, error) {
	var out []model.StatusEvent
	for _, e := range m.db.events {
		if e.JobCardID == jobCardID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].LoggedAt.Before(out[j].LoggedAt)
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}

func (m *mockStatusEventRepo) ListByJobCards(ctx context.Context, ids []string) (map[string][]model.StatusEvent, error) {
	out := make(map[string][]model.StatusEvent, len(ids))
	for _, id := range ids {
		events, _ := m.ListByJobCard(ctx, id)
		if len(events) > 0 {
			out[id] = events
		}
	}
	return out, nil
}

func (m *mockStatusEventRepo) CountByJobCard(ctx context.Context, jobCardID string) (int64, error) {
	events, _ := m.ListByJobCard(ctx, jobCardID)
	return int64(len(events)), nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct{ db *memDB }

func (m *mockAttendanceRepo) Create(_ context.Context, d *model.AttendanceDay) error {
	key := dayKey(d.WorkerID, d.WorkDate)
	if _, ok := m.db.days[key]; ok {
		return gorm.ErrDuplicatedKey
	}
	if d.AttendanceID == "" {
		d.AttendanceID = m.db.nextID("day")
	}
	m.db.days[key] = *d
	return nil
}

func (m *mockAttendanceRepo) GetByWorkerAndDate(_ context.Context, workerID string, date time.Time) (*model.AttendanceDay, error) {
	d, ok := m.db.days[dayKey(workerID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d.Worker = m.db.userPtr(workerID)
	return &d, nil
}

func (m *mockAttendanceRepo) GetByWorkerAndDateForUpdate(ctx context.Context, workerID string, date time.Time) (*model.AttendanceDay, error) {
	return m.GetByWorkerAndDate(ctx, workerID, date)
}

func (m *mockAttendanceRepo) Close(_ context.Context, d *model.AttendanceDay) error {
	key := dayKey(d.WorkerID, d.WorkDate)
	row, ok := m.db.days[key]
	if !ok || row.DayEnd != nil {
		return nil
	}
	row.DayEnd = d.DayEnd
	row.RegularMinutes = d.RegularMinutes
	row.EveningOTMinutes = d.EveningOTMinutes
	row.UpdatedBy = d.UpdatedBy
	m.db.days[key] = row
	return nil
}

func (m *mockAttendanceRepo) ListRange(_ context.Context, workerID string, from, to time.Time) ([]model.AttendanceDay, error) {
	var out []model.AttendanceDay
	for _, d := range m.db.days {
		if workerID != "" && d.WorkerID != workerID {
			continue
		}
		if d.WorkDate.Before(from) || d.WorkDate.After(to) {
			continue
		}
		d.Worker = m.db.userPtr(d.WorkerID)
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].WorkDate.Equal(out[j].WorkDate) {
			return out[i].WorkDate.Before(out[j].WorkDate)
		}
		return out[i].DayStart.Before(out[j].DayStart)
	})
	return out, nil
}

func (m *mockAttendanceRepo) ListByDate(ctx context.Context, date time.Time) ([]model.AttendanceDay, error) {
	return m.ListRange(ctx, "", date, date)
}

// ── Mock ScoreRepository ──

type mockScoreRepo struct{ db *memDB }

func (m *mockScoreRepo) Create(_ context.Context, s *model.Score) error {
	for _, existing := range m.db.scores {
		if existing.JobCardID == s.JobCardID {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ScoreID == "" {
		s.ScoreID = m.db.nextID("score")
	}
	m.db.scores[s.ScoreID] = *s
	return nil
}

func (m *mockScoreRepo) GetByID(_ context.Context, id string) (*model.Score, error) {
	if s, ok := m.db.scores[id]; ok {
		return &s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScoreRepo) GetByJobCard(_ context.Context, jobCardID string) (*model.Score, error) {
	for _, s := range m.db.scores {
		if s.JobCardID == jobCardID {
			s := s
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScoreRepo) ExistsForJobCard(ctx context.Context, jobCardID string) (bool, error) {
	_, err := m.GetByJobCard(ctx, jobCardID)
	return err == nil, nil
}

func (m *mockScoreRepo) Update(_ context.Context, s *model.Score) error {
	m.db.scores[s.ScoreID] = *s
	return nil
}

func (m *mockScoreRepo) Delete(_ context.Context, id string) error {
	delete(m.db.scores, id)
	return nil
}

func (m *mockScoreRepo) match(f repository.ScoreFilter) []model.Score {
	var out []model.Score
	for _, s := range m.db.scores {
		if f.WorkerID != "" && s.WorkerID != f.WorkerID {
			continue
		}
		if f.TicketID != "" && m.db.cards[s.JobCardID].TicketID != f.TicketID {
			continue
		}
		if f.From != nil && s.WorkDate.Before(*f.From) {
			continue
		}
		if f.To != nil && s.WorkDate.After(*f.To) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScoreID < out[j].ScoreID })
	return out
}

func (m *mockScoreRepo) List(_ context.Context, f repository.ScoreFilter, _ repository.Page) ([]model.Score, int64, error) {
	out := m.match(f)
	return out, int64(len(out)), nil
}

func (m *mockScoreRepo) TotalsByWorker(_ context.Context, f repository.ScoreFilter) ([]repository.ScoreTotal, error) {
	byWorker := make(map[string]*repository.ScoreTotal)
	var order []string
	for _, s := range m.match(f) {
		t, ok := byWorker[s.WorkerID]
		if !ok {
			t = &repository.ScoreTotal{WorkerID: s.WorkerID}
			byWorker[s.WorkerID] = t
			order = append(order, s.WorkerID)
		}
		t.Total += int64(s.Weight)
		t.Count++
	}
	out := make([]repository.ScoreTotal, 0, len(order))
	for _, id := range order {
		out = append(out, *byWorker[id])
	}
	return out, nil
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct{ db *memDB }

func (m *mockActivityRepo) Create(_ context.Context, a *model.ActivityLog) error {
	a.ActivityID = int64(len(m.db.activity) + 1)
	m.db.activity = append(m.db.activity, *a)
	return nil
}

func (m *mockActivityRepo) List(_ context.Context, f repository.ActivityFilter, _ repository.Page) ([]model.ActivityLog, int64, error) {
	var out []model.ActivityLog
	for _, a := range m.db.activity {
		if f.WorkerID != "" && deref(a.WorkerID) != f.WorkerID {
			continue
		}
		if f.ActivityType != "" && a.ActivityType != f.ActivityType {
			continue
		}
		if f.From != nil && a.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !a.CreatedAt.Before(*f.To) {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

// activityTypes lists the recorded activity types in order.
func (db *memDB) activityTypes() []string {
	out := make([]string, 0, len(db.activity))
	for _, a := range db.activity {
		out = append(out, a.ActivityType)
	}
	return out
}
