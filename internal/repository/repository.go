package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the aggregate entry point to every table.
type Repository struct {
	db *gorm.DB

	User        UserRepository
	Generator   GeneratorRepository
	Ticket      TicketRepository
	Assignment  AssignmentRepository
	JobCard     JobCardRepository
	StatusEvent StatusEventRepository
	Attendance  AttendanceRepository
	Score       ScoreRepository
	Activity    ActivityRepository
}

// NewRepository builds the aggregate on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		User:        NewUserRepo(db),
		Generator:   NewGeneratorRepo(db),
		Ticket:      NewTicketRepo(db),
		Assignment:  NewAssignmentRepo(db),
		JobCard:     NewJobCardRepo(db),
		StatusEvent: NewStatusEventRepo(db),
		Attendance:  NewAttendanceRepo(db),
		Score:       NewScoreRepo(db),
		Activity:    NewActivityRepo(db),
	}
}

// WithTx returns a copy of the aggregate bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction runs fn inside one database transaction. Every repository on
// the *Repository handed to fn shares that transaction. An aggregate built
// without a database (test doubles) runs fn directly.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// forUpdate is SELECT ... FOR UPDATE. Only meaningful inside Transaction.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Page is an offset/limit window.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	return db
}

// BeginTx starts a transaction for callers that need to manage it by hand.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}
