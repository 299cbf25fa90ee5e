package model

import (
	"time"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/lifecycle"
)

// Ticket categories.
const (
	CategoryService     = "SERVICE"
	CategoryRepair      = "REPAIR"
	CategoryMaintenance = "MAINTENANCE"
	CategoryVisit       = "VISIT"
	CategoryEmergency   = "EMERGENCY"
)

// Categories lists the accepted ticket categories.
var Categories = []string{CategoryService, CategoryRepair, CategoryMaintenance, CategoryVisit, CategoryEmergency}

// Ticket is a unit of requested work against a generator. Status is derived
// from the job cards except when an administrator cancels the ticket.
type Ticket struct {
	TicketID      string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ticket_id"`
	TicketNumber  string           `gorm:"type:varchar(20);not null;uniqueIndex"          json:"ticket_number"`
	GeneratorID   string           `gorm:"type:uuid;not null;index"                       json:"generator_id"`
	Title         string           `gorm:"type:varchar(200);not null"                     json:"title"`
	Description   string           `gorm:"type:text"                                      json:"description"`
	Category      string           `gorm:"type:varchar(20);not null"                      json:"category"`
	Weight        int              `gorm:"not null"                                       json:"weight"`
	Status        lifecycle.Status `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	ScheduledDate time.Time        `gorm:"type:date;not null;index"                       json:"scheduled_date"`
	ScheduledTime string           `gorm:"type:varchar(5)"                                json:"scheduled_time"` // HH:MM
	VersionedModel

	Generator *Generator `gorm:"foreignKey:GeneratorID;references:GeneratorID" json:"generator,omitempty"`
	JobCards  []JobCard  `gorm:"foreignKey:TicketID;references:TicketID"       json:"job_cards,omitempty"`
}

// TableName tickets
func (Ticket) TableName() string { return "tickets" }

// TicketAssignment records which workers a ticket was given to.
type TicketAssignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	TicketID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_assignment"   json:"ticket_id"`
	WorkerID     string    `gorm:"type:uuid;not null;uniqueIndex:uq_assignment"   json:"worker_id"`
	AssignedBy   *string   `gorm:"type:uuid"                                      json:"assigned_by,omitempty"`
	AssignedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"assigned_at"`

	Worker *User `gorm:"foreignKey:WorkerID;references:UserID" json:"worker,omitempty"`
}

// TableName ticket_assignments
func (TicketAssignment) TableName() string { return "ticket_assignments" }
