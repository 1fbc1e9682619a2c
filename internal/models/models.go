package models

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
	ProjectStatusDraft    ProjectStatus = "draft"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
	TaskStatusOnHold     TaskStatus = "on_hold"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type StoryStatus string

const (
	StoryStatusBacklog    StoryStatus = "backlog"
	StoryStatusInProgress StoryStatus = "in_progress"
	StoryStatusReview     StoryStatus = "review"
	StoryStatusDone       StoryStatus = "done"
)

type SprintStatus string

const (
	SprintStatusPlanned   SprintStatus = "planned"
	SprintStatusActive    SprintStatus = "active"
	SprintStatusCompleted SprintStatus = "completed"
)

type ActiveState string

const (
	ActiveStateActive   ActiveState = "active"
	ActiveStateInactive ActiveState = "inactive"
)

type Project struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status" gorm:"default:'active'"`
	Assignee    string        `json:"assignee"`
	OwnerID     uint          `json:"owner_id"`
	TeamID      *uint         `json:"team_id"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	DeletedAt   *time.Time    `json:"deleted_at" gorm:"index"`
	Tasks       []Task        `json:"tasks,omitempty" gorm:"foreignKey:ProjectID"`
	Sprints     []Sprint      `json:"sprints,omitempty" gorm:"foreignKey:ProjectID"`
	Owner       *User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Team        *Team         `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Members     []User        `json:"members,omitempty" gorm:"many2many:project_members;"`
}

type Task struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	ProjectID     uint             `json:"project_id" gorm:"not null"`
	StoryID       *uint            `json:"story_id,omitempty"`
	SprintID      *uint            `json:"sprint_id,omitempty"`
	Title         string           `json:"title" gorm:"not null"`
	Description   string           `json:"description"`
	Status        TaskStatus       `json:"status" gorm:"default:'todo'"`
	Priority      TaskPriority     `json:"priority" gorm:"default:'medium'"`
	Assignee      string           `json:"assignee"`
	AssignedUsers StringList       `json:"assigned_users,omitempty" gorm:"type:text"`
	AssignedTeams StringList       `json:"assigned_teams,omitempty" gorm:"type:text"`
	Tags          StringList       `json:"tags,omitempty" gorm:"type:text"`
	StoryPoints   *int             `json:"story_points"`
	DueDate       *time.Time       `json:"due_date,omitempty"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
	CreatedBy     uint             `json:"created_by"`
	UpdatedBy     *uint            `json:"updated_by"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     *time.Time       `json:"deleted_at" gorm:"index"`
	Project       *Project         `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Story         *Story           `json:"story,omitempty" gorm:"foreignKey:StoryID"`
	Sprint        *Sprint          `json:"sprint,omitempty" gorm:"foreignKey:SprintID"`
	Creator       *User            `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Comments      []Comment        `json:"comments,omitempty" gorm:"foreignKey:TaskID"`
	Attachments   []Attachment     `json:"attachments,omitempty" gorm:"foreignKey:TaskID"`
	Dependencies  []TaskDependency `json:"dependencies,omitempty" gorm:"foreignKey:TaskID"`
}

type Company struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"not null"`
	Description string       `json:"description"`
	Tags        StringList   `json:"tags,omitempty" gorm:"type:text"`
	Active      ActiveState  `json:"active" gorm:"default:'active'"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DeletedAt   *time.Time   `json:"deleted_at" gorm:"index"`
	Departments []Department `json:"departments,omitempty" gorm:"foreignKey:CompanyID"`
}

type Department struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	CompanyID   uint        `json:"company_id" gorm:"not null"`
	Name        string      `json:"name" gorm:"not null"`
	Description string      `json:"description"`
	Tags        StringList  `json:"tags,omitempty" gorm:"type:text"`
	Active      ActiveState `json:"active" gorm:"default:'active'"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	DeletedAt   *time.Time  `json:"deleted_at" gorm:"index"`
	Company     *Company    `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Teams       []Team      `json:"teams,omitempty" gorm:"foreignKey:DepartmentID"`
}

type Team struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	DepartmentID *uint       `json:"department_id"`
	Name         string      `json:"name" gorm:"not null"`
	Description  string      `json:"description"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Members      []User      `json:"members,omitempty" gorm:"many2many:team_members;"`
}

type Sprint struct {
	ID                 uint         `json:"id" gorm:"primaryKey"`
	ProjectID          uint         `json:"project_id" gorm:"not null"`
	TeamID             *uint        `json:"team_id"`
	Name               string       `json:"name" gorm:"not null"`
	Goal               string       `json:"goal"`
	StartDate          time.Time    `json:"start_date"`
	EndDate            time.Time    `json:"end_date"`
	Status             SprintStatus `json:"status" gorm:"default:'planned'"`
	Velocity           int          `json:"velocity"`
	RetrospectiveNotes string       `json:"retrospective_notes"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
	Project            *Project     `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Team               *Team        `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	Stories            []Story      `json:"stories,omitempty" gorm:"foreignKey:SprintID"`
}

type Story struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	SprintID    *uint        `json:"sprint_id"`
	ProjectID   uint         `json:"project_id" gorm:"not null"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Status      StoryStatus  `json:"status" gorm:"default:'backlog'"`
	Priority    TaskPriority `json:"priority" gorm:"default:'medium'"`
	StoryPoints *int         `json:"story_points"`
	Tags        StringList   `json:"tags,omitempty" gorm:"type:text"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Sprint      *Sprint      `json:"sprint,omitempty" gorm:"foreignKey:SprintID"`
	Project     *Project     `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	Tasks       []Task       `json:"tasks,omitempty" gorm:"foreignKey:StoryID"`
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	Author    string    `json:"author" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	Task      *Task     `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}

type Attachment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"task_id" gorm:"not null"`
	Filename  string    `json:"filename" gorm:"not null"`
	Path      string    `json:"path" gorm:"not null"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type"`
	CreatedAt time.Time `json:"created_at"`
	Task      *Task     `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}

type TaskDependency struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	TaskID      uint   `json:"task_id" gorm:"not null"`
	DependsOnID uint   `json:"depends_on_id" gorm:"not null"`
	Type        string `json:"type" gorm:"default:'finish_to_start'"`
	Task        *Task  `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	DependsOn   *Task  `json:"depends_on,omitempty" gorm:"foreignKey:DependsOnID"`
}

type Webhook struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID *uint     `json:"project_id"`
	URL       string    `json:"url" gorm:"not null"`
	Events    string    `json:"events"` // comma-separated, e.g. "task.created,task.updated"
	Secret    string    `json:"secret,omitempty"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscribesTo reports whether the webhook wants the given event. An empty
// or "*" event list subscribes to everything.
func (w *Webhook) SubscribesTo(event string) bool {
	if w.Events == "" || w.Events == "*" {
		return true
	}
	for _, e := range strings.Split(w.Events, ",") {
		if strings.TrimSpace(e) == event {
			return true
		}
	}
	return false
}
