package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/trackboard/trackboard/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	*gorm.DB
	eventCallback func(event string, entityType string, entityID uint)
}

func NewDatabase(dataDir string) (*Database, error) {
	dbPath := filepath.Join(dataDir, "db", "trackboard.db")

	// Ensure the db directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		// Core entities
		&models.User{},
		&models.Company{},
		&models.Department{},
		&models.Team{},
		&models.Project{},
		&models.Sprint{},
		&models.Story{},
		&models.Task{},
		&models.TaskDependency{},
		&models.Comment{},
		&models.Attachment{},
		&models.Webhook{},

		// Auth entities
		&models.RefreshToken{},
		&models.APIToken{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{DB: db}, nil
}

// SetEventCallback registers a hook invoked after entity mutations, used to
// fan events out to registered webhooks.
func (db *Database) SetEventCallback(callback func(event string, entityType string, entityID uint)) {
	db.eventCallback = callback
}

func (db *Database) emit(event, entityType string, entityID uint) {
	if db.eventCallback != nil {
		db.eventCallback(event, entityType, entityID)
	}
}

// Projects

func (db *Database) CreateProject(project *models.Project) error {
	if err := db.Create(project).Error; err != nil {
		return err
	}
	db.emit("project.created", "project", project.ID)
	return nil
}

func (db *Database) GetProject(id uint) (*models.Project, error) {
	var project models.Project
	err := db.Preload("Tasks").Preload("Sprints").First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (db *Database) GetProjectByName(name string) (*models.Project, error) {
	var project models.Project
	err := db.Where("name = ?", name).Preload("Tasks").First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (db *Database) ListProjects(status *models.ProjectStatus) ([]models.Project, error) {
	var projects []models.Project
	query := db.DB
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Preload("Tasks").Preload("Sprints").Find(&projects).Error
	return projects, err
}

func (db *Database) UpdateProject(project *models.Project) error {
	if err := db.Save(project).Error; err != nil {
		return err
	}
	db.emit("project.updated", "project", project.ID)
	return nil
}

func (db *Database) DeleteProject(id uint) error {
	// All dependent rows go in one transaction
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec(`
		DELETE FROM task_dependencies
		WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)
		OR depends_on_id IN (SELECT id FROM tasks WHERE project_id = ?)
	`, id, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("task_id IN (SELECT id FROM tasks WHERE project_id = ?)", id).
		Delete(&models.Comment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("task_id IN (SELECT id FROM tasks WHERE project_id = ?)", id).
		Delete(&models.Attachment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("project_id = ?", id).Delete(&models.Story{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("project_id = ?", id).Delete(&models.Sprint{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&models.Project{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	db.emit("project.deleted", "project", id)
	return nil
}

// Tasks

func (db *Database) CreateTask(task *models.Task) error {
	task.Status = models.ParseTaskStatus(string(task.Status))
	task.Priority = models.ParsePriority(string(task.Priority))
	if err := db.Create(task).Error; err != nil {
		return err
	}
	db.emit("task.created", "task", task.ID)
	return nil
}

func (db *Database) GetTask(id uint) (*models.Task, error) {
	var task models.Task
	err := db.Preload("Project").
		Preload("Story").
		Preload("Comments").
		Preload("Attachments").
		Preload("Dependencies").
		First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// TaskQuery narrows ListTasks; nil fields are unrestricted.
type TaskQuery struct {
	ProjectID *uint
	SprintID  *uint
	StoryID   *uint
	Status    *models.TaskStatus
	Assignee  string
}

func (db *Database) ListTasks(q TaskQuery) ([]models.Task, error) {
	var tasks []models.Task
	query := db.DB

	if q.ProjectID != nil {
		query = query.Where("project_id = ?", *q.ProjectID)
	}
	if q.SprintID != nil {
		query = query.Where("sprint_id = ?", *q.SprintID)
	}
	if q.StoryID != nil {
		query = query.Where("story_id = ?", *q.StoryID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", models.ParseTaskStatus(string(*q.Status)))
	}
	if q.Assignee != "" {
		query = query.Where("assignee = ?", q.Assignee)
	}

	err := query.Preload("Project").Find(&tasks).Error
	return tasks, err
}

func (db *Database) UpdateTask(task *models.Task) error {
	task.Status = models.ParseTaskStatus(string(task.Status))
	task.Priority = models.ParsePriority(string(task.Priority))
	if err := db.Save(task).Error; err != nil {
		return err
	}
	db.emit("task.updated", "task", task.ID)
	return nil
}

func (db *Database) DeleteTask(id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("task_id = ? OR depends_on_id = ?", id, id).
		Delete(&models.TaskDependency{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&models.Task{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}
	db.emit("task.deleted", "task", id)
	return nil
}

func (db *Database) AddComment(comment *models.Comment) error {
	return db.Create(comment).Error
}

func (db *Database) AddAttachment(attachment *models.Attachment) error {
	return db.Create(attachment).Error
}

// Task dependencies

func (db *Database) CreateTaskDependency(dep *models.TaskDependency) error {
	if dep.TaskID == dep.DependsOnID {
		return fmt.Errorf("task cannot depend on itself")
	}
	var count int64
	db.Model(&models.TaskDependency{}).
		Where("task_id = ? AND depends_on_id = ?", dep.TaskID, dep.DependsOnID).
		Count(&count)
	if count > 0 {
		return fmt.Errorf("dependency already exists")
	}
	return db.Create(dep).Error
}

func (db *Database) GetTaskDependencies(taskID uint) ([]models.TaskDependency, error) {
	var deps []models.TaskDependency
	err := db.Where("task_id = ?", taskID).Preload("DependsOn").Find(&deps).Error
	return deps, err
}

func (db *Database) DeleteTaskDependency(id uint) error {
	return db.Delete(&models.TaskDependency{}, id).Error
}

// Companies

func (db *Database) CreateCompany(company *models.Company) error {
	if err := db.Create(company).Error; err != nil {
		return err
	}
	db.emit("company.created", "company", company.ID)
	return nil
}

func (db *Database) GetCompany(id uint) (*models.Company, error) {
	var company models.Company
	err := db.Preload("Departments").Preload("Departments.Teams").First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (db *Database) ListCompanies() ([]models.Company, error) {
	var companies []models.Company
	err := db.Preload("Departments").Find(&companies).Error
	return companies, err
}

func (db *Database) UpdateCompany(company *models.Company) error {
	if err := db.Save(company).Error; err != nil {
		return err
	}
	db.emit("company.updated", "company", company.ID)
	return nil
}

func (db *Database) DeleteCompany(id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("company_id = ?", id).Delete(&models.Department{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Company{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	db.emit("company.deleted", "company", id)
	return nil
}

// Departments

func (db *Database) CreateDepartment(department *models.Department) error {
	return db.Create(department).Error
}

func (db *Database) GetDepartment(id uint) (*models.Department, error) {
	var department models.Department
	err := db.Preload("Teams").Preload("Company").First(&department, id).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (db *Database) ListDepartments(companyID *uint) ([]models.Department, error) {
	var departments []models.Department
	query := db.DB
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	err := query.Preload("Teams").Find(&departments).Error
	return departments, err
}

func (db *Database) UpdateDepartment(department *models.Department) error {
	return db.Save(department).Error
}

func (db *Database) DeleteDepartment(id uint) error {
	return db.Delete(&models.Department{}, id).Error
}

// Teams

func (db *Database) CreateTeam(team *models.Team) error {
	return db.Create(team).Error
}

func (db *Database) GetTeam(id uint) (*models.Team, error) {
	var team models.Team
	err := db.Preload("Members").First(&team, id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (db *Database) ListTeams(departmentID *uint) ([]models.Team, error) {
	var teams []models.Team
	query := db.DB
	if departmentID != nil {
		query = query.Where("department_id = ?", *departmentID)
	}
	err := query.Preload("Members").Find(&teams).Error
	return teams, err
}

func (db *Database) UpdateTeam(team *models.Team) error {
	return db.Save(team).Error
}

func (db *Database) DeleteTeam(id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Exec("DELETE FROM team_members WHERE team_id = ?", id).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Team{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// Users

func (db *Database) GetUser(id uint) (*models.User, error) {
	var user models.User
	err := db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Database) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Database) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Database) ListUsers() ([]models.User, error) {
	var users []models.User
	err := db.Where("is_active = ?", true).Find(&users).Error
	return users, err
}

func (db *Database) CreateUser(user *models.User) error {
	return db.Create(user).Error
}

func (db *Database) UpdateUser(user *models.User) error {
	return db.Save(user).Error
}

// Sprints

func (db *Database) CreateSprint(sprint *models.Sprint) error {
	sprint.Status = models.ParseSprintStatus(string(sprint.Status))
	return db.Create(sprint).Error
}

func (db *Database) GetSprint(id uint) (*models.Sprint, error) {
	var sprint models.Sprint
	err := db.Preload("Stories").Preload("Stories.Tasks").First(&sprint, id).Error
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (db *Database) ListSprints(projectID *uint, status *models.SprintStatus) ([]models.Sprint, error) {
	var sprints []models.Sprint
	query := db.DB
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if status != nil {
		query = query.Where("status = ?", models.ParseSprintStatus(string(*status)))
	}
	err := query.Preload("Stories").Find(&sprints).Error
	return sprints, err
}

func (db *Database) UpdateSprint(sprint *models.Sprint) error {
	sprint.Status = models.ParseSprintStatus(string(sprint.Status))
	return db.Save(sprint).Error
}

func (db *Database) DeleteSprint(id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	// Stories and tasks survive the sprint; they just lose the link.
	if err := tx.Model(&models.Story{}).Where("sprint_id = ?", id).
		Update("sprint_id", nil).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&models.Task{}).Where("sprint_id = ?", id).
		Update("sprint_id", nil).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Sprint{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// Stories

func (db *Database) CreateStory(story *models.Story) error {
	story.Status = models.ParseStoryStatus(string(story.Status))
	story.Priority = models.ParsePriority(string(story.Priority))
	return db.Create(story).Error
}

func (db *Database) GetStory(id uint) (*models.Story, error) {
	var story models.Story
	err := db.Preload("Tasks").Preload("Sprint").First(&story, id).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

func (db *Database) ListStories(projectID, sprintID *uint) ([]models.Story, error) {
	var stories []models.Story
	query := db.DB
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	if sprintID != nil {
		query = query.Where("sprint_id = ?", *sprintID)
	}
	err := query.Preload("Tasks").Find(&stories).Error
	return stories, err
}

func (db *Database) UpdateStory(story *models.Story) error {
	story.Status = models.ParseStoryStatus(string(story.Status))
	story.Priority = models.ParsePriority(string(story.Priority))
	return db.Save(story).Error
}

func (db *Database) DeleteStory(id uint) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Model(&models.Task{}).Where("story_id = ?", id).
		Update("story_id", nil).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Story{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// Webhooks

func (db *Database) ListActiveWebhooks(event string) ([]models.Webhook, error) {
	var webhooks []models.Webhook
	err := db.Where("is_active = ?", true).Find(&webhooks).Error
	if err != nil {
		return nil, err
	}
	matched := webhooks[:0]
	for _, w := range webhooks {
		if w.SubscribesTo(event) {
			matched = append(matched, w)
		}
	}
	return matched, nil
}

func (db *Database) CreateWebhook(webhook *models.Webhook) error {
	return db.Create(webhook).Error
}

func (db *Database) GetWebhook(id uint) (*models.Webhook, error) {
	var webhook models.Webhook
	err := db.First(&webhook, id).Error
	if err != nil {
		return nil, err
	}
	return &webhook, nil
}

func (db *Database) ListWebhooks() ([]models.Webhook, error) {
	var webhooks []models.Webhook
	err := db.Find(&webhooks).Error
	return webhooks, err
}

func (db *Database) UpdateWebhook(webhook *models.Webhook) error {
	return db.Save(webhook).Error
}

func (db *Database) DeleteWebhook(id uint) error {
	return db.Delete(&models.Webhook{}, id).Error
}
