// Command seed fills a fresh database with demo data so the dashboard has
// something to show on first run.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
	"github.com/trackboard/trackboard/pkg/auth"
	"github.com/trackboard/trackboard/pkg/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to optional config file (env vars take precedence)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	db, err := database.NewDatabase(cfg.Database.DataDir)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	var count int64
	db.Model(&models.Project{}).Count(&count)
	if count > 0 {
		log.Println("Database already has projects, skipping seed")
		return
	}

	admin := seedUsers(db)
	company := seedOrg(db)
	project := seedProject(db, admin, company)
	seedAgile(db, project)

	log.Println("Seed complete")
}

func seedUsers(db *database.Database) *models.User {
	hashed, err := auth.HashPassword("changeme123")
	if err != nil {
		log.Fatal("Failed to hash password: ", err)
	}

	users := []models.User{
		{Email: "admin@trackboard.local", Username: "admin", Password: hashed, FirstName: "Ada", LastName: "Admin", Role: models.UserRoleAdmin, IsActive: true},
		{Email: "jordan@trackboard.local", Username: "jordan", Password: hashed, FirstName: "Jordan", LastName: "Reyes", Role: models.UserRoleManager, IsActive: true},
		{Email: "sam@trackboard.local", Username: "sam", Password: hashed, FirstName: "Sam", LastName: "Okafor", Role: models.UserRoleMember, IsActive: true},
		{Email: "lee@trackboard.local", Username: "lee", Password: hashed, FirstName: "Lee", LastName: "Tanaka", Role: models.UserRoleMember, IsActive: true},
	}
	for i := range users {
		if err := db.CreateUser(&users[i]); err != nil {
			log.Fatal("Failed to create user: ", err)
		}
	}
	log.Printf("Created %d users (password: changeme123)", len(users))
	return &users[0]
}

func seedOrg(db *database.Database) *models.Company {
	company := &models.Company{
		Name:        "Acme Systems",
		Description: "Demo company",
		Active:      models.ActiveStateActive,
		Tags:        models.StringList{"demo"},
	}
	if err := db.CreateCompany(company); err != nil {
		log.Fatal("Failed to create company: ", err)
	}

	engineering := &models.Department{
		CompanyID: company.ID,
		Name:      "Engineering",
		Active:    models.ActiveStateActive,
	}
	if err := db.CreateDepartment(engineering); err != nil {
		log.Fatal("Failed to create department: ", err)
	}

	platform := &models.Team{
		DepartmentID: &engineering.ID,
		Name:         "Platform",
		Description:  "Backend and infrastructure",
	}
	if err := db.CreateTeam(platform); err != nil {
		log.Fatal("Failed to create team: ", err)
	}

	return company
}

func seedProject(db *database.Database, owner *models.User, _ *models.Company) *models.Project {
	project := &models.Project{
		Name:        "Website Redesign",
		Description: "Refresh the marketing site and dashboard",
		Status:      models.ProjectStatusActive,
		OwnerID:     owner.ID,
	}
	if err := db.CreateProject(project); err != nil {
		log.Fatal("Failed to create project: ", err)
	}

	now := time.Now()
	statuses := []models.TaskStatus{
		models.TaskStatusCompleted,
		models.TaskStatusCompleted,
		models.TaskStatusInProgress,
		models.TaskStatusInProgress,
		models.TaskStatusReview,
		models.TaskStatusTodo,
		models.TaskStatusTodo,
		models.TaskStatusOnHold,
	}
	priorities := []models.TaskPriority{
		models.TaskPriorityHigh, models.TaskPriorityMedium, models.TaskPriorityLow,
	}
	assignees := []string{"jordan", "sam", "lee"}
	titles := []string{
		"Audit current landing pages",
		"Draft new information architecture",
		"Build component library",
		"Implement dashboard charts",
		"Migrate blog content",
		"Set up preview deployments",
		"Accessibility pass",
		"Launch checklist",
	}

	for i, title := range titles {
		due := now.AddDate(0, 0, i-2)
		task := &models.Task{
			ProjectID: project.ID,
			Title:     title,
			Status:    statuses[i%len(statuses)],
			Priority:  priorities[i%len(priorities)],
			Assignee:  assignees[i%len(assignees)],
			Tags:      models.StringList{"redesign"},
			DueDate:   &due,
			CreatedBy: owner.ID,
		}
		if task.Status == models.TaskStatusCompleted {
			completed := now.AddDate(0, 0, -i)
			task.CompletedAt = &completed
		}
		if err := db.CreateTask(task); err != nil {
			log.Fatal("Failed to create task: ", err)
		}
	}
	log.Printf("Created project %q with %d tasks", project.Name, len(titles))
	return project
}

func seedAgile(db *database.Database, project *models.Project) {
	now := time.Now()
	sprint := &models.Sprint{
		ProjectID: project.ID,
		Name:      "Sprint 1",
		Goal:      "Ship the new dashboard",
		StartDate: now.AddDate(0, 0, -7),
		EndDate:   now.AddDate(0, 0, 7),
		Status:    models.SprintStatusActive,
	}
	if err := db.CreateSprint(sprint); err != nil {
		log.Fatal("Failed to create sprint: ", err)
	}

	points := []int{3, 5, 8}
	stories := []models.Story{
		{ProjectID: project.ID, SprintID: &sprint.ID, Title: "Dashboard overview page", Status: models.StoryStatusInProgress, Priority: models.TaskPriorityHigh, StoryPoints: &points[2]},
		{ProjectID: project.ID, SprintID: &sprint.ID, Title: "Filter bar", Status: models.StoryStatusBacklog, Priority: models.TaskPriorityMedium, StoryPoints: &points[1]},
		{ProjectID: project.ID, Title: "Email digests", Status: models.StoryStatusBacklog, Priority: models.TaskPriorityLow, StoryPoints: &points[0]},
	}
	for i := range stories {
		if err := db.CreateStory(&stories[i]); err != nil {
			log.Fatal("Failed to create story: ", err)
		}
	}
	log.Printf("Created sprint %q with %d stories", sprint.Name, len(stories))
}
