package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackboard/trackboard/internal/models"
)

func setupTestDB(t *testing.T) *Database {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	return db
}

func createTestProject(t *testing.T, db *Database, name string) *models.Project {
	project := &models.Project{Name: name, Status: models.ProjectStatusActive}
	require.NoError(t, db.CreateProject(project))
	return project
}

func createTestTask(t *testing.T, db *Database, projectID uint, title string) *models.Task {
	task := &models.Task{ProjectID: projectID, Title: title}
	require.NoError(t, db.CreateTask(task))
	return task
}

func TestTaskStatusNormalizedOnWrite(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Normalization")

	task := &models.Task{
		ProjectID: project.ID,
		Title:     "Mixed vocabulary",
		Status:    models.TaskStatus("To Do"),
		Priority:  models.TaskPriority("HIGH"),
	}
	require.NoError(t, db.CreateTask(task))

	got, err := db.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusTodo, got.Status)
	assert.Equal(t, models.TaskPriorityHigh, got.Priority)

	got.Status = models.TaskStatus("Done")
	require.NoError(t, db.UpdateTask(got))

	got, err = db.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, got.Status)
}

func TestTaskDependencyRules(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Dependencies")
	task1 := createTestTask(t, db, project.ID, "Task 1")
	task2 := createTestTask(t, db, project.ID, "Task 2")

	// Self-dependency is rejected
	err := db.CreateTaskDependency(&models.TaskDependency{TaskID: task1.ID, DependsOnID: task1.ID})
	assert.Error(t, err)

	dep := &models.TaskDependency{TaskID: task2.ID, DependsOnID: task1.ID}
	require.NoError(t, db.CreateTaskDependency(dep))

	// Duplicate is rejected
	err = db.CreateTaskDependency(&models.TaskDependency{TaskID: task2.ID, DependsOnID: task1.ID})
	assert.Error(t, err)

	deps, err := db.GetTaskDependencies(task2.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, task1.ID, deps[0].DependsOnID)

	require.NoError(t, db.DeleteTaskDependency(dep.ID))
	deps, err = db.GetTaskDependencies(task2.ID)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestDeleteProjectCascades(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Doomed")
	task := createTestTask(t, db, project.ID, "Goes with it")

	require.NoError(t, db.AddComment(&models.Comment{TaskID: task.ID, Content: "note", Author: "sam"}))

	sprint := &models.Sprint{ProjectID: project.ID, Name: "Sprint 1",
		StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 14)}
	require.NoError(t, db.CreateSprint(sprint))

	story := &models.Story{ProjectID: project.ID, SprintID: &sprint.ID, Title: "Story"}
	require.NoError(t, db.CreateStory(story))

	require.NoError(t, db.DeleteProject(project.ID))

	_, err := db.GetProject(project.ID)
	assert.Error(t, err)
	_, err = db.GetTask(task.ID)
	assert.Error(t, err)

	var comments int64
	db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&comments)
	assert.Zero(t, comments)

	var stories int64
	db.Model(&models.Story{}).Where("project_id = ?", project.ID).Count(&stories)
	assert.Zero(t, stories)
}

func TestDeleteSprintDetachesWork(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, db, "Detach")

	sprint := &models.Sprint{ProjectID: project.ID, Name: "Sprint 1",
		StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 14)}
	require.NoError(t, db.CreateSprint(sprint))

	story := &models.Story{ProjectID: project.ID, SprintID: &sprint.ID, Title: "Survives"}
	require.NoError(t, db.CreateStory(story))

	require.NoError(t, db.DeleteSprint(sprint.ID))

	got, err := db.GetStory(story.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SprintID)
}

func TestListTasksFiltersByProjectAndStatus(t *testing.T) {
	db := setupTestDB(t)
	p1 := createTestProject(t, db, "One")
	p2 := createTestProject(t, db, "Two")

	createTestTask(t, db, p1.ID, "A")
	done := &models.Task{ProjectID: p1.ID, Title: "B", Status: models.TaskStatusCompleted}
	require.NoError(t, db.CreateTask(done))
	createTestTask(t, db, p2.ID, "C")

	status := models.TaskStatusCompleted
	tasks, err := db.ListTasks(TaskQuery{ProjectID: &p1.ID, Status: &status})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "B", tasks[0].Title)

	tasks, err = db.ListTasks(TaskQuery{ProjectID: &p1.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestEventCallbackFires(t *testing.T) {
	db := setupTestDB(t)

	var events []string
	db.SetEventCallback(func(event, entityType string, entityID uint) {
		events = append(events, event)
	})

	project := createTestProject(t, db, "Events")
	task := createTestTask(t, db, project.ID, "Watched")
	require.NoError(t, db.UpdateTask(task))
	require.NoError(t, db.DeleteTask(task.ID))

	assert.Equal(t, []string{"project.created", "task.created", "task.updated", "task.deleted"}, events)
}

func TestListActiveWebhooksFiltersByEvent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.CreateWebhook(&models.Webhook{URL: "http://a", Events: "task.created", IsActive: true}))
	require.NoError(t, db.CreateWebhook(&models.Webhook{URL: "http://b", Events: "*", IsActive: true}))
	require.NoError(t, db.CreateWebhook(&models.Webhook{URL: "http://c", Events: "task.created", IsActive: false}))
	require.NoError(t, db.CreateWebhook(&models.Webhook{URL: "http://d", Events: "project.deleted", IsActive: true}))

	hooks, err := db.ListActiveWebhooks("task.created")
	require.NoError(t, err)
	urls := make([]string, len(hooks))
	for i, h := range hooks {
		urls[i] = h.URL
	}
	assert.ElementsMatch(t, []string{"http://a", "http://b"}, urls)
}

func TestGetProjectByName(t *testing.T) {
	db := setupTestDB(t)
	created := createTestProject(t, db, "Named")

	got, err := db.GetProjectByName("Named")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = db.GetProjectByName("missing")
	assert.Error(t, err)
}
