package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawan09032004/planwise/internal/auth"
	"github.com/pawan09032004/planwise/internal/checklist"
	"github.com/pawan09032004/planwise/internal/roadmap"
	"github.com/pawan09032004/planwise/internal/storage"
)

type mockGenerator struct {
	generateFunc   func(ctx context.Context, req roadmap.Request) (*roadmap.Roadmap, error)
	withPromptFunc func(ctx context.Context, prompt string) (*roadmap.Roadmap, error)
}

func (m *mockGenerator) Generate(ctx context.Context, req roadmap.Request) (*roadmap.Roadmap, error) {
	return m.generateFunc(ctx, req)
}

func (m *mockGenerator) GenerateWithPrompt(ctx context.Context, prompt string) (*roadmap.Roadmap, error) {
	return m.withPromptFunc(ctx, prompt)
}

func newTestEngine(t *testing.T, generator RoadmapGenerator) *Engine {
	t.Helper()
	store, err := storage.New(filepath.Join(t.TempDir(), "planwise.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewEngine(store, auth.NewTokenIssuer("test-secret"), generator)
}

func signupUser(t *testing.T, engine *Engine, email string) *AuthResult {
	t.Helper()
	result, err := engine.Signup(email, "s3cret", "Test User")
	require.NoError(t, err)
	return result
}

func seedProject(t *testing.T, engine *Engine, userID int64) *Project {
	t.Helper()
	org, err := engine.CreateOrganization(userID, "Acme", "")
	require.NoError(t, err)
	project, err := engine.CreateProject(userID, org.ID, ProjectInput{
		Title:    "Launch",
		Deadline: "2026-12-31",
	})
	require.NoError(t, err)
	return project
}

func TestSignupAndLogin(t *testing.T) {
	engine := newTestEngine(t, nil)

	result := signupUser(t, engine, "pm@example.com")
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "project_manager", result.User.Role)

	_, err := engine.Signup("pm@example.com", "other", "Dup User")
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := engine.Login("pm@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	_, err = engine.Login("pm@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = engine.Login("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupValidation(t *testing.T) {
	engine := newTestEngine(t, nil)
	_, err := engine.Signup("", "pw", "Name")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProfileUpdate(t *testing.T) {
	engine := newTestEngine(t, nil)
	user := signupUser(t, engine, "pm@example.com").User
	signupUser(t, engine, "taken@example.com")

	name := "New Name"
	updated, err := engine.UpdateProfile(user.ID, ProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.FullName)

	taken := "taken@example.com"
	_, err = engine.UpdateProfile(user.ID, ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = engine.UpdateProfile(user.ID, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrValidation)

	password := "newpass"
	_, err = engine.UpdateProfile(user.ID, ProfileUpdate{Password: &password})
	require.NoError(t, err)
	_, err = engine.Login("pm@example.com", "newpass")
	assert.NoError(t, err)
}

func TestOrganizationPermissions(t *testing.T) {
	engine := newTestEngine(t, nil)
	admin := signupUser(t, engine, "admin@example.com").User
	outsider := signupUser(t, engine, "outsider@example.com").User

	org, err := engine.CreateOrganization(admin.ID, "Acme", "desc")
	require.NoError(t, err)

	_, err = engine.GetOrganization(org.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = engine.UpdateOrganization(org.ID, outsider.ID, "Hijacked", "")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	assert.ErrorIs(t, engine.DeleteOrganization(org.ID, outsider.ID), ErrPermissionDenied)
	assert.NoError(t, engine.DeleteOrganization(org.ID, admin.ID))
}

func TestProjectLifecycle(t *testing.T) {
	engine := newTestEngine(t, nil)
	user := signupUser(t, engine, "pm@example.com").User
	outsider := signupUser(t, engine, "outsider@example.com").User
	project := seedProject(t, engine, user.ID)

	got, err := engine.GetProject(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.OrganizationName)
	assert.Equal(t, "", got.RoadmapText)

	_, err = engine.CreateProject(outsider.ID, project.OrganizationID, ProjectInput{Title: "Sneaky"})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = engine.ListProjects(outsider.ID, project.OrganizationID, false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	projects, err := engine.ListProjects(user.ID, project.OrganizationID, false)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Acme", projects[0].OrganizationName)

	assert.ErrorIs(t, engine.DeleteProject(outsider.ID, project.ID), ErrPermissionDenied)
	assert.NoError(t, engine.DeleteProject(user.ID, project.ID))
	_, err = engine.GetProject(project.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProjectsIncludeTasksNormalizesCompletion(t *testing.T) {
	engine := newTestEngine(t, nil)
	user := signupUser(t, engine, "pm@example.com").User
	project := seedProject(t, engine, user.ID)

	_, err := engine.CreateTask(project.ID, TaskInput{Title: "Done", Status: "completed"})
	require.NoError(t, err)
	_, err = engine.CreateTask(project.ID, TaskInput{Title: "Open", Status: "todo"})
	require.NoError(t, err)

	projects, err := engine.ListProjects(user.ID, project.OrganizationID, true)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Len(t, projects[0].Tasks, 2)

	byTitle := map[string]Task{}
	for _, task := range projects[0].Tasks {
		byTitle[task.Title] = task
	}
	assert.True(t, byTitle["Done"].Completed)
	assert.False(t, byTitle["Open"].Completed)
}

func TestSaveTasksProgress(t *testing.T) {
	engine := newTestEngine(t, nil)
	user := signupUser(t, engine, "pm@example.com").User
	outsider := signupUser(t, engine, "outsider@example.com").User
	project := seedProject(t, engine, user.ID)

	tasks := []checklist.Task{
		{ID: "text_task_0", Title: "One", Completed: true},
		{ID: "text_task_1", Title: "Two"},
	}

	// Outsiders cannot tell a hidden project from a missing one.
	assert.ErrorIs(t, engine.SaveTasksProgress(outsider.ID, project.ID, tasks), ErrNotFound)
	assert.ErrorIs(t, engine.SaveTasksProgress(user.ID, 9999, tasks), ErrNotFound)

	require.NoError(t, engine.SaveTasksProgress(user.ID, project.ID, tasks))

	got, err := engine.GetProject(project.ID)
	require.NoError(t, err)
	src := checklist.Resolve(got.TasksChecklist)
	assert.Equal(t, checklist.SourceStructured, src.Kind)
	require.Len(t, src.Tasks, 2)
	assert.True(t, src.Tasks[0].Completed)
}

func TestGenerateRoadmapCooldownAndPersistence(t *testing.T) {
	var gotReq roadmap.Request
	generator := &mockGenerator{
		generateFunc: func(ctx context.Context, req roadmap.Request) (*roadmap.Roadmap, error) {
			gotReq = req
			return &roadmap.Roadmap{Content: "Phase 1: Setup"}, nil
		},
	}
	engine := newTestEngine(t, generator)
	user := signupUser(t, engine, "pm@example.com").User
	project := seedProject(t, engine, user.ID)

	_, err := engine.CreateTask(project.ID, TaskInput{Title: "Done", Status: "completed"})
	require.NoError(t, err)
	_, err = engine.CreateTask(project.ID, TaskInput{Title: "Open"})
	require.NoError(t, err)

	result, err := engine.GenerateRoadmap(context.Background(), project.ID, "ship the mvp", "")
	require.NoError(t, err)
	assert.Equal(t, "Phase 1: Setup", result.Content)
	assert.Equal(t, "Launch", gotReq.Title)
	assert.Contains(t, gotReq.Progress, "1/2 tasks")

	// The result lands on the project.
	got, err := engine.GetProject(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phase 1: Setup", got.RoadmapText)

	// A second request inside the window is refused.
	_, err = engine.GenerateRoadmap(context.Background(), project.ID, "again", "")
	assert.ErrorIs(t, err, ErrCooldown)

	_, err = engine.GenerateRoadmap(context.Background(), 9999, "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateRoadmapFailureReleasesCooldown(t *testing.T) {
	calls := 0
	generator := &mockGenerator{
		generateFunc: func(ctx context.Context, req roadmap.Request) (*roadmap.Roadmap, error) {
			calls++
			if calls == 1 {
				return nil, assert.AnError
			}
			return &roadmap.Roadmap{Content: "plan"}, nil
		},
	}
	engine := newTestEngine(t, generator)
	user := signupUser(t, engine, "pm@example.com").User
	project := seedProject(t, engine, user.ID)

	_, err := engine.GenerateRoadmap(context.Background(), project.ID, "", "")
	require.Error(t, err)

	// The failed attempt does not start a cooldown.
	_, err = engine.GenerateRoadmap(context.Background(), project.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGenerateTempRoadmap(t *testing.T) {
	generator := &mockGenerator{
		generateFunc: func(ctx context.Context, req roadmap.Request) (*roadmap.Roadmap, error) {
			return &roadmap.Roadmap{Content: "standard " + req.Title}, nil
		},
		withPromptFunc: func(ctx context.Context, prompt string) (*roadmap.Roadmap, error) {
			return &roadmap.Roadmap{Content: "custom"}, nil
		},
	}
	engine := newTestEngine(t, generator)

	_, err := engine.GenerateTempRoadmap(context.Background(), TempRoadmapInput{})
	assert.ErrorIs(t, err, ErrValidation)

	result, err := engine.GenerateTempRoadmap(context.Background(), TempRoadmapInput{Title: "Draft"})
	require.NoError(t, err)
	assert.Equal(t, "standard Draft", result.Content)

	result, err = engine.GenerateTempRoadmap(context.Background(), TempRoadmapInput{Prompt: "do it my way"})
	require.NoError(t, err)
	assert.Equal(t, "custom", result.Content)
}

func TestBuildReport(t *testing.T) {
	engine := newTestEngine(t, nil)
	user := signupUser(t, engine, "pm@example.com").User
	project := seedProject(t, engine, user.ID)

	require.NoError(t, engine.SaveTasksProgress(user.ID, project.ID, []checklist.Task{
		{ID: "text_task_0", Title: "One", Completed: true},
		{ID: "text_task_1", Title: "Two"},
	}))

	pdf, filename, err := engine.BuildReport(project.ID, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
	assert.Equal(t, "Project_Report_Launch_20260820.pdf", filename)

	_, _, err = engine.BuildReport(9999, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2026-12-31", true},
		{"2026-12-31 10:30:00", true},
		{"2026-12-31T10:30:00Z", true},
		{"Thu, 31 Dec 2026 10:30:00 GMT", true},
		{"", false},
		{"not a date", false},
	}
	for _, tt := range tests {
		_, ok := ParseDate(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
