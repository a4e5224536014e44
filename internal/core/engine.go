package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pawan09032004/planwise/internal/auth"
	"github.com/pawan09032004/planwise/internal/checklist"
	"github.com/pawan09032004/planwise/internal/report"
	"github.com/pawan09032004/planwise/internal/roadmap"
	"github.com/pawan09032004/planwise/internal/storage"
)

const (
	roadmapCooldown = 30 * time.Second
	orgNameTTL      = 5 * time.Minute
)

// RoadmapGenerator produces roadmaps from project context or a raw prompt.
// *roadmap.TogetherClient satisfies it.
type RoadmapGenerator interface {
	Generate(ctx context.Context, req roadmap.Request) (*roadmap.Roadmap, error)
	GenerateWithPrompt(ctx context.Context, prompt string) (*roadmap.Roadmap, error)
}

// Engine orchestrates accounts, organizations, projects, tasks, roadmap
// generation and reporting on top of the store.
type Engine struct {
	store     *storage.Store
	issuer    *auth.TokenIssuer
	generator RoadmapGenerator
	cooldown  *roadmap.CooldownCache
	orgNames  *nameCache
}

// NewEngine creates an engine over the given store and collaborators.
func NewEngine(store *storage.Store, issuer *auth.TokenIssuer, generator RoadmapGenerator) *Engine {
	return &Engine{
		store:     store,
		issuer:    issuer,
		generator: generator,
		cooldown:  roadmap.NewCooldownCache(roadmapCooldown),
		orgNames:  newNameCache(orgNameTTL),
	}
}

// ---- Accounts ----

// Signup registers a new account. Every account gets the project_manager
// role.
func (e *Engine) Signup(email, password, fullName string) (*AuthResult, error) {
	if email == "" || password == "" || fullName == "" {
		return nil, fmt.Errorf("%w: email, password and full_name are required", ErrValidation)
	}

	if _, err := e.store.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := e.store.CreateUser(&storage.UserRecord{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         auth.RoleProjectManager,
	})
	if err != nil {
		return nil, err
	}
	return e.authResult(user)
}

// Login verifies credentials and issues a token.
func (e *Engine) Login(email, password string) (*AuthResult, error) {
	user, err := e.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return e.authResult(user)
}

func (e *Engine) authResult(user *storage.UserRecord) (*AuthResult, error) {
	token, err := e.issuer.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: userFromRecord(user)}, nil
}

// Profile returns a user's account details.
func (e *Engine) Profile(userID int64) (*User, error) {
	user, err := e.store.GetUser(userID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	profile := userFromRecord(user)
	return &profile, nil
}

// ProfileUpdate holds the optional fields of a profile update.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Password *string
}

// UpdateProfile applies a partial profile update.
func (e *Engine) UpdateProfile(userID int64, update ProfileUpdate) (*User, error) {
	storeUpdate := storage.UserUpdate{FullName: update.FullName}

	if update.Email != nil && *update.Email != "" {
		taken, err := e.store.EmailTaken(*update.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email already in use", ErrValidation)
		}
		storeUpdate.Email = update.Email
	}

	if update.Password != nil && *update.Password != "" {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		storeUpdate.PasswordHash = &hash
	}

	if storeUpdate.FullName == nil && storeUpdate.Email == nil && storeUpdate.PasswordHash == nil {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	user, err := e.store.UpdateUser(userID, storeUpdate)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	profile := userFromRecord(user)
	return &profile, nil
}

// DeleteAccount removes the account and everything only it owns.
func (e *Engine) DeleteAccount(userID int64) error {
	return e.store.DeleteUser(userID)
}

// ---- Organizations ----

// CreateOrganization creates an organization with the caller as admin.
func (e *Engine) CreateOrganization(userID int64, name, description string) (*Organization, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	rec, err := e.store.CreateOrganization(&storage.OrganizationRecord{
		Name:        name,
		Description: description,
		CreatedBy:   userID,
	})
	if err != nil {
		return nil, err
	}
	org := orgFromRecord(rec)
	return &org, nil
}

// ListOrganizations returns the caller's organizations.
func (e *Engine) ListOrganizations(userID int64) ([]Organization, error) {
	recs, err := e.store.ListOrganizations(userID)
	if err != nil {
		return nil, err
	}
	orgs := make([]Organization, 0, len(recs))
	for _, rec := range recs {
		orgs = append(orgs, orgFromRecord(rec))
	}
	return orgs, nil
}

// GetOrganization returns an organization the caller belongs to.
func (e *Engine) GetOrganization(orgID, userID int64) (*Organization, error) {
	rec, err := e.store.GetOrganization(orgID, userID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	org := orgFromRecord(rec)
	return &org, nil
}

// UpdateOrganization renames an organization; admin only.
func (e *Engine) UpdateOrganization(orgID, userID int64, name, description string) (*Organization, error) {
	isAdmin, err := e.store.IsOrgAdmin(orgID, userID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, ErrPermissionDenied
	}

	rec, err := e.store.UpdateOrganization(orgID, name, description)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	e.orgNames.reset(orgID)
	org := orgFromRecord(rec)
	return &org, nil
}

// DeleteOrganization removes an organization and its projects; admin only.
func (e *Engine) DeleteOrganization(orgID, userID int64) error {
	isAdmin, err := e.store.IsOrgAdmin(orgID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrPermissionDenied
	}
	e.orgNames.reset(orgID)
	return e.store.DeleteOrganization(orgID)
}

// ---- Projects ----

// ProjectInput holds the fields of a new project.
type ProjectInput struct {
	Title          string
	Description    string
	Deadline       string
	RoadmapText    string
	TasksChecklist string
}

// CreateProject creates a project in an organization the caller belongs to,
// with the caller as manager.
func (e *Engine) CreateProject(userID, orgID int64, input ProjectInput) (*Project, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	isMember, err := e.store.IsOrgMember(orgID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrPermissionDenied
	}

	rec, err := e.store.CreateProject(&storage.ProjectRecord{
		OrganizationID: orgID,
		Title:          input.Title,
		Description:    input.Description,
		Deadline:       input.Deadline,
		CreatedBy:      userID,
		RoadmapText:    input.RoadmapText,
		TasksChecklist: input.TasksChecklist,
	})
	if err != nil {
		return nil, err
	}
	project := projectFromRecord(rec)
	return &project, nil
}

// ListProjects returns an organization's projects, optionally with each
// project's task list attached.
func (e *Engine) ListProjects(userID, orgID int64, includeTasks bool) ([]Project, error) {
	isMember, err := e.store.IsOrgMember(orgID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrPermissionDenied
	}

	orgName, ok := e.orgNames.get(orgID)
	if !ok {
		org, err := e.store.GetOrganization(orgID, userID)
		if err != nil {
			return nil, mapStoreErr(err)
		}
		orgName = org.Name
		e.orgNames.put(orgID, orgName)
	}

	recs, err := e.store.ListProjects(orgID)
	if err != nil {
		return nil, err
	}

	projects := make([]Project, 0, len(recs))
	for _, rec := range recs {
		project := projectFromRecord(rec)
		project.OrganizationName = orgName
		if includeTasks {
			tasks, err := e.ListTasks(rec.ID)
			if err != nil {
				return nil, err
			}
			project.Tasks = tasks
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// GetProject returns a project with its organization name.
func (e *Engine) GetProject(projectID int64) (*Project, error) {
	rec, err := e.store.GetProject(projectID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	project := projectFromRecord(rec)
	return &project, nil
}

// DeleteProject removes a project; manager only.
func (e *Engine) DeleteProject(userID, projectID int64) error {
	isManager, err := e.store.IsProjectManager(projectID, userID)
	if err != nil {
		return err
	}
	if !isManager {
		return ErrPermissionDenied
	}
	return e.store.DeleteProject(projectID)
}

// ---- Tasks ----

// TaskInput holds the fields of a new task.
type TaskInput struct {
	Title             string
	Description       string
	Status            string
	Priority          string
	PhaseName         string
	PhaseOrder        int
	TaskOrder         int
	EstimatedDuration string
}

// CreateTask adds a task to a project.
func (e *Engine) CreateTask(projectID int64, input TaskInput) (*Task, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrValidation)
	}
	rec, err := e.store.CreateTask(&storage.TaskRecord{
		ProjectID:         projectID,
		Title:             input.Title,
		Description:       input.Description,
		Status:            input.Status,
		Priority:          input.Priority,
		PhaseName:         input.PhaseName,
		PhaseOrder:        input.PhaseOrder,
		TaskOrder:         input.TaskOrder,
		EstimatedDuration: input.EstimatedDuration,
	})
	if err != nil {
		return nil, err
	}
	task := taskFromRecord(rec)
	return &task, nil
}

// ListTasks returns a project's tasks in roadmap order, with both completion
// signals normalized.
func (e *Engine) ListTasks(projectID int64) ([]Task, error) {
	recs, err := e.store.ListTasks(projectID)
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, taskFromRecord(rec))
	}
	return tasks, nil
}

// UpdateTask applies a partial task update.
func (e *Engine) UpdateTask(taskID int64, update storage.TaskUpdate) (*Task, error) {
	rec, err := e.store.UpdateTask(taskID, update)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	task := taskFromRecord(rec)
	return &task, nil
}

// DeleteTask removes a task.
func (e *Engine) DeleteTask(taskID int64) error {
	return e.store.DeleteTask(taskID)
}

// ---- Checklist ----

// SaveTasksProgress persists the full checklist for a project the caller can
// access. Like the fetch path, a missing project and a project the caller
// cannot see are indistinguishable.
func (e *Engine) SaveTasksProgress(userID, projectID int64, tasks []checklist.Task) error {
	canAccess, err := e.store.UserCanAccessProject(projectID, userID)
	if err != nil {
		return err
	}
	if !canAccess {
		return ErrNotFound
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}
	return mapStoreErr(e.store.SaveChecklist(projectID, string(data)))
}

// ---- Roadmaps ----

// GenerateRoadmap produces a roadmap for an existing project, folding the
// current completion stats into the prompt, and stores the result on the
// project. Requests inside the cooldown window are refused.
func (e *Engine) GenerateRoadmap(ctx context.Context, projectID int64, requirements, priority string) (*roadmap.Roadmap, error) {
	rec, err := e.store.GetProject(projectID)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	if !e.cooldown.Allow(projectID) {
		return nil, fmt.Errorf("%w: retry in %s", ErrCooldown, e.cooldown.Remaining(projectID).Round(time.Second))
	}

	tasks, err := e.ListTasks(projectID)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, task := range tasks {
		if task.Completed {
			completed++
		}
	}
	progress := ""
	if len(tasks) > 0 {
		progress = fmt.Sprintf("%.0f%% complete (%d/%d tasks)", float64(completed)/float64(len(tasks))*100, completed, len(tasks))
	}

	if priority == "" {
		priority = rec.Priority
	}

	result, err := e.generator.Generate(ctx, roadmap.Request{
		Title:            rec.Title,
		Description:      rec.Description,
		Deadline:         rec.Deadline,
		Priority:         priority,
		ProblemStatement: requirements,
		Progress:         progress,
	})
	if err != nil {
		// A failed generation should not lock the project out of retrying.
		e.cooldown.Reset(projectID)
		return nil, err
	}

	if result.Content != "" {
		if err := e.store.SaveRoadmap(projectID, result.Content); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// TempRoadmapInput holds the fields of an unauthenticated draft roadmap
// request, used before a project exists.
type TempRoadmapInput struct {
	Title            string
	Description      string
	Deadline         string
	Priority         string
	ProblemStatement string
	Prompt           string
}

// GenerateTempRoadmap produces a draft roadmap from raw inputs or, when one
// is given, a fully caller-defined prompt.
func (e *Engine) GenerateTempRoadmap(ctx context.Context, input TempRoadmapInput) (*roadmap.Roadmap, error) {
	if input.Title == "" && input.Prompt == "" {
		return nil, fmt.Errorf("%w: either project title or custom prompt is required", ErrValidation)
	}

	if input.Prompt != "" {
		return e.generator.GenerateWithPrompt(ctx, input.Prompt)
	}

	priority := input.Priority
	if priority == "" {
		priority = "Medium"
	}
	return e.generator.Generate(ctx, roadmap.Request{
		Title:            input.Title,
		Description:      input.Description,
		Deadline:         input.Deadline,
		Priority:         priority,
		ProblemStatement: input.ProblemStatement,
	})
}

// ---- Reports ----

// BuildReport renders the project report PDF and returns it with its
// attachment filename.
func (e *Engine) BuildReport(projectID int64, now time.Time) ([]byte, string, error) {
	rec, err := e.store.GetProject(projectID)
	if err != nil {
		return nil, "", mapStoreErr(err)
	}

	apiTasks, err := e.ListTasks(projectID)
	if err != nil {
		return nil, "", err
	}

	src := checklist.Resolve(rec.TasksChecklist)
	checklistAPITasks := make([]checklist.Task, 0, len(apiTasks))
	for _, task := range apiTasks {
		checklistAPITasks = append(checklistAPITasks, checklist.Task{
			ID:        checklist.FromInt(task.ID),
			Title:     task.Title,
			Status:    task.Status,
			Completed: task.Completed,
		})
	}
	progress := checklist.CalculateProgress(nil, src, checklistAPITasks)

	data := report.Data{
		ProjectID:        projectID,
		Title:            rec.Title,
		OrganizationName: rec.OrganizationName,
		Description:      rec.Description,
		Priority:         rec.Priority,
		CreatedAt:        rec.CreatedAt,
		ProgressPercent:  float64(progress),
	}
	if deadline, ok := ParseDate(rec.Deadline); ok {
		data.Deadline = deadline
	}

	// The saved checklist defines the task counts when present; database
	// tasks only count when there is no structured checklist.
	if src.Kind == checklist.SourceStructured {
		data.TotalTasks = len(src.Tasks)
		for _, task := range src.Tasks {
			if task.Done() {
				data.CompletedTasks++
			}
		}
		data.TodoTasks = data.TotalTasks - data.CompletedTasks
	} else {
		legacyTasks := src.ResolvedTasks()
		data.TotalTasks = len(apiTasks) + len(legacyTasks)
		for _, task := range apiTasks {
			switch {
			case task.Completed:
				data.CompletedTasks++
			case task.Status == "in_progress":
				data.InProgressTasks++
			default:
				data.TodoTasks++
			}
		}
		// Legacy text tasks have no knowable completion state.
		data.TodoTasks += len(legacyTasks)
	}

	pdf, err := report.Build(data, now)
	if err != nil {
		return nil, "", err
	}
	return pdf, data.Filename(now), nil
}

// ParseDate parses a date string in the formats the API has historically
// accepted.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	formats := []string{
		time.RFC1123,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func mapStoreErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
