package handlers

import (
	"context"
	"net/http"

	"pomo/internal/models"
	"pomo/internal/repository"
	"pomo/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser  *models.User
	signUpToken string
	signUpErr   error
	lastSignUp  service.SignupInput

	loginUser  *models.User
	loginToken string
	loginErr   error
	lastEmail  string

	authUser       *models.User
	authErr        error
	lastAuthHeader string

	authorizeErr error

	forgotErr        error
	lastForgotEmail  string
	lastResetURLBase string

	resetUser    *models.User
	resetToken   string
	resetErr     error
	lastRawToken string

	updatedUser   *models.User
	updatedToken  string
	updatePassErr error
}

func (m *mockAuth) SignUp(_ context.Context, in service.SignupInput) (*models.User, string, error) {
	m.lastSignUp = in
	return m.signUpUser, m.signUpToken, m.signUpErr
}

func (m *mockAuth) Login(_ context.Context, email, _ string) (*models.User, string, error) {
	m.lastEmail = email
	return m.loginUser, m.loginToken, m.loginErr
}

func (m *mockAuth) Authenticate(_ context.Context, authHeader string) (*models.User, error) {
	m.lastAuthHeader = authHeader
	return m.authUser, m.authErr
}

func (m *mockAuth) Authorize(_ *models.User, _ ...models.Role) error {
	return m.authorizeErr
}

func (m *mockAuth) ForgotPassword(_ context.Context, email, resetURLBase string) error {
	m.lastForgotEmail = email
	m.lastResetURLBase = resetURLBase
	return m.forgotErr
}

func (m *mockAuth) ResetPassword(_ context.Context, rawToken, _, _ string) (*models.User, string, error) {
	m.lastRawToken = rawToken
	return m.resetUser, m.resetToken, m.resetErr
}

func (m *mockAuth) UpdatePassword(_ context.Context, _ int64, _, _, _ string) (*models.User, string, error) {
	return m.updatedUser, m.updatedToken, m.updatePassErr
}

type mockUsers struct {
	listResp []models.User
	listErr  error

	updatedUser   *models.User
	updateErr     error
	lastUpdatedID int64

	deactivateErr    error
	lastDeactivateID int64
}

func (m *mockUsers) List(_ context.Context) ([]models.User, error) {
	return m.listResp, m.listErr
}

func (m *mockUsers) UpdateProfile(_ context.Context, id int64, _, _ string) (*models.User, error) {
	m.lastUpdatedID = id
	return m.updatedUser, m.updateErr
}

func (m *mockUsers) Deactivate(_ context.Context, id int64) error {
	m.lastDeactivateID = id
	return m.deactivateErr
}

type mockProjects struct {
	project *models.Project
	list    []models.Project
	err     error

	lastOwnerID   int64
	lastProjectID int64
	lastTaskID    int64
	lastInput     service.ProjectInput
	lastTaskInput service.ProjectTaskInput
}

func (m *mockProjects) Create(_ context.Context, ownerID int64, in service.ProjectInput) (*models.Project, error) {
	m.lastOwnerID = ownerID
	m.lastInput = in
	return m.project, m.err
}

func (m *mockProjects) Get(_ context.Context, id int64) (*models.Project, error) {
	m.lastProjectID = id
	return m.project, m.err
}

func (m *mockProjects) List(_ context.Context) ([]models.Project, error) {
	return m.list, m.err
}

func (m *mockProjects) ListByOwner(_ context.Context, ownerID int64) ([]models.Project, error) {
	m.lastOwnerID = ownerID
	return m.list, m.err
}

func (m *mockProjects) Update(_ context.Context, id int64, _ repository.ProjectUpdate) (*models.Project, error) {
	m.lastProjectID = id
	return m.project, m.err
}

func (m *mockProjects) Delete(_ context.Context, id int64) error {
	m.lastProjectID = id
	return m.err
}

func (m *mockProjects) AddTask(_ context.Context, projectID, _ int64, in service.ProjectTaskInput) (*models.Project, error) {
	m.lastProjectID = projectID
	m.lastTaskInput = in
	return m.project, m.err
}

func (m *mockProjects) UpdateTask(_ context.Context, projectID, taskID int64, _ repository.TaskUpdate) (*models.Project, error) {
	m.lastProjectID = projectID
	m.lastTaskID = taskID
	return m.project, m.err
}

func (m *mockProjects) RemoveTask(_ context.Context, projectID, taskID int64) (*models.Project, error) {
	m.lastProjectID = projectID
	m.lastTaskID = taskID
	return m.project, m.err
}

type mockTasks struct {
	task *models.Task
	list []models.Task
	err  error

	lastTaskID int64
	lastUserID int64
	lastInput  service.TaskInput
	lastUpdate repository.TaskUpdate
}

func (m *mockTasks) Create(_ context.Context, userID int64, in service.TaskInput) (*models.Task, error) {
	m.lastUserID = userID
	m.lastInput = in
	return m.task, m.err
}

func (m *mockTasks) Get(_ context.Context, id int64) (*models.Task, error) {
	m.lastTaskID = id
	return m.task, m.err
}

func (m *mockTasks) ListByProject(_ context.Context, _ int64) ([]models.Task, error) {
	return m.list, m.err
}

func (m *mockTasks) ListByUser(_ context.Context, userID int64) ([]models.Task, error) {
	m.lastUserID = userID
	return m.list, m.err
}

func (m *mockTasks) Update(_ context.Context, id int64, upd repository.TaskUpdate) (*models.Task, error) {
	m.lastTaskID = id
	m.lastUpdate = upd
	return m.task, m.err
}

func (m *mockTasks) Delete(_ context.Context, id int64) error {
	m.lastTaskID = id
	return m.err
}

type mockActivity struct {
	resp       []models.ActivityEvent
	err        error
	lastFilter service.ActivityFilter
}

func (m *mockActivity) Record(_ context.Context, _, _ string, _ any) {}

func (m *mockActivity) List(_ context.Context, f service.ActivityFilter) ([]models.ActivityEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
