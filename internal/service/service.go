package service

import (
	"context"
	"time"

	"pomo/internal/mailer"
	"pomo/internal/models"
	"pomo/internal/repository"
)

// SignupInput is the payload for account creation. PasswordConfirm is
// validated against Password and then discarded, never stored.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Authorization owns token issuance, request authentication, role
// authorization, and the password-reset lifecycle.
type Authorization interface {
	SignUp(ctx context.Context, in SignupInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	// Authenticate resolves the bearer token in authHeader to a live account.
	Authenticate(ctx context.Context, authHeader string) (*models.User, error)
	// Authorize checks the already-authenticated user against a set of
	// permitted roles. Composed after Authenticate, never standalone.
	Authorize(user *models.User, allowed ...models.Role) error
	// ForgotPassword mails a reset secret; resetURLBase is the absolute
	// URL prefix the raw secret is appended to.
	ForgotPassword(ctx context.Context, email, resetURLBase string) error
	ResetPassword(ctx context.Context, rawToken, password, passwordConfirm string) (*models.User, string, error)
	UpdatePassword(ctx context.Context, userID int64, currentPassword, newPassword, newPasswordConfirm string) (*models.User, string, error)
}

// Users exposes account listing and profile maintenance.
type Users interface {
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int64, username, email string) (*models.User, error)
	Deactivate(ctx context.Context, id int64) error
}

// ProjectInput is the payload for project creation.
type ProjectInput struct {
	Name         string
	Description  string
	ImageCover   string
	DueDate      *time.Time
	Contributors []int64
}

// ProjectTaskInput is the payload for creating a task inside a project.
type ProjectTaskInput struct {
	Name        string
	Description string
	Pomodoro    int
}

// Projects exposes project CRUD plus in-project task operations.
type Projects interface {
	Create(ctx context.Context, ownerID int64, in ProjectInput) (*models.Project, error)
	Get(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Project, error)
	Update(ctx context.Context, id int64, upd repository.ProjectUpdate) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
	AddTask(ctx context.Context, projectID, userID int64, in ProjectTaskInput) (*models.Project, error)
	UpdateTask(ctx context.Context, projectID, taskID int64, upd repository.TaskUpdate) (*models.Project, error)
	RemoveTask(ctx context.Context, projectID, taskID int64) (*models.Project, error)
}

// TaskInput is the payload for standalone task creation.
type TaskInput struct {
	Name        string
	Description string
	Pomodoro    int
	ProjectID   *int64
}

// Tasks exposes standalone task CRUD.
type Tasks interface {
	Create(ctx context.Context, userID int64, in TaskInput) (*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Task, error)
	Update(ctx context.Context, id int64, upd repository.TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}

// ActivityFilter supports history filtering by time range and type.
type ActivityFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", or one of the models.Event* constants
}

// Activity exposes the append-only application activity log.
type Activity interface {
	Record(ctx context.Context, typ, message string, meta any)
	List(ctx context.Context, f ActivityFilter) ([]models.ActivityEvent, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Users
	Projects
	Tasks
	Activity
}

// NewService wires the repository layer, the mail dispatcher and the
// auth configuration into concrete services.
func NewService(repos *repository.Repository, mail mailer.Mailer, authCfg AuthConfig) *Service {
	activity := NewActivityService(repos.Activity)
	return &Service{
		Authorization: NewAuthService(repos.Users, mail, activity, authCfg),
		Users:         NewUserService(repos.Users, activity),
		Projects:      NewProjectService(repos.Projects, repos.Tasks, activity),
		Tasks:         NewTaskService(repos.Tasks, activity),
		Activity:      activity,
	}
}
