package transport

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fastygo/taskflow/domain"
)

// Validator is implemented by every request body.
type Validator interface {
	Validate() error
}

// Decode unmarshals a single JSON object into req and validates it.
// Fields req does not declare are rejected.
func Decode(body []byte, req Validator) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.Invalidf("request body is required")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, domain.ErrInvalidPayload.Message, err)
	}
	if dec.More() {
		return domain.Invalidf("request body must hold a single JSON object")
	}
	return req.Validate()
}

// Optional distinguishes an absent JSON field from an explicit value.
// A JSON null counts as present and empty.
type Optional struct {
	Set   bool
	Value string
}

func (o *Optional) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns nil when the field was absent.
func (o Optional) Ptr() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return domain.Invalidf("username, email and password are required")
	}
	return nil
}

// LoginRequest takes either a username or an email as identifier.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Identifier() string {
	if id := strings.TrimSpace(r.Username); id != "" {
		return id
	}
	return strings.TrimSpace(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Identifier() == "" || r.Password == "" {
		return domain.Invalidf("username and password are required")
	}
	return nil
}

type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *ProjectRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return domain.Invalidf("name is required")
	}
	return nil
}

type MemberRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (r *MemberRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" && strings.TrimSpace(r.Username) == "" {
		return domain.Invalidf("user_id or username is required")
	}
	return nil
}

type TaskCreateRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	AssigneeID  string `json:"assignee_id"`
	DueDate     string `json:"due_date"`
}

func (r *TaskCreateRequest) Validate() error {
	if strings.TrimSpace(r.ProjectID) == "" {
		return domain.Invalidf("project_id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return domain.Invalidf("title is required")
	}
	return nil
}

// TaskUpdateRequest is a partial update; absent fields are left untouched.
type TaskUpdateRequest struct {
	ProjectID   Optional `json:"project_id"`
	Title       Optional `json:"title"`
	Description Optional `json:"description"`
	Status      Optional `json:"status"`
	Priority    Optional `json:"priority"`
	AssigneeID  Optional `json:"assignee_id"`
	DueDate     Optional `json:"due_date"`
}

func (r *TaskUpdateRequest) Validate() error {
	if r.Title.Set && strings.TrimSpace(r.Title.Value) == "" {
		return domain.Invalidf("title must not be empty")
	}
	return nil
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (r *StatusRequest) Validate() error {
	if strings.TrimSpace(r.Status) == "" {
		return domain.Invalidf("status is required")
	}
	return nil
}

type PriorityRequest struct {
	Priority string `json:"priority"`
}

func (r *PriorityRequest) Validate() error {
	if strings.TrimSpace(r.Priority) == "" {
		return domain.Invalidf("priority is required")
	}
	return nil
}

type CommentRequest struct {
	TaskID  string `json:"task_id"`
	Content string `json:"content"`
}

func (r *CommentRequest) Validate() error {
	if strings.TrimSpace(r.TaskID) == "" {
		return domain.Invalidf("task_id is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return domain.Invalidf("content is required")
	}
	return nil
}
