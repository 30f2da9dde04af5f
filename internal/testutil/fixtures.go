package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	firstName string
	lastName  string
	email     string
	password  string
	role      domain.UserRole
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		firstName: "Test",
		lastName:  "User",
		email:     fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password:  "pw12345",
		role:      domain.RoleUser,
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithName(first, last string) *UserBuilder {
	b.firstName = first
	b.lastName = last
	return b
}

// AsAdmin gives the user the administrator role
func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.role = domain.RoleAdmin
	return b
}

// Build inserts the user directly and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    b.firstName,
		LastName:     b.lastName,
		Image:        domain.DefaultUserImage,
		Title:        "Engineer",
		Summary:      "Test account",
		Role:         b.role,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginResponse matches the API login response
type LoginResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

// BuildAndAuthenticate creates the user and logs in through the API
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	return user, Login(t, ts, user.Email, password)
}

// Login returns an access token for the given credentials
func Login(t *testing.T, ts *TestServer, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return loginResp.Token
}

// ExperienceBuilder creates test experience rows
type ExperienceBuilder struct {
	owner       *domain.User
	companyName string
	role        string
	startDate   string
	endDate     string
	description string
}

func NewExperienceBuilder(owner *domain.User) *ExperienceBuilder {
	return &ExperienceBuilder{
		owner:       owner,
		companyName: "Acme",
		role:        "Engineer",
		startDate:   "2020-01-01",
		description: fmt.Sprintf("Work %s", uuid.New().String()[:8]),
	}
}

func (b *ExperienceBuilder) WithCompany(name string) *ExperienceBuilder {
	b.companyName = name
	return b
}

func (b *ExperienceBuilder) WithDates(start, end string) *ExperienceBuilder {
	b.startDate = start
	b.endDate = end
	return b
}

func (b *ExperienceBuilder) Build(t *testing.T, db *gorm.DB) *domain.Experience {
	t.Helper()

	start, err := domain.ParseDate(b.startDate)
	if err != nil {
		t.Fatalf("bad start date: %v", err)
	}
	end, err := domain.ParseEndDate(b.endDate)
	if err != nil {
		t.Fatalf("bad end date: %v", err)
	}

	experience := &domain.Experience{
		UserID:      b.owner.ID,
		CompanyName: b.companyName,
		Role:        b.role,
		StartDate:   start,
		EndDate:     end,
		Description: b.description,
	}
	if err := db.Create(experience).Error; err != nil {
		t.Fatalf("failed to create experience: %v", err)
	}
	return experience
}

// BuildProject inserts a project with the default image
func BuildProject(t *testing.T, db *gorm.DB, owner *domain.User, description string) *domain.Project {
	t.Helper()

	project := &domain.Project{
		UserID:      owner.ID,
		Image:       domain.DefaultProjectImage,
		Description: description,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

// BuildFeedback inserts feedback from one user about another
func BuildFeedback(t *testing.T, db *gorm.DB, from, to *domain.User, content string) *domain.Feedback {
	t.Helper()

	feedback := &domain.Feedback{
		FromUser:    from.ID,
		ToUser:      to.ID,
		CompanyName: "Acme",
		Content:     content,
	}
	if err := db.Create(feedback).Error; err != nil {
		t.Fatalf("failed to create feedback: %v", err)
	}
	return feedback
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	bodyReader := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// CreateMultipartRequest builds a multipart/form-data request with an optional image file
func CreateMultipartRequest(t *testing.T, method, url string, fields map[string]string, image []byte, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "upload.png")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := fw.Write(image); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// PNG is a minimal image accepted by the upload checks
var PNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
}
