package employee

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/herbal-backoffice/internal/auth"
	"github.com/example/herbal-backoffice/internal/domain/aggregate"
	"github.com/example/herbal-backoffice/internal/idgen"
	"github.com/example/herbal-backoffice/internal/infrastructure/store"
)

const AggregateType = "Employee"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrInvalidName            = errors.New("name is required")
	ErrInvalidEmail           = errors.New("email is required")
	ErrInvalidRole            = errors.New("role must be Admin, Manager or Staff")
	ErrInvalidPermission      = errors.New("unknown permission")
	ErrInvalidStatus          = errors.New("status must be active or inactive")
	ErrPasswordFieldsRequired = errors.New("All fields are required")
	ErrPasswordMismatch       = errors.New("New passwords don't match")
	ErrWrongPassword          = errors.New("current password is incorrect")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmployeeInactive       = errors.New("employee account is inactive")
)

type Employee struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Permissions  []string   `json:"permissions"`
	Status       string     `json:"status"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	Bio          string     `json:"bio"`
	AvatarURL    string     `json:"avatar_url"`
	PasswordHash string     `json:"password_hash,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	Deleted      bool       `json:"deleted,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int        `json:"version"`
}

func (e *Employee) GetID() string    { return e.ID }
func (e *Employee) GetVersion() int  { return e.Version }
func (e *Employee) SetVersion(v int) { e.Version = v }

func (e *Employee) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventEmployeeCreated:
		var data EmployeeCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		*e = Employee{
			ID:           data.EmployeeID,
			Name:         data.Name,
			Email:        data.Email,
			Role:         data.Role,
			Permissions:  data.Permissions,
			Status:       data.Status,
			PasswordHash: data.PasswordHash,
			CreatedAt:    data.CreatedAt,
			UpdatedAt:    data.CreatedAt,
		}
	case EventEmployeeUpdated:
		var data EmployeeUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		e.Name = data.Name
		e.Email = data.Email
		e.Role = data.Role
		e.Permissions = data.Permissions
		e.Status = data.Status
		e.UpdatedAt = data.UpdatedAt
	case EventEmployeeProfileUpdated:
		var data EmployeeProfileUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		e.Name = data.Name
		e.Email = data.Email
		e.Phone = data.Phone
		e.Address = data.Address
		e.Bio = data.Bio
		e.AvatarURL = data.AvatarURL
		e.UpdatedAt = data.UpdatedAt
	case EventEmployeePasswordChanged:
		var data EmployeePasswordChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		e.PasswordHash = data.PasswordHash
		e.UpdatedAt = data.ChangedAt
	case EventEmployeeLoggedIn:
		var data EmployeeLoggedIn
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		at := data.LoggedAt
		e.LastLoginAt = &at
	case EventEmployeeDeleted:
		e.Deleted = true
	}
	e.Version = event.Version
	return nil
}

// Details is what the employees page edits
type Details struct {
	Name        string
	Email       string
	Role        string
	Permissions []string
	Status      string
}

func (d *Details) normalize(defaultPermissions bool) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	if d.Name == "" {
		return ErrInvalidName
	}
	if d.Email == "" {
		return ErrInvalidEmail
	}
	if d.Role == "" {
		d.Role = RoleStaff
	}
	if !isRole(d.Role) {
		return ErrInvalidRole
	}
	if d.Status == "" {
		d.Status = StatusActive
	}
	if d.Status != StatusActive && d.Status != StatusInactive {
		return ErrInvalidStatus
	}
	if defaultPermissions && len(d.Permissions) == 0 {
		d.Permissions = []string{PermDashboard}
	}
	perms, err := NormalizePermissions(d.Permissions)
	if err != nil {
		return err
	}
	d.Permissions = perms
	return nil
}

// Profile is what employees may edit about themselves
type Profile struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	Bio       string
	AvatarURL string
}

type Service struct {
	eventStore store.EventStoreInterface
	mu         sync.Mutex
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Create adds an employee. Without a password the employee cannot log in
// until one is set.
func (s *Service) Create(ctx context.Context, d Details, password string) (*Employee, error) {
	if err := d.normalize(true); err != nil {
		return nil, err
	}

	var passwordHash string
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := aggregate.LiveIDs(s.eventStore, AggregateType, EventEmployeeDeleted, EventEmployeeCreated)
	employeeID := strconv.Itoa(idgen.NextSequence(ids))

	event := EmployeeCreated{
		EmployeeID:   employeeID,
		Name:         d.Name,
		Email:        d.Email,
		Role:         d.Role,
		Permissions:  d.Permissions,
		Status:       d.Status,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, employeeID, AggregateType, EventEmployeeCreated, event)
	if err != nil {
		return nil, err
	}

	e := &Employee{
		ID:           employeeID,
		Name:         d.Name,
		Email:        d.Email,
		Role:         d.Role,
		Permissions:  d.Permissions,
		Status:       d.Status,
		PasswordHash: passwordHash,
		CreatedAt:    event.CreatedAt,
		UpdatedAt:    event.CreatedAt,
	}
	s.snapshot(ctx, e, stored)
	return e, nil
}

// Update replaces name, email, role, permissions and status
func (s *Service) Update(ctx context.Context, employeeID string, d Details) error {
	if err := d.normalize(false); err != nil {
		return err
	}

	e, err := s.load(ctx, employeeID)
	if err != nil {
		return err
	}

	event := EmployeeUpdated{
		EmployeeID:  employeeID,
		Name:        d.Name,
		Email:       d.Email,
		Role:        d.Role,
		Permissions: d.Permissions,
		Status:      d.Status,
		UpdatedAt:   time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, employeeID, AggregateType, EventEmployeeUpdated, event)
	if err != nil {
		return err
	}

	e.Name, e.Email, e.Role, e.Permissions, e.Status = d.Name, d.Email, d.Role, d.Permissions, d.Status
	e.UpdatedAt = event.UpdatedAt
	s.snapshot(ctx, e, stored)
	return nil
}

func (s *Service) Delete(ctx context.Context, employeeID string) error {
	if _, err := s.load(ctx, employeeID); err != nil {
		return err
	}

	_, err := s.eventStore.Append(ctx, employeeID, AggregateType, EventEmployeeDeleted, EmployeeDeleted{
		EmployeeID: employeeID,
		DeletedAt:  time.Now(),
	})
	return err
}

// UpdateProfile edits the employee's own contact details
func (s *Service) UpdateProfile(ctx context.Context, employeeID string, p Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.Email == "" {
		return ErrInvalidEmail
	}

	e, err := s.load(ctx, employeeID)
	if err != nil {
		return err
	}

	event := EmployeeProfileUpdated{
		EmployeeID: employeeID,
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		Address:    p.Address,
		Bio:        p.Bio,
		AvatarURL:  p.AvatarURL,
		UpdatedAt:  time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, employeeID, AggregateType, EventEmployeeProfileUpdated, event)
	if err != nil {
		return err
	}

	e.Name, e.Email, e.Phone, e.Address, e.Bio, e.AvatarURL = p.Name, p.Email, p.Phone, p.Address, p.Bio, p.AvatarURL
	e.UpdatedAt = event.UpdatedAt
	s.snapshot(ctx, e, stored)
	return nil
}

// ChangePassword applies the profile page rules in order: every field
// present, new and confirmation equal, minimum length, then the current
// password must match.
func (s *Service) ChangePassword(ctx context.Context, employeeID, current, newPassword, confirm string) error {
	if current == "" || newPassword == "" || confirm == "" {
		return ErrPasswordFieldsRequired
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if len(newPassword) < auth.MinPasswordLength {
		return auth.ErrPasswordTooShort
	}

	e, err := s.load(ctx, employeeID)
	if err != nil {
		return err
	}
	if e.PasswordHash == "" || !auth.CheckPassword(current, e.PasswordHash) {
		return ErrWrongPassword
	}

	return s.setPassword(ctx, e, newPassword)
}

// SetPassword replaces the password without checking the current one
func (s *Service) SetPassword(ctx context.Context, employeeID, password string) error {
	e, err := s.load(ctx, employeeID)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, e, password)
}

func (s *Service) setPassword(ctx context.Context, e *Employee, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	event := EmployeePasswordChanged{
		EmployeeID:   e.ID,
		PasswordHash: hash,
		ChangedAt:    time.Now(),
	}

	stored, err := s.eventStore.Append(ctx, e.ID, AggregateType, EventEmployeePasswordChanged, event)
	if err != nil {
		return err
	}

	e.PasswordHash = hash
	e.UpdatedAt = event.ChangedAt
	s.snapshot(ctx, e, stored)
	return nil
}

// Authenticate checks credentials against the aggregate state
func (s *Service) Authenticate(ctx context.Context, employeeID, password string) (*Employee, error) {
	e, err := s.load(ctx, employeeID)
	if err != nil {
		if errors.Is(err, ErrEmployeeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if e.PasswordHash == "" || !auth.CheckPassword(password, e.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if e.Status != StatusActive {
		return nil, ErrEmployeeInactive
	}
	return e, nil
}

// RecordLogin records a successful login
func (s *Service) RecordLogin(ctx context.Context, employeeID, sessionID, ipAddress, userAgent string) error {
	_, err := s.eventStore.Append(ctx, employeeID, AggregateType, EventEmployeeLoggedIn, EmployeeLoggedIn{
		EmployeeID: employeeID,
		SessionID:  sessionID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		LoggedAt:   time.Now(),
	})
	return err
}

// RecordLogout records a logout
func (s *Service) RecordLogout(ctx context.Context, employeeID, sessionID string) error {
	_, err := s.eventStore.Append(ctx, employeeID, AggregateType, EventEmployeeLoggedOut, EmployeeLoggedOut{
		EmployeeID: employeeID,
		SessionID:  sessionID,
		LoggedAt:   time.Now(),
	})
	return err
}

// Get returns the current state of a live employee
func (s *Service) Get(ctx context.Context, employeeID string) (*Employee, error) {
	return s.load(ctx, employeeID)
}

func (s *Service) load(ctx context.Context, employeeID string) (*Employee, error) {
	e, found, err := aggregate.LoadAggregate(ctx, s.eventStore, AggregateType, employeeID, func() *Employee {
		return &Employee{}
	})
	if err != nil {
		return nil, err
	}
	if !found || e.Deleted {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

func (s *Service) snapshot(ctx context.Context, e *Employee, stored *store.Event) {
	if stored == nil {
		return
	}
	e.Version = stored.Version
	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, e, AggregateType); err != nil {
		log.Printf("[Employee] Failed to create snapshot for employee %s: %v", e.ID, err)
	}
}
