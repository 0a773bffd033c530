package employee

import "time"

const (
	EventEmployeeCreated         = "EmployeeCreated"
	EventEmployeeUpdated         = "EmployeeUpdated"
	EventEmployeeProfileUpdated  = "EmployeeProfileUpdated"
	EventEmployeePasswordChanged = "EmployeePasswordChanged"
	EventEmployeeLoggedIn        = "EmployeeLoggedIn"
	EventEmployeeLoggedOut       = "EmployeeLoggedOut"
	EventEmployeeDeleted         = "EmployeeDeleted"
)

type EmployeeCreated struct {
	EmployeeID   string    `json:"employee_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// EmployeeUpdated is emitted by the employees page; it also covers
// permission toggles.
type EmployeeUpdated struct {
	EmployeeID  string    `json:"employee_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EmployeeProfileUpdated is emitted when employees edit their own profile
type EmployeeProfileUpdated struct {
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Bio        string    `json:"bio"`
	AvatarURL  string    `json:"avatar_url"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type EmployeePasswordChanged struct {
	EmployeeID   string    `json:"employee_id"`
	PasswordHash string    `json:"password_hash"`
	ChangedAt    time.Time `json:"changed_at"`
}

type EmployeeLoggedIn struct {
	EmployeeID string    `json:"employee_id"`
	SessionID  string    `json:"session_id"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	LoggedAt   time.Time `json:"logged_at"`
}

type EmployeeLoggedOut struct {
	EmployeeID string    `json:"employee_id"`
	SessionID  string    `json:"session_id"`
	LoggedAt   time.Time `json:"logged_at"`
}

type EmployeeDeleted struct {
	EmployeeID string    `json:"employee_id"`
	DeletedAt  time.Time `json:"deleted_at"`
}
