package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User usuario del sistema; dueño de las notificaciones de tareas.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, staff
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
