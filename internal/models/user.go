package models

import "time"

// User is an operator account on the backend (cashier, manager).
type User struct {
	CreatedAt    time.Time `json:"created_at"`    // время создания
	UpdatedAt    time.Time `json:"updated_at"`    // время последнего обновления
	ID           string    `json:"id"`            // UUID пользователя
	Username     string    `json:"username"`      // уникальный username
	PasswordHash string    `json:"password_hash"` // argon2id хеш пароля (PHC-строка)
	Role         string    `json:"role"`
}

// Roles known to the backend.
const (
	RoleCashier = "cashier"
	RoleManager = "manager"
)
