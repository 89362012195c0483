package models

const RoleAdministrator = "Administrator"
const RoleOperator = "Operator"

type User struct {
	ID           string   `json:"id" db:"id"`
	Username     string   `json:"username" db:"username"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	IsEnable     bool     `json:"isEnable" db:"is_enable"`
	Roles        []string `json:"roles"`
}

// RoleName picks the role to assign at registration.
func RoleName(isAdministrator bool) string {
	if isAdministrator {
		return RoleAdministrator
	}
	return RoleOperator
}
