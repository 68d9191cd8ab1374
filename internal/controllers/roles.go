package controllers

import "github.com/zaqqye/attendance_backend/internal/models"

var allowedRoles = map[string]struct{}{
	models.RoleAdmin:   {},
	models.RoleTeacher: {},
}

func IsValidRole(role string) bool {
	_, ok := allowedRoles[role]
	return ok
}
