package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
)

// AdminHandlers serves account administration
type AdminHandlers struct {
	authSvc domain.AuthService
}

func NewAdminHandlers(authSvc domain.AuthService) *AdminHandlers {
	return &AdminHandlers{authSvc: authSvc}
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin manager super-admin"`
}

// ChangeRole sets the role of the user in the path
func (h *AdminHandlers) ChangeRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		_ = c.Error(&domain.ValidationError{Fields: []domain.FieldError{{Path: "id", Message: "Id must be a positive number"}}})
		return
	}

	var req ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authSvc.ChangeRole(c.Request.Context(), uint(id), req.Role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	respond(c, http.StatusOK, "User role updated", newUserView(user), nil)
}
