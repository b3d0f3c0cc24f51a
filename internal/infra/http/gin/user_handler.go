package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staycal/internal/app/commands"
	"staycal/internal/app/dto"
	usersapp "staycal/internal/app/handlers/users"
	"staycal/internal/app/queries"
	domainuser "staycal/internal/domain/user"
)

type UserHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h UserHandler) List(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	result, err := queries.Ask[usersapp.ListQuery, []dto.User](c.Request.Context(), h.Queries, usersapp.ListQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

func (h UserHandler) Create(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	role, err := domainuser.ParseRole(req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := usersapp.CreateCommand{Email: req.Email, Name: req.Name, Password: req.Password, Role: role}
	result, err := commands.Dispatch[usersapp.CreateCommand, dto.User](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type assignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h UserHandler) AssignRole(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	role, err := domainuser.ParseRole(req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	cmd := usersapp.AssignRoleCommand{UserID: c.Param("id"), Role: role}
	result, err := commands.Dispatch[usersapp.AssignRoleCommand, dto.User](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
