package api

import (
	"net/http" // HTTP status codes

	"consciousbet/internal/domain"  // Domain models
	"consciousbet/internal/service" // Business operations

	"github.com/gin-gonic/gin" // Gin web framework
)

// UserRequest is the full profile, used by POST and PUT
type UserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`  // Display name
	Email string `json:"email" binding:"required,email,max=150"` // Unique email
	Age   int    `json:"age" binding:"required,gte=18,lte=120"`  // Must be an adult
}

// UserPatchRequest changes only the supplied fields
type UserPatchRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100"`  // Display name
	Email *string `json:"email" binding:"omitempty,email,max=150"` // Unique email
	Age   *int    `json:"age" binding:"omitempty,gte=18,lte=120"`  // Must be an adult
}

// CreateUserHandler stores a new profile
func CreateUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserRequest
		if !bindJSON(c, &req) {
			return
		}
		user := &domain.User{Name: req.Name, Email: req.Email, Age: req.Age}
		if err := users.Create(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toUserResponse(user))
	}
}

// ListUsersPageHandler returns one page of users
func ListUsersPageHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		list, total, err := users.Page(c.Request.Context(), page)
		if err != nil {
			respondError(c, err)
			return
		}
		paged(c, "users", toUserResponses(list), page, total)
	}
}

// ListUsersHandler returns every user
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponses(list))
	}
}

func CountUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := users.Count(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}

// UserExistsHandler reports whether an email is registered
func UserExistsHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		exists, err := users.ExistsByEmail(c.Request.Context(), c.Param("email"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"exists": exists})
	}
}

func GetUserByEmailHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindByEmail(c.Request.Context(), c.Param("email"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

func GetUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		user, err := users.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// ReplaceUserHandler overwrites the whole profile
func ReplaceUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req UserRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.Update(c.Request.Context(), id, service.UpdateUser{Name: &req.Name, Email: &req.Email, Age: &req.Age})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// PatchUserHandler changes only the fields present in the body
func PatchUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req UserPatchRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := users.Update(c.Request.Context(), id, service.UpdateUser{Name: req.Name, Email: req.Email, Age: req.Age})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// DeleteUserHandler removes a user with all their bets; admin only
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
