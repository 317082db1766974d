package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/auth"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/store"
)

const (
	minPasswordLen  = 6
	passwordTooLong = "Password must be at most 72 bytes long"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Answer   string `json:"answer"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email       string `json:"email"`
	Answer      string `json:"answer"`
	NewPassword string `json:"newPassword"`
}

// profileRequest has no email: the address used to sign in cannot be changed.
type profileRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// firstMissing returns the label of the first empty field, in order.
func firstMissing(fields ...[2]string) string {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return f[0]
		}
	}
	return ""
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	req.Answer = strings.TrimSpace(req.Answer)

	if missing := firstMissing(
		[2]string{"Name", req.Name},
		[2]string{"Email", req.Email},
		[2]string{"Password", req.Password},
		[2]string{"Phone", req.Phone},
		[2]string{"Address", req.Address},
		[2]string{"Answer", req.Answer},
	); missing != "" {
		badRequest(c, missing+" is Required")
		return
	}
	if err := h.validate.Var(req.Email, "email"); err != nil {
		badRequest(c, "Invalid email format")
		return
	}
	if len(req.Password) > auth.MaxPasswordLen {
		badRequest(c, passwordTooLong)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Users.FindByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Already registered, please login"})
		return
	} else if !isNotFound(err) {
		serverError(c, "Error in registration", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(c, "Error in registration", err)
		return
	}
	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		Address:  req.Address,
		Answer:   req.Answer,
		Role:     models.RoleCustomer,
	}
	if err := h.store.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Already registered, please login"})
			return
		}
		serverError(c, "Error in registration", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		notFound(c, "Invalid email or password")
		return
	}

	user, err := h.store.Users.FindByEmail(c.Request.Context(), req.Email)
	if isNotFound(err) {
		notFound(c, "Email is not registered")
		return
	}
	if err != nil {
		serverError(c, "Error in login", err)
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid Password"})
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		serverError(c, "Error in login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successfully",
		"user": gin.H{
			"_id":     user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"phone":   user.Phone,
			"address": user.Address,
			"role":    user.Role,
		},
		"token": token,
	})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Answer = strings.TrimSpace(req.Answer)
	switch {
	case req.Email == "":
		badRequest(c, "Email is required")
		return
	case req.Answer == "":
		badRequest(c, "Answer is required")
		return
	case req.NewPassword == "":
		badRequest(c, "New Password is required")
		return
	case len(req.NewPassword) > auth.MaxPasswordLen:
		badRequest(c, passwordTooLong)
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.Users.FindByEmailAndAnswer(ctx, req.Email, req.Answer)
	if isNotFound(err) {
		notFound(c, "Wrong Email Or Answer")
		return
	}
	if err != nil {
		serverError(c, "Something went wrong", err)
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		serverError(c, "Something went wrong", err)
		return
	}
	if err := h.store.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		serverError(c, "Something went wrong", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password Reset Successfully"})
}

func (h *Handler) Test(c *gin.Context) {
	c.String(http.StatusOK, "Protected Routes")
}

// AuthOK backs the SPA's route guards.
func (h *Handler) AuthOK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, _ := auth.UserID(c)
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.Password != "" && len(req.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required and 6 character long"})
		return
	}
	if len(req.Password) > auth.MaxPasswordLen {
		badRequest(c, passwordTooLong)
		return
	}

	var upd models.ProfileUpdate
	if v := strings.TrimSpace(req.Name); v != "" {
		upd.Name = &v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		upd.Phone = &v
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		upd.Address = &v
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			serverError(c, "Error while updating profile", err)
			return
		}
		upd.Password = &hash
	}

	user, err := h.store.Users.UpdateProfile(c.Request.Context(), userID, upd)
	if isNotFound(err) {
		notFound(c, "User not found")
		return
	}
	if err != nil {
		serverError(c, "Error while updating profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Profile Updated Successfully",
		"updatedUser": user,
	})
}
