package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/middlewares"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errInvalidCredentials = utils.NewError(utils.KindUnauthorized, "invalid credentials")

type UserController struct {
	DB           *gorm.DB
	SecureCookie bool
}

func NewUserController(db *gorm.DB, secureCookie bool) *UserController {
	return &UserController{DB: db, SecureCookie: secureCookie}
}

// Login checks the credentials and issues a JWT, both in the session cookie
// and in the response body.
func (uc *UserController) Login(c *gin.Context) {
	if uc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}

	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		utils.RespondFailure(c, err)
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := uc.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondFailure(c, err)
			return
		}
		utils.RespondFailure(c, errInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondFailure(c, errInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, token, int(utils.TokenTTL().Seconds()), "/", "", uc.SecureCookie, true)

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the current token and clears the cookie.
func (uc *UserController) Logout(c *gin.Context) {
	if token := middlewares.TokenFromRequest(c); token != "" {
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		} else {
			utils.BlacklistToken(token, time.Now().Add(utils.TokenTTL()))
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, "", -1, "/", "", uc.SecureCookie, true)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile returns the authenticated staff member.
func (uc *UserController) GetProfile(c *gin.Context) {
	if uc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, middlewares.CurrentUserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondFailure(c, utils.NewError(utils.KindNotFound, "user not found"))
			return
		}
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}

func (uc *UserController) GetAllUsers(c *gin.Context) {
	if uc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}

	var users []models.User
	if err := uc.DB.Order("name asc").Find(&users).Error; err != nil {
		utils.RespondFailure(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// CreateUser registers a staff account.
func (uc *UserController) CreateUser(c *gin.Context) {
	if uc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"`
	}
	if err := bindJSON(c, &req); err != nil {
		utils.RespondFailure(c, err)
		return
	}
	role := strings.ToUpper(req.Role)
	if !models.ValidRole(role) {
		utils.RespondFailure(c, utils.NewError(utils.KindValidation, "invalid role %q", req.Role))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
		Role:     role,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondFailure(c, utils.NewError(utils.KindConflict, "email %s is already registered", user.Email))
			return
		}
		utils.RespondFailure(c, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", user)
}

// DeleteUser removes a staff account. Admins cannot delete themselves.
func (uc *UserController) DeleteUser(c *gin.Context) {
	if uc.DB == nil {
		utils.RespondFailure(c, utils.ErrServiceUnavailable)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		utils.RespondFailure(c, err)
		return
	}
	if id == middlewares.CurrentUserID(c) {
		utils.RespondFailure(c, utils.NewError(utils.KindConflict, "cannot delete your own account"))
		return
	}

	res := uc.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		utils.RespondFailure(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondFailure(c, utils.NewError(utils.KindNotFound, "user not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", nil)
}
