package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Garciabraganca/COSTABURGUER-sub001/controllers"
	"github.com/Garciabraganca/COSTABURGUER-sub001/database"
	"github.com/Garciabraganca/COSTABURGUER-sub001/middlewares"
	"github.com/Garciabraganca/COSTABURGUER-sub001/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserRouter(db *gorm.DB) *gin.Engine {
	uc := controllers.NewUserController(db, false)

	r := gin.New()
	r.POST("/auth/login", uc.Login)
	r.POST("/auth/logout", uc.Logout)

	admin := r.Group("/admin", middlewares.AuthMiddleware())
	admin.GET("/me", uc.GetProfile)
	users := admin.Group("/users", middlewares.RequireRoles(models.RoleAdmin))
	users.GET("", uc.GetAllUsers)
	users.POST("", uc.CreateUser)
	users.DELETE("/:id", uc.DeleteUser)
	return r
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeData(t, env, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestLoginSetsSessionCookie(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.SeedAdmin(db, "admin@costaburguer.com", "segredo123"))
	r := setupUserRouter(db)

	w, env := doJSON(t, r, http.MethodPost, "/auth/login",
		gin.H{"email": "ADMIN@costaburguer.com", "password": "segredo123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Status)

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.NotContains(t, w.Body.String(), "segredo123")

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/admin/me", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin@costaburguer.com")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.SeedAdmin(db, "admin@costaburguer.com", "segredo123"))
	r := setupUserRouter(db)

	w, env := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "admin@costaburguer.com", "password": "errada"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", env.Error)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "ninguem@costaburguer.com", "password": "segredo123"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/login", gin.H{"email": "admin@costaburguer.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.SeedAdmin(db, "admin@costaburguer.com", "segredo123"))
	r := setupUserRouter(db)
	token := login(t, r, "admin@costaburguer.com", "segredo123")

	w, _ := doJSON(t, r, http.MethodGet, "/admin/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/admin/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserManagement(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.SeedAdmin(db, "admin@costaburguer.com", "segredo123"))
	r := setupUserRouter(db)
	token := login(t, r, "admin@costaburguer.com", "segredo123")

	w, env := doJSON(t, r, http.MethodPost, "/admin/users", gin.H{
		"name":     "Cozinha",
		"email":    "cozinha@costaburguer.com",
		"password": "panela123",
		"role":     "kitchen",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.User
	decodeData(t, env, &created)
	assert.Equal(t, models.RoleKitchen, created.Role)

	w, _ = doJSON(t, r, http.MethodPost, "/admin/users", gin.H{
		"name":     "Outra",
		"email":    "cozinha@costaburguer.com",
		"password": "panela123",
		"role":     "KITCHEN",
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/admin/users", gin.H{
		"name":     "Chef",
		"email":    "chef@costaburguer.com",
		"password": "panela123",
		"role":     "CHEF",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/admin/users", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var users []models.User
	decodeData(t, env, &users)
	assert.Len(t, users, 2)

	// kitchen staff cannot manage users
	kitchen := login(t, r, "cozinha@costaburguer.com", "panela123")
	w, _ = doJSON(t, r, http.MethodGet, "/admin/users", nil, kitchen)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/users/%d", created.ID), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/users/%d", created.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.SeedAdmin(db, "admin@costaburguer.com", "segredo123"))
	r := setupUserRouter(db)
	token := login(t, r, "admin@costaburguer.com", "segredo123")

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@costaburguer.com").First(&admin).Error)
	w, env := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/users/%d", admin.ID), nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, strings.Contains(env.Message, "own account"))
}
