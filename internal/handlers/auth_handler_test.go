package handlers

import (
	"net/http"
	"testing"

	"reviewdeck_backend/internal/auth"
	"reviewdeck_backend/internal/models"
	"reviewdeck_backend/internal/services/dto"
	"reviewdeck_backend/internal/validator"
	"reviewdeck_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAuthService struct {
	loginResp   *dto.LoginResponse
	createdUser *dto.UserInfo
	lastCreate  *dto.CreateUserRequest
	err         error
}

func (s *stubAuthService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	return s.loginResp, s.err
}

func (s *stubAuthService) CreateUser(db *gorm.DB, req *dto.CreateUserRequest) (*dto.UserInfo, error) {
	s.lastCreate = req
	return s.createdUser, s.err
}

func newAuthTestRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), &gorm.DB{})
		c.Next()
	})

	handler := NewAuthHandler(NewBaseHandler(validator.New()), svc)
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)
	return router
}

func adminToken(t *testing.T) string {
	t.Helper()
	auth.Init("test-secret", 60)
	token, err := auth.GenerateToken("admin-1", string(models.UserRoleAdmin))
	require.NoError(t, err)
	return token
}

func clientToken(t *testing.T) string {
	t.Helper()
	auth.Init("test-secret", 60)
	token, err := auth.GenerateToken("client-1", string(models.UserRoleClient))
	require.NoError(t, err)
	return token
}

func TestLoginRoute_Success(t *testing.T) {
	svc := &stubAuthService{
		loginResp: &dto.LoginResponse{
			Token: "signed-token",
			User:  &dto.UserInfo{ID: "u1", Email: "admin@studio.test", Role: "admin"},
		},
	}
	router := newAuthTestRouter(svc)

	w, body := doRequest(t, router, "POST", "/api/v1/auth/login",
		`{"email":"admin@studio.test","password":"hunter2hunter2"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed-token", body["token"])
}

func TestAdminCreateUserRoute_NoToken(t *testing.T) {
	svc := &stubAuthService{}
	router := newAuthTestRouter(svc)

	w, _ := doRequest(t, router, "POST", "/api/v1/admin/users",
		`{"email":"new@studio.test","password":"hunter2hunter2","role":"client"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, svc.lastCreate, "service must not be called without a token")
}

func TestAdminCreateUserRoute_ClientTokenForbidden(t *testing.T) {
	svc := &stubAuthService{}
	router := newAuthTestRouter(svc)

	w, _ := doRequest(t, router, "POST", "/api/v1/admin/users",
		`{"email":"new@studio.test","password":"hunter2hunter2","role":"client"}`,
		map[string]string{"Authorization": "Bearer " + clientToken(t)})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, svc.lastCreate)
}

func TestAdminCreateUserRoute_AdminCreates(t *testing.T) {
	svc := &stubAuthService{
		createdUser: &dto.UserInfo{ID: "u2", Email: "new@studio.test", Role: "client"},
	}
	router := newAuthTestRouter(svc)

	w, body := doRequest(t, router, "POST", "/api/v1/admin/users",
		`{"email":"new@studio.test","password":"hunter2hunter2","role":"client"}`,
		map[string]string{"Authorization": "Bearer " + adminToken(t)})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u2", body["id"])

	require.NotNil(t, svc.lastCreate)
	assert.Equal(t, "new@studio.test", svc.lastCreate.Email)
}

func TestCurrentUserRoute_EchoesTokenIdentity(t *testing.T) {
	svc := &stubAuthService{}
	router := newAuthTestRouter(svc)

	w, body := doRequest(t, router, "GET", "/api/v1/auth/me", "",
		map[string]string{"Authorization": "Bearer " + adminToken(t)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin-1", body["id"])
	assert.Equal(t, "admin", body["role"])
}
