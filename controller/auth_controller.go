package controller

import (
	"net/http"

	"github.com/Itish41/portfolio-cms/middleware"
	services "github.com/Itish41/portfolio-cms/service"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{svc: svc}
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, badRequest(err), "Invalid login request")
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	token, user, err := ac.svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		fail(c, err, "Error logging in")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (ac *AuthController) Me(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := ac.svc.Me(ctx, id)
	if err != nil {
		fail(c, err, "Error fetching user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) CreateUser(c *gin.Context) {
	var in services.NewUser
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, badRequest(err), "Invalid user")
		return
	}
	id, _ := middleware.CurrentIdentity(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	user, err := ac.svc.CreateUser(ctx, id, in)
	if err != nil {
		fail(c, err, "Error creating user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (ac *AuthController) ListUsers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	users, err := ac.svc.ListUsers(ctx)
	if err != nil {
		fail(c, err, "Error fetching users")
		return
	}
	c.JSON(http.StatusOK, users)
}
