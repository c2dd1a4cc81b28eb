package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LARS-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/login", h.Login)

	// role限定のビュー。roleはリクエストのたびにstoreで確認する。
	r.GET("/manager", RequireAuth(svc.Secret()), RequireRole(svc, "manager"), h.ManagerDashboard)
	r.GET("/user", RequireAuth(svc.Secret()), RequireRole(svc, "user"), h.UserDashboard)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "username or password missing"))
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": res.Token,
		"role":         res.Role,
		"message":      "Login successful",
	})
}

// GET /manager
func (h *Handler) ManagerDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Manager Dashboard"})
}

// GET /user
func (h *Handler) UserDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the User Dashboard"})
}
