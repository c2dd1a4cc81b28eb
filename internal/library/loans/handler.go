package loans

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"LARS-backend/internal/platform/apperr"
	"LARS-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/loans", h.ListActive)
	r.POST("/loans", h.Open)
	r.DELETE("/loans/:id", h.Close) // 返却
	r.GET("/loans/late", h.ListLate)
}

// 認証必須のルート。認証ミドルウェア付きのグループに登録すること。
func RegisterCustomerRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/customers/me/books", h.MyBooks)
}

// GET /loans
func (h *Handler) ListActive(c *gin.Context) {
	res, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /loans
func (h *Handler) Open(c *gin.Context) {
	var req OpenLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.Open(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.Header("Location", "/loans/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

// DELETE /loans/:id
func (h *Handler) Close(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "id must be a number"))
		return
	}
	res, err := h.svc.Close(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /loans/late
func (h *Handler) ListLate(c *gin.Context) {
	res, err := h.svc.ListLate(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /customers/me/books
func (h *Handler) MyBooks(c *gin.Context) {
	username := c.GetString(auth.CtxUserIDKey)
	if username == "" {
		c.JSON(http.StatusUnauthorized, apperr.Body(apperr.CodeUnauthorized, "missing identity"))
		return
	}
	res, err := h.svc.MyBooks(c.Request.Context(), username)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
