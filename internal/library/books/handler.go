package books

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"LARS-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/books", h.List)
	r.POST("/books", h.Create)
	r.DELETE("/books/:id", h.Delete)
	r.GET("/books/search", h.Search)
}

// ゲスト閲覧用。認証グループの外で登録する。
func RegisterGuestRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/guest/books", h.GuestList)
}

// GET /books
func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /books
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.Header("Location", "/books/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

// DELETE /books/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "id must be a number"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted successfully"})
}

// GET /books/search
func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if v := c.Query("name"); v != "" {
		q.Name = &v
	}
	if v := c.Query("author"); v != "" {
		q.Author = &v
	}
	if v := c.Query("publishYear"); v != "" {
		q.PublishYear = &v
	}
	res, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /guest/books
func (h *Handler) GuestList(c *gin.Context) {
	res, err := h.svc.GuestList(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
