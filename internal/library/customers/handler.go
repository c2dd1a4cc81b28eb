package customers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"LARS-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/customers", h.List)
	r.POST("/customers", h.Create)
	r.POST("/signup", h.Create) // サインアップは同じ処理
	r.GET("/customers/search", h.Search)
	r.GET("/customers/:id", h.Get)
	r.PUT("/customers/:id", h.Update)
	r.DELETE("/customers/:id", h.Delete)
}

// GET /customers
func (h *Handler) List(c *gin.Context) {
	res, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /customers, POST /signup
func (h *Handler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.Header("Location", "/customers/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

// GET /customers/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "id must be a number"))
		return
	}
	res, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /customers/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "id must be a number"))
		return
	}
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /customers/:id
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
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted successfully"})
}

// GET /customers/search
func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if v := c.Query("id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			q.ID = &id
		}
	}
	if v := c.Query("firstName"); v != "" {
		q.FirstName = &v
	}
	if v := c.Query("lastName"); v != "" {
		q.LastName = &v
	}
	if v := c.Query("email"); v != "" {
		q.Email = &v
	}
	if v := c.Query("phoneNumber"); v != "" {
		q.PhoneNumber = &v
	}
	if v := c.Query("city"); v != "" {
		q.City = &v
	}
	if v := c.Query("username"); v != "" {
		q.Username = &v
	}
	if v := c.Query("role"); v != "" {
		q.Role = &v
	}
	res, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.JSON(http.StatusOK, res)
}
