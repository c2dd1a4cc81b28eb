package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LARS-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/reports/late-loans.csv", h.LateLoansCSV)
}

// GET /reports/late-loans.csv?encoding=sjis|utf8
func (h *Handler) LateLoansCSV(c *gin.Context) {
	body, contentType, err := h.svc.ExportLateLoans(c.Request.Context(), c.Query("encoding"))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.From(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="late-loans.csv"`)
	c.Data(http.StatusOK, contentType, body)
}
