package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"insurance-tracker/internal/domain"
	defectsvc "insurance-tracker/internal/service/defect"
	insurancesvc "insurance-tracker/internal/service/insurance"
	warrantysvc "insurance-tracker/internal/service/warranty"
)

func (h *handlers) createInsurance(c *gin.Context) {
	var in insurancesvc.Input
	if !bindJSON(c, &in) {
		return
	}
	in.CustomerID = c.Param("id")
	created, err := h.deps.InsuranceSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getInsurance(c *gin.Context) {
	p, err := h.deps.InsuranceSvc.Get(c.Request.Context(), c.Param("policy"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) updateInsurance(c *gin.Context) {
	var in insurancesvc.Input
	if !bindJSON(c, &in) {
		return
	}
	updated, err := h.deps.InsuranceSvc.Update(c.Request.Context(), c.Param("policy"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteInsurance(c *gin.Context) {
	if err := h.deps.InsuranceSvc.Delete(c.Request.Context(), c.Param("policy")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) createWarranty(c *gin.Context) {
	var in warrantysvc.Input
	if !bindJSON(c, &in) {
		return
	}
	in.CustomerID = c.Param("id")
	created, err := h.deps.WarrantySvc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getWarranty(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	w, err := h.deps.WarrantySvc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *handlers) updateWarranty(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in warrantysvc.Input
	if !bindJSON(c, &in) {
		return
	}
	updated, err := h.deps.WarrantySvc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteWarranty(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.deps.WarrantySvc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) createDefect(c *gin.Context) {
	var in defectsvc.Input
	if !bindJSON(c, &in) {
		return
	}
	in.CustomerID = c.Param("id")
	created, err := h.deps.DefectSvc.Create(c.Request.Context(), in, todayFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getDefect(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	d, err := h.deps.DefectSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) updateDefect(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	var in defectsvc.Input
	if !bindJSON(c, &in) {
		return
	}
	updated, err := h.deps.DefectSvc.Update(c.Request.Context(), id, in, todayFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteDefect(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	if err := h.deps.DefectSvc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) solveDefect(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	d, err := h.deps.DefectSvc.Solve(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handlers) listIncidents(c *gin.Context) {
	incidents, err := h.deps.DefectSvc.Incidents(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": incidents, "total": len(incidents)})
}

// defectDeadlines feeds the incident form, which prefills the resolution
// deadline from the customer's latest liability period.
func (h *handlers) defectDeadlines(c *gin.Context) {
	deadlines, err := h.deps.DefectSvc.LatestDeadlines(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make(map[string]string, len(deadlines))
	for id, d := range deadlines {
		out[id] = domain.FormatDate(&d)
	}
	c.JSON(http.StatusOK, out)
}
