package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"insurance-tracker/internal/auth"
)

func (h *handlers) dashboard(c *gin.Context) {
	page, err := h.deps.DashboardSvc.MainPage(c.Request.Context(), todayFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// counters is open to every signed-in user; only renewal managers get a
// pending renewal count.
func (h *handlers) counters(c *gin.Context) {
	counters, err := h.deps.DashboardSvc.Counters(c.Request.Context(), todayFrom(c), claimsFrom(c).Has(auth.ManageRenewals))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counters)
}

func (h *handlers) notifications(c *gin.Context) {
	ctx := c.Request.Context()
	today := todayFrom(c)
	counters, err := h.deps.DashboardSvc.Counters(ctx, today, claimsFrom(c).Has(auth.ManageRenewals))
	if err != nil {
		h.fail(c, err)
		return
	}
	items, err := h.deps.DashboardSvc.ExpiringItems(ctx, today)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counters": counters, "items": items})
}

func (h *handlers) listRenewals(c *gin.Context) {
	pending, err := h.deps.RenewalSvc.ListPending(c.Request.Context(), todayFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": pending, "total": len(pending)})
}

func (h *handlers) dismissRenewal(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}
	notice, msg, err := h.deps.RenewalSvc.Dismiss(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": notice, "message": msg})
}
