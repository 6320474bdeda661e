package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customersvc "insurance-tracker/internal/service/customer"
)

func (h *handlers) listCustomers(c *gin.Context) {
	page, err := h.deps.CustomerSvc.List(c.Request.Context(), customersvc.ListQuery{
		Search: c.Query("q"),
		Field:  c.Query("field"),
		Sort:   c.Query("sort"),
		Page:   c.Query("page"),
	}, todayFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *handlers) createCustomer(c *gin.Context) {
	var in customersvc.Input
	if !bindJSON(c, &in) {
		return
	}
	created, err := h.deps.CustomerSvc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getCustomer(c *gin.Context) {
	cust, err := h.deps.CustomerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *handlers) updateCustomer(c *gin.Context) {
	var in customersvc.Input
	if !bindJSON(c, &in) {
		return
	}
	updated, err := h.deps.CustomerSvc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteCustomer(c *gin.Context) {
	if err := h.deps.CustomerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) customerOverview(c *gin.Context) {
	o, err := h.deps.CustomerSvc.Overview(c.Request.Context(), c.Param("id"), todayFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
