package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rathinsam/Vehicle-Parking-app/internal/dashboard"
	"github.com/rathinsam/Vehicle-Parking-app/internal/domain"
	vm "github.com/rathinsam/Vehicle-Parking-app/internal/viewmodel"
)

type PageHandler struct {
	app     *dashboard.App
	actions map[string]gin.HandlerFunc
}

func NewPageHandler(app *dashboard.App) *PageHandler {
	h := &PageHandler{app: app}
	h.actions = map[string]gin.HandlerFunc{
		"login/login":             h.Login,
		"register/register":       h.Register,
		"admin_dashboard/refresh": h.RefreshAdminDashboard,
		"admin_lots/add":          h.AddLot,
		"admin_lots/update":       h.UpdateLot,
		"admin_lots/delete":       h.DeleteLot,
		"reserve/reserve":         h.Reserve,
		"reserve/release":         h.ReleaseFromReserve,
		"user_dashboard/refresh":  h.RefreshUserDashboard,
		"user_dashboard/release":  h.ReleaseFromDashboard,
		"user_history/export":     h.Export,

		"login/goto_register":         h.goTo(vm.PageLogin, func(p any) { p.(*vm.Login).GoToRegister() }),
		"register/goto_login":         h.goTo(vm.PageRegister, func(p any) { p.(*vm.Register).GoToLogin() }),
		"admin_dashboard/goto_lots":   h.goTo(vm.PageAdminDashboard, func(p any) { p.(*vm.AdminDashboard).GoToLotManagement() }),
		"admin_lots/goto_back":        h.goTo(vm.PageAdminLots, func(p any) { p.(*vm.LotManagement).GoBack() }),
		"reserve/goto_back":           h.goTo(vm.PageReserve, func(p any) { p.(*vm.Reserve).GoBack() }),
		"user_dashboard/goto_reserve": h.goTo(vm.PageUserDashboard, func(p any) { p.(*vm.UserDashboard).GoToReserve() }),
		"user_dashboard/goto_history": h.goTo(vm.PageUserDashboard, func(p any) { p.(*vm.UserDashboard).GoToHistory() }),
		"user_history/goto_back":      h.goTo(vm.PageUserHistory, func(p any) { p.(*vm.UserHistory).GoBack() }),
	}
	return h
}

// POST /pages/:page/:action[/:id]
func (h *PageHandler) Action(c *gin.Context) {
	if c.Param("action") == "logout" {
		h.Logout(c)
		return
	}
	fn, ok := h.actions[c.Param("page")+"/"+c.Param("action")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown action"})
		return
	}
	fn(c)
}

func pagePath(p vm.Page) string { return "/pages/" + string(p) }

func (h *PageHandler) page(c *gin.Context) (vm.Page, bool) {
	p, err := dashboard.ParsePage(c.Param("page"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return "", false
	}
	return p, true
}

// GET /pages/:page
func (h *PageHandler) Open(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	if to := h.app.Open(c.Request.Context(), p); to != p {
		c.Redirect(http.StatusSeeOther, pagePath(to))
		return
	}
	c.JSON(http.StatusOK, h.app.Snapshot(p))
}

// GET /pages/:page/state
func (h *PageHandler) State(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.app.Snapshot(p))
}

// POST /pages/:page/logout
func (h *PageHandler) Logout(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	h.app.Logout(p)
	c.Redirect(http.StatusSeeOther, pagePath(vm.PageLogin))
}

// act runs an action on page p and answers with the page snapshot, or a
// redirect when the action navigated elsewhere.
func (h *PageHandler) act(c *gin.Context, p vm.Page, fn func(ctx context.Context, page any) error) {
	ctx := c.Request.Context()
	to, err := h.app.Do(ctx, p, func(page any) error { return fn(ctx, page) })
	if to != p {
		c.Redirect(http.StatusSeeOther, pagePath(to))
		return
	}

	status := http.StatusOK
	var verr *vm.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case err != nil:
		status = http.StatusBadGateway
	}
	c.JSON(status, h.app.Snapshot(p))
}

// goTo wraps a page's navigation method as an action. The answer is always a
// redirect to wherever the page sent the user.
func (h *PageHandler) goTo(p vm.Page, fn func(page any)) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.act(c, p, func(_ context.Context, page any) error {
			fn(page)
			return nil
		})
	}
}

func bindCredentials(c *gin.Context) (credentialsBody, bool) {
	var creds credentialsBody
	if err := c.ShouldBindWith(&creds, bindingFor(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return creds, false
	}
	return creds, true
}

// POST /pages/login/login
func (h *PageHandler) Login(c *gin.Context) {
	creds, ok := bindCredentials(c)
	if !ok {
		return
	}
	h.act(c, vm.PageLogin, func(ctx context.Context, page any) error {
		return page.(*vm.Login).Login(ctx, creds.Username, creds.Password)
	})
}

// POST /pages/register/register
func (h *PageHandler) Register(c *gin.Context) {
	creds, ok := bindCredentials(c)
	if !ok {
		return
	}
	h.act(c, vm.PageRegister, func(ctx context.Context, page any) error {
		return page.(*vm.Register).Register(ctx, creds.Username, creds.Password)
	})
}

// POST /pages/admin_dashboard/refresh
func (h *PageHandler) RefreshAdminDashboard(c *gin.Context) {
	h.act(c, vm.PageAdminDashboard, func(ctx context.Context, page any) error {
		page.(*vm.AdminDashboard).Refresh(ctx)
		return nil
	})
}

// POST /pages/admin_lots/add
func (h *PageHandler) AddLot(c *gin.Context) {
	var form domain.LotForm
	if err := c.ShouldBindWith(&form, bindingFor(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.act(c, vm.PageAdminLots, func(ctx context.Context, page any) error {
		return page.(*vm.LotManagement).AddLot(ctx, form)
	})
}

// POST /pages/admin_lots/update
func (h *PageHandler) UpdateLot(c *gin.Context) {
	var lot domain.Lot
	if err := c.ShouldBindJSON(&lot); err != nil || lot.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a lot with an id is required"})
		return
	}
	h.act(c, vm.PageAdminLots, func(ctx context.Context, page any) error {
		return page.(*vm.LotManagement).UpdateLot(ctx, lot)
	})
}

// POST /pages/admin_lots/delete/:id
func (h *PageHandler) DeleteLot(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lot id"})
		return
	}
	h.act(c, vm.PageAdminLots, func(ctx context.Context, page any) error {
		return page.(*vm.LotManagement).DeleteLot(ctx, id)
	})
}

// POST /pages/reserve/reserve/:id
func (h *PageHandler) Reserve(c *gin.Context) {
	lotID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lot id"})
		return
	}
	h.act(c, vm.PageReserve, func(ctx context.Context, page any) error {
		return page.(*vm.Reserve).Reserve(ctx, lotID)
	})
}

// POST /pages/reserve/release
func (h *PageHandler) ReleaseFromReserve(c *gin.Context) {
	h.act(c, vm.PageReserve, func(ctx context.Context, page any) error {
		return page.(*vm.Reserve).Release(ctx)
	})
}

// POST /pages/user_dashboard/refresh
func (h *PageHandler) RefreshUserDashboard(c *gin.Context) {
	h.act(c, vm.PageUserDashboard, func(ctx context.Context, page any) error {
		page.(*vm.UserDashboard).Refresh(ctx)
		return nil
	})
}

// POST /pages/user_dashboard/release
func (h *PageHandler) ReleaseFromDashboard(c *gin.Context) {
	h.act(c, vm.PageUserDashboard, func(ctx context.Context, page any) error {
		return page.(*vm.UserDashboard).Release(ctx)
	})
}

// POST /pages/user_history/export
func (h *PageHandler) Export(c *gin.Context) {
	h.act(c, vm.PageUserHistory, func(ctx context.Context, page any) error {
		return page.(*vm.UserHistory).Export(ctx)
	})
}
