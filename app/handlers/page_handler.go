package handlers

import (
	"net/http"

	"github.com/designdekhoo/catalog-api/app/middlewares"
	"github.com/unrolled/render"
)

// PageHandler serves the two server-rendered pages the redirect-style auth
// flow needs; everything else on the dashboard is client-driven JSON.
type PageHandler struct {
	render *render.Render
}

func NewPageHandler(r *render.Render) *PageHandler {
	return &PageHandler{render: r}
}

func (h *PageHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	_ = h.render.HTML(w, http.StatusOK, "auth/login", map[string]interface{}{
		"Title": "Login",
	})
}

func (h *PageHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	_ = h.render.HTML(w, http.StatusOK, "dashboard/index", map[string]interface{}{
		"Title": "Dashboard",
		"Owner": owner,
	})
}
