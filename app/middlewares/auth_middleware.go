package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/designdekhoo/catalog-api/app/apperrors"
	"github.com/designdekhoo/catalog-api/app/helpers"
	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/designdekhoo/catalog-api/app/repositories"
	"github.com/designdekhoo/catalog-api/app/services"
	"github.com/designdekhoo/catalog-api/app/utils/sessions"
	"github.com/unrolled/render"
)

// Authenticator owns the one verification path both route styles share:
// extract token, verify, load the owner record. The API and page middlewares
// only differ in what they do with a failure.
type Authenticator struct {
	tokens       *services.TokenService
	owners       repositories.ShopOwnerRepositoryImpl
	sessionStore sessions.SessionStore
	render       *render.Render
}

func NewAuthenticator(tokens *services.TokenService, owners repositories.ShopOwnerRepositoryImpl, sessionStore sessions.SessionStore, r *render.Render) *Authenticator {
	return &Authenticator{
		tokens:       tokens,
		owners:       owners,
		sessionStore: sessionStore,
		render:       r,
	}
}

// Resolve authenticates a request. The token cookie is checked first, then
// the page-flow session (which stores the same signed token). The returned
// owner never carries the password hash.
func (a *Authenticator) Resolve(r *http.Request) (*models.ShopOwner, *apperrors.Error) {
	token, _ := helpers.GetCookie(r, helpers.TokenCookieName)
	if token == "" && a.sessionStore != nil {
		token = a.sessionStore.GetToken(r)
	}
	if token == "" {
		return nil, apperrors.Auth("No token, authorization denied")
	}

	ownerID, err := a.tokens.VerifySessionToken(token)
	if err != nil {
		return nil, apperrors.Auth("Token is not valid")
	}

	owner, err := a.owners.FindByID(r.Context(), ownerID)
	if err != nil {
		log.Printf("Authenticator: error loading owner %s: %v", ownerID, err)
		return nil, apperrors.Auth("Token is not valid")
	}
	if owner == nil {
		// Owner deleted between token issuance and use.
		return nil, apperrors.Auth("Token is not valid")
	}

	owner.Password = ""
	return owner, nil
}

// RequireAPI rejects unauthenticated requests with a structured 401.
func (a *Authenticator) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, authErr := a.Resolve(r)
		if authErr != nil {
			_ = a.render.JSON(w, authErr.HTTPStatus(), map[string]interface{}{"msg": authErr.Message})
			return
		}
		next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), owner)))
	})
}

// RequirePage redirects unauthenticated requests to the login page.
func (a *Authenticator) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner, authErr := a.Resolve(r)
		if authErr != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), owner)))
	})
}

func withOwner(ctx context.Context, owner *models.ShopOwner) context.Context {
	ctx = context.WithValue(ctx, helpers.ContextKeyOwnerID, owner.ID)
	return context.WithValue(ctx, helpers.ContextKeyOwner, owner)
}

// OwnerFromContext returns the authenticated owner attached by the gate.
func OwnerFromContext(ctx context.Context) *models.ShopOwner {
	owner, _ := ctx.Value(helpers.ContextKeyOwner).(*models.ShopOwner)
	return owner
}
