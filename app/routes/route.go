package routes

import (
	"net/http"

	"github.com/designdekhoo/catalog-api/app/configs"
	"github.com/designdekhoo/catalog-api/app/handlers"
	"github.com/designdekhoo/catalog-api/app/middlewares"
	"github.com/designdekhoo/catalog-api/app/repositories"
	"github.com/designdekhoo/catalog-api/app/services"
	"github.com/designdekhoo/catalog-api/app/utils/renderer"
	"github.com/designdekhoo/catalog-api/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, env configs.ENV, keys *configs.SessionKeys, imageStore services.ImageStore) *mux.Router {
	rnd := renderer.New()
	validate := validator.New()

	ownerRepo := repositories.NewShopOwnerRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	materialRepo := repositories.NewMaterialRepository(db)
	furnitureRepo := repositories.NewFurnitureRepository(db)

	tokens := services.NewTokenService(env.JWTSecret)
	lifecycle := services.NewImageLifecycle(imageStore)
	mailer := services.NewMailer(services.MailConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})
	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)

	auth := middlewares.NewAuthenticator(tokens, ownerRepo, sessionStore, rnd)

	authHandler := handlers.NewAuthHandler(rnd, ownerRepo, tokens, mailer, sessionStore, validate, env.AppURL)
	categoryHandler := handlers.NewCategoryHandler(rnd, categoryRepo, furnitureRepo)
	materialHandler := handlers.NewMaterialHandler(rnd, materialRepo, furnitureRepo)
	productHandler := handlers.NewProductHandler(rnd, furnitureRepo, lifecycle, validate)
	catalogHandler := handlers.NewCatalogHandler(rnd, furnitureRepo)
	pageHandler := handlers.NewPageHandler(rnd)

	router := mux.NewRouter()

	router.HandleFunc("/", catalogHandler.Health).Methods("GET")

	authAPI := router.PathPrefix("/api/auth").Subrouter()
	authAPI.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	authAPI.HandleFunc("/login", authHandler.Login).Methods("POST")
	authAPI.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	authAPI.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods("POST")
	authAPI.HandleFunc("/reset-password/{token}", authHandler.ResetPassword).Methods("POST")
	authAPI.Handle("/me", auth.RequireAPI(http.HandlerFunc(authHandler.Me))).Methods("GET")
	authAPI.Handle("/me", auth.RequireAPI(http.HandlerFunc(authHandler.UpdateProfile))).Methods("PUT")

	categoriesAPI := router.PathPrefix("/api/categories").Subrouter()
	categoriesAPI.Use(auth.RequireAPI)
	categoriesAPI.HandleFunc("", categoryHandler.Create).Methods("POST")
	categoriesAPI.HandleFunc("", categoryHandler.List).Methods("GET")
	categoriesAPI.HandleFunc("/{id}", categoryHandler.Update).Methods("PUT")
	categoriesAPI.HandleFunc("/{id}", categoryHandler.Delete).Methods("DELETE")

	materialsAPI := router.PathPrefix("/api/materials").Subrouter()
	materialsAPI.Use(auth.RequireAPI)
	materialsAPI.HandleFunc("", materialHandler.Create).Methods("POST")
	materialsAPI.HandleFunc("", materialHandler.List).Methods("GET")
	materialsAPI.HandleFunc("/{id}", materialHandler.Update).Methods("PUT")
	materialsAPI.HandleFunc("/{id}", materialHandler.Delete).Methods("DELETE")

	productsAPI := router.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(auth.RequireAPI)
	productsAPI.HandleFunc("", productHandler.Create).Methods("POST")
	productsAPI.HandleFunc("/my", productHandler.ListMine).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.GetByID).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.Update).Methods("PUT")
	productsAPI.HandleFunc("/{id}", productHandler.Delete).Methods("DELETE")

	router.HandleFunc("/api/catalog", catalogHandler.Search).Methods("GET")
	router.HandleFunc("/api/catalog/shop/{shopId}", catalogHandler.ShopCatalog).Methods("GET")

	csrfProtect := csrf.Protect(keys.AuthKey, csrf.Secure(env.AppEnv == "production"))
	pages := router.NewRoute().Subrouter()
	pages.Use(csrfProtect)
	pages.HandleFunc("/login", pageHandler.LoginPage).Methods("GET")
	pages.Handle("/dashboard", auth.RequirePage(http.HandlerFunc(pageHandler.DashboardPage))).Methods("GET")

	return router
}
