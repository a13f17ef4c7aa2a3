package main

import (
	"log"
	"net/http"
	"os"

	"github.com/designdekhoo/catalog-api/app/cmd"
	"github.com/designdekhoo/catalog-api/app/configs"
	"github.com/designdekhoo/catalog-api/app/routes"
	"github.com/designdekhoo/catalog-api/app/services"
)

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli(env)
		return
	}

	if env.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty! Please check your .env file.")
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	keys, err := configs.LoadSessionKeysFromEnv(env)
	if err != nil {
		log.Fatal("Session keys failed to load:", err)
	}
	log.Println("✅ Session keys loaded.")

	imageStore, err := services.NewCloudinaryStore(services.CloudinaryConfig{
		CloudName: env.CloudName,
		APIKey:    env.CloudAPIKey,
		APISecret: env.CloudAPISecret,
		Folder:    env.CloudFolder,
	})
	if err != nil {
		log.Fatal("Image store failed to init:", err)
	}
	log.Println("✅ Image store initialized.")

	router := routes.NewRouter(db, env, keys, imageStore)

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}

}
