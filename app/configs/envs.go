package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	Port           string
	JWTSecret      string
	AppAuthKey     string
	AppEncKey      string
	CloudName      string
	CloudAPIKey    string
	CloudAPISecret string
	CloudFolder    string
	EmailHost      string
	EmailPort      string
	EmailUsername  string
	EmailPassword  string
	EmailFrom      string
	AppURL         string
	AppEnv         string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:         os.Getenv("DB_HOST"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		DBPort:         os.Getenv("DB_PORT"),
		Port:           os.Getenv("APP_PORT"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AppAuthKey:     os.Getenv("APP_AUTH_KEY"),
		AppEncKey:      os.Getenv("APP_ENC_KEY"),
		CloudName:      os.Getenv("CLOUD_NAME"),
		CloudAPIKey:    os.Getenv("CLOUD_API_KEY"),
		CloudAPISecret: os.Getenv("CLOUD_API_SECRET"),
		CloudFolder:    os.Getenv("CLOUD_FOLDER"),
		EmailHost:      os.Getenv("EMAIL_HOST"),
		EmailPort:      os.Getenv("EMAIL_PORT"),
		EmailUsername:  os.Getenv("EMAIL_USERNAME"),
		EmailPassword:  os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:      os.Getenv("EMAIL_USERNAME"),
		AppURL:         os.Getenv("APP_URL"),
		AppEnv:         os.Getenv("APP_ENV"),
	}

}
