package config

import (
	"fmt"
	"os"
)

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// GetDriver selects the database backend. Postgres in production;
// sqlite is used by tests and small deployments.
func GetDriver() string {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		return "postgres"
	}
	return driver
}

func GetDSN() string {
	if GetDriver() == "sqlite" {
		name := os.Getenv("DATABASE_NAME")
		if name == "" {
			name = "airline.db"
		}
		return name
	}
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

func GetServerAddr() string {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
