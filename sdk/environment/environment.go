// Package environment loads process configuration from environment variables
// and optional .env files. Keys can be namespaced with a prefix so several
// services sharing one environment do not collide.
package environment

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory if one exists.
// A missing file is not an error; the process environment is used as is.
func LoadEnv() error {
	return LoadPath("")
}

// LoadPath loads variables from the file at p, or from ./.env when p is empty.
// Variables already present in the process environment win.
//
//	if err := environment.LoadPath("/etc/tasker/.env"); err != nil {
//	    log.Printf("no env file: %v", err)
//	}
func LoadPath(p string) error {
	if p == "" {
		if _, err := os.Stat(".env"); os.IsNotExist(err) {
			return nil
		}
		return godotenv.Load()
	}
	return godotenv.Load(p)
}

// GetEnvOrDefault returns the value of key or fallback when it is unset.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetNamespaceEnvKey joins namespace and key with an underscore.
//
//	GetNamespaceEnvKey("TASKER", "PORT") // "TASKER_PORT"
//	GetNamespaceEnvKey("", "PORT")       // "PORT"
func GetNamespaceEnvKey(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", namespace, key)
}

// GetNamespaceEnvOrDefault looks up a namespaced key, returning fallback when unset.
func GetNamespaceEnvOrDefault(namespace, key, fallback string) string {
	return GetEnvOrDefault(GetNamespaceEnvKey(namespace, key), fallback)
}
