//go:build mage

package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "bin/codigocerto-server"

// Swagger regenerates ./docs from the handler annotations.
func Swagger() error {
	if _, err := exec.LookPath("swag"); err != nil {
		fmt.Println(">> swag not found; install with:")
		fmt.Println("   go install github.com/swaggo/swag/cmd/swag@latest")
		return err
	}
	fmt.Println(">> swag init")
	return sh.Run("swag", "init", "-g", "cmd/main.go", "-o", "docs")
}

// Build tidies deps, then compiles to ./bin/codigocerto-server.
func Build() error {
	mg.Deps(Tidy)
	fmt.Println(">> Building server binary...")
	return sh.Run("go", "build", "-o", binary, "./cmd")
}

// Run builds then executes the binary.
func Run() error {
	mg.Deps(Build)
	fmt.Println(">> Starting server...")
	return sh.RunV("./" + binary)
}

// Dev starts the server via go run against a local SQLite database.
func Dev() error {
	fmt.Println(">> Dev mode: go run ./cmd ...")
	env := map[string]string{}
	if os.Getenv("DB_DRIVER") == "" {
		env["DB_DRIVER"] = "sqlite"
	}
	return sh.RunWithV(env, "go", "run", "./cmd")
}

// Tidy runs go mod tidy.
func Tidy() error {
	fmt.Println(">> go mod tidy...")
	return sh.Run("go", "mod", "tidy")
}

// Vet runs go vet on every package.
func Vet() error {
	return sh.Run("go", "vet", "./...")
}

// Test runs all unit tests with the race detector.
func Test() error {
	fmt.Println(">> Running tests...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs golangci-lint if available.
func Lint() error {
	if _, err := exec.LookPath("golangci-lint"); err != nil {
		fmt.Println(">> golangci-lint not found; skipping.")
		return nil
	}
	return sh.Run("golangci-lint", "run", "./...")
}

// HashPassword prints a bcrypt hash for ADMIN_PASSWORD_HASH. Reads the password from ADMIN_PASSWORD.
func HashPassword() error {
	pw := os.Getenv("ADMIN_PASSWORD")
	if pw == "" {
		return fmt.Errorf("set ADMIN_PASSWORD to the password to hash")
	}
	return sh.RunV("go", "run", "./cmd", "-hash-password", pw)
}

// Clean removes build artifacts and the local SQLite DB.
func Clean() error {
	fmt.Println(">> Cleaning...")
	os.RemoveAll("bin")
	return sh.Rm("cadastro.db")
}

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
}
