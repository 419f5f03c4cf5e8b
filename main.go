package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"labelcheck/pkg/ocr"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

func main() {
	// Auto-load ./.env if present before reading vars
	_ = godotenv.Load()
	setupLogging()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	// Support a lightweight migrate command: `./labelcheck migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration and seeding completed")
		return
	}

	initDB()

	r := gin.Default()
	setupRoutes(r)

	logrus.Infof("listening on :8081 (low_resource=%v)", lowResource())
	if err := r.Run(":8081"); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(lvl)
	}
}

// lowResource reports whether the host should trade accuracy for latency:
// fewer rotation attempts and a shorter pipeline deadline.
func lowResource() bool {
	switch os.Getenv("LOW_RESOURCE") {
	case "1", "true", "yes":
		return true
	}
	return false
}

func rotationAngles() []int {
	if lowResource() {
		return ocr.ReducedAngles
	}
	return ocr.DefaultAngles
}

// contextWithVerifyTimeout wraps the request context in the pipeline
// deadline. VERIFY_TIMEOUT (seconds) overrides the defaults.
func contextWithVerifyTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := 10 * time.Minute
	if lowResource() {
		timeout = 4 * time.Minute
	}
	if v := os.Getenv("VERIFY_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	return context.WithTimeout(parent, timeout)
}
