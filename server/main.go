package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

func main() {
	addr := flag.String("addr", GetEnv("ADDR", ":8080"), "HTTP listen address")
	clientDir := flag.String("client", GetEnv("CLIENT_DIR", ""), "Path to client directory (default: ../client)")
	dbPath := flag.String("db", GetEnv("DB_PATH", "survival.db"), "SQLite database path (empty disables the leaderboard)")
	flag.Parse()

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
	}

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			// Play works without a leaderboard
			log.Printf("database unavailable, leaderboard disabled: %v", err)
			db = nil
		}
	}

	receipts := NewReceipts(db, os.Getenv("TOKEN_SECRET"), os.Getenv("ADMIN_KEY_HASH"))
	analytics := NewAnalytics(db)

	hub := NewHub(db, receipts, analytics)
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *clientDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
	hub.Stop()
	hub.sessions.StopAll()
	analytics.Stop()
	if db != nil {
		db.Close()
	}
}
