package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"medstock/m/internal/api"
	"medstock/m/internal/config"
	"medstock/m/internal/database"
	"medstock/m/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabasePath)
	defer db.Close()

	kv, err := store.NewSQLiteKV(db)
	if err != nil {
		log.Fatalf("prepare store: %v", err)
	}
	st := store.New(kv)
	if err := st.Init(); err != nil {
		log.Fatalf("initialize collections: %v", err)
	}

	handler := api.New(st, cfg.Secret)

	log.Printf("MedStock server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
