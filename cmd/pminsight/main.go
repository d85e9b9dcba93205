package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/pminsight/client/internal/api"
	"github.com/pminsight/client/internal/config"
	"github.com/pminsight/client/internal/controllers"
	"github.com/pminsight/client/internal/eventbus"
	"github.com/pminsight/client/internal/reports"
	"github.com/pminsight/client/internal/session"
)

func main() {
	cfg := config.Load()

	store := session.NewFileStore(cfg.StoragePath)
	sess := session.New(store)
	client := api.New(cfg.APIBaseURL, sess, cfg.Timeout)
	bus := eventbus.Default

	ctx := context.Background()

	if !sess.Authenticated() {
		viper.BindEnv("auth.username", "PMINSIGHT_USERNAME")
		viper.BindEnv("auth.password", "PMINSIGHT_PASSWORD")
		username := viper.GetString("auth.username")
		password := viper.GetString("auth.password")
		if username == "" || password == "" {
			log.Fatal("No stored session and no PMINSIGHT_USERNAME/PMINSIGHT_PASSWORD provided")
		}
		if _, err := client.Login(ctx, username, password); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}

	principal := sess.Principal()
	log.Printf("Signed in as %s (%s)", principal.DisplayName, principal.Role)

	dashboard := controllers.NewDashboard(client, bus)
	solicitudes := controllers.NewSolicitudes(client, bus, sess)
	atencion := controllers.NewAtencion(client, bus, sess)
	defer dashboard.Close()
	defer solicitudes.Close()
	defer atencion.Close()

	if err := dashboard.Load(ctx); err != nil {
		log.Fatalf("Failed to load dashboard: %v", err)
	}
	if err := solicitudes.Load(ctx); err != nil {
		log.Printf("Failed to load solicitudes: %v", err)
	}
	if err := atencion.Load(ctx); err != nil {
		log.Printf("Failed to load atención queue: %v", err)
	}

	summary := dashboard.Summary()
	log.Printf("Pendientes de atención: %d", summary.PendingAttention)
	log.Printf("Pendientes de liquidación: %d", summary.PendingLiquidation)
	log.Printf("Pendientes de aprobación: %d", summary.SubmittedApproval)
	log.Printf("Solicitudes propias: %d", len(solicitudes.Requests()))
	log.Printf("Cola de atención: %d", len(atencion.Requests()))

	data, err := reports.BuildDashboardXLSX(summary)
	if err != nil {
		log.Fatalf("Failed to render dashboard export: %v", err)
	}
	out := "resumen.xlsx"
	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}
	log.Printf("Dashboard export written to %s", out)
}
