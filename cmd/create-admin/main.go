package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"campaign-auth/internal/config"
	"campaign-auth/internal/db"
	"campaign-auth/internal/email"
	"campaign-auth/internal/repository"
	"campaign-auth/internal/service"
)

// Da de alta un administrador desde la línea de comandos. El endpoint
// POST /admin/admins exige un token de admin, así que el primero de un
// despliegue nuevo se crea con esta herramienta.
func main() {
	emailFlag := flag.String("email", "", "email del administrador")
	passwordFlag := flag.String("password", "", "contraseña del administrador")
	flag.Parse()

	if *emailFlag == "" || *passwordFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: create-admin -email <email> -password <password>")
		os.Exit(2)
	}

	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	mediaRepo := repository.NewPgMediaRepository(pool)
	adminRepo := repository.NewPgAdminRepository(pool)
	statsRepo := repository.NewPgStatsRepository(pool)

	adminSvc := service.NewAdminService(
		logger,
		userRepo,
		mediaRepo,
		adminRepo,
		statsRepo,
		email.NewDisabledSender(""),
		service.NewPasswordHasher(0),
	)

	admin, err := adminSvc.CreateAdmin(ctx, *emailFlag, *passwordFlag)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateEmail) {
			log.Fatalf("ya existe un administrador con el email %s", *emailFlag)
		}
		log.Fatal(err)
	}

	fmt.Printf("admin creado: %s (%s)\n", admin.Email, admin.ID)
	fmt.Println("cambia la contraseña después del primer inicio de sesión")
}
