package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"github.com/yeremiapane/qr-menu-builder/config"
	"github.com/yeremiapane/qr-menu-builder/controllers"
	"github.com/yeremiapane/qr-menu-builder/database"
	"github.com/yeremiapane/qr-menu-builder/middlewares"
	"github.com/yeremiapane/qr-menu-builder/qr"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/router"
	"github.com/yeremiapane/qr-menu-builder/services"
	"github.com/yeremiapane/qr-menu-builder/utils"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// NewApp builds the command tree. Running without a subcommand serves HTTP.
func NewApp(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "qr-menu-builder",
		Usage:  "Digital menu builder with per-table QR codes",
		Action: func(ctx context.Context, c *cli.Command) error { return serve(ctx, cfg) },
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error { return serve(ctx, cfg) },
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := config.InitDB(cfg)
					if err != nil {
						return err
					}
					if err := database.AutoMigrate(db); err != nil {
						return err
					}
					utils.InfoLogger.Println("Migration complete")
					return nil
				},
			},
			{
				Name:  "qr",
				Usage: "Write a QR code PNG, or a PDF sheet of every active table",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "business", Usage: "business id", Required: true},
					&cli.StringFlag{Name: "table", Usage: "table id; omit for the business menu"},
					&cli.BoolFlag{Name: "sheet", Usage: "write a printable PDF of all active tables"},
					&cli.StringFlag{Name: "out", Usage: "output file", Value: "menu-qr.png"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := config.InitDB(cfg)
					if err != nil {
						return err
					}
					return writeQR(ctx, db, qr.NewEncoder(cfg.PublicOrigin), c.String("business"), c.String("table"), c.Bool("sheet"), c.String("out"))
				},
			},
			{
				Name:  "token",
				Usage: "Sign an owner token for local development",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "owner account id", Required: true},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					token, err := utils.GenerateOwnerToken([]byte(cfg.JWTSecret), c.String("owner"), c.Duration("ttl"))
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}
}

func RunCli(cfg *config.Config) {
	if err := NewApp(cfg).Run(context.Background(), os.Args); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	scans := services.NewScanLogger(repositories.NewTableScanRepository(db), cfg.ScanQueueSize, cfg.ScanWorkers)
	scans.Start()
	defer scans.Stop()

	limiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stop := make(chan struct{})
	defer close(stop)
	limiter.StartCleanup(time.Minute, stop)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.SetupRouter(db, cfg, scans, limiter),
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.InfoLogger.Println("Shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if n := scans.Dropped(); n > 0 {
		utils.ErrorLogger.Warnf("%d scan events were dropped", n)
	}
	return nil
}

func writeQR(ctx context.Context, db *gorm.DB, encoder qr.Encoder, businessID, tableID string, sheet bool, out string) error {
	businesses := repositories.NewBusinessRepository(db)
	business, err := businesses.GetByID(ctx, businessID)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	registry := services.NewTableRegistry(repositories.NewTableRepository(db))
	switch {
	case sheet:
		tables, err := registry.ListActive(ctx, business.ID)
		if err != nil {
			return err
		}
		err = qr.Sheet(f, business.Name, controllers.SheetEntries(encoder, tables))
		if err != nil {
			return err
		}
	case tableID != "":
		table, err := registry.Get(ctx, business.ID, tableID)
		if err != nil {
			return err
		}
		png, err := qr.PNG(encoder.TableURL(business.ID, table.ID))
		if err != nil {
			return err
		}
		if _, err := f.Write(png); err != nil {
			return err
		}
	default:
		png, err := qr.PNG(encoder.MenuURL(business.ID))
		if err != nil {
			return err
		}
		if _, err := f.Write(png); err != nil {
			return err
		}
	}

	utils.InfoLogger.Printf("Wrote %s", out)
	return f.Close()
}
