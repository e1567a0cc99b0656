package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jhoicas/systemair-inventario/internal/application/datasync"
	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/bootstrap"
	"github.com/jhoicas/systemair-inventario/pkg/config"
	"github.com/jhoicas/systemair-inventario/pkg/logger"
)

var (
	exportOut  string
	resetForce bool
)

// withServices carga la configuración, arma los servicios y los cierra al terminar fn.
func withServices(ctx context.Context, fn func(*bootstrap.Services) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, File: cfg.Log.File})
	defer log.Close()

	svc, err := bootstrap.Build(ctx, cfg, log.Zerolog(), bootstrap.WithoutAutoSync())
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exporta el almacén completo a un archivo JSON",
	Long: `Exporta usuarios, productos y entregas a un snapshot JSON.

Sin --out el archivo se llama systemair-export-YYYY-MM-DD.json en el directorio actual.
Con --out - el snapshot se escribe en stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(svc *bootstrap.Services) error {
			raw, err := svc.Sync.ExportAll(cmd.Context())
			if err != nil {
				return err
			}
			if exportOut == "-" {
				_, err := os.Stdout.Write(raw)
				return err
			}
			path := exportOut
			if path == "" {
				path = datasync.ExportFilename(time.Now())
			}
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "snapshot escrito en %s\n", path)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <archivo>",
	Short: "Importa un snapshot JSON (fusión por id)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return withServices(cmd.Context(), func(svc *bootstrap.Services) error {
			report, err := svc.Sync.ImportData(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return printJSON(report)
		})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ejecuta una sincronización (exportar y reimportar)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(svc *bootstrap.Services) error {
			ok := svc.Scheduler.PerformSync(cmd.Context())
			if err := printJSON(dto.SyncResult{Success: ok, Config: dto.NewSyncConfigResponse(svc.Scheduler.Config())}); err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("la sincronización falló")
			}
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Muestra el estado del almacén",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), func(svc *bootstrap.Services) error {
			return printJSON(svc.StatusUC.Status())
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Borra todos los datos y vuelve a sembrar el admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			return fmt.Errorf("reset borra todos los datos; repetir con --force")
		}
		return withServices(cmd.Context(), func(svc *bootstrap.Services) error {
			if err := svc.StatusUC.Reset(cmd.Context()); err != nil {
				return err
			}
			return printJSON(svc.StatusUC.Status())
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "archivo de salida (- para stdout)")
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "confirmar el borrado")
	rootCmd.AddCommand(exportCmd, importCmd, syncCmd, statusCmd, resetCmd)
}
