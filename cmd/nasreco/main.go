package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	// .env si existe; el entorno del sistema manda.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "nasreco",
		Short: "Servicio de registros de cuidado multi-tenant",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("NASRECO_CONFIG"), "ruta al YAML de configuración (env NASRECO_CONFIG)")

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
