package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Grupolom/lomarosa-dashboard/internal/config"
	"github.com/Grupolom/lomarosa-dashboard/internal/server"
	"github.com/Grupolom/lomarosa-dashboard/internal/util"
)

var (
	port    = flag.Int("port", 0, "puerto del servidor (config.toml tiene prioridad)")
	devMode = flag.Bool("dev", false, "modo desarrollo")
	dataDir = flag.String("dataDir", "", "directorio de datos (sobreescribe la configuración)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Dashboard de Inventario - Lomarosa")
	fmt.Println("  Inversiones Agropecuarias Lom SAS")
	fmt.Println("==========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("error al cargar la configuración, se usan valores por defecto: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// Los flags de línea de comandos tienen la última palabra
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	log, err := newLogger(cfg.Server.DevMode)
	if err != nil {
		fmt.Printf("no se pudo inicializar el logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		log.Fatal("no se pudo crear el servidor", zap.Error(err))
	}
	defer srv.Close()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		log.Info("servidor iniciado", zap.Int("puerto", cfg.Server.Port))
		if err := srv.Run(addr); err != nil {
			log.Fatal("el servidor no pudo iniciar", zap.Error(err))
		}
	}()

	if !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("no se pudo abrir el navegador, visite manualmente: %s\n", url)
		}
	} else {
		fmt.Printf("modo desarrollo: visite %s\n", url)
	}

	fmt.Println("\nPresione Ctrl+C para detener el servicio...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("servicio detenido")
}

// newLogger logger de producción, o de desarrollo en modo dev
func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
