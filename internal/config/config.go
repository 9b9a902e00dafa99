package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig configuración de la aplicación
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Excel    ExcelConfig    `toml:"excel"`
	Analisis AnalisisConfig `toml:"analisis"`
}

// ServerConfig configuración del servidor HTTP
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configuración de datos
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ExcelConfig nombres de hojas y columnas de los archivos de origen.
// Los valores por defecto deben coincidir EXACTAMENTE con los archivos
// que exporta el sistema contable de la planta.
type ExcelConfig struct {
	HojaInventario string `toml:"hoja_inventario"`
	HojaHistorico  string `toml:"hoja_historico"`
	// FilaEncabezado índice base 0 de la fila de encabezados del inventario
	// (fila 10 visual en Excel)
	FilaEncabezado int `toml:"fila_encabezado"`

	ColumnasInventario ColumnasInventario `toml:"columnas_inventario"`
	ColumnasHistorico  ColumnasHistorico  `toml:"columnas_historico"`
}

// ColumnasInventario mapeo de campos lógicos a columnas de la hoja de inventario
type ColumnasInventario struct {
	Codigo      string `toml:"codigo"`
	Producto    string `toml:"producto"`
	Total       string `toml:"total"`
	Unidad      string `toml:"unidad"`
	Comentarios string `toml:"comentarios"`
}

// ColumnasHistorico mapeo de campos lógicos a columnas del histórico de ventas
type ColumnasHistorico struct {
	Doc        string `toml:"doc"`
	Local      string `toml:"local"`
	Fecha      string `toml:"fecha"`
	Cod        string `toml:"cod"`
	KgVendidos string `toml:"kg_vendidos"`
	Macropieza string `toml:"macropieza"`
}

// AnalisisConfig filtros y umbrales del análisis de inventario
type AnalisisConfig struct {
	FiltroDocTipo string  `toml:"filtro_doc_tipo"`
	FiltroLocal   string  `toml:"filtro_local"`
	StockCritico  float64 `toml:"stock_critico"`
	StockBajo     float64 `toml:"stock_bajo"`
}

// DefaultConfig configuración por defecto (réplica del dashboard original)
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20280,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Excel: ExcelConfig{
			HojaInventario: "CONSOLIDADO",
			HojaHistorico:  "Sheet1",
			FilaEncabezado: 9,
			ColumnasInventario: ColumnasInventario{
				Codigo:      "Codigo",
				Producto:    "Productos",
				Total:       "Total",
				Unidad:      "U/m",
				Comentarios: "Comentarios",
			},
			ColumnasHistorico: ColumnasHistorico{
				Doc:        "Doc",
				Local:      "Local",
				Fecha:      "Fecha",
				Cod:        "Cod",
				KgVendidos: "Kg totales2",
				Macropieza: "Macropieza",
			},
		},
		Analisis: AnalisisConfig{
			FiltroDocTipo: "VENTA",
			FiltroLocal:   "PLANTA GALAN",
			StockCritico:  50,
			StockBajo:     100,
		},
	}
}

// GetExeDir directorio del ejecutable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig carga config.toml desde el directorio del ejecutable.
// Si el archivo no existe se usan los valores por defecto. Las variables
// de entorno (o un archivo .env) tienen prioridad sobre el archivo.
func LoadConfig() (*AppConfig, error) {
	cfg := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Cargar .env si existe (no es crítico si falta)
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// SaveConfig guarda la configuración en config.toml
func SaveConfig(cfg *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(exeDir, "config.toml"), data, 0644)
}

// applyEnvOverrides sobreescribe la configuración con variables de entorno
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("LOMAROSA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOMAROSA_DATA_DIR"); v != "" {
		cfg.Data.DataDir = v
	}
	if v := os.Getenv("LOMAROSA_DEV_MODE"); v != "" {
		cfg.Server.DevMode = v == "1" || v == "true"
	}
}

// EnsureDataDir asegura que el directorio de datos exista
func EnsureDataDir(cfg *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := cfg.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}
