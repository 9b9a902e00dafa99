package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultConfig_ValoresDeLaPlanta(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Excel.HojaInventario != "CONSOLIDADO" || cfg.Excel.FilaEncabezado != 9 {
		t.Errorf("configuración de inventario inesperada: %+v", cfg.Excel)
	}
	if cfg.Analisis.FiltroDocTipo != "VENTA" || cfg.Analisis.FiltroLocal != "PLANTA GALAN" {
		t.Errorf("filtros inesperados: %+v", cfg.Analisis)
	}
	if cfg.Analisis.StockCritico != 50 || cfg.Analisis.StockBajo != 100 {
		t.Errorf("umbrales inesperados: %+v", cfg.Analisis)
	}
	if cfg.Excel.ColumnasHistorico.KgVendidos != "Kg totales2" {
		t.Errorf("columna de kilos inesperada: %q", cfg.Excel.ColumnasHistorico.KgVendidos)
	}
}

func TestConfig_TOMLRoundTrip(t *testing.T) {
	t.Parallel()

	original := DefaultConfig()
	original.Server.Port = 9999
	original.Analisis.StockCritico = 25

	data, err := toml.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal falló: %v", err)
	}

	restaurado := DefaultConfig()
	if err := toml.Unmarshal(data, restaurado); err != nil {
		t.Fatalf("Unmarshal falló: %v", err)
	}

	if restaurado.Server.Port != 9999 || restaurado.Analisis.StockCritico != 25 {
		t.Errorf("round trip perdió valores: %+v", restaurado)
	}
	if restaurado.Excel.ColumnasInventario.Unidad != "U/m" {
		t.Errorf("columna de unidad perdida: %q", restaurado.Excel.ColumnasInventario.Unidad)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LOMAROSA_PORT", "8123")
	t.Setenv("LOMAROSA_DATA_DIR", "/tmp/lomarosa")
	t.Setenv("LOMAROSA_DEV_MODE", "true")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 8123 {
		t.Errorf("Port = %d, se esperaba 8123", cfg.Server.Port)
	}
	if cfg.Data.DataDir != "/tmp/lomarosa" {
		t.Errorf("DataDir = %q, se esperaba /tmp/lomarosa", cfg.Data.DataDir)
	}
	if !cfg.Server.DevMode {
		t.Error("DevMode no se activó")
	}
}

func TestApplyEnvOverrides_PuertoInvalido(t *testing.T) {
	t.Setenv("LOMAROSA_PORT", "no-numerico")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 20280 {
		t.Errorf("Port = %d, un valor inválido no debe tocar el puerto", cfg.Server.Port)
	}
}
