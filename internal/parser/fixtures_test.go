package parser

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Grupolom/lomarosa-dashboard/internal/config"
)

// configPrueba configuración por defecto para las pruebas del parser
func configPrueba() *config.AppConfig {
	return config.DefaultConfig()
}

// bufferInventario construye un libro de inventario en memoria con los
// encabezados en la fila 10 (índice 9), como el consolidado real.
func bufferInventario(t *testing.T, encabezados []string, filas [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "CONSOLIDADO"); err != nil {
		t.Fatalf("no se pudo renombrar la hoja: %v", err)
	}

	f.SetCellValue("CONSOLIDADO", "A1", "INVENTARIO CONSOLIDADO PLANTA")

	for i, h := range encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 10)
		f.SetCellValue("CONSOLIDADO", celda, h)
	}
	for r, fila := range filas {
		for c, valor := range fila {
			celda, _ := excelize.CoordinatesToCellName(c+1, 11+r)
			f.SetCellValue("CONSOLIDADO", celda, valor)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("no se pudo serializar el libro: %v", err)
	}
	return buf.Bytes()
}

// bufferHistorico construye un histórico de ventas en memoria con los
// encabezados en la primera fila.
func bufferHistorico(t *testing.T, encabezados []string, filas [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, h := range encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Sheet1", celda, h)
	}
	for r, fila := range filas {
		for c, valor := range fila {
			celda, _ := excelize.CoordinatesToCellName(c+1, 2+r)
			f.SetCellValue("Sheet1", celda, valor)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("no se pudo serializar el libro: %v", err)
	}
	return buf.Bytes()
}

// abrirLibro abre un buffer y registra el cierre
func abrirLibro(t *testing.T, buffer []byte) *Workbook {
	t.Helper()

	wb, err := OpenBuffer(buffer)
	if err != nil {
		t.Fatalf("no se pudo abrir el buffer: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

// encabezadosInventario columnas completas del inventario de prueba
func encabezadosInventario() []string {
	return []string{"Codigo", "Productos", "Total", "U/m", "Comentarios"}
}

// encabezadosHistorico columnas completas del histórico de prueba
func encabezadosHistorico() []string {
	return []string{"Doc", "Local", "Fecha", "Cod", "Kg totales2", "Macropieza"}
}

// serialExcel serial de Excel para una cantidad de días desde 1970-01-01
func serialExcel(diasDesdeEpoch int) float64 {
	return float64(excelEpochOffset + diasDesdeEpoch)
}
