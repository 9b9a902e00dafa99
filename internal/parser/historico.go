package parser

import (
	"fmt"
	"strings"

	"github.com/Grupolom/lomarosa-dashboard/internal/config"
	"github.com/Grupolom/lomarosa-dashboard/internal/model"
)

// ResultadoHistorico salida del procesamiento del histórico de ventas
type ResultadoHistorico struct {
	// Ventas filas que pasaron los filtros de documento y local,
	// con código, kilos y fecha ya normalizados
	Ventas []model.RegistroVenta
	// Macropiezas primera macropieza no vacía vista por código, en orden
	// de fila del archivo. Se construye sobre TODAS las filas del
	// histórico, no solo las filtradas.
	Macropiezas map[string]string
	// Descartadas filas que pasaron los filtros pero tenían código,
	// kilos o fecha inválidos
	Descartadas int
}

// ParserHistorico procesa el histórico de ventas de la planta
type ParserHistorico struct {
	excel    config.ExcelConfig
	analisis config.AnalisisConfig
}

// NewParserHistorico crea el parser del histórico
func NewParserHistorico(cfg *config.AppConfig) *ParserHistorico {
	return &ParserHistorico{
		excel:    cfg.Excel,
		analisis: cfg.Analisis,
	}
}

// Parse lee el histórico y conserva solo las ventas de la planta.
// El histórico trae los encabezados en la primera fila. Los filtros de
// tipo de documento y local se comparan normalizados (trim + mayúsculas).
func (p *ParserHistorico) Parse(wb *Workbook) (*ResultadoHistorico, error) {
	headers, rows, err := wb.Rows(p.excel.HojaHistorico, 0)
	if err != nil {
		return nil, err
	}

	cols := p.excel.ColumnasHistorico
	indices, err := resolverColumnas(headers, map[string]string{
		"doc":         cols.Doc,
		"local":       cols.Local,
		"fecha":       cols.Fecha,
		"cod":         cols.Cod,
		"kg_vendidos": cols.KgVendidos,
		"macropieza":  cols.Macropieza,
	})
	if err != nil {
		return nil, fmt.Errorf("histórico: %w", err)
	}

	filtroDoc := NormalizeString(p.analisis.FiltroDocTipo)
	filtroLocal := NormalizeString(p.analisis.FiltroLocal)

	resultado := &ResultadoHistorico{
		Macropiezas: make(map[string]string),
	}

	for _, row := range rows {
		// El mapa de macropiezas se alimenta de todas las filas:
		// gana el primer valor no vacío por código
		if codigo, ok := ToNumber(celda(row, indices["cod"])); ok {
			cod := CodigoNormalizado(codigo)
			if _, visto := resultado.Macropiezas[cod]; !visto {
				if mp := strings.TrimSpace(celda(row, indices["macropieza"])); mp != "" {
					resultado.Macropiezas[cod] = mp
				}
			}
		}

		doc := NormalizeString(celda(row, indices["doc"]))
		local := NormalizeString(celda(row, indices["local"]))
		if doc != filtroDoc || local != filtroLocal {
			continue
		}

		codigo, okCodigo := ToNumber(celda(row, indices["cod"]))
		kg, okKg := ToNumber(celda(row, indices["kg_vendidos"]))
		fecha, okFecha := ParseFecha(celda(row, indices["fecha"]))

		if !okCodigo || !okKg || !okFecha {
			resultado.Descartadas++
			continue
		}

		resultado.Ventas = append(resultado.Ventas, model.RegistroVenta{
			Cod:        CodigoNormalizado(codigo),
			KgVendidos: kg,
			Fecha:      fecha,
		})
	}

	return resultado, nil
}
