package parser

import (
	"fmt"
	"strings"

	"github.com/Grupolom/lomarosa-dashboard/internal/config"
	"github.com/Grupolom/lomarosa-dashboard/internal/model"
)

// ResultadoInventario salida de la limpieza del inventario
type ResultadoInventario struct {
	Productos []model.ProductoProcesado
	// Descartadas filas omitidas en silencio por código/total no numérico,
	// stock <= 0 o nombre vacío
	Descartadas int
}

// ParserInventario limpia la hoja de inventario a productos canónicos
type ParserInventario struct {
	excel    config.ExcelConfig
	analisis config.AnalisisConfig
}

// NewParserInventario crea el parser de inventario
func NewParserInventario(cfg *config.AppConfig) *ParserInventario {
	return &ParserInventario{
		excel:    cfg.Excel,
		analisis: cfg.Analisis,
	}
}

// Parse lee y limpia la hoja de inventario del libro.
// La ausencia de la hoja o de columnas requeridas es un error fatal de
// carga; las filas individuales malformadas se descartan en silencio.
func (p *ParserInventario) Parse(wb *Workbook) (*ResultadoInventario, error) {
	headers, rows, err := wb.Rows(p.excel.HojaInventario, p.excel.FilaEncabezado)
	if err != nil {
		return nil, err
	}

	cols := p.excel.ColumnasInventario
	indices, err := resolverColumnas(headers, map[string]string{
		"codigo":      cols.Codigo,
		"producto":    cols.Producto,
		"total":       cols.Total,
		"unidad":      cols.Unidad,
		"comentarios": cols.Comentarios,
	})
	if err != nil {
		return nil, fmt.Errorf("inventario: %w", err)
	}

	resultado := &ResultadoInventario{}

	for _, row := range rows {
		total, okTotal := ToNumber(celda(row, indices["total"]))
		codigo, okCodigo := ToNumber(celda(row, indices["codigo"]))

		if !okCodigo || !okTotal || total <= 0 {
			resultado.Descartadas++
			continue
		}

		nombre := strings.TrimSpace(celda(row, indices["producto"]))
		if nombre == "" {
			resultado.Descartadas++
			continue
		}

		resultado.Productos = append(resultado.Productos, model.ProductoProcesado{
			Codigo:            CodigoNormalizado(codigo),
			Producto:          nombre,
			StockActual:       total,
			CategoriaStock:    p.categorizarStock(total),
			CategoriaProducto: CategorizarProducto(nombre),
			Disponible:        total > 0,
		})
	}

	return resultado, nil
}

// categorizarStock clasifica el nivel de stock contra los umbrales configurados
func (p *ParserInventario) categorizarStock(cantidad float64) string {
	switch {
	case cantidad == 0:
		return model.StockSinStock
	case cantidad <= p.analisis.StockCritico:
		return model.StockCritico
	case cantidad <= p.analisis.StockBajo:
		return model.StockBajo
	default:
		return model.StockNormal
	}
}

// categoriaPorPalabra orden fijo de búsqueda: gana la primera coincidencia
var categoriaPorPalabra = []struct {
	palabras  []string
	categoria string
}{
	{[]string{"CHULETA"}, model.CategoriaChuleta},
	{[]string{"COSTILLA", "COSTILOMO"}, model.CategoriaCostilla},
	{[]string{"CANASTO"}, model.CategoriaCanasto},
	{[]string{"MERMA"}, model.CategoriaMerma},
	{[]string{"SILLA"}, model.CategoriaSilla},
	{[]string{"SPARRY"}, model.CategoriaSparry},
	{[]string{"MATAMBRITO"}, model.CategoriaMatambrito},
	{[]string{"COSTIPIEL"}, model.CategoriaCostipiel},
}

// CategorizarProducto clasifica un producto por palabras clave en el nombre
func CategorizarProducto(nombre string) string {
	upper := strings.ToUpper(nombre)
	for _, regla := range categoriaPorPalabra {
		for _, palabra := range regla.palabras {
			if strings.Contains(upper, palabra) {
				return regla.categoria
			}
		}
	}
	return model.CategoriaOtros
}
