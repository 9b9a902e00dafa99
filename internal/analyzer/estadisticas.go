package analyzer

import (
	"errors"
	"sort"
	"time"

	"github.com/Grupolom/lomarosa-dashboard/internal/model"
	"github.com/Grupolom/lomarosa-dashboard/internal/parser"
)

// ErrSinAnalisis el enriquecimiento con ventas nunca se ejecutó.
// Permite a los consumidores distinguir "no hay productos críticos"
// de "todavía no hay análisis".
var ErrSinAnalisis = errors.New("el análisis de ventas no está disponible")

// CalcularEstadisticas resumen del inventario procesado.
// analisis puede ser nil; en ese caso se omiten los conteos de ventas.
func CalcularEstadisticas(productos []model.ProductoProcesado, analisis []model.ProductoAnalizado) *model.Estadisticas {
	if len(productos) == 0 {
		return nil
	}

	stats := &model.Estadisticas{
		TotalProductos:     len(productos),
		FechaActualizacion: time.Now().Format(time.RFC3339),
	}

	for _, p := range productos {
		if p.Disponible {
			stats.ProductosDisponibles++
		} else {
			stats.ProductosSinStock++
		}
		stats.StockTotalKilos += p.StockActual
		switch p.CategoriaStock {
		case model.StockCritico:
			stats.ProductosCriticos++
		case model.StockBajo:
			stats.ProductosBajoStock++
		}
	}

	stats.PorcentajeDisponibilidad = parser.Round(float64(stats.ProductosDisponibles)/float64(stats.TotalProductos)*100, 1)

	if len(analisis) > 0 {
		adecuado, bajo, sinVentas := 0, 0, 0
		for _, a := range analisis {
			if a.Estado == model.EstadoStockAdecuado {
				adecuado++
			} else {
				bajo++
			}
			if a.NumVentas == 0 {
				sinVentas++
			}
		}
		stats.StockAdecuado = &adecuado
		stats.BajoPromedio = &bajo
		stats.ProductosSinVentas = &sinVentas
	}

	return stats
}

// TopSobrestock productos con mayor excedente sobre el promedio semanal
func TopSobrestock(analisis []model.ProductoAnalizado, n int) ([]model.ProductoAnalizado, error) {
	if analisis == nil {
		return nil, ErrSinAnalisis
	}

	var conExceso []model.ProductoAnalizado
	for _, a := range analisis {
		if a.Diferencia > 0 {
			conExceso = append(conExceso, a)
		}
	}
	sort.SliceStable(conExceso, func(i, j int) bool {
		return conExceso[i].Diferencia > conExceso[j].Diferencia
	})

	return primeros(conExceso, n), nil
}

// TopDeficit productos con mayor déficit frente al promedio semanal
func TopDeficit(analisis []model.ProductoAnalizado, n int) ([]model.ProductoAnalizado, error) {
	if analisis == nil {
		return nil, ErrSinAnalisis
	}

	var conDeficit []model.ProductoAnalizado
	for _, a := range analisis {
		if a.Diferencia < 0 {
			conDeficit = append(conDeficit, a)
		}
	}
	sort.SliceStable(conDeficit, func(i, j int) bool {
		return conDeficit[i].Diferencia < conDeficit[j].Diferencia
	})

	return primeros(conDeficit, n), nil
}

// TopRotacion productos con más ventas registradas
func TopRotacion(analisis []model.ProductoAnalizado, n int) ([]model.ProductoAnalizado, error) {
	if analisis == nil {
		return nil, ErrSinAnalisis
	}

	ordenado := make([]model.ProductoAnalizado, len(analisis))
	copy(ordenado, analisis)
	sort.SliceStable(ordenado, func(i, j int) bool {
		return ordenado[i].NumVentas > ordenado[j].NumVentas
	})

	return primeros(ordenado, n), nil
}

// CriticosPorCobertura productos bajo promedio ordenados por ratio de
// cobertura (stock actual / promedio semanal) ascendente
func CriticosPorCobertura(analisis []model.ProductoAnalizado, n int) ([]model.ProductoCritico, error) {
	if analisis == nil {
		return nil, ErrSinAnalisis
	}

	var criticos []model.ProductoCritico
	for _, a := range analisis {
		if a.PromedioSemanal > 0 && a.StockActual < a.PromedioSemanal {
			criticos = append(criticos, model.ProductoCritico{
				ProductoAnalizado: a,
				RatioCobertura:    a.StockActual / a.PromedioSemanal,
			})
		}
	}
	sort.SliceStable(criticos, func(i, j int) bool {
		return criticos[i].RatioCobertura < criticos[j].RatioCobertura
	})

	if n < len(criticos) {
		criticos = criticos[:n]
	}
	return criticos, nil
}

// ResumenPorMacropieza agrega stock y ventas del análisis por macropieza,
// ordenado por stock total descendente
func ResumenPorMacropieza(analisis []model.ProductoAnalizado) ([]model.ResumenMacropieza, error) {
	if analisis == nil {
		return nil, ErrSinAnalisis
	}

	porMacro := make(map[string]*model.ResumenMacropieza)
	var orden []string
	for _, a := range analisis {
		r, ok := porMacro[a.Macropieza]
		if !ok {
			r = &model.ResumenMacropieza{Macropieza: a.Macropieza}
			porMacro[a.Macropieza] = r
			orden = append(orden, a.Macropieza)
		}
		r.Productos++
		r.StockTotal += a.StockActual
		r.TotalVendido += a.TotalVendido
	}

	resumen := make([]model.ResumenMacropieza, 0, len(orden))
	for _, macro := range orden {
		r := porMacro[macro]
		r.StockTotal = parser.Round(r.StockTotal, 2)
		r.TotalVendido = parser.Round(r.TotalVendido, 2)
		resumen = append(resumen, *r)
	}
	sort.SliceStable(resumen, func(i, j int) bool {
		return resumen[i].StockTotal > resumen[j].StockTotal
	})

	return resumen, nil
}

// primeros corta la lista a los primeros n elementos
func primeros(lista []model.ProductoAnalizado, n int) []model.ProductoAnalizado {
	if n < len(lista) {
		return lista[:n]
	}
	return lista
}
