package analyzer

import (
	"github.com/Grupolom/lomarosa-dashboard/internal/model"
	"github.com/Grupolom/lomarosa-dashboard/internal/parser"
)

// Combinar une el inventario procesado con los promedios de ventas.
// Es un left join puro: el inventario determina la cardinalidad de la
// salida, los productos sin ventas quedan con métricas en cero y los
// códigos del histórico sin fila de inventario se descartan en silencio.
func Combinar(productos []model.ProductoProcesado, promedios []model.PromedioVentas, macropiezas map[string]string) []model.ProductoAnalizado {
	porCodigo := make(map[string]model.PromedioVentas, len(promedios))
	for _, p := range promedios {
		porCodigo[p.Cod] = p
	}

	analisis := make([]model.ProductoAnalizado, 0, len(productos))
	for _, producto := range productos {
		promedio := porCodigo[producto.Codigo] // cero si no hay ventas

		estado := model.EstadoBajoPromedio
		if producto.StockActual >= promedio.PromedioSemanal {
			estado = model.EstadoStockAdecuado
		}

		macropieza, ok := macropiezas[producto.Codigo]
		if !ok {
			macropieza = model.MacropiezaSinClasificar
		}

		analisis = append(analisis, model.ProductoAnalizado{
			ProductoProcesado: producto,
			TotalVendido:      promedio.TotalVendido,
			NumVentas:         promedio.NumVentas,
			PromedioSemanal:   promedio.PromedioSemanal,
			Estado:            estado,
			Diferencia:        parser.Round(producto.StockActual-promedio.PromedioSemanal, 2),
			SemanasStock:      calcularSemanasStock(producto.StockActual, promedio.PromedioSemanal),
			Macropieza:        macropieza,
		})
	}

	return analisis
}

// calcularSemanasStock semanas de cobertura con los casos degenerados
func calcularSemanasStock(stockActual, promedioSemanal float64) model.SemanasStock {
	switch {
	case stockActual < 0:
		return model.SemanasStock{Estado: model.SemanasError}
	case stockActual == 0:
		return model.SemanasStock{Estado: model.SemanasAgotado}
	case promedioSemanal == 0:
		return model.SemanasStock{Estado: model.SemanasSinDatos}
	default:
		return model.SemanasDe(parser.Round(stockActual/promedioSemanal, 1))
	}
}
