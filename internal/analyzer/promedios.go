package analyzer

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/Grupolom/lomarosa-dashboard/internal/model"
	"github.com/Grupolom/lomarosa-dashboard/internal/parser"
)

// ErrSinVentasValidas no sobrevivió ninguna venta a los filtros.
// No es fatal para el pipeline: el análisis combinado se omite y el
// inventario procesado sigue disponible.
var ErrSinVentasValidas = errors.New("no hay ventas válidas después de filtrar")

// ResultadoPromedios promedios semanales más el rango de fechas observado
type ResultadoPromedios struct {
	Promedios []model.PromedioVentas
	FechaMin  time.Time
	FechaMax  time.Time
	// Semanas semanas observadas del conjunto completo de ventas.
	// Es un denominador GLOBAL: todos los productos dividen entre el
	// mismo valor, sin importar su propio rango de ventas.
	Semanas float64
}

// CalcularPromedios agrupa las ventas por código y calcula el promedio
// semanal de cada producto sobre el rango global de fechas.
func CalcularPromedios(ventas []model.RegistroVenta) (*ResultadoPromedios, error) {
	if len(ventas) == 0 {
		return nil, ErrSinVentasValidas
	}

	fechaMin := ventas[0].Fecha
	fechaMax := ventas[0].Fecha
	for _, v := range ventas[1:] {
		if v.Fecha.Before(fechaMin) {
			fechaMin = v.Fecha
		}
		if v.Fecha.After(fechaMax) {
			fechaMax = v.Fecha
		}
	}

	dias := math.Ceil(fechaMax.Sub(fechaMin).Hours() / 24)
	semanas := dias / 7

	type acumulado struct {
		total  float64
		ventas int
	}
	grupos := make(map[string]*acumulado)
	var orden []string

	for _, v := range ventas {
		g, ok := grupos[v.Cod]
		if !ok {
			g = &acumulado{}
			grupos[v.Cod] = g
			orden = append(orden, v.Cod)
		}
		g.total += v.KgVendidos
		g.ventas++
	}
	sort.Strings(orden)

	resultado := &ResultadoPromedios{
		FechaMin: fechaMin,
		FechaMax: fechaMax,
		Semanas:  semanas,
	}

	for _, cod := range orden {
		g := grupos[cod]
		// Con ventas de un solo día el rango es cero: el promedio queda
		// en cero y aguas abajo aplica el centinela de "sin datos"
		promedio := 0.0
		if semanas > 0 {
			promedio = g.total / semanas
		}
		resultado.Promedios = append(resultado.Promedios, model.PromedioVentas{
			Cod:             cod,
			TotalVendido:    parser.Round(g.total, 2),
			NumVentas:       g.ventas,
			PromedioSemanal: parser.Round(promedio, 2),
		})
	}

	return resultado, nil
}
