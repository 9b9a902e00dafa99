package model

import "encoding/json"

// EstadoSemanas clasificación del cálculo de semanas de stock
type EstadoSemanas int

const (
	SemanasOK       EstadoSemanas = iota // ratio válido
	SemanasError                         // stock negativo
	SemanasAgotado                       // stock en cero
	SemanasSinDatos                      // sin promedio de ventas
)

// Códigos legados de semanas de stock. El dashboard original mezclaba
// estos centinelas con el ratio numérico en un solo campo; los datos
// persistidos y la API los conservan por compatibilidad.
const (
	CodigoSemanasError    = -999
	CodigoSemanasAgotado  = -1
	CodigoSemanasSinDatos = -2
)

// SemanasStock semanas de cobertura de stock de un producto.
// Internamente distingue el ratio de los casos degenerados; en la
// frontera JSON se serializa como el valor numérico legado.
type SemanasStock struct {
	Estado  EstadoSemanas
	Semanas float64 // válido solo cuando Estado == SemanasOK
}

// SemanasDe construye un valor OK con el ratio redondeado dado
func SemanasDe(semanas float64) SemanasStock {
	return SemanasStock{Estado: SemanasOK, Semanas: semanas}
}

// ValorLegado valor numérico con centinelas del dashboard original
func (s SemanasStock) ValorLegado() float64 {
	switch s.Estado {
	case SemanasError:
		return CodigoSemanasError
	case SemanasAgotado:
		return CodigoSemanasAgotado
	case SemanasSinDatos:
		return CodigoSemanasSinDatos
	default:
		return s.Semanas
	}
}

// MarshalJSON serializa al valor numérico legado
func (s SemanasStock) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ValorLegado())
}

// UnmarshalJSON reconstruye el estado a partir del valor legado
func (s *SemanasStock) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch v {
	case CodigoSemanasError:
		*s = SemanasStock{Estado: SemanasError}
	case CodigoSemanasAgotado:
		*s = SemanasStock{Estado: SemanasAgotado}
	case CodigoSemanasSinDatos:
		*s = SemanasStock{Estado: SemanasSinDatos}
	default:
		*s = SemanasStock{Estado: SemanasOK, Semanas: v}
	}
	return nil
}
