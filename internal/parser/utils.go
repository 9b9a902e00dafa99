package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// excelEpochOffset serial de Excel correspondiente a 1970-01-01 UTC
const excelEpochOffset = 25569

// ToNumber convierte una celda a número.
// Celdas vacías o no numéricas devuelven ok == false (la fila se descarta,
// nunca se conserva con un valor nulo). Se toleran separadores de miles.
func ToNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NormalizeString recorta espacios y pasa a mayúsculas (comparación de filtros)
func NormalizeString(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Round redondea a n decimales (mitades alejándose de cero)
func Round(x float64, decimales int) float64 {
	factor := math.Pow(10, float64(decimales))
	return math.Round(x*factor) / factor
}

// ParseFecha interpreta la celda de fecha del histórico.
// Un valor numérico es un serial de Excel (serial 25569 == 1970-01-01 UTC);
// se convierte a fecha calendario local descartando la hora. Un valor de
// texto se intenta como fecha ISO o DD/MM/YYYY.
func ParseFecha(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return fechaDesdeSerial(serial), true
	}

	formatos := []string{
		time.RFC3339,
		"2006-01-02",
		"02/01/2006",
	}
	for _, layout := range formatos {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), true
		}
	}

	return time.Time{}, false
}

// fechaDesdeSerial convierte un serial de Excel a fecha calendario local
func fechaDesdeSerial(serial float64) time.Time {
	dias := int64(math.Floor(serial - excelEpochOffset))
	utc := time.Unix(dias*86400, 0).UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.Local)
}

// CodigoNormalizado trunca la parte fraccionaria del código y lo devuelve
// como cadena (un código leído como 123.7 queda en "123")
func CodigoNormalizado(codigo float64) string {
	return strconv.FormatInt(int64(math.Floor(codigo)), 10)
}
