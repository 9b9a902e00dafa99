package model

import "time"

// Estadisticas resumen del inventario procesado.
// Los campos de análisis de ventas solo se emiten cuando el
// enriquecimiento con el histórico llegó a ejecutarse.
type Estadisticas struct {
	TotalProductos           int     `json:"total_productos"`
	ProductosDisponibles     int     `json:"productos_disponibles"`
	ProductosSinStock        int     `json:"productos_sin_stock"`
	PorcentajeDisponibilidad float64 `json:"porcentaje_disponibilidad"`
	StockTotalKilos          float64 `json:"stock_total_kilos"`
	ProductosCriticos        int     `json:"productos_criticos"`
	ProductosBajoStock       int     `json:"productos_bajo_stock"`
	FechaActualizacion       string  `json:"fecha_actualizacion"`

	StockAdecuado      *int `json:"stock_adecuado,omitempty"`
	BajoPromedio       *int `json:"bajo_promedio,omitempty"`
	ProductosSinVentas *int `json:"productos_sin_ventas,omitempty"`
}

// DatosProcesados dataset completo de una corrida del pipeline.
// Analisis es nil cuando no hubo histórico de ventas válido.
type DatosProcesados struct {
	Productos    []ProductoProcesado `json:"dfProcessed"`
	Analisis     []ProductoAnalizado `json:"analisis,omitempty"`
	Estadisticas *Estadisticas       `json:"statistics,omitempty"`
}

// Metadata registro de la última corrida exitosa
type Metadata struct {
	RunID                 string    `json:"run_id"`
	FechaActualizacion    time.Time `json:"lastUpdate"`
	ArchivoInventario     string    `json:"inventarioFile"`
	ArchivoConsolidado    string    `json:"consolidadoFile"`
	DescartadasInventario int       `json:"descartadas_inventario"`
	DescartadasHistorico  int       `json:"descartadas_historico"`
}
