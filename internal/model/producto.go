package model

import "time"

// Categorías de stock según el nivel actual
const (
	StockSinStock = "Sin Stock"
	StockCritico  = "Crítico"
	StockBajo     = "Bajo"
	StockNormal   = "Normal"
)

// Categorías de producto por tipo de corte
const (
	CategoriaChuleta    = "Chuletas"
	CategoriaCostilla   = "Costillas"
	CategoriaCanasto    = "Canastos"
	CategoriaMerma      = "Mermas"
	CategoriaSilla      = "Sillas"
	CategoriaSparry     = "Sparry"
	CategoriaMatambrito = "Matambrito"
	CategoriaCostipiel  = "Costipiel"
	CategoriaOtros      = "Otros"
)

// Estados del inventario frente al promedio de ventas
const (
	EstadoStockAdecuado = "Stock Adecuado"
	EstadoBajoPromedio  = "Bajo Promedio"
)

// MacropiezaSinClasificar valor por defecto cuando el histórico no trae macropieza
const MacropiezaSinClasificar = "Sin clasificar"

// ProductoProcesado producto de inventario normalizado.
// Solo existen productos con stock positivo: las filas con stock <= 0
// o con código/total no numérico se descartan durante la limpieza.
// Los nombres JSON replican el dataset del dashboard original para que
// los datos persistidos sigan siendo comparables.
type ProductoProcesado struct {
	Codigo            string  `json:"Codigo"`
	Producto          string  `json:"Producto"`
	StockActual       float64 `json:"Stock_Actual"`
	CategoriaStock    string  `json:"categoria_stock"`
	CategoriaProducto string  `json:"categoria_producto"`
	Disponible        bool    `json:"disponible"`
}

// RegistroVenta una venta del histórico ya filtrada y normalizada
type RegistroVenta struct {
	Cod        string
	KgVendidos float64
	Fecha      time.Time
}

// PromedioVentas promedio semanal de ventas por código de producto.
// El promedio divide el total vendido entre las semanas observadas del
// conjunto COMPLETO de ventas filtradas (denominador global, no por producto).
type PromedioVentas struct {
	Cod             string  `json:"Cod"`
	TotalVendido    float64 `json:"Total_Vendido"`
	NumVentas       int     `json:"Num_Ventas"`
	PromedioSemanal float64 `json:"Promedio_Semanal"`
}

// ProductoAnalizado producto de inventario enriquecido con métricas de ventas
type ProductoAnalizado struct {
	ProductoProcesado

	TotalVendido    float64      `json:"Total_Vendido"`
	NumVentas       int          `json:"Num_Ventas"`
	PromedioSemanal float64      `json:"Promedio_Semanal"`
	Estado          string       `json:"Estado"`
	Diferencia      float64      `json:"Diferencia"`
	SemanasStock    SemanasStock `json:"Semanas_Stock"`
	Macropieza      string       `json:"Macropieza"`
}

// ProductoCritico producto bajo promedio anotado con su ratio de cobertura
type ProductoCritico struct {
	ProductoAnalizado

	RatioCobertura float64 `json:"Ratio_Cobertura"`
}

// ResumenMacropieza agregado del análisis por macropieza
type ResumenMacropieza struct {
	Macropieza   string  `json:"Macropieza"`
	Productos    int     `json:"productos"`
	StockTotal   float64 `json:"stock_total"`
	TotalVendido float64 `json:"total_vendido"`
}
