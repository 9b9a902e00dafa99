package importer

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Grupolom/lomarosa-dashboard/internal/analyzer"
	"github.com/Grupolom/lomarosa-dashboard/internal/config"
	"github.com/Grupolom/lomarosa-dashboard/internal/model"
	"github.com/Grupolom/lomarosa-dashboard/internal/parser"
	"github.com/Grupolom/lomarosa-dashboard/internal/store"
)

// ErrProcesoEnCurso ya hay una corrida del pipeline activa.
// Solo puede haber una a la vez; el disparador debe rechazarse
// mientras la anterior no termine.
var ErrProcesoEnCurso = errors.New("ya hay un procesamiento en curso")

// ErrorEtapa error fatal de una etapa del pipeline
type ErrorEtapa struct {
	Etapa string
	Err   error
}

func (e *ErrorEtapa) Error() string {
	return fmt.Sprintf("etapa %s: %v", e.Etapa, e.Err)
}

func (e *ErrorEtapa) Unwrap() error {
	return e.Err
}

// Coordinator orquesta el pipeline completo:
// carga → limpieza → agregación → combinación → estadísticas → persistencia.
// Cada etapa recibe la salida de la anterior; no hay estado mutable
// compartido entre corridas.
type Coordinator struct {
	cfg       *config.AppConfig
	store     *store.Store
	log       *zap.Logger
	enProceso atomic.Bool
}

// NewCoordinator crea el coordinador del pipeline
func NewCoordinator(cfg *config.AppConfig, st *store.Store, log *zap.Logger) *Coordinator {
	return &Coordinator{
		cfg:   cfg,
		store: st,
		log:   log,
	}
}

// ResultadoProceso salida de una corrida completa del pipeline
type ResultadoProceso struct {
	RunID                 string
	Datos                 *model.DatosProcesados
	Metadata              *model.Metadata
	DescartadasInventario int
	DescartadasHistorico  int
	Duracion              time.Duration
}

// Procesar ejecuta el pipeline sobre los buffers subidos.
// consolidado puede ser nil: el pipeline termina bien sin análisis de
// ventas. Nada se persiste si alguna etapa fatal falla; los datos de la
// corrida anterior quedan intactos.
func (c *Coordinator) Procesar(inventario, consolidado *store.ArchivoGuardado) (*ResultadoProceso, error) {
	if !c.enProceso.CompareAndSwap(false, true) {
		return nil, ErrProcesoEnCurso
	}
	defer c.enProceso.Store(false)

	inicio := time.Now()
	runID := uuid.NewString()
	log := c.log.With(zap.String("run_id", runID))

	log.Info("iniciando procesamiento de datos",
		zap.String("inventario", inventario.Nombre))

	// Etapa 1: inventario
	productos, descartadasInv, err := c.procesarInventario(inventario.Datos)
	if err != nil {
		log.Error("error al cargar inventario", zap.Error(err))
		return nil, &ErrorEtapa{Etapa: "inventario", Err: err}
	}
	log.Info("inventario procesado",
		zap.Int("productos", len(productos)),
		zap.Int("descartadas", descartadasInv))

	// Etapa 2: histórico de ventas (opcional, degrada sin análisis)
	var analisis []model.ProductoAnalizado
	descartadasHist := 0
	nombreConsolidado := ""

	if consolidado != nil {
		nombreConsolidado = consolidado.Nombre
		analisis, descartadasHist = c.procesarHistorico(consolidado.Datos, productos, log)
	}

	// Etapa 3: estadísticas
	estadisticas := analyzer.CalcularEstadisticas(productos, analisis)

	datos := &model.DatosProcesados{
		Productos:    productos,
		Analisis:     analisis,
		Estadisticas: estadisticas,
	}

	meta := &model.Metadata{
		RunID:                 runID,
		FechaActualizacion:    time.Now(),
		ArchivoInventario:     inventario.Nombre,
		ArchivoConsolidado:    nombreConsolidado,
		DescartadasInventario: descartadasInv,
		DescartadasHistorico:  descartadasHist,
	}

	// Etapa 4: persistencia. Solo se guarda la corrida completa.
	if err := c.store.GuardarResultado(datos, meta); err != nil {
		log.Error("error al persistir el resultado", zap.Error(err))
		return nil, &ErrorEtapa{Etapa: "persistencia", Err: err}
	}

	duracion := time.Since(inicio)
	log.Info("procesamiento completado",
		zap.Int("productos", len(productos)),
		zap.Bool("con_analisis", analisis != nil),
		zap.Duration("duracion", duracion))

	return &ResultadoProceso{
		RunID:                 runID,
		Datos:                 datos,
		Metadata:              meta,
		DescartadasInventario: descartadasInv,
		DescartadasHistorico:  descartadasHist,
		Duracion:              duracion,
	}, nil
}

// procesarInventario abre el buffer de inventario y lo normaliza
func (c *Coordinator) procesarInventario(buffer []byte) ([]model.ProductoProcesado, int, error) {
	wb, err := parser.OpenBuffer(buffer)
	if err != nil {
		return nil, 0, err
	}
	defer wb.Close()

	resultado, err := parser.NewParserInventario(c.cfg).Parse(wb)
	if err != nil {
		return nil, 0, err
	}

	return resultado.Productos, resultado.Descartadas, nil
}

// procesarHistorico procesa el histórico y combina con el inventario.
// Cualquier falla aquí degrada a una corrida sin análisis: el histórico
// es opcional y sus errores de carga no tumban el pipeline.
func (c *Coordinator) procesarHistorico(buffer []byte, productos []model.ProductoProcesado, log *zap.Logger) ([]model.ProductoAnalizado, int) {
	wb, err := parser.OpenBuffer(buffer)
	if err != nil {
		log.Warn("no se pudo abrir el histórico, se continúa sin análisis", zap.Error(err))
		return nil, 0
	}
	defer wb.Close()

	historico, err := parser.NewParserHistorico(c.cfg).Parse(wb)
	if err != nil {
		log.Warn("no se pudo procesar el histórico, se continúa sin análisis", zap.Error(err))
		return nil, 0
	}

	promedios, err := analyzer.CalcularPromedios(historico.Ventas)
	if err != nil {
		// Sin ventas válidas tras filtrar: no es fatal
		log.Warn("histórico sin ventas válidas, se continúa sin análisis", zap.Error(err))
		return nil, historico.Descartadas
	}

	log.Info("promedios semanales calculados",
		zap.Int("productos_con_ventas", len(promedios.Promedios)),
		zap.Float64("semanas_observadas", promedios.Semanas),
		zap.Time("fecha_min", promedios.FechaMin),
		zap.Time("fecha_max", promedios.FechaMax))

	return analyzer.Combinar(productos, promedios.Promedios, historico.Macropiezas), historico.Descartadas
}

// CargarGuardado recupera la última corrida persistida, si existe
func (c *Coordinator) CargarGuardado() (*model.DatosProcesados, *model.Metadata, error) {
	datos, err := c.store.ObtenerResultado()
	if err != nil {
		return nil, nil, err
	}
	meta, err := c.store.ObtenerMetadata()
	if err != nil {
		return nil, nil, err
	}
	return datos, meta, nil
}
