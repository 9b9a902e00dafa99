package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Grupolom/lomarosa-dashboard/internal/analyzer"
	"github.com/Grupolom/lomarosa-dashboard/internal/config"
	"github.com/Grupolom/lomarosa-dashboard/internal/importer"
	"github.com/Grupolom/lomarosa-dashboard/internal/model"
	"github.com/Grupolom/lomarosa-dashboard/internal/store"
)

// maxTamanoArchivo tamaño máximo aceptado de un .xlsx subido (25 MB)
const maxTamanoArchivo = 25 << 20

// Handler procesador de la API del dashboard
type Handler struct {
	cfg         *config.AppConfig
	store       *store.Store
	coordinador *importer.Coordinator
	log         *zap.Logger
}

// NewHandler crea el handler de la API
func NewHandler(cfg *config.AppConfig, st *store.Store, coordinador *importer.Coordinator, log *zap.Logger) *Handler {
	return &Handler{
		cfg:         cfg,
		store:       st,
		coordinador: coordinador,
		log:         log,
	}
}

// RegisterRoutes registra las rutas de la API
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// Carga de archivos
	router.POST("/archivos/:tipo", h.SubirArchivo)
	router.GET("/archivos", h.EstadoArchivos)

	// Pipeline
	router.POST("/procesar", h.Procesar)
	router.POST("/reiniciar", h.Reiniciar)

	// Datos de la última corrida
	router.GET("/datos", h.ObtenerDatos)
	router.GET("/metadata", h.ObtenerMetadata)
	router.GET("/estadisticas", h.ObtenerEstadisticas)

	// Rankings del análisis
	router.GET("/analisis/sobrestock", h.TopSobrestock)
	router.GET("/analisis/deficit", h.TopDeficit)
	router.GET("/analisis/rotacion", h.TopRotacion)
	router.GET("/analisis/criticos", h.CriticosPorCobertura)
	router.GET("/analisis/macropiezas", h.ResumenMacropiezas)
}

// SubirArchivo recibe un .xlsx y guarda su buffer crudo
// POST /api/archivos/:tipo  (tipo: inventario | consolidado)
func (h *Handler) SubirArchivo(c *gin.Context) {
	tipo := c.Param("tipo")
	if tipo != store.ColInventario && tipo != store.ColConsolidado {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tipo de archivo desconocido: " + tipo})
		return
	}

	archivo, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se encontró el archivo en el formulario"})
		return
	}

	if !strings.HasSuffix(strings.ToLower(archivo.Filename), ".xlsx") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "solo se aceptan archivos .xlsx"})
		return
	}
	if archivo.Size > maxTamanoArchivo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el archivo supera el tamaño máximo permitido"})
		return
	}

	f, err := archivo.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo leer el archivo"})
		return
	}
	defer f.Close()

	datos, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo leer el archivo"})
		return
	}

	if err := h.store.GuardarArchivo(tipo, archivo.Filename, datos); err != nil {
		h.log.Error("error al guardar archivo", zap.String("tipo", tipo), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo guardar el archivo"})
		return
	}

	h.log.Info("archivo guardado",
		zap.String("tipo", tipo),
		zap.String("nombre", archivo.Filename),
		zap.Int("bytes", len(datos)))

	c.JSON(http.StatusOK, gin.H{
		"tipo":   tipo,
		"nombre": archivo.Filename,
	})
}

// estadoArchivo presencia y nombre de un archivo subido
type estadoArchivo struct {
	Cargado bool   `json:"cargado"`
	Nombre  string `json:"nombre,omitempty"`
}

// EstadoArchivos indica qué archivos están cargados
// GET /api/archivos
func (h *Handler) EstadoArchivos(c *gin.Context) {
	estado := make(map[string]estadoArchivo, 2)
	for _, tipo := range []string{store.ColInventario, store.ColConsolidado} {
		archivo, err := h.store.ObtenerArchivo(tipo)
		if err != nil {
			estado[tipo] = estadoArchivo{}
			continue
		}
		estado[tipo] = estadoArchivo{Cargado: true, Nombre: archivo.Nombre}
	}
	c.JSON(http.StatusOK, estado)
}

// Procesar dispara el pipeline sobre los archivos guardados
// POST /api/procesar
func (h *Handler) Procesar(c *gin.Context) {
	inventario, err := h.store.ObtenerArchivo(store.ColInventario)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "falta el archivo de inventario"})
		return
	}

	// El consolidado es opcional: sin él no hay análisis de ventas
	consolidado, err := h.store.ObtenerArchivo(store.ColConsolidado)
	if err != nil {
		consolidado = nil
	}

	resultado, err := h.coordinador.Procesar(inventario, consolidado)
	if err != nil {
		if errors.Is(err, importer.ErrProcesoEnCurso) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		var etapa *importer.ErrorEtapa
		if errors.As(err, &etapa) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": etapa.Error(),
				"etapa": etapa.Etapa,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":                 resultado.RunID,
		"productos":              len(resultado.Datos.Productos),
		"con_analisis":           resultado.Datos.Analisis != nil,
		"descartadas_inventario": resultado.DescartadasInventario,
		"descartadas_historico":  resultado.DescartadasHistorico,
		"duracion_ms":            resultado.Duracion.Milliseconds(),
	})
}

// Reiniciar borra archivos, datos procesados y metadata
// POST /api/reiniciar
func (h *Handler) Reiniciar(c *gin.Context) {
	if err := h.store.ClearAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudieron borrar los datos"})
		return
	}
	h.log.Info("datos reiniciados")
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ObtenerDatos dataset completo de la última corrida
// GET /api/datos
func (h *Handler) ObtenerDatos(c *gin.Context) {
	datos, err := h.store.ObtenerResultado()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no hay datos procesados"})
		return
	}
	c.JSON(http.StatusOK, datos)
}

// ObtenerMetadata metadata de la última corrida
// GET /api/metadata
func (h *Handler) ObtenerMetadata(c *gin.Context) {
	meta, err := h.store.ObtenerMetadata()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no hay datos procesados"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

// ObtenerEstadisticas estadísticas de la última corrida
// GET /api/estadisticas
func (h *Handler) ObtenerEstadisticas(c *gin.Context) {
	datos, err := h.store.ObtenerResultado()
	if err != nil || datos.Estadisticas == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no hay datos procesados"})
		return
	}
	c.JSON(http.StatusOK, datos.Estadisticas)
}

// TopSobrestock productos con mayor sobrestock
// GET /api/analisis/sobrestock?n=10
func (h *Handler) TopSobrestock(c *gin.Context) {
	h.ranking(c, func(analisis []model.ProductoAnalizado, n int) (interface{}, error) {
		return analyzer.TopSobrestock(analisis, n)
	}, 10)
}

// TopDeficit productos con mayor déficit
// GET /api/analisis/deficit?n=10
func (h *Handler) TopDeficit(c *gin.Context) {
	h.ranking(c, func(analisis []model.ProductoAnalizado, n int) (interface{}, error) {
		return analyzer.TopDeficit(analisis, n)
	}, 10)
}

// TopRotacion productos con mayor rotación
// GET /api/analisis/rotacion?n=10
func (h *Handler) TopRotacion(c *gin.Context) {
	h.ranking(c, func(analisis []model.ProductoAnalizado, n int) (interface{}, error) {
		return analyzer.TopRotacion(analisis, n)
	}, 10)
}

// CriticosPorCobertura productos más críticos por ratio de cobertura
// GET /api/analisis/criticos?n=5
func (h *Handler) CriticosPorCobertura(c *gin.Context) {
	h.ranking(c, func(analisis []model.ProductoAnalizado, n int) (interface{}, error) {
		return analyzer.CriticosPorCobertura(analisis, n)
	}, 5)
}

// ResumenMacropiezas agregado del análisis por macropieza
// GET /api/analisis/macropiezas
func (h *Handler) ResumenMacropiezas(c *gin.Context) {
	h.ranking(c, func(analisis []model.ProductoAnalizado, _ int) (interface{}, error) {
		return analyzer.ResumenPorMacropieza(analisis)
	}, 0)
}

// ranking resuelve un ranking sobre el análisis persistido.
// Responde 409 cuando el análisis de ventas nunca se ejecutó, para que
// el cliente distinga "sin productos" de "sin análisis".
func (h *Handler) ranking(c *gin.Context, fn func([]model.ProductoAnalizado, int) (interface{}, error), nPorDefecto int) {
	datos, err := h.store.ObtenerResultado()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no hay datos procesados"})
		return
	}

	n := nPorDefecto
	if v := c.Query("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}

	resultado, err := fn(datos.Analisis, n)
	if err != nil {
		if errors.Is(err, analyzer.ErrSinAnalisis) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resultado)
}
