package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Grupolom/lomarosa-dashboard/internal/config"
	"github.com/Grupolom/lomarosa-dashboard/internal/importer"
	"github.com/Grupolom/lomarosa-dashboard/internal/store"
)

func routerPrueba(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "lomarosa.db"))
	if err != nil {
		t.Fatalf("no se pudo crear el store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultConfig()
	log := zap.NewNop()
	handler := NewHandler(cfg, st, importer.NewCoordinator(cfg, st, log), log)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router, st
}

// libroInventario inventario mínimo válido con los encabezados en la fila 10
func libroInventario(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "CONSOLIDADO"); err != nil {
		t.Fatalf("no se pudo renombrar la hoja: %v", err)
	}

	encabezados := []string{"Codigo", "Productos", "Total", "U/m", "Comentarios"}
	for i, h := range encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 10)
		f.SetCellValue("CONSOLIDADO", celda, h)
	}
	fila := []interface{}{100, "Chuleta Premium", 30, "KG", ""}
	for i, v := range fila {
		celda, _ := excelize.CoordinatesToCellName(i+1, 11)
		f.SetCellValue("CONSOLIDADO", celda, v)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("no se pudo serializar el libro: %v", err)
	}
	return buf.Bytes()
}

// subirArchivo arma la petición multipart de carga de un archivo
func subirArchivo(t *testing.T, router *gin.Engine, tipo, nombre string, contenido []byte) *httptest.ResponseRecorder {
	t.Helper()

	var cuerpo bytes.Buffer
	escritor := multipart.NewWriter(&cuerpo)
	parte, err := escritor.CreateFormFile("file", nombre)
	if err != nil {
		t.Fatalf("no se pudo crear el formulario: %v", err)
	}
	if _, err := parte.Write(contenido); err != nil {
		t.Fatalf("no se pudo escribir el archivo: %v", err)
	}
	escritor.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/archivos/"+tipo, &cuerpo)
	req.Header.Set("Content-Type", escritor.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func hacerGet(router *gin.Engine, ruta string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, ruta, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func hacerPost(router *gin.Engine, ruta string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, ruta, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubirArchivo_Validaciones(t *testing.T) {
	router, _ := routerPrueba(t)

	if w := subirArchivo(t, router, "otracosa", "datos.xlsx", []byte("x")); w.Code != http.StatusBadRequest {
		t.Errorf("tipo desconocido: código %d, se esperaba 400", w.Code)
	}
	if w := subirArchivo(t, router, "inventario", "datos.csv", []byte("x")); w.Code != http.StatusBadRequest {
		t.Errorf("extensión inválida: código %d, se esperaba 400", w.Code)
	}
	if w := subirArchivo(t, router, "inventario", "datos.xlsx", libroInventario(t)); w.Code != http.StatusOK {
		t.Errorf("carga válida: código %d, se esperaba 200: %s", w.Code, w.Body)
	}
}

func TestEstadoArchivos(t *testing.T) {
	router, _ := routerPrueba(t)

	w := hacerGet(router, "/api/archivos")
	if w.Code != http.StatusOK {
		t.Fatalf("código %d, se esperaba 200", w.Code)
	}
	var estado map[string]struct {
		Cargado bool   `json:"cargado"`
		Nombre  string `json:"nombre"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &estado); err != nil {
		t.Fatalf("respuesta inválida: %v", err)
	}
	if estado["inventario"].Cargado || estado["consolidado"].Cargado {
		t.Errorf("sin cargas previas se esperaban ambos en falso: %v", estado)
	}

	subirArchivo(t, router, "inventario", "inv.xlsx", libroInventario(t))

	w = hacerGet(router, "/api/archivos")
	if err := json.Unmarshal(w.Body.Bytes(), &estado); err != nil {
		t.Fatalf("respuesta inválida: %v", err)
	}
	if !estado["inventario"].Cargado || estado["inventario"].Nombre != "inv.xlsx" {
		t.Errorf("estado de inventario inesperado: %v", estado)
	}
}

func TestProcesar_SinInventario(t *testing.T) {
	router, _ := routerPrueba(t)

	if w := hacerPost(router, "/api/procesar"); w.Code != http.StatusBadRequest {
		t.Errorf("código %d, se esperaba 400 sin inventario", w.Code)
	}
}

func TestProcesar_SoloInventario(t *testing.T) {
	router, _ := routerPrueba(t)

	subirArchivo(t, router, "inventario", "inv.xlsx", libroInventario(t))

	w := hacerPost(router, "/api/procesar")
	if w.Code != http.StatusOK {
		t.Fatalf("código %d, se esperaba 200: %s", w.Code, w.Body)
	}

	var respuesta struct {
		RunID       string `json:"run_id"`
		Productos   int    `json:"productos"`
		ConAnalisis bool   `json:"con_analisis"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &respuesta); err != nil {
		t.Fatalf("respuesta inválida: %v", err)
	}
	if respuesta.RunID == "" || respuesta.Productos != 1 || respuesta.ConAnalisis {
		t.Errorf("respuesta inesperada: %+v", respuesta)
	}

	// Las estadísticas del inventario quedan disponibles
	if w := hacerGet(router, "/api/estadisticas"); w.Code != http.StatusOK {
		t.Errorf("estadísticas: código %d, se esperaba 200", w.Code)
	}
	// Los rankings requieren análisis de ventas: 409
	if w := hacerGet(router, "/api/analisis/deficit"); w.Code != http.StatusConflict {
		t.Errorf("déficit sin análisis: código %d, se esperaba 409", w.Code)
	}
}

func TestProcesar_InventarioCorrupto(t *testing.T) {
	router, _ := routerPrueba(t)

	subirArchivo(t, router, "inventario", "inv.xlsx", []byte("no es un xlsx"))

	w := hacerPost(router, "/api/procesar")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("código %d, se esperaba 422: %s", w.Code, w.Body)
	}

	var respuesta struct {
		Etapa string `json:"etapa"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &respuesta); err != nil {
		t.Fatalf("respuesta inválida: %v", err)
	}
	if respuesta.Etapa != "inventario" {
		t.Errorf("etapa = %q, se esperaba inventario", respuesta.Etapa)
	}
}

func TestDatosYMetadata_SinCorrida(t *testing.T) {
	router, _ := routerPrueba(t)

	for _, ruta := range []string{"/api/datos", "/api/metadata", "/api/estadisticas", "/api/analisis/sobrestock"} {
		if w := hacerGet(router, ruta); w.Code != http.StatusNotFound {
			t.Errorf("%s: código %d, se esperaba 404", ruta, w.Code)
		}
	}
}

func TestReiniciar(t *testing.T) {
	router, _ := routerPrueba(t)

	subirArchivo(t, router, "inventario", "inv.xlsx", libroInventario(t))
	if w := hacerPost(router, "/api/procesar"); w.Code != http.StatusOK {
		t.Fatalf("procesar falló: %d %s", w.Code, w.Body)
	}

	if w := hacerPost(router, "/api/reiniciar"); w.Code != http.StatusOK {
		t.Fatalf("reiniciar: código %d, se esperaba 200", w.Code)
	}

	if w := hacerGet(router, "/api/datos"); w.Code != http.StatusNotFound {
		t.Errorf("después de reiniciar: código %d, se esperaba 404", w.Code)
	}
	if w := hacerPost(router, "/api/procesar"); w.Code != http.StatusBadRequest {
		t.Errorf("procesar sin archivos tras reiniciar: código %d, se esperaba 400", w.Code)
	}
}
