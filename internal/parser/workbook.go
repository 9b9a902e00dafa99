package parser

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook envoltorio de lectura sobre un libro de Excel en memoria
type Workbook struct {
	file *excelize.File
}

// OpenBuffer abre un libro desde un buffer de bytes
func OpenBuffer(data []byte) (*Workbook, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el archivo Excel: %w", err)
	}
	return &Workbook{file: file}, nil
}

// Close cierra el libro
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Rows lee una hoja a partir de la fila de encabezados indicada (base 0).
// Devuelve los encabezados ya recortados y las filas de datos como valores
// crudos de celda (las fechas seriales llegan como números, igual que en
// el lector del dashboard original).
func (w *Workbook) Rows(hoja string, filaEncabezado int) (headers []string, rows [][]string, err error) {
	all, err := w.file.GetRows(hoja, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("hoja %q no encontrada: %w", hoja, err)
	}

	if len(all) < filaEncabezado+2 {
		return nil, nil, fmt.Errorf("hoja %q sin filas de datos suficientes", hoja)
	}

	headers = make([]string, len(all[filaEncabezado]))
	for i, h := range all[filaEncabezado] {
		headers[i] = strings.TrimSpace(h)
	}

	return headers, all[filaEncabezado+1:], nil
}

// resolverColumnas busca los índices de las columnas requeridas.
// requeridas mapea el nombre lógico del campo al nombre de columna
// configurado. Falla listando todas las columnas ausentes.
func resolverColumnas(headers []string, requeridas map[string]string) (map[string]int, error) {
	indices := make(map[string]int, len(requeridas))
	var faltantes []string

	for campo, columna := range requeridas {
		idx := -1
		for i, h := range headers {
			if h == columna {
				idx = i
				break
			}
		}
		if idx == -1 {
			faltantes = append(faltantes, columna)
			continue
		}
		indices[campo] = idx
	}

	if len(faltantes) > 0 {
		sort.Strings(faltantes)
		return nil, fmt.Errorf("no se encontraron las columnas requeridas: %s", strings.Join(faltantes, ", "))
	}

	return indices, nil
}

// celda valor de la columna idx de la fila, o cadena vacía si la fila es corta
func celda(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
