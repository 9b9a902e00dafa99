package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Grupolom/lomarosa-dashboard/internal/model"
)

// ArchivoGuardado buffer de un archivo subido junto con su nombre
type ArchivoGuardado struct {
	Nombre     string    `json:"filename"`
	Datos      []byte    `json:"data"`
	GuardadoEn time.Time `json:"timestamp"`
}

// GuardarArchivo persiste el buffer crudo de un archivo subido.
// tipo es la colección destino (inventario o consolidado).
func (s *Store) GuardarArchivo(tipo, nombre string, datos []byte) error {
	archivo := ArchivoGuardado{
		Nombre:     nombre,
		Datos:      datos,
		GuardadoEn: time.Now(),
	}

	valor, err := json.Marshal(archivo)
	if err != nil {
		return err
	}

	return s.Put(tipo, tipo, valor)
}

// ObtenerArchivo recupera un archivo subido; ErrNoExiste si no hay
func (s *Store) ObtenerArchivo(tipo string) (*ArchivoGuardado, error) {
	valor, err := s.Get(tipo, tipo)
	if err != nil {
		return nil, err
	}

	var archivo ArchivoGuardado
	if err := json.Unmarshal(valor, &archivo); err != nil {
		return nil, fmt.Errorf("archivo %s corrupto: %w", tipo, err)
	}
	return &archivo, nil
}

// GuardarResultado persiste el dataset procesado y la metadata en una
// sola transacción: o se guarda la corrida completa o no se guarda nada.
func (s *Store) GuardarResultado(datos *model.DatosProcesados, meta *model.Metadata) error {
	datosJSON, err := json.Marshal(datos)
	if err != nil {
		return err
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ahora := time.Now().Format(time.RFC3339)
	const upsert = `
		INSERT INTO colecciones (coleccion, clave, valor, actualizado_en)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (coleccion, clave) DO UPDATE SET
			valor = excluded.valor,
			actualizado_en = excluded.actualizado_en
	`

	if _, err := tx.Exec(upsert, ColProcesados, ColProcesados, datosJSON, ahora); err != nil {
		return err
	}
	if _, err := tx.Exec(upsert, ColMetadata, ColMetadata, metaJSON, ahora); err != nil {
		return err
	}

	return tx.Commit()
}

// ObtenerResultado recupera el dataset procesado de la última corrida
func (s *Store) ObtenerResultado() (*model.DatosProcesados, error) {
	valor, err := s.Get(ColProcesados, ColProcesados)
	if err != nil {
		return nil, err
	}

	var datos model.DatosProcesados
	if err := json.Unmarshal(valor, &datos); err != nil {
		return nil, fmt.Errorf("dataset procesado corrupto: %w", err)
	}
	return &datos, nil
}

// ObtenerMetadata recupera la metadata de la última corrida
func (s *Store) ObtenerMetadata() (*model.Metadata, error) {
	valor, err := s.Get(ColMetadata, ColMetadata)
	if err != nil {
		return nil, err
	}

	var meta model.Metadata
	if err := json.Unmarshal(valor, &meta); err != nil {
		return nil, fmt.Errorf("metadata corrupta: %w", err)
	}
	return &meta, nil
}
