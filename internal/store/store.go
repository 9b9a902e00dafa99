package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// Nombres de las colecciones persistidas
const (
	ColInventario  = "inventario"
	ColConsolidado = "consolidado"
	ColProcesados  = "processed"
	ColMetadata    = "metadata"
)

// ErrNoExiste la clave no está en la colección
var ErrNoExiste = errors.New("clave no encontrada")

// Store capa de persistencia clave/valor sobre SQLite
type Store struct {
	db *sql.DB
}

// New crea el Store y prepara el esquema
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("no se pudo crear el directorio de datos: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir la base de datos: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("no se pudo conectar a la base de datos: %w", err)
	}

	// SQLite recomienda conexión única
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}

	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("no se pudo inicializar el esquema: %w", err)
	}

	return s, nil
}

// initSchema ejecuta schema.sql embebido
func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("no se pudo leer schema.sql: %w", err)
	}

	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("no se pudo ejecutar el esquema: %w", err)
	}

	return nil
}

// Close cierra la conexión
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put guarda un valor en una colección
func (s *Store) Put(coleccion, clave string, valor []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO colecciones (coleccion, clave, valor, actualizado_en)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (coleccion, clave) DO UPDATE SET
			valor = excluded.valor,
			actualizado_en = excluded.actualizado_en
	`, coleccion, clave, valor, time.Now().Format(time.RFC3339))
	return err
}

// Get obtiene un valor; ErrNoExiste si la clave no está
func (s *Store) Get(coleccion, clave string) ([]byte, error) {
	var valor []byte
	err := s.db.QueryRow(`
		SELECT valor FROM colecciones WHERE coleccion = ? AND clave = ?
	`, coleccion, clave).Scan(&valor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoExiste
	}
	if err != nil {
		return nil, err
	}
	return valor, nil
}

// Clear vacía una colección
func (s *Store) Clear(coleccion string) error {
	_, err := s.db.Exec(`DELETE FROM colecciones WHERE coleccion = ?`, coleccion)
	return err
}

// ClearAll vacía todas las colecciones
func (s *Store) ClearAll() error {
	_, err := s.db.Exec(`DELETE FROM colecciones`)
	return err
}
