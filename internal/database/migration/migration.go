package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_tratativas",
		SQL: `CREATE TABLE IF NOT EXISTS tratativas (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  numero            TEXT        NOT NULL UNIQUE,
  funcionario       TEXT        NOT NULL,
  funcao            TEXT        NOT NULL DEFAULT '',
  setor             TEXT        NOT NULL DEFAULT '',
  cpf               TEXT        NOT NULL DEFAULT '',
  descricao_infracao TEXT       NOT NULL DEFAULT '',
  data_infracao     TEXT        NOT NULL DEFAULT '',
  hora_infracao     TEXT        NOT NULL DEFAULT '',
  codigo_infracao   TEXT        NOT NULL DEFAULT '',
  valor_registrado  TEXT        NOT NULL DEFAULT '',
  metrica           TEXT        NOT NULL DEFAULT '',
  valor_limite      TEXT        NOT NULL DEFAULT '',
  codigo_medida     TEXT        NOT NULL DEFAULT '',
  descricao_medida  TEXT        NOT NULL DEFAULT '',
  texto_advertencia TEXT        NOT NULL DEFAULT '',
  status            TEXT        NOT NULL DEFAULT '',
  evidencia         TEXT        NOT NULL DEFAULT '',
  lider             TEXT        NOT NULL DEFAULT '',
  document_url      TEXT,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_tratativas_numero",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tratativas_numero ON tratativas (numero);`,
	},
	{
		Name: "create_index_tratativas_document_url",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tratativas_document_url ON tratativas (document_url) WHERE document_url IS NULL;`,
	},
	{
		Name: "create_index_tratativas_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tratativas_created_at ON tratativas (created_at);`,
	},
}

// EnsureMigrated checks if the 'tratativas' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.tratativas') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
