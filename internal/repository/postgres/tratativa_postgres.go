package postgres

import (
	"context"
	"database/sql"

	"tratativas/internal/model"
	"tratativas/internal/repository"
)

// tratativaColumns is the canonical select list, shared by every query so
// scan order never drifts from the schema.
const tratativaColumns = `id, numero, funcionario, funcao, setor, cpf,
	descricao_infracao, data_infracao, hora_infracao, codigo_infracao,
	valor_registrado, metrica, valor_limite,
	codigo_medida, descricao_medida, texto_advertencia, status,
	evidencia, lider, document_url, created_at`

// TratativaPostgres is a PostgreSQL implementation of repository.TratativaRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type TratativaPostgres struct {
	db *sql.DB
}

// NewTratativaPostgres creates a new TratativaPostgres repository.
func NewTratativaPostgres(db *sql.DB) *TratativaPostgres {
	return &TratativaPostgres{db: db}
}

var _ repository.TratativaRepository = (*TratativaPostgres)(nil)

func scanTratativa(row interface{ Scan(...any) error }) (*model.Tratativa, error) {
	var t model.Tratativa
	var docURL sql.NullString
	if err := row.Scan(
		&t.ID,
		&t.Numero,
		&t.Funcionario,
		&t.Funcao,
		&t.Setor,
		&t.CPF,
		&t.DescricaoInfracao,
		&t.DataInfracao,
		&t.HoraInfracao,
		&t.CodigoInfracao,
		&t.ValorRegistrado,
		&t.Metrica,
		&t.ValorLimite,
		&t.CodigoMedida,
		&t.DescricaoMedida,
		&t.TextoAdvertencia,
		&t.Status,
		&t.Evidencia,
		&t.Lider,
		&docURL,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	t.DocumentURL = docURL.String
	return &t, nil
}

// Create inserts a new tratativa row and returns the stored record.
func (r *TratativaPostgres) Create(ctx context.Context, t *model.Tratativa) (*model.Tratativa, error) {
	const q = `
		INSERT INTO tratativas (id, numero, funcionario, funcao, setor, cpf,
			descricao_infracao, data_infracao, hora_infracao, codigo_infracao,
			valor_registrado, metrica, valor_limite,
			codigo_medida, descricao_medida, texto_advertencia, status,
			evidencia, lider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + tratativaColumns
	row := r.db.QueryRowContext(ctx, q,
		t.ID,
		t.Numero,
		t.Funcionario,
		t.Funcao,
		t.Setor,
		t.CPF,
		t.DescricaoInfracao,
		t.DataInfracao,
		t.HoraInfracao,
		t.CodigoInfracao,
		t.ValorRegistrado,
		t.Metrica,
		t.ValorLimite,
		t.CodigoMedida,
		t.DescricaoMedida,
		t.TextoAdvertencia,
		t.Status,
		t.Evidencia,
		t.Lider,
		t.CreatedAt,
	)
	return scanTratativa(row)
}

// FindByID fetches a single tratativa by its ID.
func (r *TratativaPostgres) FindByID(ctx context.Context, id string) (*model.Tratativa, error) {
	const q = `SELECT ` + tratativaColumns + ` FROM tratativas WHERE id = $1`
	return scanTratativa(r.db.QueryRowContext(ctx, q, id))
}

// List returns tratativas using LIMIT/OFFSET pagination and a total count.
func (r *TratativaPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Tratativa], error) {
	const qCount = `SELECT COUNT(*) FROM tratativas`
	const qList = `SELECT ` + tratativaColumns + `
		FROM tratativas
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	return r.page(ctx, qCount, qList, pq)
}

// ListPending returns tratativas lacking a published document, oldest first
// so the longest-waiting cases surface on page one.
func (r *TratativaPostgres) ListPending(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Tratativa], error) {
	const qCount = `SELECT COUNT(*) FROM tratativas WHERE document_url IS NULL`
	const qList = `SELECT ` + tratativaColumns + `
		FROM tratativas
		WHERE document_url IS NULL
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2`
	return r.page(ctx, qCount, qList, pq)
}

func (r *TratativaPostgres) page(ctx context.Context, qCount, qList string, pq repository.PageQuery) (*repository.PageResult[model.Tratativa], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Tratativa, 0)
	for rows.Next() {
		t, err := scanTratativa(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Tratativa]{
		Items: items,
		Total: total,
	}, nil
}

// SetDocumentURL performs the single conditional update of the pipeline:
// document_url = $2 where id = $1. A non-matching id yields sql.ErrNoRows.
func (r *TratativaPostgres) SetDocumentURL(ctx context.Context, id, url string) (*model.Tratativa, error) {
	const q = `
		UPDATE tratativas
		SET document_url = $2
		WHERE id = $1
		RETURNING ` + tratativaColumns
	return scanTratativa(r.db.QueryRowContext(ctx, q, id, url))
}
