package model

import "time"

// Tratativa represents a disciplinary case for an employee infraction.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Tratativa struct {
	ID string `json:"id"`
	// Numero is the human-facing case number, unique within the business
	// domain and used in filenames and storage paths.
	Numero string `json:"numero"`

	Funcionario string `json:"funcionario"`
	Funcao      string `json:"funcao"`
	Setor       string `json:"setor"`
	CPF         string `json:"cpf"`

	DescricaoInfracao string `json:"descricao_infracao"`
	// DataInfracao is stored in ISO form (2006-01-02). Display formatting
	// happens once, when fields are mapped for rendering.
	DataInfracao    string `json:"data_infracao"`
	HoraInfracao    string `json:"hora_infracao"`
	CodigoInfracao  string `json:"codigo_infracao"`
	ValorRegistrado string `json:"valor_registrado"`
	Metrica         string `json:"metrica"`
	ValorLimite     string `json:"valor_limite"`

	// CodigoMedida carries the severity rank as a leading token (P1..P4).
	CodigoMedida     string `json:"codigo_medida"`
	DescricaoMedida  string `json:"descricao_medida"`
	TextoAdvertencia string `json:"texto_advertencia"`
	// Status is an explicit outcome string used as a fallback when
	// CodigoMedida carries no rank token.
	Status string `json:"status"`

	Evidencia string `json:"evidencia"`
	Lider     string `json:"lider"`

	// DocumentURL is empty until the merged document has been published.
	DocumentURL string    `json:"document_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Severity ranks recognized in CodigoMedida. P1 and P2 imply a warned
// outcome, P3 and P4 a suspended one.
const (
	SeverityP1 = "P1"
	SeverityP2 = "P2"
	SeverityP3 = "P3"
	SeverityP4 = "P4"
)

// Outcome values for Tratativa.Status.
const (
	StatusAdvertido = "advertido"
	StatusSuspenso  = "suspenso"
)

// Published reports whether the document pipeline already completed for
// this record. A published record must not be re-run implicitly.
func (t *Tratativa) Published() bool {
	return t.DocumentURL != ""
}
