package pdf

import (
	"errors"
	"strings"
	"time"

	"tratativas/internal/model"
)

// Field keys expected by the rendering templates. Both pages share the
// base set; folha 2 adds the two outcome markers.
const (
	KeyNumero          = "DOP_NUMERO"
	KeyNome            = "DOP_NOME"
	KeyFuncao          = "DOP_FUNCAO"
	KeySetor           = "DOP_SETOR"
	KeyCPF             = "DOP_CPF"
	KeyDescInfracao    = "DOP_DESC_INFRACAO"
	KeyDataInfracao    = "DOP_DATA_INFRACAO"
	KeyHoraInfracao    = "DOP_HORA_INFRACAO"
	KeyCodInfracao     = "DOP_COD_INFRACAO"
	KeyValorRegistrado = "DOP_VALOR_REGISTRADO"
	KeyMetrica         = "DOP_METRICA"
	KeyValorLimite     = "DOP_VALOR_LIMITE"
	KeyDescPenalidade  = "DOP_DESC_PENALIDADE"
	KeyTextoInfracao   = "DOP_TEXTO_INFRACAO"
	KeyLider           = "DOP_LIDER"
	KeyEvidencia       = "DOP_EVIDENCIA"
	KeyAdvertido       = "DOP_ADVERTIDO"
	KeySuspenso        = "DOP_SUSPENSO"
)

// Marked is the affirmative value of a checkbox field.
const Marked = "X"

// ErrOutcomeUnknown is reported when neither a severity rank nor an
// explicit status string yields a warned/suspended outcome. The mapped
// set is still usable (both markers blank); callers must surface the
// anomaly to operators instead of accepting it silently.
var ErrOutcomeUnknown = errors.New("outcome not derivable from severity code or status")

// MapPage1 flattens a tratativa into the folha 1 field set. Every key is
// present even when the source value is empty; absence is the
// validator's concern, not the mapper's.
func MapPage1(t *model.Tratativa) map[string]string {
	return map[string]string{
		KeyNumero:          t.Numero,
		KeyNome:            t.Funcionario,
		KeyFuncao:          t.Funcao,
		KeySetor:           t.Setor,
		KeyCPF:             t.CPF,
		KeyDescInfracao:    t.DescricaoInfracao,
		KeyDataInfracao:    DisplayDate(t.DataInfracao),
		KeyHoraInfracao:    t.HoraInfracao,
		KeyCodInfracao:     t.CodigoInfracao,
		KeyValorRegistrado: t.ValorRegistrado,
		KeyMetrica:         t.Metrica,
		KeyValorLimite:     t.ValorLimite,
		KeyDescPenalidade:  t.DescricaoMedida,
		KeyTextoInfracao:   t.TextoAdvertencia,
		KeyLider:           t.Lider,
		KeyEvidencia:       t.Evidencia,
	}
}

// MapPage2 is the folha 1 set plus the mutually exclusive outcome
// markers. Exactly one marker is affirmative whenever the severity rank
// is known (P1/P2 warn, P3/P4 suspend) or the status string is explicit;
// otherwise both stay blank and ErrOutcomeUnknown is returned alongside
// the set.
func MapPage2(t *model.Tratativa) (map[string]string, error) {
	fields := MapPage1(t)
	fields[KeyAdvertido] = ""
	fields[KeySuspenso] = ""

	advertido, suspenso, ok := outcome(t)
	if !ok {
		return fields, ErrOutcomeUnknown
	}
	if advertido {
		fields[KeyAdvertido] = Marked
	}
	if suspenso {
		fields[KeySuspenso] = Marked
	}
	return fields, nil
}

// outcome derives the warned/suspended pair from the leading rank token
// of the penalty code, falling back to the explicit status string.
func outcome(t *model.Tratativa) (advertido, suspenso, ok bool) {
	switch rank(t.CodigoMedida) {
	case model.SeverityP1, model.SeverityP2:
		return true, false, true
	case model.SeverityP3, model.SeverityP4:
		return false, true, true
	}
	switch strings.ToLower(strings.TrimSpace(t.Status)) {
	case model.StatusAdvertido:
		return true, false, true
	case model.StatusSuspenso:
		return false, true, true
	}
	return false, false, false
}

// rank extracts the leading severity token (P1..P4) from a penalty code
// such as "P2 - Advertência escrita". The token must be the whole code
// or be followed by a separator; "P10" is not a rank. Returns "" when no
// token leads.
func rank(code string) string {
	token := strings.ToUpper(strings.TrimSpace(code))
	if len(token) < 2 {
		return ""
	}
	if len(token) > 2 {
		next := token[2]
		if next != ' ' && next != '-' && next != '.' && next != ':' {
			return ""
		}
	}
	token = token[:2]
	switch token {
	case model.SeverityP1, model.SeverityP2, model.SeverityP3, model.SeverityP4:
		return token
	}
	return ""
}

// DisplayDate converts a stored ISO date (2006-01-02) to the display
// form used on the document (02/01/2006). Conversion happens exactly
// once, here at the mapping boundary; values that do not parse as ISO
// pass through unchanged.
func DisplayDate(iso string) string {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return d.Format("02/01/2006")
}
