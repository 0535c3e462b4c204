package pdf

import "strings"

// RequiredPage1 lists the field keys that must be non-empty before the
// folha 1 template may be rendered.
var RequiredPage1 = []string{
	KeyNumero,
	KeyNome,
	KeyFuncao,
	KeySetor,
	KeyCPF,
	KeyDescInfracao,
	KeyDataInfracao,
	KeyHoraInfracao,
	KeyCodInfracao,
	KeyDescPenalidade,
	KeyLider,
}

// RequiredPage2 is the folha 1 list plus the long-form penalty text.
// The outcome markers are deliberately absent: an unknown outcome is an
// anomaly reported by the mapper, not a validation failure.
var RequiredPage2 = append(append([]string{}, RequiredPage1...), KeyTextoInfracao)

// MissingFields returns the required keys whose values are absent or
// blank after trimming, in the order the required list was given.
// Pure function; used as a gate before any external render call.
func MissingFields(fields map[string]string, required []string) []string {
	missing := make([]string, 0)
	for _, key := range required {
		if strings.TrimSpace(fields[key]) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
