package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFields(t *testing.T) {
	t.Run("empty for complete set", func(t *testing.T) {
		fields := MapPage1(sampleTratativa())
		assert.Empty(t, MissingFields(fields, RequiredPage1))
	})

	t.Run("reports absent and blank keys in required order", func(t *testing.T) {
		fields := map[string]string{
			"A": "ok",
			"B": "   ",
			"D": "",
		}
		missing := MissingFields(fields, []string{"D", "A", "B", "C"})
		assert.Equal(t, []string{"D", "B", "C"}, missing)
	})

	t.Run("missing lider on page 1", func(t *testing.T) {
		tr := sampleTratativa()
		tr.Lider = ""
		missing := MissingFields(MapPage1(tr), RequiredPage1)
		assert.Equal(t, []string{KeyLider}, missing)
	})

	t.Run("round trip with required list", func(t *testing.T) {
		// No missing fields reported iff every required value present.
		fields := MapPage1(sampleTratativa())
		require.Empty(t, MissingFields(fields, RequiredPage1))
		for _, key := range RequiredPage1 {
			mutated := MapPage1(sampleTratativa())
			mutated[key] = " "
			assert.Equal(t, []string{key}, MissingFields(mutated, RequiredPage1))
		}
	})
}

func TestRequiredPage2(t *testing.T) {
	assert.Contains(t, RequiredPage2, KeyTextoInfracao)
	assert.NotContains(t, RequiredPage2, KeyAdvertido)
	assert.NotContains(t, RequiredPage2, KeySuspenso)
}
