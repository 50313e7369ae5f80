package refdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLegalForms(t *testing.T) {
	lf, err := LoadLegalForms()
	require.NoError(t, err)
	assert.Greater(t, lf.Count(), 10, "el číselník embebido no debe estar vacío")

	name, ok := lf.Lookup("112")
	require.True(t, ok)
	assert.Equal(t, "Společnost s ručením omezeným", name)

	assert.True(t, lf.Valid(" 112 "), "los códigos se comparan recortados")
	assert.False(t, lf.Valid("999"))
	assert.False(t, lf.Valid(""))
}
