package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/slotscope/types"
	"github.com/ethpandaops/slotscope/utils"
)

func TestCompileTimeCheck(t *testing.T) {
	utils.Config = &types.Config{}
	require.NoError(t, CompileTimeCheck(Files))
}

func TestTemplateNames(t *testing.T) {
	names := GetTemplateNames()
	assert.Contains(t, names, "_layout/layout.html")
	assert.Contains(t, names, "slot/attestations.html")
	assert.NotContains(t, names, ".")
}

func TestMinifyTemplate(t *testing.T) {
	utils.Config = &types.Config{}
	utils.Config.Frontend.Minify = true
	t.Cleanup(func() { utils.Config.Frontend.Minify = false })

	name, body, err := readFileFS(Files)("_layout/404.html")
	require.NoError(t, err)
	assert.Equal(t, "404.html", name)
	assert.NotContains(t, string(body), "\n")
	assert.False(t, strings.Contains(string(body), "  "))
}
