package hwdesc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clktree-go/errcode"
	"clktree-go/hwdesc"
)

const treeYAML = `
providers:
  - name: sim0
    lines: ["42", "17"]
clocks:
  - name: osc24m
    compatible: fixed-clock
    rate: 24000000
  - name: cam-mclk
    compatible: gpio-clock
    enable-gpios: {provider: sim0, line: "42", active-low: true}
    clocks: [osc24m]
`

func TestLoad(t *testing.T) {
	nodes, err := hwdesc.Load(strings.NewReader(treeYAML))
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	osc := nodes[0]
	assert.Equal(t, "osc24m", osc.Name)
	assert.Equal(t, "fixed-clock", osc.Compatible)
	assert.EqualValues(t, 24000000, osc.Rate)
	assert.Nil(t, osc.EnableGPIO)

	cam := nodes[1]
	assert.Equal(t, "cam-mclk", cam.Name)
	assert.Equal(t, "gpio-clock", cam.Compatible)
	require.NotNil(t, cam.EnableGPIO)
	assert.Equal(t, "sim0", cam.EnableGPIO.Provider)
	assert.Equal(t, "42", cam.EnableGPIO.Line)
	assert.True(t, cam.EnableGPIO.ActiveLow)

	parent, ok := cam.ParentName(0)
	require.True(t, ok)
	assert.Equal(t, "osc24m", parent)
	_, ok = cam.ParentName(1)
	assert.False(t, ok)
}

func TestLoadConfigProviders(t *testing.T) {
	cfg, err := hwdesc.LoadConfig(strings.NewReader(treeYAML))
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "sim0", cfg.Providers[0].Name)
	assert.Equal(t, []string{"42", "17"}, cfg.Providers[0].Lines)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := hwdesc.Load(strings.NewReader("clocks:\n  - name: x\n    compatble: typo\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errcode.InvalidDescription)
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := hwdesc.Load(strings.NewReader(":::"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errcode.InvalidDescription)
}
