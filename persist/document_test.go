package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relaysim "github.com/pjchick/Relay-Simulator"
	"github.com/pjchick/Relay-Simulator/components"
)

func buildSwitchIndicatorDoc(t *testing.T) *relaysim.Document {
	t.Helper()
	doc := relaysim.NewDocument("1.0.0")
	page := relaysim.NewPage(relaysim.NewID(), "main")

	swID := relaysim.NewID()
	swPinID := relaysim.NewID()
	swTab := &relaysim.Tab{ID: relaysim.NewID(), Pin: swPinID}
	doc.AddPin(relaysim.NewPin(swPinID, swID, swTab.ID), swTab)
	sw := components.NewSwitch(swID, swPinID)
	page.AddComponent(sw)

	indID := relaysim.NewID()
	indPinID := relaysim.NewID()
	indTab := &relaysim.Tab{ID: relaysim.NewID(), Pin: indPinID}
	doc.AddPin(relaysim.NewPin(indPinID, indID, indTab.ID), indTab)
	ind := components.NewIndicator(indID, indPinID)
	page.AddComponent(ind)

	page.AddWire(&relaysim.Wire{ID: relaysim.NewID(), StartTab: swTab.ID, EndTab: indTab.ID})

	require.NoError(t, doc.AddPage(page))
	return doc
}

func TestSaveLoad_roundTripsSwitchIndicatorDocument(t *testing.T) {
	doc := buildSwitchIndicatorDoc(t)
	path := filepath.Join(t.TempDir(), "circuit.rsim")

	require.NoError(t, Save(doc, path))

	loaded, err := Load(path, "1.0.0")
	require.NoError(t, err)

	assert.Equal(t, doc.Version, loaded.Version)
	assert.Len(t, loaded.AllPages(), 1)

	origPage := doc.AllPages()[0]
	loadedPage := loaded.AllPages()[0]
	assert.Equal(t, origPage.ID, loadedPage.ID)
	assert.Len(t, loadedPage.AllComponents(), 2)
	assert.Len(t, loadedPage.AllWires(), 1)

	var sawSwitch, sawIndicator bool
	for _, c := range loadedPage.AllComponents() {
		switch c.Type() {
		case components.KindSwitch:
			sawSwitch = true
		case components.KindIndicator:
			sawIndicator = true
		}
	}
	assert.True(t, sawSwitch, "loaded document must contain a switch")
	assert.True(t, sawIndicator, "loaded document must contain an indicator")
}

func TestLoad_rejectsIncompatibleMajorVersion(t *testing.T) {
	doc := buildSwitchIndicatorDoc(t)
	doc.Version = "2.0.0"
	path := filepath.Join(t.TempDir(), "circuit.rsim")
	require.NoError(t, Save(doc, path))

	_, err := Load(path, "1.0.0")
	require.Error(t, err)
	var verr *relaysim.VersionIncompatibleError
	assert.ErrorAs(t, err, &verr)
}

func TestLoad_missingFileReturnsIOError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.rsim"), "1.0.0")
	require.Error(t, err)
	var ioErr *relaysim.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestLoadSubCircuit_requiresFootprintPage(t *testing.T) {
	doc := buildSwitchIndicatorDoc(t)
	path := filepath.Join(t.TempDir(), "circuit.rsub")
	require.NoError(t, Save(doc, path))

	_, err := LoadSubCircuit(path, "1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOOTPRINT")
}
