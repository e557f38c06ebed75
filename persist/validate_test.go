package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimalDoc() *documentSchema {
	return &documentSchema{
		Version: "1.0.0",
		Pages: []pageSchema{
			{
				ID:   "p0000001",
				Name: "main",
				Components: []componentSchema{
					{
						ID:   "c0000001",
						Type: "switch",
						Pins: []pinSchema{
							{ID: "n0000001", Tabs: []tabSchema{{ID: "t0000001"}}},
						},
					},
				},
			},
		},
	}
}

func TestValidateDocument_acceptsWellFormedDocument(t *testing.T) {
	require.NoError(t, ValidateDocument(minimalDoc()))
}

func TestValidateDocument_rejectsNilSchema(t *testing.T) {
	assert.Error(t, ValidateDocument(nil))
}

func TestValidateDocument_rejectsMissingRequiredFields(t *testing.T) {
	doc := minimalDoc()
	doc.Version = ""
	err := ValidateDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestValidateDocument_rejectsDuplicateComponentIDs(t *testing.T) {
	doc := minimalDoc()
	dup := doc.Pages[0].Components[0]
	dup.Pins = []pinSchema{{ID: "n0000002", Tabs: []tabSchema{{ID: "t0000002"}}}}
	doc.Pages[0].Components = append(doc.Pages[0].Components, dup)

	err := ValidateDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate identifier")
}

func TestValidateDocument_rejectsWireReferencingUnknownStartTab(t *testing.T) {
	doc := minimalDoc()
	doc.Pages[0].Wires = []wireSchema{
		{ID: "w0000001", StartTab: "nosuchtb"},
	}
	err := ValidateDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown start tab")
}

func TestValidateDocument_rejectsWireReferencingUnknownEndTab(t *testing.T) {
	doc := minimalDoc()
	doc.Pages[0].Wires = []wireSchema{
		{ID: "w0000001", StartTab: "t0000001", EndTab: "nosuchtb"},
	}
	err := ValidateDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown end tab")
}

func TestValidateDocument_rejectsWireReferencingUnknownJunction(t *testing.T) {
	doc := minimalDoc()
	doc.Pages[0].Wires = []wireSchema{
		{ID: "w0000001", StartTab: "t0000001", Junctions: []string{"nosuchjc"}},
	}
	err := ValidateDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown junction")
}

func TestValidateDocument_acceptsWireThroughDeclaredJunction(t *testing.T) {
	doc := minimalDoc()
	doc.Pages[0].Junctions = []junctionSchema{{ID: "j0000001"}}
	doc.Pages[0].Wires = []wireSchema{
		{ID: "w0000001", StartTab: "t0000001", Junctions: []string{"j0000001"}},
	}
	assert.NoError(t, ValidateDocument(doc))
}
