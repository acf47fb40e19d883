package extension

import (
	"context"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugbind-dev/plugbind-host-sdk/classspace"
)

type yamlParser struct{}

func newYamlParser() *yamlParser { return &yamlParser{} }

const yamlParserName = "github.com/plugbind-dev/plugbind-host-sdk/extension.yamlParser"

func indexCatalog(t *testing.T) *classspace.Catalog {
	t.Helper()
	cat := classspace.NewCatalog()
	require.NoError(t, cat.RegisterType(newYamlParser))
	require.NoError(t, cat.RegisterProvider("acme.Parsers", "NewJSON", newYamlParser))
	return cat
}

func indexSpace(t *testing.T, body string) classspace.Space {
	t.Helper()
	return classspace.NewStaticSpace("acme", indexCatalog(t),
		classspace.Document{Path: "extension-index.yaml", Data: []byte(body)})
}

func Test_ParseIndex(t *testing.T) {
	doc, err := ParseIndex([]byte(`
extensions:
  - kind: type
    name: acme.Widget
  - kind: method
    owner: acme.Parsers
    member: NewJSON
    optional: true
`), defaultIndexValidator())
	require.NoError(t, err)

	require.Len(t, doc.Extensions, 2)
	assert.Equal(t, "acme.Widget", doc.Extensions[0].Name)
	assert.True(t, doc.Extensions[1].Optional)
}

func Test_ParseIndex_SchemaViolation(t *testing.T) {
	_, err := ParseIndex([]byte(`
extensions:
  - kind: type
    name: acme.Widget
    surprise: true
`), defaultIndexValidator())
	assert.Error(t, err)
}

func Test_ParseIndex_NotYAML(t *testing.T) {
	_, err := ParseIndex([]byte("{{nope"), defaultIndexValidator())
	assert.Error(t, err)
}

func Test_IndexSource_Scan(t *testing.T) {
	space := indexSpace(t, `
extensions:
  - kind: type
    name: `+yamlParserName+`
  - kind: method
    owner: acme.Parsers
    member: NewJSON
`)

	descriptors, err := NewIndexSource(space, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 2)

	assert.Equal(t, KindType, descriptors[0].Kind)
	assert.NoError(t, descriptors[0].Err)
	assert.Equal(t, KindMethod, descriptors[1].Kind)
	assert.Equal(t, "acme.Parsers", descriptors[1].Owner)
}

func Test_IndexSource_UnknownEntryIsBroken(t *testing.T) {
	space := indexSpace(t, `
extensions:
  - kind: type
    name: acme.Missing
    optional: true
`)

	descriptors, err := NewIndexSource(space, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 1)

	assert.Error(t, descriptors[0].Err)
	assert.True(t, descriptors[0].Optional)
}

func Test_IndexSource_KindMismatchIsBroken(t *testing.T) {
	space := indexSpace(t, `
extensions:
  - kind: method
    owner: github.com/plugbind-dev/plugbind-host-sdk/extension
    member: yamlParser
`)

	descriptors, err := NewIndexSource(space, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.Error(t, descriptors[0].Err)
}

func Test_IndexSource_UnknownKindIsBroken(t *testing.T) {
	space := indexSpace(t, `
extensions:
  - kind: mystery
    name: `+yamlParserName+`
`)

	descriptors, err := NewIndexSource(space, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.ErrorContains(t, descriptors[0].Err, "unknown extension kind")
}

func Test_IndexSource_InvalidDocumentFailsScan(t *testing.T) {
	space := indexSpace(t, `extensions: "not a list"`)

	_, err := NewIndexSource(space, false).Scan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extension-index.yaml")
}

func Test_IndexSource_GlobalScopeGating(t *testing.T) {
	body := `
extensions:
  - kind: type
    name: ` + yamlParserName + `
    scope: global
`

	local, err := NewIndexSource(indexSpace(t, body), false).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, local)

	global, err := NewIndexSource(indexSpace(t, body), true).Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, global, 1)
}

func Test_IndexSource_VersionConstraint(t *testing.T) {
	body := `
extensions:
  - kind: type
    name: ` + yamlParserName + `
    requires: ">= 2.0.0"
`

	tests := []struct {
		name   string
		host   string
		broken bool
	}{
		{"satisfied", "2.1.0", false},
		{"unsatisfied", "1.9.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := semver.MustParse(tt.host)
			descriptors, err := NewIndexSource(indexSpace(t, body), false,
				WithHostVersion(host)).Scan(context.Background())
			require.NoError(t, err)
			require.Len(t, descriptors, 1)

			if tt.broken {
				assert.ErrorContains(t, descriptors[0].Err, "requires host")
			} else {
				assert.NoError(t, descriptors[0].Err)
			}
		})
	}
}

func Test_IndexSource_NoHostVersionSkipsConstraint(t *testing.T) {
	space := indexSpace(t, `
extensions:
  - kind: type
    name: `+yamlParserName+`
    requires: ">= 99.0.0"
`)

	descriptors, err := NewIndexSource(space, false).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.NoError(t, descriptors[0].Err)
}

func Test_IndexSource_InvalidConstraintIsBroken(t *testing.T) {
	space := indexSpace(t, `
extensions:
  - kind: type
    name: `+yamlParserName+`
    requires: "not-a-range!!"
`)

	descriptors, err := NewIndexSource(space, false,
		WithHostVersion(semver.MustParse("1.0.0"))).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	assert.ErrorContains(t, descriptors[0].Err, "invalid version constraint")
}

func Test_StaticSource(t *testing.T) {
	d, err := TypeDescriptor(newYamlParser)
	require.NoError(t, err)

	descriptors, scanErr := NewStaticSource(d).Scan(context.Background())
	require.NoError(t, scanErr)
	assert.Len(t, descriptors, 1)
}

func Test_FailingSource(t *testing.T) {
	src := NewFailingSource(assert.AnError)
	_, err := src.Scan(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
