package classspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCodec struct{ id int }

func newFakeCodec() *fakeCodec { return &fakeCodec{} }

func Test_Catalog_RegisterType(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.RegisterType(newFakeCodec))

	e, ok := cat.Lookup("github.com/plugbind-dev/plugbind-host-sdk/classspace.fakeCodec")
	require.True(t, ok)
	assert.Equal(t, TypeEntry, e.Kind)

	v, err := e.New()
	require.NoError(t, err)
	assert.IsType(t, &fakeCodec{}, v)
}

func Test_Catalog_RegisterType_Duplicate(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.RegisterType(newFakeCodec))

	err := cat.RegisterType(newFakeCodec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func Test_Catalog_RegisterProvider(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.RegisterProvider("acme.Factory", "NewCodec", func() (*fakeCodec, error) {
		return &fakeCodec{id: 7}, nil
	}))

	e, ok := cat.Lookup("acme.Factory.NewCodec")
	require.True(t, ok)
	assert.Equal(t, ProviderEntry, e.Kind)
	assert.Equal(t, "acme.Factory", e.Owner)
	assert.Equal(t, "NewCodec", e.Member)

	v, err := e.New()
	require.NoError(t, err)
	assert.Equal(t, 7, v.(*fakeCodec).id)
}

func Test_Catalog_RegisterProvider_RequiresOwnerAndMember(t *testing.T) {
	cat := NewCatalog()
	assert.Error(t, cat.RegisterProvider("", "NewCodec", newFakeCodec))
	assert.Error(t, cat.RegisterProvider("acme.Factory", "", newFakeCodec))
}

func Test_AdaptFactory_Signatures(t *testing.T) {
	tests := []struct {
		name    string
		fn      any
		wantErr bool
	}{
		{"plain result", func() *fakeCodec { return nil }, false},
		{"result with error", func() (*fakeCodec, error) { return nil, nil }, false},
		{"nil", nil, true},
		{"not a function", 42, true},
		{"takes arguments", func(int) *fakeCodec { return nil }, true},
		{"second result not error", func() (*fakeCodec, int) { return nil, 0 }, true},
		{"too many results", func() (*fakeCodec, error, int) { return nil, nil, 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := AdaptFactory(tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_AdaptFactory_PropagatesFactoryError(t *testing.T) {
	boom := errors.New("boom")
	factory, _, err := AdaptFactory(func() (*fakeCodec, error) { return nil, boom })
	require.NoError(t, err)

	_, err = factory()
	assert.ErrorIs(t, err, boom)
}

func Test_Catalog_Entries_Sorted(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.RegisterProvider("zed", "Z", newFakeCodec))
	require.NoError(t, cat.RegisterProvider("ace", "A", newFakeCodec))

	entries := cat.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "ace.A", entries[0].Name)
	assert.Equal(t, "zed.Z", entries[1].Name)
}

func Test_Catalog_Reset(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.RegisterType(newFakeCodec))
	cat.Reset()

	_, ok := cat.Lookup("github.com/plugbind-dev/plugbind-host-sdk/classspace.fakeCodec")
	assert.False(t, ok)
}
