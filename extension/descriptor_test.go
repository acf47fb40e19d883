package extension

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type parser struct{ dialect string }

func newParser() *parser { return &parser{dialect: "yaml"} }

func Test_TypeDescriptor(t *testing.T) {
	d, err := TypeDescriptor(newParser)
	require.NoError(t, err)

	assert.Equal(t, KindType, d.Kind)
	assert.Equal(t, reflect.TypeOf(&parser{}), d.Element)
	assert.False(t, d.Optional)

	v, err := d.Instance()
	require.NoError(t, err)
	assert.Equal(t, "yaml", v.(*parser).dialect)
}

func Test_TypeDescriptor_Options(t *testing.T) {
	d, err := TypeDescriptor(newParser, Optional(), WithRequires(">= 1.2.0"))
	require.NoError(t, err)

	assert.True(t, d.Optional)
	assert.Equal(t, ">= 1.2.0", d.Requires)
}

func Test_TypeDescriptor_RejectsBadConstructor(t *testing.T) {
	_, err := TypeDescriptor(func(s string) *parser { return nil })
	assert.Error(t, err)
}

func Test_MethodDescriptor(t *testing.T) {
	d, err := MethodDescriptor("acme.Factory", "NewParser", func() (*parser, error) {
		return &parser{dialect: "json"}, nil
	})
	require.NoError(t, err)

	assert.Equal(t, KindMethod, d.Kind)
	assert.Equal(t, "acme.Factory", d.Owner)
	assert.Equal(t, "NewParser", d.Member)

	v, err := d.Instance()
	require.NoError(t, err)
	assert.Equal(t, "json", v.(*parser).dialect)
}

func Test_Descriptor_InstanceInvokesEveryCall(t *testing.T) {
	calls := 0
	d, err := TypeDescriptor(func() *parser {
		calls++
		return &parser{}
	})
	require.NoError(t, err)

	_, _ = d.Instance()
	_, _ = d.Instance()
	assert.Equal(t, 2, calls)
}

func Test_Broken(t *testing.T) {
	cause := errors.New("no such entry")
	d := Broken("acme.gone", true, cause)

	assert.True(t, d.Optional)
	_, err := d.Instance()
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, d.String(), "broken")
}

func Test_Descriptor_String(t *testing.T) {
	typed, err := TypeDescriptor(newParser)
	require.NoError(t, err)
	assert.Contains(t, typed.String(), "type ")

	method, err := MethodDescriptor("acme.Factory", "NewParser", newParser)
	require.NoError(t, err)
	assert.Contains(t, method.String(), "acme.Factory.NewParser")
}

func Test_Kind_String(t *testing.T) {
	assert.Equal(t, "type", KindType.String())
	assert.Equal(t, "method", KindMethod.String())
	assert.Equal(t, "field", KindField.String())
}
