package contract

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encoder interface {
	Encode() string
}

type describer interface {
	Describe() string
}

type jsonEncoder struct{}

func (*jsonEncoder) Encode() string   { return "json" }
func (*jsonEncoder) Describe() string { return "json encoder" }

type plainStruct struct{}

func Test_Markers_Points(t *testing.T) {
	m := NewMarkers(
		WithPointFor[encoder](),
		WithPointFor[describer](),
		WithPointFor[encoder](), // duplicate, dropped
	)

	require.Len(t, m.Points(), 2)
	assert.Equal(t, TypeOf[encoder](), m.Points()[0])
	assert.True(t, m.IsPoint(TypeOf[encoder]()))
	assert.False(t, m.IsPoint(reflect.TypeOf(plainStruct{})))
}

func Test_Markers_IsPoint_NormalizesPointers(t *testing.T) {
	m := NewMarkers(WithPoint(reflect.TypeOf(&plainStruct{})))
	assert.True(t, m.IsPoint(reflect.TypeOf(plainStruct{})))
}

func Test_Markers_SatisfiesDescriptor(t *testing.T) {
	m := NewMarkers(WithDescriptorFor[describer]())

	require.NotNil(t, m.Descriptor())
	assert.True(t, m.SatisfiesDescriptor(reflect.TypeOf(jsonEncoder{})))
	assert.True(t, m.SatisfiesDescriptor(TypeOf[describer]()))
	assert.False(t, m.SatisfiesDescriptor(reflect.TypeOf(plainStruct{})))
}

func Test_Markers_NoDescriptor(t *testing.T) {
	m := NewMarkers()
	assert.Nil(t, m.Descriptor())
	assert.False(t, m.SatisfiesDescriptor(reflect.TypeOf(jsonEncoder{})))
}

func Test_Implements(t *testing.T) {
	tests := []struct {
		name  string
		t     reflect.Type
		iface reflect.Type
		want  bool
	}{
		{"pointer receiver via value type", reflect.TypeOf(jsonEncoder{}), TypeOf[encoder](), true},
		{"pointer type directly", reflect.TypeOf(&jsonEncoder{}), TypeOf[encoder](), true},
		{"non-implementor", reflect.TypeOf(plainStruct{}), TypeOf[encoder](), false},
		{"non-interface target", reflect.TypeOf(jsonEncoder{}), reflect.TypeOf(plainStruct{}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Implements(tt.t, tt.iface))
		})
	}
}
