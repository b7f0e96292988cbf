package simfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{2.5, DoubleValue(2.5)},
		{float32(0.5), DoubleValue(0.5)},
		{7, IntegerValue(7)},
		{int64(7), IntegerValue(7)},
		{"Chain", StringValue("Chain")},
		{true, BoolValue(true)},
		{IndexValue(3), IndexValue(3)},
	}
	for _, tt := range tests {
		got, err := valueOf(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := valueOf(struct{}{})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCoerce(t *testing.T) {
	v, err := coerce(IntegerValue(3), TypeDouble)
	require.NoError(t, err)
	assert.Equal(t, DoubleValue(3), v)

	v, err = coerce(IntegerValue(3), TypeIntegerIndex)
	require.NoError(t, err)
	assert.Equal(t, IndexValue(3), v)

	v, err = coerce(StringValue("Chain"), TypeVariable)
	require.NoError(t, err)
	assert.Equal(t, VariableValue("Chain"), v)

	_, err = coerce(DoubleValue(1.5), TypeInteger)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = coerce(BoolValue(true), TypeInteger)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "0.25", DoubleValue(0.25).String())
	assert.Equal(t, "12", IndexValue(12).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "Line Type1", VariableValue("Line Type1").Any())
	assert.Equal(t, "IntegerIndex", TypeIntegerIndex.String())
	assert.Equal(t, "DataType(9)", DataType(9).String())
}
