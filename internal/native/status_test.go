package native_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/simfx-go/internal/enginetest"
	"github.com/hsiuhsiu/simfx-go/internal/native"
)

func TestCheckOKIsNoOp(t *testing.T) {
	eng := enginetest.New()
	b := eng.Binding(t)

	before := eng.ErrorStringReads()
	require.NoError(t, b.Check(native.StatusOK))
	assert.Equal(t, before, eng.ErrorStringReads(), "Check(OK) must not fetch the error string")
}

func TestCheckRaisesExactCode(t *testing.T) {
	eng := enginetest.New()
	b := eng.Binding(t)

	codes := []native.Status{-3, 99, 1 << 20}
	for st := native.StatusInvalidHandle; st <= native.StatusIncompatibleVersion; st++ {
		codes = append(codes, st)
	}
	for _, st := range codes {
		err := b.Check(st)
		require.Error(t, err, "status %d", st)

		var se *native.StatusError
		require.True(t, errors.As(err, &se), "status %d: %T", st, err)
		assert.Equal(t, st, se.Status)
		assert.Equal(t, st, native.StatusOf(err))
		assert.ErrorIs(t, err, &native.StatusError{Status: st})
	}
}

func TestCheckCarriesEngineMessage(t *testing.T) {
	eng := enginetest.New()
	b := eng.Binding(t)
	h, err := b.CreateModel(0)
	require.NoError(t, err)

	eng.Fail("C_ResetModel", native.StatusLicenceError, "licence expired on dongle 42")
	err = b.ResetModel(h)
	require.Error(t, err)

	var se *native.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, native.StatusLicenceError, se.Status)
	assert.Equal(t, "licence expired on dongle 42", se.Message)
	assert.Contains(t, err.Error(), "licence error (status 6)")
}

func TestStatusErrorIsMatchesCodeOnly(t *testing.T) {
	a := &native.StatusError{Status: native.StatusFileNotFound, Message: "x.dat"}
	assert.ErrorIs(t, a, &native.StatusError{Status: native.StatusFileNotFound})
	assert.NotErrorIs(t, a, &native.StatusError{Status: native.StatusFileReadError})
	assert.Equal(t, native.StatusOK, native.StatusOf(errors.New("plain")))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "value not available", native.StatusValueNotAvailable.String())
	assert.Equal(t, "status(77)", native.Status(77).String())
	assert.True(t, native.StatusOutOfMemory.Known())
	assert.False(t, native.Status(77).Known())
}
