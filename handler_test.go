package mprpc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDispatchesPlainMethod(t *testing.T) {
	m, err := resolve(testHandler{}, "sum")
	require.NoError(t, err)
	val, err := m(nil, []Value{int64(1), int64(2)}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(3), val)
}

func TestResolveRejectsUnderscorePrefixedNames(t *testing.T) {
	_, err := resolve(testHandler{}, "_private")
	require.Error(t, err)
}

func TestResolveRejectsUnderscoreEvenIfAttributeWouldExist(t *testing.T) {
	// "_sum" is not "sum": underscore names are never dispatched
	// regardless of whether a matching attribute exists (spec §4.6).
	_, err := resolve(testHandler{}, "_sum")
	require.Error(t, err)
}

func TestResolveRejectsEmptyName(t *testing.T) {
	_, err := resolve(testHandler{}, "")
	require.Error(t, err)
}

func TestResolveRejectsUnknownMethod(t *testing.T) {
	_, err := resolve(testHandler{}, "nonexistent")
	require.Error(t, err)
}

func TestResolveProvidesImplicitTestConnect(t *testing.T) {
	m, err := resolve(struct{}{}, "test_connect")
	require.NoError(t, err)
	val, err := m(nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "1", val)
}

func TestResolveHonorsOverriddenTestConnect(t *testing.T) {
	m, err := resolve(testHandler{}, "test_connect")
	require.NoError(t, err)
	val, err := m(nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "ok", val)
}

func TestExportedNameMapping(t *testing.T) {
	require.Equal(t, "Sum", exportedName("sum"))
	require.Equal(t, "TestConnect", exportedName("test_connect"))
	require.Equal(t, "Bday", exportedName("bday"))
}

func TestDispatchRecoversPanicsAsErrors(t *testing.T) {
	result, errStr := dispatch(nil, panicHandler{}, "boom", nil, nil)
	require.Nil(t, result)
	require.Equal(t, "kaboom", errStr)
}

type panicHandler struct{}

func (panicHandler) Boom(args []Value, kwargs map[string]Value) (Value, error) {
	panic("kaboom")
}
