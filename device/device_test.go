package device

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var devs = []Device{
	{ID: 0, Name: "Midi Through Port-0", Direction: Input},
	{ID: 0, Name: "Midi Through Port-0", Direction: Output},
	{ID: 1, Name: "nanoPAD2 PAD", Direction: Input},
}

func TestFilter(t *testing.T) {
	assert.Equal(t, devs, Filter(devs))

	ins := Filter(devs, Input)
	require.Len(t, ins, 2)
	assert.Equal(t, "Midi Through Port-0", ins[0].Name)
	assert.Equal(t, "nanoPAD2 PAD", ins[1].Name)

	outs := Filter(devs, Output)
	require.Len(t, outs, 1)
	assert.Equal(t, Output, outs[0].Direction)

	assert.Len(t, Filter(devs, Input, Output), 3)
}

func TestFilterEmptyIsJSONArray(t *testing.T) {
	b, err := json.Marshal(Filter(nil, Input))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestFind(t *testing.T) {
	d, ok := Find(devs, 0, Output)
	require.True(t, ok)
	assert.Equal(t, Output, d.Direction)

	_, ok = Find(devs, 1, Output)
	assert.False(t, ok)
}

func TestDeviceJSON(t *testing.T) {
	b, err := json.Marshal(devs[2])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"nanoPAD2 PAD","direction":"input"}`, string(b))

	var d Device
	require.NoError(t, json.Unmarshal(b, &d))
	assert.Equal(t, devs[2], d)

	assert.Error(t, json.Unmarshal([]byte(`{"direction":"sideways"}`), &d))
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "input", Input.String())
	assert.Equal(t, "output", Output.String())
	assert.Equal(t, "direction(7)", Direction(7).String())
}
