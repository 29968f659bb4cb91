package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `validate:"required"`
	DeviceID string `validate:"required"`
	Note     string
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "a@b.com", DeviceID: "d"}))
}

func TestStruct_ListsEveryFailingField(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Email' failed 'required'")
	assert.Contains(t, err.Error(), "field 'DeviceID' failed 'required'")
}
