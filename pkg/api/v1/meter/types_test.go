package meter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRows(t *testing.T) {
	v := 1.5
	rows := NewRows()
	rows.Add("b", Row{DeviceID: "b"})
	rows.Add("a", Row{DeviceID: "a", MeasureValue: &v})
	rows.Add("b", Row{DeviceID: "b", MeasureValue: &v})

	assert.Equal(t, []string{"b", "a"}, rows.Devices())
	assert.Equal(t, 2, rows.Len())
	assert.Equal(t, []Row{{DeviceID: "b", MeasureValue: &v}, {DeviceID: "a", MeasureValue: &v}}, rows.Flatten())
	assert.Len(t, rows.Map(), 2)
}

func TestRowEmpty(t *testing.T) {
	name := "КОТ-1"
	v := 0.0
	assert.True(t, Row{DeviceID: "1", DeviceName: &name}.Empty())
	assert.False(t, Row{DeviceID: "1", MeasureValue: &v}.Empty())
}
