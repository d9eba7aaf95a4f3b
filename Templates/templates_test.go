package Templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillTemplateRenders(t *testing.T) {
	engine := Engine()
	require.NoError(t, engine.Load())

	data := map[string]interface{}{
		"MandiName":  "Shree Ram Mandi",
		"PartyLabel": "Kisan",
		"PartyName":  "Ramesh",
		"Period":     "All time",
		"Opening":    "0.00",
		"Rows":       []map[string]interface{}{{"Date": "01-03-2024", "ID": 1, "Items": "Tomato 100.00kg @ 20.00", "Net": "1960.00"}},
		"Closing":    "1960.00",
		"Current":    "1960.00",
	}

	var out bytes.Buffer
	require.NoError(t, engine.Render(&out, "bill", data))
	html := out.String()
	assert.Contains(t, html, "Shree Ram Mandi")
	assert.Contains(t, html, "KISAN:")
	assert.Contains(t, html, "Tomato 100.00kg @ 20.00")
	assert.Contains(t, html, "1960.00")
	assert.NotContains(t, html, "No transactions in this period")
}
