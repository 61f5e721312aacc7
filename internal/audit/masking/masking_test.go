package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****0000", MaskSecret("+55 11 99999-0000"))
}

func TestMaskPersonalKeepsOperationalKeys(t *testing.T) {
	out := MaskPersonal(map[string]any{
		"email":  "owner@lavajato.com",
		"status": "COMPLETED",
		"changes": map[string]any{
			"whatsapp": "11999990000",
		},
		"sequential": 12,
	})

	assert.Equal(t, "****.com", out["email"])
	assert.Equal(t, "COMPLETED", out["status"])
	assert.Equal(t, 12, out["sequential"])
	assert.Equal(t, "****0000", out["changes"].(map[string]any)["whatsapp"])
	assert.Nil(t, MaskPersonal(nil))
}
