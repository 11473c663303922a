package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashContentSetIsOrderIndependent(t *testing.T) {
	a := HashContentSet(map[string]string{"x": "1", "y": "2"})
	b := HashContentSet(map[string]string{"y": "2", "x": "1"})
	assert.Equal(t, a, b)
}

func TestHashContentSetChangesWithContent(t *testing.T) {
	a := HashContentSet(map[string]string{"x": "1"})
	b := HashContentSet(map[string]string{"x": "2"})
	c := HashContentSet(map[string]string{"z": "1"})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestComputeRenderHash(t *testing.T) {
	f1 := Fingerprint{ContentHash: "c", ConfigHash: "g", ThemeHash: "t"}
	f1.ComputeRenderHash()

	f2 := Fingerprint{ContentHash: "c", ConfigHash: "g", ThemeHash: "t"}
	f2.ComputeRenderHash()
	assert.Equal(t, f1.RenderHash, f2.RenderHash)

	f3 := Fingerprint{ContentHash: "c", ConfigHash: "other", ThemeHash: "t"}
	f3.ComputeRenderHash()
	assert.NotEqual(t, f1.RenderHash, f3.RenderHash)
}
