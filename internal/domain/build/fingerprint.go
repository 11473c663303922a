package build

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Fingerprint identifies one build input state. Two builds with the same
// fingerprint produce byte-identical output, so the dev server can skip
// rebuilding when nothing changed.
type Fingerprint struct {
	ContentHash string
	ConfigHash  string
	ThemeHash   string
	RenderHash  string
}

func (f *Fingerprint) ComputeRenderHash() {
	h := sha256.New()
	h.Write([]byte(f.ContentHash))
	h.Write([]byte(f.ConfigHash))
	h.Write([]byte(f.ThemeHash))
	f.RenderHash = hex.EncodeToString(h.Sum(nil))
}

// HashContentSet folds per-document id:hash pairs into one content hash.
// The pairs are sorted first so worker scheduling cannot change the result.
func HashContentSet(pairs map[string]string) string {
	ids := make([]string, 0, len(pairs))
	for id := range pairs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
		h.Write([]byte(pairs[id]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
