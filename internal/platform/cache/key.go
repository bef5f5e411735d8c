package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// KeyPrefix namespaces every metrics result key.
const KeyPrefix = "metrics:"

// Key derives a stable cache key from an endpoint and its parameters.
// Parameters are serialized sorted by name, so request order never changes
// the key.
func Key(endpoint string, params map[string]string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	_, _ = buf.WriteString(endpoint)
	_ = buf.WriteByte(':')
	_ = buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.Write(quoteJSON(name))
		_ = buf.WriteByte(':')
		_, _ = buf.Write(quoteJSON(params[name]))
	}
	_ = buf.WriteByte('}')

	sum := sha256.Sum256(buf.B)
	return KeyPrefix + endpoint + ":" + hex.EncodeToString(sum[:])
}

func quoteJSON(value string) []byte {
	out, err := sonic.Marshal(value)
	if err != nil {
		return []byte(`""`)
	}
	return out
}
