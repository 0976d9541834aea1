package metadata

import (
	"encoding/json"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/crmitchelmore/pasta/internal/clip"
)

// DefaultCacheSize bounds the containment cache. Each entry maps a metadata
// document to a 12-bit family mask, so the cache stays small even at capacity.
const DefaultCacheSize = 512

// familyBit assigns each family a bit in the containment mask.
// The order here is also the fixed family order used by ExtractAll.
var familyBit = map[clip.ContentType]uint16{
	clip.TypeEmail:        1 << 0,
	clip.TypeURL:          1 << 1,
	clip.TypePhoneNumber:  1 << 2,
	clip.TypeIPAddress:    1 << 3,
	clip.TypeUUID:         1 << 4,
	clip.TypeHash:         1 << 5,
	clip.TypeAPIKey:       1 << 6,
	clip.TypeJWT:          1 << 7,
	clip.TypeEnvVar:       1 << 8,
	clip.TypeFilePath:     1 << 9,
	clip.TypeShellCommand: 1 << 10,
	clip.TypeCode:         1 << 11,
}

// familyKey maps a family to its JSON key in the document.
var familyKey = map[clip.ContentType]string{
	clip.TypeEmail:        "emails",
	clip.TypeURL:          "urls",
	clip.TypePhoneNumber:  "phoneNumbers",
	clip.TypeIPAddress:    "ipAddresses",
	clip.TypeUUID:         "uuids",
	clip.TypeHash:         "hashes",
	clip.TypeAPIKey:       "apiKeys",
	clip.TypeJWT:          "jwt",
	clip.TypeEnvVar:       "env",
	clip.TypeFilePath:     "filePaths",
	clip.TypeShellCommand: "shellCommands",
	clip.TypeCode:         "code",
}

// extractOrder is the fixed family order for ExtractAll interleaving.
var extractOrder = []clip.ContentType{
	clip.TypeEmail, clip.TypeURL, clip.TypePhoneNumber, clip.TypeIPAddress,
	clip.TypeUUID, clip.TypeHash, clip.TypeAPIKey, clip.TypeJWT,
	clip.TypeEnvVar, clip.TypeFilePath, clip.TypeShellCommand, clip.TypeCode,
}

// Serialize encodes a document to its JSON wire form.
// Empty documents serialize to "" so the store column stays NULL-ish.
func Serialize(d *Document) (string, error) {
	if d.IsEmpty() {
		return "", nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(data), nil
}

// Parse decodes a JSON wire document. An empty string parses to an empty
// document, matching Serialize.
func Parse(raw string) (*Document, error) {
	if strings.TrimSpace(raw) == "" {
		return &Document{}, nil
	}
	var d Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &d, nil
}

// Codec answers containment and extraction queries against serialized
// documents. It carries a bounded, thread-safe cache mapping a document to
// its family bitmask so repeated queries against the same document skip the
// JSON parse. The cache is purely an optimization: a miss (or a zero-size
// cache) only costs a re-parse, never a wrong answer.
type Codec struct {
	cache *lru.Cache[string, uint16]
}

// NewCodec creates a codec with a containment cache of the given capacity.
// Size <= 0 falls back to DefaultCacheSize.
func NewCodec(size int) *Codec {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, uint16](size)
	if err != nil {
		// lru.New only fails on size <= 0, which is handled above.
		panic(err)
	}
	return &Codec{cache: cache}
}

// ContainsFamily reports whether the document contains findings for the
// given family. A substring pre-check against the family's JSON key avoids
// parsing documents that cannot contain it.
func (c *Codec) ContainsFamily(t clip.ContentType, raw string) bool {
	// Both env variants live under the single "env" key.
	if t == clip.TypeEnvVarBlock {
		t = clip.TypeEnvVar
	}
	bit, ok := familyBit[t]
	if !ok {
		return false
	}
	if raw == "" {
		return false
	}

	// Fast path: the key literal must appear somewhere in the JSON.
	key, ok := familyKey[t]
	if !ok || !strings.Contains(raw, `"`+key+`"`) {
		return false
	}

	return c.mask(raw)&bit != 0
}

// mask returns the family bitmask for a document, consulting the cache.
func (c *Codec) mask(raw string) uint16 {
	if m, ok := c.cache.Get(raw); ok {
		return m
	}

	d, err := Parse(raw)
	if err != nil {
		// Malformed documents contain nothing.
		c.cache.Add(raw, 0)
		return 0
	}

	var m uint16
	if len(d.Emails) > 0 {
		m |= familyBit[clip.TypeEmail]
	}
	if len(d.URLs) > 0 {
		m |= familyBit[clip.TypeURL]
	}
	if len(d.PhoneNumbers) > 0 {
		m |= familyBit[clip.TypePhoneNumber]
	}
	if len(d.IPAddresses) > 0 {
		m |= familyBit[clip.TypeIPAddress]
	}
	if len(d.UUIDs) > 0 {
		m |= familyBit[clip.TypeUUID]
	}
	if len(d.Hashes) > 0 {
		m |= familyBit[clip.TypeHash]
	}
	if len(d.APIKeys) > 0 {
		m |= familyBit[clip.TypeAPIKey]
	}
	if len(d.JWTs) > 0 {
		m |= familyBit[clip.TypeJWT]
	}
	if d.Env != nil && len(d.Env.Vars) > 0 {
		m |= familyBit[clip.TypeEnvVar]
	}
	if len(d.FilePaths) > 0 {
		m |= familyBit[clip.TypeFilePath]
	}
	if len(d.ShellCommands) > 0 {
		m |= familyBit[clip.TypeShellCommand]
	}
	if len(d.Code) > 0 {
		m |= familyBit[clip.TypeCode]
	}

	c.cache.Add(raw, m)
	return m
}

// ExtractValues returns up to limit representative string values for one
// family from a serialized document. Limit <= 0 means no cap.
func (c *Codec) ExtractValues(t clip.ContentType, raw string, limit int) []string {
	if !c.ContainsFamily(t, raw) {
		return nil
	}
	d, err := Parse(raw)
	if err != nil {
		return nil
	}
	values := familyValues(t, d)
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return values
}

// ExtractAll returns values from every family, interleaved round-robin in
// the fixed family order, stopping once the global limit is reached.
// Limit <= 0 means no cap.
func (c *Codec) ExtractAll(raw string, limit int) []string {
	d, err := Parse(raw)
	if err != nil || d.IsEmpty() {
		return nil
	}

	perFamily := make([][]string, len(extractOrder))
	total := 0
	for i, t := range extractOrder {
		perFamily[i] = familyValues(t, d)
		total += len(perFamily[i])
	}

	if limit <= 0 || limit > total {
		limit = total
	}

	// Round-robin: first value of each family, then second, and so on,
	// so the global cap never starves late families.
	out := make([]string, 0, limit)
	for depth := 0; len(out) < limit; depth++ {
		advanced := false
		for _, values := range perFamily {
			if depth >= len(values) {
				continue
			}
			advanced = true
			out = append(out, values[depth])
			if len(out) == limit {
				return out
			}
		}
		if !advanced {
			break
		}
	}
	return out
}

// familyValues extracts the representative string per finding for a family.
func familyValues(t clip.ContentType, d *Document) []string {
	switch t {
	case clip.TypeEmail:
		return collect(d.Emails, func(e Email) string { return e.Address })
	case clip.TypeURL:
		return collect(d.URLs, func(u URL) string { return u.URL })
	case clip.TypePhoneNumber:
		return collect(d.PhoneNumbers, func(p PhoneNumber) string { return p.Number })
	case clip.TypeIPAddress:
		return collect(d.IPAddresses, func(ip IPAddress) string { return ip.Address })
	case clip.TypeUUID:
		return collect(d.UUIDs, func(u UUID) string { return u.Value })
	case clip.TypeHash:
		return collect(d.Hashes, func(h Hash) string { return h.Value })
	case clip.TypeAPIKey:
		return collect(d.APIKeys, func(k APIKey) string { return k.Value })
	case clip.TypeJWT:
		return collect(d.JWTs, func(j JWT) string { return j.Token })
	case clip.TypeEnvVar:
		if d.Env == nil {
			return nil
		}
		return collect(d.Env.Vars, func(v EnvVar) string { return v.Key + "=" + v.Value })
	case clip.TypeFilePath:
		return collect(d.FilePaths, func(p FilePath) string { return p.Path })
	case clip.TypeShellCommand:
		return collect(d.ShellCommands, func(s ShellCommand) string { return s.Command })
	case clip.TypeCode:
		return collect(d.Code, func(h CodeHint) string { return h.Language })
	}
	return nil
}

func collect[T any](items []T, value func(T) string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = value(item)
	}
	return out
}
