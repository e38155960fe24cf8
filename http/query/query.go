package query

import "strings"

// Params is a set of URI parameters. A key presented multiple times keeps only
// its last value.
type Params map[string]string

// Get returns the value and whether the key is presented at all.
func (p Params) Get(key string) (value string, found bool) {
	value, found = p[key]
	return value, found
}

// Value returns the value by the key or an empty string.
func (p Params) Value(key string) string {
	return p[key]
}

// Has indicates, whether there's an entry of the key.
func (p Params) Has(key string) bool {
	_, found := p[key]
	return found
}

// Parse splits the raw query (without the leading question mark) into pairs and stores
// them. Values aren't percent-decoded. A pair without an equality sign is treated as a
// flag with an empty value, and pairs with an empty key are skipped, as there's no way
// to address them anyway.
func Parse(raw string, into Params) {
	for len(raw) > 0 {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")

		key, value, _ := strings.Cut(pair, "=")
		if len(key) == 0 {
			continue
		}

		into[key] = value
	}
}

// Clear removes all the entries, keeping the map allocated.
func (p Params) Clear() {
	clear(p)
}
