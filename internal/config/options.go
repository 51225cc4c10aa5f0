package config

// Options is a loosely-typed option bag decoded straight from pipeline JSON.
// Parsers read from it with typed accessors that fall back to a default when
// a key is missing or has the wrong shape; bad option values never panic.
type Options map[string]any

// Bool returns the boolean at key, or def when absent/mistyped.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the integer at key, or def. JSON numbers decode as float64.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// String returns the string at key, or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Rune returns the first rune of the string at key, or def when absent or
// empty. Used for the CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns the string→string map at key, or nil. Non-string values
// inside the map are skipped.
func (o Options) StringMap(key string) map[string]string {
	v, ok := o[key]
	if !ok {
		return nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, mv := range raw {
		if s, ok := mv.(string); ok {
			out[k] = s
		}
	}
	return out
}
