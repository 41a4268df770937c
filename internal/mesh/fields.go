package mesh

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Fields holds JSON object members by name, values as received.
type Fields map[string]json.RawMessage

// declaredNames caches the JSON member names of struct types, lower-cased
// because encoding/json matches member names case-insensitively.
var declaredNames sync.Map // reflect.Type -> map[string]struct{}

func jsonNames(t reflect.Type) map[string]struct{} {
	if names, ok := declaredNames.Load(t); ok {
		return names.(map[string]struct{})
	}

	names := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names[strings.ToLower(name)] = struct{}{}
	}
	declaredNames.Store(t, names)
	return names
}

// decodeObject decodes data into v, a pointer to a struct without JSON
// methods, and returns the members v does not declare, or nil if there
// are none.
func decodeObject(data []byte, v any) (Fields, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}

	var members Fields
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}

	declared := jsonNames(reflect.TypeOf(v).Elem())
	var extra Fields
	for name, raw := range members {
		if _, ok := declared[strings.ToLower(name)]; ok {
			continue
		}
		if extra == nil {
			extra = make(Fields)
		}
		extra[name] = raw
	}
	return extra, nil
}

// encodeObject encodes v, a struct without JSON methods, followed by the
// members of extra in name order. HTML characters are not escaped.
func encodeObject(v any, extra Fields) ([]byte, error) {
	known, err := encodeNoEscape(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return known, nil
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.Write(known[:len(known)-1]) // drop '}'
	empty := len(known) == 2
	for _, name := range names {
		if !empty {
			buf.WriteByte(',')
		}
		empty = false

		key, err := encodeNoEscape(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(extra[name])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (p *Position) UnmarshalJSON(data []byte) error {
	type plain Position
	extra, err := decodeObject(data, (*plain)(p))
	p.Extra = extra
	return err
}

func (p Position) MarshalJSON() ([]byte, error) {
	type plain Position
	return encodeObject(plain(p), p.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	extra, err := decodeObject(data, (*plain)(u))
	u.Extra = extra
	return err
}

func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return encodeObject(plain(u), u.Extra)
}

func (t *Telemetry) UnmarshalJSON(data []byte) error {
	type plain Telemetry
	extra, err := decodeObject(data, (*plain)(t))
	t.Extra = extra
	return err
}

func (t Telemetry) MarshalJSON() ([]byte, error) {
	type plain Telemetry
	return encodeObject(plain(t), t.Extra)
}

func (m *DeviceMetrics) UnmarshalJSON(data []byte) error {
	type plain DeviceMetrics
	extra, err := decodeObject(data, (*plain)(m))
	m.Extra = extra
	return err
}

func (m DeviceMetrics) MarshalJSON() ([]byte, error) {
	type plain DeviceMetrics
	return encodeObject(plain(m), m.Extra)
}

func (m *EnvironmentMetrics) UnmarshalJSON(data []byte) error {
	type plain EnvironmentMetrics
	extra, err := decodeObject(data, (*plain)(m))
	m.Extra = extra
	return err
}

func (m EnvironmentMetrics) MarshalJSON() ([]byte, error) {
	type plain EnvironmentMetrics
	return encodeObject(plain(m), m.Extra)
}

func (m *AirQualityMetrics) UnmarshalJSON(data []byte) error {
	type plain AirQualityMetrics
	extra, err := decodeObject(data, (*plain)(m))
	m.Extra = extra
	return err
}

func (m AirQualityMetrics) MarshalJSON() ([]byte, error) {
	type plain AirQualityMetrics
	return encodeObject(plain(m), m.Extra)
}

func (m *PowerMetrics) UnmarshalJSON(data []byte) error {
	type plain PowerMetrics
	extra, err := decodeObject(data, (*plain)(m))
	m.Extra = extra
	return err
}

func (m PowerMetrics) MarshalJSON() ([]byte, error) {
	type plain PowerMetrics
	return encodeObject(plain(m), m.Extra)
}
