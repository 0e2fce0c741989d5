package core

import "encoding/json"

// Playlist is a remote playlist record. The remote service owns the shape;
// only a handful of fields are interpreted locally. The full decoded record
// is retained so inclusion rules can match on any string-valued field.
type Playlist struct {
	ID          string
	Name        string
	URI         string
	Description string

	raw   json.RawMessage
	attrs map[string]string
}

// UnmarshalJSON keeps the original record alongside the fields used locally.
func (p *Playlist) UnmarshalJSON(b []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	p.raw = append(json.RawMessage(nil), b...)
	p.attrs = make(map[string]string, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			p.attrs[k] = s
		}
	}

	p.ID = p.attrs["id"]
	p.Name = p.attrs["name"]
	p.URI = p.attrs["uri"]
	p.Description = p.attrs["description"]
	return nil
}

// MarshalJSON emits the record exactly as it was received when possible.
func (p Playlist) MarshalJSON() ([]byte, error) {
	if p.raw != nil {
		return p.raw, nil
	}
	return json.Marshal(map[string]string{
		"id":          p.ID,
		"name":        p.Name,
		"uri":         p.URI,
		"description": p.Description,
	})
}

// Field returns the named string field of the record. Fields the record
// never carried report ok == false.
func (p *Playlist) Field(key string) (string, bool) {
	if p.attrs != nil {
		v, ok := p.attrs[key]
		return v, ok
	}
	switch key {
	case "id":
		return p.ID, p.ID != ""
	case "name":
		return p.Name, p.Name != ""
	case "uri":
		return p.URI, p.URI != ""
	case "description":
		return p.Description, p.Description != ""
	}
	return "", false
}
