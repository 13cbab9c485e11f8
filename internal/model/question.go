package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Question represents a single multiple-choice exam item.
type Question struct {
	ID            string  `json:"id"`
	Text          string  `json:"question_text"`
	Options       Options `json:"options"`
	CorrectAnswer string  `json:"correct_answer"`
}

// Option is one answer choice of a question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// OptionShape records how a question bank encoded its options.
type OptionShape int

const (
	// ShapeList is an ordered array: [{"id":"A","text":"Paris"}, ...].
	ShapeList OptionShape = iota
	// ShapeMap is an id-to-text object: {"A":"Paris", ...}.
	ShapeMap
)

// Options is the decoded option set of a question. Both wire shapes are
// normalized into Items on decode; Shape is kept so encoding round-trips.
type Options struct {
	Shape OptionShape
	Items []Option
}

// ListOptions builds list-shaped options.
func ListOptions(items ...Option) Options {
	return Options{Shape: ShapeList, Items: items}
}

// MapOptions builds map-shaped options from a Go map. Go maps carry no order,
// so entries are sorted by id.
func MapOptions(m map[string]string) Options {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]Option, 0, len(ids))
	for _, id := range ids {
		items = append(items, Option{ID: id, Text: m[id]})
	}
	return Options{Shape: ShapeMap, Items: items}
}

// Len returns the number of options.
func (o Options) Len() int { return len(o.Items) }

// Find returns the option with the given id.
func (o Options) Find(id string) (Option, bool) {
	for _, it := range o.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Option{}, false
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	items := make([]Option, len(o.Items))
	copy(items, o.Items)
	return Options{Shape: o.Shape, Items: items}
}

// MarshalJSON emits the options in their original shape.
func (o Options) MarshalJSON() ([]byte, error) {
	if o.Shape != ShapeMap {
		if o.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(o.Items)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range o.Items {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(it.ID)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(it.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts either wire shape. Object keys keep document order.
func (o *Options) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = Options{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []Option
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decode option list: %w", err)
		}
		*o = Options{Shape: ShapeList, Items: items}
		return nil
	case '{':
		items, err := decodeOrderedObject(trimmed)
		if err != nil {
			return fmt.Errorf("decode option map: %w", err)
		}
		*o = Options{Shape: ShapeMap, Items: items}
		return nil
	default:
		return errors.New("options must be an array or an object")
	}
}

func decodeOrderedObject(data []byte) ([]Option, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var items []Option
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		items = append(items, Option{ID: key, Text: text})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return items, nil
}

// QuestionPaper is a question as served to a candidate, without its answer.
type QuestionPaper struct {
	ID      string  `json:"id"`
	Text    string  `json:"question_text"`
	Options Options `json:"options"`
}

// Paper strips the correct answer.
func (q Question) Paper() QuestionPaper {
	return QuestionPaper{ID: q.ID, Text: q.Text, Options: q.Options}
}
