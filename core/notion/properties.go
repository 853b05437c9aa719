package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind discriminates the property value types the mirror works with.
type Kind string

const (
	KindTitle       Kind = "title"
	KindRichText    Kind = "rich_text"
	KindDate        Kind = "date"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multi_select"
	KindURL         Kind = "url"
)

// DateValue is the wire shape of a date property. End stays empty for
// single-day values.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// Value is a single property value of a database page.
//
// Marshaling produces the exact JSON the API expects for the value's kind.
// Empty text and url values keep their explicit empty forms ("rich_text": [],
// "url": null) so stale remote content gets cleared rather than left in place.
type Value struct {
	Kind        Kind
	Text        string // content of title, rich_text and url values
	Date        *DateValue
	SelectName  string
	MultiSelect []string
}

// Title builds a title value.
func Title(s string) Value {
	return Value{Kind: KindTitle, Text: s}
}

// RichText builds a rich_text value. An empty string is preserved as the
// explicit empty form.
func RichText(s string) Value {
	return Value{Kind: KindRichText, Text: s}
}

// Date builds a date value.
func Date(d DateValue) Value {
	return Value{Kind: KindDate, Date: &d}
}

// Select builds a select value.
func Select(name string) Value {
	return Value{Kind: KindSelect, SelectName: name}
}

// MultiSelect builds a multi_select value.
func MultiSelect(names ...string) Value {
	return Value{Kind: KindMultiSelect, MultiSelect: names}
}

// URL builds a url value. An empty string marshals as an explicit null.
func URL(s string) Value {
	return Value{Kind: KindURL, Text: s}
}

// PlainText returns the text content of title, rich_text and url values.
// Other kinds return the empty string.
func (v Value) PlainText() string {
	switch v.Kind {
	case KindTitle, KindRichText, KindURL:
		return v.Text
	default:
		return ""
	}
}

type textContent struct {
	Content string `json:"content"`
}

type textSpan struct {
	Text      textContent `json:"text"`
	PlainText string      `json:"plain_text,omitempty"`
}

type selectOption struct {
	Name string `json:"name"`
}

func spans(s string) []textSpan {
	if s == "" {
		return []textSpan{}
	}
	return []textSpan{{Text: textContent{Content: s}}}
}

func joinSpans(ts []textSpan) string {
	var b strings.Builder
	for _, s := range ts {
		if s.PlainText != "" {
			b.WriteString(s.PlainText)
		} else {
			b.WriteString(s.Text.Content)
		}
	}
	return b.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindTitle:
		return json.Marshal(map[string][]textSpan{"title": spans(v.Text)})
	case KindRichText:
		return json.Marshal(map[string][]textSpan{"rich_text": spans(v.Text)})
	case KindDate:
		return json.Marshal(map[string]*DateValue{"date": v.Date})
	case KindSelect:
		if v.SelectName == "" {
			return json.Marshal(map[string]any{"select": nil})
		}
		return json.Marshal(map[string]selectOption{"select": {Name: v.SelectName}})
	case KindMultiSelect:
		opts := make([]selectOption, 0, len(v.MultiSelect))
		for _, name := range v.MultiSelect {
			opts = append(opts, selectOption{Name: name})
		}
		return json.Marshal(map[string][]selectOption{"multi_select": opts})
	case KindURL:
		if v.Text == "" {
			return json.Marshal(map[string]any{"url": nil})
		}
		return json.Marshal(map[string]string{"url": v.Text})
	default:
		return nil, fmt.Errorf("cannot marshal property value of kind %q", v.Kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if m, ok := raw[string(KindTitle)]; ok {
		var ts []textSpan
		if err := json.Unmarshal(m, &ts); err != nil {
			return err
		}
		*v = Value{Kind: KindTitle, Text: joinSpans(ts)}
		return nil
	}
	if m, ok := raw[string(KindRichText)]; ok {
		var ts []textSpan
		if err := json.Unmarshal(m, &ts); err != nil {
			return err
		}
		*v = Value{Kind: KindRichText, Text: joinSpans(ts)}
		return nil
	}
	if m, ok := raw[string(KindDate)]; ok {
		var d *DateValue
		if err := json.Unmarshal(m, &d); err != nil {
			return err
		}
		*v = Value{Kind: KindDate, Date: d}
		return nil
	}
	if m, ok := raw[string(KindSelect)]; ok {
		var opt *selectOption
		if err := json.Unmarshal(m, &opt); err != nil {
			return err
		}
		val := Value{Kind: KindSelect}
		if opt != nil {
			val.SelectName = opt.Name
		}
		*v = val
		return nil
	}
	if m, ok := raw[string(KindMultiSelect)]; ok {
		var opts []selectOption
		if err := json.Unmarshal(m, &opts); err != nil {
			return err
		}
		names := make([]string, 0, len(opts))
		for _, o := range opts {
			names = append(names, o.Name)
		}
		*v = Value{Kind: KindMultiSelect, MultiSelect: names}
		return nil
	}
	if m, ok := raw[string(KindURL)]; ok {
		var s *string
		if err := json.Unmarshal(m, &s); err != nil {
			return err
		}
		val := Value{Kind: KindURL}
		if s != nil {
			val.Text = *s
		}
		*v = val
		return nil
	}

	// Property types the mirror does not manage (checkbox, number, people, ...)
	// are kept out of the model but must not make the page unparseable.
	*v = Value{}
	return nil
}

// Properties maps property names to values, mirroring the "properties"
// object of a page.
type Properties map[string]Value

// Page is a database row as returned by the API.
type Page struct {
	ID         string     `json:"id"`
	Archived   bool       `json:"archived"`
	Properties Properties `json:"properties"`
}
