package pdf

import (
	"sort"

	"github.com/jonathan/agent-registration/internal/types"
)

// formFile mirrors the JSON document produced and consumed by the backend's
// form export/fill round trip.
type formFile struct {
	Forms []form `json:"forms"`
}

type form struct {
	TextFields  []textField  `json:"textfield,omitempty"`
	DateFields  []dateField  `json:"datefield,omitempty"`
	CheckBoxes  []checkBox   `json:"checkbox,omitempty"`
	RadioGroups []radioGroup `json:"radiobuttongroup,omitempty"`
	ComboBoxes  []comboBox   `json:"combobox,omitempty"`
	ListBoxes   []listBox    `json:"listbox,omitempty"`
}

type textField struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Multiline bool   `json:"multiline,omitempty"`
	Locked    bool   `json:"locked,omitempty"`
}

type dateField struct {
	Name   string `json:"name"`
	Format string `json:"format,omitempty"`
	Value  string `json:"value"`
	Locked bool   `json:"locked,omitempty"`
}

type checkBox struct {
	Name   string `json:"name"`
	Value  bool   `json:"value"`
	Locked bool   `json:"locked,omitempty"`
}

type radioGroup struct {
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
	Value   string   `json:"value"`
	Locked  bool     `json:"locked,omitempty"`
}

type comboBox struct {
	Name     string   `json:"name"`
	Editable bool     `json:"editable,omitempty"`
	Options  []string `json:"options,omitempty"`
	Value    string   `json:"value"`
	Locked   bool     `json:"locked,omitempty"`
}

type listBox struct {
	Name    string   `json:"name"`
	Multi   bool     `json:"multi,omitempty"`
	Options []string `json:"options,omitempty"`
	Values  []string `json:"values,omitempty"`
	Locked  bool     `json:"locked,omitempty"`
}

// descriptors flattens an exported form into field descriptors, preserving
// the backend's field order within each kind.
func (f *formFile) descriptors() []types.FieldDescriptor {
	var out []types.FieldDescriptor
	for _, fm := range f.Forms {
		for _, tf := range fm.TextFields {
			out = append(out, types.FieldDescriptor{Name: tf.Name, Kind: types.FieldText})
		}
		for _, df := range fm.DateFields {
			out = append(out, types.FieldDescriptor{Name: df.Name, Kind: types.FieldText})
		}
		for _, cb := range fm.CheckBoxes {
			out = append(out, types.FieldDescriptor{Name: cb.Name, Kind: types.FieldCheckBox})
		}
		for _, rg := range fm.RadioGroups {
			out = append(out, types.FieldDescriptor{Name: rg.Name, Kind: types.FieldDropdown})
		}
		for _, cb := range fm.ComboBoxes {
			out = append(out, types.FieldDescriptor{Name: cb.Name, Kind: types.FieldDropdown})
		}
		for _, lb := range fm.ListBoxes {
			out = append(out, types.FieldDescriptor{Name: lb.Name, Kind: types.FieldDropdown})
		}
	}
	return out
}

// buildFill produces the fill document for the requested values against an
// exported form, leaving out fields whose values are absent. It returns the
// fill document, the number of fields it will write, and the names of
// requested fields that could not be written.
func buildFill(exported *formFile, values map[string]string) (formFile, int, []string) {
	written := map[string]bool{}
	var fill form
	for _, fm := range exported.Forms {
		for _, tf := range fm.TextFields {
			v, ok := values[tf.Name]
			if !ok || tf.Locked {
				continue
			}
			tf.Value = v
			fill.TextFields = append(fill.TextFields, tf)
			written[tf.Name] = true
		}
		for _, df := range fm.DateFields {
			v, ok := values[df.Name]
			if !ok || df.Locked {
				continue
			}
			df.Value = v
			fill.DateFields = append(fill.DateFields, df)
			written[df.Name] = true
		}
		for _, cb := range fm.CheckBoxes {
			v, ok := values[cb.Name]
			if !ok || cb.Locked {
				continue
			}
			cb.Value = Affirmative(v)
			fill.CheckBoxes = append(fill.CheckBoxes, cb)
			written[cb.Name] = true
		}
		for _, rg := range fm.RadioGroups {
			v, ok := values[rg.Name]
			if !ok || rg.Locked {
				continue
			}
			if !hasOption(rg.Options, v) {
				continue
			}
			rg.Value = v
			fill.RadioGroups = append(fill.RadioGroups, rg)
			written[rg.Name] = true
		}
		for _, cb := range fm.ComboBoxes {
			v, ok := values[cb.Name]
			if !ok || cb.Locked {
				continue
			}
			if !cb.Editable && !hasOption(cb.Options, v) {
				continue
			}
			cb.Value = v
			fill.ComboBoxes = append(fill.ComboBoxes, cb)
			written[cb.Name] = true
		}
		for _, lb := range fm.ListBoxes {
			v, ok := values[lb.Name]
			if !ok || lb.Locked {
				continue
			}
			if !hasOption(lb.Options, v) {
				continue
			}
			lb.Values = []string{v}
			fill.ListBoxes = append(fill.ListBoxes, lb)
			written[lb.Name] = true
		}
	}

	var failed []string
	for name := range values {
		if !written[name] {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return formFile{Forms: []form{fill}}, len(written), failed
}

func hasOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
