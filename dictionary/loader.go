package dictionary

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadFile parses one QuickFIX-compatible XML dictionary document and
// populates a fresh Dictionary. It returns a human-readable error instead
// of loading an unusable dictionary when the root element is missing.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return loadFromReader(f, path)
}

func loadFromReader(r io.Reader, path string) (*Dictionary, error) {
	dec := xml.NewDecoder(r)

	root, err := nextStartElement(dec)
	if err != nil || root == nil {
		return nil, fmt.Errorf("missing <fix> root element in %s", path)
	}
	if root.Name.Local != "fix" {
		return nil, fmt.Errorf("missing <fix> root element in %s", path)
	}

	d := &Dictionary{
		fields:       make(map[uint32]FieldDef),
		fieldsByName: make(map[string]FieldDef),
		messages:     make(map[string]MessageDef),
		components:   make(map[string][]Member),
	}

	d.fixType = attr(root, "type")
	d.major = atoiOrZero(attr(root, "major"))
	d.minor = atoiOrZero(attr(root, "minor"))
	d.beginString = buildBeginString(d.fixType, d.major, d.minor)

	if err := walkChildren(dec, root.Name, func(el xml.StartElement) error {
		switch el.Name.Local {
		case "fields":
			return parseFields(dec, el.Name, d)
		case "messages":
			return parseMessages(dec, el.Name, d)
		case "components":
			return parseComponents(dec, el.Name, d)
		default:
			return skipElement(dec, el.Name)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return d, nil
}

func parseFields(dec *xml.Decoder, parent xml.Name, d *Dictionary) error {
	return walkChildren(dec, parent, func(el xml.StartElement) error {
		if el.Name.Local != "field" {
			return skipElement(dec, el.Name)
		}

		def := FieldDef{
			Name: attr(&el, "name"),
			Type: attr(&el, "type"),
		}
		number := atoiOrZero(attr(&el, "number"))

		if err := walkChildren(dec, el.Name, func(valueEl xml.StartElement) error {
			if valueEl.Name.Local != "value" {
				return skipElement(dec, valueEl.Name)
			}
			def.Enums = append(def.Enums, FieldEnum{
				Value:       attr(&valueEl, "enum"),
				Description: attr(&valueEl, "description"),
			})
			return skipElement(dec, valueEl.Name)
		}); err != nil {
			return err
		}

		if number > 0 {
			def.Number = uint32(number)
			d.fields[def.Number] = def
			if def.Name != "" {
				d.fieldsByName[def.Name] = def
			}
		}
		return nil
	})
}

func parseMessages(dec *xml.Decoder, parent xml.Name, d *Dictionary) error {
	return walkChildren(dec, parent, func(el xml.StartElement) error {
		if el.Name.Local != "message" {
			return skipElement(dec, el.Name)
		}

		def := MessageDef{
			Name:    attr(&el, "name"),
			MsgType: attr(&el, "msgtype"),
			MsgCat:  attr(&el, "msgcat"),
		}

		members, err := parseMembers(dec, el.Name)
		if err != nil {
			return err
		}
		def.Members = members

		if def.MsgType != "" {
			d.messages[def.MsgType] = def
		}
		return nil
	})
}

func parseComponents(dec *xml.Decoder, parent xml.Name, d *Dictionary) error {
	return walkChildren(dec, parent, func(el xml.StartElement) error {
		if el.Name.Local != "component" {
			return skipElement(dec, el.Name)
		}

		name := attr(&el, "name")
		members, err := parseMembers(dec, el.Name)
		if err != nil {
			return err
		}
		if name != "" {
			d.components[name] = members
		}
		return nil
	})
}

// parseMembers reads the ordered field/component/group children of a
// message or component element, preserving wire-definition order across
// the three member kinds — token-stream parsing (rather than struct-tag
// unmarshalling into separate typed slices) is what makes that order
// recoverable.
func parseMembers(dec *xml.Decoder, parent xml.Name) ([]Member, error) {
	var members []Member
	err := walkChildren(dec, parent, func(el xml.StartElement) error {
		switch el.Name.Local {
		case "field":
			members = append(members, Member{
				Kind:     KindField,
				Name:     attr(&el, "name"),
				Required: isRequiredAttr(attr(&el, "required")),
			})
			return skipElement(dec, el.Name)
		case "component":
			members = append(members, Member{
				Kind:     KindComponent,
				Name:     attr(&el, "name"),
				Required: isRequiredAttr(attr(&el, "required")),
			})
			return skipElement(dec, el.Name)
		case "group":
			children, err := parseMembers(dec, el.Name)
			if err != nil {
				return err
			}
			members = append(members, Member{
				Kind:     KindGroup,
				Name:     attr(&el, "name"),
				Required: isRequiredAttr(attr(&el, "required")),
				Children: children,
			})
			return nil
		default:
			return skipElement(dec, el.Name)
		}
	})
	return members, err
}

// walkChildren invokes fn for each direct child start-element of parent,
// stopping at parent's matching end element. fn is responsible for fully
// consuming (or skipping) the child it is given.
func walkChildren(dec *xml.Decoder, parent xml.Name, fn func(xml.StartElement) error) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := fn(t); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name == parent {
				return nil
			}
		}
	}
}

func skipElement(dec *xml.Decoder, name xml.Name) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name == name {
				depth++
			}
		case xml.EndElement:
			if t.Name == name {
				depth--
			}
		}
	}
	return nil
}

func nextStartElement(dec *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if el, ok := tok.(xml.StartElement); ok {
			return &el, nil
		}
	}
}

func attr(el *xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
