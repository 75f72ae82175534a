package decoder

import (
	"fmt"
	"strconv"

	"github.com/kingkybel/FixDecoder/dictionary"
	"github.com/kingkybel/FixDecoder/wire"
)

// validateStructure walks a message definition's ordered members against
// the parsed token sequence, starting at the first observed tag that
// matches any top-level member's leading tag. It never reorders, drops,
// or re-parses fields — it only records what it could not match.
func validateStructure(fields []wire.Field, dict *dictionary.Dictionary, msgDef dictionary.MessageDef) (bool, []string) {
	idx := startIndex(fields, dict, msgDef.Members)
	errs := walkMembers(fields, &idx, dict, msgDef.Members)
	return len(errs) == 0, errs
}

func startIndex(fields []wire.Field, dict *dictionary.Dictionary, members []dictionary.Member) int {
	leadTags := make(map[uint32]bool)
	for _, m := range members {
		if tag, ok := firstMemberTag(dict, m); ok {
			leadTags[tag] = true
		}
	}
	for i, f := range fields {
		if leadTags[f.Tag] {
			return i
		}
	}
	return len(fields)
}

// firstMemberTag resolves the leading wire tag a member begins with: its
// own field number for a field or group (a group's name names its count
// field), or the leading tag of a component's first member, recursively.
func firstMemberTag(dict *dictionary.Dictionary, m dictionary.Member) (uint32, bool) {
	switch m.Kind {
	case dictionary.KindField, dictionary.KindGroup:
		fd, ok := dict.FieldByName(m.Name)
		if !ok {
			return 0, false
		}
		return fd.Number, true
	case dictionary.KindComponent:
		members, ok := dict.ComponentByName(m.Name)
		if !ok || len(members) == 0 {
			return 0, false
		}
		return firstMemberTag(dict, members[0])
	default:
		return 0, false
	}
}

func walkMembers(fields []wire.Field, idx *int, dict *dictionary.Dictionary, members []dictionary.Member) []string {
	var errs []string
	for _, m := range members {
		switch m.Kind {
		case dictionary.KindField:
			errs = append(errs, walkField(fields, idx, dict, m)...)
		case dictionary.KindComponent:
			errs = append(errs, walkComponent(fields, idx, dict, m)...)
		case dictionary.KindGroup:
			errs = append(errs, walkGroup(fields, idx, dict, m)...)
		}
	}
	return errs
}

func walkField(fields []wire.Field, idx *int, dict *dictionary.Dictionary, m dictionary.Member) []string {
	fd, ok := dict.FieldByName(m.Name)
	if !ok {
		return nil
	}
	if *idx < len(fields) && fields[*idx].Tag == fd.Number {
		*idx++
		return nil
	}
	if m.Required {
		return []string{fmt.Sprintf("Missing required field '%s'", m.Name)}
	}
	return nil
}

func walkComponent(fields []wire.Field, idx *int, dict *dictionary.Dictionary, m dictionary.Member) []string {
	compMembers, ok := dict.ComponentByName(m.Name)
	if !ok {
		if m.Required {
			return []string{fmt.Sprintf("Missing required component '%s'", m.Name)}
		}
		return nil
	}

	leadTag, hasLead := firstMemberTag(dict, dictionary.Member{Kind: dictionary.KindComponent, Name: m.Name})
	if !hasLead || *idx >= len(fields) || fields[*idx].Tag != leadTag {
		if m.Required {
			return []string{fmt.Sprintf("Missing required component '%s'", m.Name)}
		}
		return nil
	}

	before := *idx
	errs := walkMembers(fields, idx, dict, compMembers)
	consumed := *idx > before
	if m.Required && !consumed {
		errs = append(errs, fmt.Sprintf("Missing required component '%s'", m.Name))
	}
	return errs
}

func walkGroup(fields []wire.Field, idx *int, dict *dictionary.Dictionary, m dictionary.Member) []string {
	countFd, ok := dict.FieldByName(m.Name)
	if !ok {
		return nil
	}
	if *idx >= len(fields) || fields[*idx].Tag != countFd.Number {
		if m.Required {
			return []string{fmt.Sprintf("Missing required group-count field '%s'", m.Name)}
		}
		return nil
	}

	declaredRaw := fields[*idx].Value
	*idx++

	declared, err := strconv.Atoi(string(declaredRaw))
	if err != nil {
		return []string{fmt.Sprintf("Invalid group-count value for '%s'", m.Name)}
	}

	var errs []string
	actual := 0
	for actual < declared {
		before := *idx
		errs = append(errs, walkMembers(fields, idx, dict, m.Children)...)
		if *idx == before {
			break
		}
		actual++
	}

	if actual != declared {
		errs = append(errs, fmt.Sprintf("Group '%s' count mismatch: declared %d, actual %d", m.Name, declared, actual))
	}
	return errs
}
