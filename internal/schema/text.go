package schema

import "strconv"

// appendJSON writes s as JSON. Named types are defined on their first
// occurrence and referenced by full name afterwards.
func (s *Schema) appendJSON(dst []byte, seen map[string]bool) []byte {
	switch s.typ {
	case TypeRecord, TypeEnum, TypeFixed:
		full := s.FullName()
		if seen[full] {
			return strconv.AppendQuote(dst, full)
		}
		seen[full] = true
		return s.appendNamed(dst, seen)
	case TypeUnion:
		dst = append(dst, '[')
		for i, b := range s.branches {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = b.appendJSON(dst, seen)
		}
		return append(dst, ']')
	case TypeArray:
		dst = append(dst, `{"type":"array","items":`...)
		dst = s.items.appendJSON(dst, seen)
		return s.appendLogical(dst)
	case TypeMap:
		dst = append(dst, `{"type":"map","values":`...)
		dst = s.values.appendJSON(dst, seen)
		return s.appendLogical(dst)
	}

	if s.logical == "" {
		return strconv.AppendQuote(dst, s.typ.String())
	}

	dst = append(dst, `{"type":`...)
	dst = strconv.AppendQuote(dst, s.typ.String())
	return s.appendLogical(dst)
}

func (s *Schema) appendNamed(dst []byte, seen map[string]bool) []byte {
	dst = append(dst, `{"type":`...)
	dst = strconv.AppendQuote(dst, s.typ.String())
	dst = append(dst, `,"name":`...)
	dst = strconv.AppendQuote(dst, s.FullName())

	switch s.typ {
	case TypeRecord:
		dst = append(dst, `,"fields":[`...)
		for i, f := range s.fields {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = append(dst, `{"name":`...)
			dst = strconv.AppendQuote(dst, f.Name)
			dst = append(dst, `,"type":`...)
			dst = f.Schema.appendJSON(dst, seen)
			if f.Order != OrderAscending {
				dst = append(dst, `,"order":`...)
				dst = strconv.AppendQuote(dst, f.Order.String())
			}
			if f.Default != nil {
				dst = append(dst, `,"default":`...)
				dst = append(dst, f.Default...)
			}
			dst = append(dst, '}')
		}
		dst = append(dst, ']')
	case TypeEnum:
		dst = append(dst, `,"symbols":[`...)
		for i, sym := range s.symbols {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = strconv.AppendQuote(dst, sym)
		}
		dst = append(dst, ']')
	case TypeFixed:
		dst = append(dst, `,"size":`...)
		dst = strconv.AppendInt(dst, int64(s.size), 10)
	}

	return s.appendLogical(dst)
}

// appendLogical closes a JSON object, adding the logicalType attribute if set.
func (s *Schema) appendLogical(dst []byte) []byte {
	if s.logical != "" {
		dst = append(dst, `,"logicalType":`...)
		dst = strconv.AppendQuote(dst, s.logical)
	}
	return append(dst, '}')
}
