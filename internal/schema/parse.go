package schema

import (
	"strings"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
	"github.com/linkedin/goavro/v2"
)

// Parse validates and parses the JSON text of a schema.
// Parsing has no side effects and can be repeated on the same text.
func Parse(text string) (*Schema, error) {
	codec, err := goavro.NewCodec(text)
	if err != nil {
		return nil, errors.Wrap(err, "invalid schema")
	}

	value, dt, _, err := jsonparser.Get([]byte(text))
	if err != nil {
		return nil, errors.Wrap(err, "invalid schema")
	}

	p := parser{names: make(map[string]*Schema)}
	s, err := p.parse(value, dt, "")
	if err != nil {
		return nil, err
	}

	s.canonicalOnce.Do(func() {
		s.canonical = codec.CanonicalSchema()
		s.fingerprint = codec.Rabin
	})

	return s, nil
}

// MustParse calls Parse and panics on error.
func MustParse(text string) *Schema {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

type parser struct {
	names map[string]*Schema
}

func (p *parser) parse(data []byte, dt jsonparser.ValueType, namespace string) (*Schema, error) {
	switch dt {
	case jsonparser.String:
		name, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, errors.Wrap(err, "invalid type name")
		}
		return p.reference(name, namespace)
	case jsonparser.Array:
		return p.parseUnion(data, namespace)
	case jsonparser.Object:
		return p.parseObject(data, namespace)
	}

	return nil, errors.Errorf("invalid schema of JSON type %s", dt)
}

func (p *parser) reference(name, namespace string) (*Schema, error) {
	if t, ok := primitives[name]; ok {
		return &Schema{typ: t}, nil
	}

	if namespace != "" && !strings.Contains(name, ".") {
		if s, ok := p.names[namespace+"."+name]; ok {
			return s, nil
		}
	}
	if s, ok := p.names[name]; ok {
		return s, nil
	}

	return nil, errors.Errorf("unknown type %q", name)
}

func (p *parser) parseObject(data []byte, namespace string) (*Schema, error) {
	typ, tdt, _, err := jsonparser.Get(data, "type")
	if err != nil {
		return nil, errors.Wrap(err, "missing type attribute")
	}
	if tdt != jsonparser.String {
		return p.parse(typ, tdt, namespace)
	}

	t, err := jsonparser.ParseString(typ)
	if err != nil {
		return nil, err
	}

	logical, _ := jsonparser.GetString(data, "logicalType")

	var s *Schema
	switch t {
	case "record", "error":
		s, err = p.parseRecord(data, namespace)
	case "enum":
		s, err = p.parseEnum(data, namespace)
	case "fixed":
		s, err = p.parseFixed(data, namespace)
	case "array":
		s = &Schema{typ: TypeArray}
		s.items, err = p.parseAttr(data, "items", namespace)
	case "map":
		s = &Schema{typ: TypeMap}
		s.values, err = p.parseAttr(data, "values", namespace)
	default:
		prim, ok := primitives[t]
		if !ok {
			return p.reference(t, namespace)
		}
		s = &Schema{typ: prim}
	}
	if err != nil {
		return nil, err
	}

	s.logical = logical
	return s, nil
}

func (p *parser) parseAttr(data []byte, attr, namespace string) (*Schema, error) {
	v, dt, _, err := jsonparser.Get(data, attr)
	if err != nil {
		return nil, errors.Wrapf(err, "missing %s attribute", attr)
	}

	return p.parse(v, dt, namespace)
}

func (p *parser) parseName(data []byte, namespace string) (string, string, error) {
	name, err := jsonparser.GetString(data, "name")
	if err != nil {
		return "", "", errors.Wrap(err, "missing name attribute")
	}

	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:], name[:i], nil
	}

	if ns, err := jsonparser.GetString(data, "namespace"); err == nil && ns != "" {
		return name, ns, nil
	}

	return name, namespace, nil
}

func (p *parser) register(s *Schema) error {
	full := s.FullName()
	if _, ok := p.names[full]; ok {
		return errors.Errorf("duplicate definition of %q", full)
	}

	p.names[full] = s
	return nil
}

func (p *parser) parseRecord(data []byte, namespace string) (*Schema, error) {
	name, ns, err := p.parseName(data, namespace)
	if err != nil {
		return nil, err
	}

	s := Schema{
		typ:       TypeRecord,
		name:      name,
		namespace: ns,
		byName:    make(map[string]int),
	}

	// register before parsing the fields so that they can reference the record itself
	if err := p.register(&s); err != nil {
		return nil, err
	}

	var perr error
	_, err = jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, err error) {
		if perr != nil {
			return
		}
		if err != nil {
			perr = err
			return
		}

		f, err := p.parseField(value, ns, len(s.fields))
		if err != nil {
			perr = errors.Wrapf(err, "record %s", s.FullName())
			return
		}
		if _, ok := s.byName[f.Name]; ok {
			perr = errors.Errorf("duplicate field %q in record %s", f.Name, s.FullName())
			return
		}

		s.byName[f.Name] = f.Pos
		s.fields = append(s.fields, f)
	}, "fields")
	if err != nil {
		return nil, errors.Wrap(err, "invalid fields attribute")
	}
	if perr != nil {
		return nil, perr
	}

	return &s, nil
}

func (p *parser) parseField(data []byte, namespace string, pos int) (*Field, error) {
	name, err := jsonparser.GetString(data, "name")
	if err != nil {
		return nil, errors.Wrap(err, "missing field name")
	}

	fs, err := p.parseAttr(data, "type", namespace)
	if err != nil {
		return nil, errors.Wrapf(err, "field %q", name)
	}

	f := Field{
		Name:   name,
		Pos:    pos,
		Schema: fs,
	}

	order, _ := jsonparser.GetString(data, "order")
	f.Order, err = parseOrder(order)
	if err != nil {
		return nil, err
	}

	def, dt, _, err := jsonparser.Get(data, "default")
	if err == nil {
		if dt == jsonparser.String {
			// jsonparser strips the quotes of string values
			def = append(append([]byte{'"'}, def...), '"')
		}
		f.Default = append([]byte(nil), def...)
	}

	return &f, nil
}

func (p *parser) parseEnum(data []byte, namespace string) (*Schema, error) {
	name, ns, err := p.parseName(data, namespace)
	if err != nil {
		return nil, err
	}

	s := Schema{typ: TypeEnum, name: name, namespace: ns}

	var perr error
	_, err = jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, err error) {
		if perr != nil {
			return
		}
		if err != nil {
			perr = err
			return
		}

		sym, err := jsonparser.ParseString(value)
		if err != nil {
			perr = err
			return
		}
		s.symbols = append(s.symbols, sym)
	}, "symbols")
	if err != nil {
		return nil, errors.Wrap(err, "invalid symbols attribute")
	}
	if perr != nil {
		return nil, perr
	}

	if err := p.register(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *parser) parseFixed(data []byte, namespace string) (*Schema, error) {
	name, ns, err := p.parseName(data, namespace)
	if err != nil {
		return nil, err
	}

	size, err := jsonparser.GetInt(data, "size")
	if err != nil {
		return nil, errors.Wrap(err, "invalid size attribute")
	}

	s := Schema{typ: TypeFixed, name: name, namespace: ns, size: int(size)}
	if err := p.register(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *parser) parseUnion(data []byte, namespace string) (*Schema, error) {
	s := Schema{typ: TypeUnion}

	var perr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
		if perr != nil {
			return
		}
		if err != nil {
			perr = err
			return
		}

		b, err := p.parse(value, dt, namespace)
		if err != nil {
			perr = err
			return
		}
		s.branches = append(s.branches, b)
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid union")
	}
	if perr != nil {
		return nil, perr
	}

	return &s, nil
}
