package resolver

import (
	"fmt"
	"reflect"
)

// Binder converts raw request value into a value of target type.
type Binder interface {
	// Bind returns nil value if raw value was converted to null.
	Bind(raw string, t reflect.Type) (interface{}, error)
}

// BinderFactory creates binders for named request parameters.
type BinderFactory interface {
	MakeBinder(req Request, name string) Binder
}

// Resolver binds request parameters, uploaded files and parts to handler parameters.
//
// Part parameters need raw multipart body, see NewRequest for server configuration.
//
// Please use New to create instance.
type Resolver struct {
	binders              BinderFactory
	simpleTypesByDefault bool
}

// New creates parameter resolver.
//
// With nil binders string values are returned as is and other types can not be resolved.
// If simpleTypesByDefault is true, parameters of simple types are resolved without binding declaration.
func New(binders BinderFactory, simpleTypesByDefault bool) *Resolver {
	return &Resolver{
		binders:              binders,
		simpleTypesByDefault: simpleTypesByDefault,
	}
}

// Supports checks if parameter can be resolved.
//
// Types that can not be produced from request data are never supported.
func (r *Resolver) Supports(p Param) bool {
	kind := p.Kind()
	if kind == KindUnsupported {
		return false
	}

	switch p.Binding {
	case BindingParam:
		if kind == KindMap {
			return p.Named && p.Name != ""
		}

		return true
	case BindingNone:
		return r.simpleTypesByDefault && IsSimple(p.Type)
	default:
		return false
	}
}

// Resolve produces parameter value from request.
//
// Returned value has the declared parameter type, nil means absent value.
func (r *Resolver) Resolve(req Request, p Param) (interface{}, error) {
	kind := p.Kind()

	if kind == KindMap {
		return r.resolveMap(req, p)
	}

	if p.Name == "" {
		return nil, fmt.Errorf("%w: name for %s parameter is not available", ErrIllegalArgument, typeString(p.Type))
	}

	switch kind {
	case KindFile, KindFileList:
		return r.resolveFiles(req, p)
	case KindPart, KindPartList:
		return r.resolveParts(req, p)
	case KindScalar, KindScalarList:
		return r.resolveValues(req, p)
	default:
		return nil, fmt.Errorf("%w: unsupported type %s of parameter %q", ErrIllegalArgument, typeString(p.Type), p.Name)
	}
}

func (r *Resolver) resolveFiles(req Request, p Param) (interface{}, error) {
	if !req.IsMultipart() {
		return nil, fmt.Errorf("%w: can not bind file %q", ErrNotMultipart, p.Name)
	}

	form, err := req.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read multipart form for %q: %v", ErrIllegalArgument, p.Name, err)
	}

	files := form.File[p.Name]

	if p.Kind() == KindFileList {
		return collect(p.Type, len(files), func(i int) (reflect.Value, error) {
			return reflect.ValueOf(files[i]), nil
		})
	}

	if len(files) == 0 {
		if p.IsRequired() {
			return nil, fmt.Errorf("%w: %w", ErrIllegalArgument, &MissingParameterError{Name: p.Name, Type: p.Type})
		}

		return nil, nil
	}

	return files[0], nil
}

func (r *Resolver) resolveParts(req Request, p Param) (interface{}, error) {
	if !req.IsMultipart() {
		return nil, fmt.Errorf("%w: can not bind part %q", ErrNotMultipart, p.Name)
	}

	parts, err := req.Parts()
	if err != nil {
		return nil, err
	}

	var matched []*Part

	for _, part := range parts {
		if part.Name == p.Name {
			matched = append(matched, part)
		}
	}

	if p.Kind() == KindPartList {
		return collect(p.Type, len(matched), func(i int) (reflect.Value, error) {
			return reflect.ValueOf(matched[i]), nil
		})
	}

	if len(matched) == 0 {
		if p.IsRequired() {
			return nil, &MissingParameterError{Name: p.Name, Type: p.Type}
		}

		return nil, nil
	}

	return matched[0], nil
}

func (r *Resolver) resolveMap(req Request, p Param) (interface{}, error) {
	if !p.Named || p.Name == "" {
		return nil, fmt.Errorf("%w: map parameter of type %s requires explicit name", ErrIllegalArgument, typeString(p.Type))
	}

	all := req.AllValues()
	m := reflect.MakeMapWithSize(p.Type, len(all))
	kt, et := p.Type.Key(), p.Type.Elem()

	for name, values := range all {
		if len(values) == 0 {
			continue
		}

		k := reflect.New(kt).Elem()
		k.SetString(name)

		v := reflect.New(et).Elem()

		if et.Kind() == reflect.String {
			v.SetString(values[0])
		} else {
			v.Set(reflect.MakeSlice(et, len(values), len(values)))

			for i, value := range values {
				v.Index(i).SetString(value)
			}
		}

		m.SetMapIndex(k, v)
	}

	return m.Interface(), nil
}

func (r *Resolver) resolveValues(req Request, p Param) (interface{}, error) {
	values := req.Values(p.Name)

	switch {
	case len(values) == 0:
		if p.HasDefault {
			values = []string{p.Default}
		} else if p.IsRequired() {
			return nil, &MissingParameterError{Name: p.Name, Type: p.Type}
		} else {
			return nil, nil
		}
	case p.HasDefault && len(values) == 1 && values[0] == "":
		values = []string{p.Default}
	}

	b := r.binder(req, p.Name)

	if p.Kind() == KindScalar {
		return bindScalar(b, values[0], p.Type)
	}

	et := p.Type.Elem()

	return collect(p.Type, len(values), func(i int) (reflect.Value, error) {
		v, err := bindScalar(b, values[i], et)
		if err != nil {
			return reflect.Value{}, err
		}

		if v == nil {
			return reflect.Zero(et), nil
		}

		return reflect.ValueOf(v), nil
	})
}

func (r *Resolver) binder(req Request, name string) Binder {
	if r.binders != nil {
		if b := r.binders.MakeBinder(req, name); b != nil {
			return b
		}
	}

	return rawBinder{}
}

func bindScalar(b Binder, raw string, t reflect.Type) (interface{}, error) {
	target := t
	if t.Kind() == reflect.Ptr {
		target = t.Elem()
	}

	v, err := b.Bind(raw, target)
	if err != nil || v == nil {
		return nil, err
	}

	if t.Kind() != reflect.Ptr {
		return v, nil
	}

	pv := reflect.New(target)
	pv.Elem().Set(reflect.ValueOf(v))

	return pv.Interface(), nil
}

// collect builds slice or array of type t with n items.
func collect(t reflect.Type, n int, item func(i int) (reflect.Value, error)) (interface{}, error) {
	var v reflect.Value

	if t.Kind() == reflect.Array {
		if n > t.Len() {
			return nil, fmt.Errorf("%w: %d values do not fit into %s", ErrIllegalArgument, n, t)
		}

		v = reflect.New(t).Elem()
	} else {
		v = reflect.MakeSlice(t, n, n)
	}

	for i := 0; i < n; i++ {
		iv, err := item(i)
		if err != nil {
			return nil, err
		}

		v.Index(i).Set(iv)
	}

	return v.Interface(), nil
}

type rawBinder struct{}

func (rawBinder) Bind(raw string, t reflect.Type) (interface{}, error) {
	if t.Kind() != reflect.String {
		return nil, fmt.Errorf("%w: no binder to convert %q to %s", ErrIllegalArgument, raw, t)
	}

	return reflect.ValueOf(raw).Convert(t).Interface(), nil
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
