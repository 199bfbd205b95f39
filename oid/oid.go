// Package oid implements the OID (object identifier) registry external
// collaborator: a flat table mapping human names and dotted identifiers to
// (engine, mode, data) entries, queryable by name, id, data or engine. The
// registry is immutable once built and is constructed lazily on first use,
// the same pattern wcurve uses for its compiled-in curves.
package oid

import (
	"sync"

	"github.com/ak-go/gostsign/wcurve"
	"github.com/ak-go/gostsign/xerr"
)

// Engine classifies what kind of object an Entry describes.
type Engine int

const (
	EngineIdentifier Engine = iota
	EngineSignFunction
	EngineVerifyFunction
	EngineUndefined
)

// Mode further classifies an Entry within its Engine.
type Mode int

const (
	ModeAlgorithm Mode = iota
	ModeWcurveParams
	ModeUndefined
)

// Entry is one registry row: a set of aliases (names and dotted numeric
// identifiers), its engine/mode classification, and an optional payload —
// for wcurve_params entries, Data holds the *wcurve.Curve itself.
type Entry struct {
	Engine Engine
	Mode   Mode
	Names  []string
	IDs    []string
	Data   interface{}
}

func (e *Entry) hasName(name string) bool {
	for _, n := range e.Names {
		if n == name {
			return true
		}
	}
	return false
}

func (e *Entry) hasID(id string) bool {
	for _, i := range e.IDs {
		if i == id {
			return true
		}
	}
	return false
}

var (
	once     sync.Once
	registry []*Entry
)

func build() []*Entry {
	return []*Entry{
		{
			Engine: EngineSignFunction,
			Mode:   ModeAlgorithm,
			Names:  []string{"id-tc26-signwithdigest-gost3410-12-256", "sign256"},
			IDs:    []string{"1.2.643.7.1.1.3.2"},
		},
		{
			Engine: EngineSignFunction,
			Mode:   ModeAlgorithm,
			Names:  []string{"id-tc26-signwithdigest-gost3410-12-512", "sign512"},
			IDs:    []string{"1.2.643.7.1.1.3.3"},
		},
		{
			Engine: EngineVerifyFunction,
			Mode:   ModeAlgorithm,
			Names:  []string{"id-tc26-gost3410-12-256", "verify256"},
			IDs:    []string{"1.2.643.7.1.1.1.1"},
		},
		{
			Engine: EngineVerifyFunction,
			Mode:   ModeAlgorithm,
			Names:  []string{"id-tc26-gost3410-12-512", "verify512"},
			IDs:    []string{"1.2.643.7.1.1.1.2"},
		},
		{
			Engine: EngineIdentifier,
			Mode:   ModeWcurveParams,
			Names:  []string{"id-tc26-gost-3410-2012-256-paramSetTest"},
			IDs:    []string{"1.2.643.7.1.2.1.1.0", "1.2.643.2.2.35.0"},
			Data:   wcurve.Curve256(),
		},
		{
			Engine: EngineIdentifier,
			Mode:   ModeWcurveParams,
			Names:  []string{"id-tc26-gost-3410-2012-512-paramSetTest"},
			IDs:    []string{"1.2.643.7.1.2.1.2.0"},
			Data:   wcurve.Curve512(),
		},
	}
}

func all() []*Entry {
	once.Do(func() { registry = build() })
	return registry
}

// FindByName returns the entry that carries name as one of its aliases.
func FindByName(name string) (*Entry, error) {
	for _, e := range all() {
		if e.hasName(name) {
			return e, nil
		}
	}
	return nil, xerr.ErrOIDName
}

// FindByID returns the entry that carries id as one of its dotted
// identifiers.
func FindByID(id string) (*Entry, error) {
	for _, e := range all() {
		if e.hasID(id) {
			return e, nil
		}
	}
	return nil, xerr.ErrOIDID
}

// FindByData returns the entry whose Data payload equals data.
func FindByData(data interface{}) (*Entry, error) {
	for _, e := range all() {
		if e.Data == data {
			return e, nil
		}
	}
	return nil, xerr.ErrOIDID
}

// FindByEngine returns every entry with the given engine.
func FindByEngine(engine Engine) ([]*Entry, error) {
	var out []*Entry
	for _, e := range all() {
		if e.Engine == engine {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, xerr.ErrOIDEngine
	}
	return out, nil
}

// FindNext returns every entry with the given mode. The cursor-style
// iteration such a lookup usually gets in C collapses to a single slice
// here; callers range over it.
func FindNext(mode Mode) ([]*Entry, error) {
	var out []*Entry
	for _, e := range all() {
		if e.Mode == mode {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return nil, xerr.ErrOIDMode
	}
	return out, nil
}

// Curves returns every registered wcurve_params curve.
func Curves() []*wcurve.Curve {
	entries, err := FindNext(ModeWcurveParams)
	if err != nil {
		return nil
	}
	out := make([]*wcurve.Curve, 0, len(entries))
	for _, e := range entries {
		if c, ok := e.Data.(*wcurve.Curve); ok {
			out = append(out, c)
		}
	}
	return out
}
