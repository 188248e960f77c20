package cache

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/aledsdavies/lumen/pkgs/il"
)

// wireNode is the tagged-union CBOR form of il.Node, mirroring how
// core/planfmt's CanonicalNode flattens a small closed set of execution-tree
// variants into one struct keyed by Kind. Tag nodes are unwrapped during
// encoding: a dumped IL artifact describes compiled shape only, and a
// decoded tree carries no Tag nodes and no source provenance.
type wireNode struct {
	Kind byte `cbor:"1,keyasint"`

	ValType byte   `cbor:"2,keyasint,omitempty"`
	ValArg  string `cbor:"3,keyasint,omitempty"`

	Ups int `cbor:"4,keyasint,omitempty"`
	Pos int `cbor:"5,keyasint,omitempty"`

	Body *wireNode `cbor:"6,keyasint,omitempty"`

	Fn   *wireNode  `cbor:"7,keyasint,omitempty"`
	Args []wireNode `cbor:"8,keyasint,omitempty"`

	ErrDesc string `cbor:"9,keyasint,omitempty"`
}

const (
	wireVal byte = iota + 1
	wireArg
	wireFun
	wireApp
	wireErr
)

func toWire(n il.Node) (wireNode, error) {
	switch x := n.(type) {
	case *il.Val:
		return wireNode{Kind: wireVal, ValType: byte(x.Type), ValArg: x.Arg}, nil

	case *il.Arg:
		return wireNode{Kind: wireArg, Ups: x.Ups, Pos: x.Pos}, nil

	case *il.Fun:
		body, err := toWire(x.Body)
		if err != nil {
			return wireNode{}, err
		}
		return wireNode{Kind: wireFun, Body: &body}, nil

	case *il.App:
		fn, err := toWire(x.Fn)
		if err != nil {
			return wireNode{}, err
		}
		args := make([]wireNode, len(x.Args))
		for i, a := range x.Args {
			w, err := toWire(a)
			if err != nil {
				return wireNode{}, err
			}
			args[i] = w
		}
		return wireNode{Kind: wireApp, Fn: &fn, Args: args}, nil

	case *il.Err:
		return wireNode{Kind: wireErr, ErrDesc: x.Desc}, nil

	case *il.Tag:
		return toWire(il.Unwrap(x))

	default:
		return wireNode{}, fmt.Errorf("cache: unencodable IL node %T", n)
	}
}

func fromWire(w wireNode) (il.Node, error) {
	switch w.Kind {
	case wireVal:
		return &il.Val{Type: il.ValType(w.ValType), Arg: w.ValArg}, nil

	case wireArg:
		return &il.Arg{Ups: w.Ups, Pos: w.Pos}, nil

	case wireFun:
		if w.Body == nil {
			return nil, fmt.Errorf("cache: Fun node missing body")
		}
		body, err := fromWire(*w.Body)
		if err != nil {
			return nil, err
		}
		return &il.Fun{Body: body}, nil

	case wireApp:
		if w.Fn == nil {
			return nil, fmt.Errorf("cache: App node missing fn")
		}
		fn, err := fromWire(*w.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]il.Node, len(w.Args))
		for i, a := range w.Args {
			n, err := fromWire(a)
			if err != nil {
				return nil, err
			}
			args[i] = n
		}
		return &il.App{Fn: fn, Args: args}, nil

	case wireErr:
		return &il.Err{Desc: w.ErrDesc}, nil

	default:
		return nil, fmt.Errorf("cache: unknown wire kind %d", w.Kind)
	}
}

// EncodeIL produces a deterministic CBOR encoding of node, for the
// --dump-il CLI flag and for round-tripping a compiled artifact between
// runs.
func EncodeIL(node il.Node) ([]byte, error) {
	w, err := toWire(node)
	if err != nil {
		return nil, err
	}
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("cache: building CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("cache: CBOR encoding IL: %w", err)
	}
	return data, nil
}

// DecodeIL reverses EncodeIL.
func DecodeIL(data []byte) (il.Node, error) {
	var w wireNode
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("cache: CBOR decoding IL: %w", err)
	}
	return fromWire(w)
}
