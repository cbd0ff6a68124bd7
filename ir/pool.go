package ir

import (
	"math"
	"strconv"
)

// ConstantPool de-duplicates constant nodes so that equal literals share one
// node, and so one use set.
type ConstantPool struct {
	constants []*Node
	byKey     map[string]*Node
	byGraph   map[*Graph]*Node
	keyBuf    []byte // reusable buffer for building keys
}

// NewConstantPool creates an empty pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		constants: make([]*Node, 0, 16),
		byKey:     make(map[string]*Node, 16),
		byGraph:   make(map[*Graph]*Node),
		keyBuf:    make([]byte, 0, 32),
	}
}

// GetOrCreate returns the pooled constant for value, creating it on first
// request. Values without a pool key (see key) always get a new node.
func (p *ConstantPool) GetOrCreate(value any) *Node {
	if g, ok := value.(*Graph); ok {
		if n, exists := p.byGraph[g]; exists {
			return n
		}
		n := NewConstant(g)
		p.byGraph[g] = n
		p.constants = append(p.constants, n)
		return n
	}

	key, ok := p.key(value)
	if !ok {
		n := NewConstant(value)
		p.constants = append(p.constants, n)
		return n
	}
	if n, exists := p.byKey[key]; exists {
		return n
	}
	n := NewConstant(value)
	p.byKey[key] = n
	p.constants = append(p.constants, n)
	return n
}

// key builds a string that identifies value together with its type, so that
// int 1 and float 1 stay distinct.
func (p *ConstantPool) key(value any) (string, bool) {
	b := p.keyBuf[:0]

	switch v := value.(type) {
	case nil:
		return "nil", true
	case bool:
		b = append(b, "bool:"...)
		b = strconv.AppendBool(b, v)
	case int:
		b = append(b, "int:"...)
		b = strconv.AppendInt(b, int64(v), 10)
	case int64:
		b = append(b, "int64:"...)
		b = strconv.AppendInt(b, v, 10)
	case uint64:
		b = append(b, "uint64:"...)
		b = strconv.AppendUint(b, v, 10)
	case float64:
		// Bit pattern keeps -0 and NaN payloads apart.
		b = append(b, "float64:"...)
		b = strconv.AppendUint(b, math.Float64bits(v), 16)
	case string:
		b = append(b, "string:"...)
		b = append(b, v...)
	case Primitive:
		b = append(b, "prim:"...)
		b = append(b, v...)
	case Named:
		b = append(b, "named:"...)
		b = append(b, v.name...)
	default:
		return "", false
	}
	p.keyBuf = b
	return string(b), true
}

// Lookup returns the pooled constant for value without creating one.
func (p *ConstantPool) Lookup(value any) (*Node, bool) {
	if g, ok := value.(*Graph); ok {
		n, exists := p.byGraph[g]
		return n, exists
	}
	key, ok := p.key(value)
	if !ok {
		return nil, false
	}
	n, exists := p.byKey[key]
	return n, exists
}

// Constants returns every constant created by the pool, in creation order.
func (p *ConstantPool) Constants() []*Node {
	return p.constants
}

// Count returns the number of constants created by the pool.
func (p *ConstantPool) Count() int {
	return len(p.constants)
}
