package vm

// Chunk is one compiled unit: the flat instruction sequence and its constant
// pool. It is an in-process intermediate representation; nothing serializes
// it.
type Chunk struct {
	Code      []Instr
	Constants []Value
}

func NewChunk() *Chunk {
	return &Chunk{}
}

// AddConstant appends a value to the pool and returns its index.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}
