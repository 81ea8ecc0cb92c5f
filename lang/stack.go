package lang

type vmStack []int32

func (s *vmStack) push(v int32) {
	*s = append(*s, v)
}

// pop reports false on underflow and leaves the stack untouched.
func (s *vmStack) pop() (int32, bool) {
	if len(*s) == 0 {
		return 0, false
	}
	var v int32
	*s, v = (*s)[:len(*s)-1], (*s)[len(*s)-1]
	return v, true
}

func (s *vmStack) depth() int {
	return len(*s)
}

// values returns a copy, bottom to top.
func (s *vmStack) values() []int32 {
	return append(make([]int32, 0, len(*s)), (*s)...)
}
