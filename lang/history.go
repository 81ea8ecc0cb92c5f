package lang

import (
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// queue holds instruction lines not yet executed. Forward consumes the head,
// Back puts undone lines back at the head.
type queue struct {
	lines *doublylinkedlist.List
}

func newQueue() *queue {
	return &queue{lines: doublylinkedlist.New()}
}

func (q *queue) append(lines ...string) {
	for _, line := range lines {
		q.lines.Add(line)
	}
}

func (q *queue) prepend(line string) {
	q.lines.Prepend(line)
}

func (q *queue) head() (string, bool) {
	v, ok := q.lines.Get(0)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (q *queue) setHead(line string) bool {
	if q.lines.Empty() {
		return false
	}
	q.lines.Set(0, line)
	return true
}

func (q *queue) dropHead() {
	q.lines.Remove(0)
}

func (q *queue) len() int {
	return q.lines.Size()
}

func (q *queue) values() []string {
	out := make([]string, 0, q.lines.Size())
	for _, v := range q.lines.Values() {
		out = append(out, v.(string))
	}
	return out
}

// history pairs the executed-instruction log with the inverse-operation log.
// Entries are only ever pushed and popped together, so both stacks always
// have the same size.
type history struct {
	executed *arraystack.Stack // string
	inverse  *arraystack.Stack // []Instruction
}

func newHistory() *history {
	return &history{
		executed: arraystack.New(),
		inverse:  arraystack.New(),
	}
}

func (h *history) record(text string, undo []Instruction) {
	h.executed.Push(text)
	h.inverse.Push(undo)
}

func (h *history) pop() (string, []Instruction, bool) {
	text, ok := h.executed.Pop()
	if !ok {
		return "", nil, false
	}
	undo, _ := h.inverse.Pop()
	return text.(string), undo.([]Instruction), true
}

func (h *history) len() int {
	return h.executed.Size()
}

// executedValues lists executed lines oldest first.
func (h *history) executedValues() []string {
	lifo := h.executed.Values()
	out := make([]string, len(lifo))
	for i, v := range lifo {
		out[len(lifo)-1-i] = v.(string)
	}
	return out
}

// inverseValues lists inverse groups oldest first, deep-copied.
func (h *history) inverseValues() [][]Instruction {
	lifo := h.inverse.Values()
	out := make([][]Instruction, len(lifo))
	for i, v := range lifo {
		group := v.([]Instruction)
		out[len(lifo)-1-i] = append([]Instruction(nil), group...)
	}
	return out
}
