package onboarding

import "strings"

// CodeEntry models the N-cell one-time-code input widget: one digit per
// cell, a moving focus, and a completion callback that fires exactly once
// per distinct completed value. It mirrors the keyboard behavior the
// verification screen implements so the rules can be tested without a UI.
type CodeEntry struct {
	cells         []byte // 0 means empty
	focus         int
	onComplete    func(code string)
	lastCompleted string
}

// NewCodeEntry creates a widget with n cells. onComplete may be nil.
func NewCodeEntry(n int, onComplete func(code string)) *CodeEntry {
	if n <= 0 {
		n = 6
	}
	return &CodeEntry{
		cells:      make([]byte, n),
		onComplete: onComplete,
	}
}

// TypeDigit enters a digit into the focused cell and advances focus.
// Non-digit runes are ignored.
func (c *CodeEntry) TypeDigit(r rune) {
	if r < '0' || r > '9' {
		return
	}
	c.cells[c.focus] = byte(r)
	if c.focus < len(c.cells)-1 {
		c.focus++
	}
	c.checkComplete()
}

// Backspace clears the focused cell; when the cell is already empty it moves
// focus back one cell instead.
func (c *CodeEntry) Backspace() {
	if c.cells[c.focus] != 0 {
		c.cells[c.focus] = 0
		return
	}
	if c.focus > 0 {
		c.focus--
	}
}

// Delete clears the focused cell without moving focus.
func (c *CodeEntry) Delete() {
	c.cells[c.focus] = 0
}

// Left moves focus one cell to the left without mutating any value.
func (c *CodeEntry) Left() {
	if c.focus > 0 {
		c.focus--
	}
}

// Right moves focus one cell to the right without mutating any value.
func (c *CodeEntry) Right() {
	if c.focus < len(c.cells)-1 {
		c.focus++
	}
}

// Paste strips non-digit characters from s and distributes up to N digits
// across the cells starting at cell 0. Focus lands after the last pasted
// digit.
func (c *CodeEntry) Paste(s string) {
	var digits []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, byte(r))
		}
		if len(digits) == len(c.cells) {
			break
		}
	}
	if len(digits) == 0 {
		return
	}
	for i, d := range digits {
		c.cells[i] = d
	}
	c.focus = len(digits) - 1
	if c.focus < len(c.cells)-1 {
		c.focus++
	}
	c.checkComplete()
}

// Escape clears every cell and refocuses cell 0. It is a pure state reset
// used for fast retry after a failed verification.
func (c *CodeEntry) Escape() {
	for i := range c.cells {
		c.cells[i] = 0
	}
	c.focus = 0
}

// Value returns the concatenation of all filled cells, in order, skipping
// empties.
func (c *CodeEntry) Value() string {
	var b strings.Builder
	for _, cell := range c.cells {
		if cell != 0 {
			b.WriteByte(cell)
		}
	}
	return b.String()
}

// Focus returns the index of the focused cell.
func (c *CodeEntry) Focus() int {
	return c.focus
}

// Complete reports whether every cell holds a digit.
func (c *CodeEntry) Complete() bool {
	for _, cell := range c.cells {
		if cell == 0 {
			return false
		}
	}
	return true
}

func (c *CodeEntry) checkComplete() {
	if !c.Complete() {
		return
	}
	value := c.Value()
	if value == c.lastCompleted {
		return
	}
	c.lastCompleted = value
	if c.onComplete != nil {
		c.onComplete(value)
	}
}
