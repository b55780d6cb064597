package ui

// Mode is the modal input state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommand
	ModeFuzzy
)

// Key is a non printable key press, already translated from the
// window system.
type Key int

const (
	KeyEscape Key = iota
	KeyEnter
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyTab
	KeyCtrlP
	KeyCtrlN
	KeyCtrlW
)

// Op is one editor action the window carries out.
type Op int

const (
	OpNone Op = iota
	OpBell

	OpLeft
	OpRight
	OpUp
	OpDown
	OpWordForward
	OpWordBackward
	OpLineStart
	OpLineEnd
	OpBufferStart
	OpBufferEnd

	OpDeleteRight
	OpDeleteLine
	OpDeleteTo
	OpEnterInsert
	OpEnterInsertAfter
	OpOpenBelow
	OpOpenAbove
	OpLeaveInsert
	OpInsertRune
	OpInsertNewline
	OpDeleteLeftChar

	OpPromptOpen
	OpPromptInsert
	OpPromptDeleteLeft
	OpPromptLeft
	OpPromptRight
	OpPromptExecute
	OpPromptCancel

	OpFuzzyOpen
	OpFuzzyInsert
	OpFuzzyDeleteLeft
	OpFuzzyNext
	OpFuzzyPrev
	OpFuzzyAccept
	OpFuzzyCancel

	OpSplitBelow
	OpSplitRight
	OpFocusNext
	OpCloseActive
)

// Action pairs an Op with its payload: the rune for the insert ops,
// the motion for OpDeleteTo.
type Action struct {
	Op     Op
	Motion Op
	Rune   rune
}

func action(op Op) Action { return Action{Op: op} }

// Controller folds character and key events into editor actions. It
// owns the mode and the pending prefix states; the window owns the
// buffers the actions apply to.
type Controller struct {
	mode          Mode
	pendingDelete bool
	pendingGoto   bool
	pendingWindow bool
}

// Mode returns the current input mode.
func (c *Controller) Mode() Mode { return c.mode }

// Style is the cursor shape for the current state.
func (c *Controller) Style() CursorStyle {
	switch {
	case c.mode == ModeInsert:
		return CursorBeam
	case c.pendingDelete:
		return CursorUnderline
	default:
		return CursorBlock
	}
}

// CancelOverlay drops back to normal mode. The window calls it when
// it closes an overlay on its own, like backspace on an empty prompt.
func (c *Controller) CancelOverlay() {
	c.mode = ModeNormal
}

// HandleChar processes one typed character.
func (c *Controller) HandleChar(r rune) Action {
	switch c.mode {
	case ModeInsert:
		return Action{Op: OpInsertRune, Rune: r}
	case ModeCommand:
		return Action{Op: OpPromptInsert, Rune: r}
	case ModeFuzzy:
		return Action{Op: OpFuzzyInsert, Rune: r}
	}
	return c.normalChar(r)
}

func (c *Controller) normalChar(r rune) Action {
	if c.pendingWindow {
		c.pendingWindow = false
		switch r {
		case 's':
			return action(OpSplitBelow)
		case 'v':
			return action(OpSplitRight)
		case 'w':
			return action(OpFocusNext)
		case 'q':
			return action(OpCloseActive)
		}
		return action(OpBell)
	}
	if c.pendingDelete {
		c.pendingDelete = false
		if r == 'd' {
			return action(OpDeleteLine)
		}
		if m, ok := motionFor(r); ok {
			return Action{Op: OpDeleteTo, Motion: m}
		}
		return action(OpBell)
	}
	if c.pendingGoto {
		c.pendingGoto = false
		if r == 'g' {
			return action(OpBufferStart)
		}
		return action(OpBell)
	}

	if m, ok := motionFor(r); ok {
		return action(m)
	}

	switch r {
	case 'g':
		c.pendingGoto = true
		return action(OpNone)
	case 'x':
		return action(OpDeleteRight)
	case 'd':
		c.pendingDelete = true
		return action(OpNone)
	case 'i':
		c.mode = ModeInsert
		return action(OpEnterInsert)
	case 'a':
		c.mode = ModeInsert
		return action(OpEnterInsertAfter)
	case 'o':
		c.mode = ModeInsert
		return action(OpOpenBelow)
	case 'O':
		c.mode = ModeInsert
		return action(OpOpenAbove)
	case ':':
		c.mode = ModeCommand
		return action(OpPromptOpen)
	}
	return action(OpBell)
}

// motionFor maps a normal mode motion character to its op. 'g' is not
// here; it is a prefix, not a complete motion.
func motionFor(r rune) (Op, bool) {
	switch r {
	case 'h':
		return OpLeft, true
	case 'j':
		return OpDown, true
	case 'k':
		return OpUp, true
	case 'l':
		return OpRight, true
	case 'w':
		return OpWordForward, true
	case 'b':
		return OpWordBackward, true
	case '0':
		return OpLineStart, true
	case '$':
		return OpLineEnd, true
	case 'G':
		return OpBufferEnd, true
	}
	return OpNone, false
}

// HandleKey processes one non printable key press.
func (c *Controller) HandleKey(k Key) Action {
	switch c.mode {
	case ModeInsert:
		return c.insertKey(k)
	case ModeCommand:
		return c.commandKey(k)
	case ModeFuzzy:
		return c.fuzzyKey(k)
	}
	return c.normalKey(k)
}

func (c *Controller) normalKey(k Key) Action {
	if c.pendingDelete || c.pendingGoto || c.pendingWindow {
		if k == KeyEscape {
			c.pendingDelete = false
			c.pendingGoto = false
			c.pendingWindow = false
			return action(OpNone)
		}
	}
	switch k {
	case KeyLeft:
		return action(OpLeft)
	case KeyRight:
		return action(OpRight)
	case KeyUp:
		return action(OpUp)
	case KeyDown:
		return action(OpDown)
	case KeyCtrlP:
		c.mode = ModeFuzzy
		return action(OpFuzzyOpen)
	case KeyCtrlW:
		c.pendingWindow = true
		return action(OpNone)
	}
	return action(OpNone)
}

func (c *Controller) insertKey(k Key) Action {
	switch k {
	case KeyEscape:
		c.mode = ModeNormal
		return action(OpLeaveInsert)
	case KeyEnter:
		return action(OpInsertNewline)
	case KeyBackspace:
		return action(OpDeleteLeftChar)
	case KeyTab:
		return Action{Op: OpInsertRune, Rune: '\t'}
	case KeyLeft:
		return action(OpLeft)
	case KeyRight:
		return action(OpRight)
	case KeyUp:
		return action(OpUp)
	case KeyDown:
		return action(OpDown)
	}
	return action(OpNone)
}

func (c *Controller) commandKey(k Key) Action {
	switch k {
	case KeyEscape:
		c.mode = ModeNormal
		return action(OpPromptCancel)
	case KeyEnter:
		c.mode = ModeNormal
		return action(OpPromptExecute)
	case KeyBackspace:
		return action(OpPromptDeleteLeft)
	case KeyLeft:
		return action(OpPromptLeft)
	case KeyRight:
		return action(OpPromptRight)
	}
	return action(OpNone)
}

func (c *Controller) fuzzyKey(k Key) Action {
	switch k {
	case KeyEscape:
		c.mode = ModeNormal
		return action(OpFuzzyCancel)
	case KeyEnter:
		c.mode = ModeNormal
		return action(OpFuzzyAccept)
	case KeyBackspace:
		return action(OpFuzzyDeleteLeft)
	case KeyDown, KeyCtrlN:
		return action(OpFuzzyNext)
	case KeyUp, KeyCtrlP:
		return action(OpFuzzyPrev)
	}
	return action(OpNone)
}
