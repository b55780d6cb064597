// Package ui ties the panes, overlays and modal input together into
// the editor window and owns the frame loop.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/richinsley/vellum/bell"
	"github.com/richinsley/vellum/config"
	"github.com/richinsley/vellum/font"
	"github.com/richinsley/vellum/glfwcontext"
	"github.com/richinsley/vellum/options"
	"github.com/richinsley/vellum/record"
	"github.com/richinsley/vellum/render"
	"github.com/richinsley/vellum/syntax"
	"github.com/richinsley/vellum/text"
	"github.com/richinsley/vellum/watch"
)

const (
	defaultWidth  = 800
	defaultHeight = 600

	// maxStartPanes caps how many of the files named on the command
	// line open in their own pane; the rest become background buffers.
	maxStartPanes = 4

	defaultRecordPath = "vellum.mp4"

	// idleWait bounds how long the loop blocks for events, so disk
	// reloads still land promptly on an idle editor.
	idleWait = 0.25
)

// commands is the palette candidate list, and the corpus for the
// did-you-mean hint on a mistyped prompt command.
var commands = []string{
	"buffer_next",
	"buffer_prev",
	"cd",
	"edit",
	"number",
	"quit",
	"record_start",
	"record_stop",
	"relative_number",
	"write",
}

// Editor owns the window, the buffers and everything drawn into it.
type Editor struct {
	ctx    *glfwcontext.Context
	cfg    *config.Config
	store  *font.Store
	rctx   *render.Ctx
	logger *zap.Logger

	buffers []*text.Buffer
	hls     map[*text.Buffer]*syntax.Highlighter
	tree    *Tree

	input  Controller
	prompt Prompt
	fuzzy  Fuzzy

	bell    bell.Device
	watcher *watch.Watcher
	rec     *record.Recorder

	fps   int
	dpi   float64
	dirty bool
}

// New builds the editor from resolved options. glfwcontext
// InitGraphics must have run already.
func New(opts *options.Options, logger *zap.Logger) (*Editor, error) {
	cfg, err := config.Load(strDeref(opts.ConfigPath), logger.Named("config"))
	if err != nil {
		return nil, err
	}
	if opts.FPS != nil {
		cfg.FPS = *opts.FPS
	}
	fps := cfg.FPS
	if fps < 1 {
		fps = 1
	}

	width, height := defaultWidth, defaultHeight
	if opts.Width != nil {
		width = *opts.Width
	}
	if opts.Height != nil {
		height = *opts.Height
	}

	ctx, err := glfwcontext.New(width, height, "vellum", logger.Named("window"))
	if err != nil {
		return nil, err
	}

	store, err := font.NewStore(logger.Named("font"))
	if err != nil {
		ctx.Shutdown()
		return nil, err
	}

	rctx, err := render.NewCtx(store, logger.Named("render"))
	if err != nil {
		ctx.Shutdown()
		return nil, err
	}

	watcher, err := watch.New(logger.Named("watch"))
	if err != nil {
		rctx.Destroy()
		ctx.Shutdown()
		return nil, err
	}

	e := &Editor{
		ctx:     ctx,
		cfg:     cfg,
		store:   store,
		rctx:    rctx,
		logger:  logger,
		hls:     make(map[*text.Buffer]*syntax.Highlighter),
		bell:    bell.New(logger.Named("bell")),
		watcher: watcher,
		fps:     fps,
		dpi:     ctx.DPI(),
		dirty:   true,
	}

	if err := e.openInitial(opts.Files); err != nil {
		e.Close()
		return nil, err
	}

	fw, fh := ctx.GetFramebufferSize()
	e.tree.Layout(render.Rect{W: float32(fw), H: float32(fh)})
	ctx.SetHandler(e)

	if opts.RecordFile != nil {
		e.startRecording(*opts.RecordFile)
	}
	return e, nil
}

// openInitial loads the command line files, one pane each up to the
// split limit, or a single scratch buffer.
func (e *Editor) openInitial(files []string) error {
	if len(files) == 0 {
		buf := text.NewBuffer(e.cfg.TabSize, e.logger.Named("buffer"))
		e.buffers = []*text.Buffer{buf}
		e.hls[buf] = syntax.New("", e.logger.Named("syntax"))
		e.tree = NewTree(NewTextView(buf, e.hls[buf]))
		return nil
	}
	for i, path := range files {
		clean := filepath.Clean(path)
		buf, err := text.NewBufferFromFile(clean, e.cfg.TabSize, e.logger.Named("buffer"))
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", clean, err)
		}
		e.buffers = append(e.buffers, buf)
		e.hls[buf] = syntax.New(clean, e.logger.Named("syntax"))
		if err := e.watcher.Watch(clean); err != nil {
			e.logger.Debug("not watching file", zap.String("path", clean), zap.Error(err))
		}
		switch {
		case i == 0:
			e.tree = NewTree(NewTextView(buf, e.hls[buf]))
		case i < maxStartPanes:
			e.tree.Split(NewTextView(buf, e.hls[buf]), false)
		}
	}
	return nil
}

// Run is the frame loop. It renders on demand at the frame cap and
// blocks for events while nothing moves.
func (e *Editor) Run() {
	e.logger.Info("editor running",
		zap.Int("buffers", len(e.buffers)),
		zap.Int("fps", e.fps))

	frame := 1.0 / float64(e.fps)
	last := e.ctx.Time()
	for !e.ctx.ShouldClose() {
		if e.dirty || e.animating() || e.rec != nil {
			e.ctx.PollEvents()
		} else {
			e.ctx.WaitEventsTimeout(idleWait)
		}
		now := e.ctx.Time()
		dt := float32(now - last)
		last = now

		e.applyReloads()
		if e.stepScrolls(dt) {
			e.dirty = true
		}

		if e.dirty || e.rec != nil {
			e.drawFrame()
			e.dirty = false
			if wait := frame - (e.ctx.Time() - now); wait > 0 {
				time.Sleep(time.Duration(wait * float64(time.Second)))
			}
		}
	}
}

// Close releases everything in reverse construction order.
func (e *Editor) Close() {
	if e.rec != nil {
		if err := e.rec.Stop(); err != nil {
			e.logger.Warn("stopping recorder failed", zap.Error(err))
		}
		e.rec = nil
	}
	if e.watcher != nil {
		e.watcher.Close()
	}
	if e.bell != nil {
		e.bell.Close()
	}
	e.rctx.Destroy()
	e.ctx.Shutdown()
	e.logger.Info("editor closed")
}

func (e *Editor) animating() bool {
	for _, v := range e.tree.Leaves() {
		if v.scroll.Moving() {
			return true
		}
	}
	return false
}

func (e *Editor) stepScrolls(dt float32) bool {
	moved := false
	for _, v := range e.tree.Leaves() {
		if v.StepScroll(dt) {
			moved = true
		}
	}
	return moved
}

// applyReloads folds watcher events into the buffers. A dirty buffer
// is never clobbered; the conflict is only logged.
func (e *Editor) applyReloads() {
	for _, path := range e.watcher.Take() {
		for _, buf := range e.buffers {
			if buf.Path() != path {
				continue
			}
			if buf.Dirty() {
				e.logger.Warn("file changed on disk but buffer has unsaved edits",
					zap.String("path", path))
				continue
			}
			if err := buf.Reload(); err != nil {
				e.logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			e.logger.Debug("reloaded from disk", zap.String("path", path))
			e.dirty = true
		}
	}
}

func (e *Editor) drawFrame() {
	w, h := e.ctx.GetFramebufferSize()
	if e.rec != nil {
		w, h = e.rec.Size()
		e.rec.Bind()
	}
	ds := e.drawState()

	e.rctx.Begin(w, h)
	e.rctx.Clear(colorOf(e.cfg.Theme.Textview.Background))

	e.tree.Layout(render.Rect{W: float32(w), H: float32(h)})
	style := e.input.Style()
	for _, n := range e.tree.leafRects() {
		n.view.Draw(ds, n.rect, n == e.tree.active, style)
	}

	switch e.input.Mode() {
	case ModeCommand:
		e.prompt.Draw(ds)
	case ModeFuzzy:
		e.fuzzy.Draw(ds)
	}

	e.rctx.End()
	if e.rec != nil {
		winW, winH := e.ctx.GetFramebufferSize()
		e.rec.Capture(winW, winH)
	}
	e.ctx.SwapBuffers()
}

func (e *Editor) drawState() *drawState {
	scale := float32(e.dpi) / 72
	fixed := []string{e.cfg.Fonts.Fixed, font.FallbackFixed}
	variable := []string{e.cfg.Fonts.Variable, font.FallbackVariable}
	textPx := float32(e.cfg.Theme.Textview.TextSize) * scale
	gutterPx := float32(e.cfg.Theme.Gutter.TextSize) * scale
	return &drawState{
		rctx:           e.rctx,
		store:          e.store,
		cfg:            e.cfg,
		fixed:          fixed,
		variable:       variable,
		textPx:         textPx,
		gutterPx:       gutterPx,
		metrics:        e.store.Metrics(fixed, textPx),
		gutterMetrics:  e.store.Metrics(fixed, gutterPx),
		overlayMetrics: e.store.Metrics(variable, textPx),
	}
}

// OnChar implements glfwcontext.Handler.
func (e *Editor) OnChar(r rune) {
	e.apply(e.input.HandleChar(r))
}

// OnKey implements glfwcontext.Handler.
func (e *Editor) OnKey(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Release {
		return
	}
	k, ok := translateKey(key, mods)
	if !ok {
		return
	}
	e.apply(e.input.HandleKey(k))
}

// OnScroll implements glfwcontext.Handler. The impulse goes to the
// pane under the pointer, not the focused one.
func (e *Editor) OnScroll(xoff, yoff float64) {
	mx, my := e.ctx.CursorPos()
	view := e.tree.ViewAt(float32(mx), float32(my))
	if view == nil {
		view = e.tree.Active()
	}
	view.scroll.Impulse(float32(-xoff), float32(-yoff))
	e.dirty = true
}

// OnMouseButton implements glfwcontext.Handler. A left click focuses
// the pane and places the cursor on the clicked cluster.
func (e *Editor) OnMouseButton(button glfw.MouseButton, action glfw.Action, x, y float64) {
	if button != glfw.MouseButtonLeft || action != glfw.Press {
		return
	}
	node := e.tree.nodeAt(float32(x), float32(y))
	if node == nil {
		return
	}
	e.tree.active = node

	view := node.view
	buf := view.Buffer()
	ds := e.drawState()
	line, cluster := view.ClusterAt(ds, node.rect, float32(x), float32(y))
	if e.input.Mode() != ModeInsert {
		if n := buf.ClusterCount(line); cluster >= n && n > 0 {
			cluster = n - 1
		}
	}
	view.Cursor().MoveTo(buf, line, cluster)
	e.dirty = true
}

// OnResize implements glfwcontext.Handler.
func (e *Editor) OnResize(width, height int) {
	e.dirty = true
}

func translateKey(key glfw.Key, mods glfw.ModifierKey) (Key, bool) {
	if mods&glfw.ModControl != 0 {
		switch key {
		case glfw.KeyP:
			return KeyCtrlP, true
		case glfw.KeyN:
			return KeyCtrlN, true
		case glfw.KeyW:
			return KeyCtrlW, true
		}
		return 0, false
	}
	switch key {
	case glfw.KeyEscape:
		return KeyEscape, true
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return KeyEnter, true
	case glfw.KeyBackspace:
		return KeyBackspace, true
	case glfw.KeyTab:
		return KeyTab, true
	case glfw.KeyUp:
		return KeyUp, true
	case glfw.KeyDown:
		return KeyDown, true
	case glfw.KeyLeft:
		return KeyLeft, true
	case glfw.KeyRight:
		return KeyRight, true
	}
	return 0, false
}

// apply carries out one action from the input controller.
func (e *Editor) apply(a Action) {
	if a.Op == OpNone {
		return
	}
	e.dirty = true

	switch a.Op {
	case OpBell:
		e.bell.Ring()
		return
	case OpPromptOpen:
		e.prompt.Reset("")
		return
	case OpPromptInsert:
		e.prompt.Insert(a.Rune)
		return
	case OpPromptDeleteLeft:
		if e.prompt.Empty() {
			e.input.CancelOverlay()
			return
		}
		e.prompt.DeleteLeft()
		return
	case OpPromptLeft:
		e.prompt.Left()
		return
	case OpPromptRight:
		e.prompt.Right()
		return
	case OpPromptExecute:
		e.execute(e.prompt.Contents())
		return
	case OpPromptCancel:
		return
	case OpFuzzyOpen:
		e.fuzzy.Open(commands)
		return
	case OpFuzzyInsert:
		e.fuzzy.Insert(a.Rune)
		return
	case OpFuzzyDeleteLeft:
		if e.fuzzy.Empty() {
			e.input.CancelOverlay()
			return
		}
		e.fuzzy.DeleteLeft()
		return
	case OpFuzzyNext:
		e.fuzzy.Next()
		return
	case OpFuzzyPrev:
		e.fuzzy.Prev()
		return
	case OpFuzzyAccept:
		if sel, ok := e.fuzzy.Selected(); ok {
			e.execute(sel)
		}
		return
	case OpFuzzyCancel:
		return
	case OpSplitBelow:
		e.split(true)
		return
	case OpSplitRight:
		e.split(false)
		return
	case OpFocusNext:
		e.tree.FocusNext()
		return
	case OpCloseActive:
		e.closeActive()
		return
	}

	view := e.tree.Active()
	buf := view.Buffer()
	cur := view.Cursor()
	insert := e.input.Mode() == ModeInsert

	switch a.Op {
	case OpLeft:
		cur.Left(buf)
	case OpRight:
		cur.Right(buf, insert)
	case OpUp:
		cur.Up(buf)
	case OpDown:
		cur.Down(buf)
	case OpWordForward:
		cur.WordForward(buf)
	case OpWordBackward:
		cur.WordBackward(buf)
	case OpLineStart:
		cur.LineStart(buf)
	case OpLineEnd:
		cur.LineEnd(buf)
	case OpBufferStart:
		cur.BufferStart(buf)
	case OpBufferEnd:
		cur.BufferEnd(buf)
	case OpEnterInsert:
	case OpEnterInsertAfter:
		cur.Right(buf, true)
	case OpOpenBelow:
		cur.MoveTo(buf, cur.Line, buf.ClusterCount(cur.Line))
		buf.InsertNewline(cur)
	case OpOpenAbove:
		line := cur.Line
		cur.LineStart(buf)
		buf.InsertNewline(cur)
		cur.MoveTo(buf, line, 0)
	case OpLeaveInsert:
		cur.Left(buf)
	case OpInsertRune:
		buf.InsertText(cur, string(a.Rune))
	case OpInsertNewline:
		buf.InsertNewline(cur)
	case OpDeleteLeftChar:
		buf.DeleteLeft(cur)
	case OpDeleteRight:
		if cur.Cluster < buf.ClusterCount(cur.Line) {
			buf.DeleteRight(cur)
			if n := buf.ClusterCount(cur.Line); cur.Cluster >= n && n > 0 {
				cur.LineEnd(buf)
			}
		}
	case OpDeleteLine:
		buf.DeleteLine(cur.Line)
	case OpDeleteTo:
		e.deleteMotion(buf, cur, a.Motion)
	}

	view.EnsureCursorVisible(e.drawState(), e.tree.ActiveRect())
}

// deleteMotion is the d operator: vertical motions take whole lines,
// the rest remove the span between the cursor and the motion target.
func (e *Editor) deleteMotion(buf *text.Buffer, cur *text.Cursor, m Op) {
	switch m {
	case OpDown:
		if cur.Line+1 >= buf.LineCount() {
			e.bell.Ring()
			return
		}
		buf.DeleteLine(cur.Line)
		buf.DeleteLine(cur.Line)
	case OpUp:
		if cur.Line == 0 {
			e.bell.Ring()
			return
		}
		line := cur.Line - 1
		buf.DeleteLine(line)
		buf.DeleteLine(line)
	case OpBufferEnd:
		for n := buf.LineCount() - cur.Line; n > 0; n-- {
			buf.DeleteLine(cur.Line)
		}
	default:
		from := cur.Pos()
		to := motionTarget(buf, cur, m)
		if to == from {
			e.bell.Ring()
			return
		}
		buf.DeleteRange(from, to)
		if n := buf.ClusterCount(cur.Line); cur.Cluster >= n && n > 0 {
			cur.LineEnd(buf)
		}
	}
}

// motionTarget runs the motion on a scratch cursor and reports where
// it lands. Line end is one past the last cluster so d$ takes it too.
func motionTarget(buf *text.Buffer, cur *text.Cursor, m Op) text.Position {
	tmp := *cur
	switch m {
	case OpLeft:
		tmp.Left(buf)
	case OpRight:
		tmp.Right(buf, true)
	case OpWordForward:
		tmp.WordForward(buf)
	case OpWordBackward:
		tmp.WordBackward(buf)
	case OpLineStart:
		tmp.LineStart(buf)
	case OpLineEnd:
		tmp.MoveTo(buf, tmp.Line, buf.ClusterCount(tmp.Line))
	}
	return tmp.Pos()
}

func (e *Editor) split(below bool) {
	view := e.tree.Active()
	e.tree.Split(NewTextView(view.Buffer(), view.hl), below)
	w, h := e.ctx.GetFramebufferSize()
	e.tree.Layout(render.Rect{W: float32(w), H: float32(h)})
}

func (e *Editor) closeActive() {
	view := e.tree.CloseActive()
	if view == nil {
		e.bell.Ring()
		return
	}
	view.Detach()
	w, h := e.ctx.GetFramebufferSize()
	e.tree.Layout(render.Rect{W: float32(w), H: float32(h)})
}

// execute runs one prompt command line.
func (e *Editor) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	name := fields[0]
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	view := e.tree.Active()
	buf := view.Buffer()

	switch name {
	case "quit", "q":
		e.ctx.SetShouldClose(true)
	case "write", "w":
		var err error
		if arg != "" {
			err = buf.WriteTo(arg)
		} else {
			err = buf.Write()
		}
		if err != nil {
			e.logger.Warn("write failed", zap.Error(err))
			e.bell.Ring()
			return
		}
		e.logger.Info("wrote buffer", zap.String("path", buf.Path()))
	case "edit", "e":
		if arg == "" {
			e.bell.Ring()
			return
		}
		e.openFile(arg)
	case "cd":
		if arg == "" {
			e.bell.Ring()
			return
		}
		if err := os.Chdir(arg); err != nil {
			e.logger.Warn("cd failed", zap.Error(err))
			e.bell.Ring()
		}
	case "buffer_next":
		e.cycleBuffer(1)
	case "buffer_prev":
		e.cycleBuffer(-1)
	case "number":
		view.ToggleNumber()
	case "relative_number":
		view.ToggleRelative()
	case "record_start":
		path := arg
		if path == "" {
			path = defaultRecordPath
		}
		e.startRecording(path)
	case "record_stop":
		e.stopRecording()
	default:
		e.bell.Ring()
		if hint := Suggest(name, commands); hint != "" {
			e.logger.Warn("unknown command",
				zap.String("command", name),
				zap.String("did_you_mean", hint))
			return
		}
		e.logger.Warn("unknown command", zap.String("command", name))
	}
}

// openFile switches the active pane to path, loading it on first use.
func (e *Editor) openFile(path string) {
	clean := filepath.Clean(path)
	for _, buf := range e.buffers {
		if buf.Path() == clean {
			e.tree.Active().SetBuffer(buf, e.hls[buf])
			return
		}
	}
	buf, err := text.NewBufferFromFile(clean, e.cfg.TabSize, e.logger.Named("buffer"))
	if err != nil {
		e.logger.Warn("open failed", zap.String("path", clean), zap.Error(err))
		e.bell.Ring()
		return
	}
	e.buffers = append(e.buffers, buf)
	e.hls[buf] = syntax.New(clean, e.logger.Named("syntax"))
	if err := e.watcher.Watch(clean); err != nil {
		e.logger.Debug("not watching file", zap.String("path", clean), zap.Error(err))
	}
	e.tree.Active().SetBuffer(buf, e.hls[buf])
}

func (e *Editor) cycleBuffer(step int) {
	view := e.tree.Active()
	i := 0
	for j, buf := range e.buffers {
		if buf == view.Buffer() {
			i = j
			break
		}
	}
	next := e.buffers[(i+step+len(e.buffers))%len(e.buffers)]
	if next == view.Buffer() {
		return
	}
	view.SetBuffer(next, e.hls[next])
}

func (e *Editor) startRecording(path string) {
	if e.rec != nil {
		e.logger.Warn("already recording", zap.String("path", path))
		e.bell.Ring()
		return
	}
	w, h := e.ctx.GetFramebufferSize()
	rec, err := record.New(w, h, e.fps, path, e.logger.Named("record"))
	if err != nil {
		e.logger.Warn("recording failed to start", zap.Error(err))
		e.bell.Ring()
		return
	}
	e.rec = rec
	e.logger.Info("recording", zap.String("path", path))
}

func (e *Editor) stopRecording() {
	if e.rec == nil {
		e.bell.Ring()
		return
	}
	if err := e.rec.Stop(); err != nil {
		e.logger.Warn("recording finished with errors", zap.Error(err))
	} else {
		e.logger.Info("recording stopped")
	}
	e.rec = nil
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
