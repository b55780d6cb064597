// Package record captures rendered frames into an H.264 file. The
// editor draws into the recorder's framebuffer; pixel readback rides
// a PBO ring so the GPU never stalls the frame loop, and an ffmpeg
// process consumes the raw frames from a pipe.
package record

import (
	"fmt"
	"io"

	gl "github.com/go-gl/gl/v3.3-core/gl"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"github.com/richinsley/vellum/opengl"
)

const (
	// numBuffers is the frame queue depth between capture and encode.
	numBuffers = 3
	// numPBOs staggers readback one frame behind rendering.
	numPBOs = 2

	bytesPerPixel = 4
)

// Frame is one rendered frame ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Recorder owns the offscreen target, the PBO ring and the encoder
// goroutine. All methods except Stop's wait run on the GL thread.
type Recorder struct {
	fbo    *opengl.Framebuffer
	pbos   [numPBOs]uint32
	idx    int
	frames int64

	frameChan chan *Frame
	doneChan  chan error
	logger    *zap.Logger
}

// New builds a recorder writing to path and launches the encoder.
// Dimensions round down to even for the 4:2:0 output format.
func New(width, height, fps int, path string, logger *zap.Logger) (*Recorder, error) {
	width &^= 1
	height &^= 1
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("recording area %dx%d is too small", width, height)
	}

	fbo, err := opengl.NewFramebuffer(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create recording target: %w", err)
	}

	r := &Recorder{
		fbo:       fbo,
		frameChan: make(chan *Frame, numBuffers),
		doneChan:  make(chan error, 1),
		logger:    logger,
	}

	bufferSize := width * height * bytesPerPixel
	gl.GenBuffers(numPBOs, &r.pbos[0])
	for _, pbo := range r.pbos {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, pbo)
		gl.BufferData(gl.PIXEL_PACK_BUFFER, bufferSize, nil, gl.STREAM_READ)
	}
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)

	go r.runEncoder(width, height, fps, path)
	return r, nil
}

// Size returns the recording dimensions.
func (r *Recorder) Size() (int, int) {
	return r.fbo.Size()
}

// Bind directs the frame's draws into the recording target.
func (r *Recorder) Bind() {
	r.fbo.Bind()
}

// Capture reads the finished frame back and puts the picture on
// screen. Readback is asynchronous: the frame issued now is mapped
// and sent on the next call.
func (r *Recorder) Capture(winWidth, winHeight int) {
	w, h := r.fbo.Size()
	bufferSize := w * h * bytesPerPixel

	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, r.pbos[r.idx])
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, nil)

	if r.frames > 0 {
		gl.BindBuffer(gl.PIXEL_PACK_BUFFER, r.pbos[r.idx^1])
		ptr := gl.MapBufferRange(gl.PIXEL_PACK_BUFFER, 0, bufferSize, gl.MAP_READ_BIT)
		if ptr != nil {
			pixels := make([]byte, bufferSize)
			copy(pixels, (*[1 << 30]byte)(ptr)[:bufferSize:bufferSize])
			gl.UnmapBuffer(gl.PIXEL_PACK_BUFFER)

			frame := &Frame{Pixels: pixels, PTS: r.frames - 1}
			select {
			case r.frameChan <- frame:
			default:
				r.logger.Warn("frame queue full, dropping frame",
					zap.Int64("pts", frame.PTS))
			}
		} else {
			r.logger.Warn("failed to map pixel buffer")
		}
	}
	gl.BindBuffer(gl.PIXEL_PACK_BUFFER, 0)

	r.idx ^= 1
	r.frames++

	r.fbo.Unbind()
	r.fbo.BlitToScreen(winWidth, winHeight)
}

// Stop flushes the queue, waits for ffmpeg to finalize the file and
// releases the GL objects.
func (r *Recorder) Stop() error {
	close(r.frameChan)
	err := <-r.doneChan

	gl.DeleteBuffers(numPBOs, &r.pbos[0])
	r.fbo.Destroy()

	r.logger.Info("recording finalized", zap.Int64("frames", r.frames))
	return err
}

// runEncoder is the consumer: it feeds raw frames into ffmpeg until
// the frame channel closes.
func (r *Recorder) runEncoder(width, height, fps int, path string) {
	pipeReader, pipeWriter := io.Pipe()

	inputArgs := ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": fps,
	}
	outputArgs := ffmpeg.KwArgs{
		"c:v":     "libx264",
		"pix_fmt": "yuv420p",
		// GL reads rows bottom up.
		"vf": "vflip",
	}

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(path, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	errc := make(chan error, 1)
	go func() {
		errc <- ffmpegCmd.Run()
	}()

	if err := streamFrames(pipeWriter, r.frameChan); err != nil {
		r.logger.Warn("frame pipe broke", zap.Error(err))
	}
	pipeWriter.Close()
	r.doneChan <- <-errc
}

// streamFrames copies frames to w in order until ch closes.
func streamFrames(w io.Writer, ch <-chan *Frame) error {
	for frame := range ch {
		if _, err := w.Write(frame.Pixels); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", frame.PTS, err)
		}
	}
	return nil
}
