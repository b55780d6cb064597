package options

// Options carries everything the CLI layer resolves before the editor
// starts. Pointer fields distinguish "unset" from zero values so config
// file entries are not clobbered by flag defaults.
type Options struct {
	ConfigPath *string
	Width      *int
	Height     *int
	FPS        *int
	RecordFile *string // when set, session capture starts armed with this output path
	Verbose    *bool
	Files      []string // files to open, one pane each up to the split limit
}
