package datescrub

// Config holds the tunable knowledge about the export format.
// The timestamp layouts are data rather than code because the repertoire
// of formats is discovered empirically as new exports turn up.
type Config struct {
	// EntryClasses are the class names marking content entries.
	EntryClasses []string `yaml:"entry_classes" validate:"required,min=1,dive,required,classname"`

	// Layouts are timestamp layouts in the timestamp package's layout language.
	Layouts []string `yaml:"layouts" validate:"required,min=1,dive,required"`

	// MarkupExtensions are the archive member extensions routed through the scrubber.
	MarkupExtensions []string `yaml:"markup_extensions" validate:"required,min=1,dive,startswith=."`

	// MediaTags are the element names whose src attribute references an asset.
	MediaTags []string `yaml:"media_tags" validate:"required,min=1,dive,required,alpha"`

	// IgnoredMedia are placeholder paths that never exist in the archive.
	IgnoredMedia []string `yaml:"ignored_media" validate:"dive,required"`

	// MaxCandidateLength bounds the length of a fragment handed to normalization.
	MaxCandidateLength int `yaml:"max_candidate_length" validate:"min=16,max=4096"`

	// OutputSuffix is appended to the input file name when no output path is given.
	OutputSuffix string `yaml:"output_suffix" validate:"required,excludesall=/"`
}

// Default configuration values.
const (
	DefaultMaxCandidateLength = 64
	DefaultOutputSuffix       = "_CLEANED"
	NoneIconPath              = "comments_and_reactions/icons/none.png"
)

// DefaultLayouts covers the timestamp formats seen in exports so far, e.g.
// "Oct 05, 2012 4:58:09pm", "August 3, 2021 at 10:11 AM" and
// "Jul 14, 2023, 5:32 PM".
var DefaultLayouts = []string{
	"{month} {day}, {year} {hour}:{minute}[:{second}][ ]{meridiem}",
	"{month} {day}, {year} at {hour}:{minute}[:{second}][ ]{meridiem}",
	"{month} {day}, {year}, {hour}:{minute}[:{second}][ ]{meridiem}",
}

// DefaultConfig returns the configuration matching the known export format.
func DefaultConfig() *Config {
	return &Config{
		EntryClasses:       []string{"_3-95", "_2pi3"},
		Layouts:            append([]string(nil), DefaultLayouts...),
		MarkupExtensions:   []string{".html"},
		MediaTags:          []string{"img", "video"},
		IgnoredMedia:       []string{NoneIconPath},
		MaxCandidateLength: DefaultMaxCandidateLength,
		OutputSuffix:       DefaultOutputSuffix,
	}
}
