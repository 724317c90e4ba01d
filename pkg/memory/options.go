package memory

import (
	v "github.com/cohesivestack/valgo"
)

// SaveOptions enumerates the recognized metadata for Save. Unrecognized
// keys go into Extra rather than expanding the signature.
type SaveOptions struct {
	Title             string         `json:"title"`
	Importance        int            `json:"importance"`
	Keywords          []string       `json:"keywords"`
	Tags              []string       `json:"tags"`
	Context           string         `json:"context"`
	Source            string         `json:"source"`
	SourceDescription string         `json:"source_description"`
	Extra             map[string]any `json:"extra,omitempty"`
}

// withDefaults fills absent optional fields with the adapter defaults.
func (opts SaveOptions) withDefaults() SaveOptions {
	if opts.Title == "" {
		opts.Title = "Untitled"
	}
	if opts.Importance == 0 {
		opts.Importance = 5
	}
	if opts.Keywords == nil {
		opts.Keywords = []string{}
	}
	if opts.Tags == nil {
		opts.Tags = []string{}
	}

	return opts
}

// Validate checks the content and options before anything is sent upstream.
func (opts SaveOptions) Validate(content string) error {
	opts = opts.withDefaults()

	val := v.Is(
		v.String(content, "content").Not().Blank(),
		v.Number(opts.Importance, "importance").Between(1, 10),
	)

	if !val.Valid() {
		return val.Error()
	}

	return nil
}
